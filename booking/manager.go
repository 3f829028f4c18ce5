package booking

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/finance"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/utils"
)

// DefaultSlotMinutes is the booking window when the selected services carry
// no duration.
const DefaultSlotMinutes = 30

// Store is the transactional persistence the manager needs. Transact runs
// fn inside one database transaction and hands it a Store bound to that
// transaction; LockProfessional must take a row lock there, which is what
// serializes concurrent booking attempts for the same professional across
// processes.
type Store interface {
	Transact(ctx context.Context, fn func(Store) error) error
	LockProfessional(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindOverlapping(ctx context.Context, professionalID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (*models.Booking, error)
	FindServices(ctx context.Context, ids []uuid.UUID) ([]models.Service, error)
	CreateClient(ctx context.Context, u *models.User) error
	CreateBooking(ctx context.Context, b *models.Booking) error
	SaveBooking(ctx context.Context, b *models.Booking) error
	FindBookingForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ReplaceServices(ctx context.Context, bookingID uuid.UUID, services []models.Service) error
}

type LedgerAppender interface {
	AppendAll(ctx context.Context, entries []models.LedgerEntry) error
}

// Manager owns the booking lifecycle: atomic creation with conflict
// checking and client provisioning, and the one-time completion transition
// that records the payment split in the ledger.
type Manager struct {
	store    Store
	ledger   LedgerAppender
	resolver *finance.CommissionResolver
	settings finance.SettingsSource
}

func NewManager(store Store, ledger LedgerAppender, resolver *finance.CommissionResolver, settings finance.SettingsSource) *Manager {
	return &Manager{store: store, ledger: ledger, resolver: resolver, settings: settings}
}

type CreateInput struct {
	ClientID       *uuid.UUID
	ClientName     string
	ProfessionalID uuid.UUID
	StartTime      time.Time
	PaymentMethod  string
	Notes          string
	ServiceIDs     []uuid.UUID
}

type UpdateInput struct {
	StartTime     *time.Time
	ServiceIDs    []uuid.UUID // nil means unchanged; a replace-set otherwise
	PaymentMethod *string
	Notes         *string
	Active        *bool
	Finished      *bool
	CreatedBy     string
}

type CompleteOptions struct {
	ProductCostCents int64
	CreatedBy        string
}

// Create books an appointment inside a single transaction: professional row
// lock, overlap check, optional client provisioning, booking insert and the
// service replace-set. Any failure rolls everything back, so a partial
// booking is never observable.
func (m *Manager) Create(ctx context.Context, in CreateInput) (*models.Booking, error) {
	if in.ClientID == nil && strings.TrimSpace(in.ClientName) == "" {
		return nil, fmt.Errorf("%w: client name or id is required", ErrValidation)
	}
	if in.ProfessionalID == uuid.Nil {
		return nil, fmt.Errorf("%w: professional is required", ErrValidation)
	}
	if in.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: start time is required", ErrValidation)
	}
	if len(in.ServiceIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one service is required", ErrValidation)
	}

	var created *models.Booking
	err := m.store.Transact(ctx, func(s Store) error {
		professional, err := s.LockProfessional(ctx, in.ProfessionalID)
		if err != nil {
			return err
		}
		if professional == nil {
			return fmt.Errorf("professional %s: %w", in.ProfessionalID, ErrNotFound)
		}
		if professional.Role != models.RoleProfessional {
			return fmt.Errorf("%w: account %s is not a professional", ErrValidation, in.ProfessionalID)
		}

		services, err := s.FindServices(ctx, in.ServiceIDs)
		if err != nil {
			return err
		}
		if len(services) != len(in.ServiceIDs) {
			return fmt.Errorf("service: %w", ErrNotFound)
		}

		end := in.StartTime.Add(slotDuration(services))
		conflict, err := s.FindOverlapping(ctx, in.ProfessionalID, in.StartTime, end, uuid.Nil)
		if err != nil {
			return err
		}
		if conflict != nil {
			return fmt.Errorf("%w: %s already booked from %s to %s", ErrConflict,
				in.ProfessionalID, conflict.StartTime.Format(time.RFC3339), conflict.EndTime.Format(time.RFC3339))
		}

		clientID := uuid.Nil
		if in.ClientID != nil {
			clientID = *in.ClientID
		} else {
			first, last := utils.SplitName(in.ClientName)
			client := &models.User{
				FirstName: first,
				LastName:  last,
				Role:      models.RoleClient,
				IsActive:  true,
			}
			if err := s.CreateClient(ctx, client); err != nil {
				return err
			}
			clientID = client.ID
		}

		paymentMethod := in.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = models.PaymentMethodCash
		}

		b := &models.Booking{
			ClientID:       clientID,
			ProfessionalID: in.ProfessionalID,
			StartTime:      in.StartTime,
			EndTime:        end,
			Active:         true,
			PaymentMethod:  paymentMethod,
			Notes:          in.Notes,
		}
		if err := s.CreateBooking(ctx, b); err != nil {
			return err
		}
		if err := s.ReplaceServices(ctx, b.ID, services); err != nil {
			return err
		}

		for _, svc := range services {
			b.Items = append(b.Items, models.BookingService{
				BookingID:   b.ID,
				ServiceID:   svc.ID,
				ServiceName: svc.Name,
				PriceCents:  svc.PriceCents,
			})
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update edits a booking. Start time or service changes re-run the overlap
// check; service ids are a replace-set. A finished=true transition triggers
// the one-time completion flow after the edit commits.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Booking, error) {
	var updated *models.Booking
	err := m.store.Transact(ctx, func(s Store) error {
		b, err := s.FindBookingForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("booking %s: %w", id, ErrNotFound)
		}

		var services []models.Service
		if in.ServiceIDs != nil {
			services, err = s.FindServices(ctx, in.ServiceIDs)
			if err != nil {
				return err
			}
			if len(services) != len(in.ServiceIDs) {
				return fmt.Errorf("service: %w", ErrNotFound)
			}
		}

		window := b.EndTime.Sub(b.StartTime)
		if services != nil {
			window = slotDuration(services)
		}
		if in.StartTime != nil {
			b.StartTime = *in.StartTime
		}
		if in.StartTime != nil || services != nil {
			// Lock the professional row before re-checking overlaps so a
			// concurrent Create for the same professional cannot slip a
			// conflicting booking in between the check and the commit.
			professional, err := s.LockProfessional(ctx, b.ProfessionalID)
			if err != nil {
				return err
			}
			if professional == nil {
				return fmt.Errorf("professional %s: %w", b.ProfessionalID, ErrNotFound)
			}

			b.EndTime = b.StartTime.Add(window)
			conflict, err := s.FindOverlapping(ctx, b.ProfessionalID, b.StartTime, b.EndTime, b.ID)
			if err != nil {
				return err
			}
			if conflict != nil {
				return fmt.Errorf("%w: %s already booked from %s to %s", ErrConflict,
					b.ProfessionalID, conflict.StartTime.Format(time.RFC3339), conflict.EndTime.Format(time.RFC3339))
			}
		}
		if in.PaymentMethod != nil {
			b.PaymentMethod = *in.PaymentMethod
		}
		if in.Notes != nil {
			b.Notes = *in.Notes
		}
		if in.Active != nil {
			b.Active = *in.Active
		}

		if services != nil {
			if err := s.ReplaceServices(ctx, b.ID, services); err != nil {
				return err
			}
			b.Items = nil
			for _, svc := range services {
				b.Items = append(b.Items, models.BookingService{
					BookingID:   b.ID,
					ServiceID:   svc.ID,
					ServiceName: svc.Name,
					PriceCents:  svc.PriceCents,
				})
			}
		}

		if err := s.SaveBooking(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.Finished != nil && *in.Finished && !updated.Completed {
		completed, _, err := m.MarkCompleted(ctx, id, CompleteOptions{CreatedBy: in.CreatedBy})
		if err != nil {
			return nil, err
		}
		return completed, nil
	}
	return updated, nil
}

// MarkCompleted flips the booking to completed exactly once and records the
// payment split in the ledger. Idempotent: a second call produces no new
// entries. The ledger append happens after the completion commit; a failed
// append is logged for reconciliation and never rolls the booking back; the
// virtual projector covers the gap until then. Returns the booking and how
// many entries were written.
func (m *Manager) MarkCompleted(ctx context.Context, id uuid.UUID, opts CompleteOptions) (*models.Booking, int, error) {
	var b *models.Booking
	already := false
	err := m.store.Transact(ctx, func(s Store) error {
		var err error
		b, err = s.FindBookingForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("booking %s: %w", id, ErrNotFound)
		}
		if b.Completed {
			already = true
			return nil
		}
		now := time.Now()
		b.Completed = true
		b.CompletedAt = &now
		return s.SaveBooking(ctx, b)
	})
	if err != nil {
		return nil, 0, err
	}
	if already {
		return b, 0, nil
	}

	entries := m.ledgerEntries(ctx, b, opts)
	if err := m.ledger.AppendAll(ctx, entries); err != nil {
		// The booking state is the source of truth; the ledger is a derived
		// record the projector can rebuild. Log and leave for reconciliation.
		log.Printf("[booking] ledger recording failed for booking %s, left for reconciliation: %v", b.ID, err)
		return b, 0, nil
	}
	return b, len(entries), nil
}

// ledgerEntries computes the split per service line and folds the results
// into one INCOME entry plus up to four EXPENSE entries.
func (m *Manager) ledgerEntries(ctx context.Context, b *models.Booking, opts CompleteOptions) []models.LedgerEntry {
	gatewayRate, taxRate, partner, defaultRate := m.companyRates(ctx)
	if !models.GatewayFeeApplies(b.PaymentMethod) {
		gatewayRate = 0
	}

	var gross, commission, gatewayFee, tax int64
	var lastSplit finance.Breakdown
	for i, item := range b.Items {
		rate, err := m.resolver.Resolve(ctx, item.ServiceID, b.ProfessionalID)
		if err != nil {
			log.Printf("[booking] commission resolution failed for booking %s service %s, using default rate: %v",
				b.ID, item.ServiceID, err)
			rate = defaultRate
		}
		in := finance.SplitInput{
			GrossCents:     item.PriceCents,
			CommissionRate: rate,
			GatewayFeeRate: gatewayRate,
			TaxRate:        taxRate,
			PartnerSalon:   partner,
		}
		if i == len(b.Items)-1 {
			in.ProductCostCents = opts.ProductCostCents
		}
		split := finance.Split(in)
		gross += split.GrossCents
		commission += split.ProfessionalCommissionCents
		gatewayFee += split.OperationalCosts.GatewayFeeCents
		tax += split.Taxes.TotalTaxCents
		lastSplit = split
	}

	bookingID := b.ID
	professionalID := b.ProfessionalID
	date := time.Now()
	if b.CompletedAt != nil {
		date = *b.CompletedAt
	}
	metadata := models.JSONB(lastSplit.Metadata())

	entries := []models.LedgerEntry{{
		TransactionType: models.TransactionIncome,
		Category:        models.CategoryServicePayment,
		AmountCents:     gross,
		BookingID:       &bookingID,
		ProfessionalID:  &professionalID,
		Description:     "Service payment",
		Metadata:        metadata,
		TransactionDate: date,
		CreatedBy:       opts.CreatedBy,
	}}
	expense := func(category models.LedgerCategory, amount int64, description string) {
		if amount == 0 {
			return
		}
		entries = append(entries, models.LedgerEntry{
			TransactionType: models.TransactionExpense,
			Category:        category,
			AmountCents:     amount,
			BookingID:       &bookingID,
			ProfessionalID:  &professionalID,
			Description:     description,
			Metadata:        metadata,
			TransactionDate: date,
			CreatedBy:       opts.CreatedBy,
		})
	}
	expense(models.CategoryCommissionPayment, commission, "Professional commission")
	expense(models.CategoryGatewayFee, gatewayFee, "Payment gateway fee")
	expense(models.CategoryTaxPayment, tax, "Tax withheld")
	expense(models.CategoryProductCost, opts.ProductCostCents, "Product cost")
	return entries
}

func (m *Manager) companyRates(ctx context.Context) (gatewayRate, taxRate float64, partner bool, defaultRate float64) {
	settings, err := m.settings.Get(ctx)
	if err != nil || settings == nil {
		log.Printf("[booking] company settings unavailable, recording with zero rates: %v", err)
		return 0, 0, false, finance.FallbackCommissionRate
	}
	return settings.GatewayFeeRate.InexactFloat64(),
		settings.TaxRate.InexactFloat64(),
		settings.PartnerSalon,
		settings.DefaultCommissionRate.InexactFloat64()
}

func slotDuration(services []models.Service) time.Duration {
	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}
	if total < DefaultSlotMinutes {
		total = DefaultSlotMinutes
	}
	return time.Duration(total) * time.Minute
}

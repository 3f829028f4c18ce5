package finance

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
)

// CompletedBooking is the plain joined view the projector works on: one
// completed booking plus its snapshotted service lines.
type CompletedBooking struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	CompletedAt    time.Time
	PaymentMethod  string
	Lines          []BookingLine
}

type BookingLine struct {
	ServiceID  uuid.UUID
	PriceCents int64
}

// BookingSource lists completed bookings in a range that have no persisted
// INCOME/SERVICE_PAYMENT entry referencing them.
type BookingSource interface {
	CompletedWithoutIncome(ctx context.Context, from, to time.Time) ([]CompletedBooking, error)
}

// Projector synthesizes ledger-equivalent entries for completed bookings
// the ledger never recorded, so aggregate reports are correct without a
// backfill migration and without double counting once real entries exist.
type Projector struct {
	bookings BookingSource
	resolver *CommissionResolver
	settings SettingsSource
}

func NewProjector(bookings BookingSource, resolver *CommissionResolver, settings SettingsSource) *Projector {
	return &Projector{bookings: bookings, resolver: resolver, settings: settings}
}

// Project returns the virtual entries for the range: per uncovered booking,
// one INCOME entry and up to four EXPENSE entries (commission, gateway fee,
// tax, product cost), zero amounts omitted. Reporting must degrade
// gracefully: a failed rate lookup falls back to a naive default split for
// that line instead of failing the whole projection.
func (p *Projector) Project(ctx context.Context, from, to time.Time) ([]Entry, error) {
	bookings, err := p.bookings.CompletedWithoutIncome(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, nil
	}

	gatewayRate, taxRate, partner, defaultRate := p.companyRates(ctx)

	var entries []Entry
	for _, b := range bookings {
		entries = append(entries, p.projectBooking(ctx, b, gatewayRate, taxRate, partner, defaultRate)...)
	}
	return entries, nil
}

func (p *Projector) companyRates(ctx context.Context) (gatewayRate, taxRate float64, partner bool, defaultRate float64) {
	settings, err := p.settings.Get(ctx)
	if err != nil || settings == nil {
		// Degrade to fee/tax unknown rather than failing the report.
		log.Printf("[finance] company settings unavailable for projection: %v", err)
		return 0, 0, false, FallbackCommissionRate
	}
	return settings.GatewayFeeRate.InexactFloat64(),
		settings.TaxRate.InexactFloat64(),
		settings.PartnerSalon,
		settings.DefaultCommissionRate.InexactFloat64()
}

func (p *Projector) projectBooking(ctx context.Context, b CompletedBooking, gatewayRate, taxRate float64, partner bool, defaultRate float64) []Entry {
	lineGatewayRate := 0.0
	if models.GatewayFeeApplies(b.PaymentMethod) {
		lineGatewayRate = gatewayRate
	}

	var gross, commission, gatewayFee, tax, productCost int64
	for _, line := range b.Lines {
		rate, err := p.resolver.Resolve(ctx, line.ServiceID, b.ProfessionalID)
		if err != nil {
			// Per-line fallback: the company default rate, fee and tax
			// still applied from settings.
			log.Printf("[finance] commission resolution failed for booking %s service %s, using default rate: %v",
				b.ID, line.ServiceID, err)
			rate = defaultRate
		}
		split := Split(SplitInput{
			GrossCents:     line.PriceCents,
			CommissionRate: rate,
			GatewayFeeRate: lineGatewayRate,
			TaxRate:        taxRate,
			PartnerSalon:   partner,
		})
		gross += split.GrossCents
		commission += split.ProfessionalCommissionCents
		gatewayFee += split.OperationalCosts.GatewayFeeCents
		tax += split.Taxes.TotalTaxCents
		productCost += split.OperationalCosts.ProductCostCents
	}

	bookingID := b.ID
	professionalID := b.ProfessionalID
	entries := []Entry{{
		ID:              virtualIDPrefix + "income-" + bookingID.String(),
		TransactionType: models.TransactionIncome,
		Category:        models.CategoryServicePayment,
		AmountCents:     gross,
		BookingID:       &bookingID,
		ProfessionalID:  &professionalID,
		Description:     "Projected service payment",
		TransactionDate: b.CompletedAt,
		Virtual:         true,
	}}

	expense := func(suffix string, category models.LedgerCategory, amount int64, description string) {
		if amount == 0 {
			return
		}
		entries = append(entries, Entry{
			ID:              virtualIDPrefix + suffix + "-" + bookingID.String(),
			TransactionType: models.TransactionExpense,
			Category:        category,
			AmountCents:     amount,
			BookingID:       &bookingID,
			ProfessionalID:  &professionalID,
			Description:     description,
			TransactionDate: b.CompletedAt,
			Virtual:         true,
		})
	}
	expense("commission", models.CategoryCommissionPayment, commission, "Projected professional commission")
	expense("gateway-fee", models.CategoryGatewayFee, gatewayFee, "Projected gateway fee")
	expense("tax", models.CategoryTaxPayment, tax, "Projected tax")
	expense("product-cost", models.CategoryProductCost, productCost, "Projected product cost")

	return entries
}

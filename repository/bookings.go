package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/booking"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/finance"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
)

// BookingStore is the gorm-backed booking.Store. Inside Transact every
// method runs on the transaction handle, and LockProfessional takes a
// SELECT ... FOR UPDATE row lock; that lock is what serializes concurrent
// booking attempts for one professional across processes.
type BookingStore struct {
	db *gorm.DB
}

func NewBookingStore(db *gorm.DB) *BookingStore {
	return &BookingStore{db: db}
}

func (s *BookingStore) Transact(ctx context.Context, fn func(booking.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingStore{db: tx})
	})
}

func (s *BookingStore) LockProfessional(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *BookingStore) FindOverlapping(ctx context.Context, professionalID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (*models.Booking, error) {
	q := s.db.WithContext(ctx).
		Where("professional_id = ? AND active = ?", professionalID, true).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}

	var b models.Booking
	err := q.First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BookingStore) FindServices(ctx context.Context, ids []uuid.UUID) ([]models.Service, error) {
	var services []models.Service
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&services).Error
	return services, err
}

func (s *BookingStore) CreateClient(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *BookingStore) CreateBooking(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

func (s *BookingStore) SaveBooking(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error
}

func (s *BookingStore) FindBookingForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ReplaceServices rewrites the booking↔service join rows: delete all, bulk
// insert the new set. Non-incremental, not a diff.
func (s *BookingStore) ReplaceServices(ctx context.Context, bookingID uuid.UUID, services []models.Service) error {
	if err := s.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Delete(&models.BookingService{}).Error; err != nil {
		return err
	}

	rows := make([]models.BookingService, 0, len(services))
	for _, svc := range services {
		rows = append(rows, models.BookingService{
			BookingID:   bookingID,
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			PriceCents:  svc.PriceCents,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&rows).Error
}

// CompletedWithoutIncome feeds the virtual ledger projector: completed
// bookings in range with no persisted income entry referencing them,
// flattened into plain structs with their snapshotted lines.
func (s *BookingStore) CompletedWithoutIncome(ctx context.Context, from, to time.Time) ([]finance.CompletedBooking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("completed = ?", true).
		Where("completed_at BETWEEN ? AND ?", from, to).
		Where(`NOT EXISTS (
			SELECT 1 FROM ledger_entries
			WHERE ledger_entries.booking_id = bookings.id
			  AND ledger_entries.transaction_type = ?
			  AND ledger_entries.category = ?)`,
			models.TransactionIncome, models.CategoryServicePayment).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}

	out := make([]finance.CompletedBooking, 0, len(bookings))
	for _, b := range bookings {
		cb := finance.CompletedBooking{
			ID:             b.ID,
			ProfessionalID: b.ProfessionalID,
			PaymentMethod:  b.PaymentMethod,
		}
		if b.CompletedAt != nil {
			cb.CompletedAt = *b.CompletedAt
		} else {
			cb.CompletedAt = b.StartTime
		}
		for _, item := range b.Items {
			cb.Lines = append(cb.Lines, finance.BookingLine{
				ServiceID:  item.ServiceID,
				PriceCents: item.PriceCents,
			})
		}
		out = append(out, cb)
	}
	return out, nil
}

// List returns bookings for the controllers, newest first.
func (s *BookingStore) List(ctx context.Context, from, to *time.Time, professionalID *uuid.UUID) ([]models.Booking, error) {
	q := s.db.WithContext(ctx).Preload("Items")
	if from != nil {
		q = q.Where("start_time >= ?", *from)
	}
	if to != nil {
		q = q.Where("start_time <= ?", *to)
	}
	if professionalID != nil {
		q = q.Where("professional_id = ?", *professionalID)
	}

	var bookings []models.Booking
	err := q.Order("start_time DESC").Find(&bookings).Error
	return bookings, err
}

// FindBooking loads one booking with its service lines.
func (s *BookingStore) FindBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	err := s.db.WithContext(ctx).Preload("Items").First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/finance"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
)

// LedgerRepository is append-only: entries are inserted and queried, never
// updated. Delete exists as an administrative escape hatch only; callers
// must reject virtual ids before reaching it.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return uuid.Nil, err
	}
	return entry.ID, nil
}

func (r *LedgerRepository) AppendAll(ctx context.Context, entries []models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

// Entries applies the persisted-side filters. Limit 0 means the whole set;
// the aggregator paginates after merging with virtual entries.
func (r *LedgerRepository) Entries(ctx context.Context, f finance.EntryFilter) ([]models.LedgerEntry, error) {
	q := r.db.WithContext(ctx).Model(&models.LedgerEntry{})
	if f.From != nil {
		q = q.Where("transaction_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("transaction_date <= ?", *f.To)
	}
	if f.TransactionType != nil {
		q = q.Where("transaction_type = ?", *f.TransactionType)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var entries []models.LedgerEntry
	err := q.Order("transaction_date DESC").Find(&entries).Error
	return entries, err
}

func (r *LedgerRepository) HasIncomeForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("booking_id = ? AND transaction_type = ? AND category = ?",
			bookingID, models.TransactionIncome, models.CategoryServicePayment).
		Count(&count).Error
	return count > 0, err
}

// Delete removes one entry. Administrative escape hatch, not part of the
// accounting model. Corrections should be appended as new entries.
func (r *LedgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LedgerEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

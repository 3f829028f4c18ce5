package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
)

// SettingsRepository serves the CompanySettings singleton. The row is
// lazily created with defaults on first read and cached process-wide;
// Invalidate is called after every administrative update. Concurrent first
// reads may race on the create; FirstOrCreate keeps that idempotent and
// Get always resolves to the oldest row.
type SettingsRepository struct {
	db *gorm.DB

	mu     sync.RWMutex
	cached *models.CompanySettings
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context) (*models.CompanySettings, error) {
	r.mu.RLock()
	if r.cached != nil {
		s := *r.cached
		r.mu.RUnlock()
		return &s, nil
	}
	r.mu.RUnlock()
	return r.Reload(ctx)
}

// Reload fetches (or lazily creates) the singleton and refreshes the cache.
func (r *SettingsRepository) Reload(ctx context.Context) (*models.CompanySettings, error) {
	var s models.CompanySettings
	err := r.db.WithContext(ctx).
		Order("created_at").
		Attrs(models.DefaultCompanySettings()).
		FirstOrCreate(&s).Error
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cached = &s
	r.mu.Unlock()

	out := s
	return &out, nil
}

func (r *SettingsRepository) Invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

// Update applies an administrative change to the singleton and invalidates
// the cache. This is the only mutation path; settings are never deleted.
func (r *SettingsRepository) Update(ctx context.Context, apply func(*models.CompanySettings)) (*models.CompanySettings, error) {
	s, err := r.Reload(ctx)
	if err != nil {
		return nil, err
	}
	apply(s)
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return nil, err
	}
	r.Invalidate()
	return r.Reload(ctx)
}

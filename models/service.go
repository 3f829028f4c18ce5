package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is a catalog entry. Price is kept in integer cents; the optional
// CommissionRate overrides the company default when no rule matches.
type Service struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"not null"`
	Description string

	PriceCents      int64            `gorm:"not null"`
	CommissionRate  *decimal.Decimal `gorm:"type:numeric(6,4)"`
	DurationMinutes int

	IsActive bool `gorm:"default:true"`

	gorm.Model
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

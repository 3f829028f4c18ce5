package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RuleType scopes a commission rule. Resolution precedence is
// PROFESSIONAL > SERVICE > GENERAL, most specific wins.
type RuleType string

const (
	RuleTypeGeneral      RuleType = "GENERAL"
	RuleTypeService      RuleType = "SERVICE"
	RuleTypeProfessional RuleType = "PROFESSIONAL"
)

// CommissionRule overrides the commission rate for a scope. Many rules may
// exist; at most one applies per (service, professional) lookup.
type CommissionRule struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	RuleType RuleType  `gorm:"type:varchar(20);not null;index"`

	ServiceID      *uuid.UUID `gorm:"type:uuid;index"`
	ProfessionalID *uuid.UUID `gorm:"type:uuid;index"`

	// Fraction in [0,1], stored fixed-point, exposed as float at resolution.
	CommissionRate decimal.Decimal `gorm:"type:numeric(6,4);not null"`
	IsActive       bool            `gorm:"default:true"`

	gorm.Model
}

func (r *CommissionRule) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

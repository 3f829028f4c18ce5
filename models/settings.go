package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TaxRegime is the Brazilian tax regime the company operates under.
type TaxRegime string

const (
	TaxRegimeMEI             TaxRegime = "MEI"
	TaxRegimeSimplesNacional TaxRegime = "SIMPLES_NACIONAL"
	TaxRegimeLucroPresumido  TaxRegime = "LUCRO_PRESUMIDO"
	TaxRegimeLucroReal       TaxRegime = "LUCRO_REAL"
)

// CompanySettings is a singleton row, lazily created with defaults on first
// read. It is only ever mutated through the settings endpoint and never
// deleted. Rates are fractions stored as fixed-point numerics.
type CompanySettings struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TaxRegime TaxRegime `gorm:"type:varchar(32);not null;default:'MEI'"`

	// PartnerSalon switches who bears the tax on a payment split: when true
	// the tax is withheld from the professional's commission, otherwise it
	// comes out of the salon's share.
	PartnerSalon bool `gorm:"default:false"`

	TaxRate               decimal.Decimal `gorm:"type:numeric(6,4);not null;default:0.06"`
	GatewayFeeRate        decimal.Decimal `gorm:"type:numeric(6,4);not null;default:0.0299"`
	DefaultCommissionRate decimal.Decimal `gorm:"type:numeric(6,4);not null;default:0.5"`

	gorm.Model
}

func (s *CompanySettings) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// DefaultCompanySettings are the values materialized on first read.
func DefaultCompanySettings() CompanySettings {
	return CompanySettings{
		TaxRegime:             TaxRegimeMEI,
		PartnerSalon:          false,
		TaxRate:               decimal.NewFromFloat(0.06),
		GatewayFeeRate:        decimal.NewFromFloat(0.0299),
		DefaultCommissionRate: decimal.NewFromFloat(0.5),
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

type LedgerCategory string

const (
	CategoryServicePayment    LedgerCategory = "SERVICE_PAYMENT"
	CategoryCommissionPayment LedgerCategory = "COMMISSION_PAYMENT"
	CategoryTaxPayment        LedgerCategory = "TAX_PAYMENT"
	CategoryGatewayFee        LedgerCategory = "GATEWAY_FEE"
	CategoryProductCost       LedgerCategory = "PRODUCT_COST"
	CategoryFixedExpense      LedgerCategory = "FIXED_EXPENSE"
	CategoryVariableExpense   LedgerCategory = "VARIABLE_EXPENSE"
	CategoryOther             LedgerCategory = "OTHER"
)

// LedgerEntry is one immutable monetary movement. Amount, category and type
// are never altered in place; corrections are appended as new entries.
// There is deliberately no gorm.Model here: entries are not soft-deleted
// and not updated through the normal flow.
type LedgerEntry struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	TransactionType TransactionType `gorm:"type:varchar(10);not null;index"`
	Category        LedgerCategory  `gorm:"type:varchar(32);not null;index"`

	// Always integer minor units. Floats never touch stored money.
	AmountCents int64 `gorm:"not null"`

	BookingID      *uuid.UUID `gorm:"type:uuid;index"`
	ExpenseID      *uuid.UUID `gorm:"type:uuid;index"`
	ProfessionalID *uuid.UUID `gorm:"type:uuid;index"`

	Description string

	// Snapshot of the calculation inputs (rates, flags) that produced the
	// amount, so every entry can be traced back.
	Metadata JSONB `gorm:"type:jsonb;default:'{}'"`

	TransactionDate time.Time `gorm:"index;not null"`
	CreatedBy       string
	CreatedAt       time.Time
}

func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.TransactionDate.IsZero() {
		e.TransactionDate = time.Now()
	}
	return nil
}

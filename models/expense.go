package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseType string

const (
	ExpenseTypeFixed    ExpenseType = "FIXED"
	ExpenseTypeVariable ExpenseType = "VARIABLE"
)

// Expense is an operating cost. Recurring expenses carry a day of month
// (1–28) and are materialized monthly by the recurring-expense job.
type Expense struct {
	ID       uuid.UUID   `gorm:"type:uuid;primary_key"`
	Type     ExpenseType `gorm:"type:varchar(10);not null"`
	Category string      `gorm:"not null"`

	AmountCents int64 `gorm:"not null"`
	Paid        bool  `gorm:"default:false"`
	PaidAt      *time.Time

	DueDate       time.Time `gorm:"index"`
	RecurrenceDay *int

	Notes string

	gorm.Model
}

func (e *Expense) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// LedgerCategory maps the expense type to its ledger category.
func (e *Expense) LedgerCategory() LedgerCategory {
	if e.Type == ExpenseTypeFixed {
		return CategoryFixedExpense
	}
	return CategoryVariableExpense
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment methods accepted at checkout. Only card payments go through the
// gateway and therefore carry the gateway fee.
const (
	PaymentMethodCash       = "cash"
	PaymentMethodPix        = "pix"
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodDebitCard  = "debit_card"
)

// GatewayFeeApplies reports whether the payment method routes through the
// payment gateway.
func GatewayFeeApplies(method string) bool {
	return method == PaymentMethodCreditCard || method == PaymentMethodDebitCard
}

// Booking is an appointment for one client with one professional.
// Lifecycle: created (active, not completed) → completed exactly once →
// may be deactivated afterwards for cancellation bookkeeping.
type Booking struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	ClientID       uuid.UUID `gorm:"type:uuid;index;not null"`
	ProfessionalID uuid.UUID `gorm:"type:uuid;index;not null"`

	StartTime time.Time `gorm:"index;not null"`
	EndTime   time.Time `gorm:"not null"`

	Active      bool `gorm:"default:true"`
	Completed   bool `gorm:"default:false"`
	CompletedAt *time.Time

	PaymentMethod string `gorm:"type:varchar(20);default:'cash'"`
	Notes         string

	Items []BookingService `gorm:"foreignKey:BookingID"`

	gorm.Model
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TotalCents sums the snapshotted line prices.
func (b *Booking) TotalCents() int64 {
	var total int64
	for _, item := range b.Items {
		total += item.PriceCents
	}
	return total
}

// BookingService is the booking↔service join row. Name and price are
// snapshotted at booking time so later catalog edits don't rewrite history.
// Updates are a replace-set: all rows for a booking are deleted and
// re-inserted, never diffed.
type BookingService struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	BookingID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ServiceID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ServiceName string    `gorm:"not null"`
	PriceCents  int64     `gorm:"not null"`
}

func (bs *BookingService) BeforeCreate(tx *gorm.DB) (err error) {
	if bs.ID == uuid.Nil {
		bs.ID = uuid.New()
	}
	return nil
}

package finance

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
)

// ErrImmutableEntry rejects edits or deletes on entries that are not real
// persisted rows (virtual projections) before any store access happens.
var ErrImmutableEntry = errors.New("ledger entry is immutable")

const virtualIDPrefix = "virtual-"

// IsVirtualID reports whether an entry id names a projected entry rather
// than a persisted row.
func IsVirtualID(id string) bool {
	return strings.HasPrefix(id, virtualIDPrefix)
}

// Entry is the merged reporting view of a ledger entry: either a persisted
// row or a virtual projection. Virtual entries never reach the store and
// their ids are deterministic per booking.
type Entry struct {
	ID              string                 `json:"id"`
	TransactionType models.TransactionType `json:"transactionType"`
	Category        models.LedgerCategory  `json:"category"`
	AmountCents     int64                  `json:"amountCents"`
	BookingID       *uuid.UUID             `json:"bookingId,omitempty"`
	ExpenseID       *uuid.UUID             `json:"expenseId,omitempty"`
	ProfessionalID  *uuid.UUID             `json:"professionalId,omitempty"`
	Description     string                 `json:"description,omitempty"`
	TransactionDate time.Time              `json:"transactionDate"`
	Virtual         bool                   `json:"virtual"`
}

// EntryFromModel converts a persisted row into the merged view.
func EntryFromModel(e models.LedgerEntry) Entry {
	return Entry{
		ID:              e.ID.String(),
		TransactionType: e.TransactionType,
		Category:        e.Category,
		AmountCents:     e.AmountCents,
		BookingID:       e.BookingID,
		ExpenseID:       e.ExpenseID,
		ProfessionalID:  e.ProfessionalID,
		Description:     e.Description,
		TransactionDate: e.TransactionDate,
		Virtual:         false,
	}
}

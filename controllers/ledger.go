package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/finance"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/repository"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/utils"
)

// LedgerController serves the merged ledger view (persisted rows plus
// virtual projections of completed bookings without entries).
type LedgerController struct {
	Aggregator *finance.Aggregator
	Ledger     *repository.LedgerRepository
}

type ledgerEntryResponse struct {
	ID              string          `json:"id"`
	TransactionType string          `json:"transactionType"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	BookingID       *uuid.UUID      `json:"bookingId,omitempty"`
	ExpenseID       *uuid.UUID      `json:"expenseId,omitempty"`
	ProfessionalID  *uuid.UUID      `json:"professionalId,omitempty"`
	Description     string          `json:"description,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
	Virtual         bool            `json:"virtual"`
}

func toLedgerEntryResponse(e finance.Entry) ledgerEntryResponse {
	return ledgerEntryResponse{
		ID:              e.ID,
		TransactionType: string(e.TransactionType),
		Category:        string(e.Category),
		Amount:          finance.FromCents(e.AmountCents),
		BookingID:       e.BookingID,
		ExpenseID:       e.ExpenseID,
		ProfessionalID:  e.ProfessionalID,
		Description:     e.Description,
		TransactionDate: e.TransactionDate,
		Virtual:         e.Virtual,
	}
}

func parseEntryFilter(c *gin.Context) (finance.EntryFilter, error) {
	var f finance.EntryFilter

	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, errors.New("startDate must be RFC3339")
		}
		f.From = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, errors.New("endDate must be RFC3339")
		}
		f.To = &t
	}
	if raw := c.Query("transactionType"); raw != "" {
		tt := models.TransactionType(raw)
		if tt != models.TransactionIncome && tt != models.TransactionExpense {
			return f, errors.New("transactionType must be INCOME or EXPENSE")
		}
		f.TransactionType = &tt
	}
	if raw := c.Query("category"); raw != "" {
		cat := models.LedgerCategory(raw)
		f.Category = &cat
	}

	var page struct {
		Limit  int `form:"limit"`
		Offset int `form:"offset"`
	}
	if err := c.ShouldBindQuery(&page); err != nil || page.Limit < 0 || page.Offset < 0 {
		return f, errors.New("limit and offset must be non-negative integers")
	}
	f.Limit = page.Limit
	f.Offset = page.Offset
	return f, nil
}

// GetEntries returns one page of merged entries. Virtual entries carry
// deterministic "virtual-" ids and cannot be mutated.
func (lc *LedgerController) GetEntries(c *gin.Context) {
	filter, err := parseEntryFilter(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	page, err := lc.Aggregator.Entries(c.Request.Context(), filter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load ledger entries")
		return
	}

	entries := make([]ledgerEntryResponse, 0, len(page.Entries))
	for _, e := range page.Entries {
		entries = append(entries, toLedgerEntryResponse(e))
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":      entries,
		"total":        page.Total,
		"realCount":    page.RealCount,
		"virtualCount": page.VirtualCount,
	})
}

// DeleteEntry removes a persisted entry. Virtual ids are rejected before
// any store access.
func (lc *LedgerController) DeleteEntry(c *gin.Context) {
	rawID := c.Param("id")
	if finance.IsVirtualID(rawID) {
		utils.RespondWithError(c, http.StatusBadRequest, finance.ErrImmutableEntry.Error())
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	if err := lc.Ledger.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Ledger entry not found")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete ledger entry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ledger entry deleted"})
}

package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/config"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/finance"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/repository"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/utils"
)

// ExpenseController manages operating costs. Paying an expense appends a
// ledger entry; the expense row itself is bookkeeping for due dates and
// recurrence.
type ExpenseController struct {
	Ledger *repository.LedgerRepository
}

type ExpenseInput struct {
	Type          string          `json:"type" binding:"required,oneof=FIXED VARIABLE"`
	Category      string          `json:"category" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	DueDate       time.Time       `json:"dueDate" binding:"required"`
	RecurrenceDay *int            `json:"recurrenceDay"`
	Notes         string          `json:"notes"`
}

type expenseResponse struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Paid          bool            `json:"paid"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	DueDate       time.Time       `json:"dueDate"`
	RecurrenceDay *int            `json:"recurrenceDay,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func toExpenseResponse(e models.Expense) expenseResponse {
	return expenseResponse{
		ID:            e.ID,
		Type:          string(e.Type),
		Category:      e.Category,
		Amount:        finance.FromCents(e.AmountCents),
		Paid:          e.Paid,
		PaidAt:        e.PaidAt,
		DueDate:       e.DueDate,
		RecurrenceDay: e.RecurrenceDay,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
	}
}

func (ec *ExpenseController) CreateExpense(c *gin.Context) {
	var input ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Amount.IsNegative() || input.Amount.IsZero() {
		utils.RespondWithError(c, http.StatusBadRequest, "Amount must be positive")
		return
	}
	if input.RecurrenceDay != nil && (*input.RecurrenceDay < 1 || *input.RecurrenceDay > 28) {
		utils.RespondWithError(c, http.StatusBadRequest, "Recurrence day must be between 1 and 28")
		return
	}

	expense := models.Expense{
		Type:          models.ExpenseType(input.Type),
		Category:      input.Category,
		AmountCents:   finance.ToCents(input.Amount),
		DueDate:       input.DueDate,
		RecurrenceDay: input.RecurrenceDay,
		Notes:         input.Notes,
	}
	if err := config.DB.WithContext(c.Request.Context()).Create(&expense).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create expense")
		return
	}

	c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

func (ec *ExpenseController) GetExpenses(c *gin.Context) {
	q := config.DB.WithContext(c.Request.Context()).Model(&models.Expense{})

	if raw := c.Query("paid"); raw != "" {
		q = q.Where("paid = ?", raw == "true")
	}
	if raw := c.Query("type"); raw != "" {
		q = q.Where("type = ?", raw)
	}
	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "startDate must be RFC3339")
			return
		}
		q = q.Where("due_date >= ?", t)
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "endDate must be RFC3339")
			return
		}
		q = q.Where("due_date <= ?", t)
	}

	var expenses []models.Expense
	if err := q.Order("due_date ASC").Find(&expenses).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch expenses")
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	c.JSON(http.StatusOK, out)
}

func (ec *ExpenseController) GetExpense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := config.DB.WithContext(c.Request.Context()).First(&expense, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Expense not found")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch expense")
		return
	}
	c.JSON(http.StatusOK, toExpenseResponse(expense))
}

func (ec *ExpenseController) UpdateExpense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := config.DB.WithContext(c.Request.Context()).First(&expense, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Expense not found")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch expense")
		return
	}
	if expense.Paid {
		utils.RespondWithError(c, http.StatusBadRequest, "Paid expenses cannot be modified")
		return
	}

	var input ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Amount.IsNegative() || input.Amount.IsZero() {
		utils.RespondWithError(c, http.StatusBadRequest, "Amount must be positive")
		return
	}
	if input.RecurrenceDay != nil && (*input.RecurrenceDay < 1 || *input.RecurrenceDay > 28) {
		utils.RespondWithError(c, http.StatusBadRequest, "Recurrence day must be between 1 and 28")
		return
	}

	expense.Type = models.ExpenseType(input.Type)
	expense.Category = input.Category
	expense.AmountCents = finance.ToCents(input.Amount)
	expense.DueDate = input.DueDate
	expense.RecurrenceDay = input.RecurrenceDay
	expense.Notes = input.Notes

	if err := config.DB.WithContext(c.Request.Context()).Save(&expense).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update expense")
		return
	}
	c.JSON(http.StatusOK, toExpenseResponse(expense))
}

func (ec *ExpenseController) DeleteExpense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	result := config.DB.WithContext(c.Request.Context()).
		Where("paid = ?", false).
		Delete(&models.Expense{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete expense")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Expense not found or already paid")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// PayExpense marks the expense paid and appends the matching ledger entry.
// Paying twice is rejected so the ledger never double-counts the cost.
func (ec *ExpenseController) PayExpense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	ctx := c.Request.Context()
	var expense models.Expense
	if err := config.DB.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Expense not found")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch expense")
		return
	}
	if expense.Paid {
		utils.RespondWithError(c, http.StatusConflict, "Expense is already paid")
		return
	}

	now := time.Now()
	expense.Paid = true
	expense.PaidAt = &now
	if err := config.DB.WithContext(ctx).Save(&expense).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update expense")
		return
	}

	createdBy := ""
	if userID, exists := c.Get("userId"); exists {
		createdBy, _ = userID.(string)
	}
	entry := models.LedgerEntry{
		TransactionType: models.TransactionExpense,
		Category:        expense.LedgerCategory(),
		AmountCents:     expense.AmountCents,
		ExpenseID:       &expense.ID,
		Description:     expense.Category,
		TransactionDate: now,
		CreatedBy:       createdBy,
	}
	entryID, err := ec.Ledger.Append(ctx, &entry)
	if err != nil {
		// The expense stays paid; the reconciliation projector does not
		// cover expenses, so surface the failure loudly.
		utils.RespondWithError(c, http.StatusInternalServerError, "Expense marked paid but ledger append failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expense":       toExpenseResponse(expense),
		"ledgerEntryId": entryID,
	})
}

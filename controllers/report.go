package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/finance"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/utils"
)

// ReportController builds financial summaries on top of the merged ledger,
// so completed bookings without persisted entries still show up.
type ReportController struct {
	Aggregator *finance.Aggregator
}

type dreResponse struct {
	Period struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	} `json:"period"`
	Income        decimal.Decimal  `json:"income"`
	Expenses      decimal.Decimal  `json:"expenses"`
	NetProfit     decimal.Decimal  `json:"netProfit"`
	IncomeGrowth  *decimal.Decimal `json:"incomeGrowth,omitempty"`
	ExpenseGrowth *decimal.Decimal `json:"expenseGrowth,omitempty"`
}

// reportRange resolves the requested period: explicit startDate/endDate, or
// month/year, defaulting to the current month.
func reportRange(c *gin.Context) (time.Time, time.Time, bool) {
	if raw := c.Query("startDate"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "startDate must be RFC3339")
			return time.Time{}, time.Time{}, false
		}
		end := time.Now()
		if rawEnd := c.Query("endDate"); rawEnd != "" {
			end, err = time.Parse(time.RFC3339, rawEnd)
			if err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "endDate must be RFC3339")
				return time.Time{}, time.Time{}, false
			}
		}
		return start, end, true
	}

	now := time.Now()
	month, year := now.Month(), now.Year()
	var params struct {
		Month int `form:"month"`
		Year  int `form:"year"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "month and year must be integers")
		return time.Time{}, time.Time{}, false
	}
	if params.Month != 0 {
		if params.Month < 1 || params.Month > 12 {
			utils.RespondWithError(c, http.StatusBadRequest, "month must be between 1 and 12")
			return time.Time{}, time.Time{}, false
		}
		month = time.Month(params.Month)
	}
	if params.Year != 0 {
		year = params.Year
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	end := utils.EndOfDay(start.AddDate(0, 1, -1))
	return start, end, true
}

// growth returns the relative change against the previous period, nil when
// the previous period had no movement.
func growth(current, previous int64) *decimal.Decimal {
	if previous == 0 {
		return nil
	}
	g := decimal.NewFromInt(current - previous).
		Div(decimal.NewFromInt(previous)).
		Round(4)
	return &g
}

// GetDRE returns the income statement for the period with month-over-month
// growth when a previous period exists.
func (rc *ReportController) GetDRE(c *gin.Context) {
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	totals, err := rc.Aggregator.Totals(ctx, start, end)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}

	window := end.Sub(start)
	prevEnd := start.Add(-time.Nanosecond)
	prevStart := prevEnd.Add(-window)
	previous, err := rc.Aggregator.Totals(ctx, prevStart, prevEnd)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}

	var resp dreResponse
	resp.Period.Start = start
	resp.Period.End = end
	resp.Income = finance.FromCents(totals.IncomeCents)
	resp.Expenses = finance.FromCents(totals.ExpenseCents)
	resp.NetProfit = finance.FromCents(totals.NetProfitCents)
	resp.IncomeGrowth = growth(totals.IncomeCents, previous.IncomeCents)
	resp.ExpenseGrowth = growth(totals.ExpenseCents, previous.ExpenseCents)

	c.JSON(http.StatusOK, resp)
}

// GetCommissions returns commission totals per professional for the period,
// optionally filtered to one professional.
func (rc *ReportController) GetCommissions(c *gin.Context) {
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	var professionalID *uuid.UUID
	if raw := c.Query("professionalId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid professional ID")
			return
		}
		professionalID = &id
	}

	summary, err := rc.Aggregator.CommissionSummary(c.Request.Context(), start, end, professionalID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}

	type commissionResponse struct {
		ProfessionalID  uuid.UUID       `json:"professionalId"`
		TotalCommission decimal.Decimal `json:"totalCommission"`
	}
	out := make([]commissionResponse, 0, len(summary))
	for _, s := range summary {
		out = append(out, commissionResponse{
			ProfessionalID:  s.ProfessionalID,
			TotalCommission: finance.FromCents(s.TotalCommissionCents),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"period":      gin.H{"start": start, "end": end},
		"commissions": out,
	})
}

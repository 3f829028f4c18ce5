package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/booking"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/finance"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/repository"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/utils"
)

// PaymentController exposes the split calculator directly and the
// record-payment flow that completes a booking. Money crosses this boundary
// in major units and is converted to cents immediately.
type PaymentController struct {
	Manager  *booking.Manager
	Resolver *finance.CommissionResolver
	Settings *repository.SettingsRepository
}

type CalculateSplitInput struct {
	GrossAmount    decimal.Decimal `json:"grossAmount" binding:"required"`
	ServiceID      *uuid.UUID      `json:"serviceId"`
	ProfessionalID *uuid.UUID      `json:"professionalId"`
	ProductCost    decimal.Decimal `json:"productCost"`
	PaymentMethod  string          `json:"paymentMethod" binding:"omitempty,oneof=cash pix credit_card debit_card"`
}

type RecordPaymentInput struct {
	ScheduleID        uuid.UUID          `json:"scheduleId" binding:"required"`
	CalculationResult *calculationResult `json:"calculationResult"`
	CreatedBy         string             `json:"createdBy"`
}

type calculationResult struct {
	OperationalCosts struct {
		ProductCost decimal.Decimal `json:"productCost"`
	} `json:"operationalCosts"`
}

type taxesResponse struct {
	SalonTax        decimal.Decimal `json:"salonTax"`
	ProfessionalTax decimal.Decimal `json:"professionalTax"`
	TotalTax        decimal.Decimal `json:"totalTax"`
}

type operationalCostsResponse struct {
	GatewayFee  decimal.Decimal `json:"gatewayFee"`
	ProductCost decimal.Decimal `json:"productCost"`
	Total       decimal.Decimal `json:"total"`
}

type breakdownResponse struct {
	GrossAmount            decimal.Decimal          `json:"grossAmount"`
	AmountAfterGatewayFee  decimal.Decimal          `json:"amountAfterGatewayFee"`
	SalonShare             decimal.Decimal          `json:"salonShare"`
	ProfessionalCommission decimal.Decimal          `json:"professionalCommission"`
	SalonNetAmount         decimal.Decimal          `json:"salonNetAmount"`
	ProfessionalNetAmount  decimal.Decimal          `json:"professionalNetAmount"`
	Taxes                  taxesResponse            `json:"taxes"`
	OperationalCosts       operationalCostsResponse `json:"operationalCosts"`
	CommissionRate         float64                  `json:"commissionRate"`
	GatewayFeeRate         float64                  `json:"gatewayFeeRate"`
	TaxRate                float64                  `json:"taxRate"`
	PartnerSalon           bool                     `json:"partnerSalon"`
}

func toBreakdownResponse(b finance.Breakdown) breakdownResponse {
	return breakdownResponse{
		GrossAmount:            finance.FromCents(b.GrossCents),
		AmountAfterGatewayFee:  finance.FromCents(b.AfterGatewayFeeCents),
		SalonShare:             finance.FromCents(b.SalonShareCents),
		ProfessionalCommission: finance.FromCents(b.ProfessionalCommissionCents),
		SalonNetAmount:         finance.FromCents(b.SalonNetCents),
		ProfessionalNetAmount:  finance.FromCents(b.ProfessionalNetCents),
		Taxes: taxesResponse{
			SalonTax:        finance.FromCents(b.Taxes.SalonTaxCents),
			ProfessionalTax: finance.FromCents(b.Taxes.ProfessionalTaxCents),
			TotalTax:        finance.FromCents(b.Taxes.TotalTaxCents),
		},
		OperationalCosts: operationalCostsResponse{
			GatewayFee:  finance.FromCents(b.OperationalCosts.GatewayFeeCents),
			ProductCost: finance.FromCents(b.OperationalCosts.ProductCostCents),
			Total:       finance.FromCents(b.OperationalCosts.TotalCents),
		},
		CommissionRate: b.CommissionRate,
		GatewayFeeRate: b.GatewayFeeRate,
		TaxRate:        b.TaxRate,
		PartnerSalon:   b.PartnerSalon,
	}
}

// CalculateSplit runs the split calculator for an ad-hoc gross amount.
func (pc *PaymentController) CalculateSplit(c *gin.Context) {
	var input CalculateSplitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.GrossAmount.IsNegative() || input.ProductCost.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Amounts must not be negative")
		return
	}

	ctx := c.Request.Context()

	serviceID, professionalID := uuid.Nil, uuid.Nil
	if input.ServiceID != nil {
		serviceID = *input.ServiceID
	}
	if input.ProfessionalID != nil {
		professionalID = *input.ProfessionalID
	}
	rate, err := pc.Resolver.Resolve(ctx, serviceID, professionalID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve commission rate")
		return
	}

	settings, err := pc.Settings.Get(ctx)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load company settings")
		return
	}

	gatewayFeeRate := settings.GatewayFeeRate.InexactFloat64()
	if input.PaymentMethod != "" && !models.GatewayFeeApplies(input.PaymentMethod) {
		gatewayFeeRate = 0
	}

	split := finance.Split(finance.SplitInput{
		GrossCents:       finance.ToCents(input.GrossAmount),
		CommissionRate:   rate,
		GatewayFeeRate:   gatewayFeeRate,
		TaxRate:          settings.TaxRate.InexactFloat64(),
		PartnerSalon:     settings.PartnerSalon,
		ProductCostCents: finance.ToCents(input.ProductCost),
	})

	c.JSON(http.StatusOK, toBreakdownResponse(split))
}

// RecordPayment completes the booking (idempotently) and appends up to
// five ledger entries, reporting how many were created.
func (pc *PaymentController) RecordPayment(c *gin.Context) {
	var input RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	createdBy := input.CreatedBy
	if createdBy == "" {
		if userID, exists := c.Get("userId"); exists {
			createdBy, _ = userID.(string)
		}
	}

	opts := booking.CompleteOptions{CreatedBy: createdBy}
	if input.CalculationResult != nil {
		opts.ProductCostCents = finance.ToCents(input.CalculationResult.OperationalCosts.ProductCost)
	}

	b, entriesCreated, err := pc.Manager.MarkCompleted(c.Request.Context(), input.ScheduleID, opts)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scheduleId":     b.ID,
		"completed":      b.Completed,
		"entriesCreated": entriesCreated,
	})
}

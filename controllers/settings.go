package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/repository"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/utils"
)

// SettingsController exposes the CompanySettings singleton. GET lazily
// materializes the defaults; PUT is the only mutation path and invalidates
// the process-wide cache.
type SettingsController struct {
	Settings *repository.SettingsRepository
}

type UpdateSettingsInput struct {
	TaxRegime             *string          `json:"taxRegime" binding:"omitempty,oneof=MEI SIMPLES_NACIONAL LUCRO_PRESUMIDO LUCRO_REAL"`
	PartnerSalon          *bool            `json:"partnerSalon"`
	TaxRate               *decimal.Decimal `json:"taxRate"`
	GatewayFeeRate        *decimal.Decimal `json:"gatewayFeeRate"`
	DefaultCommissionRate *decimal.Decimal `json:"defaultCommissionRate"`
}

func (sc *SettingsController) Get(c *gin.Context) {
	settings, err := sc.Settings.Get(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load company settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (sc *SettingsController) Update(c *gin.Context) {
	var input UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	for _, rate := range []*decimal.Decimal{input.TaxRate, input.GatewayFeeRate, input.DefaultCommissionRate} {
		if rate != nil && !validRate(*rate) {
			utils.RespondWithError(c, http.StatusBadRequest, "Rates must be fractions between 0 and 1")
			return
		}
	}

	settings, err := sc.Settings.Update(c.Request.Context(), func(s *models.CompanySettings) {
		if input.TaxRegime != nil {
			s.TaxRegime = models.TaxRegime(*input.TaxRegime)
		}
		if input.PartnerSalon != nil {
			s.PartnerSalon = *input.PartnerSalon
		}
		if input.TaxRate != nil {
			s.TaxRate = *input.TaxRate
		}
		if input.GatewayFeeRate != nil {
			s.GatewayFeeRate = *input.GatewayFeeRate
		}
		if input.DefaultCommissionRate != nil {
			s.DefaultCommissionRate = *input.DefaultCommissionRate
		}
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update company settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

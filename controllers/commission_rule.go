package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/repository"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/utils"
)

// CommissionRuleController manages the rule table the resolver reads.
type CommissionRuleController struct {
	Rules *repository.CommissionRuleRepository
}

type CreateCommissionRuleInput struct {
	RuleType       string          `json:"ruleType" binding:"required,oneof=GENERAL SERVICE PROFESSIONAL"`
	ServiceID      *uuid.UUID      `json:"serviceId"`
	ProfessionalID *uuid.UUID      `json:"professionalId"`
	CommissionRate decimal.Decimal `json:"commissionRate" binding:"required"`
	IsActive       *bool           `json:"isActive"`
}

type UpdateCommissionRuleInput struct {
	CommissionRate *decimal.Decimal `json:"commissionRate"`
	IsActive       *bool            `json:"isActive"`
}

func validRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(decimal.NewFromInt(1))
}

func (cc *CommissionRuleController) Create(c *gin.Context) {
	var input CreateCommissionRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !validRate(input.CommissionRate) {
		utils.RespondWithError(c, http.StatusBadRequest, "Commission rate must be a fraction between 0 and 1")
		return
	}

	ruleType := models.RuleType(input.RuleType)
	switch ruleType {
	case models.RuleTypeService:
		if input.ServiceID == nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Service rule requires serviceId")
			return
		}
	case models.RuleTypeProfessional:
		if input.ProfessionalID == nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Professional rule requires professionalId")
			return
		}
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	rule := models.CommissionRule{
		RuleType:       ruleType,
		ServiceID:      input.ServiceID,
		ProfessionalID: input.ProfessionalID,
		CommissionRate: input.CommissionRate,
		IsActive:       active,
	}

	if err := cc.Rules.Create(c.Request.Context(), &rule); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create commission rule")
		return
	}

	c.JSON(http.StatusCreated, rule)
}

func (cc *CommissionRuleController) List(c *gin.Context) {
	rules, err := cc.Rules.List(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve commission rules")
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (cc *CommissionRuleController) Update(c *gin.Context) {
	ruleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid rule ID format")
		return
	}

	var input UpdateCommissionRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	rule, err := cc.Rules.FindByID(c.Request.Context(), ruleUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Commission rule not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CommissionRate != nil {
		if !validRate(*input.CommissionRate) {
			utils.RespondWithError(c, http.StatusBadRequest, "Commission rate must be a fraction between 0 and 1")
			return
		}
		rule.CommissionRate = *input.CommissionRate
	}
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}

	if err := cc.Rules.Save(c.Request.Context(), rule); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update commission rule")
		return
	}

	c.JSON(http.StatusOK, rule)
}

func (cc *CommissionRuleController) Delete(c *gin.Context) {
	ruleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid rule ID format")
		return
	}

	if err := cc.Rules.Delete(c.Request.Context(), ruleUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Commission rule not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete commission rule")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Commission rule deleted successfully"})
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/config"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/utils"
)

// CreateAccountInput defines the expected JSON structure for creating an account
type CreateAccountInput struct {
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName"`
	Email     *string `json:"email"`
	Phone     string  `json:"phone"`
	Role      string  `json:"role" binding:"required,oneof=owner professional client"`
	Password  string  `json:"password"`
}

// UpdateAccountInput defines the expected JSON structure for updating an account
type UpdateAccountInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	IsActive  *bool   `json:"isActive"`
}

// CreateAccount creates a new account with an explicit role
func CreateAccount(c *gin.Context) {
	var input CreateAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	role, err := models.ParseRole(input.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid role")
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	account := models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Role:      role,
		Password:  input.Password,
		IsActive:  true,
	}

	if err := config.DB.Create(&account).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	account.Password = ""
	c.JSON(http.StatusCreated, account)
}

// GetAccounts retrieves accounts, optionally filtered by role
func GetAccounts(c *gin.Context) {
	q := config.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		parsed, err := models.ParseRole(role)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid role filter")
			return
		}
		q = q.Where("role = ?", parsed)
	}

	var accounts []models.User
	if err := q.Order("first_name").Find(&accounts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve accounts")
		return
	}
	for i := range accounts {
		accounts[i].Password = ""
	}

	c.JSON(http.StatusOK, accounts)
}

// GetAccount retrieves a specific account by ID
func GetAccount(c *gin.Context) {
	accountUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid account ID format")
		return
	}

	var account models.User
	if err := config.DB.First(&account, "id = ?", accountUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Account not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	account.Password = ""
	c.JSON(http.StatusOK, account)
}

// UpdateAccount updates an existing account
func UpdateAccount(c *gin.Context) {
	accountUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid account ID format")
		return
	}

	var input UpdateAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var account models.User
	if err := config.DB.First(&account, "id = ?", accountUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Account not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.FirstName != nil {
		account.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		account.LastName = *input.LastName
	}
	if input.Email != nil {
		account.Email = input.Email
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		account.Phone = *input.Phone
	}
	if input.IsActive != nil {
		account.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&account).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update account")
		return
	}

	account.Password = ""
	c.JSON(http.StatusOK, account)
}

// DeleteAccount soft deletes an account
func DeleteAccount(c *gin.Context) {
	accountUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid account ID format")
		return
	}

	result := config.DB.Delete(&models.User{}, "id = ?", accountUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete account")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Account not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

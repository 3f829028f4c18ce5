package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/booking"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/finance"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/repository"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/services"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/utils"
)

// BookingController drives the booking lifecycle through the transaction
// manager; it never touches booking rows directly.
type BookingController struct {
	Manager  *booking.Manager
	Store    *repository.BookingStore
	Notifier *services.Notifier
}

type CreateBookingInput struct {
	ClientID       *uuid.UUID  `json:"clientId"`
	ClientName     string      `json:"clientName"`
	ProfessionalID uuid.UUID   `json:"professionalId" binding:"required"`
	StartTime      time.Time   `json:"startTime" binding:"required"`
	PaymentMethod  string      `json:"paymentMethod" binding:"omitempty,oneof=cash pix credit_card debit_card"`
	Notes          string      `json:"notes"`
	ServiceIDs     []uuid.UUID `json:"serviceIds" binding:"required,min=1"`
}

type UpdateBookingInput struct {
	StartTime     *time.Time  `json:"startTime"`
	ServiceIDs    []uuid.UUID `json:"serviceIds"`
	PaymentMethod *string     `json:"paymentMethod" binding:"omitempty,oneof=cash pix credit_card debit_card"`
	Notes         *string     `json:"notes"`
	Active        *bool       `json:"active"`
	Finished      *bool       `json:"finished"`
}

type bookingResponse struct {
	models.Booking
	Total decimal.Decimal `json:"total"`
}

func toBookingResponse(b models.Booking) bookingResponse {
	return bookingResponse{Booking: b, Total: finance.FromCents(b.TotalCents())}
}

func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrConflict):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

// CreateBooking books an appointment; absence of clientId provisions a new
// client account inside the same transaction.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	created, err := bc.Manager.Create(c.Request.Context(), booking.CreateInput{
		ClientID:       input.ClientID,
		ClientName:     input.ClientName,
		ProfessionalID: input.ProfessionalID,
		StartTime:      input.StartTime,
		PaymentMethod:  input.PaymentMethod,
		Notes:          input.Notes,
		ServiceIDs:     input.ServiceIDs,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	if bc.Notifier != nil {
		bc.Notifier.BookingConfirmed(created)
	}

	c.JSON(http.StatusCreated, toBookingResponse(*created))
}

// GetBookings lists bookings, optionally filtered by range and professional
func (bc *BookingController) GetBookings(c *gin.Context) {
	var from, to *time.Time
	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid startDate format")
			return
		}
		from = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid endDate format")
			return
		}
		to = &t
	}
	var professionalID *uuid.UUID
	if v := c.Query("professionalId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid professionalId format")
			return
		}
		professionalID = &id
	}

	bookings, err := bc.Store.List(c.Request.Context(), from, to, professionalID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

// GetBooking retrieves a specific booking by ID
func (bc *BookingController) GetBooking(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	b, err := bc.Store.FindBooking(c.Request.Context(), bookingUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(*b))
}

// UpdateBooking edits a booking; finished=true triggers the one-time
// completion and ledger recording.
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var input UpdateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	createdBy := ""
	if userID, exists := c.Get("userId"); exists {
		createdBy, _ = userID.(string)
	}

	updated, err := bc.Manager.Update(c.Request.Context(), bookingUUID, booking.UpdateInput{
		StartTime:     input.StartTime,
		ServiceIDs:    input.ServiceIDs,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
		Active:        input.Active,
		Finished:      input.Finished,
		CreatedBy:     createdBy,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(*updated))
}

// CompleteBooking marks a booking completed. Idempotent: a repeat call
// reports zero new ledger entries.
func (bc *BookingController) CompleteBooking(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	createdBy := ""
	if userID, exists := c.Get("userId"); exists {
		createdBy, _ = userID.(string)
	}

	b, entriesCreated, err := bc.Manager.MarkCompleted(c.Request.Context(), bookingUUID, booking.CompleteOptions{
		CreatedBy: createdBy,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":        toBookingResponse(*b),
		"entriesCreated": entriesCreated,
	})
}

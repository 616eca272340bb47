package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pension-backend/models"
	"pension-backend/services"
	"pension-backend/utils"
)

type bookingReviewer interface {
	VerifyPayment(ctx context.Context, paymentID string) error
	RejectPayment(ctx context.Context, paymentID string) error
	CheckoutBooking(ctx context.Context, bookingID string) error
}

type settingsWriter interface {
	SaveHotelSettings(ctx context.Context, in services.HotelSettingsInput) (*models.HotelSetting, error)
}

type HotelSettingsRequest struct {
	Name              string `json:"name" binding:"required"`
	Address           string `json:"address"`
	Phone             string `json:"phone"`
	Email             string `json:"email" binding:"omitempty,email"`
	Website           string `json:"website"`
	Logo              string `json:"logo"`
	BankAccountName   string `json:"bank_account_name"`
	BankAccountNumber string `json:"bank_account_number" binding:"omitempty,numeric"`
	BankName          string `json:"bank_name"`
}

// AdminController serves the operator routes for reviewing payments and
// maintaining the hotel settings.
type AdminController struct {
	Review   bookingReviewer
	Settings settingsWriter
	Log      logrus.FieldLogger
}

func NewAdminController(review bookingReviewer, settings settingsWriter, log logrus.FieldLogger) *AdminController {
	return &AdminController{Review: review, Settings: settings, Log: log}
}

func (ac *AdminController) UpdateHotelSettings(c *gin.Context) {
	var req HotelSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	hotel, err := ac.Settings.SaveHotelSettings(c.Request.Context(), services.HotelSettingsInput(req))
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"hotel": hotel})
}

func (ac *AdminController) VerifyPayment(c *gin.Context) {
	id := c.Param("id")
	if err := ac.Review.VerifyPayment(c.Request.Context(), id); err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ac.Log.WithField("payment_id", id).Info("payment verified")
	utils.JSONSuccess(c, http.StatusOK, gin.H{"payment_id": id, "status": "verified"})
}

func (ac *AdminController) RejectPayment(c *gin.Context) {
	id := c.Param("id")
	if err := ac.Review.RejectPayment(c.Request.Context(), id); err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ac.Log.WithField("payment_id", id).Info("payment rejected")
	utils.JSONSuccess(c, http.StatusOK, gin.H{"payment_id": id, "status": "rejected"})
}

func (ac *AdminController) CheckoutBooking(c *gin.Context) {
	id := c.Param("id")
	if err := ac.Review.CheckoutBooking(c.Request.Context(), id); err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ac.Log.WithField("booking_id", id).Info("booking checked out")
	utils.JSONSuccess(c, http.StatusOK, gin.H{"booking_id": id, "status": "checked_out"})
}

package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pension-backend/models"
	"pension-backend/services"
	"pension-backend/utils"
)

type siteContent interface {
	ListRoomMedia(ctx context.Context, roomIDs []string) ([]models.RoomMedia, error)
	FeaturedReviews(ctx context.Context, limit int) ([]models.RoomReview, error)
	ContactInfo(ctx context.Context) ([]models.ContactInfo, error)
	SocialLinks(ctx context.Context) ([]models.SocialLink, error)
	ServicesGallery(ctx context.Context) ([]models.ServiceGalleryItem, error)
	HotelSettings(ctx context.Context) (*models.HotelSetting, error)
	SubmitContactMessage(ctx context.Context, in services.ContactMessageInput) (*models.ContactMessage, error)
}

type ContactMessageRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CheckIn   string `json:"check_in" binding:"omitempty,ymd"`
	CheckOut  string `json:"check_out" binding:"omitempty,ymd"`
	Message   string `json:"message"`
}

type SiteController struct {
	Site siteContent
	Log  logrus.FieldLogger
}

func NewSiteController(site siteContent, log logrus.FieldLogger) *SiteController {
	return &SiteController{Site: site, Log: log}
}

// GetRoomMedia lists media, limited to ?room_id= when given (repeatable or comma separated).
func (sc *SiteController) GetRoomMedia(c *gin.Context) {
	media, err := sc.Site.ListRoomMedia(c.Request.Context(), splitIDs(c.QueryArray("room_id")))
	if err != nil {
		respondError(c, sc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, media)
}

func (sc *SiteController) GetFeaturedReviews(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	reviews, err := sc.Site.FeaturedReviews(c.Request.Context(), limit)
	if err != nil {
		respondError(c, sc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reviews)
}

func (sc *SiteController) GetContactInfo(c *gin.Context) {
	info, err := sc.Site.ContactInfo(c.Request.Context())
	if err != nil {
		respondError(c, sc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, info)
}

func (sc *SiteController) GetSocialLinks(c *gin.Context) {
	links, err := sc.Site.SocialLinks(c.Request.Context())
	if err != nil {
		respondError(c, sc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, links)
}

func (sc *SiteController) GetServicesGallery(c *gin.Context) {
	items, err := sc.Site.ServicesGallery(c.Request.Context())
	if err != nil {
		respondError(c, sc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, items)
}

// GetHotelSettings returns an empty record rather than 404 when nothing is configured yet.
func (sc *SiteController) GetHotelSettings(c *gin.Context) {
	hotel, err := sc.Site.HotelSettings(c.Request.Context())
	if errors.Is(err, services.ErrSettingsNotFound) {
		utils.JSONSuccess(c, http.StatusOK, gin.H{"hotel": models.HotelSetting{}})
		return
	}
	if err != nil {
		respondError(c, sc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"hotel": hotel})
}

// GetBankDetails returns the account guests pay into for bank transfers.
func (sc *SiteController) GetBankDetails(c *gin.Context) {
	hotel, err := sc.Site.HotelSettings(c.Request.Context())
	if err != nil {
		respondError(c, sc.Log, err)
		return
	}
	if hotel.BankAccountNumber == "" {
		utils.JSONError(c, http.StatusNotFound, "error.settings_not_found", "Bank transfer details are not configured")
		return
	}
	currency := hotel.Currency
	if currency == "" {
		currency = services.Currency
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"account_name":   hotel.BankAccountName,
		"account_number": hotel.BankAccountNumber,
		"bank_name":      hotel.BankName,
		"currency":       currency,
	})
}

func (sc *SiteController) CreateContactMessage(c *gin.Context) {
	var req ContactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	msg, err := sc.Site.SubmitContactMessage(c.Request.Context(), services.ContactMessageInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		CheckIn:   parseOptionalDate(req.CheckIn),
		CheckOut:  parseOptionalDate(req.CheckOut),
		Message:   req.Message,
	})
	if err != nil {
		respondError(c, sc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"id": msg.ID})
}

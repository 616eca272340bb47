package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"pension-backend/models"
)

const (
	DefaultFeaturedReviews = 6
	maxFeaturedReviews     = 50
)

var ErrSettingsNotFound = errors.New("settings_not_found")

// SiteService serves the display content around the booking flow.
type SiteService struct {
	DB *gorm.DB
}

func NewSiteService(db *gorm.DB) *SiteService {
	return &SiteService{DB: db}
}

func (s *SiteService) ListRoomMedia(ctx context.Context, roomIDs []string) ([]models.RoomMedia, error) {
	q := s.DB.WithContext(ctx)
	if len(roomIDs) > 0 {
		q = q.Where("room_id IN ?", roomIDs)
	}
	media := []models.RoomMedia{}
	if err := primaryMediaFirst(q).Find(&media).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve room media: %w", err)
	}
	return media, nil
}

func (s *SiteService) FeaturedReviews(ctx context.Context, limit int) ([]models.RoomReview, error) {
	if limit <= 0 {
		limit = DefaultFeaturedReviews
	}
	if limit > maxFeaturedReviews {
		limit = maxFeaturedReviews
	}
	reviews := []models.RoomReview{}
	err := s.DB.WithContext(ctx).
		Where("is_featured = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}
	return reviews, nil
}

func (s *SiteService) ContactInfo(ctx context.Context) ([]models.ContactInfo, error) {
	info := []models.ContactInfo{}
	if err := s.DB.WithContext(ctx).Order("sort_order ASC").Find(&info).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve contact info: %w", err)
	}
	return info, nil
}

func (s *SiteService) SocialLinks(ctx context.Context) ([]models.SocialLink, error) {
	links := []models.SocialLink{}
	if err := s.DB.WithContext(ctx).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve social links: %w", err)
	}
	return links, nil
}

func (s *SiteService) ServicesGallery(ctx context.Context) ([]models.ServiceGalleryItem, error) {
	items := []models.ServiceGalleryItem{}
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve services gallery: %w", err)
	}
	return items, nil
}

func (s *SiteService) HotelSettings(ctx context.Context) (*models.HotelSetting, error) {
	var setting models.HotelSetting
	err := s.DB.WithContext(ctx).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve hotel settings: %w", err)
	}
	return &setting, nil
}

// HotelSettingsInput replaces the editable fields of the settings row.
type HotelSettingsInput struct {
	Name              string
	Address           string
	Phone             string
	Email             string
	Website           string
	Logo              string
	BankAccountName   string
	BankAccountNumber string
	BankName          string
}

// SaveHotelSettings updates the single settings row, creating it on first use.
func (s *SiteService) SaveHotelSettings(ctx context.Context, in HotelSettingsInput) (*models.HotelSetting, error) {
	var hotel models.HotelSetting
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&hotel).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hotel.Name = strings.TrimSpace(in.Name)
		hotel.Address = strings.TrimSpace(in.Address)
		hotel.Phone = strings.TrimSpace(in.Phone)
		hotel.Email = strings.TrimSpace(in.Email)
		hotel.Website = strings.TrimSpace(in.Website)
		hotel.Logo = strings.TrimSpace(in.Logo)
		hotel.BankAccountName = strings.TrimSpace(in.BankAccountName)
		hotel.BankAccountNumber = strings.TrimSpace(in.BankAccountNumber)
		hotel.BankName = strings.TrimSpace(in.BankName)
		if hotel.Currency == "" {
			hotel.Currency = Currency
		}
		if hotel.ID == 0 {
			return tx.Create(&hotel).Error
		}
		return tx.Save(&hotel).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save hotel settings: %w", err)
	}
	return &hotel, nil
}

type ContactMessageInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	CheckIn   *time.Time
	CheckOut  *time.Time
	Message   string
}

func (s *SiteService) SubmitContactMessage(ctx context.Context, in ContactMessageInput) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Message:   strings.TrimSpace(in.Message),
		CheckIn:   in.CheckIn,
		CheckOut:  in.CheckOut,
	}
	if msg.FirstName == "" || msg.LastName == "" || msg.Email == "" || msg.Message == "" {
		return nil, ValidationError{Message: "Please fill in all required fields"}
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		return nil, ValidationError{Message: "Please enter a valid email address"}
	}
	if in.CheckIn != nil && in.CheckOut != nil && !in.CheckOut.After(*in.CheckIn) {
		return nil, ValidationError{Message: "Check-out must be after check-in"}
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		msg.Phone = &phone
	}

	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	return msg, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusCancelled  = "cancelled"
	BookingStatusCheckedOut = "checked_out"
)

// ActiveBookingStatuses hold a room for their date range.
var ActiveBookingStatuses = []string{BookingStatusPending, BookingStatusConfirmed}

type Booking struct {
	ID              string    `gorm:"primaryKey;type:char(36)" json:"id"`
	RoomID          string    `gorm:"column:room_id;type:char(36);index:idx_booking_room_dates" json:"room_id"`
	GuestName       string    `gorm:"column:guest_name;size:255" json:"guest_name"`
	GuestEmail      string    `gorm:"column:guest_email;size:255" json:"guest_email"`
	GuestPhone      string    `gorm:"column:guest_phone;size:50" json:"guest_phone"`
	CheckInDate     time.Time `gorm:"column:check_in_date;type:date;index:idx_booking_room_dates" json:"check_in_date"`
	CheckOutDate    time.Time `gorm:"column:check_out_date;type:date;index:idx_booking_room_dates" json:"check_out_date"`
	NumberOfGuests  int       `gorm:"column:number_of_guests" json:"number_of_guests"`
	TotalAmount     float64   `gorm:"column:total_amount;type:decimal(12,2)" json:"total_amount"`
	BookingStatus   string    `gorm:"column:booking_status;size:32;default:pending" json:"booking_status"`
	SpecialRequests *string   `gorm:"column:special_requests;type:text" json:"special_requests,omitempty"`
	ScreenshotURL   *string   `gorm:"column:screenshot_url;size:512" json:"screenshot_url,omitempty"`
	TransactionID   *string   `gorm:"column:transaction_id;size:255" json:"transaction_id,omitempty"`
	IdempotencyKey  string    `gorm:"column:idempotency_key;size:64;index" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Room     *Room     `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Payments []Payment `gorm:"foreignKey:BookingID" json:"payments,omitempty"`
}

// IsActive reports whether the booking still holds its room.
func (b *Booking) IsActive() bool {
	return b.BookingStatus == BookingStatusPending || b.BookingStatus == BookingStatusConfirmed
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentMethodChapa        PaymentMethod = "chapa"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodChapa || m == PaymentMethodBankTransfer
}

const (
	PaymentStatusPending  = "pending"
	PaymentStatusVerified = "verified"
	PaymentStatusRejected = "rejected"
)

type Payment struct {
	ID                       string        `gorm:"primaryKey;type:char(36)" json:"id"`
	BookingID                string        `gorm:"column:booking_id;type:char(36);index" json:"booking_id"`
	PaymentMethod            PaymentMethod `gorm:"column:payment_method;size:32" json:"payment_method"`
	PaymentStatus            string        `gorm:"column:payment_status;size:32;default:pending" json:"payment_status"`
	TransactionReference     *string       `gorm:"column:transaction_reference;size:255" json:"transaction_reference,omitempty"`
	TransactionScreenshotURL *string       `gorm:"column:transaction_screenshot_url;size:512" json:"transaction_screenshot_url,omitempty"`
	Amount                   float64       `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	PaymentDate              *time.Time    `gorm:"column:payment_date" json:"payment_date,omitempty"`
	CreatedAt                time.Time     `json:"created_at"`

	Booking *Booking `gorm:"foreignKey:BookingID;references:ID" json:"booking,omitempty"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

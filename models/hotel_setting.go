package models

import "time"

// HotelSetting is a single-row table with the property's public details and
// the account guests transfer to when paying by bank transfer.
type HotelSetting struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:255" json:"name"`
	Address           string    `gorm:"type:text" json:"address"`
	Phone             string    `gorm:"size:50" json:"phone"`
	Email             string    `gorm:"size:150" json:"email"`
	Website           string    `gorm:"size:255" json:"website"`
	Logo              string    `gorm:"size:255" json:"logo"`
	BankAccountName   string    `gorm:"column:bank_account_name;size:255" json:"bank_account_name"`
	BankAccountNumber string    `gorm:"column:bank_account_number;size:64" json:"bank_account_number"`
	BankName          string    `gorm:"column:bank_name;size:255" json:"bank_name"`
	Currency          string    `gorm:"column:currency;size:8;default:ETB" json:"currency"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

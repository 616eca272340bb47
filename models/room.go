package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Room struct {
	ID            string                      `gorm:"primaryKey;type:char(36)" json:"id"`
	RoomNumber    string                      `gorm:"column:room_number;uniqueIndex;type:varchar(50)" json:"room_number"`
	Floor         int                         `gorm:"column:floor;index" json:"floor"`
	RoomType      string                      `gorm:"column:room_type;size:100" json:"room_type"`
	Capacity      int                         `gorm:"column:capacity;default:2" json:"capacity"`
	PricePerNight float64                     `gorm:"column:price_per_night;type:decimal(12,2)" json:"price_per_night"`
	SizeSqm       *float64                    `gorm:"column:size_sqm" json:"size_sqm,omitempty"`
	Amenities     datatypes.JSONSlice[string] `gorm:"column:amenities;type:json" json:"amenities"`
	IsAvailable   bool                        `gorm:"column:is_available;default:true" json:"is_available"`
	Description   string                      `gorm:"column:description;type:text" json:"description"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`

	Media []RoomMedia `gorm:"foreignKey:RoomID" json:"media,omitempty"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomMedia struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	RoomID    string    `gorm:"column:room_id;type:char(36);index" json:"room_id"`
	MediaType string    `gorm:"column:media_type;size:16" json:"media_type"`
	MediaURL  string    `gorm:"column:media_url;size:512" json:"media_url"`
	Caption   *string   `gorm:"column:caption;size:255" json:"caption,omitempty"`
	IsPrimary bool      `gorm:"column:is_primary;default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

func (RoomMedia) TableName() string { return "room_media" }

type RoomReview struct {
	ID         string    `gorm:"primaryKey;type:char(36)" json:"id"`
	RoomID     string    `gorm:"column:room_id;type:char(36);index" json:"room_id"`
	GuestName  string    `gorm:"column:guest_name;size:255" json:"guest_name"`
	Rating     int       `gorm:"column:rating" json:"rating"`
	ReviewText string    `gorm:"column:review_text;type:text" json:"review_text"`
	IsFeatured bool      `gorm:"column:is_featured;default:false" json:"is_featured"`
	CreatedAt  time.Time `json:"created_at"`
}

type ContactInfo struct {
	ID        string                      `gorm:"primaryKey;type:char(36)" json:"id"`
	Icon      string                      `gorm:"column:icon;size:64" json:"icon"`
	Title     string                      `gorm:"column:title;size:255" json:"title"`
	Details   datatypes.JSONSlice[string] `gorm:"column:details;type:json" json:"details"`
	SortOrder int                         `gorm:"column:sort_order" json:"sort_order"`
}

func (ContactInfo) TableName() string { return "contact_info" }

type SocialLink struct {
	ID    string `gorm:"primaryKey;type:char(36)" json:"id"`
	Icon  string `gorm:"column:icon;size:64" json:"icon"`
	Href  string `gorm:"column:href;size:512" json:"href"`
	Label string `gorm:"column:label;size:128" json:"label"`
}

type ServiceGalleryItem struct {
	ID          string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Title       string    `gorm:"column:title;size:255" json:"title"`
	Subtitle    *string   `gorm:"column:subtitle;size:255" json:"subtitle,omitempty"`
	Description *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	MediaURL    string    `gorm:"column:media_url;size:512" json:"media_url"`
	MediaType   string    `gorm:"column:media_type;size:16" json:"media_type"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ServiceGalleryItem) TableName() string { return "services_gallery" }

type ContactMessage struct {
	ID        string     `gorm:"primaryKey;type:char(36)" json:"id"`
	FirstName string     `gorm:"column:first_name;size:128" json:"first_name"`
	LastName  string     `gorm:"column:last_name;size:128" json:"last_name"`
	Email     string     `gorm:"column:email;size:255" json:"email"`
	Phone     *string    `gorm:"column:phone;size:50" json:"phone,omitempty"`
	CheckIn   *time.Time `gorm:"column:check_in;type:date" json:"check_in,omitempty"`
	CheckOut  *time.Time `gorm:"column:check_out;type:date" json:"check_out,omitempty"`
	Message   string     `gorm:"column:message;type:text" json:"message"`
	CreatedAt time.Time  `json:"created_at"`
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (m *RoomMedia) BeforeCreate(tx *gorm.DB) error          { newID(&m.ID); return nil }
func (r *RoomReview) BeforeCreate(tx *gorm.DB) error         { newID(&r.ID); return nil }
func (c *ContactInfo) BeforeCreate(tx *gorm.DB) error        { newID(&c.ID); return nil }
func (s *SocialLink) BeforeCreate(tx *gorm.DB) error         { newID(&s.ID); return nil }
func (g *ServiceGalleryItem) BeforeCreate(tx *gorm.DB) error { newID(&g.ID); return nil }
func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error     { newID(&m.ID); return nil }

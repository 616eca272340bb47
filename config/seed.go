package config

import (
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pension-backend/models"
)

func SeedDatabase(db *gorm.DB, log logrus.FieldLogger) {
	// ---------------- Hotel settings ----------------
	var settingsCount int64
	db.Model(&models.HotelSetting{}).Count(&settingsCount)
	if settingsCount == 0 {
		setting := models.HotelSetting{
			Name:              "Pension Hotel",
			Address:           "Bole Road, Addis Ababa",
			Phone:             "+251 11 000 0000",
			Email:             "reservations@pension.local",
			BankAccountName:   "Hotel Booking Ltd",
			BankAccountNumber: "1234567890",
			BankName:          "Commercial Bank of Ethiopia",
			Currency:          "ETB",
		}
		if err := db.Create(&setting).Error; err != nil {
			log.Warnf("failed to seed hotel settings: %v", err)
		}
	}

	// ---------------- Rooms ----------------
	var roomCount int64
	db.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		type roomSeed struct {
			number   string
			floor    int
			kind     string
			capacity int
			price    float64
		}
		seeds := []roomSeed{
			{"101", 1, "Standard", 2, 600},
			{"102", 1, "Standard", 2, 600},
			{"103", 1, "Twin", 2, 700},
			{"201", 2, "Deluxe", 3, 950},
			{"202", 2, "Deluxe", 3, 950},
			{"203", 2, "Family", 4, 1200},
			{"301", 3, "Suite", 4, 1800},
			{"302", 3, "Suite", 4, 1800},
		}
		rooms := make([]models.Room, 0, len(seeds))
		for _, s := range seeds {
			rooms = append(rooms, models.Room{
				RoomNumber:    s.number,
				Floor:         s.floor,
				RoomType:      s.kind,
				Capacity:      s.capacity,
				PricePerNight: s.price,
				Amenities:     datatypes.NewJSONSlice([]string{"Wi-Fi", "Hot shower", "Breakfast"}),
				IsAvailable:   true,
				Description:   s.kind + " room on floor " + s.number[:1],
			})
		}
		if err := db.Create(&rooms).Error; err != nil {
			log.Warnf("failed to seed rooms: %v", err)
		} else {
			log.Infof("seeded %d rooms", len(rooms))
		}
	}

	// ---------------- Contact info ----------------
	var contactCount int64
	db.Model(&models.ContactInfo{}).Count(&contactCount)
	if contactCount == 0 {
		info := []models.ContactInfo{
			{Icon: "map-pin", Title: "Address", Details: datatypes.NewJSONSlice([]string{"Bole Road", "Addis Ababa, Ethiopia"}), SortOrder: 1},
			{Icon: "phone", Title: "Phone", Details: datatypes.NewJSONSlice([]string{"+251 11 000 0000"}), SortOrder: 2},
			{Icon: "mail", Title: "Email", Details: datatypes.NewJSONSlice([]string{"reservations@pension.local"}), SortOrder: 3},
		}
		if err := db.Create(&info).Error; err != nil {
			log.Warnf("failed to seed contact info: %v", err)
		}
	}

	// ---------------- Social links ----------------
	var socialCount int64
	db.Model(&models.SocialLink{}).Count(&socialCount)
	if socialCount == 0 {
		links := []models.SocialLink{
			{Icon: "facebook", Href: "https://facebook.com/", Label: "Facebook"},
			{Icon: "instagram", Href: "https://instagram.com/", Label: "Instagram"},
		}
		if err := db.Create(&links).Error; err != nil {
			log.Warnf("failed to seed social links: %v", err)
		}
	}
}

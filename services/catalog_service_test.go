package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func q(sql string) string { return regexp.QuoteMeta(sql) }

var roomColumns = []string{"id", "room_number", "floor", "room_type", "capacity", "price_per_night", "amenities", "is_available"}

func TestListRoomsFiltersAndSorts(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCatalogService(db)

	mock.ExpectQuery(q("SELECT * FROM `rooms` WHERE is_available = ? AND floor = ? AND room_type = ? ORDER BY floor ASC, room_number ASC")).
		WithArgs(true, 2, "Deluxe").
		WillReturnRows(sqlmock.NewRows(roomColumns).
			AddRow("r1", "201", 2, "Deluxe", 3, 950.0, []byte(`["Wi-Fi","Balcony"]`), true).
			AddRow("r2", "202", 2, "Deluxe", 3, 950.0, []byte(`[]`), true))

	available, floor := true, 2
	rooms, err := svc.ListRooms(context.Background(), RoomFilter{Available: &available, Floor: &floor, RoomType: "Deluxe"})
	require.NoError(t, err)

	require.Len(t, rooms, 2)
	assert.Equal(t, "201", rooms[0].RoomNumber)
	assert.Equal(t, []string{"Wi-Fi", "Balcony"}, []string(rooms[0].Amenities))
	assert.InDelta(t, 950, rooms[1].PricePerNight, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRoomsWithoutFilter(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT * FROM `rooms` ORDER BY floor ASC, room_number ASC")).
		WillReturnRows(sqlmock.NewRows(roomColumns))

	rooms, err := NewCatalogService(db).ListRooms(context.Background(), RoomFilter{})
	require.NoError(t, err)
	assert.NotNil(t, rooms)
	assert.Empty(t, rooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRoomPreloadsMedia(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(q("SELECT * FROM `rooms` WHERE id = ?")).
		WithArgs("r1", 1).
		WillReturnRows(sqlmock.NewRows(roomColumns).AddRow("r1", "101", 1, "Standard", 2, 600.0, []byte(`[]`), true))
	mock.ExpectQuery(q("SELECT * FROM `room_media` WHERE `room_media`.`room_id` = ? ORDER BY is_primary DESC, created_at ASC")).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "media_type", "media_url", "is_primary"}).
			AddRow("m1", "r1", "image", "https://cdn/101.jpg", true))

	room, err := NewCatalogService(db).GetRoom(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, room.Media, 1)
	assert.True(t, room.Media[0].IsPrimary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRoomNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT * FROM `rooms` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(roomColumns))

	_, err := NewCatalogService(db).GetRoom(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestFloorDetails(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(q("SELECT * FROM `rooms` WHERE floor = ? ORDER BY room_number ASC")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(roomColumns).
			AddRow("r1", "101", 1, "Standard", 2, 600.0, []byte(`[]`), true).
			AddRow("r2", "102", 1, "Standard", 2, 600.0, []byte(`[]`), false))
	mock.ExpectQuery(q("SELECT * FROM `room_media` WHERE room_id IN (?,?) ORDER BY is_primary DESC, created_at ASC")).
		WithArgs("r1", "r2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "media_url", "is_primary"}).
			AddRow("m1", "r2", "https://cdn/102.jpg", true))
	mock.ExpectQuery(q("SELECT * FROM `room_reviews` WHERE room_id IN (?,?) AND is_featured = ? ORDER BY created_at DESC")).
		WithArgs("r1", "r2", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "guest_name", "rating", "is_featured"}).
			AddRow("v1", "r1", "Sara", 5, true))

	details, err := NewCatalogService(db).FloorDetails(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, details.Floor)
	assert.Len(t, details.Rooms, 2)
	assert.Len(t, details.Media, 1)
	assert.Equal(t, "Sara", details.Reviews[0].GuestName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFloorDetailsEmptyFloorSkipsLookups(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT * FROM `rooms` WHERE floor = ?")).
		WillReturnRows(sqlmock.NewRows(roomColumns))

	details, err := NewCatalogService(db).FloorDetails(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, details.Rooms)
	assert.NotNil(t, details.Media)
	assert.NotNil(t, details.Reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickAvailableRooms(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT * FROM `rooms` WHERE is_available = ? ORDER BY floor ASC, room_number ASC LIMIT ?")).
		WithArgs(true, 2).
		WillReturnRows(sqlmock.NewRows(roomColumns).
			AddRow("r1", "101", 1, "Standard", 2, 600.0, []byte(`[]`), true).
			AddRow("r2", "102", 1, "Standard", 2, 600.0, []byte(`[]`), true))

	rooms, err := NewCatalogService(db).PickAvailableRooms(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

func TestPickAvailableRoomsNotEnough(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT * FROM `rooms` WHERE is_available = ?")).
		WillReturnRows(sqlmock.NewRows(roomColumns).AddRow("r1", "101", 1, "Standard", 2, 600.0, []byte(`[]`), true))

	_, err := NewCatalogService(db).PickAvailableRooms(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotEnoughRooms)

	_, err = NewCatalogService(db).PickAvailableRooms(context.Background(), 0)
	assert.True(t, IsValidation(err))
}

func TestFeaturedReviewsDefaultsLimit(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT * FROM `room_reviews` WHERE is_featured = ? ORDER BY created_at DESC LIMIT ?")).
		WithArgs(true, DefaultFeaturedReviews).
		WillReturnRows(sqlmock.NewRows([]string{"id", "guest_name", "rating"}).AddRow("v1", "Sara", 5))

	reviews, err := NewSiteService(db).FeaturedReviews(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactInfoSortOrder(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT * FROM `contact_info` ORDER BY sort_order ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "icon", "title", "details", "sort_order"}).
			AddRow("c1", "phone", "Phone", []byte(`["+251 11 000 0000"]`), 1))

	info, err := NewSiteService(db).ContactInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"+251 11 000 0000"}, []string(info[0].Details))
}

func TestServicesGalleryNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT * FROM `services_gallery` ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "media_url", "media_type"}).
			AddRow("g1", "Spa", "https://cdn/spa.mp4", "video"))

	items, err := NewSiteService(db).ServicesGallery(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "video", items[0].MediaType)
}

func TestHotelSettingsMissing(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT * FROM `hotel_settings`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewSiteService(db).HotelSettings(context.Background())
	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestSubmitContactMessage(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO `contact_messages`")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	msg, err := NewSiteService(db).SubmitContactMessage(context.Background(), ContactMessageInput{
		FirstName: " Sara ", LastName: "Tesfaye", Email: "sara@example.com", Message: "Airport pickup?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sara", msg.FirstName)
	assert.NotEmpty(t, msg.ID)
	assert.Nil(t, msg.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitContactMessageValidation(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSiteService(db)
	in, out := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	cases := []ContactMessageInput{
		{LastName: "T", Email: "a@b.c", Message: "hi"},
		{FirstName: "S", LastName: "T", Email: "nope", Message: "hi"},
		{FirstName: "S", LastName: "T", Email: "a@b.c", Message: "  "},
		{FirstName: "S", LastName: "T", Email: "a@b.c", Message: "hi", CheckIn: &in, CheckOut: &out},
	}
	for _, c := range cases {
		_, err := svc.SubmitContactMessage(context.Background(), c)
		assert.True(t, IsValidation(err))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveHotelSettingsCreatesFirstRow(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT * FROM `hotel_settings` ORDER BY `hotel_settings`.`id` LIMIT ?")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(q("INSERT INTO `hotel_settings`")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	hotel, err := NewSiteService(db).SaveHotelSettings(context.Background(), HotelSettingsInput{
		Name:              "Pension Addis ",
		BankAccountNumber: "1000123456789",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), hotel.ID)
	assert.Equal(t, "Pension Addis", hotel.Name)
	assert.Equal(t, Currency, hotel.Currency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pension-backend/models"
	"pension-backend/services"
)

const mysqlErrNoReferenced = 1452

// BookingRepository is the MySQL side of the booking recorder.
type BookingRepository struct {
	DB *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

// FindRooms returns the rooms in the order the ids were given.
func (r *BookingRepository) FindRooms(ctx context.Context, ids []string) ([]models.Room, error) {
	var rooms []models.Room
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("find rooms: %w", err)
	}

	byID := make(map[string]models.Room, len(rooms))
	for _, room := range rooms {
		byID[room.ID] = room
	}
	ordered := make([]models.Room, 0, len(ids))
	for _, id := range ids {
		room, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", services.ErrRoomNotFound, id)
		}
		ordered = append(ordered, room)
	}
	return ordered, nil
}

func (r *BookingRepository) HasOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	return hasOverlap(r.DB.WithContext(ctx), roomID, checkIn, checkOut)
}

func (r *BookingRepository) InTx(ctx context.Context, fn func(tx services.BookingTx) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&bookingTx{db: tx})
	})
}

// half-open ranges: a check-out day can be the next guest's check-in day
func hasOverlap(db *gorm.DB, roomID string, checkIn, checkOut time.Time) (bool, error) {
	var n int64
	err := db.Model(&models.Booking{}).
		Where("room_id = ? AND booking_status IN ?", roomID, models.ActiveBookingStatuses).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("overlap check: %w", err)
	}
	return n > 0, nil
}

type bookingTx struct {
	db *gorm.DB
}

func (t *bookingTx) FindReplay(key, roomID string) (*models.Booking, error) {
	var found []models.Booking
	err := t.db.Preload("Payments").
		Where("idempotency_key = ? AND room_id = ? AND booking_status IN ?", key, roomID, models.ActiveBookingStatuses).
		Limit(1).
		Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("find replay: %w", err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (t *bookingTx) LockRoom(roomID string) (*models.Room, error) {
	var room models.Room
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", roomID).
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock room: %w", err)
	}
	return &room, nil
}

func (t *bookingTx) HasOverlap(roomID string, checkIn, checkOut time.Time) (bool, error) {
	return hasOverlap(t.db, roomID, checkIn, checkOut)
}

func (t *bookingTx) CreateBooking(b *models.Booking) error {
	if err := t.db.Create(b).Error; err != nil {
		return fmt.Errorf("insert booking: %w", translate(err))
	}
	return nil
}

func (t *bookingTx) AttachScreenshot(bookingID, url string) error {
	err := t.db.Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("screenshot_url", url).Error
	if err != nil {
		return fmt.Errorf("attach screenshot: %w", err)
	}
	return nil
}

func (t *bookingTx) MarkRoomUnavailable(roomID string) error {
	err := t.db.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("is_available", false).Error
	if err != nil {
		return fmt.Errorf("update room availability: %w", err)
	}
	return nil
}

func (t *bookingTx) CreatePayment(p *models.Payment) error {
	if err := t.db.Create(p).Error; err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// a booking only references its room, so a failed FK means the room is gone
func translate(err error) error {
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) && me.Number == mysqlErrNoReferenced {
		return fmt.Errorf("%w: %s", services.ErrRoomNotFound, me.Message)
	}
	return err
}

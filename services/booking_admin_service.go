package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pension-backend/models"
)

// BookingAdminService moves bookings through review and checkout.
type BookingAdminService struct {
	DB *gorm.DB
}

func NewBookingAdminService(db *gorm.DB) *BookingAdminService {
	return &BookingAdminService{DB: db}
}

func lockPayment(tx *gorm.DB, id string) (*models.Payment, error) {
	var p models.Payment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func lockBooking(tx *gorm.DB, id string) (*models.Booking, error) {
	var b models.Booking
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// releaseRoom lists the room as available again once nothing holds it.
func releaseRoom(tx *gorm.DB, roomID string) error {
	var active int64
	err := tx.Model(&models.Booking{}).
		Where("room_id = ? AND booking_status IN ?", roomID, models.ActiveBookingStatuses).
		Count(&active).Error
	if err != nil {
		return err
	}
	if active > 0 {
		return nil
	}
	return tx.Model(&models.Room{}).Where("id = ?", roomID).Update("is_available", true).Error
}

func (s *BookingAdminService) VerifyPayment(ctx context.Context, paymentID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := lockPayment(tx, paymentID)
		if err != nil {
			return err
		}
		if p.PaymentStatus != models.PaymentStatusPending {
			return fmt.Errorf("%w: payment is %s", ErrInvalidTransition, p.PaymentStatus)
		}

		if err := tx.Model(&models.Payment{}).Where("id = ?", p.ID).
			Update("payment_status", models.PaymentStatusVerified).Error; err != nil {
			return err
		}
		return tx.Model(&models.Booking{}).Where("id = ?", p.BookingID).
			Update("booking_status", models.BookingStatusConfirmed).Error
	})
}

func (s *BookingAdminService) RejectPayment(ctx context.Context, paymentID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := lockPayment(tx, paymentID)
		if err != nil {
			return err
		}
		if p.PaymentStatus != models.PaymentStatusPending {
			return fmt.Errorf("%w: payment is %s", ErrInvalidTransition, p.PaymentStatus)
		}
		b, err := lockBooking(tx, p.BookingID)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Payment{}).Where("id = ?", p.ID).
			Update("payment_status", models.PaymentStatusRejected).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Booking{}).Where("id = ?", b.ID).
			Update("booking_status", models.BookingStatusCancelled).Error; err != nil {
			return err
		}
		return releaseRoom(tx, b.RoomID)
	})
}

func (s *BookingAdminService) CheckoutBooking(ctx context.Context, bookingID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if b.BookingStatus != models.BookingStatusConfirmed {
			return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, b.BookingStatus)
		}

		if err := tx.Model(&models.Booking{}).Where("id = ?", b.ID).
			Update("booking_status", models.BookingStatusCheckedOut).Error; err != nil {
			return err
		}
		return releaseRoom(tx, b.RoomID)
	})
}

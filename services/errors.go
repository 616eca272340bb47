package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRoomNotFound        = errors.New("room_not_found")
	ErrRoomOverlap         = errors.New("room_overlapped")
	ErrNotEnoughRooms      = errors.New("not_enough_rooms")
	ErrDuplicateSubmission = errors.New("duplicate_submission")
	ErrBookingNotFound     = errors.New("booking_not_found")
	ErrPaymentNotFound     = errors.New("payment_not_found")
	ErrInvalidTransition   = errors.New("invalid_status_transition")
)

// ValidationError is a user-facing rejection raised before anything is written.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return "validation: " + e.Message }

func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// PartialFailureError is returned when a multi-room request stopped part way.
// Recorded holds the rooms whose booking and payment were committed before
// FailedRoomID failed.
type PartialFailureError struct {
	Recorded     []RecordedBooking
	FailedRoomID string
	Err          error
}

func (e *PartialFailureError) Error() string {
	ids := make([]string, 0, len(e.Recorded))
	for _, r := range e.Recorded {
		ids = append(ids, r.Booking.RoomID)
	}
	return fmt.Sprintf("room %s failed after recording [%s]: %v", e.FailedRoomID, strings.Join(ids, ","), e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

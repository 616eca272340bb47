package services

import (
	"context"
	"time"
)

type AvailabilityChecker struct {
	repo BookingRepository
}

func NewAvailabilityChecker(repo BookingRepository) *AvailabilityChecker {
	return &AvailabilityChecker{repo: repo}
}

// IsRoomAvailable reports whether no pending or confirmed booking of the room
// overlaps [checkIn, checkOut). The recorder applies the same rule under a
// row lock before it writes.
func (a *AvailabilityChecker) IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	if CountNights(&checkIn, &checkOut) <= 0 {
		return false, ValidationError{Message: "check_out must be after check_in"}
	}
	if _, err := a.repo.FindRooms(ctx, []string{roomID}); err != nil {
		return false, err
	}
	overlap, err := a.repo.HasOverlap(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

package controllers

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"pension-backend/services"
	"pension-backend/utils"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by the request DTOs.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
				_, ok := parseDate(fl.Field().String())
				return ok
			})
		}
	})
}

// parseDate accepts YYYY-MM-DD or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func parseOptionalDate(s string) *time.Time {
	if t, ok := parseDate(s); ok {
		return &t
	}
	return nil
}

// splitIDs flattens repeated and comma separated id values, keeping the
// first occurrence of each.
func splitIDs(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			id := strings.TrimSpace(part)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "Invalid value for "+strings.ToLower(fe.Field()))
		return
	}
	utils.JSONError(c, http.StatusBadRequest, "error.invalid_payload", "Invalid request payload")
}

// respondError maps service errors onto HTTP responses. Anything unknown is
// logged and reported as a 500 without leaking details.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var verr services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.JSONError(c, http.StatusBadRequest, "error.validation", verr.Message)
	case errors.Is(err, services.ErrDuplicateSubmission):
		utils.JSONError(c, http.StatusConflict, "error.duplicate_submission", "This booking is already being processed")
	case errors.Is(err, services.ErrRoomOverlap):
		utils.JSONError(c, http.StatusConflict, "error.room_unavailable", "The selected room is already booked for these dates")
	case errors.Is(err, services.ErrNotEnoughRooms):
		utils.JSONError(c, http.StatusConflict, "error.not_enough_rooms", "Not enough rooms are available")
	case errors.Is(err, services.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, "error.invalid_transition", err.Error())
	case errors.Is(err, services.ErrRoomNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.room_not_found", "Room not found")
	case errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.booking_not_found", "Booking not found")
	case errors.Is(err, services.ErrPaymentNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.payment_not_found", "Payment not found")
	case errors.Is(err, services.ErrSettingsNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.settings_not_found", "Hotel settings are not configured")
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "Something went wrong. Please try again.")
	}
}

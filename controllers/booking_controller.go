package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pension-backend/models"
	"pension-backend/services"
	"pension-backend/utils"
)

type bookingRecorder interface {
	Record(ctx context.Context, req services.BookingRequest) (*services.RecordResult, error)
}

type roomFinder interface {
	FindRooms(ctx context.Context, ids []string) ([]models.Room, error)
}

type availabilityChecker interface {
	IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
}

type QuoteRequest struct {
	RoomIDs  []string `json:"room_ids" binding:"required,min=1"`
	CheckIn  string   `json:"check_in" binding:"omitempty,ymd"`
	CheckOut string   `json:"check_out" binding:"omitempty,ymd"`
}

// CreateBookingForm is the multipart payload of the booking form. Required
// fields are checked by the recorder so the guest sees its messages.
type CreateBookingForm struct {
	FirstName            string   `form:"first_name"`
	LastName             string   `form:"last_name"`
	Email                string   `form:"email"`
	Phone                string   `form:"phone"`
	RoomIDs              []string `form:"room_ids"`
	CheckIn              string   `form:"check_in" binding:"omitempty,ymd"`
	CheckOut             string   `form:"check_out" binding:"omitempty,ymd"`
	Guests               int      `form:"guests" binding:"omitempty,min=0"`
	PaymentMethod        string   `form:"payment_method"`
	TransactionReference string   `form:"transaction_reference"`
	SpecialRequests      string   `form:"special_requests"`
}

type BookingController struct {
	Recorder     bookingRecorder
	Rooms        roomFinder
	Availability availabilityChecker
	Log          logrus.FieldLogger
}

func NewBookingController(recorder bookingRecorder, rooms roomFinder, availability availabilityChecker, log logrus.FieldLogger) *BookingController {
	return &BookingController{Recorder: recorder, Rooms: rooms, Availability: availability, Log: log}
}

// Quote prices a stay without writing anything. The nightly rate comes from
// the first selected room.
func (bc *BookingController) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ids := splitIDs(req.RoomIDs)
	if len(ids) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "Please select at least one room")
		return
	}

	rooms, err := bc.Rooms.FindRooms(c.Request.Context(), ids)
	if err == nil && len(rooms) == 0 {
		err = services.ErrRoomNotFound
	}
	if err != nil {
		respondError(c, bc.Log, err)
		return
	}

	price := rooms[0].PricePerNight
	q := services.CalculateQuote(&price, parseOptionalDate(req.CheckIn), parseOptionalDate(req.CheckOut), len(rooms))
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"quote":    q,
		"display":  q.DisplayTotal(),
		"bookable": q.Bookable(),
		"currency": services.Currency,
	})
}

// CreateBooking records one booking and one payment per selected room.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var form CreateBookingForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err)
		return
	}

	var shot *services.Screenshot
	fh, err := c.FormFile("screenshot")
	switch {
	case err == nil:
		shot, err = services.ReadScreenshot(fh)
		if err != nil {
			respondError(c, bc.Log, err)
			return
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		utils.JSONError(c, http.StatusBadRequest, "error.invalid_payload", "Could not read the uploaded file")
		return
	}

	req := services.BookingRequest{
		FirstName:            form.FirstName,
		LastName:             form.LastName,
		Email:                form.Email,
		Phone:                form.Phone,
		RoomIDs:              splitIDs(form.RoomIDs),
		CheckIn:              parseOptionalDate(form.CheckIn),
		CheckOut:             parseOptionalDate(form.CheckOut),
		Guests:               form.Guests,
		Method:               models.PaymentMethod(strings.TrimSpace(form.PaymentMethod)),
		TransactionReference: form.TransactionReference,
		SpecialRequests:      form.SpecialRequests,
		Screenshot:           shot,
		IdempotencyKey:       c.GetHeader("Idempotency-Key"),
	}

	result, err := bc.Recorder.Record(c.Request.Context(), req)
	var partial *services.PartialFailureError
	if errors.As(err, &partial) {
		bc.Log.WithError(partial.Err).WithFields(logrus.Fields{
			"failed_room_id": partial.FailedRoomID,
			"recorded":       len(partial.Recorded),
		}).Warn("booking partially recorded")
		utils.JSONPartial(c, http.StatusMultiStatus, gin.H{
			"recorded":       partial.Recorded,
			"failed_room_id": partial.FailedRoomID,
		}, "error.partial_booking", "Some rooms were booked but one failed. Please contact us before retrying.")
		return
	}
	if err != nil {
		respondError(c, bc.Log, err)
		return
	}

	status := http.StatusCreated
	if allReplayed(result.Bookings) {
		status = http.StatusOK
	}
	c.Header("Idempotency-Key", result.IdempotencyKey)
	utils.JSONSuccess(c, status, result)
}

func allReplayed(bookings []services.RecordedBooking) bool {
	if len(bookings) == 0 {
		return false
	}
	for _, b := range bookings {
		if !b.Replayed {
			return false
		}
	}
	return true
}

// RoomAvailability answers whether a room is free for a date range.
func (bc *BookingController) RoomAvailability(c *gin.Context) {
	in, okIn := parseDate(c.Query("check_in"))
	out, okOut := parseDate(c.Query("check_out"))
	if !okIn || !okOut {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "Please select valid check-in and check-out dates")
		return
	}

	available, err := bc.Availability.IsRoomAvailable(c.Request.Context(), c.Param("id"), in, out)
	if err != nil {
		respondError(c, bc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"room_id":   c.Param("id"),
		"check_in":  in.Format(time.DateOnly),
		"check_out": out.Format(time.DateOnly),
		"available": available,
	})
}

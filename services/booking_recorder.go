package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pension-backend/cache"
	"pension-backend/models"
	"pension-backend/storage"
	"pension-backend/utils"
)

// BookingRepository is the datastore used by the recorder. Everything done
// through a BookingTx commits or rolls back together.
type BookingRepository interface {
	FindRooms(ctx context.Context, ids []string) ([]models.Room, error)
	HasOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	InTx(ctx context.Context, fn func(tx BookingTx) error) error
}

type BookingTx interface {
	// FindReplay returns the booking an earlier attempt with the same key
	// made for the room, or nil.
	FindReplay(key, roomID string) (*models.Booking, error)
	LockRoom(roomID string) (*models.Room, error)
	HasOverlap(roomID string, checkIn, checkOut time.Time) (bool, error)
	CreateBooking(b *models.Booking) error
	AttachScreenshot(bookingID, url string) error
	MarkRoomUnavailable(roomID string) error
	CreatePayment(p *models.Payment) error
}

type SubmissionLock interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type BookingNotifier interface {
	SendBookingReceived(ctx context.Context, email utils.BookingEmail) error
}

type BookingRequest struct {
	FirstName            string
	LastName             string
	Email                string
	Phone                string
	RoomIDs              []string
	CheckIn              *time.Time
	CheckOut             *time.Time
	Guests               int
	Method               models.PaymentMethod
	TransactionReference string
	SpecialRequests      string
	Screenshot           *Screenshot
	IdempotencyKey       string
}

type RecordedBooking struct {
	Booking  models.Booking  `json:"booking"`
	Payment  *models.Payment `json:"payment,omitempty"`
	Replayed bool            `json:"replayed"`
}

type RecordResult struct {
	IdempotencyKey string            `json:"idempotency_key"`
	Quote          Quote             `json:"quote"`
	Bookings       []RecordedBooking `json:"bookings"`
}

type BookingRecorder struct {
	repo     BookingRepository
	store    storage.ObjectStore
	lock     SubmissionLock
	notifier BookingNotifier
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewBookingRecorder(repo BookingRepository, store storage.ObjectStore, lock SubmissionLock, notifier BookingNotifier, log logrus.FieldLogger) *BookingRecorder {
	return &BookingRecorder{
		repo:     repo,
		store:    store,
		lock:     lock,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (req *BookingRequest) normalize() {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.TransactionReference = strings.TrimSpace(req.TransactionReference)
	req.SpecialRequests = strings.TrimSpace(req.SpecialRequests)
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)

	seen := make(map[string]bool, len(req.RoomIDs))
	ids := make([]string, 0, len(req.RoomIDs))
	for _, id := range req.RoomIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	req.RoomIDs = ids
}

// validate runs every check that needs no datastore access.
func (req *BookingRequest) validate() error {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" {
		return ValidationError{Message: "Please fill in all required fields"}
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return ValidationError{Message: "Please enter a valid email address"}
	}
	if len(req.RoomIDs) == 0 {
		return ValidationError{Message: "Please select at least one room"}
	}
	if CountNights(req.CheckIn, req.CheckOut) <= 0 {
		return ValidationError{Message: "Please select valid check-in and check-out dates"}
	}
	if req.Guests < 1 {
		return ValidationError{Message: "Number of guests must be at least 1"}
	}
	if !req.Method.Valid() {
		return ValidationError{Message: "Please choose a payment method"}
	}
	if req.Method == models.PaymentMethodBankTransfer {
		if req.TransactionReference == "" || req.Screenshot == nil {
			return ValidationError{Message: "Please provide transaction ID and upload screenshot"}
		}
	}
	return nil
}

// fingerprint keys a submission that came without an Idempotency-Key, so a
// double click maps to the same attempt.
func (req *BookingRequest) fingerprint() string {
	ids := append([]string(nil), req.RoomIDs...)
	sort.Strings(ids)
	parts := []string{
		strings.ToLower(req.Email),
		strings.Join(ids, ","),
		req.CheckIn.Format(time.DateOnly),
		req.CheckOut.Format(time.DateOnly),
		string(req.Method),
		fmt.Sprint(req.Guests),
		strings.TrimSpace(req.TransactionReference),
		screenshotDigest(req.Screenshot),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func screenshotDigest(shot *Screenshot) string {
	if shot == nil || len(shot.Data) == 0 {
		return ""
	}
	sum := sha256.Sum256(shot.Data)
	return hex.EncodeToString(sum[:])
}

func (req *BookingRequest) attemptKey() string {
	switch {
	case req.IdempotencyKey == "":
		return req.fingerprint()
	case len(req.IdempotencyKey) > 64:
		sum := sha256.Sum256([]byte(req.IdempotencyKey))
		return hex.EncodeToString(sum[:])
	default:
		return req.IdempotencyKey
	}
}

// Record books every requested room, one transaction per room, in request
// order. The first failing room stops the loop; rooms committed before it
// stay booked and are reported through *PartialFailureError.
func (r *BookingRecorder) Record(ctx context.Context, req BookingRequest) (*RecordResult, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	rooms, err := r.repo.FindRooms(ctx, req.RoomIDs)
	if errors.Is(err, ErrRoomNotFound) {
		return nil, ValidationError{Message: "Selected room was not found"}
	}
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, ValidationError{Message: "Please select at least one room"}
	}

	// the first room prices the stay and bounds the party size
	lead := rooms[0]
	quote := CalculateQuote(&lead.PricePerNight, req.CheckIn, req.CheckOut, len(rooms))
	if !quote.Bookable() {
		return nil, ValidationError{Message: "Please select valid check-in and check-out dates"}
	}
	if req.Guests > lead.Capacity {
		return nil, ValidationError{Message: fmt.Sprintf("This room can accommodate maximum %d guests", lead.Capacity)}
	}

	key := req.attemptKey()
	release, err := r.lock.Acquire(ctx, key)
	if errors.Is(err, cache.ErrLocked) {
		return nil, ErrDuplicateSubmission
	}
	if err != nil {
		return nil, err
	}
	defer release()

	log := r.log.WithFields(logrus.Fields{"idempotency_key": key, "rooms": len(rooms), "method": req.Method})
	result := &RecordResult{IdempotencyKey: key, Quote: quote}
	amount := quote.PerRoomAmount()

	for _, room := range rooms {
		rec, err := r.recordRoom(ctx, &req, room, key, amount)
		if err != nil {
			log.WithField("room_id", room.ID).WithError(err).Error("booking room failed")
			if len(result.Bookings) == 0 {
				return nil, err
			}
			return result, &PartialFailureError{Recorded: result.Bookings, FailedRoomID: room.ID, Err: err}
		}
		result.Bookings = append(result.Bookings, *rec)
	}

	log.Infof("recorded %d booking(s), total %.2f", len(result.Bookings), quote.Total)
	r.notify(ctx, &req, rooms, result)
	return result, nil
}

func (r *BookingRecorder) recordRoom(ctx context.Context, req *BookingRequest, room models.Room, key string, amount float64) (*RecordedBooking, error) {
	var (
		rec      *RecordedBooking
		uploaded string
	)

	err := r.repo.InTx(ctx, func(tx BookingTx) error {
		prev, err := tx.FindReplay(key, room.ID)
		if err != nil {
			return err
		}
		if prev != nil {
			rec = &RecordedBooking{Booking: *prev, Replayed: true}
			if len(prev.Payments) > 0 {
				p := prev.Payments[0]
				rec.Payment = &p
			}
			rec.Booking.Payments = nil
			return nil
		}

		if _, err := tx.LockRoom(room.ID); err != nil {
			return err
		}
		overlap, err := tx.HasOverlap(room.ID, *req.CheckIn, *req.CheckOut)
		if err != nil {
			return err
		}
		if overlap {
			return fmt.Errorf("%w: room %s", ErrRoomOverlap, room.RoomNumber)
		}

		bankTransfer := req.Method == models.PaymentMethodBankTransfer
		booking := &models.Booking{
			ID:             uuid.NewString(),
			RoomID:         room.ID,
			GuestName:      req.FirstName + " " + req.LastName,
			GuestEmail:     req.Email,
			GuestPhone:     req.Phone,
			CheckInDate:    *req.CheckIn,
			CheckOutDate:   *req.CheckOut,
			NumberOfGuests: req.Guests,
			TotalAmount:    amount,
			BookingStatus:  models.BookingStatusPending,
			IdempotencyKey: key,
		}
		if req.SpecialRequests != "" {
			booking.SpecialRequests = &req.SpecialRequests
		}
		if bankTransfer {
			booking.TransactionID = &req.TransactionReference
		}
		if err := tx.CreateBooking(booking); err != nil {
			return err
		}

		var screenshotURL *string
		if bankTransfer && req.Screenshot != nil {
			name := fmt.Sprintf("%s_%d.%s", booking.ID, r.now().UnixMilli(), req.Screenshot.Ext)
			if err := r.store.Upload(ctx, name, req.Screenshot.ContentType, req.Screenshot.Data); err != nil {
				return fmt.Errorf("upload screenshot: %w", err)
			}
			uploaded = name

			url := r.store.PublicURL(name)
			if err := tx.AttachScreenshot(booking.ID, url); err != nil {
				return err
			}
			booking.ScreenshotURL = &url
			screenshotURL = &url
		}

		if err := tx.MarkRoomUnavailable(room.ID); err != nil {
			return err
		}

		paidAt := r.now()
		payment := &models.Payment{
			ID:            uuid.NewString(),
			BookingID:     booking.ID,
			PaymentMethod: req.Method,
			PaymentStatus: models.PaymentStatusPending,
			Amount:        amount,
			PaymentDate:   &paidAt,
		}
		if bankTransfer {
			payment.TransactionReference = &req.TransactionReference
			payment.TransactionScreenshotURL = screenshotURL
		}
		if err := tx.CreatePayment(payment); err != nil {
			return err
		}

		rec = &RecordedBooking{Booking: *booking, Payment: payment}
		return nil
	})
	if err != nil {
		if uploaded != "" {
			if derr := r.store.Delete(context.WithoutCancel(ctx), uploaded); derr != nil {
				r.log.WithError(derr).Warnf("could not remove orphaned screenshot %s", uploaded)
			}
		}
		return nil, err
	}
	return rec, nil
}

func (r *BookingRecorder) notify(ctx context.Context, req *BookingRequest, rooms []models.Room, result *RecordResult) {
	if r.notifier == nil {
		return
	}
	fresh := false
	for _, b := range result.Bookings {
		fresh = fresh || !b.Replayed
	}
	if !fresh {
		return
	}

	numbers := make([]string, 0, len(rooms))
	for _, room := range rooms {
		numbers = append(numbers, room.RoomNumber)
	}
	email := utils.BookingEmail{
		To:          req.Email,
		GuestName:   req.FirstName + " " + req.LastName,
		RoomNumbers: numbers,
		CheckIn:     *req.CheckIn,
		CheckOut:    *req.CheckOut,
		Nights:      result.Quote.Nights,
		Total:       result.Quote.Total,
		Currency:    Currency,
		Method:      string(req.Method),
		Reference:   req.TransactionReference,
	}
	if err := r.notifier.SendBookingReceived(ctx, email); err != nil {
		r.log.WithError(err).Warn("booking confirmation email not sent")
	}
}

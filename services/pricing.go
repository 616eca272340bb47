package services

import (
	"fmt"
	"math"
	"time"
)

// TaxRate is applied on top of the room subtotal.
const TaxRate = 0.15

const Currency = "ETB"

// Quote is the price breakdown for a stay. Priced is false when the nightly
// rate or either date is missing, in which case every amount is zero.
type Quote struct {
	Nights      int     `json:"nights"`
	Rooms       int     `json:"rooms"`
	NightlyRate float64 `json:"nightly_rate"`
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
	Priced      bool    `json:"priced"`
}

// CountNights rounds a partial day up. Missing or inverted dates give 0.
func CountNights(checkIn, checkOut *time.Time) int {
	if checkIn == nil || checkOut == nil || !checkOut.After(*checkIn) {
		return 0
	}
	return int(math.Ceil(checkOut.Sub(*checkIn).Hours() / 24))
}

func CalculateQuote(price *float64, checkIn, checkOut *time.Time, rooms int) Quote {
	q := Quote{Rooms: rooms}
	if price == nil || checkIn == nil || checkOut == nil {
		return q
	}
	q.Priced = true
	q.NightlyRate = *price
	q.Nights = CountNights(checkIn, checkOut)
	if q.Nights <= 0 || rooms <= 0 || *price <= 0 {
		return q
	}

	q.Subtotal = *price * float64(q.Nights) * float64(rooms)
	q.Tax = q.Subtotal * TaxRate
	q.Total = q.Subtotal + q.Tax
	return q
}

// Bookable reports whether a submission may go ahead with this quote.
func (q Quote) Bookable() bool {
	return q.Priced && q.Nights > 0 && q.Rooms > 0 && q.Total > 0
}

// PerRoomAmount splits the total evenly across the booked rooms.
func (q Quote) PerRoomAmount() float64 {
	if q.Rooms <= 0 {
		return 0
	}
	return q.Total / float64(q.Rooms)
}

func (q Quote) DisplayTotal() string {
	if !q.Priced {
		return "—"
	}
	return fmt.Sprintf("%s %.2f", Currency, q.Total)
}

package domain

import (
	"math"
	"time"
)

type Customer struct {
	FullName string
	Email    string
	Phone    string
	Country  string
	Message  string
}

// Stay keeps the submitted check-in/check-out text for display next to the
// parsed dates. CheckInAt, CheckOutAt and Nights are nil when not derivable.
type Stay struct {
	CheckIn    string
	CheckOut   string
	CheckInAt  *time.Time
	CheckOutAt *time.Time
	Nights     *int
	AdultCount string
	ChildCount string
}

type RoomLine struct {
	Name          string
	Quantity      int
	PricePerNight float64
	Nights        int
	Currency      string // ISO 4217, optional
}

// LineTotal is price * quantity * nights; a non-finite product counts as zero.
func (r RoomLine) LineTotal() float64 {
	t := r.PricePerNight * float64(r.Quantity) * float64(r.Nights)
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	return t
}

type Booking struct {
	Customer    Customer
	Stay        Stay
	Rooms       []RoomLine
	HotelEmail  string
	HotelID     string
	TotalAmount *float64 // explicit total from the submission
	Currency    string
}

// ComputedTotal sums the line totals. Nil when there are no rooms.
func (b Booking) ComputedTotal() *float64 {
	if len(b.Rooms) == 0 {
		return nil
	}
	sum := 0.0
	for _, r := range b.Rooms {
		sum += r.LineTotal()
	}
	return &sum
}

// GrandTotal prefers the explicit total over the computed sum.
func (b Booking) GrandTotal() *float64 {
	if b.TotalAmount != nil {
		return b.TotalAmount
	}
	return b.ComputedTotal()
}

type Contact struct {
	FullName   string
	Email      string
	Phone      string
	Country    string
	Message    string
	HotelEmail string
	HotelID    string
}

// Package booking holds the booking lifecycle: validating a requested stay,
// pricing it and moving it through PENDING -> APPROVED/REJECTED.  The
// functions in this file are pure; Service wires them to storage.
package booking

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/iliyamo/rental-booking/internal/model"
)

const (
	MinGuests = 1
	MaxGuests = 10

	// DaysPerMonth is the flat month length used to derive a daily rate
	// from monthly rent, whatever the calendar month.  Changing it changes
	// every price, so it stays 30.
	DaysPerMonth = 30
)

// Request is a customer's booking request as received from the client.
// Dates stay strings until Validate so an unparseable date reports
// MissingDates in its proper order.
type Request struct {
	PropertyID     uint64 `json:"propertyId"`
	CheckInDate    string `json:"checkInDate"`
	CheckOutDate   string `json:"checkOutDate"`
	NumberOfGuests int    `json:"numberOfGuests"`
	CustomerName   string `json:"customerName"`
	CustomerEmail  string `json:"customerEmail"`
	CustomerPhone  string `json:"customerPhone"`
}

// UnmarshalJSON accepts any JSON number for numberOfGuests.  A count that
// is not a whole number decodes as 0 so that Validate reports it as an
// invalid guest count rather than the body failing to decode.
func (r *Request) UnmarshalJSON(b []byte) error {
	type plain Request
	aux := struct {
		*plain
		NumberOfGuests json.Number `json:"numberOfGuests"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.NumberOfGuests = guestCount(aux.NumberOfGuests)
	return nil
}

func guestCount(n json.Number) int {
	if n == "" {
		return 0
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0
	}
	// anything outside int32 is far past MaxGuests either way
	return int(math.Max(math.MinInt32, math.Min(math.MaxInt32, f)))
}

// ValidatedStay is a stay that passed Validate.
type ValidatedStay struct {
	CheckIn  model.Date
	CheckOut model.Date
	Guests   int
	Nights   int
}

// Validate checks req against prop as of now.  Checks run in a fixed
// order and stop at the first failure; a nil prop means the property does
// not exist.
func Validate(req Request, prop *model.Property, now time.Time) (ValidatedStay, error) {
	if prop == nil {
		return ValidatedStay{}, ErrPropertyNotFound
	}
	if strings.TrimSpace(req.CheckInDate) == "" || strings.TrimSpace(req.CheckOutDate) == "" {
		return ValidatedStay{}, ErrMissingDates
	}
	in, err := model.ParseDate(req.CheckInDate)
	if err != nil {
		return ValidatedStay{}, ErrMissingDates
	}
	out, err := model.ParseDate(req.CheckOutDate)
	if err != nil {
		return ValidatedStay{}, ErrMissingDates
	}
	if !in.Before(out.Time) {
		return ValidatedStay{}, ErrInvalidRange
	}
	if in.Before(model.NewDate(now).Time) {
		return ValidatedStay{}, ErrPastCheckIn
	}
	if req.NumberOfGuests < MinGuests || req.NumberOfGuests > MaxGuests {
		return ValidatedStay{}, ErrInvalidGuestCount
	}
	return ValidatedStay{
		CheckIn:  in,
		CheckOut: out,
		Guests:   req.NumberOfGuests,
		Nights:   durationDays(in, out),
	}, nil
}

// durationDays is the absolute distance between two dates in days, rounded
// up.  It works on Unix seconds, which cover every parseable year.
func durationDays(a, b model.Date) int {
	secs := b.Unix() - a.Unix()
	if secs < 0 {
		secs = -secs
	}
	const day = 24 * 60 * 60
	return int((secs + day - 1) / day)
}

// ComputeCost prices a stay: monthlyRent / 30 per day, times the number of
// days, rounded to the nearest whole unit.  The security deposit is
// collected separately and is not included.
func ComputeCost(stay ValidatedStay, prop model.Property) int64 {
	days := durationDays(stay.CheckIn, stay.CheckOut)
	dailyRate := prop.MonthlyRent / DaysPerMonth
	return int64(math.Round(dailyRate * float64(days)))
}

// NewBooking validates and prices req and returns the PENDING booking to
// persist.  Nothing is written.
func NewBooking(req Request, prop *model.Property, now time.Time) (model.Booking, error) {
	stay, err := Validate(req, prop, now)
	if err != nil {
		return model.Booking{}, err
	}
	return model.Booking{
		PropertyID:     prop.ID,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerEmail:  strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone:  strings.TrimSpace(req.CustomerPhone),
		CheckInDate:    stay.CheckIn,
		CheckOutDate:   stay.CheckOut,
		NumberOfGuests: stay.Guests,
		TotalCost:      ComputeCost(stay, *prop),
		Status:         model.StatusPending,
		BookingDate:    now.UTC(),
	}, nil
}

// Transition moves b to target.  Only PENDING bookings move, and only to
// APPROVED or REJECTED.  On AlreadyFinalized b is returned unchanged so the
// caller can show its current state.
func Transition(b model.Booking, target model.BookingStatus) (model.Booking, error) {
	if target != model.StatusApproved && target != model.StatusRejected {
		return b, ErrInvalidTargetStatus
	}
	if b.Status != model.StatusPending {
		return b, ErrAlreadyFinalized
	}
	b.Status = target
	return b, nil
}

package daterange

import (
	"errors"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// MaxNights bounds a single stay request.
const MaxNights = 365

var (
	ErrInvalidRange = errors.New("daterange: check_out must be after check_in")
	ErrStayTooLong  = errors.New("daterange: stay exceeds 365 nights")
)

// DateRange represents a half-open stay interval [CheckIn, CheckOut).
// Both ends are calendar days at UTC midnight.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Must is New for fixtures and tests.
func Must(checkIn, checkOut time.Time) DateRange {
	dr, err := New(checkIn, checkOut)
	if err != nil {
		panic(err)
	}
	return dr
}

// Day truncates t to the calendar day it falls on, keeping its wall-clock date.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (dr DateRange) Validate() error {
	if dr.CheckOut.IsZero() || dr.CheckIn.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts calendar days. Unix seconds are used because a
// time.Duration saturates after about 292 years.
func (dr DateRange) Nights() int {
	return int((dr.CheckOut.Unix() - dr.CheckIn.Unix()) / secondsPerDay)
}

// Bounded rejects stays longer than MaxNights.
func (dr DateRange) Bounded() error {
	if dr.Nights() > MaxNights {
		return ErrStayTooLong
	}
	return nil
}

// Dates lists every night of the stay, check_out excluded.
func (dr DateRange) Dates() []time.Time {
	nights := dr.Nights()
	if nights <= 0 {
		return nil
	}
	out := make([]time.Time, 0, nights)
	for d := dr.CheckIn; d.Before(dr.CheckOut); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Overlaps reports whether two stays share at least one night. A stay that
// checks in on another's check-out day does not overlap it.
func (dr DateRange) Overlaps(other DateRange) bool {
	return other.CheckIn.Before(dr.CheckOut) && other.CheckOut.After(dr.CheckIn)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = Day(t)
	return !t.Before(dr.CheckIn) && t.Before(dr.CheckOut)
}

func (dr DateRange) Equal(other DateRange) bool {
	return dr.CheckIn.Equal(other.CheckIn) && dr.CheckOut.Equal(other.CheckOut)
}

func (dr DateRange) String() string {
	return dr.CheckIn.Format(time.DateOnly) + "/" + dr.CheckOut.Format(time.DateOnly)
}

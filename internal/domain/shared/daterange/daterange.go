package daterange

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Layout is the wire format of a calendar date.
const Layout = "2006-01-02"

const day = 24 * time.Hour

var (
	ErrInvalidRange = errors.New("daterange: checkout must be after checkin")
	ErrInvalidDate  = errors.New("daterange: invalid calendar date")
)

// Date truncates t to its calendar date at midnight UTC. The wall-clock
// date of t is kept, its location is dropped.
func Date(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(Layout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return t, nil
}

// Format renders a calendar date, empty for the zero time.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Date(t).Format(Layout)
}

// DaysAndNights counts whole-day buckets between two dates. A partial day
// counts as a full one.
func DaysAndNights(checkIn, checkOut time.Time) (days, nights int) {
	diff := checkOut.Sub(checkIn)
	if diff <= 0 {
		return 0, 0
	}
	days = int(math.Ceil(float64(diff) / float64(day)))
	nights = days - 1
	if nights < 0 {
		nights = 0
	}
	return days, nights
}

// DateRange represents a half-open interval [checkIn, checkOut) of calendar dates.
type DateRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: Date(checkIn), CheckOut: Date(checkOut)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
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

func (dr DateRange) Days() int {
	days, _ := DaysAndNights(dr.CheckIn, dr.CheckOut)
	return days
}

func (dr DateRange) Nights() int {
	_, nights := DaysAndNights(dr.CheckIn, dr.CheckOut)
	return nights
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

// ContainsDate reports whether the calendar date of t lies in the range.
// The checkout date itself is not contained.
func (dr DateRange) ContainsDate(t time.Time) bool {
	t = Date(t)
	return (t.Equal(dr.CheckIn) || t.After(dr.CheckIn)) && t.Before(dr.CheckOut)
}

// EachDay calls fn for every date in [CheckIn, CheckOut) until fn returns false.
func (dr DateRange) EachDay(fn func(d time.Time) bool) {
	for d := dr.CheckIn; d.Before(dr.CheckOut); d = d.AddDate(0, 0, 1) {
		if !fn(d) {
			return
		}
	}
}

func (dr DateRange) String() string {
	return Format(dr.CheckIn) + "/" + Format(dr.CheckOut)
}

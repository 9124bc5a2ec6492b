package availability

import (
	"sort"
	"time"

	"rentdesk/internal/domain/booking"
	"rentdesk/internal/domain/property"
	"rentdesk/internal/domain/shared/daterange"
)

type Badge string

const (
	BadgeAvailable Badge = "available"
	BadgeBooked    Badge = "booked"
)

// Index answers occupancy questions over a set of bookings. Cancelled
// bookings never occupy a date.
type Index struct {
	byProperty map[property.PropertyID][]*booking.Booking
}

func NewIndex(bookings []*booking.Booking) *Index {
	idx := &Index{byProperty: make(map[property.PropertyID][]*booking.Booking)}
	for _, b := range bookings {
		if b == nil || !b.Active() {
			continue
		}
		idx.byProperty[b.PropertyID] = append(idx.byProperty[b.PropertyID], b)
	}
	for id := range idx.byProperty {
		list := idx.byProperty[id]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Range.CheckIn.Equal(list[j].Range.CheckIn) {
				return list[i].ID < list[j].ID
			}
			return list[i].Range.CheckIn.Before(list[j].Range.CheckIn)
		})
	}
	return idx
}

// IsOccupied reports whether some booking holds date d. The checkout date
// of a booking is free for the next guest.
func (x *Index) IsOccupied(id property.PropertyID, d time.Time) bool {
	for _, b := range x.byProperty[id] {
		if b.Range.ContainsDate(d) {
			return true
		}
	}
	return false
}

// Overlapping returns the bookings whose interval intersects dr, ordered by check-in.
func (x *Index) Overlapping(id property.PropertyID, dr daterange.DateRange) []*booking.Booking {
	var out []*booking.Booking
	for _, b := range x.byProperty[id] {
		if b.Range.Overlaps(dr) {
			out = append(out, b)
		}
	}
	return out
}

func (x *Index) Badge(id property.PropertyID, d time.Time) Badge {
	if x.IsOccupied(id, d) {
		return BadgeBooked
	}
	return BadgeAvailable
}

type Day struct {
	Date       time.Time
	Occupied   bool
	BookingIDs []booking.BookingID
}

// Calendar lists every date of dr with the bookings occupying it.
func (x *Index) Calendar(id property.PropertyID, dr daterange.DateRange) []Day {
	bookings := x.Overlapping(id, dr)
	days := make([]Day, 0, dr.Days())
	dr.EachDay(func(d time.Time) bool {
		day := Day{Date: d}
		for _, b := range bookings {
			if b.Range.ContainsDate(d) {
				day.Occupied = true
				day.BookingIDs = append(day.BookingIDs, b.ID)
			}
		}
		days = append(days, day)
		return true
	})
	return days
}

package availability

import (
	"testing"
	"time"

	"rentdesk/internal/domain/booking"
	"rentdesk/internal/domain/property"
	"rentdesk/internal/domain/shared/daterange"
	"rentdesk/internal/domain/shared/money"
)

func d(t *testing.T, raw string) time.Time {
	t.Helper()
	v, err := daterange.ParseDate(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return v
}

func rng(t *testing.T, in, out string) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(d(t, in), d(t, out))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	return dr
}

func mk(t *testing.T, id string, prop property.PropertyID, in, out string) *booking.Booking {
	t.Helper()
	b, err := booking.NewBooking(booking.CreateParams{
		ID: booking.BookingID(id), PropertyID: prop, CustomerID: "c", Range: rng(t, in, out),
		Guests: 1, NegotiatedRate: money.Must("100"),
	})
	if err != nil {
		t.Fatalf("booking: %v", err)
	}
	return b
}

func TestOccupancyIsHalfOpen(t *testing.T) {
	a := mk(t, "a", "p1", "2024-06-01", "2024-06-04")
	idx := NewIndex([]*booking.Booking{a})

	if !idx.IsOccupied("p1", d(t, "2024-06-01")) || !idx.IsOccupied("p1", d(t, "2024-06-03")) {
		t.Fatalf("stay dates must be occupied")
	}
	if idx.IsOccupied("p1", d(t, "2024-06-04")) {
		t.Fatalf("checkout date must be free")
	}
	if idx.IsOccupied("p2", d(t, "2024-06-02")) {
		t.Fatalf("other property must be free")
	}
	if idx.Badge("p1", d(t, "2024-06-02")) != BadgeBooked || idx.Badge("p1", d(t, "2024-06-05")) != BadgeAvailable {
		t.Fatalf("unexpected badges")
	}
}

func TestCancelledBookingsAreIgnored(t *testing.T) {
	a := mk(t, "a", "p1", "2024-06-01", "2024-06-04")
	if err := a.Cancel(time.Now()); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	idx := NewIndex([]*booking.Booking{a})
	if idx.IsOccupied("p1", d(t, "2024-06-02")) {
		t.Fatalf("cancelled booking must not occupy")
	}
	if got := idx.Overlapping("p1", rng(t, "2024-05-01", "2024-07-01")); len(got) != 0 {
		t.Fatalf("cancelled booking must not overlap, got %d", len(got))
	}
}

func TestOverlappingOrdersByCheckIn(t *testing.T) {
	late := mk(t, "late", "p1", "2024-06-10", "2024-06-12")
	early := mk(t, "early", "p1", "2024-06-01", "2024-06-04")
	turnover := mk(t, "turnover", "p1", "2024-06-04", "2024-06-06")
	idx := NewIndex([]*booking.Booking{late, early, turnover})

	got := idx.Overlapping("p1", rng(t, "2024-06-03", "2024-06-11"))
	if len(got) != 3 || got[0].ID != "early" || got[1].ID != "turnover" || got[2].ID != "late" {
		t.Fatalf("unexpected overlap order %v", ids(got))
	}
	got = idx.Overlapping("p1", rng(t, "2024-06-06", "2024-06-10"))
	if len(got) != 0 {
		t.Fatalf("gap must be free, got %v", ids(got))
	}
}

func TestCalendar(t *testing.T) {
	a := mk(t, "a", "p1", "2024-06-01", "2024-06-03")
	b := mk(t, "b", "p1", "2024-06-02", "2024-06-04")
	idx := NewIndex([]*booking.Booking{a, b})

	days := idx.Calendar("p1", rng(t, "2024-05-31", "2024-06-05"))
	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}
	want := []int{0, 1, 2, 1, 0}
	for i, day := range days {
		if len(day.BookingIDs) != want[i] || day.Occupied != (want[i] > 0) {
			t.Fatalf("day %s: expected %d bookings, got %v", daterange.Format(day.Date), want[i], day.BookingIDs)
		}
	}
}

func ids(bs []*booking.Booking) []booking.BookingID {
	out := make([]booking.BookingID, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}

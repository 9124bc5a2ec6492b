package daterange

import (
	"errors"
	"testing"
	"time"
)

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := ParseDate(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return d
}

func TestDaysAndNights(t *testing.T) {
	cases := []struct {
		name       string
		in, out    time.Time
		days, nits int
	}{
		{"three days", date(t, "2024-06-01"), date(t, "2024-06-04"), 3, 2},
		{"single day", date(t, "2024-06-01"), date(t, "2024-06-02"), 1, 0},
		{"partial day rounds up", date(t, "2024-06-01"), date(t, "2024-06-02").Add(3 * time.Hour), 2, 1},
		{"reversed", date(t, "2024-06-04"), date(t, "2024-06-01"), 0, 0},
		{"month boundary", date(t, "2024-02-28"), date(t, "2024-03-02"), 3, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, nights := DaysAndNights(tc.in, tc.out)
			if days != tc.days || nights != tc.nits {
				t.Fatalf("expected %d/%d, got %d/%d", tc.days, tc.nits, days, nights)
			}
		})
	}
}

func TestNewRejectsInvalidRange(t *testing.T) {
	if _, err := New(date(t, "2024-06-04"), date(t, "2024-06-01")); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := New(date(t, "2024-06-04"), date(t, "2024-06-04")); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for empty range, got %v", err)
	}
	if _, err := New(time.Time{}, date(t, "2024-06-04")); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for zero checkin, got %v", err)
	}
}

func TestNewTruncatesToCalendarDates(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	dr, err := New(time.Date(2024, 6, 1, 23, 30, 0, 0, loc), time.Date(2024, 6, 3, 1, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := dr.String(); got != "2024-06-01/2024-06-03" {
		t.Fatalf("unexpected range %s", got)
	}
	if dr.Days() != 2 || dr.Nights() != 1 {
		t.Fatalf("unexpected days/nights %d/%d", dr.Days(), dr.Nights())
	}
}

func TestHalfOpenSemantics(t *testing.T) {
	a, _ := New(date(t, "2024-06-01"), date(t, "2024-06-04"))
	b, _ := New(date(t, "2024-06-04"), date(t, "2024-06-06"))
	c, _ := New(date(t, "2024-06-03"), date(t, "2024-06-05"))

	if a.Overlaps(b) || b.Overlaps(a) {
		t.Fatalf("same-day turnover must not overlap")
	}
	if !a.Overlaps(c) || !c.Overlaps(b) {
		t.Fatalf("expected overlaps")
	}
	if !a.ContainsDate(date(t, "2024-06-01")) {
		t.Fatalf("checkin date must be contained")
	}
	if a.ContainsDate(date(t, "2024-06-04")) {
		t.Fatalf("checkout date must not be contained")
	}
}

func TestEachDay(t *testing.T) {
	dr, _ := New(date(t, "2024-06-29"), date(t, "2024-07-02"))
	var got []string
	dr.EachDay(func(d time.Time) bool {
		got = append(got, Format(d))
		return true
	})
	want := []string{"2024-06-29", "2024-06-30", "2024-07-01"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate("01/06/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

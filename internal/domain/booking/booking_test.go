package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/internal/domain/shared/daterange"
	"rentdesk/internal/domain/shared/money"
)

var (
	today = time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC)
	now   = today
)

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := daterange.ParseDate(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return d
}

func newBooking(t *testing.T, in, out, rate string) *Booking {
	t.Helper()
	dr, err := daterange.New(mustDate(t, in), mustDate(t, out))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	b, err := NewBooking(CreateParams{
		ID:             "b-1",
		PropertyID:     "p-1",
		CustomerID:     "c-1",
		GuestName:      "Asha",
		GuestPhone:     "555-0100",
		Range:          dr,
		Guests:         2,
		NegotiatedRate: money.Must(rate),
		CreatedAt:      now,
	})
	if err != nil {
		t.Fatalf("new booking: %v", err)
	}
	return b
}

func checkInvariants(t *testing.T, b *Booking) {
	t.Helper()
	if b.PaidAmount.IsNegative() || b.PaidAmount.GreaterThan(b.TotalAmount) {
		t.Fatalf("paid %s outside [0, %s]", b.PaidAmount, b.TotalAmount)
	}
	if !b.TotalAmount.Equal(money.Times(b.NegotiatedRate, b.Days)) {
		t.Fatalf("total %s != %d x %s", b.TotalAmount, b.Days, b.NegotiatedRate)
	}
	wantNights := b.Days - 1
	if wantNights < 0 {
		wantNights = 0
	}
	if b.Nights != wantNights {
		t.Fatalf("nights %d != max(0, %d-1)", b.Nights, b.Days)
	}
}

func TestNewBookingComputesTotals(t *testing.T) {
	b := newBooking(t, "2024-06-01", "2024-06-04", "2000")
	if b.Days != 3 || b.Nights != 2 {
		t.Fatalf("expected 3 days / 2 nights, got %d/%d", b.Days, b.Nights)
	}
	if !b.TotalAmount.Equal(money.Must("6000")) {
		t.Fatalf("expected total 6000, got %s", b.TotalAmount)
	}
	if b.Status != StatusConfirmed || !b.PaidAmount.IsZero() {
		t.Fatalf("unexpected initial state %s paid=%s", b.Status, b.PaidAmount)
	}
	if evs := b.PendingEvents(); len(evs) != 1 || evs[0].EventName() != "booking.created" {
		t.Fatalf("expected booking.created event, got %v", evs)
	}
	checkInvariants(t, b)
}

func TestNewBookingValidation(t *testing.T) {
	dr, _ := daterange.New(mustDate(t, "2024-06-01"), mustDate(t, "2024-06-04"))
	base := CreateParams{ID: "b", PropertyID: "p", CustomerID: "c", Range: dr, Guests: 1, NegotiatedRate: money.Must("10")}

	cases := []struct {
		name   string
		mutate func(p *CreateParams)
		want   error
	}{
		{"reversed range", func(p *CreateParams) { p.Range = daterange.DateRange{CheckIn: dr.CheckOut, CheckOut: dr.CheckIn} }, ErrInvalidDateRange},
		{"no customer", func(p *CreateParams) { p.CustomerID = "" }, ErrMissingCustomerInfo},
		{"zero guests", func(p *CreateParams) { p.Guests = 0 }, ErrInvalidGuests},
		{"zero rate", func(p *CreateParams) { p.NegotiatedRate = decimal.Zero }, ErrInvalidRate},
		{"negative rate", func(p *CreateParams) { p.NegotiatedRate = money.Must("-5") }, ErrInvalidRate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := base
			tc.mutate(&params)
			if _, err := NewBooking(params); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestApplyPaymentCompletes(t *testing.T) {
	b := newBooking(t, "2024-06-01", "2024-06-04", "2000")
	if err := b.ApplyPayment(money.Must("2500"), now); err != nil {
		t.Fatalf("partial payment: %v", err)
	}
	if b.Status != StatusConfirmed || !b.Balance().Equal(money.Must("3500")) {
		t.Fatalf("unexpected state after partial payment: %s balance=%s", b.Status, b.Balance())
	}
	if err := b.ApplyPayment(money.Must("3500"), now); err != nil {
		t.Fatalf("final payment: %v", err)
	}
	if b.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", b.Status)
	}
	checkInvariants(t, b)
}

func TestApplyPaymentRejections(t *testing.T) {
	b := newBooking(t, "2024-06-01", "2024-06-04", "2000")
	if err := b.ApplyPayment(money.Must("7000"), now); !errors.Is(err, ErrAmountExceedsBalance) {
		t.Fatalf("expected ErrAmountExceedsBalance, got %v", err)
	}
	if err := b.ApplyPayment(decimal.Zero, now); !errors.Is(err, ErrNonPositiveAmount) {
		t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
	}
	if !b.PaidAmount.IsZero() {
		t.Fatalf("rejected payments must not mutate, paid=%s", b.PaidAmount)
	}
}

func TestPaymentOnCancelledKeepsCancelled(t *testing.T) {
	b := newBooking(t, "2024-06-01", "2024-06-04", "2000")
	if err := b.Cancel(now); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := b.ApplyPayment(money.Must("6000"), now); err != nil {
		t.Fatalf("payment: %v", err)
	}
	if b.Status != StatusCancelled {
		t.Fatalf("cancelled must take precedence, got %s", b.Status)
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	completed := newBooking(t, "2024-06-01", "2024-06-04", "2000")
	_ = completed.ApplyPayment(money.Must("6000"), now)
	cancelled := newBooking(t, "2024-06-01", "2024-06-04", "2000")
	_ = cancelled.Cancel(now)

	for _, b := range []*Booking{completed, cancelled} {
		before := b.Status
		if err := b.Cancel(now); !errors.Is(err, ErrAlreadyTerminal) {
			t.Fatalf("expected ErrAlreadyTerminal on cancel, got %v", err)
		}
		guests := 3
		if _, err := b.Edit(Patch{Guests: &guests}, today, now); !errors.Is(err, ErrAlreadyTerminal) {
			t.Fatalf("expected ErrAlreadyTerminal on edit, got %v", err)
		}
		if b.Status != before {
			t.Fatalf("status changed from %s to %s", before, b.Status)
		}
	}
}

func TestEditRecomputesAndClamps(t *testing.T) {
	b := newBooking(t, "2024-06-01", "2024-06-04", "2000")
	if err := b.ApplyPayment(money.Must("5000"), now); err != nil {
		t.Fatalf("payment: %v", err)
	}
	checkOut := mustDate(t, "2024-06-03")
	rate := money.Must("1500")
	writtenOff, err := b.Edit(Patch{CheckOut: &checkOut, NegotiatedRate: &rate}, today, now)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if b.Days != 2 || !b.TotalAmount.Equal(money.Must("3000")) {
		t.Fatalf("unexpected recompute days=%d total=%s", b.Days, b.TotalAmount)
	}
	if !b.PaidAmount.Equal(money.Must("3000")) || !writtenOff.Equal(money.Must("2000")) {
		t.Fatalf("expected clamp to 3000 writing off 2000, got paid=%s off=%s", b.PaidAmount, writtenOff)
	}
	if b.Status != StatusConfirmed {
		t.Fatalf("edit must not complete a booking, got %s", b.Status)
	}
	checkInvariants(t, b)
}

func TestEditValidation(t *testing.T) {
	b := newBooking(t, "2024-06-01", "2024-06-04", "2000")
	past := mustDate(t, "2024-05-01")
	late := mustDate(t, "2024-06-10")
	zero := 0
	neg := money.Must("-1")
	dust := money.Must("0.001")
	completed := StatusCompleted
	bogus := Status("archived")
	blank := "  "

	cases := []struct {
		name  string
		patch Patch
		want  error
	}{
		{"checkin in past", Patch{CheckIn: &past}, ErrCheckInInPast},
		{"checkin after checkout", Patch{CheckIn: &late}, ErrInvalidDateRange},
		{"zero guests", Patch{Guests: &zero}, ErrInvalidGuests},
		{"negative rate", Patch{NegotiatedRate: &neg}, ErrInvalidRate},
		{"rate rounding to zero", Patch{NegotiatedRate: &dust}, ErrInvalidRate},
		{"manual completion", Patch{Status: &completed}, ErrInvalidTransition},
		{"unknown status", Patch{Status: &bogus}, ErrInvalidStatus},
		{"blank guest name", Patch{GuestName: &blank}, ErrMissingCustomerInfo},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := b.Edit(tc.patch, today, now); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if b.Days != 3 || !b.TotalAmount.Equal(money.Must("6000")) || b.Status != StatusConfirmed {
				t.Fatalf("rejected edit mutated booking")
			}
		})
	}
}

func TestEditCancelViaStatus(t *testing.T) {
	b := newBooking(t, "2024-06-01", "2024-06-04", "2000")
	cancelled := StatusCancelled
	if _, err := b.Edit(Patch{Status: &cancelled}, today, now); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if b.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", b.Status)
	}
}

func TestEditRoundsRateToPayableCents(t *testing.T) {
	b := newBooking(t, "2024-06-01", "2024-06-04", "100")
	rate := money.Must("100.333")
	if _, err := b.Edit(Patch{NegotiatedRate: &rate}, today, now); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !b.NegotiatedRate.Equal(money.Must("100.33")) || !b.TotalAmount.Equal(money.Must("300.99")) {
		t.Fatalf("expected rate 100.33 / total 300.99, got %s / %s", b.NegotiatedRate, b.TotalAmount)
	}
	if err := b.ApplyPayment(money.Must("300.99"), now); err != nil {
		t.Fatalf("payment: %v", err)
	}
	if b.Status != StatusCompleted {
		t.Fatalf("full payment must complete the booking, got %s", b.Status)
	}
	checkInvariants(t, b)
}

func TestCheckGuestLimit(t *testing.T) {
	if _, ok := CheckGuestLimit(4, 4); ok {
		t.Fatalf("at capacity must not warn")
	}
	w, ok := CheckGuestLimit(6, 4)
	if !ok || w.Code != WarningGuestLimitExceeded {
		t.Fatalf("expected guest limit warning, got %+v", w)
	}
}

package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/internal/app"
	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/handlers/bookings"
	"rentdesk/internal/app/handlers/customers"
	"rentdesk/internal/app/handlers/payments"
	"rentdesk/internal/app/handlers/properties"
	"rentdesk/internal/app/handlers/reports"
	"rentdesk/internal/app/outbox"
	"rentdesk/internal/app/queries"
	domainbooking "rentdesk/internal/domain/booking"
	domaincustomer "rentdesk/internal/domain/customer"
	domainproperty "rentdesk/internal/domain/property"
	"rentdesk/internal/domain/shared/daterange"
	"rentdesk/internal/domain/shared/money"
	"rentdesk/internal/infra/storage/memory"
	"rentdesk/internal/infra/system"
)

type recordingOutbox struct {
	mu      sync.Mutex
	records []outbox.EventRecord
}

func (o *recordingOutbox) Add(_ context.Context, records ...outbox.EventRecord) error {
	o.mu.Lock()
	o.records = append(o.records, records...)
	o.mu.Unlock()
	return nil
}

func (o *recordingOutbox) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.records))
	for _, r := range o.records {
		out = append(out, r.Name)
	}
	return out
}

type countingMetrics struct {
	created   int
	cancelled int
	payments  int
}

func (m *countingMetrics) BookingCreated(string, int)              { m.created++ }
func (m *countingMetrics) BookingCancelled(string)                 { m.cancelled++ }
func (m *countingMetrics) PaymentRecorded(string, decimal.Decimal) { m.payments++ }

type harness struct {
	app     app.Application
	outbox  *recordingOutbox
	metrics *countingMetrics
}

func newHarness(t *testing.T, rejectOverlaps bool) *harness {
	t.Helper()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	h := &harness{outbox: &recordingOutbox{}, metrics: &countingMetrics{}}
	h.app = app.New(app.Deps{
		UoWFactory:     memory.NewStore(nil, nil),
		Outbox:         h.outbox,
		Idempotency:    memory.NewIdempotencyStore(func() time.Time { return now }),
		Clock:          system.FixedClock{At: now},
		IDs:            &system.SequentialIDs{Prefix: "id-"},
		Metrics:        h.metrics,
		RejectOverlaps: rejectOverlaps,
	})
	return h
}

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	v, err := daterange.ParseDate(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return v
}

func (h *harness) property(t *testing.T) *dto.Property {
	t.Helper()
	p, err := commands.Dispatch[properties.CreatePropertyCommand, *dto.Property](context.Background(), h.app.Commands, properties.CreatePropertyCommand{
		Name:         "Sea View Villa",
		Category:     "luxury",
		PricingMode:  "uniform",
		UniformPrice: money.Must("2000"),
		MaxGuests:    4,
	})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	return p
}

func (h *harness) book(ctx context.Context, propertyID, in, out string, guests int, key string) (*bookings.CreateBookingResult, error) {
	rate := money.Must("2000")
	checkIn, _ := daterange.ParseDate(in)
	checkOut, _ := daterange.ParseDate(out)
	return commands.Dispatch[bookings.CreateBookingCommand, *bookings.CreateBookingResult](ctx, h.app.Commands, bookings.CreateBookingCommand{
		PropertyID:      propertyID,
		GuestName:       "Asha Rao",
		GuestPhone:      "+91 98450 00000",
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          guests,
		NegotiatedRate:  &rate,
		IdempotencyKeyV: key,
	})
}

func (h *harness) pay(ctx context.Context, bookingID, amount string) (*payments.RecordPaymentResult, error) {
	return commands.Dispatch[payments.RecordPaymentCommand, *payments.RecordPaymentResult](ctx, h.app.Commands, payments.RecordPaymentCommand{
		BookingID: bookingID,
		Amount:    money.Must(amount),
		Method:    "upi",
	})
}

func (h *harness) get(t *testing.T, bookingID string) bookings.BookingDetail {
	t.Helper()
	detail, err := queries.Ask[bookings.GetBookingQuery, bookings.BookingDetail](context.Background(), h.app.Queries, bookings.GetBookingQuery{BookingID: bookingID})
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	return detail
}

func (h *harness) list(t *testing.T) []dto.Booking {
	t.Helper()
	res, err := queries.Ask[bookings.ListBookingsQuery, dto.BookingCollection](context.Background(), h.app.Queries, bookings.ListBookingsQuery{})
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	return res.Items
}

func TestCreateBookingComputesTotals(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)

	res, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 2, "")
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	b := res.Booking
	if b.Days != 3 || b.Nights != 2 {
		t.Fatalf("expected 3 days / 2 nights, got %d / %d", b.Days, b.Nights)
	}
	if !b.TotalAmount.Equal(money.Must("6000")) || !b.PaidAmount.IsZero() {
		t.Fatalf("unexpected amounts total=%s paid=%s", b.TotalAmount, b.PaidAmount)
	}
	if b.Status != string(domainbooking.StatusConfirmed) || !b.IsNewCustomer || b.CustomerID == "" {
		t.Fatalf("unexpected booking %+v", b)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %+v", res.Warnings)
	}
	if h.metrics.created != 1 {
		t.Fatalf("expected one created metric, got %d", h.metrics.created)
	}
}

func TestFullPaymentCompletesBooking(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)
	res, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 2, "")
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	paid, err := h.pay(context.Background(), res.Booking.ID, "6000")
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if !paid.Booking.PaidAmount.Equal(money.Must("6000")) || paid.Booking.Status != string(domainbooking.StatusCompleted) {
		t.Fatalf("unexpected booking after payment %+v", paid.Booking)
	}
	detail := h.get(t, res.Booking.ID)
	if len(detail.Payments) != 1 || !detail.Payments[0].Amount.Equal(money.Must("6000")) {
		t.Fatalf("unexpected payments %+v", detail.Payments)
	}
}

func TestOverpaymentIsRejected(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)
	res, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 2, "")
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if _, err := h.pay(context.Background(), res.Booking.ID, "7000"); !errors.Is(err, domainbooking.ErrAmountExceedsBalance) {
		t.Fatalf("expected ErrAmountExceedsBalance, got %v", err)
	}
	detail := h.get(t, res.Booking.ID)
	if !detail.Booking.PaidAmount.IsZero() || len(detail.Payments) != 0 {
		t.Fatalf("rejected payment must leave no trace, got %+v", detail)
	}
	if h.metrics.payments != 0 {
		t.Fatalf("rejected payment must not be counted")
	}
}

func TestReversedRangeIsRejected(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)

	if _, err := h.book(context.Background(), p.ID, "2024-06-04", "2024-06-01", 2, ""); !errors.Is(err, domainbooking.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if got := h.list(t); len(got) != 0 {
		t.Fatalf("expected no bookings, got %d", len(got))
	}
}

func TestGuestLimitIsAWarning(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)

	res, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 6, "")
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != domainbooking.WarningGuestLimitExceeded {
		t.Fatalf("expected guest limit warning, got %+v", res.Warnings)
	}
	if len(h.list(t)) != 1 {
		t.Fatalf("booking must still be saved")
	}
}

func TestCancellingCompletedBookingFails(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)
	res, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 2, "")
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := h.pay(context.Background(), res.Booking.ID, "6000"); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	_, err = commands.Dispatch[bookings.CancelBookingCommand, *bookings.CancelBookingResult](context.Background(), h.app.Commands, bookings.CancelBookingCommand{BookingID: res.Booking.ID})
	if !errors.Is(err, domainbooking.ErrAlreadyTerminal) {
		t.Fatalf("expected ErrAlreadyTerminal, got %v", err)
	}
	if got := h.get(t, res.Booking.ID).Booking.Status; got != string(domainbooking.StatusCompleted) {
		t.Fatalf("status must stay completed, got %s", got)
	}
}

func TestOverlapPolicy(t *testing.T) {
	t.Run("warns by default", func(t *testing.T) {
		h := newHarness(t, false)
		p := h.property(t)
		if _, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 2, ""); err != nil {
			t.Fatalf("first booking: %v", err)
		}
		res, err := h.book(context.Background(), p.ID, "2024-06-03", "2024-06-05", 2, "")
		if err != nil {
			t.Fatalf("second booking: %v", err)
		}
		if len(res.Warnings) != 1 || res.Warnings[0].Code != domainbooking.WarningOverlappingBooking {
			t.Fatalf("expected overlap warning, got %+v", res.Warnings)
		}
	})
	t.Run("rejects when configured", func(t *testing.T) {
		h := newHarness(t, true)
		p := h.property(t)
		if _, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 2, ""); err != nil {
			t.Fatalf("first booking: %v", err)
		}
		if _, err := h.book(context.Background(), p.ID, "2024-06-03", "2024-06-05", 2, ""); !errors.Is(err, domainbooking.ErrBookingConflict) {
			t.Fatalf("expected ErrBookingConflict, got %v", err)
		}
		if _, err := h.book(context.Background(), p.ID, "2024-06-04", "2024-06-06", 2, ""); err != nil {
			t.Fatalf("turnover day must be bookable: %v", err)
		}
	})
}

func TestIdempotentCreateReplaysResult(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)

	first, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 2, "req-1")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 2, "req-1")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if first.Booking.ID != second.Booking.ID || !second.Booking.TotalAmount.Equal(first.Booking.TotalAmount) {
		t.Fatalf("replay returned a different booking: %s vs %s", first.Booking.ID, second.Booking.ID)
	}
	if got := h.list(t); len(got) != 1 {
		t.Fatalf("expected a single booking, got %d", len(got))
	}
	if h.metrics.created != 1 {
		t.Fatalf("replay must not be counted again, got %d", h.metrics.created)
	}
}

func TestEventsReachOutboxOnlyAfterCommit(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)

	res, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 2, "")
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := h.pay(context.Background(), res.Booking.ID, "7000"); err == nil {
		t.Fatalf("expected overpayment to fail")
	}
	if _, err := h.pay(context.Background(), res.Booking.ID, "6000"); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	names := h.outbox.names()
	want := map[string]bool{"booking.created": false, "payment.recorded": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("expected %s in outbox, got %v", name, names)
		}
	}
	count := 0
	for _, n := range names {
		if n == "payment.recorded" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("failed payment must not publish events, got %v", names)
	}
}

func TestSummaryReport(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)
	res, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 2, "")
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := h.pay(context.Background(), res.Booking.ID, "3000"); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	report, err := queries.Ask[reports.SummaryQuery, dto.Report](context.Background(), h.app.Queries, reports.SummaryQuery{
		From: date(t, "2024-05-01"),
		To:   date(t, "2024-06-30"),
	})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if report.BookingCount != 1 || report.TotalDays != 3 || !report.TotalRevenue.Equal(money.Must("3000")) {
		t.Fatalf("unexpected report %+v", report)
	}
	if !report.AvgDailyRate.Equal(money.Must("1000")) {
		t.Fatalf("expected avg daily rate 1000, got %s", report.AvgDailyRate)
	}
}

func decimalPtr(raw string) *decimal.Decimal {
	d := money.Must(raw)
	return &d
}

func TestCreateBookingChecksInOrder(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)
	cust, err := commands.Dispatch[customers.CreateCustomerCommand, *dto.Customer](context.Background(), h.app.Commands, customers.CreateCustomerCommand{
		Name:  "Ravi Menon",
		Phone: "+91 90000 11111",
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	valid := func() bookings.CreateBookingCommand {
		return bookings.CreateBookingCommand{
			PropertyID:     p.ID,
			GuestName:      "Asha Rao",
			GuestPhone:     "+91 98450 00000",
			CheckIn:        date(t, "2024-06-01"),
			CheckOut:       date(t, "2024-06-04"),
			Guests:         2,
			NegotiatedRate: decimalPtr("2000"),
		}
	}
	cases := []struct {
		name   string
		mutate func(c *bookings.CreateBookingCommand)
		want   error
	}{
		{"unknown property", func(c *bookings.CreateBookingCommand) { c.PropertyID = "nope" }, domainproperty.ErrPropertyNotFound},
		{"unknown property wins over reversed range", func(c *bookings.CreateBookingCommand) {
			c.PropertyID = "nope"
			c.CheckIn, c.CheckOut = c.CheckOut, c.CheckIn
		}, domainproperty.ErrPropertyNotFound},
		{"check-in in the past", func(c *bookings.CreateBookingCommand) {
			c.CheckIn, c.CheckOut = date(t, "2024-04-20"), date(t, "2024-04-22")
		}, domainbooking.ErrCheckInInPast},
		{"past check-in wins over reversed range", func(c *bookings.CreateBookingCommand) {
			c.CheckIn, c.CheckOut = date(t, "2024-04-22"), date(t, "2024-04-20")
		}, domainbooking.ErrCheckInInPast},
		{"reversed range", func(c *bookings.CreateBookingCommand) { c.CheckIn, c.CheckOut = c.CheckOut, c.CheckIn }, domainbooking.ErrInvalidDateRange},
		{"missing dates", func(c *bookings.CreateBookingCommand) { c.CheckIn, c.CheckOut = time.Time{}, time.Time{} }, domainbooking.ErrInvalidDateRange},
		{"unknown customer", func(c *bookings.CreateBookingCommand) { c.CustomerID = "ghost" }, domaincustomer.ErrCustomerNotFound},
		{"no customer details", func(c *bookings.CreateBookingCommand) { c.GuestName, c.GuestPhone = "", "" }, domainbooking.ErrMissingCustomerInfo},
		{"phone missing", func(c *bookings.CreateBookingCommand) { c.GuestPhone = " " }, domainbooking.ErrMissingCustomerInfo},
		{"customer details win over guests", func(c *bookings.CreateBookingCommand) {
			c.GuestName = ""
			c.Guests = 0
		}, domainbooking.ErrMissingCustomerInfo},
		{"zero guests", func(c *bookings.CreateBookingCommand) { c.Guests = 0 }, domainbooking.ErrInvalidGuests},
		{"negative guests", func(c *bookings.CreateBookingCommand) { c.Guests = -2 }, domainbooking.ErrInvalidGuests},
		{"guests win over rate", func(c *bookings.CreateBookingCommand) {
			c.Guests = 0
			c.NegotiatedRate = decimalPtr("0")
		}, domainbooking.ErrInvalidGuests},
		{"zero rate", func(c *bookings.CreateBookingCommand) { c.NegotiatedRate = decimalPtr("0") }, domainbooking.ErrInvalidRate},
		{"negative rate", func(c *bookings.CreateBookingCommand) { c.NegotiatedRate = decimalPtr("-10") }, domainbooking.ErrInvalidRate},
		{"rate rounding to zero", func(c *bookings.CreateBookingCommand) { c.NegotiatedRate = decimalPtr("0.004") }, domainbooking.ErrInvalidRate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := valid()
			tc.mutate(&cmd)
			_, err := commands.Dispatch[bookings.CreateBookingCommand, *bookings.CreateBookingResult](context.Background(), h.app.Commands, cmd)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if got := h.list(t); len(got) != 0 {
		t.Fatalf("rejected bookings must not be stored, got %d", len(got))
	}
	all, err := queries.Ask[customers.ListCustomersQuery, dto.CustomerCollection](context.Background(), h.app.Queries, customers.ListCustomersQuery{})
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(all.Items) != 1 || all.Items[0].ID != cust.ID {
		t.Fatalf("rejected bookings must not create customers, got %+v", all.Items)
	}
	if len(h.outbox.names()) != 0 {
		t.Fatalf("rejected bookings must not publish events, got %v", h.outbox.names())
	}
}

func TestCreateBookingForExistingCustomerUsesBaseRate(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)
	cust, err := commands.Dispatch[customers.CreateCustomerCommand, *dto.Customer](context.Background(), h.app.Commands, customers.CreateCustomerCommand{
		Name:  "Ravi Menon",
		Phone: "+91 90000 11111",
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	res, err := commands.Dispatch[bookings.CreateBookingCommand, *bookings.CreateBookingResult](context.Background(), h.app.Commands, bookings.CreateBookingCommand{
		PropertyID: p.ID,
		CustomerID: cust.ID,
		CheckIn:    date(t, "2024-06-01"),
		CheckOut:   date(t, "2024-06-03"),
		Guests:     1,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	b := res.Booking
	if b.IsNewCustomer || b.CustomerID != cust.ID || b.GuestName != "Ravi Menon" {
		t.Fatalf("expected booking for existing customer, got %+v", b)
	}
	if !b.NegotiatedRate.Equal(money.Must("2000")) || !b.TotalAmount.Equal(money.Must("4000")) {
		t.Fatalf("expected base rate 2000 / total 4000, got %s / %s", b.NegotiatedRate, b.TotalAmount)
	}
}

func (h *harness) edit(bookingID string, patch domainbooking.Patch) (*bookings.EditBookingResult, error) {
	return commands.Dispatch[bookings.EditBookingCommand, *bookings.EditBookingResult](context.Background(), h.app.Commands, bookings.EditBookingCommand{
		BookingID: bookingID,
		Patch:     patch,
	})
}

func TestEditBookingWritesOffOverpayment(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)
	res, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 2, "")
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := h.pay(context.Background(), res.Booking.ID, "5000"); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	checkOut := date(t, "2024-06-03")
	edited, err := h.edit(res.Booking.ID, domainbooking.Patch{CheckOut: &checkOut, NegotiatedRate: decimalPtr("1500")})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	b := edited.Booking
	if b.Days != 2 || !b.TotalAmount.Equal(money.Must("3000")) || !b.PaidAmount.Equal(money.Must("3000")) {
		t.Fatalf("unexpected booking after edit %+v", b)
	}
	if !edited.WrittenOff.Equal(money.Must("2000")) {
		t.Fatalf("expected 2000 written off, got %s", edited.WrittenOff)
	}
	if b.Status != string(domainbooking.StatusConfirmed) {
		t.Fatalf("edit must not complete a booking, got %s", b.Status)
	}

	seen := false
	for _, name := range h.outbox.names() {
		if name == "booking.payment_written_off" {
			seen = true
		}
	}
	if !seen {
		t.Fatalf("expected write-off event, got %v", h.outbox.names())
	}
	if got := h.get(t, res.Booking.ID).Booking; !got.PaidAmount.Equal(money.Must("3000")) {
		t.Fatalf("clamp must be persisted, got paid=%s", got.PaidAmount)
	}
}

func TestEditBookingCancelsViaStatus(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)
	res, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 2, "")
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	cancelled := domainbooking.StatusCancelled
	edited, err := h.edit(res.Booking.ID, domainbooking.Patch{Status: &cancelled})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Booking.Status != string(domainbooking.StatusCancelled) {
		t.Fatalf("expected cancelled, got %s", edited.Booking.Status)
	}
	if h.metrics.cancelled != 1 {
		t.Fatalf("expected one cancelled metric, got %d", h.metrics.cancelled)
	}
	guests := 3
	if _, err := h.edit(res.Booking.ID, domainbooking.Patch{Guests: &guests}); !errors.Is(err, domainbooking.ErrAlreadyTerminal) {
		t.Fatalf("expected ErrAlreadyTerminal, got %v", err)
	}
}

func TestEditedRateCanBePaidInFull(t *testing.T) {
	h := newHarness(t, false)
	p := h.property(t)
	res, err := h.book(context.Background(), p.ID, "2024-06-01", "2024-06-04", 2, "")
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	edited, err := h.edit(res.Booking.ID, domainbooking.Patch{NegotiatedRate: decimalPtr("100.333")})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !edited.Booking.TotalAmount.Equal(money.Must("300.99")) {
		t.Fatalf("expected total 300.99, got %s", edited.Booking.TotalAmount)
	}
	paid, err := h.pay(context.Background(), res.Booking.ID, "300.99")
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if paid.Booking.Status != string(domainbooking.StatusCompleted) || !paid.Booking.Balance.IsZero() {
		t.Fatalf("expected completed with zero balance, got %+v", paid.Booking)
	}
}

package payments

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/middleware"
	"rentdesk/internal/app/outbox"
	"rentdesk/internal/app/policies"
	"rentdesk/internal/app/queries"
	"rentdesk/internal/app/uow"
	domainbooking "rentdesk/internal/domain/booking"
	domainpayment "rentdesk/internal/domain/payment"
	"rentdesk/internal/domain/shared/money"
)

const (
	recordPaymentKey = "payments.record"
	listPaymentsKey  = "payments.list"
)

// RecordPaymentCommand appends a payment to a booking's ledger. A zero
// Date means today.
type RecordPaymentCommand struct {
	BookingID       string
	Amount          decimal.Decimal
	Method          string
	Date            time.Time
	Notes           string
	IdempotencyKeyV string
}

func (c RecordPaymentCommand) Key() string { return recordPaymentKey }

func (c RecordPaymentCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RecordPaymentCommand) ResultPrototype() any { return &RecordPaymentResult{} }

type RecordPaymentResult struct {
	Payment dto.Payment `json:"payment"`
	Booking dto.Booking `json:"booking"`
}

func (r *RecordPaymentResult) ReportMetrics(m policies.Metrics) {
	m.PaymentRecorded(r.Payment.Method, r.Payment.Amount)
}

type RecordPaymentHandler struct {
	Clock   policies.Clock
	IDs     policies.IDGenerator
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *RecordPaymentHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (*RecordPaymentResult, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(strings.TrimSpace(cmd.BookingID)))
	if err != nil {
		return nil, err
	}
	p, err := domainpayment.Record(b, domainpayment.RecordParams{
		ID:     domainpayment.PaymentID(h.IDs.NewID()),
		Amount: money.Round(cmd.Amount),
		Method: domainpayment.Method(cmd.Method),
		Date:   cmd.Date,
		Notes:  cmd.Notes,
		Now:    h.Clock.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Payments().Append(ctx, p); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.Encoder, b.Drain()); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("payment recorded",
			"payment_id", p.ID,
			"booking_id", b.ID,
			"amount", p.Amount.StringFixed(money.Scale),
			"balance", b.Balance().StringFixed(money.Scale),
			"status", b.Status,
		)
	}
	return &RecordPaymentResult{Payment: dto.MapPayment(p), Booking: dto.MapBooking(b)}, nil
}

// ListPaymentsQuery lists the whole ledger, or one booking's payments when
// BookingID is set, ordered by date.
type ListPaymentsQuery struct {
	BookingID string
}

func (q ListPaymentsQuery) Key() string { return listPaymentsKey }

type ListPaymentsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListPaymentsHandler) Handle(ctx context.Context, q ListPaymentsQuery) (dto.PaymentCollection, error) {
	unit, execCtx, release, err := uow.BeginReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return dto.PaymentCollection{}, err
	}
	defer release()

	var items []*domainpayment.Payment
	if id := strings.TrimSpace(q.BookingID); id != "" {
		b, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(id))
		if err != nil {
			return dto.PaymentCollection{}, err
		}
		items, err = unit.Payments().ListByBooking(execCtx, b.ID)
		if err != nil {
			return dto.PaymentCollection{}, err
		}
	} else {
		items, err = unit.Payments().List(execCtx)
		if err != nil {
			return dto.PaymentCollection{}, err
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date.Equal(items[j].Date) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].Date.Before(items[j].Date)
	})
	return dto.MapPayments(items), nil
}

var (
	_ commands.Handler[RecordPaymentCommand, *RecordPaymentResult] = (*RecordPaymentHandler)(nil)
	_ queries.Handler[ListPaymentsQuery, dto.PaymentCollection]    = (*ListPaymentsHandler)(nil)
	_ middleware.IdempotentCommand                                 = RecordPaymentCommand{}
	_ policies.MetricsReporter                                     = (*RecordPaymentResult)(nil)
)

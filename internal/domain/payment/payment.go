package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/internal/domain/booking"
	"rentdesk/internal/domain/shared/daterange"
	"rentdesk/internal/domain/shared/events"
)

var (
	ErrNonPositiveAmount    = booking.ErrNonPositiveAmount
	ErrAmountExceedsBalance = booking.ErrAmountExceedsBalance
	ErrInvalidMethod        = errors.New("payment: unknown payment method")
	ErrIDRequired           = errors.New("payment: id is required")
)

type PaymentID string

type Method string

const (
	MethodCash         Method = "cash"
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodUPI          Method = "upi"
	MethodOther        Method = "other"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodBankTransfer, MethodUPI, MethodOther:
		return true
	}
	return false
}

// Payment is an immutable ledger entry.
type Payment struct {
	ID        PaymentID
	BookingID booking.BookingID
	Amount    decimal.Decimal
	Method    Method
	Date      time.Time
	Notes     string
	CreatedAt time.Time
}

// Repository is append-only: payments are never edited or removed.
type Repository interface {
	Append(ctx context.Context, p *Payment) error
	List(ctx context.Context) ([]*Payment, error)
	ListByBooking(ctx context.Context, id booking.BookingID) ([]*Payment, error)
}

type RecordParams struct {
	ID     PaymentID
	Amount decimal.Decimal
	Method Method
	Date   time.Time
	Notes  string
	Now    time.Time
}

// Record applies a payment to b and returns the ledger entry to append.
// On error b is left untouched.
func Record(b *booking.Booking, params RecordParams) (*Payment, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if params.Amount.Sign() <= 0 {
		return nil, ErrNonPositiveAmount
	}
	method := Method(strings.ToLower(strings.TrimSpace(string(params.Method))))
	if method == "" {
		method = MethodCash
	}
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}
	if err := b.ApplyPayment(params.Amount, params.Now); err != nil {
		return nil, err
	}
	date := params.Date
	if date.IsZero() {
		date = params.Now
	}
	p := &Payment{
		ID:        params.ID,
		BookingID: b.ID,
		Amount:    params.Amount,
		Method:    method,
		Date:      daterange.Date(date),
		Notes:     strings.TrimSpace(params.Notes),
		CreatedAt: params.Now.UTC(),
	}
	b.Record(PaymentRecorded{
		PaymentID: p.ID,
		BookingID: b.ID,
		Amount:    p.Amount,
		Method:    p.Method,
		Balance:   b.Balance(),
		At:        p.CreatedAt,
	})
	return p, nil
}

// PaymentRecorded is recorded on the booking aggregate so it travels with
// the booking's other events.
type PaymentRecorded struct {
	PaymentID PaymentID         `json:"payment_id"`
	BookingID booking.BookingID `json:"booking_id"`
	Amount    decimal.Decimal   `json:"amount"`
	Method    Method            `json:"method"`
	Balance   decimal.Decimal   `json:"balance"`
	At        time.Time         `json:"at"`
}

func (e PaymentRecorded) EventName() string     { return "payment.recorded" }
func (e PaymentRecorded) AggregateID() string   { return string(e.BookingID) }
func (e PaymentRecorded) OccurredAt() time.Time { return e.At }

var _ events.DomainEvent = PaymentRecorded{}

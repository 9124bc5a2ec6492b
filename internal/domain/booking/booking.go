package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/internal/domain/customer"
	"rentdesk/internal/domain/property"
	"rentdesk/internal/domain/shared/daterange"
	"rentdesk/internal/domain/shared/events"
	"rentdesk/internal/domain/shared/money"
)

var (
	ErrBookingNotFound      = errors.New("booking: not found")
	ErrInvalidDateRange     = daterange.ErrInvalidRange
	ErrMissingCustomerInfo  = errors.New("booking: existing customer or guest name and phone required")
	ErrInvalidGuests        = errors.New("booking: guests count must be positive")
	ErrInvalidRate          = errors.New("booking: negotiated rate must be positive")
	ErrAlreadyTerminal      = errors.New("booking: booking is already cancelled or completed")
	ErrInvalidTransition    = errors.New("booking: invalid status transition")
	ErrInvalidStatus        = errors.New("booking: unknown status")
	ErrNonPositiveAmount    = errors.New("booking: payment amount must be positive")
	ErrAmountExceedsBalance = errors.New("booking: payment amount exceeds outstanding balance")
	ErrBookingConflict      = errors.New("booking: dates overlap an existing booking")
)

type BookingID string

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type Booking struct {
	ID             BookingID
	PropertyID     property.PropertyID
	CustomerID     customer.CustomerID
	GuestName      string
	GuestPhone     string
	Range          daterange.DateRange
	Days           int
	Nights         int
	Guests         int
	NegotiatedRate decimal.Decimal
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	Status         Status
	IsNewCustomer  bool
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	List(ctx context.Context) ([]*Booking, error)
	ListByProperty(ctx context.Context, id property.PropertyID) ([]*Booking, error)
	ListByCustomer(ctx context.Context, id customer.CustomerID) ([]*Booking, error)
}

type CreateParams struct {
	ID             BookingID
	PropertyID     property.PropertyID
	CustomerID     customer.CustomerID
	GuestName      string
	GuestPhone     string
	Range          daterange.DateRange
	Guests         int
	NegotiatedRate decimal.Decimal
	IsNewCustomer  bool
	Notes          string
	CreatedAt      time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.CustomerID == "" {
		return nil, ErrMissingCustomerInfo
	}
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if !money.Positive(params.NegotiatedRate) {
		return nil, ErrInvalidRate
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:             params.ID,
		PropertyID:     params.PropertyID,
		CustomerID:     params.CustomerID,
		GuestName:      strings.TrimSpace(params.GuestName),
		GuestPhone:     strings.TrimSpace(params.GuestPhone),
		Guests:         params.Guests,
		NegotiatedRate: params.NegotiatedRate,
		PaidAmount:     decimal.Zero,
		Status:         StatusConfirmed,
		IsNewCustomer:  params.IsNewCustomer,
		Notes:          strings.TrimSpace(params.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	b.reprice(params.Range)
	b.Record(BookingCreated{
		BookingID:  b.ID,
		PropertyID: b.PropertyID,
		CustomerID: b.CustomerID,
		Range:      b.Range,
		Guests:     b.Guests,
		Total:      b.TotalAmount,
		At:         now,
	})
	return b, nil
}

// Balance is the amount still owed.
func (b *Booking) Balance() decimal.Decimal {
	return b.TotalAmount.Sub(b.PaidAmount)
}

// Active reports whether the booking still holds its dates.
func (b *Booking) Active() bool {
	return b.Status != StatusCancelled
}

// reprice recomputes the derived duration and total from the range and rate.
func (b *Booking) reprice(dr daterange.DateRange) {
	b.Range = dr
	b.Days, b.Nights = daterange.DaysAndNights(dr.CheckIn, dr.CheckOut)
	b.TotalAmount = money.Times(b.NegotiatedRate, b.Days)
}

func (b *Booking) Cancel(now time.Time) error {
	if b.Status.Terminal() {
		return ErrAlreadyTerminal
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, PropertyID: b.PropertyID, PaidAmount: b.PaidAmount, At: b.UpdatedAt})
	return nil
}

// ApplyPayment adds amount to the paid total. Paid never exceeds the total;
// reaching it completes a confirmed booking. A cancelled booking stays
// cancelled.
func (b *Booking) ApplyPayment(amount decimal.Decimal, now time.Time) error {
	if !money.Positive(amount) {
		return ErrNonPositiveAmount
	}
	if amount.GreaterThan(b.Balance()) {
		return ErrAmountExceedsBalance
	}
	b.PaidAmount = b.PaidAmount.Add(amount)
	b.UpdatedAt = now.UTC()
	if b.Status == StatusConfirmed && b.PaidAmount.GreaterThanOrEqual(b.TotalAmount) {
		b.Status = StatusCompleted
		b.Record(BookingCompleted{BookingID: b.ID, Total: b.TotalAmount, At: b.UpdatedAt})
	}
	return nil
}

// Patch lists the editable fields; nil means unchanged.
type Patch struct {
	CheckIn        *time.Time
	CheckOut       *time.Time
	Guests         *int
	NegotiatedRate *decimal.Decimal
	Status         *Status
	GuestName      *string
	GuestPhone     *string
	Notes          *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.CheckIn == nil && p.CheckOut == nil && p.Guests == nil && p.NegotiatedRate == nil &&
		p.Status == nil && p.GuestName == nil && p.GuestPhone == nil && p.Notes == nil
}

// Edit validates the patched fields and applies them atomically. It returns
// the amount written off when the new total drops below what was already
// paid.
func (b *Booking) Edit(p Patch, today, now time.Time) (decimal.Decimal, error) {
	if b.Status.Terminal() {
		return decimal.Zero, ErrAlreadyTerminal
	}
	cancel := false
	if p.Status != nil {
		switch *p.Status {
		case StatusConfirmed:
		case StatusCancelled:
			cancel = true
		case StatusCompleted:
			return decimal.Zero, ErrInvalidTransition
		default:
			return decimal.Zero, ErrInvalidStatus
		}
	}
	if p.CheckIn != nil {
		if err := ValidateCheckIn(*p.CheckIn, today); err != nil {
			return decimal.Zero, err
		}
	}
	dr := b.Range
	if p.CheckIn != nil || p.CheckOut != nil {
		checkIn, checkOut := b.Range.CheckIn, b.Range.CheckOut
		if p.CheckIn != nil {
			checkIn = *p.CheckIn
		}
		if p.CheckOut != nil {
			checkOut = *p.CheckOut
		}
		var err error
		if dr, err = daterange.New(checkIn, checkOut); err != nil {
			return decimal.Zero, err
		}
	}
	if p.Guests != nil && *p.Guests <= 0 {
		return decimal.Zero, ErrInvalidGuests
	}
	var rate decimal.Decimal
	if p.NegotiatedRate != nil {
		if rate = money.Round(*p.NegotiatedRate); !money.Positive(rate) {
			return decimal.Zero, ErrInvalidRate
		}
	}
	if p.GuestName != nil && strings.TrimSpace(*p.GuestName) == "" {
		return decimal.Zero, ErrMissingCustomerInfo
	}
	if p.GuestPhone != nil && strings.TrimSpace(*p.GuestPhone) == "" {
		return decimal.Zero, ErrMissingCustomerInfo
	}

	now = now.UTC()
	if p.Guests != nil {
		b.Guests = *p.Guests
	}
	if p.NegotiatedRate != nil {
		b.NegotiatedRate = rate
	}
	if p.GuestName != nil {
		b.GuestName = strings.TrimSpace(*p.GuestName)
	}
	if p.GuestPhone != nil {
		b.GuestPhone = strings.TrimSpace(*p.GuestPhone)
	}
	if p.Notes != nil {
		b.Notes = strings.TrimSpace(*p.Notes)
	}
	b.reprice(dr)

	writtenOff := decimal.Zero
	if b.PaidAmount.GreaterThan(b.TotalAmount) {
		writtenOff = b.PaidAmount.Sub(b.TotalAmount)
		b.PaidAmount = b.TotalAmount
		b.Record(PaymentWrittenOff{BookingID: b.ID, Amount: writtenOff, At: now})
	}
	b.UpdatedAt = now
	b.Record(BookingUpdated{BookingID: b.ID, Range: b.Range, Guests: b.Guests, Rate: b.NegotiatedRate, Total: b.TotalAmount, At: now})
	if cancel {
		if err := b.Cancel(now); err != nil {
			return writtenOff, err
		}
	}
	return writtenOff, nil
}

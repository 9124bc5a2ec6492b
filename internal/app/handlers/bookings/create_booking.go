package bookings

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/middleware"
	"rentdesk/internal/app/outbox"
	"rentdesk/internal/app/policies"
	"rentdesk/internal/app/uow"
	"rentdesk/internal/domain/availability"
	domainbooking "rentdesk/internal/domain/booking"
	domaincustomer "rentdesk/internal/domain/customer"
	domainpricing "rentdesk/internal/domain/pricing"
	domainproperty "rentdesk/internal/domain/property"
	"rentdesk/internal/domain/shared/daterange"
	"rentdesk/internal/domain/shared/money"
)

const createBookingKey = "bookings.create"

// CreateBookingCommand books a property either for an existing customer
// (CustomerID) or for a new one described by GuestName and GuestPhone.
// A nil NegotiatedRate takes the property's offered rate.
type CreateBookingCommand struct {
	PropertyID      string
	CustomerID      string
	GuestName       string
	GuestPhone      string
	GuestEmail      string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	NegotiatedRate  *decimal.Decimal
	Notes           string
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

type CreateBookingHandler struct {
	Clock          policies.Clock
	IDs            policies.IDGenerator
	Encoder        outbox.EventEncoder
	RejectOverlaps bool
	Logger         *slog.Logger
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(strings.TrimSpace(cmd.PropertyID)))
	if err != nil {
		return nil, err
	}
	if cmd.CheckIn.IsZero() || cmd.CheckOut.IsZero() {
		return nil, domainbooking.ErrInvalidDateRange
	}
	now := h.Clock.Now()
	if err := domainbooking.ValidateCheckIn(cmd.CheckIn, daterange.Date(now)); err != nil {
		return nil, err
	}
	dr, err := daterange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}

	cust, isNew, err := h.resolveCustomer(ctx, unit, cmd, now)
	if err != nil {
		return nil, err
	}

	if cmd.Guests <= 0 {
		return nil, domainbooking.ErrInvalidGuests
	}
	var warnings []domainbooking.Warning
	if w, ok := domainbooking.CheckGuestLimit(cmd.Guests, prop.MaxGuests); ok {
		warnings = append(warnings, w)
	}

	rate, err := negotiatedRate(prop, dr, cmd.NegotiatedRate)
	if err != nil {
		return nil, err
	}

	existing, err := unit.Bookings().ListByProperty(ctx, prop.ID)
	if err != nil {
		return nil, err
	}
	if w, ok := domainbooking.OverlapWarning(availability.NewIndex(existing).Overlapping(prop.ID, dr)); ok {
		if h.RejectOverlaps {
			return nil, domainbooking.ErrBookingConflict
		}
		warnings = append(warnings, w)
	}

	guestName, guestPhone := cust.Name, cust.Phone
	if name := strings.TrimSpace(cmd.GuestName); name != "" {
		guestName = name
	}
	if phone := strings.TrimSpace(cmd.GuestPhone); phone != "" {
		guestPhone = phone
	}
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:             domainbooking.BookingID(h.IDs.NewID()),
		PropertyID:     prop.ID,
		CustomerID:     cust.ID,
		GuestName:      guestName,
		GuestPhone:     guestPhone,
		Range:          dr,
		Guests:         cmd.Guests,
		NegotiatedRate: rate,
		IsNewCustomer:  isNew,
		Notes:          cmd.Notes,
		CreatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	if isNew {
		if err := unit.Customers().Save(ctx, cust); err != nil {
			return nil, err
		}
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.Encoder, b.Drain()); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("booking created",
			"booking_id", b.ID,
			"property_id", b.PropertyID,
			"customer_id", b.CustomerID,
			"range", b.Range.String(),
			"total", b.TotalAmount.StringFixed(money.Scale),
			"warnings", len(warnings),
		)
	}
	return &CreateBookingResult{BookingResult: newBookingResult(b, warnings)}, nil
}

func (h *CreateBookingHandler) resolveCustomer(ctx context.Context, unit uow.UnitOfWork, cmd CreateBookingCommand, now time.Time) (*domaincustomer.Customer, bool, error) {
	if id := strings.TrimSpace(cmd.CustomerID); id != "" {
		c, err := unit.Customers().ByID(ctx, domaincustomer.CustomerID(id))
		return c, false, err
	}
	if strings.TrimSpace(cmd.GuestName) == "" || strings.TrimSpace(cmd.GuestPhone) == "" {
		return nil, false, domainbooking.ErrMissingCustomerInfo
	}
	c, err := domaincustomer.NewCustomer(domaincustomer.CreateParams{
		ID:    domaincustomer.CustomerID(h.IDs.NewID()),
		Name:  cmd.GuestName,
		Phone: cmd.GuestPhone,
		Email: cmd.GuestEmail,
		Now:   now,
	})
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func negotiatedRate(prop *domainproperty.Property, dr daterange.DateRange, requested *decimal.Decimal) (decimal.Decimal, error) {
	if requested == nil {
		return domainpricing.ResolveBaseRate(prop, dr.CheckIn)
	}
	rate := money.Round(*requested)
	if !money.Positive(rate) {
		return decimal.Zero, domainbooking.ErrInvalidRate
	}
	return rate, nil
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = CreateBookingCommand{}

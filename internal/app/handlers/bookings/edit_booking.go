package bookings

import (
	"context"
	"log/slog"
	"strings"

	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/outbox"
	"rentdesk/internal/app/policies"
	"rentdesk/internal/app/uow"
	"rentdesk/internal/domain/availability"
	domainbooking "rentdesk/internal/domain/booking"
	"rentdesk/internal/domain/shared/daterange"
	"rentdesk/internal/domain/shared/money"
)

const (
	editBookingKey   = "bookings.edit"
	cancelBookingKey = "bookings.cancel"
)

type EditBookingCommand struct {
	BookingID string
	Patch     domainbooking.Patch
}

func (c EditBookingCommand) Key() string { return editBookingKey }

type EditBookingHandler struct {
	Clock          policies.Clock
	Encoder        outbox.EventEncoder
	RejectOverlaps bool
	Logger         *slog.Logger
}

func (h *EditBookingHandler) Handle(ctx context.Context, cmd EditBookingCommand) (*EditBookingResult, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(strings.TrimSpace(cmd.BookingID)))
	if err != nil {
		return nil, err
	}
	now := h.Clock.Now()
	writtenOff, err := b.Edit(cmd.Patch, daterange.Date(now), now)
	if err != nil {
		return nil, err
	}

	var warnings []domainbooking.Warning
	if b.Active() {
		prop, err := unit.Properties().ByID(ctx, b.PropertyID)
		if err != nil {
			return nil, err
		}
		if w, ok := domainbooking.CheckGuestLimit(b.Guests, prop.MaxGuests); ok {
			warnings = append(warnings, w)
		}
		others, err := h.overlapping(ctx, unit, b)
		if err != nil {
			return nil, err
		}
		if w, ok := domainbooking.OverlapWarning(others); ok {
			rangeChanged := cmd.Patch.CheckIn != nil || cmd.Patch.CheckOut != nil
			if h.RejectOverlaps && rangeChanged {
				return nil, domainbooking.ErrBookingConflict
			}
			warnings = append(warnings, w)
		}
	}

	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.Encoder, b.Drain()); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking edited",
			"booking_id", b.ID,
			"status", b.Status,
			"total", b.TotalAmount.StringFixed(money.Scale),
			"written_off", writtenOff.StringFixed(money.Scale),
		)
	}
	return &EditBookingResult{BookingResult: newBookingResult(b, warnings), WrittenOff: writtenOff}, nil
}

// overlapping lists the other active bookings sharing a date with b.
func (h *EditBookingHandler) overlapping(ctx context.Context, unit uow.UnitOfWork, b *domainbooking.Booking) ([]*domainbooking.Booking, error) {
	existing, err := unit.Bookings().ListByProperty(ctx, b.PropertyID)
	if err != nil {
		return nil, err
	}
	others := existing[:0:0]
	for _, o := range existing {
		if o.ID != b.ID {
			others = append(others, o)
		}
	}
	return availability.NewIndex(others).Overlapping(b.PropertyID, b.Range), nil
}

type CancelBookingCommand struct {
	BookingID string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

// CancelBookingHandler soft-deletes a booking: it stays in the store with
// status cancelled and stops occupying its dates.
type CancelBookingHandler struct {
	Clock   policies.Clock
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(strings.TrimSpace(cmd.BookingID)))
	if err != nil {
		return nil, err
	}
	if err := b.Cancel(h.Clock.Now()); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.Encoder, b.Drain()); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking cancelled", "booking_id", b.ID, "property_id", b.PropertyID, "paid", b.PaidAmount.StringFixed(money.Scale))
	}
	return &CancelBookingResult{Booking: dto.MapBooking(b)}, nil
}

var (
	_ commands.Handler[EditBookingCommand, *EditBookingResult]     = (*EditBookingHandler)(nil)
	_ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
)

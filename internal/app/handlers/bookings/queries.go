package bookings

import (
	"context"
	"sort"
	"strings"
	"time"

	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/queries"
	"rentdesk/internal/app/uow"
	domainbooking "rentdesk/internal/domain/booking"
	"rentdesk/internal/domain/shared/daterange"
)

const (
	listBookingsKey = "bookings.list"
	getBookingKey   = "bookings.get"
)

// ListBookingsQuery filters are optional and combine with AND. From and To
// bound the check-in date, both inclusive.
type ListBookingsQuery struct {
	PropertyID string
	CustomerID string
	Status     string
	From       time.Time
	To         time.Time
}

func (q ListBookingsQuery) Key() string { return listBookingsKey }

func (q ListBookingsQuery) Validate() error {
	if s := strings.ToLower(strings.TrimSpace(q.Status)); s != "" && !domainbooking.Status(s).Valid() {
		return domainbooking.ErrInvalidStatus
	}
	if !q.From.IsZero() && !q.To.IsZero() && daterange.Date(q.From).After(daterange.Date(q.To)) {
		return daterange.ErrInvalidRange
	}
	return nil
}

type GetBookingQuery struct {
	BookingID string
}

func (q GetBookingQuery) Key() string { return getBookingKey }

type BookingDetail struct {
	Booking  dto.Booking   `json:"booking"`
	Payments []dto.Payment `json:"payments"`
}

type QueryHandlers struct {
	UoWFactory uow.UoWFactory
}

func (h *QueryHandlers) List(ctx context.Context, q ListBookingsQuery) (dto.BookingCollection, error) {
	unit, execCtx, release, err := uow.BeginReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	defer release()

	all, err := unit.Bookings().List(execCtx)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	status := domainbooking.Status(strings.ToLower(strings.TrimSpace(q.Status)))
	from, to := daterange.Date(q.From), daterange.Date(q.To)
	matched := make([]*domainbooking.Booking, 0, len(all))
	for _, b := range all {
		switch {
		case q.PropertyID != "" && string(b.PropertyID) != q.PropertyID:
		case q.CustomerID != "" && string(b.CustomerID) != q.CustomerID:
		case status != "" && b.Status != status:
		case !q.From.IsZero() && b.Range.CheckIn.Before(from):
		case !q.To.IsZero() && b.Range.CheckIn.After(to):
		default:
			matched = append(matched, b)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Range.CheckIn.Equal(matched[j].Range.CheckIn) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].Range.CheckIn.Before(matched[j].Range.CheckIn)
	})
	return dto.MapBookings(matched), nil
}

func (h *QueryHandlers) Get(ctx context.Context, q GetBookingQuery) (BookingDetail, error) {
	unit, execCtx, release, err := uow.BeginReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return BookingDetail{}, err
	}
	defer release()

	b, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(q.BookingID))
	if err != nil {
		return BookingDetail{}, err
	}
	payments, err := unit.Payments().ListByBooking(execCtx, b.ID)
	if err != nil {
		return BookingDetail{}, err
	}
	return BookingDetail{Booking: dto.MapBooking(b), Payments: dto.MapPayments(payments).Items}, nil
}

func (h *QueryHandlers) Register(r *queries.Registry) {
	queries.Register(r, queries.HandlerFunc[ListBookingsQuery, dto.BookingCollection](h.List))
	queries.Register(r, queries.HandlerFunc[GetBookingQuery, BookingDetail](h.Get))
}

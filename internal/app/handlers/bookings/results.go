package bookings

import (
	"github.com/shopspring/decimal"

	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/policies"
	domainbooking "rentdesk/internal/domain/booking"
)

// BookingResult is a booking with the advisory warnings raised while
// saving it.
type BookingResult struct {
	Booking  dto.Booking             `json:"booking"`
	Warnings []domainbooking.Warning `json:"warnings"`
}

type CreateBookingResult struct {
	BookingResult
}

func (r *CreateBookingResult) ReportMetrics(m policies.Metrics) {
	m.BookingCreated(r.Booking.PropertyID, len(r.Warnings))
}

type EditBookingResult struct {
	BookingResult
	WrittenOff decimal.Decimal `json:"written_off"`
}

func (r *EditBookingResult) ReportMetrics(m policies.Metrics) {
	if r.Booking.Status == string(domainbooking.StatusCancelled) {
		m.BookingCancelled(r.Booking.PropertyID)
	}
}

type CancelBookingResult struct {
	dto.Booking
}

func (r *CancelBookingResult) ReportMetrics(m policies.Metrics) {
	m.BookingCancelled(r.PropertyID)
}

func newBookingResult(b *domainbooking.Booking, warnings []domainbooking.Warning) BookingResult {
	if warnings == nil {
		warnings = []domainbooking.Warning{}
	}
	return BookingResult{Booking: dto.MapBooking(b), Warnings: warnings}
}

var (
	_ policies.MetricsReporter = (*CreateBookingResult)(nil)
	_ policies.MetricsReporter = (*EditBookingResult)(nil)
	_ policies.MetricsReporter = (*CancelBookingResult)(nil)
)

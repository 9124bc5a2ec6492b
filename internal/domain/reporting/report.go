package reporting

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/internal/domain/booking"
	"rentdesk/internal/domain/payment"
	"rentdesk/internal/domain/property"
	"rentdesk/internal/domain/shared/daterange"
	"rentdesk/internal/domain/shared/money"
)

var ErrInvalidPeriod = errors.New("reporting: from must not be after to")

// Period is an inclusive range of calendar dates.
type Period struct {
	From time.Time
	To   time.Time
}

func NewPeriod(from, to time.Time) (Period, error) {
	p := Period{From: daterange.Date(from), To: daterange.Date(to)}
	if p.From.IsZero() || p.To.IsZero() || p.From.After(p.To) {
		return Period{}, ErrInvalidPeriod
	}
	return p, nil
}

func (p Period) Contains(t time.Time) bool {
	t = daterange.Date(t)
	return !t.Before(p.From) && !t.After(p.To)
}

type PropertyPerformance struct {
	PropertyID   property.PropertyID
	BookingCount int
	Days         int
	Revenue      decimal.Decimal
}

type Summary struct {
	Period       Period
	TotalRevenue decimal.Decimal
	BookingCount int
	TotalDays    int
	AvgDailyRate decimal.Decimal
	PerProperty  []PropertyPerformance
}

// Aggregate summarises a period. Booking counts and days come from
// non-cancelled bookings checking in during the period; revenue comes from
// payments dated in the period that belong to non-cancelled bookings.
func Aggregate(bookings []*booking.Booking, payments []*payment.Payment, period Period) Summary {
	active := make(map[booking.BookingID]*booking.Booking, len(bookings))
	perProperty := make(map[property.PropertyID]*PropertyPerformance)
	row := func(id property.PropertyID) *PropertyPerformance {
		r, ok := perProperty[id]
		if !ok {
			r = &PropertyPerformance{PropertyID: id, Revenue: decimal.Zero}
			perProperty[id] = r
		}
		return r
	}

	summary := Summary{Period: period, TotalRevenue: decimal.Zero, AvgDailyRate: decimal.Zero}
	for _, b := range bookings {
		if b == nil || !b.Active() {
			continue
		}
		active[b.ID] = b
		if !period.Contains(b.Range.CheckIn) {
			continue
		}
		summary.BookingCount++
		summary.TotalDays += b.Days
		r := row(b.PropertyID)
		r.BookingCount++
		r.Days += b.Days
	}
	for _, p := range payments {
		if p == nil || !period.Contains(p.Date) {
			continue
		}
		b, ok := active[p.BookingID]
		if !ok {
			continue
		}
		summary.TotalRevenue = summary.TotalRevenue.Add(p.Amount)
		r := row(b.PropertyID)
		r.Revenue = r.Revenue.Add(p.Amount)
	}
	summary.AvgDailyRate = money.Ratio(summary.TotalRevenue, decimal.NewFromInt(int64(summary.TotalDays)))

	summary.PerProperty = make([]PropertyPerformance, 0, len(perProperty))
	for _, r := range perProperty {
		summary.PerProperty = append(summary.PerProperty, *r)
	}
	sort.Slice(summary.PerProperty, func(i, j int) bool {
		a, b := summary.PerProperty[i], summary.PerProperty[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		return a.PropertyID < b.PropertyID
	})
	return summary
}

package dto

import (
	"github.com/shopspring/decimal"

	domainproperty "rentdesk/internal/domain/property"
	"rentdesk/internal/domain/reporting"
	"rentdesk/internal/domain/shared/daterange"
)

type PropertyPerformance struct {
	PropertyID   string          `json:"property_id"`
	Name         string          `json:"name,omitempty"`
	BookingCount int             `json:"booking_count"`
	Days         int             `json:"days"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type Report struct {
	From         string                `json:"from"`
	To           string                `json:"to"`
	TotalRevenue decimal.Decimal       `json:"total_revenue"`
	BookingCount int                   `json:"booking_count"`
	TotalDays    int                   `json:"total_days"`
	AvgDailyRate decimal.Decimal       `json:"avg_daily_rate"`
	PerProperty  []PropertyPerformance `json:"per_property"`
}

// MapReport resolves property names through names; unknown ids keep an
// empty name.
func MapReport(s reporting.Summary, names map[domainproperty.PropertyID]string) Report {
	out := Report{
		From:         daterange.Format(s.Period.From),
		To:           daterange.Format(s.Period.To),
		TotalRevenue: s.TotalRevenue,
		BookingCount: s.BookingCount,
		TotalDays:    s.TotalDays,
		AvgDailyRate: s.AvgDailyRate,
		PerProperty:  make([]PropertyPerformance, 0, len(s.PerProperty)),
	}
	for _, row := range s.PerProperty {
		out.PerProperty = append(out.PerProperty, PropertyPerformance{
			PropertyID:   string(row.PropertyID),
			Name:         names[row.PropertyID],
			BookingCount: row.BookingCount,
			Days:         row.Days,
			Revenue:      row.Revenue,
		})
	}
	return out
}

// ReportExport is a report together with the booking rows it counted.
type ReportExport struct {
	Report   Report    `json:"report"`
	Bookings []Booking `json:"bookings"`
}

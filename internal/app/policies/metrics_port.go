package policies

import "github.com/shopspring/decimal"

// Metrics receives business counters after a command commits.
type Metrics interface {
	BookingCreated(propertyID string, warnings int)
	BookingCancelled(propertyID string)
	PaymentRecorded(method string, amount decimal.Decimal)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) BookingCreated(string, int)              {}
func (NopMetrics) BookingCancelled(string)                 {}
func (NopMetrics) PaymentRecorded(string, decimal.Decimal) {}

var _ Metrics = NopMetrics{}

// MetricsReporter is implemented by command results that carry business
// counters. The metrics middleware calls it after the command commits.
type MetricsReporter interface {
	ReportMetrics(m Metrics)
}

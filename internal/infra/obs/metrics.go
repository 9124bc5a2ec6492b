package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"rentdesk/internal/app/policies"
)

// Metrics owns a private registry with the business counters and the HTTP
// request histogram.
type Metrics struct {
	registry         *prometheus.Registry
	bookingsCreated  *prometheus.CounterVec
	bookingWarnings  prometheus.Counter
	bookingsCancel   *prometheus.CounterVec
	paymentsRecorded *prometheus.CounterVec
	revenue          *prometheus.CounterVec
	httpRequests     *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rentdesk",
			Name:      "bookings_created_total",
			Help:      "Bookings created, by property.",
		}, []string{"property_id"}),
		bookingWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rentdesk",
			Name:      "booking_warnings_total",
			Help:      "Warnings attached to created bookings.",
		}),
		bookingsCancel: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rentdesk",
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled, by property.",
		}, []string{"property_id"}),
		paymentsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rentdesk",
			Name:      "payments_recorded_total",
			Help:      "Payments recorded, by method.",
		}, []string{"method"}),
		revenue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rentdesk",
			Name:      "payments_amount_total",
			Help:      "Sum of recorded payment amounts, by method.",
		}, []string{"method"}),
		httpRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rentdesk",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		m.bookingsCreated,
		m.bookingWarnings,
		m.bookingsCancel,
		m.paymentsRecorded,
		m.revenue,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) BookingCreated(propertyID string, warnings int) {
	m.bookingsCreated.WithLabelValues(propertyID).Inc()
	m.bookingWarnings.Add(float64(warnings))
}

func (m *Metrics) BookingCancelled(propertyID string) {
	m.bookingsCancel.WithLabelValues(propertyID).Inc()
}

func (m *Metrics) PaymentRecorded(method string, amount decimal.Decimal) {
	m.paymentsRecorded.WithLabelValues(method).Inc()
	m.revenue.WithLabelValues(method).Add(amount.InexactFloat64())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// HTTPMiddleware observes request latency labelled by route template.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Observe(time.Since(start).Seconds())
	}
}

var _ policies.Metrics = (*Metrics)(nil)

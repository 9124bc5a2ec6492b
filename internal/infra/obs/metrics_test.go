package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestMetricsCountBusinessEvents(t *testing.T) {
	m := NewMetrics()
	m.BookingCreated("villa", 2)
	m.BookingCreated("villa", 0)
	m.BookingCancelled("villa")
	m.PaymentRecorded("cash", decimal.RequireFromString("1500.50"))

	if got := testutil.ToFloat64(m.bookingsCreated.WithLabelValues("villa")); got != 2 {
		t.Fatalf("expected 2 bookings created, got %v", got)
	}
	if got := testutil.ToFloat64(m.bookingWarnings); got != 2 {
		t.Fatalf("expected 2 warnings, got %v", got)
	}
	if got := testutil.ToFloat64(m.revenue.WithLabelValues("cash")); got != 1500.5 {
		t.Fatalf("expected revenue 1500.5, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "rentdesk_bookings_cancelled_total") {
		t.Fatalf("exposition missing cancelled counter:\n%s", rec.Body.String())
	}
}

func TestJSONLoggerCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "prod", "debug")
	ctx := WithRequestID(context.Background(), "req-1")
	logger.DebugContext(ctx, "hello", "request_id", RequestIDFromContext(ctx))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "hello" || line["request_id"] != "req-1" {
		t.Fatalf("unexpected log line %v", line)
	}
}

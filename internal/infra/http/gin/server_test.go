package ginserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"

	"rentdesk/internal/app"
	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/handlers/bookings"
	"rentdesk/internal/app/handlers/payments"
	"rentdesk/internal/domain/shared/money"
	"rentdesk/internal/infra/obs"
	"rentdesk/internal/infra/storage/memory"
	"rentdesk/internal/infra/system"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	application := app.New(app.Deps{
		UoWFactory:  memory.NewStore(nil, nil),
		Idempotency: memory.NewIdempotencyStore(func() time.Time { return now }),
		Clock:       system.FixedClock{At: now},
		IDs:         &system.SequentialIDs{Prefix: "id-"},
	})
	nowFn := func() time.Time { return now }
	return NewRouter(nil, obs.Middleware{}, obs.HealthHandlers{}, obs.NewMetrics(), Handlers{
		Property: PropertyHandler{Commands: application.Commands, Queries: application.Queries, Now: nowFn},
		Customer: CustomerHandler{Commands: application.Commands, Queries: application.Queries},
		Booking:  BookingHandler{Commands: application.Commands, Queries: application.Queries},
		Payment:  PaymentHandler{Commands: application.Commands, Queries: application.Queries},
		Report:   ReportHandler{Queries: application.Queries},
	})
}

func do(t *testing.T, r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func createProperty(t *testing.T, r http.Handler) string {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/api/v1/properties",
		`{"name":"Sea View Villa","category":"luxury","pricing_mode":"uniform","uniform_price":"2000","max_guests":4}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create property: %d %s", rec.Code, rec.Body.String())
	}
	var p dto.Property
	decode(t, rec, &p)
	return p.ID
}

func createBooking(t *testing.T, r http.Handler, propertyID string, headers ...string) bookings.CreateBookingResult {
	t.Helper()
	body := `{"property_id":"` + propertyID + `","guest_name":"Asha Rao","guest_phone":"+91 98450 00000",` +
		`"check_in":"2024-06-01","check_out":"2024-06-04","guests":2,"negotiated_rate":"2000"}`
	rec := do(t, r, http.MethodPost, "/api/v1/bookings", body, headers...)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create booking: %d %s", rec.Code, rec.Body.String())
	}
	var res bookings.CreateBookingResult
	decode(t, rec, &res)
	return res
}

func TestBookingLifecycle(t *testing.T) {
	r := newTestRouter(t)
	propertyID := createProperty(t, r)

	created := createBooking(t, r, propertyID)
	b := created.Booking
	if b.Days != 3 || b.Nights != 2 || !b.TotalAmount.Equal(money.Must("6000")) || b.Status != "confirmed" {
		t.Fatalf("unexpected booking %+v", b)
	}

	rec := do(t, r, http.MethodPost, "/api/v1/bookings/"+b.ID+"/payments", `{"amount":"6000","method":"upi","date":"2024-05-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record payment: %d %s", rec.Code, rec.Body.String())
	}
	var paid payments.RecordPaymentResult
	decode(t, rec, &paid)
	if paid.Booking.Status != "completed" || !paid.Booking.Balance.IsZero() {
		t.Fatalf("unexpected booking after payment %+v", paid.Booking)
	}

	rec = do(t, r, http.MethodGet, "/api/v1/bookings/"+b.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get booking: %d %s", rec.Code, rec.Body.String())
	}
	var detail bookings.BookingDetail
	decode(t, rec, &detail)
	if len(detail.Payments) != 1 || detail.Booking.ID != b.ID {
		t.Fatalf("unexpected detail %+v", detail)
	}

	rec = do(t, r, http.MethodGet, "/api/v1/payments", "")
	var all dto.PaymentCollection
	decode(t, rec, &all)
	if len(all.Items) != 1 || !all.Total.Equal(money.Must("6000")) {
		t.Fatalf("unexpected payment list %+v", all)
	}
}

func TestErrorStatuses(t *testing.T) {
	r := newTestRouter(t)
	propertyID := createProperty(t, r)
	b := createBooking(t, r, propertyID).Booking

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown booking", http.MethodGet, "/api/v1/bookings/missing", "", http.StatusNotFound},
		{"unknown property", http.MethodGet, "/api/v1/properties/missing", "", http.StatusNotFound},
		{"malformed date", http.MethodGet, "/api/v1/availability?date=2024-13-01", "", http.StatusBadRequest},
		{"reversed range", http.MethodPost, "/api/v1/bookings",
			`{"property_id":"` + propertyID + `","guest_name":"A","guest_phone":"1","check_in":"2024-06-04","check_out":"2024-06-01","guests":1,"negotiated_rate":"100"}`,
			http.StatusBadRequest},
		{"overpayment", http.MethodPost, "/api/v1/bookings/" + b.ID + "/payments", `{"amount":"7000"}`, http.StatusUnprocessableEntity},
		{"malformed json", http.MethodPost, "/api/v1/customers", `{"name":`, http.StatusBadRequest},
		{"reversed report period", http.MethodGet, "/api/v1/reports/summary?from=2024-06-30&to=2024-06-01", "", http.StatusBadRequest},
		{"unknown export format", http.MethodGet, "/api/v1/reports/export?from=2024-06-01&to=2024-06-30&format=pdf", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, r, tc.method, tc.path, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
			var body map[string]string
			decode(t, rec, &body)
			if body["error"] == "" {
				t.Fatalf("expected error message, got %s", rec.Body.String())
			}
		})
	}
}

func TestCancelCompletedBookingConflicts(t *testing.T) {
	r := newTestRouter(t)
	b := createBooking(t, r, createProperty(t, r)).Booking
	if rec := do(t, r, http.MethodPost, "/api/v1/bookings/"+b.ID+"/payments", `{"amount":"6000"}`); rec.Code != http.StatusCreated {
		t.Fatalf("record payment: %d %s", rec.Code, rec.Body.String())
	}

	rec := do(t, r, http.MethodDelete, "/api/v1/bookings/"+b.ID, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestIdempotencyKeyReplaysBooking(t *testing.T) {
	r := newTestRouter(t)
	propertyID := createProperty(t, r)

	first := createBooking(t, r, propertyID, "Idempotency-Key", "abc")
	second := createBooking(t, r, propertyID, "Idempotency-Key", "abc")
	if first.Booking.ID != second.Booking.ID {
		t.Fatalf("expected replayed booking %s, got %s", first.Booking.ID, second.Booking.ID)
	}
	rec := do(t, r, http.MethodGet, "/api/v1/bookings", "")
	var list dto.BookingCollection
	decode(t, rec, &list)
	if len(list.Items) != 1 {
		t.Fatalf("expected one booking, got %d", len(list.Items))
	}
}

func TestExportContentTypes(t *testing.T) {
	r := newTestRouter(t)
	createBooking(t, r, createProperty(t, r))

	rec := do(t, r, http.MethodGet, "/api/v1/reports/export?from=2024-06-01&to=2024-06-30&format=csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("csv export: %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "report_2024-06-01_2024-06-30.csv") {
		t.Fatalf("unexpected disposition %q", cd)
	}

	rec = do(t, r, http.MethodGet, "/api/v1/reports/export?from=2024-06-01&to=2024-06-30", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Type"), "spreadsheetml") {
		t.Fatalf("xlsx export: %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatalf("xlsx body must be a zip archive")
	}
}

func TestStatusForFallsBackToInternal(t *testing.T) {
	if got := statusFor(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got)
	}
	if got := statusFor(badRequest("bad %s", "thing")); got != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)
	if rec := do(t, r, http.MethodGet, "/livez", ""); rec.Code != http.StatusOK {
		t.Fatalf("livez: %d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz: %d", rec.Code)
	}
	rec := do(t, r, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatalf("metrics: %d", rec.Code)
	}
}

package ginserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"rentdesk/internal/app/handlers/properties"
	domainbooking "rentdesk/internal/domain/booking"
	domaincustomer "rentdesk/internal/domain/customer"
	domainpayment "rentdesk/internal/domain/payment"
	domainpricing "rentdesk/internal/domain/pricing"
	domainproperty "rentdesk/internal/domain/property"
	"rentdesk/internal/domain/reporting"
	"rentdesk/internal/domain/shared/daterange"
	"rentdesk/internal/domain/shared/money"
	"rentdesk/internal/infra/export"
	"rentdesk/internal/infra/storage/kv"
	"rentdesk/internal/infra/storage/memory"
)

// errBadRequest marks request decoding failures.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// statusFor maps application errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainproperty.ErrPropertyNotFound),
		errors.Is(err, domaincustomer.ErrCustomerNotFound),
		errors.Is(err, domainbooking.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, daterange.ErrInvalidDate),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrNegativeAmount),
		errors.Is(err, reporting.ErrInvalidPeriod),
		errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, domainbooking.ErrBookingConflict),
		errors.Is(err, domainbooking.ErrAlreadyTerminal),
		errors.Is(err, domainbooking.ErrInvalidTransition),
		errors.Is(err, memory.ErrStaleBooking),
		errors.Is(err, memory.ErrDuplicatePayment):
		return http.StatusConflict
	case errors.Is(err, domainbooking.ErrCheckInInPast),
		errors.Is(err, domainbooking.ErrMissingCustomerInfo),
		errors.Is(err, domainbooking.ErrInvalidGuests),
		errors.Is(err, domainbooking.ErrInvalidRate),
		errors.Is(err, domainbooking.ErrInvalidStatus),
		errors.Is(err, domainbooking.ErrNonPositiveAmount),
		errors.Is(err, domainbooking.ErrAmountExceedsBalance),
		errors.Is(err, domainpayment.ErrInvalidMethod),
		errors.Is(err, domainproperty.ErrNameRequired),
		errors.Is(err, domainproperty.ErrGuestsLimit),
		errors.Is(err, domainproperty.ErrInvalidPricing),
		errors.Is(err, domainproperty.ErrInvalidCategory),
		errors.Is(err, domaincustomer.ErrNameRequired),
		errors.Is(err, domaincustomer.ErrPhoneRequired),
		errors.Is(err, domainpricing.ErrUnknownMode),
		errors.Is(err, properties.ErrCalendarTooLong):
		return http.StatusUnprocessableEntity
	case kv.IsPersistence(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		if logger != nil {
			logger.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "status", status, "error", err)
		}
		if status == http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": "internal error"})
			return
		}
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := daterange.ParseDate(raw)
	if err != nil {
		return time.Time{}, badRequest("%s: %v", name, err)
	}
	return d, nil
}

func requiredDate(c *gin.Context, name string) (time.Time, error) {
	d, err := queryDate(c, name)
	if err == nil && d.IsZero() {
		err = badRequest("%s is required", name)
	}
	return d, err
}

func bodyDate(name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := daterange.ParseDate(raw)
	if err != nil {
		return time.Time{}, badRequest("%s: %v", name, err)
	}
	return d, nil
}

func bindJSON(c *gin.Context, out any) error {
	if err := c.ShouldBindJSON(out); err != nil {
		return badRequest("invalid body: %v", err)
	}
	return nil
}

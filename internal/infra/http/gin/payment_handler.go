package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/handlers/payments"
	"rentdesk/internal/app/queries"
)

type PaymentHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type recordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Date   string          `json:"date"`
	Notes  string          `json:"notes"`
}

func (h PaymentHandler) Record(c *gin.Context) {
	var req recordPaymentRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	date, err := bodyDate("date", req.Date)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	cmd := payments.RecordPaymentCommand{
		BookingID:       c.Param("id"),
		Amount:          req.Amount,
		Method:          req.Method,
		Date:            date,
		Notes:           req.Notes,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[payments.RecordPaymentCommand, *payments.RecordPaymentResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h PaymentHandler) ListForBooking(c *gin.Context) {
	h.list(c, c.Param("id"))
}

func (h PaymentHandler) List(c *gin.Context) {
	h.list(c, c.Query("booking_id"))
}

func (h PaymentHandler) list(c *gin.Context, bookingID string) {
	query := payments.ListPaymentsQuery{BookingID: bookingID}
	result, err := queries.Ask[payments.ListPaymentsQuery, dto.PaymentCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ PaymentHTTP = PaymentHandler{}

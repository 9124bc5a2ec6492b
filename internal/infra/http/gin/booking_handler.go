package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/handlers/bookings"
	"rentdesk/internal/app/queries"
	domainbooking "rentdesk/internal/domain/booking"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	PropertyID     string           `json:"property_id"`
	CustomerID     string           `json:"customer_id"`
	GuestName      string           `json:"guest_name"`
	GuestPhone     string           `json:"guest_phone"`
	GuestEmail     string           `json:"guest_email"`
	CheckIn        string           `json:"check_in"`
	CheckOut       string           `json:"check_out"`
	Guests         int              `json:"guests"`
	NegotiatedRate *decimal.Decimal `json:"negotiated_rate"`
	Notes          string           `json:"notes"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	checkIn, err := bodyDate("check_in", req.CheckIn)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	checkOut, err := bodyDate("check_out", req.CheckOut)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	cmd := bookings.CreateBookingCommand{
		PropertyID:      req.PropertyID,
		CustomerID:      req.CustomerID,
		GuestName:       req.GuestName,
		GuestPhone:      req.GuestPhone,
		GuestEmail:      req.GuestEmail,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		NegotiatedRate:  req.NegotiatedRate,
		Notes:           req.Notes,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookings.CreateBookingCommand, *bookings.CreateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) List(c *gin.Context) {
	from, err := queryDate(c, "from")
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	to, err := queryDate(c, "to")
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	query := bookings.ListBookingsQuery{
		PropertyID: c.Query("property_id"),
		CustomerID: c.Query("customer_id"),
		Status:     c.Query("status"),
		From:       from,
		To:         to,
	}
	result, err := queries.Ask[bookings.ListBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	query := bookings.GetBookingQuery{BookingID: c.Param("id")}
	result, err := queries.Ask[bookings.GetBookingQuery, bookings.BookingDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type patchBookingRequest struct {
	CheckIn        *string          `json:"check_in"`
	CheckOut       *string          `json:"check_out"`
	Guests         *int             `json:"guests"`
	NegotiatedRate *decimal.Decimal `json:"negotiated_rate"`
	Status         *string          `json:"status"`
	GuestName      *string          `json:"guest_name"`
	GuestPhone     *string          `json:"guest_phone"`
	Notes          *string          `json:"notes"`
}

func (r patchBookingRequest) toPatch() (domainbooking.Patch, error) {
	patch := domainbooking.Patch{
		Guests:         r.Guests,
		NegotiatedRate: r.NegotiatedRate,
		GuestName:      r.GuestName,
		GuestPhone:     r.GuestPhone,
		Notes:          r.Notes,
	}
	if r.CheckIn != nil {
		d, err := bodyDate("check_in", *r.CheckIn)
		if err != nil || d.IsZero() {
			return patch, badRequest("check_in must be YYYY-MM-DD")
		}
		patch.CheckIn = &d
	}
	if r.CheckOut != nil {
		d, err := bodyDate("check_out", *r.CheckOut)
		if err != nil || d.IsZero() {
			return patch, badRequest("check_out must be YYYY-MM-DD")
		}
		patch.CheckOut = &d
	}
	if r.Status != nil {
		status := domainbooking.Status(strings.ToLower(strings.TrimSpace(*r.Status)))
		patch.Status = &status
	}
	return patch, nil
}

func (h BookingHandler) Update(c *gin.Context) {
	var req patchBookingRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	cmd := bookings.EditBookingCommand{BookingID: c.Param("id"), Patch: patch}
	result, err := commands.Dispatch[bookings.EditBookingCommand, *bookings.EditBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	cmd := bookings.CancelBookingCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookings.CancelBookingCommand, *bookings.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BookingHTTP = BookingHandler{}

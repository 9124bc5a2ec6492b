package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/handlers/properties"
	"rentdesk/internal/app/queries"
)

type PropertyHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
	Now      func() time.Time
}

type createPropertyRequest struct {
	Name         string           `json:"name"`
	Location     string           `json:"location"`
	Category     string           `json:"category"`
	PricingMode  string           `json:"pricing_mode"`
	UniformPrice *decimal.Decimal `json:"uniform_price"`
	WeekdayPrice *decimal.Decimal `json:"weekday_price"`
	WeekendPrice *decimal.Decimal `json:"weekend_price"`
	MaxGuests    int              `json:"max_guests"`
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func (h PropertyHandler) Create(c *gin.Context) {
	var req createPropertyRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	cmd := properties.CreatePropertyCommand{
		Name:         req.Name,
		Location:     req.Location,
		Category:     req.Category,
		PricingMode:  req.PricingMode,
		UniformPrice: orZero(req.UniformPrice),
		WeekdayPrice: orZero(req.WeekdayPrice),
		WeekendPrice: orZero(req.WeekendPrice),
		MaxGuests:    req.MaxGuests,
	}
	result, err := commands.Dispatch[properties.CreatePropertyCommand, *dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h PropertyHandler) List(c *gin.Context) {
	query := properties.ListPropertiesQuery{Category: c.Query("category")}
	result, err := queries.Ask[properties.ListPropertiesQuery, dto.PropertyCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Get(c *gin.Context) {
	query := properties.GetPropertyQuery{PropertyID: c.Param("id")}
	result, err := queries.Ask[properties.GetPropertyQuery, dto.Property](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Calendar(c *gin.Context) {
	from, err := requiredDate(c, "from")
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	to, err := requiredDate(c, "to")
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	query := properties.CalendarQuery{PropertyID: c.Param("id"), From: from, To: to}
	result, err := queries.Ask[properties.CalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Quote(c *gin.Context) {
	checkIn, err := requiredDate(c, "check_in")
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	checkOut, err := requiredDate(c, "check_out")
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	query := properties.QuoteStayQuery{PropertyID: c.Param("id"), CheckIn: checkIn, CheckOut: checkOut, Mode: c.Query("mode")}
	result, err := queries.Ask[properties.QuoteStayQuery, dto.Quote](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Availability lists every property's badge for ?date=, today by default.
func (h PropertyHandler) Availability(c *gin.Context) {
	date, err := queryDate(c, "date")
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if date.IsZero() {
		date = h.now()
	}
	result, err := queries.Ask[properties.InventoryQuery, dto.Inventory](c.Request.Context(), h.Queries, properties.InventoryQuery{Date: date})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ PropertyHTTP = PropertyHandler{}

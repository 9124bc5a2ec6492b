package properties

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/queries"
	"rentdesk/internal/app/uow"
	"rentdesk/internal/domain/availability"
	domainpricing "rentdesk/internal/domain/pricing"
	domainproperty "rentdesk/internal/domain/property"
	"rentdesk/internal/domain/shared/daterange"
)

const (
	listPropertiesKey = "properties.list"
	getPropertyKey    = "properties.get"
	quoteStayKey      = "properties.quote"
	calendarKey       = "properties.calendar"
	inventoryKey      = "properties.inventory"

	// maxCalendarDays bounds a single calendar request.
	maxCalendarDays = 366
)

var ErrCalendarTooLong = errors.New("properties: calendar range exceeds one year")

type ListPropertiesQuery struct {
	Category string
}

func (q ListPropertiesQuery) Key() string { return listPropertiesKey }

type GetPropertyQuery struct {
	PropertyID string
}

func (q GetPropertyQuery) Key() string { return getPropertyKey }

type QuoteStayQuery struct {
	PropertyID string
	CheckIn    time.Time
	CheckOut   time.Time
	Mode       string
}

func (q QuoteStayQuery) Key() string { return quoteStayKey }

type CalendarQuery struct {
	PropertyID string
	From       time.Time
	To         time.Time
}

func (q CalendarQuery) Key() string { return calendarKey }

// InventoryQuery reports every property's badge for one date.
type InventoryQuery struct {
	Date time.Time
}

func (q InventoryQuery) Key() string { return inventoryKey }

type QueryHandlers struct {
	UoWFactory uow.UoWFactory
}

func (h *QueryHandlers) List(ctx context.Context, q ListPropertiesQuery) (dto.PropertyCollection, error) {
	unit, execCtx, release, err := uow.BeginReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return dto.PropertyCollection{}, err
	}
	defer release()

	items, err := unit.Properties().List(execCtx)
	if err != nil {
		return dto.PropertyCollection{}, err
	}
	category := strings.ToLower(strings.TrimSpace(q.Category))
	out := dto.PropertyCollection{Items: make([]dto.Property, 0, len(items))}
	for _, p := range items {
		if category != "" && string(p.Category) != category {
			continue
		}
		out.Items = append(out.Items, dto.MapProperty(p))
	}
	return out, nil
}

func (h *QueryHandlers) Get(ctx context.Context, q GetPropertyQuery) (dto.Property, error) {
	unit, execCtx, release, err := uow.BeginReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return dto.Property{}, err
	}
	defer release()

	p, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return dto.Property{}, err
	}
	return dto.MapProperty(p), nil
}

func (h *QueryHandlers) Quote(ctx context.Context, q QuoteStayQuery) (dto.Quote, error) {
	dr, err := daterange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.Quote{}, err
	}
	unit, execCtx, release, err := uow.BeginReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return dto.Quote{}, err
	}
	defer release()

	p, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return dto.Quote{}, err
	}
	mode := domainpricing.QuoteMode(strings.ToLower(strings.TrimSpace(q.Mode)))
	quote, err := domainpricing.QuoteStay(p, dr, mode)
	if err != nil {
		return dto.Quote{}, err
	}
	return dto.MapQuote(p.ID, daterange.Format(dr.CheckIn), daterange.Format(dr.CheckOut), quote), nil
}

func (h *QueryHandlers) Calendar(ctx context.Context, q CalendarQuery) (dto.Calendar, error) {
	dr, err := daterange.New(q.From, q.To)
	if err != nil {
		return dto.Calendar{}, err
	}
	if dr.Days() > maxCalendarDays {
		return dto.Calendar{}, ErrCalendarTooLong
	}
	unit, execCtx, release, err := uow.BeginReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return dto.Calendar{}, err
	}
	defer release()

	p, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return dto.Calendar{}, err
	}
	bookings, err := unit.Bookings().ListByProperty(execCtx, p.ID)
	if err != nil {
		return dto.Calendar{}, err
	}
	idx := availability.NewIndex(bookings)
	return dto.MapCalendar(string(p.ID), dr, idx.Calendar(p.ID, dr)), nil
}

func (h *QueryHandlers) Inventory(ctx context.Context, q InventoryQuery) (dto.Inventory, error) {
	unit, execCtx, release, err := uow.BeginReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return dto.Inventory{}, err
	}
	defer release()

	props, err := unit.Properties().List(execCtx)
	if err != nil {
		return dto.Inventory{}, err
	}
	bookings, err := unit.Bookings().List(execCtx)
	if err != nil {
		return dto.Inventory{}, err
	}
	idx := availability.NewIndex(bookings)
	day := daterange.Date(q.Date)
	out := dto.Inventory{Date: daterange.Format(day), Items: make([]dto.InventoryItem, 0, len(props))}
	for _, p := range props {
		out.Items = append(out.Items, dto.InventoryItem{
			PropertyID: string(p.ID),
			Name:       p.Name,
			Category:   string(p.Category),
			Badge:      string(idx.Badge(p.ID, day)),
		})
	}
	sort.SliceStable(out.Items, func(i, j int) bool { return out.Items[i].Name < out.Items[j].Name })
	return out, nil
}

// Register wires the property queries into r.
func (h *QueryHandlers) Register(r *queries.Registry) {
	queries.Register(r, queries.HandlerFunc[ListPropertiesQuery, dto.PropertyCollection](h.List))
	queries.Register(r, queries.HandlerFunc[GetPropertyQuery, dto.Property](h.Get))
	queries.Register(r, queries.HandlerFunc[QuoteStayQuery, dto.Quote](h.Quote))
	queries.Register(r, queries.HandlerFunc[CalendarQuery, dto.Calendar](h.Calendar))
	queries.Register(r, queries.HandlerFunc[InventoryQuery, dto.Inventory](h.Inventory))
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	domainpricing "rentdesk/internal/domain/pricing"
	domainproperty "rentdesk/internal/domain/property"
)

type Property struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Location     string           `json:"location,omitempty"`
	Category     string           `json:"category"`
	PricingMode  string           `json:"pricing_mode"`
	UniformPrice *decimal.Decimal `json:"uniform_price,omitempty"`
	WeekdayPrice *decimal.Decimal `json:"weekday_price,omitempty"`
	WeekendPrice *decimal.Decimal `json:"weekend_price,omitempty"`
	MaxGuests    int              `json:"max_guests"`
	CreatedAt    time.Time        `json:"created_at"`
}

type PropertyCollection struct {
	Items []Property `json:"items"`
}

func MapProperty(p *domainproperty.Property) Property {
	out := Property{
		ID:          string(p.ID),
		Name:        p.Name,
		Location:    p.Location,
		Category:    string(p.Category),
		PricingMode: string(p.Pricing.Mode),
		MaxGuests:   p.MaxGuests,
		CreatedAt:   p.CreatedAt,
	}
	switch p.Pricing.Mode {
	case domainproperty.PricingUniform:
		out.UniformPrice = decimalPtr(p.Pricing.UniformPrice)
	case domainproperty.PricingWeekdayWeekend:
		out.WeekdayPrice = decimalPtr(p.Pricing.WeekdayPrice)
		out.WeekendPrice = decimalPtr(p.Pricing.WeekendPrice)
	}
	return out
}

type Quote struct {
	PropertyID  string          `json:"property_id"`
	CheckIn     string          `json:"check_in"`
	CheckOut    string          `json:"check_out"`
	Mode        string          `json:"mode"`
	Days        int             `json:"days"`
	Nights      int             `json:"nights"`
	WeekdayDays int             `json:"weekday_days"`
	WeekendDays int             `json:"weekend_days"`
	Rate        decimal.Decimal `json:"rate"`
	Total       decimal.Decimal `json:"total"`
}

func MapQuote(id domainproperty.PropertyID, checkIn, checkOut string, q domainpricing.Quote) Quote {
	return Quote{
		PropertyID:  string(id),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Mode:        string(q.Mode),
		Days:        q.Days,
		Nights:      q.Nights,
		WeekdayDays: q.WeekdayDays,
		WeekendDays: q.WeekendDays,
		Rate:        q.Rate,
		Total:       q.Total,
	}
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/internal/domain/property"
	"rentdesk/internal/domain/shared/daterange"
	"rentdesk/internal/domain/shared/money"
)

var (
	ErrPropertyRequired = errors.New("pricing: property is required")
	ErrUnknownMode      = errors.New("pricing: unknown quote mode")
)

// QuoteMode selects how a stay is priced.
type QuoteMode string

const (
	// ModeOffer prices every day at the base rate offered on the booking form.
	ModeOffer QuoteMode = "offer"
	// ModeBlended prices weekend days at the weekend rate. Opt-in only.
	ModeBlended QuoteMode = "blended"
)

// ResolveBaseRate returns the per-day rate offered for a property. For
// weekday/weekend pricing the weekday price is always offered; the
// reference date does not change the offer.
func ResolveBaseRate(p *property.Property, referenceDate time.Time) (decimal.Decimal, error) {
	if p == nil {
		return decimal.Zero, ErrPropertyRequired
	}
	switch p.Pricing.Mode {
	case property.PricingUniform:
		return p.Pricing.UniformPrice, nil
	case property.PricingWeekdayWeekend:
		return p.Pricing.WeekdayPrice, nil
	}
	return decimal.Zero, property.ErrInvalidPricing
}

// IsWeekend reports whether a calendar date is charged at the weekend rate.
func IsWeekend(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

type Quote struct {
	Mode        QuoteMode
	Days        int
	Nights      int
	WeekdayDays int
	WeekendDays int
	Rate        decimal.Decimal // effective per-day rate
	Total       decimal.Decimal
}

// QuoteStay prices a stay. The total of an offer quote always equals
// Days * Rate; a blended quote sums per-day rates and reports their
// average as Rate.
func QuoteStay(p *property.Property, dr daterange.DateRange, mode QuoteMode) (Quote, error) {
	if err := dr.Validate(); err != nil {
		return Quote{}, err
	}
	if mode == "" {
		mode = ModeOffer
	}
	days, nights := daterange.DaysAndNights(dr.CheckIn, dr.CheckOut)
	q := Quote{Mode: mode, Days: days, Nights: nights}
	dr.EachDay(func(d time.Time) bool {
		if IsWeekend(d) {
			q.WeekendDays++
		} else {
			q.WeekdayDays++
		}
		return true
	})

	switch mode {
	case ModeOffer:
		rate, err := ResolveBaseRate(p, dr.CheckIn)
		if err != nil {
			return Quote{}, err
		}
		q.Rate = rate
		q.Total = money.Times(rate, days)
	case ModeBlended:
		if p == nil {
			return Quote{}, ErrPropertyRequired
		}
		if p.Pricing.Mode == property.PricingUniform {
			q.Rate = p.Pricing.UniformPrice
			q.Total = money.Times(q.Rate, days)
			break
		}
		q.Total = money.Sum(
			money.Times(p.Pricing.WeekdayPrice, q.WeekdayDays),
			money.Times(p.Pricing.WeekendPrice, q.WeekendDays),
		)
		q.Rate = money.Ratio(q.Total, decimal.NewFromInt(int64(days)))
	default:
		return Quote{}, ErrUnknownMode
	}
	return q, nil
}

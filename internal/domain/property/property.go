package property

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/internal/domain/shared/money"
)

var (
	ErrPropertyNotFound = errors.New("property: not found")
	ErrIDRequired       = errors.New("property: id is required")
	ErrNameRequired     = errors.New("property: name is required")
	ErrGuestsLimit      = errors.New("property: max guests must be at least 1")
	ErrInvalidPricing   = errors.New("property: pricing does not match pricing mode")
	ErrInvalidCategory  = errors.New("property: unknown category")
)

type PropertyID string

type PricingMode string

const (
	PricingUniform        PricingMode = "uniform"
	PricingWeekdayWeekend PricingMode = "weekday_weekend"
)

// Category is used for display and filtering only.
type Category string

const (
	CategoryBasic       Category = "basic"
	CategoryPremium     Category = "premium"
	CategoryGrande      Category = "grande"
	CategoryLuxury      Category = "luxury"
	CategoryUltraLuxury Category = "ultra_luxury"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryBasic, CategoryPremium, CategoryGrande, CategoryLuxury, CategoryUltraLuxury:
		return true
	}
	return false
}

// Pricing carries exactly one populated sub-schema for its Mode.
type Pricing struct {
	Mode         PricingMode
	UniformPrice decimal.Decimal
	WeekdayPrice decimal.Decimal
	WeekendPrice decimal.Decimal
}

func (p Pricing) Validate() error {
	switch p.Mode {
	case PricingUniform:
		if !money.Positive(p.UniformPrice) || !p.WeekdayPrice.IsZero() || !p.WeekendPrice.IsZero() {
			return ErrInvalidPricing
		}
	case PricingWeekdayWeekend:
		if !p.UniformPrice.IsZero() || !money.Positive(p.WeekdayPrice) || !money.Positive(p.WeekendPrice) {
			return ErrInvalidPricing
		}
	default:
		return ErrInvalidPricing
	}
	return nil
}

type Property struct {
	ID        PropertyID
	Name      string
	Location  string
	Category  Category
	Pricing   Pricing
	MaxGuests int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id PropertyID) (*Property, error)
	Save(ctx context.Context, p *Property) error
	List(ctx context.Context) ([]*Property, error)
}

type CreateParams struct {
	ID        PropertyID
	Name      string
	Location  string
	Category  Category
	Pricing   Pricing
	MaxGuests int
	Now       time.Time
}

func NewProperty(params CreateParams) (*Property, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	if params.MaxGuests < 1 {
		return nil, ErrGuestsLimit
	}
	category := params.Category
	if category == "" {
		category = CategoryBasic
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	if err := params.Pricing.Validate(); err != nil {
		return nil, err
	}
	return &Property{
		ID:        params.ID,
		Name:      strings.TrimSpace(params.Name),
		Location:  strings.TrimSpace(params.Location),
		Category:  category,
		Pricing:   params.Pricing,
		MaxGuests: params.MaxGuests,
		CreatedAt: params.Now.UTC(),
		UpdatedAt: params.Now.UTC(),
	}, nil
}

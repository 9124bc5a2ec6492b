package properties

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/policies"
	"rentdesk/internal/app/uow"
	domainproperty "rentdesk/internal/domain/property"
)

const createPropertyKey = "properties.create"

type CreatePropertyCommand struct {
	Name         string
	Location     string
	Category     string
	PricingMode  string
	UniformPrice decimal.Decimal
	WeekdayPrice decimal.Decimal
	WeekendPrice decimal.Decimal
	MaxGuests    int
}

func (c CreatePropertyCommand) Key() string { return createPropertyKey }

type CreatePropertyHandler struct {
	Clock  policies.Clock
	IDs    policies.IDGenerator
	Logger *slog.Logger
}

func (h *CreatePropertyHandler) Handle(ctx context.Context, cmd CreatePropertyCommand) (*dto.Property, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	prop, err := domainproperty.NewProperty(domainproperty.CreateParams{
		ID:       domainproperty.PropertyID(h.IDs.NewID()),
		Name:     cmd.Name,
		Location: cmd.Location,
		Category: domainproperty.Category(strings.ToLower(strings.TrimSpace(cmd.Category))),
		Pricing: domainproperty.Pricing{
			Mode:         domainproperty.PricingMode(strings.ToLower(strings.TrimSpace(cmd.PricingMode))),
			UniformPrice: cmd.UniformPrice,
			WeekdayPrice: cmd.WeekdayPrice,
			WeekendPrice: cmd.WeekendPrice,
		},
		MaxGuests: cmd.MaxGuests,
		Now:       h.Clock.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("property created", "property_id", prop.ID, "pricing_mode", prop.Pricing.Mode)
	}
	out := dto.MapProperty(prop)
	return &out, nil
}

var _ commands.Handler[CreatePropertyCommand, *dto.Property] = (*CreatePropertyHandler)(nil)

package customers

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/policies"
	"rentdesk/internal/app/queries"
	"rentdesk/internal/app/uow"
	domaincustomer "rentdesk/internal/domain/customer"
	"rentdesk/internal/domain/reporting"
)

const (
	createCustomerKey = "customers.create"
	listCustomersKey  = "customers.list"
	getCustomerKey    = "customers.get"
)

type CreateCustomerCommand struct {
	Name  string
	Phone string
	Email string
}

func (c CreateCustomerCommand) Key() string { return createCustomerKey }

type CreateCustomerHandler struct {
	Clock  policies.Clock
	IDs    policies.IDGenerator
	Logger *slog.Logger
}

func (h *CreateCustomerHandler) Handle(ctx context.Context, cmd CreateCustomerCommand) (*dto.Customer, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	c, err := domaincustomer.NewCustomer(domaincustomer.CreateParams{
		ID:    domaincustomer.CustomerID(h.IDs.NewID()),
		Name:  cmd.Name,
		Phone: cmd.Phone,
		Email: cmd.Email,
		Now:   h.Clock.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Customers().Save(ctx, c); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("customer created", "customer_id", c.ID)
	}
	out := dto.MapCustomer(c)
	out.Stats = dto.MapCustomerStats(reporting.StatsForCustomer(c.ID, nil, nil))
	return &out, nil
}

// ListCustomersQuery filters by a case-insensitive match on name or phone.
type ListCustomersQuery struct {
	Search string
}

func (q ListCustomersQuery) Key() string { return listCustomersKey }

type GetCustomerQuery struct {
	CustomerID string
}

func (q GetCustomerQuery) Key() string { return getCustomerKey }

// QueryHandlers attach derived stats to every customer they return.
type QueryHandlers struct {
	UoWFactory uow.UoWFactory
}

func (h *QueryHandlers) List(ctx context.Context, q ListCustomersQuery) (dto.CustomerCollection, error) {
	unit, execCtx, release, err := uow.BeginReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return dto.CustomerCollection{}, err
	}
	defer release()

	customers, err := unit.Customers().List(execCtx)
	if err != nil {
		return dto.CustomerCollection{}, err
	}
	bookings, err := unit.Bookings().List(execCtx)
	if err != nil {
		return dto.CustomerCollection{}, err
	}
	payments, err := unit.Payments().List(execCtx)
	if err != nil {
		return dto.CustomerCollection{}, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := dto.CustomerCollection{Items: make([]dto.Customer, 0, len(customers))}
	for _, c := range customers {
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) && !strings.Contains(c.Phone, needle) {
			continue
		}
		item := dto.MapCustomer(c)
		item.Stats = dto.MapCustomerStats(reporting.StatsForCustomer(c.ID, bookings, payments))
		out.Items = append(out.Items, item)
	}
	sort.SliceStable(out.Items, func(i, j int) bool {
		return strings.ToLower(out.Items[i].Name) < strings.ToLower(out.Items[j].Name)
	})
	return out, nil
}

func (h *QueryHandlers) Get(ctx context.Context, q GetCustomerQuery) (dto.Customer, error) {
	unit, execCtx, release, err := uow.BeginReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return dto.Customer{}, err
	}
	defer release()

	c, err := unit.Customers().ByID(execCtx, domaincustomer.CustomerID(q.CustomerID))
	if err != nil {
		return dto.Customer{}, err
	}
	bookings, err := unit.Bookings().ListByCustomer(execCtx, c.ID)
	if err != nil {
		return dto.Customer{}, err
	}
	payments, err := unit.Payments().List(execCtx)
	if err != nil {
		return dto.Customer{}, err
	}
	out := dto.MapCustomer(c)
	out.Stats = dto.MapCustomerStats(reporting.StatsForCustomer(c.ID, bookings, payments))
	return out, nil
}

func (h *QueryHandlers) Register(r *queries.Registry) {
	queries.Register(r, queries.HandlerFunc[ListCustomersQuery, dto.CustomerCollection](h.List))
	queries.Register(r, queries.HandlerFunc[GetCustomerQuery, dto.Customer](h.Get))
}

var _ commands.Handler[CreateCustomerCommand, *dto.Customer] = (*CreateCustomerHandler)(nil)

package app

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/handlers/bookings"
	"rentdesk/internal/app/handlers/customers"
	"rentdesk/internal/app/handlers/payments"
	"rentdesk/internal/app/handlers/properties"
	"rentdesk/internal/app/handlers/reports"
	"rentdesk/internal/app/middleware"
	"rentdesk/internal/app/outbox"
	"rentdesk/internal/app/policies"
	"rentdesk/internal/app/queries"
	"rentdesk/internal/app/uow"
)

// Deps are the ports the application layer needs from infrastructure.
type Deps struct {
	UoWFactory     uow.UoWFactory
	Outbox         outbox.Outbox
	Idempotency    middleware.IdempotencyStore
	Clock          policies.Clock
	IDs            policies.IDGenerator
	Metrics        policies.Metrics
	Logger         *slog.Logger
	RejectOverlaps bool
	IdempotencyTTL time.Duration
}

// Application exposes the command and query buses with their middleware
// already applied.
type Application struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func New(d Deps) Application {
	if d.Clock == nil {
		d.Clock = policies.ClockFunc(time.Now)
	}
	if d.IDs == nil {
		d.IDs = policies.IDGeneratorFunc(uuid.NewString)
	}
	if d.Metrics == nil {
		d.Metrics = policies.NopMetrics{}
	}
	encoder := outbox.JSONEventEncoder{}

	commandRegistry := commands.NewRegistry()
	commands.Register(commandRegistry, &properties.CreatePropertyHandler{Clock: d.Clock, IDs: d.IDs, Logger: d.Logger})
	commands.Register(commandRegistry, &customers.CreateCustomerHandler{Clock: d.Clock, IDs: d.IDs, Logger: d.Logger})
	commands.Register(commandRegistry, &bookings.CreateBookingHandler{
		Clock:          d.Clock,
		IDs:            d.IDs,
		Encoder:        encoder,
		RejectOverlaps: d.RejectOverlaps,
		Logger:         d.Logger,
	})
	commands.Register(commandRegistry, &bookings.EditBookingHandler{
		Clock:          d.Clock,
		Encoder:        encoder,
		RejectOverlaps: d.RejectOverlaps,
		Logger:         d.Logger,
	})
	commands.Register(commandRegistry, &bookings.CancelBookingHandler{Clock: d.Clock, Encoder: encoder, Logger: d.Logger})
	commands.Register(commandRegistry, &payments.RecordPaymentHandler{Clock: d.Clock, IDs: d.IDs, Encoder: encoder, Logger: d.Logger})

	queryRegistry := queries.NewRegistry()
	(&properties.QueryHandlers{UoWFactory: d.UoWFactory}).Register(queryRegistry)
	(&customers.QueryHandlers{UoWFactory: d.UoWFactory}).Register(queryRegistry)
	(&bookings.QueryHandlers{UoWFactory: d.UoWFactory}).Register(queryRegistry)
	(&reports.Handlers{UoWFactory: d.UoWFactory}).Register(queryRegistry)
	queries.Register(queryRegistry, &payments.ListPaymentsHandler{UoWFactory: d.UoWFactory})

	var idempotency middleware.CommandMiddleware
	if d.Idempotency != nil {
		idempotency = middleware.Idempotency(d.Idempotency, middleware.IdempotencyOptions{
			TTL: d.IdempotencyTTL,
			Now: d.Clock.Now,
		})
	}
	if d.Outbox == nil {
		d.Outbox = outbox.Discard{}
	}

	return Application{
		Commands: middleware.ChainCommands(
			commandRegistry,
			middleware.Logging(d.Logger),
			middleware.Validation(),
			idempotency,
			middleware.Metrics(d.Metrics),
			middleware.OutboxFlush(d.Outbox, d.Logger),
			middleware.Transaction(d.UoWFactory, nil),
		),
		Queries: middleware.ChainQueries(
			queryRegistry,
			middleware.QueryLogging(d.Logger),
			middleware.QueryValidation(),
		),
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/internal/app"
	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/handlers/properties"
	"rentdesk/internal/app/middleware"
	"rentdesk/internal/app/queries"
	"rentdesk/internal/infra/broker/kafka"
	"rentdesk/internal/infra/broker/rabbitmq"
	"rentdesk/internal/infra/config"
	mongodb "rentdesk/internal/infra/db/mongo"
	redisdb "rentdesk/internal/infra/db/redis"
	ginserver "rentdesk/internal/infra/http/gin"
	"rentdesk/internal/infra/obs"
	infraoutbox "rentdesk/internal/infra/outbox"
	"rentdesk/internal/infra/storage/kv"
	"rentdesk/internal/infra/storage/memory"
	"rentdesk/internal/infra/system"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("prod", "info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, cfg.LogLevel)

	infra, err := buildInfrastructure(ctx, cfg, logger)
	if err != nil {
		logger.Error("infrastructure setup failed", "error", err)
		os.Exit(1)
	}
	defer infra.close(logger)

	if err := infra.store.Load(ctx); err != nil {
		logger.Error("store load failed", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}

	metrics := obs.NewMetrics()
	application := app.New(app.Deps{
		UoWFactory:     infra.store,
		Outbox:         infra.queue,
		Idempotency:    infra.idempotency,
		Clock:          system.Clock{},
		IDs:            system.UUIDs{},
		Metrics:        metrics,
		Logger:         logger,
		RejectOverlaps: cfg.RejectOverlaps,
		IdempotencyTTL: cfg.IdempotencyTTL,
	})

	if cfg.SeedPropertiesPath != "" {
		if err := seedProperties(ctx, application, cfg.SeedPropertiesPath, logger); err != nil {
			logger.Warn("property seed failed", "error", err, "path", cfg.SeedPropertiesPath)
		}
	}

	var background sync.WaitGroup
	background.Add(2)
	go func() {
		defer background.Done()
		infra.store.RunFlusher(ctx, cfg.StoreFlushInterval)
	}()
	go func() {
		defer background.Done()
		worker := &infraoutbox.Worker{
			Queue:       infra.queue,
			Producer:    infra.producer,
			Logger:      logger,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()

	handlers := ginserver.Handlers{
		Property: ginserver.PropertyHandler{Commands: application.Commands, Queries: application.Queries, Logger: logger},
		Customer: ginserver.CustomerHandler{Commands: application.Commands, Queries: application.Queries, Logger: logger},
		Booking:  ginserver.BookingHandler{Commands: application.Commands, Queries: application.Queries, Logger: logger},
		Payment:  ginserver.PaymentHandler{Commands: application.Commands, Queries: application.Queries, Logger: logger},
		Report:   ginserver.ReportHandler{Queries: application.Queries, Logger: logger},
	}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: infra.ready}, metrics, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreBackend, "broker", cfg.Broker)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		stop()
	}
	background.Wait()
	logger.Info("HTTP server stopped")
}

type infrastructure struct {
	store       *memory.Store
	queue       infraoutbox.Queue
	idempotency middleware.IdempotencyStore
	producer    infraoutbox.Producer
	ready       func(ctx context.Context) error
	closers     []func(ctx context.Context) error
}

func buildInfrastructure(ctx context.Context, cfg config.Config, logger *slog.Logger) (*infrastructure, error) {
	infra := &infrastructure{}
	var backend kv.Store

	switch cfg.StoreBackend {
	case config.StoreMemory:
		backend = kv.NewMemory()
	case config.StoreFile:
		file, err := kv.NewFile(cfg.StoreDir)
		if err != nil {
			return nil, err
		}
		backend = file
	case config.StoreRedis:
		rdb, err := redisdb.New(ctx, redisdb.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		infra.closers = append(infra.closers, func(context.Context) error { return rdb.Close() })
		backend = redisdb.NewKVStore(rdb, cfg.RedisPrefix)
		infra.idempotency = redisdb.NewIdempotencyStore(rdb, cfg.RedisPrefix)
		infra.ready = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	case config.StoreMongo:
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		infra.closers = append(infra.closers, client.Close)
		backend = mongodb.NewKVStore(client.DB)
		if infra.idempotency, err = mongodb.NewIdempotencyStore(ctx, client.DB); err != nil {
			return nil, fmt.Errorf("mongo idempotency: %w", err)
		}
		if infra.queue, err = infraoutbox.NewMongoQueue(ctx, client.DB); err != nil {
			return nil, fmt.Errorf("mongo outbox: %w", err)
		}
		infra.ready = client.Ping
	}

	infra.store = memory.NewStore(backend, logger)
	if infra.idempotency == nil {
		infra.idempotency = memory.NewIdempotencyStore(nil)
	}
	if infra.queue == nil {
		infra.queue = infraoutbox.NewMemoryQueue(nil)
	}
	if infra.ready == nil {
		infra.ready = infra.store.Ping
	}

	switch cfg.Broker {
	case config.BrokerKafka:
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, "rentdesk")
		if err != nil {
			return nil, fmt.Errorf("kafka: %w", err)
		}
		infra.closers = append(infra.closers, func(context.Context) error { return producer.Close() })
		infra.producer = producer
	case config.BrokerRabbitMQ:
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		infra.closers = append(infra.closers, func(context.Context) error { return publisher.Close() })
		infra.producer = publisher
	default:
		infra.producer = infraoutbox.LogProducer{Logger: logger}
	}
	return infra, nil
}

// close releases clients in reverse order of creation.
func (i *infrastructure) close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for n := len(i.closers) - 1; n >= 0; n-- {
		if err := i.closers[n](ctx); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}

type propertyFixture struct {
	Name         string           `json:"name"`
	Location     string           `json:"location"`
	Category     string           `json:"category"`
	PricingMode  string           `json:"pricing_mode"`
	UniformPrice *decimal.Decimal `json:"uniform_price"`
	WeekdayPrice *decimal.Decimal `json:"weekday_price"`
	WeekendPrice *decimal.Decimal `json:"weekend_price"`
	MaxGuests    int              `json:"max_guests"`
}

// seedProperties imports fixtures into an empty store only.
func seedProperties(ctx context.Context, application app.Application, path string, logger *slog.Logger) error {
	existing, err := queries.Ask[properties.ListPropertiesQuery, dto.PropertyCollection](ctx, application.Queries, properties.ListPropertiesQuery{})
	if err != nil {
		return err
	}
	if len(existing.Items) > 0 {
		logger.Info("store already has properties, skipping seed", "count", len(existing.Items))
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("property fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []propertyFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	for _, fx := range fixtures {
		cmd := properties.CreatePropertyCommand{
			Name:         fx.Name,
			Location:     fx.Location,
			Category:     fx.Category,
			PricingMode:  fx.PricingMode,
			UniformPrice: valueOrZero(fx.UniformPrice),
			WeekdayPrice: valueOrZero(fx.WeekdayPrice),
			WeekendPrice: valueOrZero(fx.WeekendPrice),
			MaxGuests:    fx.MaxGuests,
		}
		created, err := commands.Dispatch[properties.CreatePropertyCommand, *dto.Property](ctx, application.Commands, cmd)
		if err != nil {
			logger.Error("fixture invalid", "name", fx.Name, "error", err)
			continue
		}
		logger.Info("property fixture imported", "property_id", created.ID)
	}
	return nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"casacueto/internal/app/commands"
	availabilityapp "casacueto/internal/app/handlers/availability"
	bookingapp "casacueto/internal/app/handlers/booking"
	"casacueto/internal/app/middleware"
	appoutbox "casacueto/internal/app/outbox"
	"casacueto/internal/app/queries"
	domainbooking "casacueto/internal/domain/booking"
	"casacueto/internal/infra/broker/kafka"
	rediscache "casacueto/internal/infra/cache/redis"
	"casacueto/internal/infra/config"
	mongodb "casacueto/internal/infra/db/mongo"
	ginserver "casacueto/internal/infra/http/gin"
	"casacueto/internal/infra/inbox"
	"casacueto/internal/infra/obs"
	infraoutbox "casacueto/internal/infra/outbox"
	"casacueto/internal/infra/storage/memory"
)

const consumerName = "booked-dates-cache"

type runner func(ctx context.Context) error

type application struct {
	handlers   ginserver.Handlers
	health     obs.HealthHandlers
	commands   commands.Bus
	background []runner
	closers    []func(context.Context) error
}

type storage struct {
	bookings    domainbooking.Repository
	idempotency middleware.IdempotencyStore
	outbox      appoutbox.Outbox
	relay       appoutbox.Relay
	inbox       kafka.Inbox
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger, metrics *obs.Metrics) (*application, error) {
	app := &application{health: obs.HealthHandlers{Checks: map[string]obs.ReadyCheck{}}}

	store, err := app.openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var cache middleware.ResultCache
	if cfg.RedisEnabled() {
		rc := rediscache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		cache = rc
		app.health.Checks["redis"] = rc.Ping
		app.closers = append(app.closers, func(context.Context) error { return rc.Close() })
	}

	commandBus := commands.NewInMemoryBus()
	if err := commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		Bookings: store.bookings,
		Outbox:   store.outbox,
		Encoder:  appoutbox.JSONEventEncoder{},
		Observer: metrics,
	}); err != nil {
		return nil, err
	}
	queryBus := queries.NewInMemoryBus()
	if err := queries.RegisterHandler(queryBus, availabilityapp.ListBookedDatesQuery{}.Key(), &availabilityapp.ListBookedDatesHandler{
		Bookings: store.bookings,
	}); err != nil {
		return nil, err
	}

	validator := middleware.NewStructValidator()
	app.commands = middleware.ChainCommands(commandBus,
		middleware.CommandLogging(logger),
		middleware.Validation(validator),
		middleware.Idempotency(store.idempotency, nil, cfg.IdempotencyTTL),
		middleware.InvalidateOnCommand(cache, logger),
		middleware.OutboxFlush(store.outbox),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus,
		middleware.QueryLogging(logger),
		middleware.QueryValidation(validator),
		middleware.QueryCache(cache, nil, metrics, logger),
	)

	app.handlers = ginserver.Handlers{
		Booking:      ginserver.BookingHandler{Commands: app.commands},
		Availability: ginserver.AvailabilityHandler{Queries: queryBusWithMiddleware},
		Metrics:      metrics.Handler(),
	}

	if err := app.wireRelay(cfg, store, cache, logger); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *application) openStorage(ctx context.Context, cfg config.Config) (storage, error) {
	if cfg.StorageMode != config.StorageMongo {
		box := memory.NewOutbox()
		return storage{
			bookings:    memory.NewBookingRepository(),
			idempotency: memory.NewIdempotencyStore(),
			outbox:      box,
			relay:       box,
			inbox:       memory.NewInbox(),
		}, nil
	}

	client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return storage{}, fmt.Errorf("mongo connect: %w", err)
	}
	a.health.Checks["mongo"] = client.Ping
	a.closers = append(a.closers, client.Close)

	bookings := mongodb.NewBookingRepository(client.DB)
	if err := bookings.EnsureIndexes(ctx); err != nil {
		return storage{}, fmt.Errorf("bookings indexes: %w", err)
	}
	idem, err := mongodb.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
	if err != nil {
		return storage{}, fmt.Errorf("idempotency store: %w", err)
	}
	box, err := infraoutbox.NewStore(ctx, client.DB)
	if err != nil {
		return storage{}, fmt.Errorf("outbox store: %w", err)
	}
	in, err := inbox.NewStore(ctx, client.DB, consumerName)
	if err != nil {
		return storage{}, fmt.Errorf("inbox store: %w", err)
	}
	return storage{bookings: bookings, idempotency: idem, outbox: box, relay: box, inbox: in}, nil
}

// wireRelay publishes outbox records to Kafka when brokers are configured and
// to the log otherwise, so the outbox never grows without bound.
func (a *application) wireRelay(cfg config.Config, store storage, cache middleware.ResultCache, logger *slog.Logger) error {
	worker := &infraoutbox.Worker{
		Relay:       store.relay,
		Producer:    logProducer{logger: logger},
		Logger:      logger,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
	}
	if cfg.KafkaEnabled() {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		worker.Producer = producer
		a.closers = append(a.closers, func(context.Context) error { return producer.Close() })

		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, &kafka.BookingEventsHandler{
			Inbox:  store.inbox,
			Cache:  cache,
			Logger: logger,
		}, logger)
		if err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		topic := infraoutbox.TopicFor(cfg.KafkaTopicPrefix, domainbooking.EventBookingCreated)
		a.background = append(a.background, func(ctx context.Context) error {
			return consumer.Run(ctx, []string{topic})
		})
		a.closers = append(a.closers, func(context.Context) error { return consumer.Close() })
	}
	a.background = append(a.background, worker.Run)
	return nil
}

func (a *application) close(logger *slog.Logger) {
	ctx := context.Background()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}

// logProducer stands in for the broker when Kafka is not configured.
type logProducer struct {
	logger *slog.Logger
}

func (p logProducer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	p.logger.Debug("event published", "topic", topic, "key", key, "bytes", len(payload))
	return nil
}

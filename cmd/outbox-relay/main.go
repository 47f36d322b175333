// Command outbox-relay delivers the events of the ordering example from the Postgres outbox to their handlers.
//
// It is configured through DDD_KERNEL_* environment variables, see package config.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/ddd-kernel-go/config"
	"github.com/AntonStoeckl/ddd-kernel-go/dispatch"
	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/infrastructure"
	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
	"github.com/AntonStoeckl/ddd-kernel-go/observability"
	"github.com/AntonStoeckl/ddd-kernel-go/oteladapters"
	"github.com/AntonStoeckl/ddd-kernel-go/outbox"
	"github.com/AntonStoeckl/ddd-kernel-go/outbox/postgresengine"
)

const instrumentationName = "github.com/AntonStoeckl/ddd-kernel-go/cmd/outbox-relay"

func main() {
	if err := run(); err != nil {
		log.Fatalf("outbox relay failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	logger := slog.New(handler).With("service", cfg.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	instr := observability.Instrumentation{
		Logger:           logger,
		ContextualLogger: oteladapters.NewSlogBridgeLoggerWithHandler(handler),
		Metrics:          oteladapters.NewMetricsCollector(otel.Meter(instrumentationName)),
		Tracing:          oteladapters.NewTracingCollector(otel.Tracer(instrumentationName)),
	}

	store, closeDB, err := openOutboxStore(ctx, cfg, instr)
	if err != nil {
		return err
	}
	defer closeDB()

	if err = store.CreateTable(ctx); err != nil {
		return fmt.Errorf("failed to create outbox table: %w", err)
	}

	registry := outbox.NewRegistry()
	if err = infrastructure.RegisterEvents(registry); err != nil {
		return err
	}

	dispatcherOptions := append(
		cfg.Dispatch.DispatcherOptions(),
		dispatch.WithLogger(instr.Logger),
		dispatch.WithContextualLogger(instr.ContextualLogger),
		dispatch.WithMetrics(instr.Metrics),
		dispatch.WithTracing(instr.Tracing),
	)

	dispatcher, err := dispatch.NewDispatcher(dispatcherOptions...)
	if err != nil {
		return err
	}

	logEvent := dispatch.HandlerFunc(func(ctx context.Context, event kernel.DomainEvent) error {
		logger.InfoContext(ctx, "event relayed", "event_type", event.EventType(), "occurred_at", event.OccurredOnUTC())
		return nil
	})

	if err = dispatcher.SubscribeAll(logEvent); err != nil {
		return err
	}

	relay, err := dispatch.NewRelay(store, registry, dispatcher,
		append(cfg.Dispatch.RelayOptions(), dispatch.WithRelayInstrumentation(instr))...,
	)
	if err != nil {
		return err
	}

	logger.Info("outbox relay started",
		"adapter", cfg.Postgres.Adapter,
		"table", store.TableName(),
		"interval", cfg.Dispatch.RelayInterval.String(),
		"batch_size", cfg.Dispatch.RelayBatchSize,
	)

	if err = relay.Run(ctx, cfg.Dispatch.RelayInterval); err != nil {
		return err
	}

	logger.Info("outbox relay stopped")

	return nil
}

func openOutboxStore(ctx context.Context, cfg config.Config, instr observability.Instrumentation) (postgresengine.Store, func(), error) {
	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.Postgres.OutboxTable),
		postgresengine.WithLogger(instr.Logger),
		postgresengine.WithContextualLogger(instr.ContextualLogger),
		postgresengine.WithMetrics(instr.Metrics),
		postgresengine.WithTracing(instr.Tracing),
	}

	switch cfg.Postgres.Adapter {
	case config.AdapterSQL:
		db, err := cfg.Postgres.OpenSQLDB(ctx)
		if err != nil {
			return postgresengine.Store{}, nil, err
		}

		store, err := postgresengine.NewStoreFromSQLDB(db, options...)

		return store, func() { _ = db.Close() }, err

	case config.AdapterSQLX:
		db, err := cfg.Postgres.OpenSQLX(ctx)
		if err != nil {
			return postgresengine.Store{}, nil, err
		}

		store, err := postgresengine.NewStoreFromSQLX(db, options...)

		return store, func() { _ = db.Close() }, err

	default:
		pool, err := cfg.Postgres.OpenPGXPool(ctx)
		if err != nil {
			return postgresengine.Store{}, nil, err
		}

		store, err := postgresengine.NewStoreFromPGXPool(pool, options...)

		return store, pool.Close, err
	}
}

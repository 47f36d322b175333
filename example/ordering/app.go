package ordering

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/ddd-kernel-go/dispatch"
	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/application"
	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/domain"
	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/infrastructure"
	"github.com/AntonStoeckl/ddd-kernel-go/observability"
	"github.com/AntonStoeckl/ddd-kernel-go/outbox"
	outboxpg "github.com/AntonStoeckl/ddd-kernel-go/outbox/postgresengine"
	"github.com/AntonStoeckl/ddd-kernel-go/repository/memory"
	"github.com/AntonStoeckl/ddd-kernel-go/repository/postgresengine"
	"github.com/AntonStoeckl/ddd-kernel-go/uow"
)

// App is a fully wired ordering application.
type App struct {
	Orders     *application.OrderService
	Repository application.OrderRepository
	Dispatcher *dispatch.Dispatcher
	Registry   *outbox.Registry

	// Outbox is only set by NewInMemoryApp with WithOutboxDelivery.
	Outbox *infrastructure.MemoryOutbox
	// Relay is set whenever events are delivered through an outbox.
	Relay *dispatch.Relay
}

type appConfig struct {
	viaOutbox   bool
	ordersTable string
	outboxTable string
	clock       func() time.Time
	users       uow.UserProvider
	instr       observability.Instrumentation
}

// AppOption defines a functional option for configuring an App.
type AppOption func(*appConfig)

// WithOutboxDelivery makes NewInMemoryApp append events to an in-memory outbox instead of publishing them on save.
// They reach the handlers when App.Relay drains the outbox.
func WithOutboxDelivery() AppOption {
	return func(c *appConfig) { c.viaOutbox = true }
}

// WithTableNames overrides the tables NewPostgresApp stores orders and outbox records in.
func WithTableNames(ordersTable, outboxTable string) AppOption {
	return func(c *appConfig) {
		c.ordersTable = ordersTable
		c.outboxTable = outboxTable
	}
}

// WithAppClock sets the clock for audit stamps and event timestamps.
func WithAppClock(now func() time.Time) AppOption {
	return func(c *appConfig) { c.clock = now }
}

// WithCurrentUser sets who is recorded in the audit columns.
func WithCurrentUser(users uow.UserProvider) AppOption {
	return func(c *appConfig) { c.users = users }
}

// WithAppInstrumentation instruments the dispatcher, the units of work and the relay.
func WithAppInstrumentation(instr observability.Instrumentation) AppOption {
	return func(c *appConfig) { c.instr = instr }
}

// outboxStore is an outbox the units of work append to and the relay drains.
type outboxStore interface {
	uow.OutboxAppender
	dispatch.OutboxReader
}

// storage is where an App keeps orders and, optionally, its outbox.
type storage struct {
	orders     application.OrderRepository
	outbox     outboxStore
	transactor uow.Transactor
}

// NewInMemoryApp wires the application on maps. notifier receives OrderShipped events.
func NewInMemoryApp(notifier application.ShipmentNotifier, options ...AppOption) (*App, error) {
	cfg := newAppConfig(options)
	store := storage{orders: memory.New[*domain.Order, domain.OrderID]()}

	var memoryOutbox *infrastructure.MemoryOutbox
	if cfg.viaOutbox {
		memoryOutbox = infrastructure.NewMemoryOutbox()
		store.outbox = memoryOutbox
	}

	app, err := newApp(cfg, store, notifier)
	if err != nil {
		return nil, err
	}

	app.Outbox = memoryOutbox

	return app, nil
}

// NewPostgresApp wires the application on PostgreSQL and creates the orders and outbox tables if needed.
// Each save writes the order documents and appends the outbox records in one transaction.
// Events reach notifier when App.Relay drains the outbox.
func NewPostgresApp(
	ctx context.Context,
	pool *pgxpool.Pool,
	notifier application.ShipmentNotifier,
	options ...AppOption,
) (*App, error) {

	cfg := newAppConfig(options)

	orders, err := postgresengine.NewDocumentRepositoryFromPGXPool[*domain.Order, domain.OrderID](
		pool,
		cfg.ordersTable,
		infrastructure.NewOrderCodec(),
		postgresengine.WithLogger(cfg.instr.Logger),
		postgresengine.WithContextualLogger(cfg.instr.ContextualLogger),
		postgresengine.WithMetrics(cfg.instr.Metrics),
		postgresengine.WithTracing(cfg.instr.Tracing),
	)
	if err != nil {
		return nil, err
	}

	orderOutbox, err := outboxpg.NewStoreFromPGXPool(
		pool,
		outboxpg.WithTableName(cfg.outboxTable),
		outboxpg.WithLogger(cfg.instr.Logger),
		outboxpg.WithContextualLogger(cfg.instr.ContextualLogger),
		outboxpg.WithMetrics(cfg.instr.Metrics),
		outboxpg.WithTracing(cfg.instr.Tracing),
	)
	if err != nil {
		return nil, err
	}

	if err = orders.CreateTable(ctx); err != nil {
		return nil, err
	}

	if err = orderOutbox.CreateTable(ctx); err != nil {
		return nil, err
	}

	return newApp(cfg, storage{orders: orders, outbox: orderOutbox, transactor: orderOutbox}, notifier)
}

func newAppConfig(options []AppOption) appConfig {
	cfg := appConfig{
		ordersTable: infrastructure.OrdersTableName,
		outboxTable: infrastructure.OutboxTableName,
		clock:       time.Now,
	}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

func newApp(cfg appConfig, store storage, notifier application.ShipmentNotifier) (*App, error) {
	registry := outbox.NewRegistry()
	if err := infrastructure.RegisterEvents(registry); err != nil {
		return nil, err
	}

	dispatcher, err := dispatch.NewDispatcher(
		dispatch.WithLogger(cfg.instr.Logger),
		dispatch.WithContextualLogger(cfg.instr.ContextualLogger),
		dispatch.WithMetrics(cfg.instr.Metrics),
		dispatch.WithTracing(cfg.instr.Tracing),
	)
	if err != nil {
		return nil, err
	}

	if err = dispatcher.Subscribe(
		domain.OrderShippedEventType,
		application.NewShipmentNotificationHandler(notifier),
	); err != nil {
		return nil, err
	}

	app := &App{
		Repository: store.orders,
		Dispatcher: dispatcher,
		Registry:   registry,
	}

	uowOptions := []uow.Option{
		uow.WithAuditStamper(uow.NewAuditStamper(cfg.clock, cfg.users)),
		uow.WithInstrumentation(cfg.instr),
	}

	if store.outbox != nil {
		uowOptions = append(uowOptions, uow.WithOutbox(store.outbox))

		app.Relay, err = dispatch.NewRelay(store.outbox, registry, dispatcher,
			dispatch.WithClock(cfg.clock),
			dispatch.WithRelayInstrumentation(cfg.instr),
		)
		if err != nil {
			return nil, err
		}
	} else {
		uowOptions = append(uowOptions, uow.WithPublisher(dispatcher))
	}

	if store.transactor != nil {
		uowOptions = append(uowOptions, uow.WithTransactor(store.transactor))
	}

	newUnitOfWork := func() (*uow.UnitOfWork, error) {
		return uow.New(uowOptions...)
	}

	app.Orders, err = application.NewOrderService(store.orders, newUnitOfWork, application.WithClock(cfg.clock))
	if err != nil {
		return nil, err
	}

	return app, nil
}

// DeliverPending drains the outbox until it is empty. Without outbox delivery it does nothing.
func (a *App) DeliverPending(ctx context.Context) (int, error) {
	if a.Relay == nil {
		return 0, nil
	}

	total := 0

	for {
		relayed, err := a.Relay.DrainOnce(ctx)
		total += relayed

		if err != nil || relayed == 0 {
			return total, err
		}
	}
}

package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/domain"
	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
	"github.com/AntonStoeckl/ddd-kernel-go/repository"
	"github.com/AntonStoeckl/ddd-kernel-go/uow"
)

var ErrNilDependency = errors.New("order service dependency must not be nil")

// OrderRepository is the untracked order storage.
type OrderRepository = repository.Repository[*domain.Order, domain.OrderID]

// UnitOfWorkFactory returns a fresh unit of work for one command.
type UnitOfWorkFactory func() (*uow.UnitOfWork, error)

// OrderService runs the ordering commands.
//
// Commands are serialized, since an Order instance must have a single writer.
// With the memory repository a failed save leaves the stored instance changed.
type OrderService struct {
	mu            sync.Mutex
	orders        OrderRepository
	newUnitOfWork UnitOfWorkFactory
	now           func() time.Time
}

// ServiceOption defines a functional option for configuring an OrderService.
type ServiceOption func(*OrderService) error

// WithClock sets the time source for event timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *OrderService) error {
		if now == nil {
			return ErrNilDependency
		}

		s.now = now

		return nil
	}
}

func NewOrderService(orders OrderRepository, newUnitOfWork UnitOfWorkFactory, options ...ServiceOption) (*OrderService, error) {
	if orders == nil || newUnitOfWork == nil {
		return nil, ErrNilDependency
	}

	s := &OrderService{orders: orders, newUnitOfWork: newUnitOfWork, now: time.Now}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// PlaceOrder validates the address, places the order and saves it.
func (s *OrderService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (kernel.ResultOf[domain.OrderID], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := cmd.OrderID
	if id == (domain.OrderID{}) {
		id = domain.NewOrderID()
	}

	placed := kernel.Bind(
		domain.NewAddress(cmd.Street, cmd.City, cmd.PostalCode, cmd.Country),
		func(address domain.Address) kernel.ResultOf[*domain.Order] {
			return domain.PlaceOrder(id, cmd.CustomerID, address, cmd.Currency, s.now())
		},
	)
	if placed.IsFailure() {
		return kernel.FailureOf[domain.OrderID](placed.Error()), nil
	}

	unitOfWork, err := s.newUnitOfWork()
	if err != nil {
		return kernel.ResultOf[domain.OrderID]{}, err
	}

	tracked := repository.NewTracking(s.orders, unitOfWork)
	if err = tracked.Add(ctx, placed.Value()); err != nil {
		return kernel.ResultOf[domain.OrderID]{}, err
	}

	if _, err = unitOfWork.SaveChanges(ctx); err != nil {
		return kernel.ResultOf[domain.OrderID]{}, err
	}

	return kernel.Map(placed, func(order *domain.Order) domain.OrderID { return order.ID() }), nil
}

// AddLine prices the line in the order currency and adds it.
func (s *OrderService) AddLine(ctx context.Context, cmd AddLineCommand) (kernel.Result, error) {
	return s.modify(ctx, cmd.OrderID, func(order *domain.Order, now time.Time) kernel.Result {
		unitPrice := domain.NewMoney(cmd.UnitPriceCents, order.Currency())
		if unitPrice.IsFailure() {
			return unitPrice.WithoutValue()
		}

		return order.AddLine(cmd.SKU, cmd.Quantity, unitPrice.Value(), now)
	})
}

func (s *OrderService) Ship(ctx context.Context, cmd ShipOrderCommand) (kernel.Result, error) {
	return s.modify(ctx, cmd.OrderID, func(order *domain.Order, now time.Time) kernel.Result {
		return order.Ship(now)
	})
}

func (s *OrderService) Cancel(ctx context.Context, cmd CancelOrderCommand) (kernel.Result, error) {
	return s.modify(ctx, cmd.OrderID, func(order *domain.Order, now time.Time) kernel.Result {
		return order.Cancel(cmd.Reason, now)
	})
}

// modify loads the order, applies change and saves only if change succeeded.
func (s *OrderService) modify(
	ctx context.Context,
	id domain.OrderID,
	change func(order *domain.Order, now time.Time) kernel.Result,
) (kernel.Result, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	unitOfWork, err := s.newUnitOfWork()
	if err != nil {
		return kernel.Result{}, err
	}

	tracked := repository.NewTracking(s.orders, unitOfWork)

	order, err := tracked.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return kernel.Failure(domain.OrderErrors.NotFound(id)), nil
	}

	if err != nil {
		return kernel.Result{}, err
	}

	if result := change(order, s.now()); result.IsFailure() {
		return result, nil
	}

	if err = tracked.Update(ctx, order); err != nil {
		return kernel.Result{}, err
	}

	if _, err = unitOfWork.SaveChanges(ctx); err != nil {
		return kernel.Result{}, err
	}

	return kernel.Success(), nil
}

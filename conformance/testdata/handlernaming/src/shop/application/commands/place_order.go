package commands

import "context"

type PlaceOrder struct {
	OrderID string
}

type PlaceOrderCommandHandler struct{}

func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrder) error {
	return nil
}

type ShipOrderHandler struct{} // want `type ShipOrderHandler has a Handle method and must be named \*CommandHandler`

func (h *ShipOrderHandler) Handle(ctx context.Context, cmd PlaceOrder) error { return nil }

type Cancellation struct{} // want `type Cancellation has a Handle method and must be named \*CommandHandler`

func (c Cancellation) Handle(ctx context.Context, cmd PlaceOrder) (int, error) { return 0, nil }

type validator struct{}

func (v validator) Handle(ctx context.Context, cmd PlaceOrder) error { return nil }

package notifications

import "context"

type OrderPlacedHandler struct{}

func (OrderPlacedHandler) Handle(ctx context.Context, event any) error { return nil }

type HandlerFunc func(ctx context.Context, event any) error

func (f HandlerFunc) Handle(ctx context.Context, event any) error { return f(ctx, event) }

type Mailer struct{} // want `type Mailer has a Handle method and must be named \*Handler`

func (Mailer) Handle(ctx context.Context, event any) error { return nil }

type Printer struct{}

func (Printer) Handle(line string) {}

type Handler interface {
	Handle(ctx context.Context, event any) error
}

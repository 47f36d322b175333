package kernel_test

import (
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

type customerID = int

type customer struct {
	kernel.Entity[customerID]
	name string
}

func newCustomer(id customerID, name string) *customer {
	return &customer{Entity: kernel.NewEntity(id), name: name}
}

type supplier struct {
	kernel.Entity[customerID]
}

func newSupplier(id customerID) *supplier {
	return &supplier{Entity: kernel.NewEntity(id)}
}

type cart struct {
	kernel.AggregateRoot[string]
	kernel.AuditInfo

	raise kernel.Raise
	items []string
}

func openCart(id string, at time.Time) *cart {
	root, raise := kernel.NewAggregateRoot(id)
	c := &cart{AggregateRoot: root, raise: raise}
	c.raise(cartOpened{EventBase: kernel.NewEventBase(at), CartID: id})

	return c
}

func (c *cart) add(item string, at time.Time) {
	c.items = append(c.items, item)
	c.raise(itemAdded{EventBase: kernel.NewEventBase(at), CartID: c.ID(), Item: item})
}

type cartOpened struct {
	kernel.EventBase
	CartID string
}

func (e cartOpened) EventType() string { return "CartOpened" }

type itemAdded struct {
	kernel.EventBase
	CartID string
	Item   string
}

func (e itemAdded) EventType() string { return "ItemAdded" }

type money struct {
	amount   int
	currency string
}

func (m money) Signature() []any { return []any{m.amount, m.currency} }

type price struct {
	net   money
	label *string
}

func (p price) Signature() []any {
	if p.label == nil {
		return []any{p.net, nil}
	}
	return []any{p.net, *p.label}
}

type pair struct {
	left  string
	right string
}

func (p pair) Signature() []any { return []any{p.left, p.right} }

type tags struct {
	values []string
}

func (t tags) Signature() []any {
	signature := make([]any, len(t.values))
	for i, v := range t.values {
		signature[i] = v
	}
	return signature
}

type otherMoney struct {
	amount   int
	currency string
}

func (m otherMoney) Signature() []any { return []any{m.amount, m.currency} }

// reading carries arbitrary components.
type reading struct {
	components []any
}

func (r reading) Signature() []any { return r.components }

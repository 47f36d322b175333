package domain

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

// Status is the lifecycle state of an Order.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

// Order is the aggregate root of the ordering model.
//
// Lines can be added while the order is placed. Shipping needs at least one line,
// cancelling is possible until the order has been shipped.
type Order struct {
	kernel.AggregateRoot[OrderID]
	kernel.AuditInfo

	raise           kernel.Raise
	customerID      string
	shippingAddress Address
	currency        string
	lines           []OrderLine
	status          Status
}

// PlaceOrder creates an order and raises OrderPlaced.
func PlaceOrder(id OrderID, customerID string, shippingAddress Address, currency string, at time.Time) kernel.ResultOf[*Order] {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return kernel.FailureOf[*Order](OrderErrors.CustomerRequired)
	}

	if validCurrency := NewMoney(0, currency); validCurrency.IsFailure() {
		return kernel.FailureOf[*Order](validCurrency.Error())
	}

	root, raise := kernel.NewAggregateRoot(id)
	order := &Order{
		AggregateRoot:   root,
		raise:           raise,
		customerID:      customerID,
		shippingAddress: shippingAddress,
		currency:        currency,
		status:          StatusPlaced,
	}

	order.raise(BuildOrderPlaced(id, customerID, currency, shippingAddress, at))

	return kernel.SuccessOf(order)
}

// RestoreOrder rebuilds an order from persisted state. No events are raised.
func RestoreOrder(
	id OrderID,
	customerID string,
	shippingAddress Address,
	currency string,
	lines []OrderLine,
	status Status,
	audit kernel.AuditInfo,
) *Order {
	root, raise := kernel.NewAggregateRoot(id)

	return &Order{
		AggregateRoot:   root,
		AuditInfo:       audit,
		raise:           raise,
		customerID:      customerID,
		shippingAddress: shippingAddress,
		currency:        currency,
		lines:           append([]OrderLine(nil), lines...),
		status:          status,
	}
}

// AddLine appends a line and raises OrderLineAdded.
func (o *Order) AddLine(sku string, quantity int, unitPrice Money, at time.Time) kernel.Result {
	if o.status != StatusPlaced {
		return kernel.Failure(OrderErrors.NotModifiable(o.status))
	}

	sku = strings.TrimSpace(sku)

	switch {
	case sku == "":
		return kernel.Failure(OrderErrors.SKURequired)
	case quantity <= 0:
		return kernel.Failure(OrderErrors.InvalidQuantity(quantity))
	case unitPrice.Currency() != o.currency:
		return kernel.Failure(OrderErrors.CurrencyMismatch(o.currency, unitPrice.Currency()))
	}

	line := RestoreOrderLine(len(o.lines)+1, sku, quantity, unitPrice)
	o.lines = append(o.lines, line)
	o.raise(BuildOrderLineAdded(o.ID(), line, at))

	return kernel.Success()
}

// Ship marks the order as shipped and raises OrderShipped.
func (o *Order) Ship(at time.Time) kernel.Result {
	switch o.status {
	case StatusShipped:
		return kernel.Failure(OrderErrors.AlreadyShipped)
	case StatusCancelled:
		return kernel.Failure(OrderErrors.NotModifiable(o.status))
	}

	if len(o.lines) == 0 {
		return kernel.Failure(OrderErrors.Empty)
	}

	o.status = StatusShipped
	o.raise(BuildOrderShipped(o.ID(), o.Total(), at))

	return kernel.Success()
}

// Cancel marks a not yet shipped order as cancelled and raises OrderCancelled.
func (o *Order) Cancel(reason string, at time.Time) kernel.Result {
	switch o.status {
	case StatusShipped:
		return kernel.Failure(OrderErrors.AlreadyShipped)
	case StatusCancelled:
		return kernel.Failure(OrderErrors.AlreadyCancelled)
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return kernel.Failure(OrderErrors.CancelReasonNeeded)
	}

	o.status = StatusCancelled
	o.raise(BuildOrderCancelled(o.ID(), reason, at))

	return kernel.Success()
}

// Total sums all lines. An order without lines totals zero in its currency.
func (o *Order) Total() Money {
	total := ZeroMoney(o.currency)

	for _, line := range o.lines {
		// lines share the order currency, AddLine guarantees it
		total = total.Add(line.Total()).Value()
	}

	return total
}

func (o *Order) CustomerID() string       { return o.customerID }
func (o *Order) ShippingAddress() Address { return o.shippingAddress }
func (o *Order) Currency() string         { return o.currency }
func (o *Order) Status() Status           { return o.status }

// Lines returns a copy of the order lines in line-number order.
func (o *Order) Lines() []OrderLine {
	return append([]OrderLine(nil), o.lines...)
}

// AggregateType names the aggregate in outbox rows.
func (o *Order) AggregateType() string {
	return subjectOrder
}

// AggregateID is the order id in canonical form.
func (o *Order) AggregateID() string {
	return o.ID().String()
}

package infrastructure

import (
	"errors"

	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/domain"
	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
	"github.com/AntonStoeckl/ddd-kernel-go/repository/postgresengine"
)

// Default table names of the PostgreSQL wiring.
const (
	OrdersTableName = "orders"
	OutboxTableName = "order_outbox"
)

// ErrCorruptOrderDocument is returned when a stored document no longer satisfies the domain rules.
var ErrCorruptOrderDocument = errors.New("corrupt order document")

// OrderDocument is the jsonb shape of an Order.
type OrderDocument struct {
	CustomerID string              `json:"customer_id"`
	Currency   string              `json:"currency"`
	Status     string              `json:"status"`
	Address    AddressDocument     `json:"shipping_address"`
	Lines      []OrderLineDocument `json:"lines"`
}

type AddressDocument struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type OrderLineDocument struct {
	Number         int    `json:"number"`
	SKU            string `json:"sku"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// OrderCodec is the codec of the order document repository.
type OrderCodec = postgresengine.JSONCodec[*domain.Order, domain.OrderID, OrderDocument]

func NewOrderCodec() OrderCodec {
	return postgresengine.NewJSONCodec(toOrderDocument, fromOrderDocument)
}

func toOrderDocument(order *domain.Order) OrderDocument {
	address := order.ShippingAddress()

	document := OrderDocument{
		CustomerID: order.CustomerID(),
		Currency:   order.Currency(),
		Status:     string(order.Status()),
		Address: AddressDocument{
			Street:     address.Street(),
			City:       address.City(),
			PostalCode: address.PostalCode(),
			Country:    address.Country(),
		},
		Lines: make([]OrderLineDocument, 0),
	}

	for _, line := range order.Lines() {
		document.Lines = append(document.Lines, OrderLineDocument{
			Number:         line.ID(),
			SKU:            line.SKU(),
			Quantity:       line.Quantity(),
			UnitPriceCents: line.UnitPrice().AmountCents(),
		})
	}

	return document
}

func fromOrderDocument(id domain.OrderID, document OrderDocument, audit kernel.AuditInfo) (*domain.Order, error) {
	address := domain.NewAddress(
		document.Address.Street,
		document.Address.City,
		document.Address.PostalCode,
		document.Address.Country,
	)
	if address.IsFailure() {
		return nil, errors.Join(ErrCorruptOrderDocument, address.Error())
	}

	lines := make([]domain.OrderLine, 0, len(document.Lines))

	for _, line := range document.Lines {
		unitPrice := domain.NewMoney(line.UnitPriceCents, document.Currency)
		if unitPrice.IsFailure() {
			return nil, errors.Join(ErrCorruptOrderDocument, unitPrice.Error())
		}

		lines = append(lines, domain.RestoreOrderLine(line.Number, line.SKU, line.Quantity, unitPrice.Value()))
	}

	order := domain.RestoreOrder(
		id,
		document.CustomerID,
		address.Value(),
		document.Currency,
		lines,
		domain.Status(document.Status),
		audit,
	)

	return order, nil
}

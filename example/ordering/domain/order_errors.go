package domain

import (
	"fmt"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

const subjectOrder = "Order"

// OrderErrors is the catalog of expected order failures. Codes are stable, descriptions are not.
var OrderErrors = struct {
	NotFound           func(id OrderID) kernel.Error
	CustomerRequired   kernel.Error
	SKURequired        kernel.Error
	InvalidQuantity    func(quantity int) kernel.Error
	CurrencyMismatch   func(expected, actual string) kernel.Error
	NotModifiable      func(status Status) kernel.Error
	Empty              kernel.Error
	AlreadyShipped     kernel.Error
	AlreadyCancelled   kernel.Error
	CancelReasonNeeded kernel.Error
}{
	NotFound: func(id OrderID) kernel.Error {
		return kernel.NotFound(subjectOrder, id)
	},
	CustomerRequired: kernel.Validation(subjectOrder, "a customer is required"),
	SKURequired:      kernel.NewError("Order.Line.Validation", "a line needs a SKU"),
	InvalidQuantity: func(quantity int) kernel.Error {
		return kernel.NewError("Order.Quantity.Validation", fmt.Sprintf("quantity must be positive, got %d", quantity))
	},
	CurrencyMismatch: func(expected, actual string) kernel.Error {
		return kernel.NewError("Order.Currency.Conflict", fmt.Sprintf("expected %s, got %s", expected, actual))
	},
	NotModifiable: func(status Status) kernel.Error {
		return kernel.Conflict(subjectOrder, fmt.Sprintf("a %s order can not be modified", status))
	},
	Empty:              kernel.NewError("Order.Empty", "an order without lines can not be shipped"),
	AlreadyShipped:     kernel.NewError("Order.Shipped.Conflict", "the order has been shipped already"),
	AlreadyCancelled:   kernel.NewError("Order.Cancelled.Conflict", "the order has been cancelled already"),
	CancelReasonNeeded: kernel.NewError("Order.CancelReason.Validation", "a cancellation needs a reason"),
}

package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/domain"
)

func givenNow() time.Time {
	return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
}

func givenAddress(t *testing.T) domain.Address {
	t.Helper()

	address := domain.NewAddress("Hauptstr. 1", "Berlin", "10115", "DE")
	require.True(t, address.IsSuccess())

	return address.Value()
}

func givenEUR(t *testing.T, cents int64) domain.Money {
	t.Helper()

	money := domain.NewMoney(cents, "EUR")
	require.True(t, money.IsSuccess())

	return money.Value()
}

func givenPlacedOrder(t *testing.T) *domain.Order {
	t.Helper()

	placed := domain.PlaceOrder(domain.NewOrderID(), "customer-1", givenAddress(t), "EUR", givenNow())
	require.True(t, placed.IsSuccess())

	return placed.Value()
}

func givenOrderWithLine(t *testing.T) *domain.Order {
	t.Helper()

	order := givenPlacedOrder(t)
	require.True(t, order.AddLine("SKU-1", 2, givenEUR(t, 1250), givenNow()).IsSuccess())
	order.ClearDomainEvents()

	return order
}

package domain

import (
	"fmt"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

const subjectMoney = "Money"

// Money is an amount in minor units (cents) of one ISO 4217 currency.
type Money struct {
	amountCents int64
	currency    string
}

// NewMoney validates that the amount is not negative and the currency is three upper-case letters.
func NewMoney(amountCents int64, currency string) kernel.ResultOf[Money] {
	if amountCents < 0 {
		return kernel.FailureOf[Money](kernel.Validation(subjectMoney, "amount must not be negative"))
	}

	if !isCurrencyCode(currency) {
		return kernel.FailureOf[Money](kernel.Validation(subjectMoney, fmt.Sprintf("'%s' is not a currency code", currency)))
	}

	return kernel.SuccessOf(Money{amountCents: amountCents, currency: currency})
}

// ZeroMoney returns nothing in the given currency. The currency is not validated.
func ZeroMoney(currency string) Money {
	return Money{currency: currency}
}

func (m Money) AmountCents() int64 {
	return m.amountCents
}

func (m Money) Currency() string {
	return m.currency
}

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) kernel.ResultOf[Money] {
	if m.currency != other.currency {
		return kernel.FailureOf[Money](OrderErrors.CurrencyMismatch(m.currency, other.currency))
	}

	return kernel.SuccessOf(Money{amountCents: m.amountCents + other.amountCents, currency: m.currency})
}

// Times multiplies the amount by a non-negative quantity.
func (m Money) Times(quantity int) Money {
	return Money{amountCents: m.amountCents * int64(quantity), currency: m.currency}
}

func (m Money) Signature() []any {
	return []any{m.amountCents, m.currency}
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.amountCents/100, m.amountCents%100, m.currency)
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}

	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}

	return true
}

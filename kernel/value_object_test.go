package kernel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

func Test_ValuesEqual_Money(t *testing.T) {
	usd10 := money{amount: 10, currency: "USD"}

	assert.True(t, kernel.ValuesEqual(usd10, money{amount: 10, currency: "USD"}))
	assert.False(t, kernel.ValuesEqual(usd10, money{amount: 10, currency: "EUR"}))
	assert.False(t, kernel.ValuesEqual(usd10, money{amount: 20, currency: "USD"}))
}

func Test_ValuesEqual_IsReflexive(t *testing.T) {
	v := money{amount: 3, currency: "CHF"}

	assert.True(t, kernel.ValuesEqual(v, v))
}

func Test_ValuesEqual_DifferentConcreteTypes_NeverEqual(t *testing.T) {
	assert.False(t, kernel.ValuesEqual(
		money{amount: 10, currency: "USD"},
		otherMoney{amount: 10, currency: "USD"},
	))
}

func Test_ValuesEqual_DifferentSignatureLengths(t *testing.T) {
	assert.False(t, kernel.ValuesEqual(tags{values: []string{"a"}}, tags{values: []string{"a", "b"}}))
	assert.True(t, kernel.ValuesEqual(tags{}, tags{values: []string{}}))
}

func Test_ValuesEqual_NilComponents_AreEqual(t *testing.T) {
	label := "gross"

	assert.True(t, kernel.ValuesEqual(
		price{net: money{amount: 1, currency: "USD"}},
		price{net: money{amount: 1, currency: "USD"}},
	))
	assert.False(t, kernel.ValuesEqual(
		price{net: money{amount: 1, currency: "USD"}},
		price{net: money{amount: 1, currency: "USD"}, label: &label},
	))
}

func Test_ValuesEqual_NestedValueObjects(t *testing.T) {
	assert.True(t, kernel.ValuesEqual(
		price{net: money{amount: 1, currency: "USD"}},
		price{net: money{amount: 1, currency: "USD"}},
	))
	assert.False(t, kernel.ValuesEqual(
		price{net: money{amount: 1, currency: "USD"}},
		price{net: money{amount: 2, currency: "USD"}},
	))
}

func Test_ValuesEqual_Nil(t *testing.T) {
	assert.True(t, kernel.ValuesEqual(nil, nil))
	assert.False(t, kernel.ValuesEqual(money{}, nil))
}

func Test_ValueHash_EqualValues_HashEqually(t *testing.T) {
	a := money{amount: 10, currency: "USD"}
	b := money{amount: 10, currency: "USD"}

	assert.Equal(t, kernel.ValueHash(a), kernel.ValueHash(b))
	assert.NotEqual(t, kernel.ValueHash(a), kernel.ValueHash(money{amount: 10, currency: "EUR"}))
}

func Test_ValueHash_IsOrderInsensitive(t *testing.T) {
	// The xor fold collides for permuted signatures although the values are not equal.
	ab := pair{left: "a", right: "b"}
	ba := pair{left: "b", right: "a"}

	assert.False(t, kernel.ValuesEqual(ab, ba))
	assert.Equal(t, kernel.ValueHash(ab), kernel.ValueHash(ba))
}

func Test_ValueHash_NilComponentsCountAsZero(t *testing.T) {
	withoutLabel := price{net: money{amount: 1, currency: "USD"}}

	assert.Equal(t, kernel.ValueHash(money{amount: 1, currency: "USD"}), kernel.ValueHash(withoutLabel))
	assert.Equal(t, uint64(0), kernel.ValueHash(tags{}))
	assert.Equal(t, uint64(0), kernel.ValueHash(nil))
}

func Test_ValueHash_AgreesWithValuesEqual(t *testing.T) {
	x, y := 5, 5
	negativeZero := math.Copysign(0, -1)

	cases := map[string]struct{ a, b reading }{
		"negative zero": {
			a: reading{components: []any{0.0}},
			b: reading{components: []any{negativeZero}},
		},
		"distinct pointers to equal values": {
			a: reading{components: []any{&x}},
			b: reading{components: []any{&y}},
		},
		"structs holding pointers": {
			a: reading{components: []any{struct{ p *int }{p: &x}}},
			b: reading{components: []any{struct{ p *int }{p: &y}}},
		},
		"maps": {
			a: reading{components: []any{map[string]float64{"a": 0, "b": 1}}},
			b: reading{components: []any{map[string]float64{"b": 1, "a": negativeZero}}},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.True(t, kernel.ValuesEqual(tc.a, tc.b))
			assert.Equal(t, kernel.ValueHash(tc.a), kernel.ValueHash(tc.b))
		})
	}
}

func Test_ValueHash_DistinguishesPointedToValues(t *testing.T) {
	x, y := 5, 6

	assert.NotEqual(t,
		kernel.ValueHash(reading{components: []any{&x}}),
		kernel.ValueHash(reading{components: []any{&y}}),
	)
}

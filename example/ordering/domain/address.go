package domain

import (
	"strings"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

const subjectAddress = "Address"

// Address is a shipping address. All parts are required and stored trimmed.
type Address struct {
	street     string
	city       string
	postalCode string
	country    string
}

func NewAddress(street, city, postalCode, country string) kernel.ResultOf[Address] {
	address := Address{
		street:     strings.TrimSpace(street),
		city:       strings.TrimSpace(city),
		postalCode: strings.TrimSpace(postalCode),
		country:    strings.TrimSpace(country),
	}

	for _, part := range []struct{ name, value string }{
		{"street", address.street},
		{"city", address.city},
		{"postal code", address.postalCode},
		{"country", address.country},
	} {
		if part.value == "" {
			return kernel.FailureOf[Address](kernel.Validation(subjectAddress, part.name+" is required"))
		}
	}

	return kernel.SuccessOf(address)
}

func (a Address) Street() string     { return a.street }
func (a Address) City() string       { return a.city }
func (a Address) PostalCode() string { return a.postalCode }
func (a Address) Country() string    { return a.country }

func (a Address) Signature() []any {
	return []any{a.street, a.city, a.postalCode, a.country}
}

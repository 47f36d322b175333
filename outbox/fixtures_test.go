package outbox_test

import (
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

const (
	parcelRegisteredEventType = "ParcelRegistered"
	parcelShippedEventType    = "ParcelShipped"
)

type parcelRegistered struct {
	kernel.EventBase
	ParcelID string
	WeightKG int
}

func (e parcelRegistered) EventType() string { return parcelRegisteredEventType }

type parcelShipped struct {
	kernel.EventBase
	ParcelID string
	Carrier  string
}

func (e parcelShipped) EventType() string { return parcelShippedEventType }

type parcelWeighed struct {
	kernel.EventBase
	ParcelID string
	WeightKG float64
}

func (e parcelWeighed) EventType() string { return "ParcelWeighed" }

func givenOccurredAt() time.Time {
	return time.Date(2025, 3, 14, 15, 9, 26, 535897000, time.UTC)
}

func givenParcelRegistered() parcelRegistered {
	return parcelRegistered{EventBase: kernel.NewEventBase(givenOccurredAt()), ParcelID: "p-1", WeightKG: 3}
}

func givenParcelShipped() parcelShipped {
	return parcelShipped{EventBase: kernel.NewEventBase(givenOccurredAt().Add(time.Hour)), ParcelID: "p-1", Carrier: "DHL"}
}

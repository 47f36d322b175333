package events

import "time"

type OrderPlaced struct {
	OrderID string
	At      time.Time
}

func (e OrderPlaced) EventType() string       { return "OrderPlaced" }
func (e OrderPlaced) OccurredOnUTC() time.Time { return e.At }

type OrderShipped struct { // want `domain event OrderShipped must implement EventType and OccurredOnUTC with value receivers`
	At time.Time
}

func (e *OrderShipped) EventType() string       { return "OrderShipped" }   // want `domain event OrderShipped must not declare pointer-receiver method EventType`
func (e *OrderShipped) OccurredOnUTC() time.Time { return e.At }            // want `domain event OrderShipped must not declare pointer-receiver method OccurredOnUTC`

type OrderCancelled struct {
	Reason string
	At     time.Time
}

func (e OrderCancelled) EventType() string       { return "OrderCancelled" }
func (e OrderCancelled) OccurredOnUTC() time.Time { return e.At }
func (e *OrderCancelled) SetReason(reason string) { e.Reason = reason } // want `domain event OrderCancelled must not declare pointer-receiver method SetReason`

type OrderNumbered int64 // want `domain event OrderNumbered must be a struct`

func (e OrderNumbered) EventType() string       { return "OrderNumbered" }
func (e OrderNumbered) OccurredOnUTC() time.Time { return time.Unix(int64(e), 0).UTC() }

type EventBase struct{ At time.Time }

func (b EventBase) OccurredOnUTC() time.Time { return b.At }

type LinePriced struct {
	EventBase
	Cents int64
}

func (e LinePriced) EventType() string { return "LinePriced" }

type Timestamped struct{ At time.Time }

func (t Timestamped) EventType() int            { return 0 }
func (t Timestamped) OccurredOnUTC() time.Time { return t.At }

type Event interface {
	EventType() string
	OccurredOnUTC() time.Time
}

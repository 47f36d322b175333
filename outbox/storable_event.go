package outbox

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

// StorableEvents is an alias type for a slice of StorableEvent.
type StorableEvents = []StorableEvent

// StorableEvent is a DTO (data transfer object) used by outbox engines to append events and read them back.
//
// It is built on scalars to be completely agnostic of the concrete domain event types.
//
// While its properties are exported, it should only be constructed with the supplied factory methods:
//   - BuildStorableEvent
//   - StorableEventsFrom
type StorableEvent struct {
	MessageID     uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	OccurredAt    time.Time
	PayloadJSON   []byte
	MetadataJSON  []byte
}

// BuildStorableEvent is a factory method for StorableEvent.
//
// Returns an error if eventType or aggregateType is empty or if payloadJSON or metadataJSON are not valid JSON.
func BuildStorableEvent(
	messageID uuid.UUID,
	aggregateType string,
	aggregateID string,
	eventType string,
	occurredAt time.Time,
	payloadJSON []byte,
	metadataJSON []byte,
) (StorableEvent, error) {

	if eventType == "" {
		return StorableEvent{}, ErrEmptyEventType
	}

	if aggregateType == "" {
		return StorableEvent{}, ErrEmptyAggregateType
	}

	if !jsonAPI.Valid(payloadJSON) {
		return StorableEvent{}, ErrInvalidPayloadJSON
	}

	if !jsonAPI.Valid(metadataJSON) {
		return StorableEvent{}, ErrInvalidMetadataJSON
	}

	return StorableEvent{
		MessageID:     messageID,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		OccurredAt:    kernel.ToOccurredOn(occurredAt),
		PayloadJSON:   payloadJSON,
		MetadataJSON:  metadataJSON,
	}, nil
}

// StorableEventsFrom serializes the given domain events of one aggregate, keeping their order.
//
// Each event gets a fresh message ID. The causation and correlation IDs are taken from metadata;
// empty ones default to the event's own message ID, which starts a new conversation.
func StorableEventsFrom(
	aggregateType string,
	aggregateID string,
	events kernel.DomainEvents,
	metadata EventMetadata,
) (StorableEvents, error) {

	storableEvents := make(StorableEvents, 0, len(events))

	for _, event := range events {
		messageID := uuid.New()

		payloadJSON, marshalErr := jsonAPI.Marshal(event)
		if marshalErr != nil {
			return nil, errors.Join(ErrMarshalingPayloadFailed, marshalErr)
		}

		metadataJSON, metadataErr := metadata.forMessage(messageID).toJSON()
		if metadataErr != nil {
			return nil, metadataErr
		}

		storableEvent, buildErr := BuildStorableEvent(
			messageID,
			aggregateType,
			aggregateID,
			event.EventType(),
			event.OccurredOnUTC(),
			payloadJSON,
			metadataJSON,
		)
		if buildErr != nil {
			return nil, buildErr
		}

		storableEvents = append(storableEvents, storableEvent)
	}

	return storableEvents, nil
}

// Record is a persisted outbox row.
type Record struct {
	SequenceNumber int64
	Event          StorableEvent
	DispatchedAt   time.Time
}

// IsDispatched reports whether the record was already handed to the dispatcher.
func (r Record) IsDispatched() bool {
	return !r.DispatchedAt.IsZero()
}

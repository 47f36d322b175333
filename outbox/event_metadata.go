package outbox

import (
	"errors"

	"github.com/google/uuid"
)

type MessageID = string
type CausationID = string
type CorrelationID = string

// EventMetadata carries the message, causation, and correlation IDs of a stored event.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

// BuildEventMetadata builds EventMetadata from UUIDs.
func BuildEventMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// EventMetadataFrom decodes the metadata of a StorableEvent.
func EventMetadataFrom(storableEvent StorableEvent) (EventMetadata, error) {
	metadata := new(EventMetadata)

	err := jsonAPI.Unmarshal(storableEvent.MetadataJSON, metadata)
	if err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return *metadata, nil
}

// CausedBy returns metadata for messages caused by the message described by m,
// keeping the correlation ID of the conversation.
func (m EventMetadata) CausedBy() EventMetadata {
	correlationID := m.CorrelationID
	if correlationID == "" {
		correlationID = m.MessageID
	}

	return EventMetadata{CausationID: m.MessageID, CorrelationID: correlationID}
}

func (m EventMetadata) forMessage(messageID uuid.UUID) EventMetadata {
	m.MessageID = messageID.String()

	if m.CausationID == "" {
		m.CausationID = m.MessageID
	}

	if m.CorrelationID == "" {
		m.CorrelationID = m.MessageID
	}

	return m
}

func (m EventMetadata) toJSON() ([]byte, error) {
	metadataJSON, err := jsonAPI.Marshal(m)
	if err != nil {
		return nil, errors.Join(ErrMarshalingMetadataFailed, err)
	}

	return metadataJSON, nil
}

package outbox

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
)

var (
	ErrInvalidPayloadJSON           = errors.New("payload json is not valid")
	ErrInvalidMetadataJSON          = errors.New("metadata json is not valid")
	ErrEmptyEventType               = errors.New("empty event type supplied")
	ErrEmptyAggregateType           = errors.New("empty aggregate type supplied")
	ErrMarshalingPayloadFailed      = errors.New("marshaling event payload failed")
	ErrMarshalingMetadataFailed     = errors.New("marshaling event metadata failed")
	ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")
	ErrUnknownEventType             = errors.New("unknown event type")
	ErrEventTypeAlreadyRegistered   = errors.New("event type already registered")
	ErrDecodingPayloadFailed        = errors.New("decoding event payload failed")
)

// jsonAPI is jsoniter.ConfigFastest without the 6 digit float shortcut, which rounds payload floats.
var jsonAPI = jsoniter.Config{
	EscapeHTML:                    false,
	ObjectFieldMustBeSimpleString: true,
}.Froze()

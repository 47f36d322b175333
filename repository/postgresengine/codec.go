package postgresengine

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

// documentJSON keeps full float precision, unlike documentJSON.
var documentJSON = jsoniter.Config{
	EscapeHTML:                    false,
	ObjectFieldMustBeSimpleString: true,
}.Froze()

// Codec converts aggregates to JSON documents and back.
type Codec[A any, TID comparable] interface {
	Marshal(aggregate A) ([]byte, error)
	Unmarshal(id TID, document []byte, audit kernel.AuditInfo) (A, error)
	IDString(id TID) string
}

// JSONCodec is a Codec built from a mapping between the aggregate and a document type D,
// which is serialized with json-iterator.
type JSONCodec[A any, TID comparable, D any] struct {
	toDocument   func(aggregate A) D
	fromDocument func(id TID, document D, audit kernel.AuditInfo) (A, error)
}

// NewJSONCodec creates a JSONCodec.
func NewJSONCodec[A any, TID comparable, D any](
	toDocument func(aggregate A) D,
	fromDocument func(id TID, document D, audit kernel.AuditInfo) (A, error),
) JSONCodec[A, TID, D] {

	return JSONCodec[A, TID, D]{toDocument: toDocument, fromDocument: fromDocument}
}

func (c JSONCodec[A, TID, D]) Marshal(aggregate A) ([]byte, error) {
	return documentJSON.Marshal(c.toDocument(aggregate))
}

func (c JSONCodec[A, TID, D]) Unmarshal(id TID, document []byte, audit kernel.AuditInfo) (A, error) {
	decoded := new(D)

	if err := documentJSON.Unmarshal(document, decoded); err != nil {
		var zero A
		return zero, err
	}

	return c.fromDocument(id, *decoded, audit)
}

// IDString formats the id with fmt.Sprint.
func (c JSONCodec[A, TID, D]) IDString(id TID) string {
	return fmt.Sprint(id)
}

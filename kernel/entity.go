package kernel

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Identifiable is anything that exposes a typed identifier.
type Identifiable[TID comparable] interface {
	ID() TID
}

// Entity is the identity component of an entity or aggregate.
// Concrete types embed it and thereby become Identifiable.
//
// The id is set at construction and never changes. An Entity built with the zero value of TID
// stands for an object that has not been assigned an id by persistence yet.
type Entity[TID comparable] struct {
	id TID
}

// NewEntity returns the identity component for id.
func NewEntity[TID comparable](id TID) Entity[TID] {
	return Entity[TID]{id: id}
}

// ID returns the identifier.
func (e Entity[TID]) ID() TID {
	return e.id
}

// SameIdentity reports whether a and b are the same entity: same concrete type and equal ids.
// Field contents and object identity are never considered.
//
// Two never-persisted entities of the same type that still carry the zero id compare as equal.
// Callers must not rely on identity equality before an id has been assigned.
func SameIdentity[TID comparable](a, b Identifiable[TID]) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	return a.ID() == b.ID()
}

// IdentityKey is a comparable (concrete type, id) pair, suitable as a map key for entities.
// Two entities have equal keys if and only if SameIdentity reports true for them.
type IdentityKey struct {
	Type reflect.Type
	ID   any
}

// IdentityKeyOf returns the IdentityKey of e.
func IdentityKeyOf[TID comparable](e Identifiable[TID]) IdentityKey {
	return IdentityKey{Type: reflect.TypeOf(e), ID: e.ID()}
}

// String renders the key as "<type>#<id>".
func (k IdentityKey) String() string {
	return fmt.Sprintf("%v#%v", k.Type, k.ID)
}

// IdentityHash returns a hash derived from (concrete type, id), so equal entities hash equally.
func IdentityHash[TID comparable](e Identifiable[TID]) uint64 {
	return xxhash.Sum64String(IdentityKeyOf(e).String())
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

package kernel

import (
	"reflect"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ValueObject is an immutable value defined entirely by an ordered sequence of atomic components.
//
// Signature must return the components in a fixed order and must not expose mutable state.
// A component may itself be a ValueObject, it is then compared and hashed structurally.
type ValueObject interface {
	Signature() []any
}

// ValuesEqual reports whether a and b have the same concrete type and element-wise equal signatures
// of equal length. Two nil components are equal.
func ValuesEqual(a, b ValueObject) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	left, right := a.Signature(), b.Signature()
	if len(left) != len(right) {
		return false
	}

	for i := range left {
		if !componentsEqual(left[i], right[i]) {
			return false
		}
	}

	return true
}

func componentsEqual(a, b any) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}

	if va, ok := a.(ValueObject); ok {
		vb, ok := b.(ValueObject)
		return ok && ValuesEqual(va, vb)
	}

	return reflect.DeepEqual(a, b)
}

// ValueHash folds the hashes of all signature components with exclusive-or; nil components count as 0.
//
// The fold is order-insensitive: value objects whose signatures are permutations of each other
// hash identically even when they are not equal. Use the hash for bucketing only, never as identity.
func ValueHash(v ValueObject) uint64 {
	if isNil(v) {
		return 0
	}

	var hash uint64
	for _, component := range v.Signature() {
		hash ^= componentHash(component)
	}

	return hash
}

// componentHash hashes the way componentsEqual compares: pointers are followed, and negative zero
// hashes like zero.
func componentHash(c any) uint64 {
	if isNil(c) {
		return 0
	}

	if vo, ok := c.(ValueObject); ok {
		return ValueHash(vo)
	}

	digest := xxhash.New()
	writeComponent(digest, reflect.ValueOf(c), 0)

	return digest.Sum64()
}

const maxComponentDepth = 32

func writeComponent(digest *xxhash.Digest, v reflect.Value, depth int) {
	if !v.IsValid() {
		_, _ = digest.WriteString("nil\x00")
		return
	}

	_, _ = digest.WriteString(v.Type().String() + "\x00")

	if depth >= maxComponentDepth {
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			_, _ = digest.WriteString("nil\x00")
			return
		}

		writeComponent(digest, v.Elem(), depth+1)

	case reflect.Bool:
		_, _ = digest.WriteString(strconv.FormatBool(v.Bool()))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		_, _ = digest.WriteString(strconv.FormatInt(v.Int(), 10))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		_, _ = digest.WriteString(strconv.FormatUint(v.Uint(), 10))

	case reflect.Float32, reflect.Float64:
		_, _ = digest.WriteString(formatFloat(v.Float()))

	case reflect.Complex64, reflect.Complex128:
		_, _ = digest.WriteString(formatFloat(real(v.Complex())) + "," + formatFloat(imag(v.Complex())))

	case reflect.String:
		_, _ = digest.WriteString(v.String())

	case reflect.Array, reflect.Slice:
		_, _ = digest.WriteString(strconv.Itoa(v.Len()) + "\x00")
		for i := range v.Len() {
			writeComponent(digest, v.Index(i), depth+1)
		}

	case reflect.Struct:
		for i := range v.NumField() {
			writeComponent(digest, v.Field(i), depth+1)
		}

	case reflect.Map:
		var entries uint64
		for iter := v.MapRange(); iter.Next(); {
			entry := xxhash.New()
			writeComponent(entry, iter.Key(), depth+1)
			writeComponent(entry, iter.Value(), depth+1)
			entries ^= entry.Sum64()
		}

		_, _ = digest.WriteString(strconv.FormatUint(entries, 16))

	default:
		// funcs, channels, and unsafe pointers hash by type only
	}

	_, _ = digest.WriteString("\x00")
}

func formatFloat(f float64) string {
	if f == 0 {
		f = 0
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}

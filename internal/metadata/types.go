// Package metadata implements the in-memory metadata model for a relational
// mapping layer: entity types, properties, keys, foreign keys, and indexes,
// together with the configuration-resolution rules that keep the graph
// consistent while it is incrementally built.
package metadata

import (
	"fmt"
	"reflect"
)

// IsNullableType reports whether a Go type can hold nil. Pointers,
// interfaces, maps, slices, channels, and functions are nullable; every
// other kind is a value type with no unset representation.
func IsNullableType(t reflect.Type) bool {
	if t == nil {
		return true
	}
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

// UnwrapNullable strips one pointer level from a type, projecting *T to T.
// Non-pointer types are returned unchanged. All type-compatibility checks
// in this package compare types through this projection, so *int and int
// are treated as the same underlying type.
func UnwrapNullable(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// ZeroValue returns the zero value for a non-nullable type and nil for a
// nullable one.
func ZeroValue(t reflect.Type) interface{} {
	if t == nil || IsNullableType(t) {
		return nil
	}
	return reflect.Zero(t).Interface()
}

// TypeName returns the fully qualified name of a Go type, used as the
// default entity type name. Unnamed types fall back to their syntax.
func TypeName(t reflect.Type) string {
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// StoreGeneration describes whether the backing store generates a
// property's value.
type StoreGeneration int

const (
	// StoreGenerationNone means the value is never store-generated.
	StoreGenerationNone StoreGeneration = iota
	// StoreGenerationIdentity means the store generates the value on insert.
	StoreGenerationIdentity
	// StoreGenerationComputed means the store computes the value on every write.
	StoreGenerationComputed
)

// String returns the string representation of the store generation mode.
func (s StoreGeneration) String() string {
	switch s {
	case StoreGenerationNone:
		return "none"
	case StoreGenerationIdentity:
		return "identity"
	case StoreGenerationComputed:
		return "computed"
	default:
		return "unknown"
	}
}

// ParseStoreGeneration converts a string to a StoreGeneration.
func ParseStoreGeneration(s string) (StoreGeneration, error) {
	switch s {
	case "none":
		return StoreGenerationNone, nil
	case "identity":
		return StoreGenerationIdentity, nil
	case "computed":
		return StoreGenerationComputed, nil
	default:
		return 0, fmt.Errorf("unknown store generation mode: %s", s)
	}
}

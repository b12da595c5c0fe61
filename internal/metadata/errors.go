package metadata

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classifying every failure the metadata model can produce.
// Returned errors wrap exactly one of these, so callers can branch with
// errors.Is without parsing messages.
var (
	// ErrInvalidConfiguration is returned when a setting contradicts the
	// property's Go type or the entity's declared structure.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnsupportedMutation is returned when a mutation would break an
	// invariant established elsewhere in the model, such as clearing
	// read-only on a primary key property.
	ErrUnsupportedMutation = errors.New("unsupported mutation")

	// ErrRange is returned when an index assignment falls outside its
	// valid range.
	ErrRange = errors.New("value out of range")

	// ErrRelationshipMismatch is returned when principal and dependent
	// property lists of a relationship do not correspond.
	ErrRelationshipMismatch = errors.New("relationship property mismatch")

	// ErrNotFound is returned when a lookup names an entity type,
	// property, or key that does not exist.
	ErrNotFound = errors.New("not found")
)

// MetadataError carries the context of a model configuration failure:
// which entity and property were involved and which sentinel classifies it.
type MetadataError struct {
	Kind     error
	Entity   string
	Property string
	Message  string
}

// Error implements the error interface.
func (e *MetadataError) Error() string {
	var b strings.Builder

	if e.Entity != "" {
		b.WriteString(e.Entity)
		if e.Property != "" {
			b.WriteString(".")
			b.WriteString(e.Property)
		}
		b.WriteString(": ")
	}

	b.WriteString(e.Message)
	return b.String()
}

// Unwrap returns the sentinel classifying this error.
func (e *MetadataError) Unwrap() error {
	return e.Kind
}

func newError(kind error, entity, property, format string, args ...interface{}) error {
	return &MetadataError{
		Kind:     kind,
		Entity:   entity,
		Property: property,
		Message:  fmt.Sprintf(format, args...),
	}
}

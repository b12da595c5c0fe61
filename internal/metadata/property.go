package metadata

import (
	"reflect"
	"strings"
)

// Property is a single mapped member of an entity type. Configuration flags
// are tri-state: a nil pointer means "unset", and the effective value is
// derived from the property's Go type and key membership. Index slots
// (Index, ShadowIndex, OriginalValueIndex) are assigned by the owning
// entity type's RecomputeLayout pass, never by the property itself.
type Property struct {
	propertyBase

	goType     reflect.Type
	entityType *EntityType

	shadow bool

	nullable      *bool
	readOnly      *bool
	concurrency   *bool
	generateOnAdd *bool

	// Store generation is represented as two flags that are never both
	// true. Both nil means the whole setting is unset.
	identity *bool
	computed *bool

	sentinel    interface{}
	sentinelSet bool

	index              int
	shadowIndex        int
	originalValueIndex int
}

func newProperty(name string, goType reflect.Type, entityType *EntityType, shadow bool) *Property {
	return &Property{
		propertyBase:       propertyBase{name: name},
		goType:             goType,
		entityType:         entityType,
		shadow:             shadow,
		shadowIndex:        -1,
		originalValueIndex: -1,
	}
}

// GoType returns the Go type this property maps.
func (p *Property) GoType() reflect.Type {
	return p.goType
}

// EntityType returns the owning entity type.
func (p *Property) EntityType() *EntityType {
	return p.entityType
}

// IsShadow reports whether the property has no backing member on the
// entity's Go type.
func (p *Property) IsShadow() bool {
	return p.shadow
}

// SetShadow reclassifies the property as shadow or non-shadow. The setter
// only stores the flag; the caller must invoke RecomputeLayout on the
// owning entity type so Index and ShadowIndex assignments stay contiguous.
func (p *Property) SetShadow(shadow bool) {
	p.shadow = shadow
}

// Nullable returns the raw tri-state nullability flag; nil means unset.
func (p *Property) Nullable() *bool {
	return p.nullable
}

// SetNullable sets or clears the nullability flag. Marking a property over
// a non-nullable Go type as nullable fails with ErrInvalidConfiguration.
func (p *Property) SetNullable(v *bool) error {
	if v != nil && *v && !IsNullableType(p.goType) {
		return newError(ErrInvalidConfiguration, p.entityType.name, p.name,
			"cannot be nullable: type %s has no nil representation", p.goType)
	}
	p.nullable = v
	return nil
}

// IsNullable returns the effective nullability: the explicit flag if set,
// otherwise the Go type's own nullability.
func (p *Property) IsNullable() bool {
	if p.nullable != nil {
		return *p.nullable
	}
	return IsNullableType(p.goType)
}

// ReadOnly returns the raw tri-state read-only flag; nil means unset.
func (p *Property) ReadOnly() *bool {
	return p.readOnly
}

// SetReadOnly sets or clears the read-only flag. Primary key properties are
// always read-only, so an explicit false on a key member fails with
// ErrUnsupportedMutation. The check runs against the key composition at
// call time; SetPrimaryKey re-validates the other direction.
func (p *Property) SetReadOnly(v *bool) error {
	if v != nil && !*v && p.isPrimaryKeyMember() {
		return newError(ErrUnsupportedMutation, p.entityType.name, p.name,
			"cannot be writable: property is part of the primary key")
	}
	p.readOnly = v
	return nil
}

// IsReadOnly returns the effective read-only flag: the explicit flag if
// set, otherwise primary key membership.
func (p *Property) IsReadOnly() bool {
	if p.readOnly != nil {
		return *p.readOnly
	}
	return p.isPrimaryKeyMember()
}

func (p *Property) isPrimaryKeyMember() bool {
	pk := p.entityType.primaryKey
	if pk == nil {
		return false
	}
	for _, kp := range pk.properties {
		if kp == p {
			return true
		}
	}
	return false
}

// ConcurrencyToken returns the raw tri-state concurrency-token flag; nil
// means unset.
func (p *Property) ConcurrencyToken() *bool {
	return p.concurrency
}

// SetConcurrencyToken sets or clears the concurrency-token flag. The
// setter only stores the flag; the caller must invoke RecomputeLayout on
// the owning entity type to reassign original-value slots.
func (p *Property) SetConcurrencyToken(v *bool) {
	p.concurrency = v
}

// IsConcurrencyToken returns the effective concurrency-token flag,
// defaulting to false.
func (p *Property) IsConcurrencyToken() bool {
	return p.concurrency != nil && *p.concurrency
}

// GenerateOnAdd returns the raw tri-state value-generated-on-add flag; nil
// means unset.
func (p *Property) GenerateOnAdd() *bool {
	return p.generateOnAdd
}

// SetGenerateOnAdd sets or clears the value-generated-on-add flag.
func (p *Property) SetGenerateOnAdd(v *bool) {
	p.generateOnAdd = v
}

// IsGeneratedOnAdd returns the effective value-generated-on-add flag,
// defaulting to false.
func (p *Property) IsGeneratedOnAdd() bool {
	return p.generateOnAdd != nil && *p.generateOnAdd
}

// StoreGeneration returns the raw tri-state store generation setting; nil
// means unset.
func (p *Property) StoreGeneration() *StoreGeneration {
	if p.identity == nil && p.computed == nil {
		return nil
	}
	var mode StoreGeneration
	switch {
	case p.identity != nil && *p.identity:
		mode = StoreGenerationIdentity
	case p.computed != nil && *p.computed:
		mode = StoreGenerationComputed
	default:
		mode = StoreGenerationNone
	}
	return &mode
}

// SetStoreGeneration sets or clears the store generation mode. The two
// internal flags are kept mutually exclusive by construction.
func (p *Property) SetStoreGeneration(v *StoreGeneration) {
	if v == nil {
		p.identity = nil
		p.computed = nil
		return
	}
	t, f := true, false
	switch *v {
	case StoreGenerationIdentity:
		p.identity, p.computed = &t, &f
	case StoreGenerationComputed:
		p.identity, p.computed = &f, &t
	default:
		p.identity, p.computed = &f, &f
	}
}

// EffectiveStoreGeneration returns the effective store generation mode,
// defaulting to StoreGenerationNone.
func (p *Property) EffectiveStoreGeneration() StoreGeneration {
	if mode := p.StoreGeneration(); mode != nil {
		return *mode
	}
	return StoreGenerationNone
}

// Sentinel returns the effective sentinel value: the explicit value if one
// was set, otherwise the zero value for non-nullable types and nil for
// nullable ones.
func (p *Property) Sentinel() interface{} {
	if p.sentinelSet {
		return p.sentinel
	}
	return ZeroValue(p.goType)
}

// SetSentinel sets the explicit sentinel value.
func (p *Property) SetSentinel(v interface{}) {
	p.sentinel = v
	p.sentinelSet = true
}

// ClearSentinel reverts the sentinel to its type-derived default.
func (p *Property) ClearSentinel() {
	p.sentinel = nil
	p.sentinelSet = false
}

// Index returns the property's position among all properties of the owning
// entity type.
func (p *Property) Index() int {
	return p.index
}

// SetIndex assigns the property's position. Negative values fail with
// ErrRange.
func (p *Property) SetIndex(i int) error {
	if i < 0 {
		return newError(ErrRange, p.entityType.name, p.name,
			"index %d is negative", i)
	}
	p.index = i
	return nil
}

// ShadowIndex returns the property's slot among the entity's shadow
// properties, or -1 for non-shadow properties.
func (p *Property) ShadowIndex() int {
	return p.shadowIndex
}

// SetShadowIndex assigns the shadow slot. Non-shadow properties accept
// only -1; shadow properties accept [0, shadowCount).
func (p *Property) SetShadowIndex(i int) error {
	if !p.shadow {
		if i != -1 {
			return newError(ErrRange, p.entityType.name, p.name,
				"shadow index %d on a non-shadow property", i)
		}
		p.shadowIndex = -1
		return nil
	}
	if i < 0 || i >= p.entityType.ShadowPropertyCount() {
		return newError(ErrRange, p.entityType.name, p.name,
			"shadow index %d outside [0, %d)", i, p.entityType.ShadowPropertyCount())
	}
	p.shadowIndex = i
	return nil
}

// OriginalValueIndex returns the property's original-value snapshot slot,
// or -1 if the property is not a concurrency token.
func (p *Property) OriginalValueIndex() int {
	return p.originalValueIndex
}

// SetOriginalValueIndex assigns the original-value slot. Values below -1
// fail with ErrRange.
func (p *Property) SetOriginalValueIndex(i int) error {
	if i < -1 {
		return newError(ErrRange, p.entityType.name, p.name,
			"original value index %d is invalid", i)
	}
	p.originalValueIndex = i
	return nil
}

// AreCompatible reports whether a dependent property list can reference a
// principal property list: equal length, and pairwise the same underlying
// Go type once pointer wrappers are stripped. *int on one side is
// compatible with int on the other.
func AreCompatible(principal, dependent []*Property) bool {
	if len(principal) != len(dependent) {
		return false
	}
	for i := range principal {
		if UnwrapNullable(principal[i].goType) != UnwrapNullable(dependent[i].goType) {
			return false
		}
	}
	return true
}

// EnsureCompatible performs the AreCompatible check and returns an
// ErrRelationshipMismatch error identifying both entity types and property
// lists on violation.
func EnsureCompatible(principal, dependent []*Property) error {
	if len(principal) == 0 || len(dependent) == 0 {
		return newError(ErrRelationshipMismatch, "", "",
			"relationship requires at least one property on each side")
	}
	principalEntity := principal[0].entityType.name
	dependentEntity := dependent[0].entityType.name

	if len(principal) != len(dependent) {
		return newError(ErrRelationshipMismatch, dependentEntity, "",
			"property count mismatch: %s on %s cannot reference %s on %s",
			FormatProperties(dependent), dependentEntity,
			FormatProperties(principal), principalEntity)
	}
	for i := range principal {
		if UnwrapNullable(principal[i].goType) != UnwrapNullable(dependent[i].goType) {
			return newError(ErrRelationshipMismatch, dependentEntity, dependent[i].name,
				"type mismatch: %s on %s is not compatible with %s on %s",
				FormatProperties(dependent), dependentEntity,
				FormatProperties(principal), principalEntity)
		}
	}
	return nil
}

// FormatProperties formats a property list as {'A', 'B'} for diagnostics.
func FormatProperties(properties []*Property) string {
	names := make([]string, len(properties))
	for i, p := range properties {
		names[i] = "'" + p.name + "'"
	}
	return "{" + strings.Join(names, ", ") + "}"
}

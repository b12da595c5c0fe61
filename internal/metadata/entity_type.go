package metadata

import "reflect"

// EntityType owns a set of properties, keys, foreign keys, and indexes.
// Properties keep their declaration order; the Index, ShadowIndex, and
// OriginalValueIndex slots assigned to them are recomputed in a single
// RecomputeLayout pass whenever the property set or a property's
// classification changes.
type EntityType struct {
	annotable

	name   string
	goType reflect.Type
	model  *Model

	properties  []*Property
	primaryKey  *Key
	keys        []*Key
	foreignKeys []*ForeignKey
	indexes     []*Index
}

// Name returns the entity type name: the fully qualified Go type name, or
// the explicit name given for a shadow entity.
func (e *EntityType) Name() string {
	return e.name
}

// GoType returns the backing Go type, or nil for a shadow entity.
func (e *EntityType) GoType() reflect.Type {
	return e.goType
}

// Model returns the owning model.
func (e *EntityType) Model() *Model {
	return e.model
}

// Properties returns the entity's properties in declaration order.
func (e *EntityType) Properties() []*Property {
	result := make([]*Property, len(e.properties))
	copy(result, e.properties)
	return result
}

// Property returns the property with the given name, or ErrNotFound.
func (e *EntityType) Property(name string) (*Property, error) {
	if p := e.FindProperty(name); p != nil {
		return p, nil
	}
	return nil, newError(ErrNotFound, e.name, name, "property does not exist")
}

// FindProperty returns the property with the given name, or nil.
func (e *EntityType) FindProperty(name string) *Property {
	for _, p := range e.properties {
		if p.name == name {
			return p
		}
	}
	return nil
}

// AddProperty declares a new property on the entity type. Names must be
// unique within the entity; layout slots for all siblings are reassigned
// before returning.
func (e *EntityType) AddProperty(name string, goType reflect.Type, shadow bool) (*Property, error) {
	if name == "" {
		return nil, newError(ErrInvalidConfiguration, e.name, "",
			"property name must not be empty")
	}
	if goType == nil {
		return nil, newError(ErrInvalidConfiguration, e.name, name,
			"property type must not be nil")
	}
	if e.FindProperty(name) != nil {
		return nil, newError(ErrInvalidConfiguration, e.name, name,
			"property is already declared")
	}

	p := newProperty(name, goType, e, shadow)
	e.properties = append(e.properties, p)
	e.RecomputeLayout()
	return p, nil
}

// RemoveProperty removes a property from the entity type. Properties still
// referenced by a key, foreign key, or index cannot be removed.
func (e *EntityType) RemoveProperty(name string) error {
	p := e.FindProperty(name)
	if p == nil {
		return newError(ErrNotFound, e.name, name, "property does not exist")
	}
	if e.propertyInUse(p) {
		return newError(ErrUnsupportedMutation, e.name, name,
			"property is referenced by a key, foreign key, or index")
	}

	for i, candidate := range e.properties {
		if candidate == p {
			e.properties = append(e.properties[:i], e.properties[i+1:]...)
			break
		}
	}
	e.RecomputeLayout()
	return nil
}

func (e *EntityType) propertyInUse(p *Property) bool {
	for _, k := range e.keys {
		for _, kp := range k.properties {
			if kp == p {
				return true
			}
		}
	}
	for _, fk := range e.foreignKeys {
		for _, fp := range fk.properties {
			if fp == p {
				return true
			}
		}
	}
	for _, idx := range e.indexes {
		for _, ip := range idx.properties {
			if ip == p {
				return true
			}
		}
	}
	return false
}

// RecomputeLayout reassigns the storage slots of every property in one
// pass over the declaration order:
//
//   - Index: 0..n-1 over all properties, independent of classification.
//   - ShadowIndex: 0..k-1 over shadow properties in relative declaration
//     order; -1 for non-shadow properties.
//   - OriginalValueIndex: 0..m-1 over effective concurrency tokens in
//     relative declaration order; -1 for everything else.
//
// The pass is idempotent. Any operation that changes the property set or a
// property's shadow/concurrency classification must call it.
func (e *EntityType) RecomputeLayout() {
	shadowCount := 0
	originalCount := 0

	for i, p := range e.properties {
		p.index = i

		if p.shadow {
			p.shadowIndex = shadowCount
			shadowCount++
		} else {
			p.shadowIndex = -1
		}

		if p.IsConcurrencyToken() {
			p.originalValueIndex = originalCount
			originalCount++
		} else {
			p.originalValueIndex = -1
		}
	}
}

// ShadowPropertyCount returns the number of shadow properties declared on
// the entity type.
func (e *EntityType) ShadowPropertyCount() int {
	count := 0
	for _, p := range e.properties {
		if p.shadow {
			count++
		}
	}
	return count
}

// PrimaryKey returns the primary key, or nil if none is declared.
func (e *EntityType) PrimaryKey() *Key {
	return e.primaryKey
}

// Keys returns all declared keys, primary first if declared.
func (e *EntityType) Keys() []*Key {
	result := make([]*Key, len(e.keys))
	copy(result, e.keys)
	return result
}

// SetPrimaryKey declares the entity's primary key over the given
// properties, replacing any previous primary key. Key properties must be
// declared on this entity, must not repeat, must not be effectively
// nullable, and must not carry an explicit read-only=false: primary key
// members are always read-only, and the check runs in both directions (at
// SetReadOnly time and here).
func (e *EntityType) SetPrimaryKey(properties []*Property) (*Key, error) {
	if err := e.validateKeyProperties(properties); err != nil {
		return nil, err
	}

	if e.primaryKey != nil {
		for i, k := range e.keys {
			if k == e.primaryKey {
				e.keys = append(e.keys[:i], e.keys[i+1:]...)
				break
			}
		}
	}

	key := &Key{entityType: e, properties: append([]*Property(nil), properties...)}
	e.keys = append([]*Key{key}, e.keys...)
	e.primaryKey = key
	return key, nil
}

// AddKey declares an alternate key over the given properties.
func (e *EntityType) AddKey(properties []*Property) (*Key, error) {
	if err := e.validateKeyProperties(properties); err != nil {
		return nil, err
	}
	if e.FindKey(properties) != nil {
		return nil, newError(ErrInvalidConfiguration, e.name, "",
			"key %s is already declared", FormatProperties(properties))
	}

	key := &Key{entityType: e, properties: append([]*Property(nil), properties...)}
	e.keys = append(e.keys, key)
	return key, nil
}

func (e *EntityType) validateKeyProperties(properties []*Property) error {
	if len(properties) == 0 {
		return newError(ErrInvalidConfiguration, e.name, "",
			"a key requires at least one property")
	}
	seen := make(map[*Property]bool, len(properties))
	for _, p := range properties {
		if p.entityType != e {
			return newError(ErrInvalidConfiguration, e.name, p.name,
				"key property belongs to entity type %s", p.entityType.name)
		}
		if seen[p] {
			return newError(ErrInvalidConfiguration, e.name, p.name,
				"duplicate property in key %s", FormatProperties(properties))
		}
		seen[p] = true
		if p.IsNullable() {
			return newError(ErrInvalidConfiguration, e.name, p.name,
				"key property must not be nullable")
		}
		if p.readOnly != nil && !*p.readOnly {
			return newError(ErrUnsupportedMutation, e.name, p.name,
				"key property is explicitly writable; key members must be read-only")
		}
	}
	return nil
}

// FindKey returns the declared key covering exactly the given property
// list (compared by identity and position), or nil.
func (e *EntityType) FindKey(properties []*Property) *Key {
	for _, k := range e.keys {
		if k.matches(properties) {
			return k
		}
	}
	return nil
}

// ForeignKeys returns all declared foreign keys in declaration order.
func (e *EntityType) ForeignKeys() []*ForeignKey {
	result := make([]*ForeignKey, len(e.foreignKeys))
	copy(result, e.foreignKeys)
	return result
}

// AddForeignKey declares a foreign key from the given dependent properties
// to a key declared on the principal entity type. Dependent properties
// must belong to this entity and must not repeat; the principal key must
// actually be declared on its entity; and both property lists must be
// pairwise type-compatible.
func (e *EntityType) AddForeignKey(properties []*Property, principalKey *Key, unique bool) (*ForeignKey, error) {
	if len(properties) == 0 {
		return nil, newError(ErrInvalidConfiguration, e.name, "",
			"a foreign key requires at least one property")
	}
	if principalKey == nil {
		return nil, newError(ErrInvalidConfiguration, e.name, "",
			"a foreign key requires a principal key")
	}

	seen := make(map[*Property]bool, len(properties))
	for _, p := range properties {
		if p.entityType != e {
			return nil, newError(ErrInvalidConfiguration, e.name, p.name,
				"foreign key property belongs to entity type %s", p.entityType.name)
		}
		if seen[p] {
			return nil, newError(ErrRelationshipMismatch, e.name, p.name,
				"duplicate property in foreign key %s", FormatProperties(properties))
		}
		seen[p] = true
	}

	principal := principalKey.entityType
	if principal.FindKey(principalKey.properties) != principalKey {
		return nil, newError(ErrRelationshipMismatch, e.name, "",
			"principal key %s is not declared on entity type %s",
			FormatProperties(principalKey.properties), principal.name)
	}

	if err := EnsureCompatible(principalKey.properties, properties); err != nil {
		return nil, err
	}

	fk := &ForeignKey{
		dependentType: e,
		properties:    append([]*Property(nil), properties...),
		principalKey:  principalKey,
		unique:        unique,
	}
	e.foreignKeys = append(e.foreignKeys, fk)
	return fk, nil
}

// RemoveForeignKey removes a declared foreign key.
func (e *EntityType) RemoveForeignKey(fk *ForeignKey) error {
	for i, candidate := range e.foreignKeys {
		if candidate == fk {
			e.foreignKeys = append(e.foreignKeys[:i], e.foreignKeys[i+1:]...)
			return nil
		}
	}
	return newError(ErrNotFound, e.name, "", "foreign key is not declared on this entity type")
}

// removeForeignKeysTo detaches every foreign key whose principal is the
// given entity type. Invoked by the model when a principal entity is
// removed; entity types do not know about each other directly.
func (e *EntityType) removeForeignKeysTo(principal *EntityType) {
	kept := e.foreignKeys[:0]
	for _, fk := range e.foreignKeys {
		if fk.principalKey.entityType != principal {
			kept = append(kept, fk)
		}
	}
	e.foreignKeys = kept
}

// Indexes returns all declared indexes in declaration order.
func (e *EntityType) Indexes() []*Index {
	result := make([]*Index, len(e.indexes))
	copy(result, e.indexes)
	return result
}

// AddIndex declares an index over the given properties. Index properties
// must belong to this entity and must not repeat; a second index over the
// same property list is rejected.
func (e *EntityType) AddIndex(properties []*Property, unique bool) (*Index, error) {
	if len(properties) == 0 {
		return nil, newError(ErrInvalidConfiguration, e.name, "",
			"an index requires at least one property")
	}
	seen := make(map[*Property]bool, len(properties))
	for _, p := range properties {
		if p.entityType != e {
			return nil, newError(ErrInvalidConfiguration, e.name, p.name,
				"index property belongs to entity type %s", p.entityType.name)
		}
		if seen[p] {
			return nil, newError(ErrInvalidConfiguration, e.name, p.name,
				"duplicate property in index %s", FormatProperties(properties))
		}
		seen[p] = true
	}
	for _, idx := range e.indexes {
		if len(idx.properties) != len(properties) {
			continue
		}
		same := true
		for i := range properties {
			if idx.properties[i] != properties[i] {
				same = false
				break
			}
		}
		if same {
			return nil, newError(ErrInvalidConfiguration, e.name, "",
				"index %s is already declared", FormatProperties(properties))
		}
	}

	idx := &Index{
		entityType: e,
		properties: append([]*Property(nil), properties...),
		unique:     unique,
	}
	e.indexes = append(e.indexes, idx)
	return idx, nil
}

package metadata

import "reflect"

// Model is the top-level registry of entity types, keyed by name with a
// secondary lookup by Go type for entities that have one. The model is a
// single-writer, in-memory graph: it provides no internal locking, and
// readers are expected to see it only after construction is complete.
type Model struct {
	entities map[string]*EntityType
	byType   map[reflect.Type]*EntityType
	ordered  []*EntityType
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		entities: make(map[string]*EntityType),
		byType:   make(map[reflect.Type]*EntityType),
	}
}

// AddEntityType registers an entity type backed by a Go type. The entity
// name is the type's fully qualified name.
func (m *Model) AddEntityType(goType reflect.Type) (*EntityType, error) {
	if goType == nil {
		return nil, newError(ErrInvalidConfiguration, "", "",
			"entity type requires a Go type; use AddEntityTypeNamed for shadow entities")
	}
	name := TypeName(goType)
	if _, exists := m.entities[name]; exists {
		return nil, newError(ErrInvalidConfiguration, name, "",
			"entity type is already registered")
	}

	et := &EntityType{name: name, goType: goType, model: m}
	m.entities[name] = et
	m.byType[goType] = et
	m.ordered = append(m.ordered, et)
	return et, nil
}

// AddEntityTypeNamed registers a shadow entity type with no backing Go
// type, identified only by name.
func (m *Model) AddEntityTypeNamed(name string) (*EntityType, error) {
	if name == "" {
		return nil, newError(ErrInvalidConfiguration, "", "",
			"entity type name must not be empty")
	}
	if _, exists := m.entities[name]; exists {
		return nil, newError(ErrInvalidConfiguration, name, "",
			"entity type is already registered")
	}

	et := &EntityType{name: name, model: m}
	m.entities[name] = et
	m.ordered = append(m.ordered, et)
	return et, nil
}

// EntityType returns the entity type with the given name, or ErrNotFound.
func (m *Model) EntityType(name string) (*EntityType, error) {
	if et, ok := m.entities[name]; ok {
		return et, nil
	}
	return nil, newError(ErrNotFound, name, "", "entity type is not registered")
}

// EntityTypeOf returns the entity type registered for the exact Go type,
// or ErrNotFound.
func (m *Model) EntityTypeOf(goType reflect.Type) (*EntityType, error) {
	if et, ok := m.byType[goType]; ok {
		return et, nil
	}
	return nil, newError(ErrNotFound, "", "",
		"no entity type is registered for Go type %s", goType)
}

// FindEntityType returns the entity type with the given name, or nil.
func (m *Model) FindEntityType(name string) *EntityType {
	return m.entities[name]
}

// EntityTypes returns all registered entity types in registration order.
func (m *Model) EntityTypes() []*EntityType {
	result := make([]*EntityType, len(m.ordered))
	copy(result, m.ordered)
	return result
}

// RemoveEntityType unregisters an entity type. Foreign keys declared
// anywhere else in the model that reference the removed entity as
// principal are detached; this is the one cross-entity invariant the model
// enforces itself, because entity types do not know about each other.
func (m *Model) RemoveEntityType(name string) error {
	et, ok := m.entities[name]
	if !ok {
		return newError(ErrNotFound, name, "", "entity type is not registered")
	}

	for _, other := range m.ordered {
		if other != et {
			other.removeForeignKeysTo(et)
		}
	}

	delete(m.entities, name)
	if et.goType != nil {
		delete(m.byType, et.goType)
	}
	for i, candidate := range m.ordered {
		if candidate == et {
			m.ordered = append(m.ordered[:i], m.ordered[i+1:]...)
			break
		}
	}
	return nil
}

package metadata

// Key is a unique identifier for entity instances: an ordered list of
// properties declared on one entity type. A key holds references into the
// owning entity type's property set, never copies; order is significant
// because composite foreign keys correspond positionally.
type Key struct {
	entityType *EntityType
	properties []*Property
}

// EntityType returns the entity type the key is declared on.
func (k *Key) EntityType() *EntityType {
	return k.entityType
}

// Properties returns the key's properties in declaration order.
func (k *Key) Properties() []*Property {
	result := make([]*Property, len(k.properties))
	copy(result, k.properties)
	return result
}

// IsPrimary reports whether this key is its entity type's primary key.
func (k *Key) IsPrimary() bool {
	return k.entityType.primaryKey == k
}

// matches reports whether the key covers exactly the given property list,
// compared by identity and position.
func (k *Key) matches(properties []*Property) bool {
	if len(k.properties) != len(properties) {
		return false
	}
	for i := range properties {
		if k.properties[i] != properties[i] {
			return false
		}
	}
	return true
}

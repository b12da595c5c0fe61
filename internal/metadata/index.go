package metadata

// Index is a database index over an ordered list of properties of one
// entity type.
type Index struct {
	annotable

	entityType *EntityType
	properties []*Property
	unique     bool
}

// EntityType returns the entity type the index is declared on.
func (i *Index) EntityType() *EntityType {
	return i.entityType
}

// Properties returns the indexed properties in declaration order.
func (i *Index) Properties() []*Property {
	result := make([]*Property, len(i.properties))
	copy(result, i.properties)
	return result
}

// IsUnique reports whether the index enforces uniqueness.
func (i *Index) IsUnique() bool {
	return i.unique
}

// SetUnique marks the index as unique or non-unique.
func (i *Index) SetUnique(unique bool) {
	i.unique = unique
}

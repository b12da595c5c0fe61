package metadata

// ForeignKey links an ordered list of dependent-side properties to a
// declared key on the principal entity type. The principal key reference
// is the one sanctioned cross-entity link in the model; everything else a
// foreign key touches belongs to its own entity type.
type ForeignKey struct {
	dependentType *EntityType
	properties    []*Property
	principalKey  *Key
	unique        bool
}

// DependentType returns the entity type the foreign key is declared on.
func (f *ForeignKey) DependentType() *EntityType {
	return f.dependentType
}

// PrincipalType returns the entity type owning the referenced key.
func (f *ForeignKey) PrincipalType() *EntityType {
	return f.principalKey.entityType
}

// Properties returns the dependent-side properties in declaration order.
func (f *ForeignKey) Properties() []*Property {
	result := make([]*Property, len(f.properties))
	copy(result, f.properties)
	return result
}

// PrincipalKey returns the referenced key on the principal entity type.
func (f *ForeignKey) PrincipalKey() *Key {
	return f.principalKey
}

// IsUnique reports whether the relationship is one-to-one.
func (f *ForeignKey) IsUnique() bool {
	return f.unique
}

// SetUnique marks the relationship as one-to-one or one-to-many.
func (f *ForeignKey) SetUnique(unique bool) {
	f.unique = unique
}

package metadata

// annotable provides string-keyed annotation storage shared by properties,
// entity types, and indexes. The map is allocated lazily; a freshly created
// element carries no annotations.
type annotable struct {
	annotations map[string]string
}

// Annotation returns the annotation value for name and whether it is set.
func (a *annotable) Annotation(name string) (string, bool) {
	v, ok := a.annotations[name]
	return v, ok
}

// SetAnnotation sets the annotation name to value, replacing any previous
// value.
func (a *annotable) SetAnnotation(name, value string) {
	if a.annotations == nil {
		a.annotations = make(map[string]string)
	}
	a.annotations[name] = value
}

// RemoveAnnotation removes the annotation name and reports whether it was
// present.
func (a *annotable) RemoveAnnotation(name string) bool {
	_, ok := a.annotations[name]
	if ok {
		delete(a.annotations, name)
	}
	return ok
}

// Annotations returns a copy of all annotations.
func (a *annotable) Annotations() map[string]string {
	result := make(map[string]string, len(a.annotations))
	for k, v := range a.annotations {
		result[k] = v
	}
	return result
}

// propertyBase carries the identity and annotation storage shared by all
// property kinds: an immutable name plus annotable.
type propertyBase struct {
	annotable
	name string
}

// Name returns the property name.
func (b *propertyBase) Name() string {
	return b.name
}

package builder

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/strata-orm/strata/internal/metadata"
)

// EntityBuilder configures one entity type. A builder whose registration
// failed carries a nil entity type and turns every operation into a no-op;
// the failure is already recorded on the root builder.
type EntityBuilder struct {
	b  *Builder
	et *metadata.EntityType
}

// Metadata returns the entity type under construction, or nil if
// registration failed.
func (e *EntityBuilder) Metadata() *metadata.EntityType {
	return e.et
}

// Property configures the property with the given name. If the property is
// not declared yet, it is resolved by convention against the entity's Go
// type: an exported struct field with that name makes it a Go-backed
// property of the field's type. Entities without such a field need
// PropertyOf with an explicit type.
func (e *EntityBuilder) Property(name string) *PropertyBuilder {
	if e.et == nil {
		return &PropertyBuilder{eb: e}
	}
	if p := e.et.FindProperty(name); p != nil {
		return &PropertyBuilder{eb: e, p: p}
	}

	field, ok := e.structField(name)
	if !ok {
		e.b.addError(fmt.Errorf("entity %s: no field %s on %s; use PropertyOf to declare a shadow property",
			e.et.Name(), name, e.goTypeName()))
		return &PropertyBuilder{eb: e}
	}

	p, err := e.et.AddProperty(name, field.Type, false)
	if err != nil {
		e.b.addError(err)
		return &PropertyBuilder{eb: e}
	}
	e.b.log.Debug("declared property",
		zap.String("entity", e.et.Name()),
		zap.String("property", name),
		zap.String("type", field.Type.String()))
	return &PropertyBuilder{eb: e, p: p}
}

// PropertyOf configures the property with the given name and explicit
// type. If the entity's Go type has a matching exported field of the same
// underlying type, the property is Go-backed; otherwise it is declared as
// a shadow property.
func (e *EntityBuilder) PropertyOf(name string, goType reflect.Type) *PropertyBuilder {
	if e.et == nil {
		return &PropertyBuilder{eb: e}
	}
	if p := e.et.FindProperty(name); p != nil {
		return &PropertyBuilder{eb: e, p: p}
	}

	shadow := true
	if field, ok := e.structField(name); ok && field.Type == goType {
		shadow = false
	}

	p, err := e.et.AddProperty(name, goType, shadow)
	if err != nil {
		e.b.addError(err)
		return &PropertyBuilder{eb: e}
	}
	e.b.log.Debug("declared property",
		zap.String("entity", e.et.Name()),
		zap.String("property", name),
		zap.String("type", goType.String()),
		zap.Bool("shadow", shadow))
	return &PropertyBuilder{eb: e, p: p}
}

func (e *EntityBuilder) structField(name string) (reflect.StructField, bool) {
	goType := e.et.GoType()
	if goType == nil || goType.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	field, ok := goType.FieldByName(name)
	if !ok || !field.IsExported() {
		return reflect.StructField{}, false
	}
	return field, true
}

func (e *EntityBuilder) goTypeName() string {
	if t := e.et.GoType(); t != nil {
		return t.String()
	}
	return "<shadow entity>"
}

// Key declares the entity's primary key over the named properties.
func (e *EntityBuilder) Key(names ...string) *EntityBuilder {
	props, ok := e.resolve(names)
	if !ok {
		return e
	}
	if _, err := e.et.SetPrimaryKey(props); err != nil {
		e.b.addError(err)
	}
	return e
}

// AlternateKey declares an alternate key over the named properties.
func (e *EntityBuilder) AlternateKey(names ...string) *EntityBuilder {
	props, ok := e.resolve(names)
	if !ok {
		return e
	}
	if _, err := e.et.AddKey(props); err != nil {
		e.b.addError(err)
	}
	return e
}

// Index declares an index over the named properties.
func (e *EntityBuilder) Index(names ...string) *IndexBuilder {
	props, ok := e.resolve(names)
	if !ok {
		return &IndexBuilder{eb: e}
	}
	idx, err := e.et.AddIndex(props, false)
	if err != nil {
		e.b.addError(err)
		return &IndexBuilder{eb: e}
	}
	return &IndexBuilder{eb: e, idx: idx}
}

// ForeignKey starts a foreign key declaration over the named dependent
// properties; References completes it.
func (e *EntityBuilder) ForeignKey(names ...string) *ForeignKeyBuilder {
	props, ok := e.resolve(names)
	if !ok {
		return &ForeignKeyBuilder{eb: e}
	}
	return &ForeignKeyBuilder{eb: e, dependent: props}
}

func (e *EntityBuilder) resolve(names []string) ([]*metadata.Property, bool) {
	if e.et == nil {
		return nil, false
	}
	props := make([]*metadata.Property, 0, len(names))
	for _, name := range names {
		p, err := e.et.Property(name)
		if err != nil {
			e.b.addError(err)
			return nil, false
		}
		props = append(props, p)
	}
	return props, true
}

// IndexBuilder configures a declared index.
type IndexBuilder struct {
	eb  *EntityBuilder
	idx *metadata.Index
}

// Unique marks the index as unique.
func (i *IndexBuilder) Unique() *IndexBuilder {
	if i.idx != nil {
		i.idx.SetUnique(true)
	}
	return i
}

// Annotation sets an annotation on the index.
func (i *IndexBuilder) Annotation(name, value string) *IndexBuilder {
	if i.idx != nil {
		i.idx.SetAnnotation(name, value)
	}
	return i
}

// Metadata returns the index under construction, or nil on a failed chain.
func (i *IndexBuilder) Metadata() *metadata.Index {
	return i.idx
}

// ForeignKeyBuilder completes a foreign key declaration.
type ForeignKeyBuilder struct {
	eb        *EntityBuilder
	dependent []*metadata.Property
	fk        *metadata.ForeignKey
}

// References points the foreign key at a key of the named principal
// entity. With no property names the principal's primary key is used;
// otherwise the named properties must correspond to a declared key
// (primary or alternate) of the principal.
func (f *ForeignKeyBuilder) References(principalEntity string, names ...string) *ForeignKeyBuilder {
	if f.dependent == nil {
		return f
	}
	b := f.eb.b

	principal, err := b.model.EntityType(principalEntity)
	if err != nil {
		b.addError(err)
		return f
	}

	var key *metadata.Key
	if len(names) == 0 {
		key = principal.PrimaryKey()
		if key == nil {
			b.addError(fmt.Errorf("entity %s: foreign key references %s which has no primary key",
				f.eb.et.Name(), principalEntity))
			return f
		}
	} else {
		props := make([]*metadata.Property, 0, len(names))
		for _, name := range names {
			p, err := principal.Property(name)
			if err != nil {
				b.addError(err)
				return f
			}
			props = append(props, p)
		}
		key = principal.FindKey(props)
		if key == nil {
			b.addError(fmt.Errorf("entity %s: %s is not a declared key of %s",
				f.eb.et.Name(), metadata.FormatProperties(props), principalEntity))
			return f
		}
	}

	fk, err := f.eb.et.AddForeignKey(f.dependent, key, false)
	if err != nil {
		b.addError(err)
		return f
	}
	f.fk = fk
	b.log.Debug("declared foreign key",
		zap.String("dependent", f.eb.et.Name()),
		zap.String("principal", principalEntity))
	return f
}

// Unique marks the relationship as one-to-one.
func (f *ForeignKeyBuilder) Unique() *ForeignKeyBuilder {
	if f.fk != nil {
		f.fk.SetUnique(true)
	}
	return f
}

// Metadata returns the foreign key under construction, or nil on a failed
// chain.
func (f *ForeignKeyBuilder) Metadata() *metadata.ForeignKey {
	return f.fk
}

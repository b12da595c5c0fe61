package builder

import "github.com/strata-orm/strata/internal/metadata"

// PropertyBuilder configures one property. Chains on a failed property
// resolution are no-ops; the resolution error is already recorded on the
// root builder.
type PropertyBuilder struct {
	eb *EntityBuilder
	p  *metadata.Property
}

// Metadata returns the property under construction, or nil on a failed
// chain.
func (p *PropertyBuilder) Metadata() *metadata.Property {
	return p.p
}

func (p *PropertyBuilder) set(fn func(*metadata.Property) error) *PropertyBuilder {
	if p.p == nil {
		return p
	}
	if err := fn(p.p); err != nil {
		p.eb.b.addError(err)
	}
	return p
}

// Required marks the property as non-nullable.
func (p *PropertyBuilder) Required() *PropertyBuilder {
	f := false
	return p.set(func(prop *metadata.Property) error {
		return prop.SetNullable(&f)
	})
}

// Optional marks the property as nullable. Fails on value types with no
// nil representation.
func (p *PropertyBuilder) Optional() *PropertyBuilder {
	t := true
	return p.set(func(prop *metadata.Property) error {
		return prop.SetNullable(&t)
	})
}

// ReadOnly sets the read-only flag explicitly.
func (p *PropertyBuilder) ReadOnly(readOnly bool) *PropertyBuilder {
	return p.set(func(prop *metadata.Property) error {
		return prop.SetReadOnly(&readOnly)
	})
}

// ConcurrencyToken marks the property as an optimistic-concurrency token
// and reassigns original-value slots across the entity.
func (p *PropertyBuilder) ConcurrencyToken() *PropertyBuilder {
	t := true
	return p.set(func(prop *metadata.Property) error {
		prop.SetConcurrencyToken(&t)
		prop.EntityType().RecomputeLayout()
		return nil
	})
}

// GeneratedOnAdd marks the property's value as generated when an instance
// is first added.
func (p *PropertyBuilder) GeneratedOnAdd() *PropertyBuilder {
	t := true
	return p.set(func(prop *metadata.Property) error {
		prop.SetGenerateOnAdd(&t)
		return nil
	})
}

// StoreGenerated sets the store generation mode.
func (p *PropertyBuilder) StoreGenerated(mode metadata.StoreGeneration) *PropertyBuilder {
	return p.set(func(prop *metadata.Property) error {
		prop.SetStoreGeneration(&mode)
		return nil
	})
}

// Shadow reclassifies the property as shadow and reassigns the entity's
// layout slots.
func (p *PropertyBuilder) Shadow() *PropertyBuilder {
	return p.setShadow(true)
}

// Backed reclassifies the property as non-shadow and reassigns the
// entity's layout slots.
func (p *PropertyBuilder) Backed() *PropertyBuilder {
	return p.setShadow(false)
}

func (p *PropertyBuilder) setShadow(shadow bool) *PropertyBuilder {
	return p.set(func(prop *metadata.Property) error {
		if prop.IsShadow() != shadow {
			prop.SetShadow(shadow)
			prop.EntityType().RecomputeLayout()
		}
		return nil
	})
}

// Sentinel sets the value treated as "not set" for change detection.
func (p *PropertyBuilder) Sentinel(v interface{}) *PropertyBuilder {
	return p.set(func(prop *metadata.Property) error {
		prop.SetSentinel(v)
		return nil
	})
}

// Annotation sets an annotation on the property.
func (p *PropertyBuilder) Annotation(name, value string) *PropertyBuilder {
	return p.set(func(prop *metadata.Property) error {
		prop.SetAnnotation(name, value)
		return nil
	})
}

// Entity returns to the owning entity builder for further chaining.
func (p *PropertyBuilder) Entity() *EntityBuilder {
	return p.eb
}

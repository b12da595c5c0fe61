// Package builder provides the fluent configuration surface over the
// metadata model. It resolves conventions (Go-backed vs. shadow
// properties, default nullability, key-derived read-only) into concrete
// model mutations and keeps the entity layout recomputed after every
// classification change.
//
// Builders accumulate configuration errors instead of aborting the chain;
// Err reports everything collected once configuration is done. All
// failures are configuration defects surfaced at model-build time, never
// transient conditions.
package builder

import (
	"errors"
	"reflect"

	"go.uber.org/zap"

	"github.com/strata-orm/strata/internal/metadata"
)

// Builder is the root of the fluent configuration API.
type Builder struct {
	model *metadata.Model
	log   *zap.Logger
	errs  []error
}

// New creates a builder over a fresh model.
func New() *Builder {
	return NewWithModel(metadata.NewModel())
}

// NewWithModel creates a builder that configures an existing model.
func NewWithModel(model *metadata.Model) *Builder {
	return &Builder{
		model: model,
		log:   zap.NewNop(),
	}
}

// WithLogger attaches a logger; configuration decisions are logged at
// debug level.
func (b *Builder) WithLogger(log *zap.Logger) *Builder {
	if log != nil {
		b.log = log
	}
	return b
}

// Model returns the model under construction.
func (b *Builder) Model() *metadata.Model {
	return b.model
}

// Err returns every configuration error collected so far, joined, or nil.
func (b *Builder) Err() error {
	return errors.Join(b.errs...)
}

func (b *Builder) addError(err error) {
	if err != nil {
		b.errs = append(b.errs, err)
	}
}

// Entity returns an entity builder for the given Go type, registering the
// entity type on first use.
func (b *Builder) Entity(goType reflect.Type) *EntityBuilder {
	if et, err := b.model.EntityTypeOf(goType); err == nil {
		return &EntityBuilder{b: b, et: et}
	}

	et, err := b.model.AddEntityType(goType)
	if err != nil {
		b.addError(err)
		return &EntityBuilder{b: b}
	}
	b.log.Debug("registered entity type",
		zap.String("entity", et.Name()),
		zap.String("go_type", goType.String()))
	return &EntityBuilder{b: b, et: et}
}

// EntityNamed returns an entity builder for a shadow entity with the given
// name, registering it on first use.
func (b *Builder) EntityNamed(name string) *EntityBuilder {
	if et := b.model.FindEntityType(name); et != nil {
		return &EntityBuilder{b: b, et: et}
	}

	et, err := b.model.AddEntityTypeNamed(name)
	if err != nil {
		b.addError(err)
		return &EntityBuilder{b: b}
	}
	b.log.Debug("registered shadow entity type", zap.String("entity", name))
	return &EntityBuilder{b: b, et: et}
}

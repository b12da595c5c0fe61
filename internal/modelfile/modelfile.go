// Package modelfile loads declarative model definitions from YAML or JSON
// files and applies them through the builder. File-defined entities have
// no backing Go type, so every property they declare is a shadow property;
// nullability is expressed in the type string with a trailing "?".
package modelfile

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/strata-orm/strata/internal/metadata"
	"github.com/strata-orm/strata/internal/metadata/builder"
)

// Definition is the root of a model definition file.
type Definition struct {
	Entities []EntityDef `mapstructure:"entities"`
}

// EntityDef declares one entity.
type EntityDef struct {
	Name          string            `mapstructure:"name"`
	Properties    []PropertyDef     `mapstructure:"properties"`
	Key           []string          `mapstructure:"key"`
	AlternateKeys [][]string        `mapstructure:"alternate_keys"`
	ForeignKeys   []ForeignKeyDef   `mapstructure:"foreign_keys"`
	Indexes       []IndexDef        `mapstructure:"indexes"`
	Annotations   map[string]string `mapstructure:"annotations"`
}

// PropertyDef declares one property.
type PropertyDef struct {
	Name            string            `mapstructure:"name"`
	Type            string            `mapstructure:"type"`
	Nullable        *bool             `mapstructure:"nullable"`
	ReadOnly        *bool             `mapstructure:"read_only"`
	Concurrency     bool              `mapstructure:"concurrency"`
	GeneratedOnAdd  bool              `mapstructure:"generated_on_add"`
	StoreGeneration string            `mapstructure:"store_generation"`
	Annotations     map[string]string `mapstructure:"annotations"`
}

// ForeignKeyDef declares one foreign key.
type ForeignKeyDef struct {
	Properties   []string `mapstructure:"properties"`
	Principal    string   `mapstructure:"principal"`
	PrincipalKey []string `mapstructure:"principal_key"`
	Unique       bool     `mapstructure:"unique"`
}

// IndexDef declares one index.
type IndexDef struct {
	Properties []string `mapstructure:"properties"`
	Unique     bool     `mapstructure:"unique"`
}

// baseTypes maps type-string names to Go types. A trailing "?" wraps the
// type in a pointer, making it nullable.
var baseTypes = map[string]reflect.Type{
	"string":  reflect.TypeOf(""),
	"int":     reflect.TypeOf(int(0)),
	"int16":   reflect.TypeOf(int16(0)),
	"int32":   reflect.TypeOf(int32(0)),
	"int64":   reflect.TypeOf(int64(0)),
	"uint":    reflect.TypeOf(uint(0)),
	"uint64":  reflect.TypeOf(uint64(0)),
	"float32": reflect.TypeOf(float32(0)),
	"float64": reflect.TypeOf(float64(0)),
	"bool":    reflect.TypeOf(false),
	"time":    reflect.TypeOf(time.Time{}),
	"uuid":    reflect.TypeOf(uuid.UUID{}),
	"bytes":   reflect.TypeOf([]byte(nil)),
}

// ParseType resolves a type string like "int", "int?", or "uuid" to a Go
// type.
func ParseType(s string) (reflect.Type, error) {
	name := strings.TrimSuffix(s, "?")
	base, ok := baseTypes[name]
	if !ok {
		return nil, fmt.Errorf("unknown property type: %s", s)
	}
	if strings.HasSuffix(s, "?") {
		return reflect.PointerTo(base), nil
	}
	return base, nil
}

// Load reads a model definition from a YAML or JSON file.
func Load(path string) (*Definition, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read model file %s: %w", path, err)
	}

	var def Definition
	if err := v.Unmarshal(&def); err != nil {
		return nil, fmt.Errorf("failed to parse model file %s: %w", path, err)
	}
	if len(def.Entities) == 0 {
		return nil, fmt.Errorf("model file %s declares no entities", path)
	}
	return &def, nil
}

// Apply drives the builder with the definition. Entities and properties
// are declared in two passes so foreign keys can reference entities
// defined later in the file.
func (d *Definition) Apply(b *builder.Builder) error {
	for _, entity := range d.Entities {
		eb := b.EntityNamed(entity.Name)
		if eb.Metadata() == nil {
			continue
		}
		for name, value := range entity.Annotations {
			eb.Metadata().SetAnnotation(name, value)
		}

		for _, prop := range entity.Properties {
			if err := applyProperty(eb, prop); err != nil {
				return err
			}
		}
		if len(entity.Key) > 0 {
			eb.Key(entity.Key...)
		}
		for _, alt := range entity.AlternateKeys {
			eb.AlternateKey(alt...)
		}
		for _, idx := range entity.Indexes {
			ib := eb.Index(idx.Properties...)
			if idx.Unique {
				ib.Unique()
			}
		}
	}

	for _, entity := range d.Entities {
		eb := b.EntityNamed(entity.Name)
		for _, fk := range entity.ForeignKeys {
			fb := eb.ForeignKey(fk.Properties...).References(fk.Principal, fk.PrincipalKey...)
			if fk.Unique {
				fb.Unique()
			}
		}
	}

	return b.Err()
}

func applyProperty(eb *builder.EntityBuilder, def PropertyDef) error {
	goType, err := ParseType(def.Type)
	if err != nil {
		return fmt.Errorf("property %s: %w", def.Name, err)
	}

	pb := eb.PropertyOf(def.Name, goType)
	if def.Nullable != nil {
		if *def.Nullable {
			pb.Optional()
		} else {
			pb.Required()
		}
	}
	if def.ReadOnly != nil {
		pb.ReadOnly(*def.ReadOnly)
	}
	if def.Concurrency {
		pb.ConcurrencyToken()
	}
	if def.GeneratedOnAdd {
		pb.GeneratedOnAdd()
	}
	if def.StoreGeneration != "" {
		mode, err := metadata.ParseStoreGeneration(def.StoreGeneration)
		if err != nil {
			return fmt.Errorf("property %s: %w", def.Name, err)
		}
		pb.StoreGenerated(mode)
	}
	for name, value := range def.Annotations {
		pb.Annotation(name, value)
	}
	return nil
}

// Build is a convenience wrapper: load a definition and apply it to a
// fresh builder, returning the finished model.
func Build(path string) (*metadata.Model, error) {
	def, err := Load(path)
	if err != nil {
		return nil, err
	}
	b := builder.New()
	if err := def.Apply(b); err != nil {
		return nil, err
	}
	return b.Model(), nil
}

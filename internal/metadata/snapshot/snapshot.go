// Package snapshot captures a metadata model as an immutable, serializable
// value: a point-in-time copy of every entity type, property, key, foreign
// key, and index, suitable for persisting, transporting, and diffing
// against a later revision of the same model.
package snapshot

import (
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/strata-orm/strata/internal/metadata"
)

// ModelSnapshot is the top-level container for a captured model.
type ModelSnapshot struct {
	ID       string           `json:"id"`       // Unique snapshot identifier
	Taken    time.Time        `json:"taken"`    // Capture timestamp
	Entities []EntitySnapshot `json:"entities"` // All entity types, sorted by name
}

// EntitySnapshot captures one entity type.
type EntitySnapshot struct {
	Name        string               `json:"name"`
	GoType      string               `json:"go_type,omitempty"` // Empty for shadow entities
	Properties  []PropertySnapshot   `json:"properties"`
	PrimaryKey  []string             `json:"primary_key,omitempty"`
	Keys        [][]string           `json:"keys,omitempty"` // Alternate keys
	ForeignKeys []ForeignKeySnapshot `json:"foreign_keys,omitempty"`
	Indexes     []IndexSnapshot      `json:"indexes,omitempty"`
	Annotations map[string]string    `json:"annotations,omitempty"`
}

// PropertySnapshot captures one property with its effective configuration.
type PropertySnapshot struct {
	Name               string            `json:"name"`
	Type               string            `json:"type"`
	Shadow             bool              `json:"shadow,omitempty"`
	Nullable           bool              `json:"nullable"`
	ReadOnly           bool              `json:"read_only"`
	ConcurrencyToken   bool              `json:"concurrency_token,omitempty"`
	GeneratedOnAdd     bool              `json:"generated_on_add,omitempty"`
	StoreGeneration    string            `json:"store_generation"`
	Index              int               `json:"index"`
	ShadowIndex        int               `json:"shadow_index"`
	OriginalValueIndex int               `json:"original_value_index"`
	Annotations        map[string]string `json:"annotations,omitempty"`
}

// ForeignKeySnapshot captures one foreign key by names.
type ForeignKeySnapshot struct {
	Properties          []string `json:"properties"`
	PrincipalEntity     string   `json:"principal_entity"`
	PrincipalProperties []string `json:"principal_properties"`
	Unique              bool     `json:"unique,omitempty"`
}

// IndexSnapshot captures one index by names.
type IndexSnapshot struct {
	Properties  []string          `json:"properties"`
	Unique      bool              `json:"unique,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// Take captures the current state of a model.
func Take(m *metadata.Model) *ModelSnapshot {
	snap := &ModelSnapshot{
		ID:    uuid.New().String(),
		Taken: time.Now().UTC(),
	}

	for _, et := range m.EntityTypes() {
		snap.Entities = append(snap.Entities, takeEntity(et))
	}
	sort.Slice(snap.Entities, func(i, j int) bool {
		return snap.Entities[i].Name < snap.Entities[j].Name
	})
	return snap
}

func takeEntity(et *metadata.EntityType) EntitySnapshot {
	es := EntitySnapshot{
		Name:        et.Name(),
		Annotations: nonEmpty(et.Annotations()),
	}
	if t := et.GoType(); t != nil {
		es.GoType = t.String()
	}

	for _, p := range et.Properties() {
		es.Properties = append(es.Properties, takeProperty(p))
	}

	if pk := et.PrimaryKey(); pk != nil {
		es.PrimaryKey = propertyNames(pk.Properties())
	}
	for _, k := range et.Keys() {
		if !k.IsPrimary() {
			es.Keys = append(es.Keys, propertyNames(k.Properties()))
		}
	}

	for _, fk := range et.ForeignKeys() {
		es.ForeignKeys = append(es.ForeignKeys, ForeignKeySnapshot{
			Properties:          propertyNames(fk.Properties()),
			PrincipalEntity:     fk.PrincipalType().Name(),
			PrincipalProperties: propertyNames(fk.PrincipalKey().Properties()),
			Unique:              fk.IsUnique(),
		})
	}

	for _, idx := range et.Indexes() {
		es.Indexes = append(es.Indexes, IndexSnapshot{
			Properties:  propertyNames(idx.Properties()),
			Unique:      idx.IsUnique(),
			Annotations: nonEmpty(idx.Annotations()),
		})
	}
	return es
}

func takeProperty(p *metadata.Property) PropertySnapshot {
	return PropertySnapshot{
		Name:               p.Name(),
		Type:               p.GoType().String(),
		Shadow:             p.IsShadow(),
		Nullable:           p.IsNullable(),
		ReadOnly:           p.IsReadOnly(),
		ConcurrencyToken:   p.IsConcurrencyToken(),
		GeneratedOnAdd:     p.IsGeneratedOnAdd(),
		StoreGeneration:    p.EffectiveStoreGeneration().String(),
		Index:              p.Index(),
		ShadowIndex:        p.ShadowIndex(),
		OriginalValueIndex: p.OriginalValueIndex(),
		Annotations:        nonEmpty(p.Annotations()),
	}
}

func propertyNames(props []*metadata.Property) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name()
	}
	return names
}

func nonEmpty(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}

// Entity returns the entity snapshot with the given name, or nil.
func (s *ModelSnapshot) Entity(name string) *EntitySnapshot {
	for i := range s.Entities {
		if s.Entities[i].Name == name {
			return &s.Entities[i]
		}
	}
	return nil
}

// Property returns the property snapshot with the given name, or nil.
func (e *EntitySnapshot) Property(name string) *PropertySnapshot {
	for i := range e.Properties {
		if e.Properties[i].Name == name {
			return &e.Properties[i]
		}
	}
	return nil
}

// Encode writes the snapshot as indented JSON.
func (s *ModelSnapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Decode reads a snapshot from JSON.
func Decode(r io.Reader) (*ModelSnapshot, error) {
	var s ModelSnapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

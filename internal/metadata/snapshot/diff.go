package snapshot

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ChangeType classifies a detected difference between two snapshots.
type ChangeType int

const (
	ChangeAddEntity ChangeType = iota
	ChangeDropEntity
	ChangeAddProperty
	ChangeDropProperty
	ChangeModifyProperty
	ChangeModifyKey
	ChangeAddForeignKey
	ChangeDropForeignKey
	ChangeAddIndex
	ChangeDropIndex
)

// String returns the string representation of the change type.
func (c ChangeType) String() string {
	switch c {
	case ChangeAddEntity:
		return "add_entity"
	case ChangeDropEntity:
		return "drop_entity"
	case ChangeAddProperty:
		return "add_property"
	case ChangeDropProperty:
		return "drop_property"
	case ChangeModifyProperty:
		return "modify_property"
	case ChangeModifyKey:
		return "modify_key"
	case ChangeAddForeignKey:
		return "add_foreign_key"
	case ChangeDropForeignKey:
		return "drop_foreign_key"
	case ChangeAddIndex:
		return "add_index"
	case ChangeDropIndex:
		return "drop_index"
	default:
		return "unknown"
	}
}

// Change is one detected difference between two snapshots of a model.
type Change struct {
	Type     ChangeType
	Entity   string
	Property string
	Detail   string
}

// String formats the change for display.
func (c Change) String() string {
	var b strings.Builder
	b.WriteString(c.Type.String())
	b.WriteString(" ")
	b.WriteString(c.Entity)
	if c.Property != "" {
		b.WriteString(".")
		b.WriteString(c.Property)
	}
	if c.Detail != "" {
		b.WriteString(" (")
		b.WriteString(c.Detail)
		b.WriteString(")")
	}
	return b.String()
}

// Diff computes the changes that turn the old snapshot into the new one.
// Entities and properties are matched by name; ordering of the result is
// deterministic (entity name, then kind of change).
func Diff(old, new *ModelSnapshot) []Change {
	var changes []Change

	oldNames := entityNames(old)
	newNames := entityNames(new)

	for _, name := range setDifference(newNames, oldNames) {
		changes = append(changes, Change{Type: ChangeAddEntity, Entity: name})
	}
	for _, name := range setDifference(oldNames, newNames) {
		changes = append(changes, Change{Type: ChangeDropEntity, Entity: name})
	}
	for _, name := range setIntersection(oldNames, newNames) {
		changes = append(changes, diffEntity(old.Entity(name), new.Entity(name))...)
	}
	return changes
}

func diffEntity(old, new *EntitySnapshot) []Change {
	var changes []Change

	oldProps := propertySnapshotNames(old)
	newProps := propertySnapshotNames(new)

	for _, name := range setDifference(newProps, oldProps) {
		changes = append(changes, Change{Type: ChangeAddProperty, Entity: new.Name, Property: name})
	}
	for _, name := range setDifference(oldProps, newProps) {
		changes = append(changes, Change{Type: ChangeDropProperty, Entity: old.Name, Property: name})
	}
	for _, name := range setIntersection(oldProps, newProps) {
		op, np := old.Property(name), new.Property(name)
		if detail := describePropertyChange(op, np); detail != "" {
			changes = append(changes, Change{
				Type:     ChangeModifyProperty,
				Entity:   new.Name,
				Property: name,
				Detail:   detail,
			})
		}
	}

	if !reflect.DeepEqual(old.PrimaryKey, new.PrimaryKey) || !reflect.DeepEqual(old.Keys, new.Keys) {
		changes = append(changes, Change{
			Type:   ChangeModifyKey,
			Entity: new.Name,
			Detail: fmt.Sprintf("%v -> %v", old.PrimaryKey, new.PrimaryKey),
		})
	}

	changes = append(changes, diffForeignKeys(old, new)...)
	changes = append(changes, diffIndexes(old, new)...)
	return changes
}

func describePropertyChange(old, new *PropertySnapshot) string {
	var parts []string
	if old.Type != new.Type {
		parts = append(parts, fmt.Sprintf("type %s -> %s", old.Type, new.Type))
	}
	if old.Shadow != new.Shadow {
		parts = append(parts, fmt.Sprintf("shadow %v -> %v", old.Shadow, new.Shadow))
	}
	if old.Nullable != new.Nullable {
		parts = append(parts, fmt.Sprintf("nullable %v -> %v", old.Nullable, new.Nullable))
	}
	if old.ReadOnly != new.ReadOnly {
		parts = append(parts, fmt.Sprintf("read_only %v -> %v", old.ReadOnly, new.ReadOnly))
	}
	if old.ConcurrencyToken != new.ConcurrencyToken {
		parts = append(parts, fmt.Sprintf("concurrency_token %v -> %v", old.ConcurrencyToken, new.ConcurrencyToken))
	}
	if old.GeneratedOnAdd != new.GeneratedOnAdd {
		parts = append(parts, fmt.Sprintf("generated_on_add %v -> %v", old.GeneratedOnAdd, new.GeneratedOnAdd))
	}
	if old.StoreGeneration != new.StoreGeneration {
		parts = append(parts, fmt.Sprintf("store_generation %s -> %s", old.StoreGeneration, new.StoreGeneration))
	}
	return strings.Join(parts, ", ")
}

func diffForeignKeys(old, new *EntitySnapshot) []Change {
	var changes []Change
	for _, fk := range new.ForeignKeys {
		if !containsForeignKey(old.ForeignKeys, fk) {
			changes = append(changes, Change{
				Type:   ChangeAddForeignKey,
				Entity: new.Name,
				Detail: fmt.Sprintf("%v -> %s%v", fk.Properties, fk.PrincipalEntity, fk.PrincipalProperties),
			})
		}
	}
	for _, fk := range old.ForeignKeys {
		if !containsForeignKey(new.ForeignKeys, fk) {
			changes = append(changes, Change{
				Type:   ChangeDropForeignKey,
				Entity: old.Name,
				Detail: fmt.Sprintf("%v -> %s%v", fk.Properties, fk.PrincipalEntity, fk.PrincipalProperties),
			})
		}
	}
	return changes
}

func containsForeignKey(fks []ForeignKeySnapshot, fk ForeignKeySnapshot) bool {
	for _, candidate := range fks {
		if reflect.DeepEqual(candidate, fk) {
			return true
		}
	}
	return false
}

func diffIndexes(old, new *EntitySnapshot) []Change {
	var changes []Change
	for _, idx := range new.Indexes {
		if !containsIndex(old.Indexes, idx) {
			changes = append(changes, Change{
				Type:   ChangeAddIndex,
				Entity: new.Name,
				Detail: fmt.Sprintf("%v unique=%v", idx.Properties, idx.Unique),
			})
		}
	}
	for _, idx := range old.Indexes {
		if !containsIndex(new.Indexes, idx) {
			changes = append(changes, Change{
				Type:   ChangeDropIndex,
				Entity: old.Name,
				Detail: fmt.Sprintf("%v unique=%v", idx.Properties, idx.Unique),
			})
		}
	}
	return changes
}

func containsIndex(indexes []IndexSnapshot, idx IndexSnapshot) bool {
	for _, candidate := range indexes {
		if reflect.DeepEqual(candidate, idx) {
			return true
		}
	}
	return false
}

func entityNames(s *ModelSnapshot) []string {
	names := make([]string, len(s.Entities))
	for i := range s.Entities {
		names[i] = s.Entities[i].Name
	}
	sort.Strings(names)
	return names
}

func propertySnapshotNames(e *EntitySnapshot) []string {
	names := make([]string, len(e.Properties))
	for i := range e.Properties {
		names[i] = e.Properties[i].Name
	}
	sort.Strings(names)
	return names
}

// setDifference returns elements of a not present in b; both inputs must
// be sorted.
func setDifference(a, b []string) []string {
	var result []string
	inB := make(map[string]bool, len(b))
	for _, s := range b {
		inB[s] = true
	}
	for _, s := range a {
		if !inB[s] {
			result = append(result, s)
		}
	}
	return result
}

// setIntersection returns elements present in both a and b; both inputs
// must be sorted.
func setIntersection(a, b []string) []string {
	var result []string
	inB := make(map[string]bool, len(b))
	for _, s := range b {
		inB[s] = true
	}
	for _, s := range a {
		if inB[s] {
			result = append(result, s)
		}
	}
	return result
}

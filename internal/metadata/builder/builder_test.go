package builder

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-orm/strata/internal/metadata"
)

type Customer struct {
	Id   int
	Name string
}

type Order struct {
	Id         int
	CustomerId int
	Total      float64
}

func TestEntityConventions(t *testing.T) {
	t.Run("struct field resolves a Go-backed property", func(t *testing.T) {
		b := New()
		p := b.Entity(reflect.TypeOf(Customer{})).Property("Name").Metadata()

		require.NoError(t, b.Err())
		require.NotNil(t, p)
		assert.Equal(t, reflect.TypeOf(""), p.GoType())
		assert.False(t, p.IsShadow())
	})

	t.Run("missing field requires PropertyOf", func(t *testing.T) {
		b := New()
		p := b.Entity(reflect.TypeOf(Customer{})).Property("LastSeen").Metadata()

		assert.Nil(t, p)
		assert.Error(t, b.Err())
	})

	t.Run("PropertyOf without a field declares a shadow property", func(t *testing.T) {
		b := New()
		eb := b.Entity(reflect.TypeOf(Customer{}))
		p := eb.PropertyOf("Version", reflect.TypeOf(int64(0))).Metadata()

		require.NoError(t, b.Err())
		require.NotNil(t, p)
		assert.True(t, p.IsShadow())
		assert.Equal(t, 0, p.ShadowIndex())
	})

	t.Run("PropertyOf with a matching field stays Go-backed", func(t *testing.T) {
		b := New()
		p := b.Entity(reflect.TypeOf(Customer{})).
			PropertyOf("Id", reflect.TypeOf(0)).Metadata()

		require.NoError(t, b.Err())
		require.NotNil(t, p)
		assert.False(t, p.IsShadow())
	})

	t.Run("shadow entity properties are always shadow", func(t *testing.T) {
		b := New()
		eb := b.EntityNamed("Ledger")
		p := eb.PropertyOf("Balance", reflect.TypeOf(int64(0))).Metadata()

		require.NoError(t, b.Err())
		require.NotNil(t, p)
		assert.Nil(t, eb.Metadata().GoType())
		assert.True(t, p.IsShadow())
	})

	t.Run("repeated Entity calls return the same entity type", func(t *testing.T) {
		b := New()
		first := b.Entity(reflect.TypeOf(Customer{})).Metadata()
		second := b.Entity(reflect.TypeOf(Customer{})).Metadata()
		assert.Same(t, first, second)
	})
}

func TestPropertyConfiguration(t *testing.T) {
	t.Run("flags flow through to the model", func(t *testing.T) {
		b := New()
		eb := b.Entity(reflect.TypeOf(Order{}))
		eb.Property("Id").Required().StoreGenerated(metadata.StoreGenerationIdentity).GeneratedOnAdd()
		eb.PropertyOf("Version", reflect.TypeOf(int64(0))).ConcurrencyToken()
		eb.Key("Id")
		require.NoError(t, b.Err())

		et := eb.Metadata()
		id, err := et.Property("Id")
		require.NoError(t, err)
		assert.False(t, id.IsNullable())
		assert.True(t, id.IsGeneratedOnAdd())
		assert.True(t, id.IsReadOnly())
		assert.Equal(t, metadata.StoreGenerationIdentity, id.EffectiveStoreGeneration())

		version, err := et.Property("Version")
		require.NoError(t, err)
		assert.True(t, version.IsConcurrencyToken())
		assert.Equal(t, 0, version.OriginalValueIndex())
	})

	t.Run("optional on a value type is collected as an error", func(t *testing.T) {
		b := New()
		b.Entity(reflect.TypeOf(Order{})).Property("Total").Optional()

		err := b.Err()
		require.Error(t, err)
		assert.ErrorIs(t, err, metadata.ErrInvalidConfiguration)
	})

	t.Run("reclassification shifts shadow slots", func(t *testing.T) {
		b := New()
		eb := b.EntityNamed("Quarks")
		eb.PropertyOf("Up", reflect.TypeOf(0))
		eb.PropertyOf("Down", reflect.TypeOf(""))
		eb.PropertyOf("Charm", reflect.TypeOf(0))
		eb.PropertyOf("Strange", reflect.TypeOf(0))
		require.NoError(t, b.Err())

		eb.Property("Charm").Backed()
		require.NoError(t, b.Err())

		et := eb.Metadata()
		charm := et.FindProperty("Charm")
		strange := et.FindProperty("Strange")
		assert.Equal(t, 2, charm.Index())
		assert.Equal(t, -1, charm.ShadowIndex())
		assert.Equal(t, 2, strange.ShadowIndex(), "remaining shadow slots stay contiguous")
	})
}

func TestRelationships(t *testing.T) {
	buildPrincipal := func(b *Builder) *EntityBuilder {
		eb := b.Entity(reflect.TypeOf(Customer{}))
		eb.Property("Id").Required()
		eb.Property("Name")
		eb.Key("Id")
		return eb
	}

	t.Run("references the principal primary key by default", func(t *testing.T) {
		b := New()
		buildPrincipal(b)

		orders := b.Entity(reflect.TypeOf(Order{}))
		orders.Property("Id").Required()
		orders.Property("CustomerId")
		orders.Key("Id")
		fk := orders.ForeignKey("CustomerId").
			References(metadata.TypeName(reflect.TypeOf(Customer{}))).
			Metadata()

		require.NoError(t, b.Err())
		require.NotNil(t, fk)
		assert.True(t, fk.PrincipalKey().IsPrimary())
	})

	t.Run("references an alternate key by property names", func(t *testing.T) {
		b := New()
		principal := buildPrincipal(b)
		principal.Property("Name").Required()
		principal.AlternateKey("Name")

		deps := b.EntityNamed("Invoice")
		deps.PropertyOf("CustomerName", reflect.TypeOf(""))
		fk := deps.ForeignKey("CustomerName").
			References(metadata.TypeName(reflect.TypeOf(Customer{})), "Name").
			Metadata()

		require.NoError(t, b.Err())
		require.NotNil(t, fk)
		assert.False(t, fk.PrincipalKey().IsPrimary())
	})

	t.Run("a non-key principal property list is rejected", func(t *testing.T) {
		b := New()
		buildPrincipal(b)

		deps := b.EntityNamed("Invoice")
		deps.PropertyOf("CustomerName", reflect.TypeOf(""))
		fk := deps.ForeignKey("CustomerName").
			References(metadata.TypeName(reflect.TypeOf(Customer{})), "Name").
			Metadata()

		assert.Nil(t, fk)
		assert.Error(t, b.Err())
	})

	t.Run("count mismatch surfaces the relationship error", func(t *testing.T) {
		b := New()
		principal := buildPrincipal(b)
		principal.Property("Name").Required()
		principal.AlternateKey("Id", "Name")

		orders := b.Entity(reflect.TypeOf(Order{}))
		orders.Property("CustomerId")
		orders.ForeignKey("CustomerId").
			References(metadata.TypeName(reflect.TypeOf(Customer{})), "Id", "Name")

		assert.ErrorIs(t, b.Err(), metadata.ErrRelationshipMismatch)
	})

	t.Run("unique relationship", func(t *testing.T) {
		b := New()
		buildPrincipal(b)

		profile := b.EntityNamed("Profile")
		profile.PropertyOf("CustomerId", reflect.TypeOf(0))
		fk := profile.ForeignKey("CustomerId").
			References(metadata.TypeName(reflect.TypeOf(Customer{}))).
			Unique().
			Metadata()

		require.NoError(t, b.Err())
		require.NotNil(t, fk)
		assert.True(t, fk.IsUnique())
	})
}

func TestIndexesAndAnnotations(t *testing.T) {
	b := New()
	eb := b.Entity(reflect.TypeOf(Customer{}))
	eb.Property("Id").Required().Annotation("column", "id")
	eb.Property("Name")
	idx := eb.Index("Name").Unique().Annotation("method", "btree").Metadata()

	require.NoError(t, b.Err())
	require.NotNil(t, idx)
	assert.True(t, idx.IsUnique())

	method, ok := idx.Annotation("method")
	assert.True(t, ok)
	assert.Equal(t, "btree", method)

	id, err := eb.Metadata().Property("Id")
	require.NoError(t, err)
	column, ok := id.Annotation("column")
	assert.True(t, ok)
	assert.Equal(t, "id", column)
}

func TestErrorAccumulation(t *testing.T) {
	b := New()
	eb := b.Entity(reflect.TypeOf(Customer{}))
	eb.Property("Missing")
	eb.Property("AlsoMissing")
	eb.Key("Nope")

	err := b.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, metadata.ErrNotFound)
}

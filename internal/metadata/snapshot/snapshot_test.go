package snapshot

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-orm/strata/internal/metadata"
	"github.com/strata-orm/strata/internal/metadata/builder"
)

type Customer struct {
	Id   int
	Name string
}

func buildSampleModel(t *testing.T) *metadata.Model {
	t.Helper()
	b := builder.New()

	customers := b.Entity(reflect.TypeOf(Customer{}))
	customers.Property("Id").Required().StoreGenerated(metadata.StoreGenerationIdentity)
	customers.Property("Name")
	customers.PropertyOf("Version", reflect.TypeOf(int64(0))).ConcurrencyToken()
	customers.Key("Id")
	customers.Index("Name").Unique()

	orders := b.EntityNamed("Order")
	orders.PropertyOf("Id", reflect.TypeOf(0))
	orders.PropertyOf("CustomerId", reflect.TypeOf(0))
	orders.Key("Id")
	orders.ForeignKey("CustomerId").References(metadata.TypeName(reflect.TypeOf(Customer{})))

	require.NoError(t, b.Err())
	return b.Model()
}

func TestTake(t *testing.T) {
	m := buildSampleModel(t)
	snap := Take(m)

	assert.NotEmpty(t, snap.ID)
	assert.False(t, snap.Taken.IsZero())
	require.Len(t, snap.Entities, 2)

	// Entities are sorted by name; the shadow entity "Order" sorts first
	// against the package-qualified customer name.
	customer := snap.Entity(metadata.TypeName(reflect.TypeOf(Customer{})))
	require.NotNil(t, customer)
	assert.Equal(t, []string{"Id"}, customer.PrimaryKey)
	require.Len(t, customer.ForeignKeys, 0)
	require.Len(t, customer.Indexes, 1)
	assert.True(t, customer.Indexes[0].Unique)

	version := customer.Property("Version")
	require.NotNil(t, version)
	assert.True(t, version.Shadow)
	assert.True(t, version.ConcurrencyToken)
	assert.Equal(t, 0, version.ShadowIndex)
	assert.Equal(t, 0, version.OriginalValueIndex)
	assert.Equal(t, "identity", customer.Property("Id").StoreGeneration)

	order := snap.Entity("Order")
	require.NotNil(t, order)
	assert.Empty(t, order.GoType)
	require.Len(t, order.ForeignKeys, 1)
	assert.Equal(t, []string{"CustomerId"}, order.ForeignKeys[0].Properties)
	assert.Equal(t, []string{"Id"}, order.ForeignKeys[0].PrincipalProperties)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := buildSampleModel(t)
	snap := Take(m)

	var buf bytes.Buffer
	require.NoError(t, snap.Encode(&buf))

	decoded, err := Decode(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(snap, decoded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Diff(snap, decoded))
}

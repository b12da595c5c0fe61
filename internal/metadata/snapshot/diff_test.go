package snapshot

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-orm/strata/internal/metadata/builder"
)

func changesOfType(changes []Change, ct ChangeType) []Change {
	var result []Change
	for _, c := range changes {
		if c.Type == ct {
			result = append(result, c)
		}
	}
	return result
}

func TestDiff(t *testing.T) {
	t.Run("identical models produce no changes", func(t *testing.T) {
		a := Take(buildSampleModel(t))
		b := Take(buildSampleModel(t))
		assert.Empty(t, Diff(a, b))
	})

	t.Run("added and dropped entities", func(t *testing.T) {
		old := Take(buildSampleModel(t))

		b := builder.New()
		b.EntityNamed("Shipment").PropertyOf("Id", reflect.TypeOf(0))
		require.NoError(t, b.Err())
		updated := Take(b.Model())

		changes := Diff(old, updated)
		assert.Len(t, changesOfType(changes, ChangeAddEntity), 1)
		assert.Len(t, changesOfType(changes, ChangeDropEntity), 2)
	})

	t.Run("property modifications are described", func(t *testing.T) {
		build := func(concurrency bool) *ModelSnapshot {
			b := builder.New()
			eb := b.EntityNamed("Ledger")
			pb := eb.PropertyOf("Balance", reflect.TypeOf(int64(0)))
			if concurrency {
				pb.ConcurrencyToken()
			}
			require.NoError(t, b.Err())
			return Take(b.Model())
		}

		changes := Diff(build(false), build(true))
		mods := changesOfType(changes, ChangeModifyProperty)
		require.Len(t, mods, 1)
		assert.Equal(t, "Ledger", mods[0].Entity)
		assert.Equal(t, "Balance", mods[0].Property)
		assert.Contains(t, mods[0].Detail, "concurrency_token")
	})

	t.Run("key change is reported once", func(t *testing.T) {
		build := func(key string) *ModelSnapshot {
			b := builder.New()
			eb := b.EntityNamed("Ledger")
			eb.PropertyOf("Id", reflect.TypeOf(0))
			eb.PropertyOf("Code", reflect.TypeOf(0))
			eb.Key(key)
			require.NoError(t, b.Err())
			return Take(b.Model())
		}

		changes := Diff(build("Id"), build("Code"))
		keyChanges := changesOfType(changes, ChangeModifyKey)
		require.Len(t, keyChanges, 1)
		// Read-only defaults shift with key membership, so both
		// properties also report a modification.
		assert.Len(t, changesOfType(changes, ChangeModifyProperty), 2)
	})

	t.Run("foreign key and index changes", func(t *testing.T) {
		build := func(withFK bool) *ModelSnapshot {
			b := builder.New()
			principal := b.EntityNamed("Customer")
			principal.PropertyOf("Id", reflect.TypeOf(0))
			principal.Key("Id")

			orders := b.EntityNamed("Order")
			orders.PropertyOf("CustomerId", reflect.TypeOf(0))
			if withFK {
				orders.ForeignKey("CustomerId").References("Customer")
				orders.Index("CustomerId")
			}
			require.NoError(t, b.Err())
			return Take(b.Model())
		}

		changes := Diff(build(false), build(true))
		assert.Len(t, changesOfType(changes, ChangeAddForeignKey), 1)
		assert.Len(t, changesOfType(changes, ChangeAddIndex), 1)

		reverse := Diff(build(true), build(false))
		assert.Len(t, changesOfType(reverse, ChangeDropForeignKey), 1)
		assert.Len(t, changesOfType(reverse, ChangeDropIndex), 1)
	})
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetAbsentIsNilNil(t *testing.T) {
	st := NewMemoryStore()
	it, err := st.Get(context.Background(), "SHOW#missing", MetaSK)
	require.NoError(t, err)
	assert.Nil(t, it)
}

func TestMemoryStore_PutIfAbsent(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	item, err := NewItem("HANDLE#sax", MetaSK, "handle", "sax", map[string]string{"userId": "u1"})
	require.NoError(t, err)

	inserted, err := st.PutIfAbsent(ctx, item)
	require.NoError(t, err)
	assert.True(t, inserted)

	// Second claim loses, first row untouched.
	item2, err := NewItem("HANDLE#sax", MetaSK, "handle", "sax", map[string]string{"userId": "u2"})
	require.NoError(t, err)
	inserted, err = st.PutIfAbsent(ctx, item2)
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := st.Get(ctx, "HANDLE#sax", MetaSK)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.Attrs["userId"])
}

func TestMemoryStore_QueryByTypeOrderAndFilters(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	put := func(pk, entitySK string, attrs map[string]interface{}) {
		t.Helper()
		require.NoError(t, st.Put(ctx, Item{
			PK: pk, SK: MetaSK, EntityType: "update", EntitySK: entitySK, Attrs: attrs,
		}))
	}
	put("UPDATE#a", "2024-01-01T00:00:00Z#a", map[string]interface{}{"visible": true})
	put("UPDATE#b", "2024-03-01T00:00:00Z#b", map[string]interface{}{"visible": false})
	put("UPDATE#c", "2024-02-01T00:00:00Z#c", map[string]interface{}{"visible": true})

	all, err := st.QueryByType(ctx, "update", nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, "UPDATE#b", all[0].PK)
	assert.Equal(t, "UPDATE#c", all[1].PK)
	assert.Equal(t, "UPDATE#a", all[2].PK)

	visible, err := st.QueryByType(ctx, "update", map[string]interface{}{"visible": true})
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "UPDATE#c", visible[0].PK)
}

func TestMemoryStore_QueryPrefix(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	for _, sk := range []string{"GROUP#fanclub", "GROUP#street-team", "PROFILE"} {
		require.NoError(t, st.Put(ctx, Item{PK: "USER#u1", SK: sk, EntityType: "x"}))
	}
	require.NoError(t, st.Put(ctx, Item{PK: "USER#u2", SK: "GROUP#fanclub", EntityType: "x"}))

	rows, err := st.QueryPrefix(ctx, "USER#u1", "GROUP#")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "GROUP#fanclub", rows[0].SK)
	assert.Equal(t, "GROUP#street-team", rows[1].SK)
}

func TestLooseEqual_NumericNormalization(t *testing.T) {
	// Attrs round-trip through JSON, so numbers come back as float64
	// while filter values are typically ints.
	it := Item{Attrs: map[string]interface{}{"capacity": float64(250), "public": true}}

	assert.True(t, matchesFilters(it, map[string]interface{}{"capacity": 250}))
	assert.True(t, matchesFilters(it, map[string]interface{}{"public": true}))
	assert.False(t, matchesFilters(it, map[string]interface{}{"capacity": 300}))
	assert.False(t, matchesFilters(it, map[string]interface{}{"missing": 1}))
}

func TestItemRoundTrip(t *testing.T) {
	type venue struct {
		Name string `json:"name"`
		City string `json:"city"`
	}
	item, err := NewItem("VENUE#v1", MetaSK, "venue", "the mint#v1", venue{Name: "The Mint", City: "LA"})
	require.NoError(t, err)

	var got venue
	require.NoError(t, item.Decode(&got))
	assert.Equal(t, "The Mint", got.Name)
	assert.Equal(t, "LA", got.City)
}

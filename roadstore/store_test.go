package roadstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	road := &RoadConfig{
		RoadID:     "road-9",
		Name:       "Bypass",
		SpeedLimit: 80,
		LengthM:    1500,
		LaneID:     2,
		Weight:     1.4,
	}
	require.NoError(t, store.Put(road))
	assert.NotEmpty(t, road.UpdatedAt, "Put should stamp UpdatedAt")

	got, err := store.Get("road-9")
	require.NoError(t, err)
	assert.Equal(t, road, got)
}

func TestPutRejectsEmptyID(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.Put(&RoadConfig{Name: "unnamed"}))
}

func TestGetMissingRoad(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get("road-404")
	assert.ErrorIs(t, err, ErrRoadNotFound)
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put(&RoadConfig{RoadID: "road-1", Name: "Main"}))
	require.NoError(t, store.Delete("road-1"))

	_, err := store.Get("road-1")
	assert.ErrorIs(t, err, ErrRoadNotFound)

	assert.ErrorIs(t, store.Delete("road-1"), ErrRoadNotFound)
}

func TestSeedDefaults(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SeedDefaults())
	roads, err := store.List()
	require.NoError(t, err)
	require.Len(t, roads, 4)

	// Seeding again must not overwrite user changes.
	road, err := store.Get("road-1")
	require.NoError(t, err)
	road.SpeedLimit = 50
	require.NoError(t, store.Put(road))

	require.NoError(t, store.SeedDefaults())
	got, err := store.Get("road-1")
	require.NoError(t, err)
	assert.Equal(t, 50, got.SpeedLimit)
}

func TestListEmptyStore(t *testing.T) {
	store := openTestStore(t)

	roads, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, roads)
}

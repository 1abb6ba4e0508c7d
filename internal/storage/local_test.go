package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cjaerrors "github.com/cjatools/cjadrift/internal/errors"
	"github.com/cjatools/cjadrift/pkg/types"
)

func storedSnapshot(id string, createdAt time.Time) *types.Snapshot {
	return &types.Snapshot{
		SchemaVersion: types.SchemaVersion,
		CreatedAt:     createdAt,
		DataViewID:    id,
		DataViewName:  "Web Analytics",
		Metrics: []types.ComponentRecord{
			{"id": "m1", "name": "Revenue", "type": "currency"},
		},
		Dimensions: []types.ComponentRecord{
			{"id": "d1", "name": "Page", "type": "string"},
		},
		Metadata: types.SnapshotMetadata{ToolVersion: "test", MetricsCount: 1, DimensionsCount: 1},
	}
}

func TestLocalStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewLocal(nil)
	dir := t.TempDir()

	original := storedSnapshot("dv_123", time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC))
	path, err := store.Save(original, filepath.Join(dir, "nested", "snap.json"))
	require.NoError(t, err)

	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.DataViewID, loaded.DataViewID)
	assert.Equal(t, original.CreatedAt, loaded.CreatedAt)
	require.Len(t, loaded.Metrics, 1)
	assert.Equal(t, "Revenue", loaded.Metrics[0].Name())
}

func TestLocalStore_SaveRejectsInvalidSnapshot(t *testing.T) {
	store := NewLocal(nil)
	_, err := store.Save(&types.Snapshot{}, filepath.Join(t.TempDir(), "bad.json"))
	require.Error(t, err)
	assert.Equal(t, cjaerrors.KindValidation, cjaerrors.KindOf(err))
}

func TestLocalStore_LoadMissingFile(t *testing.T) {
	store := NewLocal(nil)
	_, err := store.Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, cjaerrors.IsNotFound(err))
}

func TestLocalStore_LoadMalformedJSON(t *testing.T) {
	store := NewLocal(nil)
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := store.Load(path)
	require.Error(t, err)
	assert.True(t, cjaerrors.IsFormat(err))
}

func TestLocalStore_LoadMissingVersionMarker(t *testing.T) {
	store := NewLocal(nil)
	path := filepath.Join(t.TempDir(), "unmarked.json")
	payload, _ := json.Marshal(map[string]any{
		"data_view_id": "dv_123",
		"created_at":   time.Now().UTC(),
	})
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	_, err := store.Load(path)
	require.Error(t, err)
	assert.True(t, cjaerrors.IsFormat(err))
}

func TestLocalStore_ListNewestFirst(t *testing.T) {
	store := NewLocal(nil)
	dir := t.TempDir()

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.json", "b.json", "c.json"} {
		snap := storedSnapshot("dv_123", base.Add(time.Duration(i)*time.Hour))
		_, err := store.Save(snap, filepath.Join(dir, name))
		require.NoError(t, err)
	}
	// noise that must be skipped
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.json"), []byte("nope"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	infos, err := store.List(dir)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.True(t, infos[0].CreatedAt.After(infos[1].CreatedAt))
	assert.True(t, infos[1].CreatedAt.After(infos[2].CreatedAt))
	assert.Equal(t, 1, infos[0].MetricsCount)
}

func TestLocalStore_ListMissingDir(t *testing.T) {
	store := NewLocal(nil)
	infos, err := store.List(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestLocalStore_ApplyRetention(t *testing.T) {
	store := NewLocal(nil)
	dir := t.TempDir()

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		snap := storedSnapshot("dv_123", base.Add(time.Duration(i)*time.Hour))
		_, err := store.Save(snap, DefaultSnapshotPath(dir, snap))
		require.NoError(t, err)
	}
	// another data view is untouched by retention
	other := storedSnapshot("dv_other", base)
	_, err := store.Save(other, DefaultSnapshotPath(dir, other))
	require.NoError(t, err)

	deleted := store.ApplyRetention(dir, "dv_123", 2)
	assert.Len(t, deleted, 3)

	infos, err := store.List(dir)
	require.NoError(t, err)
	assert.Len(t, infos, 3)

	var kept []time.Time
	for _, info := range infos {
		if info.DataViewID == "dv_123" {
			kept = append(kept, info.CreatedAt)
		}
	}
	require.Len(t, kept, 2)
	// the newest two survive
	assert.Equal(t, base.Add(4*time.Hour), kept[0])
	assert.Equal(t, base.Add(3*time.Hour), kept[1])
}

func TestLocalStore_ApplyRetentionDisabled(t *testing.T) {
	store := NewLocal(nil)
	dir := t.TempDir()
	snap := storedSnapshot("dv_123", time.Now().UTC())
	_, err := store.Save(snap, DefaultSnapshotPath(dir, snap))
	require.NoError(t, err)

	assert.Nil(t, store.ApplyRetention(dir, "dv_123", 0))
	assert.Nil(t, store.ApplyRetention(dir, "dv_123", -1))

	infos, err := store.List(dir)
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestDefaultSnapshotPath(t *testing.T) {
	snap := storedSnapshot("dv/12 3", time.Date(2026, 3, 1, 9, 30, 15, 0, time.UTC))
	path := DefaultSnapshotPath("snaps", snap)
	assert.Equal(t, filepath.Join("snaps", "dv-12-3-2026-03-01T09-30-15.json"), path)
}

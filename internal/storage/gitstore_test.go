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

func TestLocalStore_ExportGitFriendly(t *testing.T) {
	store := NewLocal(nil)
	base := t.TempDir()

	snap := storedSnapshot("dv_123", time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC))
	snap.Metrics = []types.ComponentRecord{
		{"id": "m2", "name": "Orders"},
		{"id": "m1", "name": "Revenue"},
	}

	dir, err := store.ExportGitFriendly(snap, base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "dv_123"), dir)

	for _, name := range []string{"metrics.json", "dimensions.json", "metadata.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, len(data) > 0 && data[len(data)-1] == '\n', "%s must end with a newline", name)
	}

	// metrics are sorted by id for stable version-control diffs
	var metrics []types.ComponentRecord
	data, err := os.ReadFile(filepath.Join(dir, "metrics.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &metrics))
	require.Len(t, metrics, 2)
	assert.Equal(t, "m1", metrics[0].ID())
	assert.Equal(t, "m2", metrics[1].ID())
}

func TestLocalStore_GitFriendlyRoundTrip(t *testing.T) {
	store := NewLocal(nil)
	base := t.TempDir()

	original := storedSnapshot("dv_123", time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC))
	original.Owner = "alice"
	dir, err := store.ExportGitFriendly(original, base)
	require.NoError(t, err)

	loaded, err := store.LoadGitFriendly(dir)
	require.NoError(t, err)
	assert.Equal(t, original.DataViewID, loaded.DataViewID)
	assert.Equal(t, original.Owner, loaded.Owner)
	assert.Equal(t, original.CreatedAt, loaded.CreatedAt)
	require.Len(t, loaded.Metrics, 1)
	assert.Equal(t, "Revenue", loaded.Metrics[0].Name())
	require.Len(t, loaded.Dimensions, 1)
	require.NoError(t, loaded.Validate())
}

func TestLocalStore_LoadGitFriendlyMissingDir(t *testing.T) {
	store := NewLocal(nil)
	_, err := store.LoadGitFriendly(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.True(t, cjaerrors.IsNotFound(err))
}

func TestLocalStore_LoadGitFriendlyMissingMarker(t *testing.T) {
	store := NewLocal(nil)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "metadata.json"),
		[]byte(`{"data_view_id":"dv_123"}`), 0o644))

	_, err := store.LoadGitFriendly(dir)
	require.Error(t, err)
	assert.True(t, cjaerrors.IsFormat(err))
}

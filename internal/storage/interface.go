package storage

import (
	"time"

	"github.com/cjatools/cjadrift/pkg/types"
)

// SnapshotInfo is the listing view of a stored snapshot: metadata only,
// without the component payload.
type SnapshotInfo struct {
	DataViewID      string    `json:"data_view_id"`
	DataViewName    string    `json:"data_view_name"`
	CreatedAt       time.Time `json:"created_at"`
	MetricsCount    int       `json:"metrics_count"`
	DimensionsCount int       `json:"dimensions_count"`
	FilePath        string    `json:"file_path"`
	FileSize        int64     `json:"file_size"`
}

// Store persists snapshots to durable storage and retrieves them.
type Store interface {
	Save(snapshot *types.Snapshot, path string) (string, error)
	Load(path string) (*types.Snapshot, error)
	List(dir string) ([]SnapshotInfo, error)
	ApplyRetention(dir, dataViewID string, keepLast int) []string
}

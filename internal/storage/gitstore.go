package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	cjaerrors "github.com/cjatools/cjadrift/internal/errors"
	"github.com/cjatools/cjadrift/pkg/types"
)

// gitMetadata is the metadata.json payload of a git-friendly export.
type gitMetadata struct {
	SnapshotVersion string    `json:"snapshot_version"`
	CreatedAt       time.Time `json:"created_at"`
	DataViewID      string    `json:"data_view_id"`
	DataViewName    string    `json:"data_view_name"`
	Owner           string    `json:"owner"`
	Description     string    `json:"description"`
	ToolVersion     string    `json:"tool_version"`
	MetricsCount    int       `json:"metrics_count"`
	DimensionsCount int       `json:"dimensions_count"`
}

// ExportGitFriendly writes the snapshot as three files under
// <baseDir>/<dataViewID>/: metrics.json, dimensions.json, and
// metadata.json. Component arrays are sorted by id so that committing
// successive exports yields minimal version-control diffs.
func (s *LocalStore) ExportGitFriendly(snapshot *types.Snapshot, baseDir string) (string, error) {
	if err := snapshot.Validate(); err != nil {
		return "", cjaerrors.Wrap(cjaerrors.KindValidation, "snapshot is not valid", err)
	}

	dir := filepath.Join(baseDir, sanitizeFilename(snapshot.DataViewID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", cjaerrors.Wrap(cjaerrors.KindIO, fmt.Sprintf("cannot create directory %s", dir), err)
	}

	meta := gitMetadata{
		SnapshotVersion: snapshot.SchemaVersion,
		CreatedAt:       snapshot.CreatedAt,
		DataViewID:      snapshot.DataViewID,
		DataViewName:    snapshot.DataViewName,
		Owner:           snapshot.Owner,
		Description:     snapshot.Description,
		ToolVersion:     snapshot.Metadata.ToolVersion,
		MetricsCount:    len(snapshot.Metrics),
		DimensionsCount: len(snapshot.Dimensions),
	}

	files := map[string]any{
		"metrics.json":    sortedByID(snapshot.Metrics),
		"dimensions.json": sortedByID(snapshot.Dimensions),
		"metadata.json":   meta,
	}
	for name, payload := range files {
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return "", cjaerrors.Wrap(cjaerrors.KindIO, fmt.Sprintf("cannot encode %s", name), err)
		}
		data = append(data, '\n')
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", cjaerrors.Wrap(cjaerrors.KindIO, fmt.Sprintf("cannot write %s", path), err).
				WithSolutions("Check write permissions on the export directory")
		}
	}
	return dir, nil
}

// LoadGitFriendly reads a directory written by ExportGitFriendly back into
// a snapshot.
func (s *LocalStore) LoadGitFriendly(dir string) (*types.Snapshot, error) {
	var meta gitMetadata
	if err := s.readJSON(filepath.Join(dir, "metadata.json"), &meta); err != nil {
		return nil, err
	}
	if meta.SnapshotVersion == "" {
		return nil, cjaerrors.InvalidSnapshotFormat(filepath.Join(dir, "metadata.json"), nil).
			WithCause("file lacks the snapshot_version marker")
	}

	var metrics, dimensions []types.ComponentRecord
	if err := s.readJSON(filepath.Join(dir, "metrics.json"), &metrics); err != nil {
		return nil, err
	}
	if err := s.readJSON(filepath.Join(dir, "dimensions.json"), &dimensions); err != nil {
		return nil, err
	}

	return &types.Snapshot{
		SchemaVersion: meta.SnapshotVersion,
		CreatedAt:     meta.CreatedAt,
		DataViewID:    meta.DataViewID,
		DataViewName:  meta.DataViewName,
		Owner:         meta.Owner,
		Description:   meta.Description,
		Metrics:       metrics,
		Dimensions:    dimensions,
		Metadata: types.SnapshotMetadata{
			ToolVersion:     meta.ToolVersion,
			MetricsCount:    meta.MetricsCount,
			DimensionsCount: meta.DimensionsCount,
		},
	}, nil
}

func (s *LocalStore) readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cjaerrors.SnapshotNotFound(path)
		}
		return cjaerrors.Wrap(cjaerrors.KindIO, fmt.Sprintf("cannot read %s", path), err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return cjaerrors.InvalidSnapshotFormat(path, err)
	}
	return nil
}

func sortedByID(records []types.ComponentRecord) []types.ComponentRecord {
	sorted := make([]types.ComponentRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID() < sorted[j].ID()
	})
	return sorted
}

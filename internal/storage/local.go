package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cjaerrors "github.com/cjatools/cjadrift/internal/errors"
	"github.com/cjatools/cjadrift/internal/logger"
	"github.com/cjatools/cjadrift/pkg/types"
)

// LocalStore reads and writes snapshots as JSON files on the local
// filesystem. JSON marshaling sorts map keys, so component records always
// serialize with stable key order.
type LocalStore struct {
	log logger.Logger
}

// NewLocal creates a local snapshot store.
func NewLocal(log logger.Logger) *LocalStore {
	if log == nil {
		log = logger.NewSimple()
	}
	return &LocalStore{log: log}
}

// Save writes the snapshot to path, creating parent directories as needed,
// and returns the path written.
func (s *LocalStore) Save(snapshot *types.Snapshot, path string) (string, error) {
	if err := snapshot.Validate(); err != nil {
		return "", cjaerrors.Wrap(cjaerrors.KindValidation, "snapshot is not valid", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", cjaerrors.Wrap(cjaerrors.KindIO, fmt.Sprintf("cannot create directory %s", dir), err).
				WithSolutions("Check write permissions on the parent directory")
		}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", cjaerrors.Wrap(cjaerrors.KindIO, "cannot encode snapshot", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", cjaerrors.Wrap(cjaerrors.KindIO, fmt.Sprintf("cannot write snapshot to %s", path), err).
			WithSolutions(
				"Check write permissions on the target directory",
				"Check available disk space",
			)
	}
	return path, nil
}

// Load reads a snapshot from path. A missing file is a NotFound error;
// malformed JSON or a file without the version marker is a Format error.
func (s *LocalStore) Load(path string) (*types.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cjaerrors.SnapshotNotFound(path)
		}
		return nil, cjaerrors.Wrap(cjaerrors.KindIO, fmt.Sprintf("cannot read snapshot %s", path), err)
	}

	var snapshot types.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, cjaerrors.InvalidSnapshotFormat(path, err)
	}
	if strings.TrimSpace(snapshot.SchemaVersion) == "" {
		return nil, cjaerrors.InvalidSnapshotFormat(path, nil).
			WithCause("file lacks the snapshot_version marker")
	}
	return &snapshot, nil
}

// List scans dir for snapshot files and returns their metadata, newest
// first. Files that fail to parse are skipped silently.
func (s *LocalStore) List(dir string) ([]SnapshotInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, cjaerrors.Wrap(cjaerrors.KindIO, fmt.Sprintf("cannot read snapshot directory %s", dir), err)
	}

	var infos []SnapshotInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		snapshot, err := s.Load(path)
		if err != nil {
			continue
		}
		stat, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, SnapshotInfo{
			DataViewID:      snapshot.DataViewID,
			DataViewName:    snapshot.DataViewName,
			CreatedAt:       snapshot.CreatedAt,
			MetricsCount:    len(snapshot.Metrics),
			DimensionsCount: len(snapshot.Dimensions),
			FilePath:        path,
			FileSize:        stat.Size(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

// ApplyRetention deletes all but the keepLast most recent snapshots of the
// given data view in dir and returns the paths it removed. A keepLast of
// zero or less disables retention. Individual delete failures are logged
// and do not abort the remaining deletions.
func (s *LocalStore) ApplyRetention(dir, dataViewID string, keepLast int) []string {
	if keepLast <= 0 {
		return nil
	}

	infos, err := s.List(dir)
	if err != nil {
		s.log.Error("retention scan failed", err)
		return nil
	}

	var matching []SnapshotInfo
	for _, info := range infos {
		if info.DataViewID == dataViewID {
			matching = append(matching, info)
		}
	}
	if len(matching) <= keepLast {
		return nil
	}

	var deleted []string
	for _, info := range matching[keepLast:] {
		if err := os.Remove(info.FilePath); err != nil {
			s.log.WithField("path", info.FilePath).Error("retention delete failed", err)
			continue
		}
		deleted = append(deleted, info.FilePath)
	}
	return deleted
}

// sanitizeFilename replaces characters that are unsafe in file names.
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " "}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "-")
	}
	return result
}

// DefaultSnapshotPath builds the conventional file name for a snapshot:
// <dir>/<dataViewID>-<timestamp>.json.
func DefaultSnapshotPath(dir string, snapshot *types.Snapshot) string {
	name := fmt.Sprintf("%s-%s.json",
		sanitizeFilename(snapshot.DataViewID),
		snapshot.CreatedAt.Format("2006-01-02T15-04-05"))
	return filepath.Join(dir, name)
}

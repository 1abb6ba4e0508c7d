package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SchemaVersion is the current on-disk snapshot format version. Files
// written by older releases carry their own marker and remain loadable as
// long as the top-level shape is unchanged.
const SchemaVersion = "1.0"

// Snapshot is a point-in-time capture of one CJA data view: its metadata
// plus the full metric and dimension component lists. Snapshots are treated
// as immutable once built; the diff engine never mutates their contents.
type Snapshot struct {
	SchemaVersion string            `json:"snapshot_version"`
	CreatedAt     time.Time         `json:"created_at"`
	DataViewID    string            `json:"data_view_id"`
	DataViewName  string            `json:"data_view_name"`
	Owner         string            `json:"owner"`
	Description   string            `json:"description"`
	Metrics       []ComponentRecord `json:"metrics"`
	Dimensions    []ComponentRecord `json:"dimensions"`
	Metadata      SnapshotMetadata  `json:"metadata"`
}

// SnapshotMetadata records how and by what the snapshot was produced.
type SnapshotMetadata struct {
	ToolVersion     string            `json:"tool_version"`
	MetricsCount    int               `json:"metrics_count"`
	DimensionsCount int               `json:"dimensions_count"`
	Tags            map[string]string `json:"tags,omitempty"`
}

// Validate checks the snapshot carries the fields every consumer relies on.
func (s *Snapshot) Validate() error {
	if strings.TrimSpace(s.SchemaVersion) == "" {
		return errors.New("snapshot version marker is required")
	}
	if strings.TrimSpace(s.DataViewID) == "" {
		return errors.New("snapshot data view ID is required")
	}
	if s.CreatedAt.IsZero() {
		return errors.New("snapshot creation time is required")
	}
	return nil
}

// MetricsCount returns the number of metric records.
func (s *Snapshot) MetricsCount() int {
	return len(s.Metrics)
}

// DimensionsCount returns the number of dimension records.
func (s *Snapshot) DimensionsCount() int {
	return len(s.Dimensions)
}

// GetMetricByID returns the metric with the given id, or nil if not found.
// With duplicate ids the last record wins, matching the diff engine's
// lookup semantics.
func (s *Snapshot) GetMetricByID(id string) ComponentRecord {
	return lastByID(s.Metrics, id)
}

// GetDimensionByID returns the dimension with the given id, or nil if not
// found.
func (s *Snapshot) GetDimensionByID(id string) ComponentRecord {
	return lastByID(s.Dimensions, id)
}

func lastByID(records []ComponentRecord, id string) ComponentRecord {
	var found ComponentRecord
	for _, r := range records {
		if r.ID() == id {
			found = r
		}
	}
	return found
}

// Clone creates a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	clone := &Snapshot{
		SchemaVersion: s.SchemaVersion,
		CreatedAt:     s.CreatedAt,
		DataViewID:    s.DataViewID,
		DataViewName:  s.DataViewName,
		Owner:         s.Owner,
		Description:   s.Description,
		Metadata: SnapshotMetadata{
			ToolVersion:     s.Metadata.ToolVersion,
			MetricsCount:    s.Metadata.MetricsCount,
			DimensionsCount: s.Metadata.DimensionsCount,
		},
	}
	if s.Metadata.Tags != nil {
		clone.Metadata.Tags = make(map[string]string, len(s.Metadata.Tags))
		for k, v := range s.Metadata.Tags {
			clone.Metadata.Tags[k] = v
		}
	}
	if s.Metrics != nil {
		clone.Metrics = make([]ComponentRecord, len(s.Metrics))
		for i := range s.Metrics {
			clone.Metrics[i] = s.Metrics[i].Clone()
		}
	}
	if s.Dimensions != nil {
		clone.Dimensions = make([]ComponentRecord, len(s.Dimensions))
		for i := range s.Dimensions {
			clone.Dimensions[i] = s.Dimensions[i].Clone()
		}
	}
	return clone
}

// String returns a short description of the snapshot.
func (s *Snapshot) String() string {
	return fmt.Sprintf("%s (%s) snapshot at %s: %d metrics, %d dimensions",
		s.DataViewName, s.DataViewID, s.CreatedAt.Format(time.RFC3339),
		len(s.Metrics), len(s.Dimensions))
}

package cja

import (
	"context"
	"sync"
	"time"

	"github.com/cjatools/cjadrift/internal/logger"
	"github.com/cjatools/cjadrift/pkg/types"
)

// SnapshotBuilder captures a data view into a Snapshot.
type SnapshotBuilder struct {
	client      Client
	log         logger.Logger
	toolVersion string
	now         func() time.Time
}

// NewSnapshotBuilder creates a builder over the given API client.
func NewSnapshotBuilder(client Client, log logger.Logger, toolVersion string) *SnapshotBuilder {
	if log == nil {
		log = logger.NewSimple()
	}
	return &SnapshotBuilder{
		client:      client,
		log:         log,
		toolVersion: toolVersion,
		now:         time.Now,
	}
}

// Build fetches data-view metadata, metrics, and dimensions as three
// concurrent, independent calls and assembles the snapshot. A failed
// metrics or dimensions fetch degrades that list to empty rather than
// failing the build; the first failure never cancels the other fetches. A
// failed metadata fetch is fatal, since without it the snapshot has no
// identity.
func (b *SnapshotBuilder) Build(ctx context.Context, dataViewID string) (*types.Snapshot, error) {
	var (
		wg         sync.WaitGroup
		view       *DataView
		viewErr    error
		metrics    []types.ComponentRecord
		dimensions []types.ComponentRecord
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		view, viewErr = b.client.GetDataView(ctx, dataViewID)
	}()
	go func() {
		defer wg.Done()
		records, err := b.client.ListMetrics(ctx, dataViewID)
		if err != nil {
			b.log.WithField("data_view", dataViewID).Error("metrics fetch failed, continuing with empty list", err)
			return
		}
		metrics = records
	}()
	go func() {
		defer wg.Done()
		records, err := b.client.ListDimensions(ctx, dataViewID)
		if err != nil {
			b.log.WithField("data_view", dataViewID).Error("dimensions fetch failed, continuing with empty list", err)
			return
		}
		dimensions = records
	}()
	wg.Wait()

	if viewErr != nil {
		return nil, viewErr
	}
	if metrics == nil {
		metrics = []types.ComponentRecord{}
	}
	if dimensions == nil {
		dimensions = []types.ComponentRecord{}
	}

	return &types.Snapshot{
		SchemaVersion: types.SchemaVersion,
		CreatedAt:     b.now().UTC(),
		DataViewID:    view.ID,
		DataViewName:  view.Name,
		Owner:         view.Owner,
		Description:   view.Description,
		Metrics:       metrics,
		Dimensions:    dimensions,
		Metadata: types.SnapshotMetadata{
			ToolVersion:     b.toolVersion,
			MetricsCount:    len(metrics),
			DimensionsCount: len(dimensions),
		},
	}, nil
}

// CachingLister wraps data-view listing with a cache so repeated CLI
// operations in one run do not hit the API again.
type CachingLister struct {
	client Client
	cache  interface {
		Get(key string) (interface{}, bool)
		Set(key string, value interface{}, ttl time.Duration)
	}
}

// NewCachingLister creates a lister over the given client and cache.
func NewCachingLister(client Client, c interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
}) *CachingLister {
	return &CachingLister{client: client, cache: c}
}

// ListDataViews returns the cached listing when present.
func (l *CachingLister) ListDataViews(ctx context.Context) ([]DataView, error) {
	const key = "dataviews"
	if cached, ok := l.cache.Get(key); ok {
		if views, ok := cached.([]DataView); ok {
			return views, nil
		}
	}
	views, err := l.client.ListDataViews(ctx)
	if err != nil {
		return nil, err
	}
	l.cache.Set(key, views, 0)
	return views, nil
}

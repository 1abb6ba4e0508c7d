// Package cja talks to the Adobe Customer Journey Analytics API. The diff
// engine only ever sees the Client interface; the HTTP implementation and
// its retry behavior live behind it.
package cja

import (
	"context"

	"github.com/cjatools/cjadrift/pkg/types"
)

// DataView is the data-view-level metadata returned by the API.
type DataView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Description string `json:"description"`
}

// Client fetches data-view metadata and component lists. All calls honor
// context cancellation.
type Client interface {
	GetDataView(ctx context.Context, dataViewID string) (*DataView, error)
	ListMetrics(ctx context.Context, dataViewID string) ([]types.ComponentRecord, error)
	ListDimensions(ctx context.Context, dataViewID string) ([]types.ComponentRecord, error)
	ListDataViews(ctx context.Context) ([]DataView, error)
}

package cja

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	cjaerrors "github.com/cjatools/cjadrift/internal/errors"
	"github.com/cjatools/cjadrift/internal/logger"
	"github.com/cjatools/cjadrift/pkg/types"
)

const defaultBaseURL = "https://cja.adobe.io"

// HTTPConfig carries the credentials and endpoint settings for the CJA
// API.
type HTTPConfig struct {
	BaseURL     string
	AccessToken string
	APIKey      string
	OrgID       string
	Timeout     time.Duration
	Retry       RetryConfig
}

// HTTPClient implements Client against the CJA REST API.
type HTTPClient struct {
	config HTTPConfig
	http   *http.Client
	log    logger.Logger
}

// NewHTTPClient creates an API client with pooled connections.
func NewHTTPClient(config HTTPConfig, log logger.Logger) *HTTPClient {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Retry.MaxAttempts == 0 {
		config.Retry = DefaultRetryConfig()
	}
	if log == nil {
		log = logger.NewSimple()
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &HTTPClient{
		config: config,
		http: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		log: log,
	}
}

// componentPage is the paged list envelope the component endpoints return.
type componentPage struct {
	Content    []types.ComponentRecord `json:"content"`
	TotalPages int                     `json:"totalPages"`
	Number     int                     `json:"number"`
	LastPage   bool                    `json:"lastPage"`
}

// GetDataView fetches data-view metadata.
func (c *HTTPClient) GetDataView(ctx context.Context, dataViewID string) (*DataView, error) {
	var view DataView
	err := retryWithBackoff(ctx, c.config.Retry, c.log, func(ctx context.Context) error {
		return c.getJSON(ctx, fmt.Sprintf("/data/dataviews/%s", dataViewID), &view)
	})
	if err != nil {
		if cjaerrors.IsNotFound(err) {
			return nil, cjaerrors.DataViewNotFound(dataViewID)
		}
		return nil, err
	}
	return &view, nil
}

// ListMetrics fetches the full metrics list of a data view.
func (c *HTTPClient) ListMetrics(ctx context.Context, dataViewID string) ([]types.ComponentRecord, error) {
	return c.listComponents(ctx, fmt.Sprintf("/data/dataviews/%s/metrics", dataViewID))
}

// ListDimensions fetches the full dimensions list of a data view.
func (c *HTTPClient) ListDimensions(ctx context.Context, dataViewID string) ([]types.ComponentRecord, error) {
	return c.listComponents(ctx, fmt.Sprintf("/data/dataviews/%s/dimensions", dataViewID))
}

// ListDataViews fetches the data views visible to the credentials.
func (c *HTTPClient) ListDataViews(ctx context.Context) ([]DataView, error) {
	var page struct {
		Content []DataView `json:"content"`
	}
	err := retryWithBackoff(ctx, c.config.Retry, c.log, func(ctx context.Context) error {
		return c.getJSON(ctx, "/data/dataviews?limit=1000", &page)
	})
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *HTTPClient) listComponents(ctx context.Context, path string) ([]types.ComponentRecord, error) {
	var records []types.ComponentRecord
	err := retryWithBackoff(ctx, c.config.Retry, c.log, func(ctx context.Context) error {
		records = records[:0]
		page := 0
		for {
			var body componentPage
			url := fmt.Sprintf("%s?page=%d&limit=500", path, page)
			if err := c.getJSON(ctx, url, &body); err != nil {
				return err
			}
			records = append(records, body.Content...)
			if body.LastPage || body.TotalPages == 0 || page >= body.TotalPages-1 {
				return nil
			}
			page++
		}
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return cjaerrors.Wrap(cjaerrors.KindNetwork, "cannot build API request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	req.Header.Set("x-api-key", c.config.APIKey)
	req.Header.Set("x-gw-ims-org-id", c.config.OrgID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return cjaerrors.Wrap(cjaerrors.KindNetwork, "CJA API request failed", err).
			WithSolutions("Check network connectivity", "Check the configured base URL")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return cjaerrors.New(cjaerrors.KindAuth, "CJA API rejected the credentials").
			WithSolutions(
				"Refresh the access token",
				"Check the API key and IMS org ID",
			).
			WithHelp("cjadrift --help")
	case resp.StatusCode == http.StatusNotFound:
		return cjaerrors.New(cjaerrors.KindNotFound, fmt.Sprintf("API resource not found: %s", path))
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return cjaerrors.New(cjaerrors.KindNetwork,
			fmt.Sprintf("CJA API returned %d for %s", resp.StatusCode, path)).
			WithCause(string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return cjaerrors.Wrap(cjaerrors.KindFormat, "cannot decode API response", err)
	}
	return nil
}

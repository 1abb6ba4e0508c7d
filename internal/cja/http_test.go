package cja

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	cjaerrors "github.com/cjatools/cjadrift/internal/errors"
	"github.com/cjatools/cjadrift/pkg/types"
)

func testHTTPClient(baseURL string) *HTTPClient {
	return NewHTTPClient(HTTPConfig{
		BaseURL:     baseURL,
		AccessToken: "token",
		APIKey:      "key",
		OrgID:       "org",
		Timeout:     5 * time.Second,
		Retry:       RetryConfig{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	}, nil)
}

func TestHTTPClient_GetDataView(t *testing.T) {
	var gotAuth, gotKey, gotOrg string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("x-api-key")
		gotOrg = r.Header.Get("x-gw-ims-org-id")
		if r.URL.Path != "/data/dataviews/dv_123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(DataView{ID: "dv_123", Name: "Web Analytics", Owner: "alice"})
	}))
	defer srv.Close()

	client := testHTTPClient(srv.URL)
	view, err := client.GetDataView(context.Background(), "dv_123")
	if err != nil {
		t.Fatalf("GetDataView failed: %v", err)
	}
	if view.ID != "dv_123" || view.Name != "Web Analytics" {
		t.Errorf("view = %+v", view)
	}
	if gotAuth != "Bearer token" || gotKey != "key" || gotOrg != "org" {
		t.Errorf("headers = %q / %q / %q", gotAuth, gotKey, gotOrg)
	}
}

func TestHTTPClient_GetDataView_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := testHTTPClient(srv.URL)
	_, err := client.GetDataView(context.Background(), "dv_nope")
	if !cjaerrors.IsNotFound(err) {
		t.Errorf("error = %v, want not-found", err)
	}
}

func TestHTTPClient_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := testHTTPClient(srv.URL)
	_, err := client.ListDataViews(context.Background())
	if cjaerrors.KindOf(err) != cjaerrors.KindAuth {
		t.Errorf("error kind = %v, want auth", cjaerrors.KindOf(err))
	}
}

func TestHTTPClient_ListMetrics_Pagination(t *testing.T) {
	const totalPages = 3
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page >= totalPages {
			t.Errorf("requested page %d beyond the last page", page)
		}
		resp := componentPage{
			Content: []types.ComponentRecord{
				{"id": fmt.Sprintf("m%d", page), "name": fmt.Sprintf("Metric %d", page)},
			},
			TotalPages: totalPages,
			Number:     page,
			LastPage:   page == totalPages-1,
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := testHTTPClient(srv.URL)
	metrics, err := client.ListMetrics(context.Background(), "dv_123")
	if err != nil {
		t.Fatalf("ListMetrics failed: %v", err)
	}
	if len(metrics) != totalPages {
		t.Fatalf("got %d metrics, want %d (one per page)", len(metrics), totalPages)
	}
	for i, m := range metrics {
		if m.ID() != fmt.Sprintf("m%d", i) {
			t.Errorf("metric %d id = %s", i, m.ID())
		}
	}
}

func TestHTTPClient_RetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(struct {
			Content []DataView `json:"content"`
		}{Content: []DataView{{ID: "dv_1"}}})
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPConfig{
		BaseURL: srv.URL,
		Retry:   RetryConfig{MaxAttempts: 5, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
	}, nil)

	views, err := client.ListDataViews(context.Background())
	if err != nil {
		t.Fatalf("ListDataViews failed after retries: %v", err)
	}
	if len(views) != 1 {
		t.Errorf("views = %+v", views)
	}
	if calls != 3 {
		t.Errorf("server hit %d times, want 3", calls)
	}
}

func TestHTTPClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()

	client := testHTTPClient(srv.URL)
	_, err := client.GetDataView(context.Background(), "dv_123")
	if cjaerrors.KindOf(err) != cjaerrors.KindFormat {
		t.Errorf("error kind = %v, want format", cjaerrors.KindOf(err))
	}
}

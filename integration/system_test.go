//go:build integration
// +build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

type snapshot struct {
	Status        string `json:"status"`
	Error         string `json:"error"`
	SearchPending bool   `json:"search_pending"`
	Rows          []struct {
		Product struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"product"`
		Selected bool `json:"selected"`
	} `json:"rows"`
	Matched     int      `json:"matched"`
	Total       int      `json:"total"`
	SelectedIDs []string `json:"selected_ids"`
	Page        int      `json:"page"`
	TotalPages  int      `json:"total_pages"`
}

func TestSystem_E2E_ProductTable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	c := newClient(t)

	s := waitSnapshot(t, c, func(s snapshot) bool { return s.Status == "ready" })
	if s.Total == 0 || len(s.Rows) == 0 {
		t.Fatalf("empty table: %+v", s)
	}
	if s.Page != 1 || len(s.Rows) > 10 {
		t.Fatalf("page=%d rows=%d", s.Page, len(s.Rows))
	}

	first := s.Rows[0].Product.ID
	s = post(t, c, "/rows/"+url.PathEscape(first)+"/toggle", nil)
	if len(s.SelectedIDs) != 1 || s.SelectedIDs[0] != first {
		t.Fatalf("selected=%v", s.SelectedIDs)
	}

	s = post(t, c, "/delete-selected", nil)
	if len(s.SelectedIDs) != 0 || s.Matched != s.Total-1 {
		t.Fatalf("after delete: selected=%v matched=%d total=%d", s.SelectedIDs, s.Matched, s.Total)
	}

	if s.TotalPages > 1 {
		s = post(t, c, "/next", nil)
		if s.Page != 2 {
			t.Fatalf("page=%d", s.Page)
		}
	}

	post(t, c, "/search", url.Values{"q": {"shirt"}})
	s = waitSnapshot(t, c, func(s snapshot) bool { return !s.SearchPending })
	for _, r := range s.Rows {
		if !strings.Contains(strings.ToLower(r.Product.Title), "shirt") {
			t.Fatalf("row %q does not match search", r.Product.Title)
		}
	}
	if s.Page != 1 {
		t.Fatalf("page not clamped after search: %d", s.Page)
	}

	if os.Getenv("E2E_RESTART_CATALOG") == "1" {
		restartCatalogContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")

		post(t, c, "/reload", nil)
		s = waitSnapshot(t, c, func(s snapshot) bool { return s.Status == "ready" })
		if s.Total == 0 {
			t.Fatalf("reload after restart returned empty table")
		}
	}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func waitSnapshot(t *testing.T, c *http.Client, done func(snapshot) bool) snapshot {
	t.Helper()

	deadline := time.Now().Add(15 * time.Second)
	for {
		s := get(t, c, "/api/table")
		if done(s) {
			return s
		}
		if time.Now().After(deadline) {
			t.Fatalf("table never settled: %+v", s)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func get(t *testing.T, c *http.Client, path string) snapshot {
	t.Helper()

	resp, err := c.Get(baseURL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return decode(t, resp, path)
}

func post(t *testing.T, c *http.Client, path string, form url.Values) snapshot {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return decode(t, resp, path)
}

func decode(t *testing.T, resp *http.Response, path string) snapshot {
	t.Helper()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("%s: status=%d", path, resp.StatusCode)
	}
	var s snapshot
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatalf("%s: decode: %v", path, err)
	}
	return s
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

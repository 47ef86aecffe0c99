package table

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newCatalogTS(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/products" {
			http.NotFound(w, r)
			return
		}
		if len(r.URL.RawQuery) != 0 {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestCatalogClient_ListProducts(t *testing.T) {
	ts := newCatalogTS(t, http.StatusOK, `[
		{"id":1,"title":"Keyboard","price":49.9},
		{"id":"p2","title":"Mouse","price":"19.90"}
	]`)

	c := NewCatalogClient(ts.URL+"/", time.Second)
	ps, err := c.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("len=%d", len(ps))
	}
	if ps[0].ID != "1" || ps[0].Title != "Keyboard" || ps[0].Price.String() != "49.9" {
		t.Fatalf("p0=%+v", ps[0])
	}
	if ps[1].ID != "p2" || ps[1].Price.String() != "19.9" {
		t.Fatalf("p1=%+v", ps[1])
	}
}

func TestCatalogClient_EmptyList(t *testing.T) {
	ts := newCatalogTS(t, http.StatusOK, `[]`)

	ps, err := NewCatalogClient(ts.URL, time.Second).ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if ps == nil || len(ps) != 0 {
		t.Fatalf("ps=%v", ps)
	}
}

func TestCatalogClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, ErrCatalogBadStatus},
		{"not json", http.StatusOK, `<html>`, ErrCatalogBadPayload},
		{"object not array", http.StatusOK, `{"id":1}`, ErrCatalogBadPayload},
		{"missing title", http.StatusOK, `[{"id":1,"price":2}]`, ErrCatalogBadPayload},
		{"missing id", http.StatusOK, `[{"title":"x","price":2}]`, ErrCatalogBadPayload},
		{"negative price", http.StatusOK, `[{"id":1,"title":"x","price":-1}]`, ErrCatalogBadPayload},
		{"duplicate id", http.StatusOK, `[{"id":1,"title":"x","price":1},{"id":"1","title":"y","price":1}]`, ErrCatalogBadPayload},
		{"trailing data", http.StatusOK, `[{"id":1,"title":"x","price":1}] [{"id":2}]`, ErrCatalogBadPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newCatalogTS(t, tt.status, tt.body)

			_, err := NewCatalogClient(ts.URL, time.Second).ListProducts(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err=%v want=%v", err, tt.want)
			}
		})
	}
}

func TestCatalogClient_TrailingWhitespaceAccepted(t *testing.T) {
	ts := newCatalogTS(t, http.StatusOK, "[{\"id\":1,\"title\":\"x\",\"price\":1}]\n\n")

	ps, err := NewCatalogClient(ts.URL, time.Second).ListProducts(context.Background())
	if err != nil || len(ps) != 1 {
		t.Fatalf("ps=%v err=%v", ps, err)
	}
}

func TestCatalogClient_RejectsOversizedBody(t *testing.T) {
	body := `[{"id":1,"title":"Keyboard","price":49.9}]`
	ts := newCatalogTS(t, http.StatusOK, body)

	c := NewCatalogClient(ts.URL, time.Second)
	c.MaxBody = int64(len(body)) - 1

	_, err := c.ListProducts(context.Background())
	if !errors.Is(err, ErrCatalogBadPayload) || !strings.Contains(err.Error(), "larger than") {
		t.Fatalf("err=%v", err)
	}

	c.MaxBody = int64(len(body))
	if _, err := c.ListProducts(context.Background()); err != nil {
		t.Fatalf("body at the limit rejected: %v", err)
	}
}

func TestCatalogClient_Unavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewCatalogClient(url, time.Second).ListProducts(context.Background())
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("err=%v", err)
	}
}

func TestCatalogClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(ts.Close)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := NewCatalogClient(ts.URL, time.Second).ListProducts(ctx)
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("err=%v", err)
	}
}

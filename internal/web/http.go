package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductTable/internal/product"
	"ProductTable/internal/table"
	"ProductTable/pkg/kit"
)

const (
	sessionCookie     = "pt_session"
	maxFormBytes      = 64 << 10
	readyProbeTimeout = 700 * time.Millisecond
)

//go:embed templates/table.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("table.html").
	Funcs(template.FuncMap{"rowPath": rowPath}).
	ParseFS(templateFS, "templates/table.html"))

// rowPath is the escaped path segment for a product id.
func rowPath(id product.ID) string {
	return url.PathEscape(string(id))
}

var readyClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	},
}

// Server renders one product table per browser session.
type Server struct {
	Sessions   *Sessions
	CatalogURL string
	Log        *zap.Logger

	now          func() time.Time
	sessionLimit *kit.IPRateLimiter
}

type pageData struct {
	View    table.View
	Refresh bool
}

func (s *Server) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// tableFor returns the caller's table, creating a session on first use.
// When the caller may not open another session it answers 429 and
// returns false.
func (s *Server) tableFor(w http.ResponseWriter, r *http.Request) (*table.Table, bool) {
	now := s.clock()
	if c, err := r.Cookie(sessionCookie); err == nil {
		if tbl, ok := s.Sessions.Get(c.Value, now); ok {
			return tbl, true
		}
	}

	if s.sessionLimit != nil && !s.sessionLimit.Allow(kit.ClientIP(r), now) {
		w.Header().Set("Retry-After", "60")
		kit.WriteError(w, r, http.StatusTooManyRequests, "too many new sessions", nil)
		return nil, false
	}

	id, tbl := s.Sessions.Create(now)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return tbl, true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.tableFor(w, r)
	if !ok {
		return
	}
	v := tbl.Snapshot()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, pageData{
		View:    v,
		Refresh: v.SearchPending || v.Status == table.StatusLoading,
	})
	if err != nil && s.Log != nil {
		s.Log.Error("render table page", zap.Error(err))
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.tableFor(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, tbl.Snapshot())
}

// action wraps a table mutation: browsers are redirected back to the page,
// JSON clients get the new snapshot.
func (s *Server) action(fn func(r *http.Request, tbl *table.Table) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "bad form", map[string]any{"cause": err.Error()})
			return
		}

		tbl, ok := s.tableFor(w, r)
		if !ok {
			return
		}
		if err := fn(r, tbl); err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}

		if kit.WantsJSON(r) {
			kit.WriteJSON(w, http.StatusOK, tbl.Snapshot())
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func search(r *http.Request, tbl *table.Table) error {
	tbl.Search(r.PostFormValue("q"))
	return nil
}

func toggleRow(r *http.Request, tbl *table.Table) error {
	id, err := rowID(r)
	if err != nil {
		return err
	}
	tbl.ToggleRow(id)
	return nil
}

func deleteRow(r *http.Request, tbl *table.Table) error {
	id, err := rowID(r)
	if err != nil {
		return err
	}
	tbl.DeleteRow(id)
	return nil
}

// rowID reads the {id} segment. chi matches on the raw path when the
// request path carries escapes, so the parameter is still escaped then.
func rowID(r *http.Request) (product.ID, error) {
	raw := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return product.ID(raw), nil
	}
	id, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("bad row id %q", raw)
	}
	return product.ID(id), nil
}

func selectAll(r *http.Request, tbl *table.Table) error {
	switch v := r.PostFormValue("checked"); v {
	case "true", "on", "1":
		tbl.ToggleSelectAllOnPage(true)
	case "false", "off", "0", "":
		tbl.ToggleSelectAllOnPage(false)
	default:
		return fmt.Errorf("bad checked value %q", v)
	}
	return nil
}

func deleteSelected(_ *http.Request, tbl *table.Table) error {
	tbl.DeleteSelected()
	return nil
}

func changePage(r *http.Request, tbl *table.Table) error {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		return fmt.Errorf("bad page number %q", chi.URLParam(r, "n"))
	}
	tbl.ChangePage(n)
	return nil
}

func nextPage(_ *http.Request, tbl *table.Table) error {
	tbl.Next()
	return nil
}

func previousPage(_ *http.Request, tbl *table.Table) error {
	tbl.Previous()
	return nil
}

func reload(_ *http.Request, tbl *table.Table) error {
	tbl.Reload()
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := checkReady(r.Context(), s.CatalogURL+"/readyz"); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed: catalog", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func checkReady(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := readyClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status=%d", resp.StatusCode)
	}
	return nil
}

package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductTable/internal/product"
	"ProductTable/pkg/kit"
)

const pingTimeout = 1 * time.Second

// Server answers the product list endpoint the table reads from. It
// returns the whole list in one response; there are no query parameters.
type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.handleReady)

	r.Get("/products", s.handleList)
	r.Get("/products/{id}", s.handleGet)

	return r
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.ListSortedByID(r.Context())
	if err != nil {
		s.warn("list products failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := product.ID(chi.URLParam(r, "id"))

	p, ok, err := s.Store.Get(r.Context(), id)
	switch {
	case err != nil:
		s.warn("get product failed", zap.Error(err), zap.String("id", string(id)))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	case !ok:
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
	default:
		kit.WriteJSON(w, http.StatusOK, p)
	}
}

func (s *Server) warn(msg string, fields ...zap.Field) {
	if s.Log != nil {
		s.Log.Warn(msg, fields...)
	}
}

package catalog

import (
	"context"
	"sort"
	"sync"

	"ProductTable/internal/product"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[product.ID]product.Product
}

func NewMemStore(ps []product.Product) *MemStore {
	s := &MemStore{m: make(map[product.ID]product.Product, len(ps))}
	for _, p := range ps {
		s.m[p.ID] = p
	}
	return s
}

// NewStore returns a MemStore holding SeedProducts.
func NewStore() *MemStore {
	return NewMemStore(SeedProducts())
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListSortedByID(ctx context.Context) ([]product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]product.Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id product.ID) (product.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ProductTable/internal/table"
)

// Sessions maps browser sessions to their tables. Each table lives until
// its session has been idle for ttl.
type Sessions struct {
	ttl      time.Duration
	newTable func() *table.Table
	log      *zap.Logger

	mu sync.Mutex
	m  map[string]*session
}

type session struct {
	tbl  *table.Table
	seen time.Time
}

func NewSessions(ttl time.Duration, newTable func() *table.Table, log *zap.Logger) *Sessions {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sessions{
		ttl:      ttl,
		newTable: newTable,
		log:      log,
		m:        map[string]*session{},
	}
}

// Get returns the table of id and marks the session as used.
func (s *Sessions) Get(id string, now time.Time) (*table.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ss, ok := s.m[id]
	if !ok {
		return nil, false
	}
	ss.seen = now
	return ss.tbl, true
}

// Create starts a new table, which immediately begins fetching products.
func (s *Sessions) Create(now time.Time) (string, *table.Table) {
	id := uuid.NewString()
	tbl := s.newTable()

	s.mu.Lock()
	s.m[id] = &session{tbl: tbl, seen: now}
	s.mu.Unlock()

	tbl.Start(context.Background())
	s.log.Debug("session created", zap.String("session", id))
	return id, tbl
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// Sweep closes and forgets sessions idle for longer than ttl.
func (s *Sessions) Sweep(now time.Time) int {
	var expired []*table.Table

	s.mu.Lock()
	for id, ss := range s.m {
		if now.Sub(ss.seen) > s.ttl {
			expired = append(expired, ss.tbl)
			delete(s.m, id)
		}
	}
	s.mu.Unlock()

	for _, tbl := range expired {
		tbl.Close()
	}
	if len(expired) > 0 {
		s.log.Info("sessions expired", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done, then closes every table.
func (s *Sessions) Run(ctx context.Context) {
	tick := time.NewTicker(max(s.ttl/2, time.Second))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.CloseAll()
			return
		case now := <-tick.C:
			s.Sweep(now)
		}
	}
}

func (s *Sessions) CloseAll() {
	s.mu.Lock()
	all := s.m
	s.m = map[string]*session{}
	s.mu.Unlock()

	for _, ss := range all {
		ss.tbl.Close()
	}
}

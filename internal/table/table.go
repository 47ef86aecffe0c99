// Package table keeps the client-side state of a product table: the list
// fetched from the catalog, the filtered working copy, the selection and the
// current page. Every operation takes the table lock and runs to completion,
// so callers may drive one table from several goroutines.
package table

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"ProductTable/internal/product"
	"ProductTable/pkg/kit"
)

const DefaultSearchDelay = 1500 * time.Millisecond

var ErrClosed = errors.New("table closed")

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

type Options struct {
	PageSize     int
	SearchDelay  time.Duration
	FetchTimeout time.Duration

	Log     *zap.Logger
	Metrics *Metrics

	// OnChange is called, without the table lock held, after state changes
	// that happen off the caller's goroutine: a load finishing or a
	// debounced search being applied.
	OnChange func()
}

type Table struct {
	src      Source
	opts     Options
	log      *zap.Logger
	metrics  *Metrics
	debounce *kit.Debouncer

	mu       sync.Mutex
	master   []product.Product
	working  []product.Product
	selected map[product.ID]struct{}
	page     int

	search     string
	applied    string
	searchGen  uint64
	appliedGen uint64

	status  Status
	loadErr error
	loadSeq uint64

	base   context.Context
	stop   context.CancelFunc
	closed bool
}

func New(src Source, opts Options) *Table {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.SearchDelay <= 0 {
		opts.SearchDelay = DefaultSearchDelay
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Table{
		src:      src,
		opts:     opts,
		log:      log,
		metrics:  opts.Metrics,
		debounce: kit.NewDebouncer(opts.SearchDelay),
		master:   []product.Product{},
		working:  []product.Product{},
		selected: map[product.ID]struct{}{},
		page:     1,
		status:   StatusIdle,
	}
}

// Start fetches the product list in the background. The fetch is bound to
// ctx and to Close.
func (t *Table) Start(ctx context.Context) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	if t.base == nil {
		t.base, t.stop = context.WithCancel(ctx)
	}
	t.mu.Unlock()

	t.Reload()
}

// Reload re-issues the fetch started by Start. An in-flight fetch is
// superseded: its result is dropped when it arrives.
func (t *Table) Reload() {
	t.mu.Lock()
	if t.closed || t.base == nil {
		t.mu.Unlock()
		return
	}
	seq := t.beginLoadLocked()
	base := t.base
	t.mu.Unlock()

	t.metrics.action("reload")

	go func() {
		_ = t.fetch(base, seq)
		t.notify()
	}()
}

// Load fetches the product list and waits for the result.
func (t *Table) Load(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	seq := t.beginLoadLocked()
	t.mu.Unlock()

	return t.fetch(ctx, seq)
}

func (t *Table) beginLoadLocked() uint64 {
	t.loadSeq++
	t.status = StatusLoading
	t.loadErr = nil
	return t.loadSeq
}

func (t *Table) fetch(ctx context.Context, seq uint64) error {
	if t.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.FetchTimeout)
		defer cancel()
	}

	start := time.Now()
	ps, err := t.src.ListProducts(ctx)
	took := time.Since(start)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || seq != t.loadSeq {
		return err
	}

	if err != nil {
		t.status = StatusFailed
		t.loadErr = err
		t.metrics.fetched("error", took)
		t.log.Warn("product list fetch failed", zap.Error(err), zap.Duration("duration", took))
		return err
	}

	t.master = ps
	t.working = product.FilterByTitle(ps, t.applied)
	t.status = StatusReady
	t.reconcileLocked()

	t.metrics.fetched("ok", took)
	t.log.Info("product list loaded", zap.Int("count", len(ps)), zap.Duration("duration", took))
	return nil
}

// Close cancels an in-flight fetch and a pending search. The table keeps
// answering reads; later mutations of the fetch state are dropped.
func (t *Table) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	stop := t.stop
	t.mu.Unlock()

	t.debounce.Cancel()
	if stop != nil {
		stop()
	}
}

// Search updates the displayed search text now and recomputes the working
// list once the search delay passes without another call.
func (t *Table) Search(text string) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.search = text
	t.searchGen++
	gen := t.searchGen

	// Trigger under t.mu so timers are registered in generation order; the
	// debouncer never holds its own lock while running the callback.
	t.debounce.Trigger(func() {
		if t.applySearch(gen, text) {
			t.metrics.searchApplied()
			t.notify()
		}
	})
	t.mu.Unlock()

	t.metrics.action("search")
}

// ApplySearch recomputes the working list for text immediately, dropping
// any pending debounced search.
func (t *Table) ApplySearch(text string) {
	t.mu.Lock()
	t.debounce.Cancel()
	t.search = text
	t.searchGen++
	gen := t.searchGen
	t.mu.Unlock()

	t.metrics.action("search")
	t.applySearch(gen, text)
}

func (t *Table) applySearch(gen uint64, text string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.searchGen {
		return false
	}

	t.applied = text
	t.appliedGen = gen
	t.working = product.FilterByTitle(t.master, text)
	t.reconcileLocked()

	t.log.Debug("search applied", zap.String("query", text), zap.Int("matched", len(t.working)))
	return true
}

// ToggleRow flips the selection of id. Ids outside the working list cannot
// be selected.
func (t *Table) ToggleRow(id product.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.action("toggle_row")

	if _, ok := t.selected[id]; ok {
		delete(t.selected, id)
		return
	}
	if t.indexLocked(id) >= 0 {
		t.selected[id] = struct{}{}
	}
}

// ToggleSelectAllOnPage replaces the selection with the current page when
// checked and clears the whole selection otherwise.
func (t *Table) ToggleSelectAllOnPage(checked bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.action("select_all")

	t.selected = map[product.ID]struct{}{}
	if !checked {
		return
	}
	for _, p := range t.pageRowsLocked() {
		t.selected[p.ID] = struct{}{}
	}
}

// DeleteSelected removes the selected products from the working list and
// clears the selection. It returns the number of rows removed.
func (t *Table) DeleteSelected() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.action("delete_selected")

	kept := make([]product.Product, 0, len(t.working))
	for _, p := range t.working {
		if _, ok := t.selected[p.ID]; !ok {
			kept = append(kept, p)
		}
	}
	removed := len(t.working) - len(kept)

	t.working = kept
	t.selected = map[product.ID]struct{}{}
	t.reconcileLocked()
	return removed
}

// DeleteRow removes id from the working list. The master list is untouched,
// so a later search brings the row back.
func (t *Table) DeleteRow(id product.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.action("delete_row")

	i := t.indexLocked(id)
	if i < 0 {
		return false
	}

	kept := make([]product.Product, 0, len(t.working)-1)
	kept = append(kept, t.working[:i]...)
	kept = append(kept, t.working[i+1:]...)
	t.working = kept
	t.reconcileLocked()
	return true
}

func (t *Table) ChangePage(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.action("change_page")
	t.page = ClampPage(n, t.totalPagesLocked())
}

func (t *Table) Next() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.action("next")
	if t.page < t.totalPagesLocked() {
		t.page++
	}
}

func (t *Table) Previous() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.action("previous")
	if t.page > 1 {
		t.page--
	}
}

func (t *Table) VisiblePages() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return VisiblePages(t.page, t.totalPagesLocked())
}

// reconcileLocked restores the invariants after the working list changed:
// the selection only holds working-list ids and the page is in range.
func (t *Table) reconcileLocked() {
	if len(t.selected) > 0 {
		present := make(map[product.ID]struct{}, len(t.working))
		for _, p := range t.working {
			present[p.ID] = struct{}{}
		}
		for id := range t.selected {
			if _, ok := present[id]; !ok {
				delete(t.selected, id)
			}
		}
	}
	t.page = ClampPage(t.page, t.totalPagesLocked())
}

func (t *Table) totalPagesLocked() int {
	return TotalPages(len(t.working), t.opts.PageSize)
}

func (t *Table) pageRowsLocked() []product.Product {
	return Paginate(t.working, t.page, t.opts.PageSize)
}

func (t *Table) indexLocked(id product.ID) int {
	for i, p := range t.working {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (t *Table) notify() {
	if t.opts.OnChange != nil {
		t.opts.OnChange()
	}
}

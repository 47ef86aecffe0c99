package table

import "ProductTable/internal/product"

type Row struct {
	Product  product.Product `json:"product"`
	Selected bool            `json:"selected"`
}

// View is a point-in-time copy of a table, safe to render without the lock.
type View struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`

	Search        string `json:"search"`
	SearchPending bool   `json:"search_pending"`

	Rows        []Row        `json:"rows"`
	Matched     int          `json:"matched"`
	Total       int          `json:"total"`
	SelectedIDs []product.ID `json:"selected_ids"`

	Page              int   `json:"page"`
	TotalPages        int   `json:"total_pages"`
	VisiblePages      []int `json:"visible_pages"`
	HasPrev           bool  `json:"has_prev"`
	HasNext           bool  `json:"has_next"`
	AllOnPageSelected bool  `json:"all_on_page_selected"`
}

func (v View) SelectedCount() int { return len(v.SelectedIDs) }

func (t *Table) Snapshot() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := t.totalPagesLocked()
	v := View{
		Status:        t.status,
		Search:        t.search,
		SearchPending: t.searchGen != t.appliedGen,
		Matched:       len(t.working),
		Total:         len(t.master),
		SelectedIDs:   make([]product.ID, 0, len(t.selected)),
		Page:          t.page,
		TotalPages:    total,
		VisiblePages:  VisiblePages(t.page, total),
		HasPrev:       t.page > 1,
		HasNext:       t.page < total,
	}
	if t.loadErr != nil {
		v.Error = t.loadErr.Error()
	}

	for _, p := range t.working {
		if _, ok := t.selected[p.ID]; ok {
			v.SelectedIDs = append(v.SelectedIDs, p.ID)
		}
	}

	page := t.pageRowsLocked()
	v.Rows = make([]Row, 0, len(page))
	v.AllOnPageSelected = len(page) > 0
	for _, p := range page {
		_, sel := t.selected[p.ID]
		v.Rows = append(v.Rows, Row{Product: p, Selected: sel})
		if !sel {
			v.AllOnPageSelected = false
		}
	}

	return v
}

// Package tui renders a product table in the terminal with bubbletea.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"ProductTable/internal/product"
	"ProductTable/internal/table"
)

// Refresh tells the model that the table changed outside of Update, for
// example when a debounced search fired or a load finished.
type Refresh struct{}

type Model struct {
	tbl  *table.Table
	view table.View

	searching bool
	query     string
	cursor    int
}

func New(tbl *table.Table) Model {
	m := Model{tbl: tbl}
	m.sync()
	m.query = m.view.Search
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case Refresh:
		m.sync()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg), nil
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) Model {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		return m
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.query += " "
	case tea.KeyRunes:
		m.query += string(msg.Runes)
	default:
		return m
	}

	m.tbl.Search(m.query)
	m.sync()
	return m
}

func (m Model) updateBrowse(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.view.Rows)-1 {
			m.cursor++
		}
		return m, nil
	case " ":
		if id, ok := m.cursorID(); ok {
			m.tbl.ToggleRow(id)
		}
	case "a":
		m.tbl.ToggleSelectAllOnPage(!m.view.AllOnPageSelected)
	case "d":
		if id, ok := m.cursorID(); ok {
			m.tbl.DeleteRow(id)
		}
	case "D":
		m.tbl.DeleteSelected()
	case "left", "h":
		m.tbl.Previous()
	case "right", "l":
		m.tbl.Next()
	case "r":
		m.tbl.Reload()
	default:
		n, ok := digit(key)
		if !ok || n > len(m.view.VisiblePages) {
			return m, nil
		}
		m.tbl.ChangePage(m.view.VisiblePages[n-1])
	}

	m.sync()
	return m, nil
}

// digit maps "1".."9" to the position of a visible page button.
func digit(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '0'), true
}

func (m *Model) cursorID() (product.ID, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Rows) {
		return "", false
	}
	return m.view.Rows[m.cursor].Product.ID, true
}

func (m *Model) sync() {
	m.view = m.tbl.Snapshot()
	if m.cursor >= len(m.view.Rows) {
		m.cursor = max(len(m.view.Rows)-1, 0)
	}
}

func (m Model) View() string {
	var b strings.Builder
	v := m.view

	search := m.view.Search
	if m.searching {
		search = m.query + "_"
	}
	fmt.Fprintf(&b, "Search: %s", search)
	if v.SearchPending {
		b.WriteString("  (searching...)")
	}
	b.WriteString("\n")

	switch v.Status {
	case table.StatusLoading:
		b.WriteString("Loading products...\n")
	case table.StatusFailed:
		fmt.Fprintf(&b, "Could not load products: %s (r to retry)\n", v.Error)
	}

	fmt.Fprintf(&b, "%d rows selected\n\n", v.SelectedCount())

	fmt.Fprintf(&b, "   %s %-32s %10s\n", checkbox(v.AllOnPageSelected), "Title", "Price")
	for i, r := range v.Rows {
		pointer := " "
		if i == m.cursor {
			pointer = ">"
		}
		fmt.Fprintf(&b, " %s %s %-32s %10s\n", pointer, checkbox(r.Selected), r.Product.Title, r.Product.DisplayPrice())
	}
	if len(v.Rows) == 0 && v.Status == table.StatusReady {
		b.WriteString("   no products\n")
	}

	b.WriteString("\n")
	b.WriteString(pager(v))
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString("type to search, enter/esc: done\n")
	} else {
		b.WriteString("/: search  space: select  a: select page  d: delete  D: delete selected  h/l: page  r: reload  q: quit\n")
	}
	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func pager(v table.View) string {
	parts := make([]string, 0, len(v.VisiblePages)+2)

	if v.HasPrev {
		parts = append(parts, "<")
	} else {
		parts = append(parts, " ")
	}
	for _, p := range v.VisiblePages {
		if p == v.Page {
			parts = append(parts, fmt.Sprintf("[%d]", p))
		} else {
			parts = append(parts, fmt.Sprintf(" %d ", p))
		}
	}
	if v.HasNext {
		parts = append(parts, ">")
	}

	return strings.Join(parts, " ") + fmt.Sprintf("   page %d/%d", v.Page, v.TotalPages)
}

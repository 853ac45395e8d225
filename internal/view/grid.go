package view

import (
	"net/url"
	"strconv"

	"go-admin-console/internal/columns"
	"go-admin-console/internal/table"
)

// Header is one column header. Href points at the next step of the column's
// sort cycle; it is empty for columns that cannot be sorted.
type Header struct {
	Key       string
	Label     string
	Direction table.SortDirection
	Href      string
}

// Row is one rendered table row.
type Row struct {
	ID    int64
	Cells []columns.Cell
}

// Grid is a table view flattened for the templates.
type Grid struct {
	Path       string
	Headers    []Header
	Rows       []Row
	SearchTerm string
	SortColumn string
	SortDir    table.SortDirection
	Page       int
	TotalPages int
	TotalItems int
	PrevHref   string
	NextHref   string
	Keep       url.Values
}

// ShowPagination reports whether there is more than one page.
func (g Grid) ShowPagination() bool {
	return g.TotalPages > 1
}

// NewGrid renders the current page of t. Links are built against path and
// carry the table state as query parameters along with keep.
func NewGrid[T any](t *table.Table[T], id func(T) int64, path string, keep url.Values) Grid {
	v := t.View()
	g := Grid{
		Path:       path,
		SearchTerm: v.SearchTerm,
		SortColumn: v.SortColumn,
		SortDir:    v.SortDirection,
		Page:       v.CurrentPage,
		TotalPages: v.TotalPages,
		TotalItems: v.TotalItems,
		Keep:       keep,
	}

	for _, c := range v.Columns {
		h := Header{Key: c.Key, Label: c.Header}
		if c.Key == v.SortColumn {
			h.Direction = v.SortDirection
		}
		if c.Sortable() {
			sort, dir := t.NextSort(c.Key)
			h.Href = Link(path, table.State{SearchTerm: v.SearchTerm, SortColumn: sort, SortDirection: dir, CurrentPage: 1}, keep)
		}
		g.Headers = append(g.Headers, h)
	}

	for _, row := range v.Rows {
		r := Row{ID: id(row), Cells: make([]columns.Cell, len(v.Columns))}
		for i, c := range v.Columns {
			r.Cells[i] = columns.Render(c, row)
		}
		g.Rows = append(g.Rows, r)
	}

	state := t.State()
	if v.CurrentPage > 1 {
		prev := state
		prev.CurrentPage = min(v.CurrentPage-1, max(v.TotalPages, 1))
		g.PrevHref = Link(path, prev, keep)
	}
	if v.CurrentPage < v.TotalPages {
		next := state
		next.CurrentPage = v.CurrentPage + 1
		g.NextHref = Link(path, next, keep)
	}
	return g
}

// Link encodes s as query parameters on path. Default values are omitted.
func Link(path string, s table.State, keep url.Values) string {
	q := url.Values{}
	for k, vs := range keep {
		q[k] = append([]string(nil), vs...)
	}
	if s.SearchTerm != "" {
		q.Set("q", s.SearchTerm)
	}
	if s.SortColumn != "" && s.SortDirection != table.SortNone {
		q.Set("sort", s.SortColumn)
		q.Set("dir", string(s.SortDirection))
	}
	if s.CurrentPage > 1 {
		q.Set("page", strconv.Itoa(s.CurrentPage))
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// StateFromQuery reads table state from the q, sort, dir and page parameters.
// Missing or malformed values fall back to the defaults.
func StateFromQuery(q url.Values) table.State {
	s := table.State{
		SearchTerm:    q.Get("q"),
		SortColumn:    q.Get("sort"),
		SortDirection: table.ParseSortDirection(q.Get("dir")),
		CurrentPage:   1,
	}
	if s.SortDirection == table.SortNone {
		s.SortColumn = ""
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		s.CurrentPage = p
	}
	return s
}

// Package table implements a generic in-memory table engine: free-text
// search, a three-state column sort and pagination over a snapshot of rows.
//
// The engine knows nothing about the rows it holds. Columns carry their own
// accessors, so no reflection is involved.
package table

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultItemsPerPage is used when Options.ItemsPerPage is not positive.
const DefaultItemsPerPage = 10

// SortDirection is the direction of the active sort.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection maps "asc" and "desc" onto their directions and
// anything else onto SortNone.
func ParseSortDirection(s string) SortDirection {
	switch SortDirection(strings.ToLower(s)) {
	case SortAsc:
		return SortAsc
	case SortDesc:
		return SortDesc
	default:
		return SortNone
	}
}

// Column describes how a field of T is read, rendered and sorted.
type Column[T any] struct {
	Key    string
	Header string
	// Value returns the raw field value used for sorting and searching.
	// Numbers sort numerically, everything else by collated string form.
	Value func(T) any
	// Render returns the display value. When nil the cell shows Value.
	Render func(T) any
	// NoSort marks the column as not sortable.
	NoSort bool
}

// Sortable reports whether the column takes part in sorting.
func (c Column[T]) Sortable() bool {
	return !c.NoSort && c.Value != nil
}

// Cell returns the display value of the column for row.
func (c Column[T]) Cell(row T) any {
	if c.Render != nil {
		return c.Render(row)
	}
	if c.Value != nil {
		return c.Value(row)
	}
	return nil
}

// Options configures a Table.
type Options[T any] struct {
	ItemsPerPage int
	// Searchable enables filtering by the search term.
	Searchable bool
	// SearchText returns the string forms of every field of a row. When nil
	// the column values are used.
	SearchText func(T) []string
	// Language is a BCP 47 tag for string collation. Empty means "und".
	Language string
}

// State is the mutable part of a table. Everything else is derived from it.
type State struct {
	SearchTerm    string
	SortColumn    string
	SortDirection SortDirection
	CurrentPage   int
}

// View is the derived projection of a table for its current state.
type View[T any] struct {
	Rows          []T
	Columns       []Column[T]
	SearchTerm    string
	SortColumn    string
	SortDirection SortDirection
	CurrentPage   int
	TotalPages    int
	ItemsPerPage  int
	TotalItems    int
	StartIndex    int
	EndIndex      int
}

// Table holds a data snapshot and the search/sort/page state over it.
// A Table is not safe for concurrent use.
type Table[T any] struct {
	data    []T
	columns []Column[T]
	opts    Options[T]
	cmp     *comparator
	state   State
}

// New creates a table over data. The slice is referenced, not copied, and is
// never reordered by the table.
func New[T any](data []T, columns []Column[T], opts Options[T]) *Table[T] {
	if opts.ItemsPerPage <= 0 {
		opts.ItemsPerPage = DefaultItemsPerPage
	}
	return &Table[T]{
		data:    data,
		columns: columns,
		opts:    opts,
		cmp:     newComparator(opts.Language),
		state:   State{CurrentPage: 1},
	}
}

// State returns the current state.
func (t *Table[T]) State() State {
	return t.state
}

// Restore replaces the whole state without the page reset that the
// individual mutators apply. It is used to rehydrate a table from a request.
func (t *Table[T]) Restore(s State) {
	if s.SortColumn == "" || s.SortDirection == SortNone {
		s.SortColumn, s.SortDirection = "", SortNone
	} else if c, ok := t.column(s.SortColumn); !ok || !c.Sortable() {
		s.SortColumn, s.SortDirection = "", SortNone
	}
	if s.CurrentPage < 1 {
		s.CurrentPage = 1
	}
	t.state = s
}

// Clone returns an independent table sharing the same data and columns.
func (t *Table[T]) Clone() *Table[T] {
	c := *t
	return &c
}

// SetSearchTerm changes the search term. A change moves back to page 1.
func (t *Table[T]) SetSearchTerm(term string) {
	if term == t.state.SearchTerm {
		return
	}
	t.state.SearchTerm = term
	t.state.CurrentPage = 1
}

// HandleSort advances the sort cycle for key: a different column starts
// ascending; the active column goes asc, desc, then unsorted.
// Unknown and non-sortable columns are ignored.
func (t *Table[T]) HandleSort(key string) {
	c, ok := t.column(key)
	if !ok || !c.Sortable() {
		return
	}
	if t.state.SortColumn == key {
		switch t.state.SortDirection {
		case SortAsc:
			t.state.SortDirection = SortDesc
		default:
			t.state.SortColumn = ""
			t.state.SortDirection = SortNone
		}
	} else {
		t.state.SortColumn = key
		t.state.SortDirection = SortAsc
	}
	t.state.CurrentPage = 1
}

// SetCurrentPage moves to page. Pages below 1 clamp to 1; pages past the end
// are kept and produce an empty view.
func (t *Table[T]) SetCurrentPage(page int) {
	if page < 1 {
		page = 1
	}
	t.state.CurrentPage = page
}

// NextSort returns the direction HandleSort(key) would produce. It is what a
// column header link advertises.
func (t *Table[T]) NextSort(key string) (string, SortDirection) {
	c := t.Clone()
	c.HandleSort(key)
	return c.state.SortColumn, c.state.SortDirection
}

// Filtered returns the rows that match the search term, in source order.
func (t *Table[T]) Filtered() []T {
	if !t.opts.Searchable || strings.TrimSpace(t.state.SearchTerm) == "" {
		return t.data
	}
	needle := strings.ToLower(t.state.SearchTerm)
	out := make([]T, 0, len(t.data))
	for _, row := range t.data {
		for _, s := range t.searchText(row) {
			if strings.Contains(strings.ToLower(s), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Sorted returns the filtered rows in the current sort order.
func (t *Table[T]) Sorted() []T {
	rows := t.Filtered()
	if t.state.SortColumn == "" || t.state.SortDirection == SortNone {
		return rows
	}
	c, ok := t.column(t.state.SortColumn)
	if !ok || !c.Sortable() {
		return rows
	}
	sorted := slices.Clone(rows)
	desc := t.state.SortDirection == SortDesc
	slices.SortStableFunc(sorted, func(a, b T) int {
		n := t.cmp.compare(c.Value(a), c.Value(b))
		if desc {
			return -n
		}
		return n
	})
	return sorted
}

// View recomputes the visible page.
func (t *Table[T]) View() View[T] {
	sorted := t.Sorted()
	per := t.opts.ItemsPerPage
	total := len(sorted)
	totalPages := total / per
	if total%per != 0 {
		totalPages++
	}

	// Pages past the end are empty. The check comes before any
	// multiplication so huge page numbers cannot overflow.
	rows := []T{}
	start, end := total, total
	if t.state.CurrentPage <= totalPages {
		start = (t.state.CurrentPage - 1) * per
		end = start + min(per, total-start)
		rows = sorted[start:end]
	}

	return View[T]{
		Rows:          rows,
		Columns:       t.columns,
		SearchTerm:    t.state.SearchTerm,
		SortColumn:    t.state.SortColumn,
		SortDirection: t.state.SortDirection,
		CurrentPage:   t.state.CurrentPage,
		TotalPages:    totalPages,
		ItemsPerPage:  per,
		TotalItems:    total,
		StartIndex:    start,
		EndIndex:      end,
	}
}

// Columns returns the column descriptors.
func (t *Table[T]) Columns() []Column[T] {
	return t.columns
}

func (t *Table[T]) column(key string) (Column[T], bool) {
	for _, c := range t.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

func (t *Table[T]) searchText(row T) []string {
	if t.opts.SearchText != nil {
		return t.opts.SearchText(row)
	}
	out := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if c.Value != nil {
			out = append(out, fmt.Sprint(c.Value(row)))
		}
	}
	return out
}

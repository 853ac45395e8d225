//go:build unit

package main

import (
	"bytes"
	"strings"
	"testing"

	"go-admin-console/internal/columns"
	"go-admin-console/internal/data"
	"go-admin-console/internal/stats"
	"go-admin-console/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePostTable(state table.State) *table.Table[*data.Post] {
	t := table.New(data.SamplePosts(), columns.Posts(columns.PostActions{}), table.Options[*data.Post]{
		ItemsPerPage: 2,
		Searchable:   true,
		SearchText:   (*data.Post).SearchText,
	})
	t.Restore(state)
	return t
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTable(&buf, samplePostTable(table.State{SortColumn: "views", SortDirection: table.SortDesc, CurrentPage: 1})))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[0], "VIEWS (desc)")
	assert.NotContains(t, lines[0], "MANAGE")
	assert.Contains(t, lines[1], "2,341")
	assert.Contains(t, lines[2], "1,523")
	assert.Equal(t, "Page 1 of 3 (5 rows)", lines[len(lines)-1])
}

func TestPrintTable_NoMatches(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTable(&buf, samplePostTable(table.State{SearchTerm: "no such thing", CurrentPage: 1})))
	assert.Contains(t, buf.String(), "No data")
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, stats.ForPosts(data.SamplePosts()))
	assert.True(t, strings.HasPrefix(buf.String(), "Total: 5  Published: 3"))
}

func TestListState(t *testing.T) {
	listSearch, listSort, listDesc, listPage = "guide", "title", true, 2
	t.Cleanup(func() { listSearch, listSort, listDesc, listPage = "", "", false, 1 })

	assert.Equal(t, table.State{SearchTerm: "guide", SortColumn: "title", SortDirection: table.SortDesc, CurrentPage: 2}, listState())
}

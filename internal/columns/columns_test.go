//go:build unit

package columns

import (
	"go-admin-console/internal/data"
	"go-admin-console/internal/table"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actionNames(c Cell) []string {
	names := make([]string, len(c.Actions))
	for i, a := range c.Actions {
		names[i] = a.Name
	}
	return names
}

func column[T any](t *testing.T, cols []table.Column[T], key string) table.Column[T] {
	t.Helper()
	for _, c := range cols {
		if c.Key == key {
			return c
		}
	}
	t.Fatalf("column %q not found", key)
	return table.Column[T]{}
}

func TestPostActionsGatedByStatus(t *testing.T) {
	cols := Posts(PostActions{})
	actions := column(t, cols, "actions")
	assert.False(t, actions.Sortable())

	cases := map[data.PostStatus][]string{
		data.PostDraft:     {"edit", "publish", "delete"},
		data.PostPublished: {"edit", "archive", "delete"},
		data.PostArchived:  {"edit", "restore", "delete"},
	}
	for status, want := range cases {
		cell := Render(actions, &data.Post{ID: 1, Status: status})
		assert.Equal(t, want, actionNames(cell), "status %s", status)
	}
}

func TestPostActionsInvokeCallbacks(t *testing.T) {
	var published, deleted int64
	cols := Posts(PostActions{
		Publish: func(id int64) error { published = id; return nil },
		Delete:  func(id int64) error { deleted = id; return nil },
	})
	draft := &data.Post{ID: 7, Status: data.PostDraft}

	a, ok := FindAction(cols, draft, "publish")
	require.True(t, ok)
	require.NoError(t, a.Invoke())
	assert.Equal(t, int64(7), published)

	a, ok = FindAction(cols, draft, "delete")
	require.True(t, ok)
	require.NoError(t, a.Invoke())
	assert.Equal(t, int64(7), deleted)

	_, ok = FindAction(cols, draft, "archive")
	assert.False(t, ok, "drafts cannot be archived")

	// Callbacks left nil are no-ops.
	a, ok = FindAction(cols, draft, "edit")
	require.True(t, ok)
	assert.NoError(t, a.Invoke())
}

func TestPostRender(t *testing.T) {
	cols := Posts(PostActions{})
	post := &data.Post{ID: 1, Category: data.CategoryAccessibility, Status: data.PostArchived, Views: 12345}

	cat := Render(column(t, cols, "category"), post)
	require.NotNil(t, cat.Badge)
	assert.Equal(t, "red", cat.Badge.Variant)
	assert.True(t, cat.Badge.Pill)

	status := Render(column(t, cols, "status"), post)
	assert.Equal(t, "Archived", status.String())

	assert.Equal(t, "12,345", Render(column(t, cols, "views"), post).Text)
	assert.Equal(t, "-", Render(column(t, cols, "category"), &data.Post{}).Text)
	assert.Equal(t, "gray", Render(column(t, cols, "category"), &data.Post{Category: "other"}).Badge.Variant)
}

func TestUserRender(t *testing.T) {
	cols := Users(UserActions{})
	users := data.SampleUsers()

	role := Render(column(t, cols, "role"), users[0])
	require.NotNil(t, role.Badge)
	assert.Equal(t, Badge{Variant: "red", Label: "Admin"}, *role.Badge)

	status := Render(column(t, cols, "status"), users[4])
	assert.Equal(t, "Suspended", status.Badge.Label)

	assert.Equal(t, "-", Render(column(t, cols, "lastLogin"), &data.User{}).Text)
	assert.Equal(t, "2024-03-20", Render(column(t, cols, "lastLogin"), users[0]).Text)
	assert.Equal(t, "john_doe", Render(column(t, cols, "username"), users[0]).Text)

	assert.Equal(t, []string{"edit", "delete"}, actionNames(Render(column(t, cols, "actions"), users[0])))
}

func TestUserActionsInvokeCallbacks(t *testing.T) {
	var edited int64
	cols := Users(UserActions{Edit: func(id int64) error { edited = id; return nil }})

	a, ok := FindAction(cols, &data.User{ID: 3}, "edit")
	require.True(t, ok)
	require.NoError(t, a.Invoke())
	assert.Equal(t, int64(3), edited)
}

func TestSortUsersByUsername(t *testing.T) {
	tbl := table.New(data.SampleUsers(), Users(UserActions{}), table.Options[*data.User]{ItemsPerPage: 5})

	tbl.HandleSort("username")
	asc := tbl.View().Rows
	tbl.HandleSort("username")
	desc := tbl.View().Rows

	require.Len(t, asc, 5)
	require.Len(t, desc, 5)
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
	assert.Equal(t, "alice_brown", asc[0].Username)
}

func TestSearchPosts(t *testing.T) {
	opts := table.Options[*data.Post]{
		ItemsPerPage: 5,
		Searchable:   true,
		SearchText:   (*data.Post).SearchText,
	}
	tbl := table.New(data.SamplePosts(), Posts(PostActions{}), opts)
	tbl.SetSearchTerm("access")

	rows := tbl.View().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, data.CategoryAccessibility, rows[0].Category)
}

// Package stats reduces the console collections into labeled counters.
package stats

import "go-admin-console/internal/data"

// Category is the colour family a counter is shown with.
type Category string

const (
	Blue   Category = "blue"
	Green  Category = "green"
	Orange Category = "orange"
	Red    Category = "red"
	Gray   Category = "gray"
)

// Stat is one labeled counter.
type Stat struct {
	Category Category
	Label    string
	Value    int64
}

// ForUsers returns Total, Active, Inactive, Suspended and Admins, in order.
func ForUsers(users []*data.User) []Stat {
	var active, inactive, suspended, admins int64
	for _, u := range users {
		switch u.Status {
		case data.UserActive:
			active++
		case data.UserInactive:
			inactive++
		case data.UserSuspended:
			suspended++
		}
		if u.Role == data.RoleAdmin {
			admins++
		}
	}
	return []Stat{
		{Category: Blue, Label: "Total", Value: int64(len(users))},
		{Category: Green, Label: "Active", Value: active},
		{Category: Orange, Label: "Inactive", Value: inactive},
		{Category: Red, Label: "Suspended", Value: suspended},
		{Category: Gray, Label: "Admins", Value: admins},
	}
}

// ForPosts returns Total, Published, Drafts, Archived and Total views, in order.
func ForPosts(posts []*data.Post) []Stat {
	var published, drafts, archived, views int64
	for _, p := range posts {
		switch p.Status {
		case data.PostPublished:
			published++
		case data.PostDraft:
			drafts++
		case data.PostArchived:
			archived++
		}
		views += p.Views
	}
	return []Stat{
		{Category: Blue, Label: "Total", Value: int64(len(posts))},
		{Category: Green, Label: "Published", Value: published},
		{Category: Orange, Label: "Drafts", Value: drafts},
		{Category: Red, Label: "Archived", Value: archived},
		{Category: Gray, Label: "Total views", Value: views},
	}
}

// Compute dispatches on kind. Rows of the other kind are ignored.
func Compute(kind data.EntityType, users []*data.User, posts []*data.Post) []Stat {
	if kind == data.EntityUser {
		return ForUsers(users)
	}
	return ForPosts(posts)
}

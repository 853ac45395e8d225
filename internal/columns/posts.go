package columns

import (
	"go-admin-console/internal/data"
	"go-admin-console/internal/table"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PostActions are the callbacks the post table's buttons invoke.
type PostActions struct {
	Edit    func(id int64) error
	Delete  func(id int64) error
	Publish func(id int64) error
	Archive func(id int64) error
	Restore func(id int64) error
}

var postStatusBadges = map[data.PostStatus]Badge{
	data.PostPublished: {Variant: "green", Label: "Published"},
	data.PostDraft:     {Variant: "orange", Label: "Draft"},
	data.PostArchived:  {Variant: "gray", Label: "Archived"},
}

var numbers = message.NewPrinter(language.English)

func categoryVariant(c data.Category) string {
	switch c {
	case data.CategoryDevelopment, data.CategoryDesign:
		return "blue"
	case data.CategoryAccessibility:
		return "red"
	default:
		return "gray"
	}
}

// Posts returns the post table columns. The status-changing button shown for
// a post depends on its status: drafts can be published, published posts
// archived and archived posts restored.
func Posts(actions PostActions) []table.Column[*data.Post] {
	return []table.Column[*data.Post]{
		{
			Key: "id", Header: "ID",
			Value: func(p *data.Post) any { return p.ID },
		},
		{
			Key: "title", Header: "Title",
			Value: func(p *data.Post) any { return p.Title },
		},
		{
			Key: "author", Header: "Author",
			Value: func(p *data.Post) any { return p.Author },
		},
		{
			Key: "category", Header: "Category",
			Value: func(p *data.Post) any { return string(p.Category) },
			Render: func(p *data.Post) any {
				if p.Category == "" {
					return text("")
				}
				c := badge(categoryVariant(p.Category), string(p.Category))
				c.Badge.Pill = true
				return c
			},
		},
		{
			Key: "status", Header: "Status",
			Value: func(p *data.Post) any { return string(p.Status) },
			Render: func(p *data.Post) any {
				if p.Status == "" {
					return text("")
				}
				if b, ok := postStatusBadges[p.Status]; ok {
					return Cell{Badge: &b}
				}
				return text(string(p.Status))
			},
		},
		{
			Key: "views", Header: "Views",
			Value: func(p *data.Post) any { return p.Views },
			Render: func(p *data.Post) any {
				return text(numbers.Sprintf("%d", p.Views))
			},
		},
		{
			Key: "createdAt", Header: "Created",
			Value: func(p *data.Post) any { return p.CreatedAt.Format(data.DateFormat) },
		},
		{
			Key: "actions", Header: "Manage", NoSort: true,
			Render: func(p *data.Post) any {
				buttons := []Action{
					{Name: "edit", Label: "Edit", Variant: "blue", invoke: bind(actions.Edit, p.ID)},
				}
				switch p.Status {
				case data.PostDraft:
					buttons = append(buttons, Action{Name: "publish", Label: "Publish", Variant: "green", invoke: bind(actions.Publish, p.ID)})
				case data.PostPublished:
					buttons = append(buttons, Action{Name: "archive", Label: "Archive", Variant: "gray", invoke: bind(actions.Archive, p.ID)})
				case data.PostArchived:
					buttons = append(buttons, Action{Name: "restore", Label: "Restore", Variant: "blue", invoke: bind(actions.Restore, p.ID)})
				}
				buttons = append(buttons, Action{Name: "delete", Label: "Delete", Variant: "red", invoke: bind(actions.Delete, p.ID)})
				return Cell{Actions: buttons}
			},
		},
	}
}

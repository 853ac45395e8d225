// Package columns holds the column descriptors for the user and post tables.
// Descriptors only read rows; every state change goes through the action
// callbacks the owner supplies.
package columns

import (
	"fmt"

	"go-admin-console/internal/table"
)

// Badge is a small coloured label.
type Badge struct {
	Variant string
	Label   string
	Pill    bool
}

// Action is a button bound to an owner callback.
type Action struct {
	Name    string
	Label   string
	Variant string
	invoke  func() error
}

// Invoke runs the bound callback. A missing callback is a no-op.
func (a Action) Invoke() error {
	if a.invoke == nil {
		return nil
	}
	return a.invoke()
}

// Cell is what a column renders for one row: plain text, a badge, or a
// group of action buttons.
type Cell struct {
	Text    string
	Badge   *Badge
	Actions []Action
}

// Action returns the button called name, if the cell offers it.
func (c Cell) Action(name string) (Action, bool) {
	for _, a := range c.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

func (c Cell) String() string {
	switch {
	case c.Badge != nil:
		return c.Badge.Label
	case len(c.Actions) > 0:
		names := make([]string, len(c.Actions))
		for i, a := range c.Actions {
			names[i] = a.Label
		}
		return fmt.Sprint(names)
	default:
		return c.Text
	}
}

func text(s string) Cell {
	if s == "" {
		s = "-"
	}
	return Cell{Text: s}
}

func badge(variant, label string) Cell {
	return Cell{Badge: &Badge{Variant: variant, Label: label}}
}

func bind(fn func(int64) error, id int64) func() error {
	if fn == nil {
		return nil
	}
	return func() error { return fn(id) }
}

// Render returns the cell for row under c, wrapping plain values as text.
func Render[T any](c table.Column[T], row T) Cell {
	switch v := c.Cell(row).(type) {
	case Cell:
		return v
	case nil:
		return text("")
	default:
		return text(fmt.Sprint(v))
	}
}

// FindAction looks up the button called name among the cells of row.
// Buttons hidden for the row's current state are not found.
func FindAction[T any](cols []table.Column[T], row T, name string) (Action, bool) {
	for _, c := range cols {
		if c.Render == nil {
			continue
		}
		if cell, ok := c.Render(row).(Cell); ok {
			if a, ok := cell.Action(name); ok {
				return a, true
			}
		}
	}
	return Action{}, false
}

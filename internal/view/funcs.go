package view

import (
	"html/template"

	"go-admin-console/internal/columns"
	"go-admin-console/internal/table"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

var funcs = template.FuncMap{
	"badgeClass":    badgeClass,
	"buttonClass":   buttonClass,
	"sortIndicator": sortIndicator,
	"number":        number,
}

func number(n int64) string {
	return printer.Sprintf("%d", n)
}

func buttonClass(a columns.Action) string {
	return "btn btn-" + a.Variant
}

func badgeClass(b *columns.Badge) string {
	class := "badge badge-" + b.Variant
	if b.Pill {
		class += " badge-pill"
	}
	return class
}

func sortIndicator(d table.SortDirection) string {
	switch d {
	case table.SortAsc:
		return "▲"
	case table.SortDesc:
		return "▼"
	default:
		return ""
	}
}

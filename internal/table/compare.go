package table

import (
	"fmt"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// comparator orders column values. Numbers compare numerically, strings by
// locale collation and anything else by the collation of its string form.
type comparator struct {
	col *collate.Collator
}

func newComparator(lang string) *comparator {
	tag := language.Und
	if lang != "" {
		if t, err := language.Parse(lang); err == nil {
			tag = t
		}
	}
	return &comparator{col: collate.New(tag)}
}

func (c *comparator) compare(a, b any) int {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}
	if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			return c.col.CompareString(x, y)
		}
	}
	return c.col.CompareString(stringOf(a), stringOf(b))
}

func stringOf(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

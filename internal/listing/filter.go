package listing

import (
	"net/url"
	"strings"
)

// AnyValue is the select option that disables an enum filter.
const AnyValue = "All"

// Filter is the user's current narrowing of a collection.
type Filter struct {
	// Query is matched case-insensitively as a substring of every
	// searchable field; a row matches if any field contains it.
	Query string
	// Equals maps an enum field name to the exact value it must have.
	Equals map[string]string
}

// FilterFromValues reads a Filter from form or query values. The text query
// is read from "q"; enum fields are read by their field name.
func FilterFromValues[T any](s Schema[T], v url.Values) Filter {
	f := Filter{Query: v.Get("q")}
	for _, field := range s.EnumFields() {
		if val := v.Get(field.Name); val != "" && val != AnyValue {
			if f.Equals == nil {
				f.Equals = make(map[string]string)
			}
			f.Equals[field.Name] = val
		}
	}
	return f
}

// Predicate reports whether a row should be shown.
type Predicate[T any] func(T) bool

// Predicate builds the row predicate for f. Unknown field names in Equals
// never match, so a stale filter shows nothing rather than everything.
func (s Schema[T]) Predicate(f Filter) Predicate[T] {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	return func(row T) bool {
		for name, want := range f.Equals {
			if want == "" || want == AnyValue {
				continue
			}
			field, ok := s.Field(name)
			if !ok || field.Value(row) != want {
				return false
			}
		}
		if query == "" {
			return true
		}
		for _, field := range s.Fields {
			if field.Searchable && strings.Contains(strings.ToLower(field.Value(row)), query) {
				return true
			}
		}
		return false
	}
}

// Select returns the rows satisfying p, preserving their order.
func Select[T any](rows []T, p Predicate[T]) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if p(r) {
			out = append(out, r)
		}
	}
	return out
}

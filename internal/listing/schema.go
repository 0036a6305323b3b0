// Package listing implements the list/filter/assign/delete behaviour shared by
// every admin screen. A screen is described by a Schema and backed by a
// remote collection; the rows a user is looking at live in a View until the
// next fetch.
package listing

// Field describes one attribute of an entity as it appears on a screen.
type Field[T any] struct {
	Name  string
	Label string
	Value func(T) string
	// Searchable fields take part in free-text filtering.
	Searchable bool
	// Enum fields are offered as exact-match filter selects.
	Enum bool
	// Hidden fields are filterable but not shown as table columns.
	Hidden bool
}

// Schema is the declarative description of an entity screen.
type Schema[T any] struct {
	Entity string
	Title  string
	ID     func(T) string
	Fields []Field[T]
}

// Field returns the field with the given name.
func (s Schema[T]) Field(name string) (Field[T], bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Columns returns the visible fields in declaration order.
func (s Schema[T]) Columns() []Field[T] {
	cols := make([]Field[T], 0, len(s.Fields))
	for _, f := range s.Fields {
		if !f.Hidden {
			cols = append(cols, f)
		}
	}
	return cols
}

// EnumFields returns the fields offered as exact-match filters.
func (s Schema[T]) EnumFields() []Field[T] {
	var out []Field[T]
	for _, f := range s.Fields {
		if f.Enum {
			out = append(out, f)
		}
	}
	return out
}

// Searchable reports whether any field takes part in text search.
func (s Schema[T]) Searchable() bool {
	for _, f := range s.Fields {
		if f.Searchable {
			return true
		}
	}
	return false
}

package listing

import (
	"sort"
	"sync"
	"time"
)

// Option is one choice of an assignment control. Payload carries whatever
// the update needs beyond the value, e.g. the full coordinator record.
type Option struct {
	Value   string
	Label   string
	Payload any
}

// View is the in-memory copy of a collection backing one rendered page. It
// approximates server state until the next fetch; nothing else keeps it in
// sync.
type View[T any] struct {
	ID       string
	schema   Schema[T]
	mu       sync.RWMutex
	rows     []T
	options  []Option
	loadedAt time.Time
}

func newView[T any](id string, schema Schema[T], rows []T, options []Option) *View[T] {
	return &View[T]{
		ID:       id,
		schema:   schema,
		rows:     rows,
		options:  options,
		loadedAt: time.Now(),
	}
}

// Schema returns the schema the view was built from.
func (v *View[T]) Schema() Schema[T] {
	return v.schema
}

// LoadedAt is when the rows were last fetched.
func (v *View[T]) LoadedAt() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loadedAt
}

// Rows returns a copy of every row.
func (v *View[T]) Rows() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]T, len(v.rows))
	copy(out, v.rows)
	return out
}

// Len returns the number of rows held.
func (v *View[T]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.rows)
}

// Filter returns the rows matching f.
func (v *View[T]) Filter(f Filter) []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Select(v.rows, v.schema.Predicate(f))
}

// Find returns the row with the given id.
func (v *View[T]) Find(id string) (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, r := range v.rows {
		if v.schema.ID(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Options returns the choices of the view's assignment control.
func (v *View[T]) Options() []Option {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]Option, len(v.options))
	copy(out, v.options)
	return out
}

// Option returns the assignment choice with the given value.
func (v *View[T]) Option(value string) (Option, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, o := range v.options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Patch applies fn to the row with the given id and returns the result.
func (v *View[T]) Patch(id string, fn func(*T)) (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.rows {
		if v.schema.ID(v.rows[i]) == id {
			fn(&v.rows[i])
			return v.rows[i], true
		}
	}
	var zero T
	return zero, false
}

// Remove drops the row with the given id.
func (v *View[T]) Remove(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.rows {
		if v.schema.ID(v.rows[i]) == id {
			v.rows = append(v.rows[:i], v.rows[i+1:]...)
			return true
		}
	}
	return false
}

func (v *View[T]) replace(rows []T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rows = rows
	v.loadedAt = time.Now()
}

// Distinct returns the sorted non-empty values of a field across all rows.
func (v *View[T]) Distinct(field string) []string {
	f, ok := v.schema.Field(field)
	if !ok {
		return nil
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, r := range v.rows {
		val := f.Value(r)
		if val == "" {
			continue
		}
		if _, dup := seen[val]; !dup {
			seen[val] = struct{}{}
			out = append(out, val)
		}
	}
	sort.Strings(out)
	return out
}

// Count tallies rows by the value of a field.
func Count[T any](s Schema[T], rows []T, field string) map[string]int {
	f, ok := s.Field(field)
	if !ok {
		return nil
	}
	counts := make(map[string]int)
	for _, r := range rows {
		counts[f.Value(r)]++
	}
	return counts
}

// Page returns the 1-based page of rows and the total page count.
func Page[T any](rows []T, page, size int) ([]T, int) {
	if size <= 0 {
		return rows, 1
	}
	pages := (len(rows) + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := start + size
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], pages
}

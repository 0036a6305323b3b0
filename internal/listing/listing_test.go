package listing

import (
	"context"
	"errors"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	ID    string
	Name  string
	Phone string
	Team  string
}

var personSchema = Schema[person]{
	Entity: "person",
	Title:  "People",
	ID:     func(p person) string { return p.ID },
	Fields: []Field[person]{
		{Name: "name", Label: "Name", Value: func(p person) string { return p.Name }, Searchable: true},
		{Name: "phone", Label: "Phone", Value: func(p person) string { return p.Phone }, Searchable: true},
		{Name: "team", Label: "Team", Value: func(p person) string { return p.Team }, Enum: true},
	},
}

func people() []person {
	return []person{
		{ID: "1", Name: "Rama Das", Phone: "9876", Team: "Parking"},
		{ID: "2", Name: "Sita Devi", Phone: "1234", Team: "Prasadam"},
		{ID: "3", Name: "Ramesh", Phone: "5550", Team: "Parking"},
	}
}

func TestFilter_IsSubsetAndOrderIndependent(t *testing.T) {
	rows := people()
	f := Filter{Query: "RAM", Equals: map[string]string{"team": "Parking"}}

	got := Select(rows, personSchema.Predicate(f))
	want := []person{rows[0], rows[2]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("filter mismatch (-want +got):\n%s", diff)
	}

	reversed := []person{rows[2], rows[1], rows[0]}
	gotRev := Select(reversed, personSchema.Predicate(f))
	assert.ElementsMatch(t, got, gotRev)
}

func TestFilter_AllAndEmptyMeanNoConstraint(t *testing.T) {
	rows := people()
	for _, f := range []Filter{
		{},
		{Query: "   "},
		{Equals: map[string]string{"team": AnyValue}},
		{Equals: map[string]string{"team": ""}},
	} {
		assert.Len(t, Select(rows, personSchema.Predicate(f)), len(rows))
	}
}

func TestFilter_PhoneSubstring(t *testing.T) {
	got := Select(people(), personSchema.Predicate(Filter{Query: "555"}))
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

func TestFilter_UnknownEnumFieldMatchesNothing(t *testing.T) {
	got := Select(people(), personSchema.Predicate(Filter{Equals: map[string]string{"shift": "Morning"}}))
	assert.Empty(t, got)
}

func TestFilterFromValues(t *testing.T) {
	f := FilterFromValues(personSchema, url.Values{"q": {"sita"}, "team": {"All"}, "ignored": {"x"}})
	assert.Equal(t, "sita", f.Query)
	assert.Empty(t, f.Equals)

	f = FilterFromValues(personSchema, url.Values{"team": {"Parking"}})
	assert.Equal(t, map[string]string{"team": "Parking"}, f.Equals)
}

func TestPage(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}
	got, pages := Page(rows, 2, 2)
	assert.Equal(t, []int{3, 4}, got)
	assert.Equal(t, 3, pages)

	got, _ = Page(rows, 9, 2)
	assert.Equal(t, []int{5}, got)

	got, pages = Page([]int{}, 1, 10)
	assert.Empty(t, got)
	assert.Equal(t, 1, pages)
}

func TestView_DistinctAndCount(t *testing.T) {
	v := newView("v", personSchema, people(), nil)
	assert.Equal(t, []string{"Parking", "Prasadam"}, v.Distinct("team"))
	assert.Equal(t, map[string]int{"Parking": 2, "Prasadam": 1}, Count(personSchema, v.Rows(), "team"))
	assert.Nil(t, v.Distinct("missing"))
}

func newScreen(fetches *int32, updates *int32, deletes *int32) *Screen[person] {
	return &Screen[person]{
		Schema: personSchema,
		Source: func(ctx context.Context) ([]person, error) {
			atomic.AddInt32(fetches, 1)
			return people(), nil
		},
		Assign: &Assigner[person]{
			Field: "team",
			Options: func(ctx context.Context) ([]Option, error) {
				return []Option{{Value: "t1", Label: "Kitchen", Payload: "Kitchen"}}, nil
			},
			Update: func(ctx context.Context, id string, opt Option) error {
				atomic.AddInt32(updates, 1)
				return nil
			},
			Apply: func(p *person, opt Option) { p.Team = opt.Payload.(string) },
		},
		Delete: func(ctx context.Context, id string) error {
			atomic.AddInt32(deletes, 1)
			return nil
		},
	}
}

func TestScreen_AssignPatchesWithoutRefetch(t *testing.T) {
	var fetches, updates, deletes int32
	s := newScreen(&fetches, &updates, &deletes)

	v, err := s.Mount(context.Background())
	require.NoError(t, err)
	require.Len(t, v.Options(), 1)

	row, err := s.AssignOption(context.Background(), v, "2", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", row.Team)

	got, _ := v.Find("2")
	assert.Equal(t, "Kitchen", got.Team)
	assert.EqualValues(t, 1, updates)
	assert.EqualValues(t, 1, fetches)
}

func TestScreen_AssignRejectsUnknownOption(t *testing.T) {
	var fetches, updates, deletes int32
	s := newScreen(&fetches, &updates, &deletes)
	v, err := s.Mount(context.Background())
	require.NoError(t, err)

	_, err = s.AssignOption(context.Background(), v, "2", "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownOption)
	_, err = s.AssignOption(context.Background(), v, "99", "t1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualValues(t, 0, updates)
}

func TestScreen_AssignFailureLeavesRowUnchanged(t *testing.T) {
	var fetches, updates, deletes int32
	s := newScreen(&fetches, &updates, &deletes)
	s.Assign.Update = func(ctx context.Context, id string, opt Option) error {
		return errors.New("boom")
	}
	v, err := s.Mount(context.Background())
	require.NoError(t, err)

	_, err = s.AssignOption(context.Background(), v, "2", "t1")
	require.Error(t, err)
	got, _ := v.Find("2")
	assert.Equal(t, "Prasadam", got.Team)
}

func TestScreen_DeleteRequiresConfirmation(t *testing.T) {
	var fetches, updates, deletes int32
	s := newScreen(&fetches, &updates, &deletes)
	v, err := s.Mount(context.Background())
	require.NoError(t, err)

	err = s.Remove(context.Background(), v, "1", false)
	assert.ErrorIs(t, err, domain.ErrNotConfirmed)
	assert.EqualValues(t, 0, deletes)
	assert.Equal(t, 3, v.Len())

	require.NoError(t, s.Remove(context.Background(), v, "1", true))
	assert.EqualValues(t, 1, deletes)
	assert.Equal(t, 2, v.Len())
	_, ok := v.Find("1")
	assert.False(t, ok)
}

func TestScreen_DeleteWithRefetch(t *testing.T) {
	var fetches, updates, deletes int32
	s := newScreen(&fetches, &updates, &deletes)
	s.RefetchAfterDelete = true
	v, err := s.Mount(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), v, "1", true))
	assert.EqualValues(t, 2, fetches)
}

func TestScreen_RefreshIsIdempotent(t *testing.T) {
	var fetches, updates, deletes int32
	s := newScreen(&fetches, &updates, &deletes)
	v, err := s.Mount(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Refresh(context.Background(), v))
	first := v.Rows()
	require.NoError(t, s.Refresh(context.Background(), v))
	if diff := cmp.Diff(first, v.Rows()); diff != "" {
		t.Errorf("refresh changed rows (-first +second):\n%s", diff)
	}
}

func TestScreen_MountSurvivesOptionFailure(t *testing.T) {
	var fetches, updates, deletes int32
	s := newScreen(&fetches, &updates, &deletes)
	s.Assign.Options = func(ctx context.Context) ([]Option, error) {
		return nil, errors.New("coordinators down")
	}
	v, err := s.Mount(context.Background())
	require.NoError(t, err)
	assert.Empty(t, v.Options())
	assert.Equal(t, 3, v.Len())
}

func TestScreen_MountFailsWhenSourceFails(t *testing.T) {
	s := &Screen[person]{
		Schema: personSchema,
		Source: func(ctx context.Context) ([]person, error) { return nil, errors.New("offline") },
	}
	_, err := s.Mount(context.Background())
	assert.ErrorContains(t, err, "fetch person list")
}

func TestStore_EvictsOldest(t *testing.T) {
	s := NewStore[person](2)
	a := newView("a", personSchema, nil, nil)
	b := newView("b", personSchema, nil, nil)
	c := newView("c", personSchema, nil, nil)
	s.Put(a)
	s.Put(b)
	s.Put(c)

	_, ok := s.Get("a")
	assert.False(t, ok)
	got, ok := s.Get("c")
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, 2, s.Len())
}

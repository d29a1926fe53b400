package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/antonkarev/notedeck/internal/state"
	"github.com/antonkarev/notedeck/internal/tags"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

func fixtureData() state.Data {
	d := state.Default()
	d.Projects = []domain.Project{
		{ID: "p1", Name: "Apollo"},
		{ID: "p2", Name: "Borealis"},
	}
	d.Sessions = []domain.Session{
		{ID: "s1", ProjectID: "p1", Title: "Kickoff", IsActive: true},
		{ID: "s2", ProjectID: "p2", Title: "Retro"},
	}
	return d
}

func note(id string, mutate ...func(*domain.Note)) domain.Note {
	n := domain.Note{
		ID:         id,
		ProjectIDs: []string{},
		Type:       domain.TypeNote,
		Content:    "note " + id,
		Status:     domain.StatusNotStarted,
		CreatedAt:  domain.NewMillis(testNow.Add(-time.Hour)),
		UpdatedAt:  domain.NewMillis(testNow.Add(-time.Hour)),
	}
	for _, fn := range mutate {
		fn(&n)
	}
	return n
}

func childOf(parentID string) func(*domain.Note) {
	return func(n *domain.Note) { n.ParentID = &parentID }
}

func TestEvaluateShowsEverythingWithoutFilters(t *testing.T) {
	d := fixtureData()
	d.Notes = []domain.Note{
		note("a"),
		note("b", childOf("a")),
		note("c"),
	}
	idx := state.NewIndex(d)

	res := Evaluate(d, idx, Query{FilterBy: FilterAll}, testNow)

	assert.Len(t, res.Matching, 3)
	assert.Len(t, res.Visible, 3)
	require.Len(t, res.TopLevel, 2)
}

func TestEvaluatePreservesAncestorsOfMatches(t *testing.T) {
	d := fixtureData()
	d.Notes = []domain.Note{
		note("root"),
		note("mid", childOf("root")),
		note("leaf", childOf("mid"), func(n *domain.Note) { n.IsUrgent = true }),
		note("other"),
	}
	idx := state.NewIndex(d)

	res := Evaluate(d, idx, Query{FilterBy: FilterUrgent}, testNow)

	assert.True(t, res.Matching["leaf"])
	assert.False(t, res.Matching["root"])
	assert.True(t, res.Visible["root"], "ancestors of a match stay visible")
	assert.True(t, res.Visible["mid"])
	assert.False(t, res.Visible["other"])
	require.Len(t, res.TopLevel, 1)
	assert.Equal(t, "root", res.TopLevel[0].ID)
}

func TestEvaluateActiveFilterCanYieldEmptyResult(t *testing.T) {
	d := fixtureData()
	d.Notes = []domain.Note{note("a"), note("b")}
	idx := state.NewIndex(d)

	res := Evaluate(d, idx, Query{FilterBy: FilterUrgent}, testNow)

	assert.Empty(t, res.Matching, "no fallback when a filter is configured")
	assert.Empty(t, res.TopLevel)
}

func TestEvaluateBaseFilters(t *testing.T) {
	due := domain.MillisPtr(testNow.AddDate(0, 0, 3))
	farDue := domain.MillisPtr(testNow.AddDate(0, 0, 30))
	s1, s2 := "s1", "s2"

	d := fixtureData()
	d.Notes = []domain.Note{
		note("proj", func(n *domain.Note) { n.ProjectIDs = []string{"p1"} }),
		note("soon", func(n *domain.Note) { n.DueDate = due }),
		note("later", func(n *domain.Note) { n.DueDate = farDue }),
		note("todo-open", func(n *domain.Note) { n.Type = domain.TypeToDo }),
		note("todo-done", func(n *domain.Note) {
			n.Type = domain.TypeToDo
			n.Status = domain.StatusDone
		}),
		note("in-active", func(n *domain.Note) { n.SessionID = &s1 }),
		note("in-other", func(n *domain.Note) { n.SessionID = &s2 }),
	}
	idx := state.NewIndex(d)

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{
			name:  "project",
			query: Query{FilterBy: FilterProject, SelectedProjectID: "p1"},
			want:  []string{"proj"},
		},
		{
			name:  "due within a week",
			query: Query{FilterBy: FilterDueWeek},
			want:  []string{"soon"},
		},
		{
			name:  "open to-dos only",
			query: Query{FilterBy: FilterToDo},
			want:  []string{"todo-open"},
		},
		{
			name:  "session defaults to the active one",
			query: Query{FilterBy: FilterSession},
			want:  []string{"in-active"},
		},
		{
			name:  "explicit session",
			query: Query{FilterBy: FilterSession, SessionFilter: "s2"},
			want:  []string{"in-other"},
		},
		{
			name:  "all sessions sentinel",
			query: Query{FilterBy: FilterSession, SessionFilter: SessionFilterAll},
			want:  []string{"in-active", "in-other"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Evaluate(d, idx, tc.query, testNow)
			var got []string
			for _, n := range d.Notes {
				if res.Matching[n.ID] {
					got = append(got, n.ID)
				}
			}
			assert.ElementsMatch(t, tc.want, got)
		})
	}
}

func TestEvaluateTagFilter(t *testing.T) {
	d := fixtureData()
	d.Notes = []domain.Note{
		note("a", func(n *domain.Note) { n.ProjectIDs = []string{"p1"} }),
		note("b", func(n *domain.Note) { n.Type = domain.TypeToDo }),
		note("c", func(n *domain.Note) { n.Status = domain.StatusDone }),
	}
	idx := state.NewIndex(d)

	tests := []struct {
		name   string
		filter TagFilter
		want   string
	}{
		{"project chip", TagFilter{Kind: TagFilterProject, Value: "p1"}, "a"},
		{"type chip", TagFilter{Kind: TagFilterType, Value: domain.TypeToDo}, "b"},
		{"status chip", TagFilter{Kind: TagFilterStatus, Value: "done"}, "c"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Evaluate(d, idx, Query{TagFilter: &tc.filter}, testNow)
			require.Len(t, res.Matching, 1)
			assert.True(t, res.Matching[tc.want])
		})
	}
}

func TestColumnFilters(t *testing.T) {
	overdue := domain.MillisPtr(testNow.AddDate(0, 0, -2))
	s1 := "s1"

	d := fixtureData()
	d.Notes = []domain.Note{
		note("a", func(n *domain.Note) {
			n.ProjectIDs = []string{"p1"}
			n.IsUrgent = true
			n.DueDate = overdue
		}),
		note("b", func(n *domain.Note) { n.SessionID = &s1 }),
	}
	idx := state.NewIndex(d)

	tests := []struct {
		name    string
		columns ColumnFilters
		want    []string
	}{
		{"urgent true", ColumnFilters{Urgent: "true"}, []string{"a"}},
		{"overdue", ColumnFilters{Due: "overdue"}, []string{"a"}},
		{"no due date", ColumnFilters{Due: "none"}, []string{"b"}},
		{"session column", ColumnFilters{SessionID: "s1"}, []string{"b"}},
		{"combined columns AND together", ColumnFilters{ProjectID: "p1", Urgent: "true"}, []string{"a"}},
		{"unknown project id is ignored", ColumnFilters{ProjectID: "missing"}, []string{"a", "b"}},
		{"malformed due value is ignored", ColumnFilters{Due: "sometime"}, []string{"a", "b"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Evaluate(d, idx, Query{Columns: tc.columns}, testNow)
			var got []string
			for _, n := range d.Notes {
				if res.Matching[n.ID] {
					got = append(got, n.ID)
				}
			}
			assert.ElementsMatch(t, tc.want, got)
		})
	}
}

func TestEvaluateWithCompiledSearch(t *testing.T) {
	d := fixtureData()
	d.Notes = []domain.Note{
		note("a", func(n *domain.Note) {
			n.ProjectIDs = []string{"p1"}
			n.Content = "draft launch checklist"
		}),
		note("b", func(n *domain.Note) { n.Content = "unrelated" }),
	}
	idx := state.NewIndex(d)

	criteria := tags.CompileSearch("launch /p apollo", d.Projects, d.Sessions, testNow)
	res := Evaluate(d, idx, Query{Search: &criteria}, testNow)

	require.Len(t, res.Matching, 1)
	assert.True(t, res.Matching["a"])
}

func TestDefaultSortDoneLastUrgentFirstNewestFirst(t *testing.T) {
	at := func(offset time.Duration) domain.Millis {
		return domain.NewMillis(testNow.Add(offset))
	}
	d := fixtureData()
	d.Notes = []domain.Note{
		note("old", func(n *domain.Note) { n.CreatedAt = at(-3 * time.Hour) }),
		note("done", func(n *domain.Note) {
			n.Status = domain.StatusDone
			n.CreatedAt = at(-time.Minute)
		}),
		note("urgent", func(n *domain.Note) {
			n.IsUrgent = true
			n.CreatedAt = at(-2 * time.Hour)
		}),
		note("new", func(n *domain.Note) { n.CreatedAt = at(-time.Hour) }),
	}
	idx := state.NewIndex(d)

	res := Evaluate(d, idx, Query{}, testNow)

	require.Len(t, res.TopLevel, 4)
	got := make([]string, len(res.TopLevel))
	for i, n := range res.TopLevel {
		got[i] = n.ID
	}
	assert.Equal(t, []string{"urgent", "new", "old", "done"}, got)
}

func TestColumnSortAscDescAndStability(t *testing.T) {
	due := func(days int) *domain.Millis {
		return domain.MillisPtr(testNow.AddDate(0, 0, days))
	}
	d := fixtureData()
	d.Notes = []domain.Note{
		note("far", func(n *domain.Note) { n.DueDate = due(9) }),
		note("none-1"),
		note("soon", func(n *domain.Note) { n.DueDate = due(1) }),
		note("none-2"),
	}
	idx := state.NewIndex(d)

	ids := func(res Result) []string {
		out := make([]string, len(res.TopLevel))
		for i, n := range res.TopLevel {
			out[i] = n.ID
		}
		return out
	}

	asc := Evaluate(d, idx, Query{Sort: SortConfig{Column: SortDueDate, Direction: SortAsc}}, testNow)
	assert.Equal(t, []string{"soon", "far", "none-1", "none-2"}, ids(asc),
		"absent due dates sort last, ties keep input order")

	desc := Evaluate(d, idx, Query{Sort: SortConfig{Column: SortDueDate, Direction: SortDesc}}, testNow)
	assert.Equal(t, []string{"none-1", "none-2", "far", "soon"}, ids(desc))
}

func TestColumnSortByProjectUsesLowestName(t *testing.T) {
	d := fixtureData()
	d.Notes = []domain.Note{
		note("b-only", func(n *domain.Note) { n.ProjectIDs = []string{"p2"} }),
		note("both", func(n *domain.Note) { n.ProjectIDs = []string{"p2", "p1"} }),
	}
	idx := state.NewIndex(d)

	res := Evaluate(d, idx, Query{Sort: SortConfig{Column: SortProject, Direction: SortAsc}}, testNow)

	require.Len(t, res.TopLevel, 2)
	assert.Equal(t, "both", res.TopLevel[0].ID, "multi-project notes sort by their lowest project name")
}

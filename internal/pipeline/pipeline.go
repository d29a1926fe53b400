// Package pipeline turns the full note state plus a query into the visible
// row tree: predicate matching, ancestor-preserving visibility, sorting,
// grouping, and row construction. Everything here is a pure function of its
// inputs; no state is held between evaluations.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/antonkarev/notedeck/internal/state"
)

// Result is the evaluated visible-note set. Matching holds notes that satisfy
// every active predicate directly; Visible additionally includes every
// ancestor of a match so subtree context is never lost; TopLevel holds the
// sorted parentless visible notes.
type Result struct {
	TopLevel []domain.Note
	Visible  map[string]bool
	Matching map[string]bool
}

// Evaluate runs the filter pipeline. A note matches only when every active
// predicate family passes. When nothing matches and no filter or search is
// configured at all, everything is shown.
func Evaluate(d state.Data, idx *state.Index, q Query, now time.Time) Result {
	matching := make(map[string]bool)
	mc := idx.MatchContext()

	for i := range d.Notes {
		n := &d.Notes[i]
		if !matchesBaseFilter(n, idx, q, now) {
			continue
		}
		if !matchesTagFilter(n, q.TagFilter) {
			continue
		}
		if !q.Columns.matches(n, idx, now) {
			continue
		}
		if q.Search != nil && !q.Search.IsZero() && !q.Search.Matches(n, mc) {
			continue
		}
		matching[n.ID] = true
	}

	if len(matching) == 0 && !q.anyFilterActive() {
		for i := range d.Notes {
			matching[d.Notes[i].ID] = true
		}
	}

	visible := make(map[string]bool, len(matching))
	for id := range matching {
		visible[id] = true
		for _, ancestor := range idx.Ancestors(id) {
			visible[ancestor] = true
		}
	}

	var topLevel []domain.Note
	for _, n := range d.Notes {
		if n.ParentID == nil && visible[n.ID] {
			topLevel = append(topLevel, n)
		}
	}
	sortTopLevel(topLevel, idx, q.Sort)

	return Result{TopLevel: topLevel, Visible: visible, Matching: matching}
}

func matchesBaseFilter(n *domain.Note, idx *state.Index, q Query, now time.Time) bool {
	switch q.FilterBy {
	case FilterProject:
		if q.SelectedProjectID == "" {
			return true
		}
		return n.HasProject(q.SelectedProjectID)
	case FilterUrgent:
		return n.IsUrgent
	case FilterDueWeek:
		if n.DueDate == nil {
			return false
		}
		return !n.DueDate.After(now.AddDate(0, 0, 7))
	case FilterToDo:
		return n.Type == domain.TypeToDo && domain.NormalizeStatus(n.Status) != domain.StatusDone
	case FilterSession:
		if q.SessionFilter == SessionFilterAll {
			return n.SessionID != nil
		}
		target := q.SessionFilter
		if target == "" && idx.ActiveSession != nil {
			target = idx.ActiveSession.ID
		}
		if target == "" {
			return n.SessionID != nil
		}
		return n.SessionID != nil && *n.SessionID == target
	default:
		return true
	}
}

func matchesTagFilter(n *domain.Note, tf *TagFilter) bool {
	if tf == nil {
		return true
	}
	switch tf.Kind {
	case TagFilterProject:
		return n.HasProject(tf.Value)
	case TagFilterType:
		return n.Type == tf.Value
	case TagFilterStatus:
		return string(domain.NormalizeStatus(n.Status)) == tf.Value
	default:
		return true
	}
}

// sortTopLevel orders parentless notes. Without an explicit column sort the
// default heuristic applies: done sinks to the bottom, urgent rises within
// the rest, newest first as the final tiebreak. An explicit column sort
// replaces the heuristic entirely; ties keep their existing relative order.
func sortTopLevel(notes []domain.Note, idx *state.Index, cfg SortConfig) {
	if cfg.Column == SortNone {
		sort.SliceStable(notes, func(i, j int) bool {
			a, b := &notes[i], &notes[j]
			aDone := domain.NormalizeStatus(a.Status) == domain.StatusDone
			bDone := domain.NormalizeStatus(b.Status) == domain.StatusDone
			if aDone != bDone {
				return !aDone
			}
			if a.IsUrgent != b.IsUrgent {
				return a.IsUrgent
			}
			return a.CreatedAt.After(b.CreatedAt.Time)
		})
		return
	}

	desc := cfg.Direction == SortDesc
	sort.SliceStable(notes, func(i, j int) bool {
		cmp := compareByColumn(&notes[i], &notes[j], idx, cfg.Column)
		if desc {
			cmp = -cmp
		}
		return cmp < 0
	})
}

func compareByColumn(a, b *domain.Note, idx *state.Index, col SortColumn) int {
	switch col {
	case SortType:
		return strings.Compare(typeDisplayName(a, idx), typeDisplayName(b, idx))
	case SortProject:
		return strings.Compare(lowestProjectName(a, idx), lowestProjectName(b, idx))
	case SortSession:
		return strings.Compare(sessionTitle(a, idx), sessionTitle(b, idx))
	case SortDueDate:
		return compareDue(a.DueDate, b.DueDate)
	case SortUrgent:
		return boolOrdinal(a.IsUrgent) - boolOrdinal(b.IsUrgent)
	case SortStatus:
		return a.Status.Ordinal() - b.Status.Ordinal()
	case SortCreated:
		return compareMillis(a.CreatedAt, b.CreatedAt)
	default:
		return 0
	}
}

// lowestProjectName is the sort key for the project column: the
// lexicographically lowest name among the note's projects.
func lowestProjectName(n *domain.Note, idx *state.Index) string {
	lowest := ""
	for _, id := range n.ProjectIDs {
		p, ok := idx.ProjectsByID[id]
		if !ok {
			continue
		}
		name := strings.ToLower(p.Name)
		if lowest == "" || name < lowest {
			lowest = name
		}
	}
	return lowest
}

func sessionTitle(n *domain.Note, idx *state.Index) string {
	if n.SessionID == nil {
		return ""
	}
	if s, ok := idx.SessionsByID[*n.SessionID]; ok {
		return strings.ToLower(s.Title)
	}
	return ""
}

func typeDisplayName(n *domain.Note, idx *state.Index) string {
	if t, ok := idx.NoteTypesByID[n.Type]; ok {
		return strings.ToLower(t.Name)
	}
	return strings.ToLower(domain.TitleCase(n.Type))
}

// compareDue orders due dates numerically with absent dates last.
func compareDue(a, b *domain.Millis) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}
	return compareMillis(*a, *b)
}

func compareMillis(a, b domain.Millis) int {
	am, bm := a.UnixMilli(), b.UnixMilli()
	switch {
	case am < bm:
		return -1
	case am > bm:
		return 1
	default:
		return 0
	}
}

func boolOrdinal(v bool) int {
	if v {
		return 1
	}
	return 0
}

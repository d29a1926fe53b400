package pipeline

import (
	"strconv"
	"time"

	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/antonkarev/notedeck/internal/state"
	"github.com/antonkarev/notedeck/internal/tags"
)

type FilterBy string

const (
	FilterAll     FilterBy = "all"
	FilterProject FilterBy = "project"
	FilterUrgent  FilterBy = "urgent"
	FilterDueWeek FilterBy = "due_week"
	FilterToDo    FilterBy = "to_do"
	FilterSession FilterBy = "session"
)

// SessionFilterAll selects every note attached to any session.
const SessionFilterAll = "__ALL__"

type TagFilterKind string

const (
	TagFilterProject TagFilterKind = "project"
	TagFilterType    TagFilterKind = "type"
	TagFilterStatus  TagFilterKind = "status"
)

// TagFilter is a single click-to-filter chip: one dimension, one value.
type TagFilter struct {
	Kind  TagFilterKind
	Value string
}

type SortColumn string

const (
	SortNone    SortColumn = ""
	SortType    SortColumn = "type"
	SortProject SortColumn = "project"
	SortSession SortColumn = "session"
	SortDueDate SortColumn = "due_date"
	SortUrgent  SortColumn = "urgent"
	SortStatus  SortColumn = "status"
	SortCreated SortColumn = "created_at"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortConfig selects an explicit column sort. The zero value means the
// default heuristic ordering.
type SortConfig struct {
	Column    SortColumn
	Direction SortDirection
}

type GroupBy string

const (
	GroupNone    GroupBy = "none"
	GroupProject GroupBy = "project"
	GroupType    GroupBy = "type"
	GroupSession GroupBy = "session"
	GroupDueDate GroupBy = "due_date"
)

// ColumnFilters carries per-column filter values as entered. Values that
// don't resolve against the current state are treated as "no filter for that
// column" rather than as errors.
type ColumnFilters struct {
	Type      string
	ProjectID string
	SessionID string
	Status    string
	Urgent    string // "true" / "false"
	Due       string // "none", "overdue", "week", or YYYY-MM-DD
}

func (f ColumnFilters) isZero() bool {
	return f == ColumnFilters{}
}

// matches evaluates all well-formed column filters against a note.
func (f ColumnFilters) matches(n *domain.Note, idx *state.Index, now time.Time) bool {
	if f.Type != "" {
		if _, known := idx.NoteTypesByID[f.Type]; known && n.Type != f.Type {
			return false
		}
	}
	if f.ProjectID != "" {
		if _, known := idx.ProjectsByID[f.ProjectID]; known && !n.HasProject(f.ProjectID) {
			return false
		}
	}
	if f.SessionID != "" {
		if _, known := idx.SessionsByID[f.SessionID]; known {
			if n.SessionID == nil || *n.SessionID != f.SessionID {
				return false
			}
		}
	}
	if f.Status != "" {
		if wanted, ok := parseStatusValue(f.Status); ok && domain.NormalizeStatus(n.Status) != wanted {
			return false
		}
	}
	if f.Urgent != "" {
		if wanted, err := strconv.ParseBool(f.Urgent); err == nil && n.IsUrgent != wanted {
			return false
		}
	}
	if f.Due != "" {
		if pred, ok := parseDueColumnFilter(f.Due, now); ok && !pred(n) {
			return false
		}
	}
	return true
}

func parseStatusValue(value string) (domain.Status, bool) {
	for _, known := range domain.StatusOrder {
		if string(known) == value {
			return known, true
		}
	}
	return "", false
}

func parseDueColumnFilter(value string, now time.Time) (func(n *domain.Note) bool, bool) {
	switch value {
	case "none":
		return func(n *domain.Note) bool { return n.DueDate == nil }, true
	case "overdue":
		return func(n *domain.Note) bool {
			return n.DueDate != nil && n.DueDate.Before(now)
		}, true
	case "week":
		weekFromNow := now.AddDate(0, 0, 7)
		return func(n *domain.Note) bool {
			return n.DueDate != nil && !n.DueDate.After(weekFromNow)
		}, true
	}
	day, err := time.ParseInLocation("2006-01-02", value, now.Location())
	if err != nil {
		return nil, false
	}
	end := day.AddDate(0, 0, 1)
	return func(n *domain.Note) bool {
		return n.DueDate != nil && !n.DueDate.Before(day) && n.DueDate.Before(end)
	}, true
}

// Query is everything the pipeline needs to decide what is visible and in
// what order. It is a pure value; evaluation never mutates state.
type Query struct {
	FilterBy          FilterBy
	SelectedProjectID string
	SessionFilter     string // session id, SessionFilterAll, or "" for the active session
	TagFilter         *TagFilter
	Columns           ColumnFilters
	Search            *tags.Criteria
	Sort              SortConfig
	GroupBy           GroupBy
}

// anyFilterActive reports whether any predicate family is configured. Used to
// distinguish "explicit empty result" from "nothing configured".
func (q Query) anyFilterActive() bool {
	if q.FilterBy != "" && q.FilterBy != FilterAll {
		return true
	}
	if q.TagFilter != nil {
		return true
	}
	if !q.Columns.isZero() {
		return true
	}
	if q.Search != nil && !q.Search.IsZero() {
		return true
	}
	return false
}

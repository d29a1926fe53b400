package pipeline

import (
	"time"

	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/antonkarev/notedeck/internal/state"
)

// Bucket is one display group of top-level notes.
type Bucket struct {
	Key   string
	Notes []domain.Note
}

const (
	bucketAllItems  = "All Items"
	bucketNoProject = "No Project"
	bucketNoSession = "No Session"
	bucketNoDueDate = "No Due Date"
	bucketOverdue   = "Overdue"
	bucketThisWeek  = "This Week"
	bucketLater     = "Later"
)

// GroupNotes partitions sorted top-level notes into display buckets. Under
// project grouping a note appears once per associated project. Bucket order
// is first-appearance for the name-keyed groupings and fixed for due dates.
func GroupNotes(topLevel []domain.Note, idx *state.Index, groupBy GroupBy, now time.Time) []Bucket {
	switch groupBy {
	case GroupProject:
		return groupByKeys(topLevel, func(n *domain.Note) []string {
			if len(n.ProjectIDs) == 0 {
				return []string{bucketNoProject}
			}
			keys := make([]string, 0, len(n.ProjectIDs))
			for _, id := range n.ProjectIDs {
				if p, ok := idx.ProjectsByID[id]; ok {
					keys = append(keys, p.Name)
				} else {
					keys = append(keys, bucketNoProject)
				}
			}
			return keys
		})
	case GroupType:
		return groupByKeys(topLevel, func(n *domain.Note) []string {
			if t, ok := idx.NoteTypesByID[n.Type]; ok {
				return []string{t.Name}
			}
			return []string{domain.TitleCase(n.Type)}
		})
	case GroupSession:
		return groupByKeys(topLevel, func(n *domain.Note) []string {
			if n.SessionID != nil {
				if s, ok := idx.SessionsByID[*n.SessionID]; ok {
					return []string{s.Title}
				}
			}
			return []string{bucketNoSession}
		})
	case GroupDueDate:
		return groupByDueDate(topLevel, now)
	default:
		return []Bucket{{Key: bucketAllItems, Notes: topLevel}}
	}
}

func groupByKeys(notes []domain.Note, keysFor func(n *domain.Note) []string) []Bucket {
	var order []string
	byKey := make(map[string]*Bucket)
	for i := range notes {
		for _, key := range dedupe(keysFor(&notes[i])) {
			bucket, ok := byKey[key]
			if !ok {
				bucket = &Bucket{Key: key}
				byKey[key] = bucket
				order = append(order, key)
			}
			bucket.Notes = append(bucket.Notes, notes[i])
		}
	}
	out := make([]Bucket, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}

// groupByDueDate partitions into the four fixed buckets by comparing against
// now and now+7 days. Empty buckets are kept; renderers decide whether to
// show them.
func groupByDueDate(notes []domain.Note, now time.Time) []Bucket {
	weekFromNow := now.AddDate(0, 0, 7)
	buckets := []Bucket{
		{Key: bucketNoDueDate},
		{Key: bucketOverdue},
		{Key: bucketThisWeek},
		{Key: bucketLater},
	}
	for _, n := range notes {
		slot := 0
		switch {
		case n.DueDate == nil:
			slot = 0
		case n.DueDate.Before(now):
			slot = 1
		case !n.DueDate.After(weekFromNow):
			slot = 2
		default:
			slot = 3
		}
		buckets[slot].Notes = append(buckets[slot].Notes, n)
	}
	return buckets
}

func dedupe(keys []string) []string {
	if len(keys) <= 1 {
		return keys
	}
	seen := make(map[string]bool, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

package pipeline

import (
	"sort"

	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/antonkarev/notedeck/internal/state"
)

type RowKind string

const (
	RowNote         RowKind = "note"
	RowComment      RowKind = "comment"
	RowCommentInput RowKind = "comment-input"
)

// Row is one rendered line of the note tree.
type Row struct {
	Kind             RowKind
	Note             *domain.Note
	Comment          *domain.Comment
	NoteID           string // comment-input target
	Depth            int
	ChildCount       int
	CommentCount     int
	Collapsed        bool
	CommentsExpanded bool
}

// RowOptions carries the per-note display toggles.
type RowOptions struct {
	Collapsed        map[string]bool
	ExpandedComments map[string]bool
}

// BuildRows expands one top-level note into its display rows. A note that is
// a direct match contributes its entire subtree; otherwise only children in
// the visible set are recursed into. Collapsed notes contribute a single row.
// When a note's comment thread is expanded, its comment rows and a trailing
// comment-input row follow the children.
func BuildRows(note domain.Note, idx *state.Index, res Result, opts RowOptions) []Row {
	return buildRows(note, 0, idx, res, opts)
}

func buildRows(note domain.Note, depth int, idx *state.Index, res Result, opts RowOptions) []Row {
	candidates := append([]*domain.Note{}, idx.ChildrenByParent[note.ID]...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt.Time)
	})

	var children []*domain.Note
	if res.Matching[note.ID] {
		children = candidates
	} else {
		for _, child := range candidates {
			if res.Visible[child.ID] {
				children = append(children, child)
			}
		}
	}

	comments := append([]*domain.Comment{}, idx.CommentsByNote[note.ID]...)
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt.Time)
	})

	collapsed := opts.Collapsed[note.ID]
	commentsExpanded := opts.ExpandedComments[note.ID]

	current := note
	rows := []Row{{
		Kind:             RowNote,
		Note:             &current,
		Depth:            depth,
		ChildCount:       len(children),
		CommentCount:     len(comments),
		Collapsed:        collapsed,
		CommentsExpanded: commentsExpanded,
	}}

	if collapsed {
		return rows
	}

	for _, child := range children {
		rows = append(rows, buildRows(*child, depth+1, idx, res, opts)...)
	}
	if commentsExpanded {
		for _, comment := range comments {
			rows = append(rows, Row{Kind: RowComment, Comment: comment, Depth: depth + 1})
		}
		rows = append(rows, Row{Kind: RowCommentInput, NoteID: note.ID, Depth: depth + 1})
	}
	return rows
}

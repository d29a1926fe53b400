package state

import (
	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/antonkarev/notedeck/internal/tags"
)

// Index holds derived lookups over one state version. It is rebuilt whenever
// the state changes; nothing here is ambient or cached across versions.
type Index struct {
	NotesByID        map[string]*domain.Note
	ChildrenByParent map[string][]*domain.Note
	CommentsByNote   map[string][]*domain.Comment
	ProjectsByID     map[string]*domain.Project
	SessionsByID     map[string]*domain.Session
	NoteTypesByID    map[string]*domain.NoteType
	ActiveSession    *domain.Session
}

// NewIndex builds the lookup maps for the given state version.
func NewIndex(d Data) *Index {
	idx := &Index{
		NotesByID:        make(map[string]*domain.Note, len(d.Notes)),
		ChildrenByParent: make(map[string][]*domain.Note),
		CommentsByNote:   make(map[string][]*domain.Comment),
		ProjectsByID:     make(map[string]*domain.Project, len(d.Projects)),
		SessionsByID:     make(map[string]*domain.Session, len(d.Sessions)),
		NoteTypesByID:    make(map[string]*domain.NoteType, len(d.NoteTypes)),
	}
	for i := range d.Notes {
		note := &d.Notes[i]
		idx.NotesByID[note.ID] = note
		if note.ParentID != nil {
			idx.ChildrenByParent[*note.ParentID] = append(idx.ChildrenByParent[*note.ParentID], note)
		}
	}
	for i := range d.Comments {
		comment := &d.Comments[i]
		idx.CommentsByNote[comment.NoteID] = append(idx.CommentsByNote[comment.NoteID], comment)
	}
	for i := range d.Projects {
		idx.ProjectsByID[d.Projects[i].ID] = &d.Projects[i]
	}
	for i := range d.Sessions {
		idx.SessionsByID[d.Sessions[i].ID] = &d.Sessions[i]
		if d.Sessions[i].IsActive {
			idx.ActiveSession = &d.Sessions[i]
		}
	}
	for i := range d.NoteTypes {
		idx.NoteTypesByID[d.NoteTypes[i].ID] = &d.NoteTypes[i]
	}
	return idx
}

// Ancestors walks the parent chain from the given note up to its root,
// returning every ancestor id. Dangling parent references terminate the walk.
func (idx *Index) Ancestors(noteID string) []string {
	var out []string
	current := idx.NotesByID[noteID]
	for current != nil && current.ParentID != nil {
		out = append(out, *current.ParentID)
		current = idx.NotesByID[*current.ParentID]
	}
	return out
}

// DescendantClosure returns the set of the note's descendants including the
// note itself, following child edges.
func (idx *Index) DescendantClosure(noteID string) map[string]bool {
	closure := map[string]bool{noteID: true}
	stack := []string{noteID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range idx.ChildrenByParent[id] {
			if !closure[child.ID] {
				closure[child.ID] = true
				stack = append(stack, child.ID)
			}
		}
	}
	return closure
}

// MatchContext adapts the index lookups for search criteria evaluation.
func (idx *Index) MatchContext() tags.MatchContext {
	mc := tags.MatchContext{
		ProjectNamesByID:  make(map[string]string, len(idx.ProjectsByID)),
		SessionTitlesByID: make(map[string]string, len(idx.SessionsByID)),
		TypeNamesByID:     make(map[string]string, len(idx.NoteTypesByID)),
	}
	for id, p := range idx.ProjectsByID {
		mc.ProjectNamesByID[id] = p.Name
	}
	for id, s := range idx.SessionsByID {
		mc.SessionTitlesByID[id] = s.Title
	}
	for id, t := range idx.NoteTypesByID {
		mc.TypeNamesByID[id] = t.Name
	}
	return mc
}

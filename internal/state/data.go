package state

import (
	"github.com/antonkarev/notedeck/internal/domain"
)

// Data is the full working state, matching the persisted snapshot shape.
// It is treated as an immutable value: mutations build a new Data rather
// than editing slices in place.
type Data struct {
	Projects  []domain.Project  `json:"projects"`
	People    []domain.Person   `json:"people"`
	Sessions  []domain.Session  `json:"sessions"`
	NoteTypes []domain.NoteType `json:"noteTypes"`
	Notes     []domain.Note     `json:"notes"`
	Comments  []domain.Comment  `json:"comments"`
	Settings  domain.Settings   `json:"settings"`
}

// Default returns the empty initial state with the two system note types.
func Default() Data {
	return Data{
		Projects:  []domain.Project{},
		People:    []domain.Person{},
		Sessions:  []domain.Session{},
		NoteTypes: defaultNoteTypes(),
		Notes:     []domain.Note{},
		Comments:  []domain.Comment{},
		Settings:  domain.Settings{AutoAnalyze: true},
	}
}

func defaultNoteTypes() []domain.NoteType {
	return []domain.NoteType{
		{ID: domain.TypeNote, Name: "Note", IsSystem: true},
		{ID: domain.TypeToDo, Name: "To Do", IsSystem: true},
	}
}

// Sanitize repairs loaded state: the system note types are always present,
// the legacy deliverable type is migrated to note, statuses are normalized,
// and comments get their optional fields defaulted. Malformed input degrades
// to the default structure rather than failing.
func Sanitize(raw Data) Data {
	out := raw

	out.NoteTypes = ensureDefaultNoteTypes(raw.NoteTypes)

	out.Notes = make([]domain.Note, 0, len(raw.Notes))
	for _, note := range raw.Notes {
		if note.ID == "" {
			continue
		}
		if note.Type == domain.TypeLegacyDeliverable {
			note.Type = domain.TypeNote
		}
		note.Status = domain.NormalizeStatus(note.Status)
		if note.ProjectIDs == nil {
			note.ProjectIDs = []string{}
		}
		out.Notes = append(out.Notes, note)
	}

	out.Comments = make([]domain.Comment, 0, len(raw.Comments))
	for _, comment := range raw.Comments {
		if comment.ID == "" || comment.NoteID == "" {
			continue
		}
		if comment.Type == "" {
			comment.Type = domain.TypeNote
		}
		out.Comments = append(out.Comments, comment)
	}

	if out.Projects == nil {
		out.Projects = []domain.Project{}
	}
	if out.People == nil {
		out.People = []domain.Person{}
	}
	if out.Sessions == nil {
		out.Sessions = []domain.Session{}
	}
	return out
}

func ensureDefaultNoteTypes(types []domain.NoteType) []domain.NoteType {
	base := make([]domain.NoteType, 0, len(types)+2)
	seen := make(map[string]bool, len(types)+2)
	for _, t := range types {
		if t.ID == "" || t.ID == domain.TypeLegacyDeliverable || seen[t.ID] {
			continue
		}
		base = append(base, t)
		seen[t.ID] = true
	}
	for _, def := range defaultNoteTypes() {
		if !seen[def.ID] {
			base = append(base, def)
			seen[def.ID] = true
		}
	}
	return base
}

// Autosave is one entry in the bounded autosave ring: a timestamped full
// snapshot plus the selection that was live when it was taken.
type Autosave struct {
	ID              string        `json:"id"`
	Timestamp       domain.Millis `json:"timestamp"`
	Data            Data          `json:"data"`
	SelectedNoteIDs []string      `json:"selectedNoteIds"`
}

// Snapshot is the locally persisted working copy: the state plus the session
// bookkeeping that has to survive process exits so a select, a bulk action,
// and the undo of that action can happen in separate invocations. Only Data
// travels to the remote store.
type Snapshot struct {
	Data            Data        `json:"data"`
	SelectedNoteIDs []string    `json:"selectedNoteIds"`
	Undo            *UndoRecord `json:"undo,omitempty"`
}

// UndoRecord is the serialized form of the single undo slot.
type UndoRecord struct {
	Data            Data     `json:"data"`
	SelectedNoteIDs []string `json:"selectedNoteIds"`
}

// ActiveSession returns the currently active session, if any.
func (d Data) ActiveSession() *domain.Session {
	for i := range d.Sessions {
		if d.Sessions[i].IsActive {
			return &d.Sessions[i]
		}
	}
	return nil
}

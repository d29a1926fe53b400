package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/antonkarev/notedeck/internal/state"
)

// Note options
type NoteOption func(*domain.Note)

func WithParent(parentID string) NoteOption {
	return func(n *domain.Note) {
		n.ParentID = &parentID
	}
}

func WithProjects(ids ...string) NoteOption {
	return func(n *domain.Note) {
		n.ProjectIDs = ids
	}
}

func WithSession(sessionID string) NoteOption {
	return func(n *domain.Note) {
		n.SessionID = &sessionID
	}
}

func WithType(noteType string) NoteOption {
	return func(n *domain.Note) {
		n.Type = noteType
	}
}

func WithStatus(s domain.Status) NoteOption {
	return func(n *domain.Note) {
		n.Status = s
	}
}

func WithDueDate(t time.Time) NoteOption {
	return func(n *domain.Note) {
		n.DueDate = domain.MillisPtr(t)
	}
}

func Urgent() NoteOption {
	return func(n *domain.Note) {
		n.IsUrgent = true
	}
}

// NewNote builds a plain top-level note with the given content.
func NewNote(content string, opts ...NoteOption) domain.Note {
	now := domain.NewMillis(time.Now())
	n := domain.Note{
		ID:         uuid.NewString(),
		ProjectIDs: []string{},
		Type:       domain.TypeNote,
		Content:    content,
		Status:     domain.StatusNotStarted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// NewProject builds a project with the given name.
func NewProject(name string) domain.Project {
	now := domain.NewMillis(time.Now())
	return domain.Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewSession builds an inactive meeting session on the given project.
func NewSession(projectID, title string) domain.Session {
	return domain.Session{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Title:     title,
		Type:      domain.SessionMeeting,
		StartTime: domain.NewMillis(time.Now()),
		CreatedAt: domain.NewMillis(time.Now()),
	}
}

// SampleData builds a small populated state: two projects, one session, and
// a handful of notes spanning types and urgency.
func SampleData() state.Data {
	d := state.Default()
	alpha := NewProject("Alpha")
	beta := NewProject("Beta")
	session := NewSession(alpha.ID, "Weekly sync")

	d.Projects = []domain.Project{alpha, beta}
	d.Sessions = []domain.Session{session}
	d.Notes = []domain.Note{
		NewNote("write proposal", WithProjects(alpha.ID), WithType(domain.TypeToDo)),
		NewNote("urgent follow-up", WithProjects(beta.ID), Urgent()),
		NewNote("reading list"),
	}
	return d
}

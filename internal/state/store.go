package state

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/antonkarev/notedeck/internal/tags"
	"github.com/google/uuid"
)

// Store owns the working state and applies mutations to it. Every mutation
// produces a fresh Data value (replace, don't mutate), stamps timestamps, and
// keeps the selection set and the single undo slot consistent.
type Store struct {
	data      Data
	selection map[string]bool
	undo      *undoSnapshot
	now       func() time.Time
	newID     func() string
}

type undoSnapshot struct {
	data      Data
	selection map[string]bool
}

// NewStore creates a Store with the default clock and id generator.
func NewStore() *Store {
	return NewStoreWith(time.Now, func() string { return uuid.New().String() })
}

// NewStoreWith creates a Store with an explicit clock and id generator,
// which tests use for deterministic output.
func NewStoreWith(now func() time.Time, newID func() string) *Store {
	return &Store{
		data:      Default(),
		selection: make(map[string]bool),
		now:       now,
		newID:     newID,
	}
}

// Load replaces the working state with a sanitized copy of d, resetting the
// selection and undo slot. Remote loads use this; the local working copy
// goes through LoadSnapshot so the bookkeeping survives.
func (s *Store) Load(d Data) {
	s.data = Sanitize(d)
	s.selection = make(map[string]bool)
	s.undo = nil
}

// LoadSnapshot replaces the working state and restores the persisted
// selection and undo slot. Selection ids that no longer resolve are dropped.
func (s *Store) LoadSnapshot(sn Snapshot) {
	s.Load(sn.Data)
	s.Select(sn.SelectedNoteIDs...)
	if sn.Undo != nil {
		selection := make(map[string]bool, len(sn.Undo.SelectedNoteIDs))
		for _, id := range sn.Undo.SelectedNoteIDs {
			selection[id] = true
		}
		s.undo = &undoSnapshot{data: Sanitize(sn.Undo.Data), selection: selection}
	}
}

// Snapshot captures the state together with the selection and undo slot in
// their persistable form.
func (s *Store) Snapshot() Snapshot {
	sn := Snapshot{Data: s.data, SelectedNoteIDs: s.SelectedIDs()}
	if s.undo != nil {
		ids := make([]string, 0, len(s.undo.selection))
		for id := range s.undo.selection {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		sn.Undo = &UndoRecord{Data: s.undo.data, SelectedNoteIDs: ids}
	}
	return sn
}

// Data returns the current state version. Callers must treat it as read-only.
func (s *Store) Data() Data {
	return s.data
}

// Index builds fresh lookups over the current state version.
func (s *Store) Index() *Index {
	return NewIndex(s.data)
}

// AppliedTags carries the tag chips applied outside the entry text (the
// original UI let tags be applied interactively before submitting).
type AppliedTags struct {
	Type      string
	IsUrgent  bool
	DueDate   *time.Time
	ProjectID string
}

// AddQuickNote parses the quick-entry line and creates a top-level note.
// Applied tags merge with parsed ones: an applied non-default type wins, a
// parsed due date beats an applied one, urgency is the OR of both, and the
// project set is the union of parsed tags, the applied project, and the
// currently selected project. The active session, if any, is attached.
func (s *Store) AddQuickNote(raw string, applied AppliedTags, selectedProjectID string) (*domain.Note, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("quick entry is empty")
	}

	parsed := tags.Parse(text, s.data.Projects, s.now())
	content := parsed.Content
	if content == "" {
		content = text
	}

	noteType := parsed.Type
	if applied.Type != "" && applied.Type != domain.TypeNote {
		noteType = applied.Type
	}

	dueDate := parsed.DueDate
	if dueDate == nil {
		dueDate = applied.DueDate
	}

	projectIDs := make([]string, 0, len(parsed.ProjectIDs)+2)
	projectIDs = appendUniqueIDs(projectIDs, parsed.ProjectIDs...)
	projectIDs = appendUniqueIDs(projectIDs, applied.ProjectID, selectedProjectID)

	now := s.now()
	note := domain.Note{
		ID:         s.newID(),
		ParentID:   nil,
		ProjectIDs: projectIDs,
		SessionID:  s.activeSessionID(),
		Type:       noteType,
		Content:    content,
		DueDate:    millisPtr(dueDate),
		Status:     domain.StatusNotStarted,
		IsUrgent:   applied.IsUrgent || parsed.IsUrgent,
		CreatedAt:  domain.NewMillis(now),
		UpdatedAt:  domain.NewMillis(now),
	}

	next := s.data
	next.Notes = append(append([]domain.Note{}, s.data.Notes...), note)
	s.data = next
	return &note, nil
}

// Entry is a parsed thread-item submission under an existing note.
type Entry struct {
	Content   string
	Type      string
	DueDate   *time.Time
	IsUrgent  bool
	IsComment bool
}

// AddThreadItem adds a child under parentID, classifying it as a comment when
// the explicit flag is set, or when it is a plain note (no due date, not
// urgent) whose content starts with "//". Comments inherit the parent's
// session when none is active; child notes inherit the parent's project set.
func (s *Store) AddThreadItem(parentID string, entry Entry) (string, bool, error) {
	content := strings.TrimSpace(entry.Content)
	if content == "" {
		return "", false, fmt.Errorf("thread entry is empty")
	}
	idx := s.Index()
	parent, ok := idx.NotesByID[parentID]
	if !ok {
		return "", false, fmt.Errorf("note %s not found", parentID)
	}

	entryType := entry.Type
	if entryType == "" {
		entryType = domain.TypeNote
	}

	treatAsComment := entry.IsComment ||
		(entryType == domain.TypeNote && entry.DueDate == nil && !entry.IsUrgent &&
			strings.HasPrefix(content, "//"))

	now := s.now()
	sessionID := s.activeSessionID()
	if sessionID == nil {
		sessionID = parent.SessionID
	}

	next := s.data
	if treatAsComment {
		comment := domain.Comment{
			ID:        s.newID(),
			NoteID:    parentID,
			Content:   entry.Content,
			Type:      entryType,
			SessionID: sessionID,
			CreatedAt: domain.NewMillis(now),
		}
		next.Comments = append(append([]domain.Comment{}, s.data.Comments...), comment)
		s.data = next
		return comment.ID, true, nil
	}

	note := domain.Note{
		ID:         s.newID(),
		ParentID:   &parentID,
		ProjectIDs: append([]string{}, parent.ProjectIDs...),
		SessionID:  sessionID,
		Type:       entryType,
		Content:    entry.Content,
		DueDate:    millisPtr(entry.DueDate),
		Status:     domain.StatusNotStarted,
		IsUrgent:   entry.IsUrgent,
		CreatedAt:  domain.NewMillis(now),
		UpdatedAt:  domain.NewMillis(now),
	}
	next.Notes = append(append([]domain.Note{}, s.data.Notes...), note)
	s.data = next
	return note.ID, false, nil
}

// DeleteNote removes the note, its full descendant closure, and every comment
// attached to the removed subtree in one state update. Removed ids are purged
// from the selection. An undo snapshot is captured first.
func (s *Store) DeleteNote(noteID string) error {
	idx := s.Index()
	if _, ok := idx.NotesByID[noteID]; !ok {
		return fmt.Errorf("note %s not found", noteID)
	}
	s.snapshotUndo()
	s.removeClosure(idx.DescendantClosure(noteID))
	return nil
}

func (s *Store) removeClosure(closure map[string]bool) {
	next := s.data
	next.Notes = make([]domain.Note, 0, len(s.data.Notes))
	for _, n := range s.data.Notes {
		if !closure[n.ID] {
			next.Notes = append(next.Notes, n)
		}
	}
	next.Comments = make([]domain.Comment, 0, len(s.data.Comments))
	for _, c := range s.data.Comments {
		if !closure[c.NoteID] {
			next.Comments = append(next.Comments, c)
		}
	}
	s.data = next
	for id := range closure {
		delete(s.selection, id)
	}
}

// CycleStatus advances the note's status to the next value in cycling order,
// re-attaching the active session the way the status interaction always has.
func (s *Store) CycleStatus(noteID string) (domain.Status, error) {
	var cycled domain.Status
	err := s.updateNote(noteID, func(n *domain.Note) {
		cycled = n.Status.Next()
		n.Status = cycled
	})
	return cycled, err
}

// CycleType advances the note's type to the next note type in definition
// order, wrapping around. Unknown types restart at the first.
func (s *Store) CycleType(noteID string) (string, error) {
	types := s.data.NoteTypes
	if len(types) == 0 {
		return "", fmt.Errorf("no note types defined")
	}
	var cycled string
	err := s.updateNote(noteID, func(n *domain.Note) {
		next := 0
		for i, t := range types {
			if t.ID == n.Type {
				next = (i + 1) % len(types)
				break
			}
		}
		cycled = types[next].ID
		n.Type = cycled
	})
	return cycled, err
}

// AddProjectToNote attaches a project, keeping ProjectIDs a set.
func (s *Store) AddProjectToNote(noteID, projectID string) error {
	if _, ok := s.Index().ProjectsByID[projectID]; !ok {
		return fmt.Errorf("project %s not found", projectID)
	}
	return s.updateNote(noteID, func(n *domain.Note) {
		n.AddProject(projectID)
	})
}

// RemoveProjectFromNote detaches a project; removing an absent one is a no-op.
func (s *Store) RemoveProjectFromNote(noteID, projectID string) error {
	return s.updateNote(noteID, func(n *domain.Note) {
		n.RemoveProject(projectID)
	})
}

// UpdateNote applies fn to a single note, normalizing status and stamping
// UpdatedAt. The active session is re-attached when the note has none.
func (s *Store) UpdateNote(noteID string, fn func(n *domain.Note)) error {
	return s.updateNote(noteID, fn)
}

func (s *Store) updateNote(noteID string, fn func(n *domain.Note)) error {
	found := false
	next := s.data
	next.Notes = make([]domain.Note, len(s.data.Notes))
	active := s.activeSessionID()
	for i, n := range s.data.Notes {
		if n.ID == noteID {
			found = true
			n.ProjectIDs = append([]string{}, n.ProjectIDs...)
			fn(&n)
			n.Status = domain.NormalizeStatus(n.Status)
			if active != nil {
				n.SessionID = active
			}
			n.UpdatedAt = domain.NewMillis(s.now())
		}
		next.Notes[i] = n
	}
	if !found {
		return fmt.Errorf("note %s not found", noteID)
	}
	s.data = next
	return nil
}

// Select adds note ids to the selection set; unknown ids are ignored.
func (s *Store) Select(noteIDs ...string) {
	idx := s.Index()
	for _, id := range noteIDs {
		if _, ok := idx.NotesByID[id]; ok {
			s.selection[id] = true
		}
	}
}

// Deselect removes ids from the selection set.
func (s *Store) Deselect(noteIDs ...string) {
	for _, id := range noteIDs {
		delete(s.selection, id)
	}
}

// ClearSelection empties the selection set.
func (s *Store) ClearSelection() {
	s.selection = make(map[string]bool)
}

// SelectedIDs returns the selection in deterministic order.
func (s *Store) SelectedIDs() []string {
	out := make([]string, 0, len(s.selection))
	for id := range s.selection {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// BulkUpdate applies fn to every selected note, leaving unselected notes
// untouched. An undo snapshot is captured first and the selection is cleared
// afterwards. The caller is responsible for the confirmation gate.
func (s *Store) BulkUpdate(fn func(n *domain.Note)) (int, error) {
	if len(s.selection) == 0 {
		return 0, fmt.Errorf("no notes selected")
	}
	s.snapshotUndo()
	count := 0
	next := s.data
	next.Notes = make([]domain.Note, len(s.data.Notes))
	active := s.activeSessionID()
	for i, n := range s.data.Notes {
		if s.selection[n.ID] {
			n.ProjectIDs = append([]string{}, n.ProjectIDs...)
			fn(&n)
			n.Status = domain.NormalizeStatus(n.Status)
			if active != nil {
				n.SessionID = active
			}
			n.UpdatedAt = domain.NewMillis(s.now())
			count++
		}
		next.Notes[i] = n
	}
	s.data = next
	s.ClearSelection()
	return count, nil
}

// BulkDelete removes every selected note with its descendant closure and
// attached comments. Undo snapshot first, selection cleared after.
func (s *Store) BulkDelete() (int, error) {
	if len(s.selection) == 0 {
		return 0, fmt.Errorf("no notes selected")
	}
	s.snapshotUndo()
	idx := s.Index()
	closure := make(map[string]bool)
	for id := range s.selection {
		for member := range idx.DescendantClosure(id) {
			closure[member] = true
		}
	}
	s.removeClosure(closure)
	s.ClearSelection()
	return len(closure), nil
}

// Undo restores the snapshot captured before the last destructive or bulk
// operation and clears the slot. It reports whether anything was restored.
func (s *Store) Undo() bool {
	if s.undo == nil {
		return false
	}
	s.data = s.undo.data
	s.selection = s.undo.selection
	s.undo = nil
	return true
}

// CanUndo reports whether an undo snapshot is available.
func (s *Store) CanUndo() bool {
	return s.undo != nil
}

// snapshotUndo captures the current state into the single undo slot. A later
// destructive operation overwrites it; only the most recent undo is kept.
func (s *Store) snapshotUndo() {
	selection := make(map[string]bool, len(s.selection))
	for id := range s.selection {
		selection[id] = true
	}
	s.undo = &undoSnapshot{data: s.data, selection: selection}
}

// AddProject creates a project.
func (s *Store) AddProject(name, details string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project name is empty")
	}
	now := s.now()
	project := domain.Project{
		ID:        s.newID(),
		Name:      name,
		Details:   details,
		CreatedAt: domain.NewMillis(now),
		UpdatedAt: domain.NewMillis(now),
	}
	next := s.data
	next.Projects = append(append([]domain.Project{}, s.data.Projects...), project)
	s.data = next
	return &project, nil
}

// AddPerson creates a person for session participation.
func (s *Store) AddPerson(name string) (*domain.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("person name is empty")
	}
	person := domain.Person{ID: s.newID(), Name: name}
	next := s.data
	next.People = append(append([]domain.Person{}, s.data.People...), person)
	s.data = next
	return &person, nil
}

// StartSession begins a session on a project, implicitly ending any session
// that is still active so at most one stays active.
func (s *Store) StartSession(projectID, title string, sessionType domain.SessionType, participantIDs []string) (*domain.Session, error) {
	if _, ok := s.Index().ProjectsByID[projectID]; !ok {
		return nil, fmt.Errorf("project %s not found", projectID)
	}
	now := s.now()
	next := s.data
	next.Sessions = make([]domain.Session, len(s.data.Sessions))
	for i, sess := range s.data.Sessions {
		if sess.IsActive {
			sess.IsActive = false
			sess.EndTime = domain.MillisPtr(now)
		}
		next.Sessions[i] = sess
	}
	session := domain.Session{
		ID:           s.newID(),
		ProjectID:    projectID,
		Title:        title,
		Type:         sessionType,
		Participants: append([]string{}, participantIDs...),
		StartTime:    domain.NewMillis(now),
		EndTime:      nil,
		IsActive:     true,
		CreatedAt:    domain.NewMillis(now),
	}
	next.Sessions = append(next.Sessions, session)
	s.data = next
	return &session, nil
}

// EndSession closes the given session.
func (s *Store) EndSession(sessionID string) error {
	found := false
	now := s.now()
	next := s.data
	next.Sessions = make([]domain.Session, len(s.data.Sessions))
	for i, sess := range s.data.Sessions {
		if sess.ID == sessionID {
			found = true
			sess.IsActive = false
			sess.EndTime = domain.MillisPtr(now)
		}
		next.Sessions[i] = sess
	}
	if !found {
		return fmt.Errorf("session %s not found", sessionID)
	}
	s.data = next
	return nil
}

func (s *Store) activeSessionID() *string {
	if active := s.data.ActiveSession(); active != nil {
		id := active.ID
		return &id
	}
	return nil
}

func millisPtr(t *time.Time) *domain.Millis {
	if t == nil {
		return nil
	}
	return domain.MillisPtr(*t)
}

func appendUniqueIDs(ids []string, more ...string) []string {
	for _, id := range more {
		if id == "" {
			continue
		}
		dup := false
		for _, existing := range ids {
			if existing == id {
				dup = true
				break
			}
		}
		if !dup {
			ids = append(ids, id)
		}
	}
	return ids
}

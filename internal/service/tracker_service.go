package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/antonkarev/notedeck/internal/db"
	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/antonkarev/notedeck/internal/remote"
	"github.com/antonkarev/notedeck/internal/repository"
	"github.com/antonkarev/notedeck/internal/state"
)

// TrackerService is the use-case layer over the in-memory Store: it loads
// state through the remote-then-local fallback chain, applies mutations, and
// schedules the debounced save after each successful one.
type TrackerService struct {
	store    *state.Store
	client   *remote.Client // nil when no remote endpoint is configured
	uow      db.UnitOfWork
	saver    *remote.Saver
	logger   *slog.Logger
	observer UseCaseObserver
	now      func() time.Time
	newID    func() string
}

// NewTrackerService wires the tracker use cases. client may be nil for
// local-only operation; saver may be nil to disable persistence (tests).
func NewTrackerService(store *state.Store, uow db.UnitOfWork, client *remote.Client, saver *remote.Saver, logger *slog.Logger, observers ...UseCaseObserver) *TrackerService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TrackerService{
		store:    store,
		client:   client,
		uow:      uow,
		saver:    saver,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// AttachSaver wires the debounced saver after construction. The saver's
// SaveFunc is typically this service's own Persist, which cannot exist
// before the service does.
func (s *TrackerService) AttachSaver(saver *remote.Saver) {
	s.saver = saver
}

// Store exposes the underlying store for read-side queries.
func (s *TrackerService) Store() *state.Store {
	return s.store
}

// Load populates the store: remote first, then the local working copy, then
// the default empty state. Loaded state is sanitized before use. The local
// selection and undo slot are restored alongside the working copy; after a
// remote load only the selection carries over, since the undo slot would
// reference state the server has already superseded.
func (s *TrackerService) Load(ctx context.Context) error {
	local, localErr := s.loadLocalSnapshot(ctx)

	if s.client != nil {
		d, err := s.client.Load(ctx)
		if err == nil {
			s.store.Load(d)
			if localErr == nil {
				s.store.Select(local.SelectedNoteIDs...)
			}
			return nil
		}
		if !errors.Is(err, remote.ErrEmpty) {
			s.logger.Warn("remote load failed, falling back to local copy", "error", err)
		}
	}

	switch {
	case localErr == nil:
		s.store.LoadSnapshot(local)
	case errors.Is(localErr, repository.ErrNotFound):
		s.store.Load(state.Default())
	default:
		return fmt.Errorf("loading working copy: %w", localErr)
	}
	return nil
}

func (s *TrackerService) loadLocalSnapshot(ctx context.Context) (state.Snapshot, error) {
	var local state.Snapshot
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		sn, err := repository.NewSQLiteSnapshotRepo(tx).LoadWorkingCopy(ctx)
		if err != nil {
			return err
		}
		local = sn
		return nil
	})
	return local, err
}

// Persist is the SaveFunc behind the debounced saver: local working copy
// first, then the remote push when an endpoint is configured. Only the state
// itself is pushed; the selection and undo slot stay local.
func (s *TrackerService) Persist(ctx context.Context, sn state.Snapshot) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSnapshotRepo(tx).SaveWorkingCopy(ctx, sn)
	})
	if err != nil {
		return fmt.Errorf("persisting working copy: %w", err)
	}
	if s.client != nil {
		if err := s.client.Save(ctx, sn.Data); err != nil {
			return fmt.Errorf("pushing state: %w", err)
		}
	}
	return nil
}

// Flush forces any pending debounced save to run now. CLI commands call it
// before exiting so short-lived processes never drop writes.
func (s *TrackerService) Flush(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	return s.saver.Flush(ctx)
}

// Close releases the saver.
func (s *TrackerService) Close() {
	if s.saver != nil {
		s.saver.Close()
	}
}

func (s *TrackerService) AddQuickNote(ctx context.Context, raw string, applied state.AppliedTags, selectedProjectID string) (*domain.Note, error) {
	var note *domain.Note
	err := s.mutate(ctx, "add_quick_note", nil, func() error {
		n, err := s.store.AddQuickNote(raw, applied, selectedProjectID)
		note = n
		return err
	})
	return note, err
}

func (s *TrackerService) AddThreadItem(ctx context.Context, parentID string, entry state.Entry) (string, bool, error) {
	var (
		id        string
		isComment bool
	)
	err := s.mutate(ctx, "add_thread_item", map[string]any{"parent_id": parentID}, func() error {
		var err error
		id, isComment, err = s.store.AddThreadItem(parentID, entry)
		return err
	})
	return id, isComment, err
}

func (s *TrackerService) DeleteNote(ctx context.Context, noteID string) error {
	return s.mutate(ctx, "delete_note", map[string]any{"note_id": noteID}, func() error {
		return s.store.DeleteNote(noteID)
	})
}

func (s *TrackerService) CycleStatus(ctx context.Context, noteID string) (domain.Status, error) {
	var next domain.Status
	err := s.mutate(ctx, "cycle_status", map[string]any{"note_id": noteID}, func() error {
		var err error
		next, err = s.store.CycleStatus(noteID)
		return err
	})
	return next, err
}

func (s *TrackerService) CycleType(ctx context.Context, noteID string) (string, error) {
	var next string
	err := s.mutate(ctx, "cycle_type", map[string]any{"note_id": noteID}, func() error {
		var err error
		next, err = s.store.CycleType(noteID)
		return err
	})
	return next, err
}

func (s *TrackerService) AddProjectToNote(ctx context.Context, noteID, projectID string) error {
	return s.mutate(ctx, "add_project_to_note", map[string]any{"note_id": noteID}, func() error {
		return s.store.AddProjectToNote(noteID, projectID)
	})
}

func (s *TrackerService) RemoveProjectFromNote(ctx context.Context, noteID, projectID string) error {
	return s.mutate(ctx, "remove_project_from_note", map[string]any{"note_id": noteID}, func() error {
		return s.store.RemoveProjectFromNote(noteID, projectID)
	})
}

// EditNote replaces a note's content.
func (s *TrackerService) EditNote(ctx context.Context, noteID, content string) error {
	return s.mutate(ctx, "edit_note", map[string]any{"note_id": noteID}, func() error {
		return s.store.UpdateNote(noteID, func(n *domain.Note) {
			n.Content = content
		})
	})
}

func (s *TrackerService) BulkSetStatus(ctx context.Context, status domain.Status) (int, error) {
	var updated int
	err := s.mutate(ctx, "bulk_set_status", map[string]any{"status": string(status)}, func() error {
		var err error
		updated, err = s.store.BulkUpdate(func(n *domain.Note) {
			n.Status = status
		})
		return err
	})
	return updated, err
}

func (s *TrackerService) BulkDelete(ctx context.Context) (int, error) {
	var removed int
	err := s.mutate(ctx, "bulk_delete", nil, func() error {
		var err error
		removed, err = s.store.BulkDelete()
		return err
	})
	return removed, err
}

// SelectNotes adds notes to the persisted selection.
func (s *TrackerService) SelectNotes(ctx context.Context, noteIDs ...string) error {
	return s.mutate(ctx, "select_notes", map[string]any{"count": len(noteIDs)}, func() error {
		s.store.Select(noteIDs...)
		return nil
	})
}

// DeselectNotes removes notes from the persisted selection.
func (s *TrackerService) DeselectNotes(ctx context.Context, noteIDs ...string) error {
	return s.mutate(ctx, "deselect_notes", map[string]any{"count": len(noteIDs)}, func() error {
		s.store.Deselect(noteIDs...)
		return nil
	})
}

// ClearSelection empties the persisted selection.
func (s *TrackerService) ClearSelection(ctx context.Context) error {
	return s.mutate(ctx, "clear_selection", nil, func() error {
		s.store.ClearSelection()
		return nil
	})
}

// Undo restores the snapshot taken before the last destructive operation.
func (s *TrackerService) Undo(ctx context.Context) (bool, error) {
	var restored bool
	err := s.mutate(ctx, "undo", nil, func() error {
		restored = s.store.Undo()
		if !restored {
			return fmt.Errorf("nothing to undo")
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return restored, nil
}

func (s *TrackerService) AddProject(ctx context.Context, name, details string) (*domain.Project, error) {
	var project *domain.Project
	err := s.mutate(ctx, "add_project", map[string]any{"name": name}, func() error {
		p, err := s.store.AddProject(name, details)
		project = p
		return err
	})
	return project, err
}

func (s *TrackerService) AddPerson(ctx context.Context, name string) (*domain.Person, error) {
	var person *domain.Person
	err := s.mutate(ctx, "add_person", map[string]any{"name": name}, func() error {
		p, err := s.store.AddPerson(name)
		person = p
		return err
	})
	return person, err
}

func (s *TrackerService) StartSession(ctx context.Context, projectID, title string, sessionType domain.SessionType, participantIDs []string) (*domain.Session, error) {
	var session *domain.Session
	err := s.mutate(ctx, "start_session", map[string]any{"project_id": projectID}, func() error {
		sess, err := s.store.StartSession(projectID, title, sessionType, participantIDs)
		session = sess
		return err
	})
	return session, err
}

func (s *TrackerService) EndSession(ctx context.Context, sessionID string) error {
	return s.mutate(ctx, "end_session", map[string]any{"session_id": sessionID}, func() error {
		return s.store.EndSession(sessionID)
	})
}

// RecordAutosave appends one snapshot of the current state and selection to
// the local autosave ring.
func (s *TrackerService) RecordAutosave(ctx context.Context) error {
	entry := state.Autosave{
		ID:              s.newID(),
		Timestamp:       domain.NewMillis(s.now()),
		Data:            s.store.Data(),
		SelectedNoteIDs: s.store.SelectedIDs(),
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSnapshotRepo(tx).AppendAutosave(ctx, entry)
	})
	if err != nil {
		return fmt.Errorf("recording autosave: %w", err)
	}
	return nil
}

func (s *TrackerService) ListAutosaves(ctx context.Context) ([]repository.AutosaveMeta, error) {
	var metas []repository.AutosaveMeta
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		m, err := repository.NewSQLiteSnapshotRepo(tx).ListAutosaves(ctx)
		metas = m
		return err
	})
	return metas, err
}

// RestoreAutosave replaces the working state and selection with an autosave
// entry, then schedules a save so the restore itself persists.
func (s *TrackerService) RestoreAutosave(ctx context.Context, id string) error {
	return s.mutate(ctx, "restore_autosave", map[string]any{"autosave_id": id}, func() error {
		var entry *state.Autosave
		err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			a, err := repository.NewSQLiteSnapshotRepo(tx).GetAutosave(ctx, id)
			entry = a
			return err
		})
		if err != nil {
			return err
		}
		s.store.Load(entry.Data)
		s.store.Select(entry.SelectedNoteIDs...)
		return nil
	})
}

// mutate runs one use case, reports it to the observer, and schedules the
// debounced save on success.
func (s *TrackerService) mutate(ctx context.Context, name string, fields map[string]any, fn func() error) error {
	start := s.now()
	err := fn()
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
	if err != nil {
		return err
	}
	if s.saver != nil {
		s.saver.Schedule(s.store.Snapshot())
	}
	return nil
}

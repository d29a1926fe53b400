package repository

import (
	"context"
	"errors"
	"time"

	"github.com/antonkarev/notedeck/internal/state"
)

// ErrNotFound is returned when a requested row does not exist. Callers match
// it with errors.Is.
var ErrNotFound = errors.New("not found")

// AutosaveMeta is the listing view of one autosave: identity and timestamp
// without the payload.
type AutosaveMeta struct {
	ID        string
	CreatedAt time.Time
}

// SnapshotRepo persists whole-state snapshots: the single working copy plus
// the bounded autosave ring.
type SnapshotRepo interface {
	SaveWorkingCopy(ctx context.Context, sn state.Snapshot) error
	LoadWorkingCopy(ctx context.Context) (state.Snapshot, error)
	AppendAutosave(ctx context.Context, a state.Autosave) error
	ListAutosaves(ctx context.Context) ([]AutosaveMeta, error)
	GetAutosave(ctx context.Context, id string) (*state.Autosave, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/antonkarev/notedeck/internal/db"
	"github.com/antonkarev/notedeck/internal/remote"
	"github.com/antonkarev/notedeck/internal/repository"
	"github.com/antonkarev/notedeck/internal/state"
)

// SyncService performs explicit push/pull against the remote store,
// bypassing the debounce. Last write wins on both sides.
type SyncService struct {
	store    *state.Store
	client   *remote.Client
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewSyncService wires explicit sync. Returns an error-producing service
// when client is nil; callers should gate on remote configuration instead.
func NewSyncService(store *state.Store, uow db.UnitOfWork, client *remote.Client, observers ...UseCaseObserver) *SyncService {
	return &SyncService{
		store:    store,
		client:   client,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Push uploads the current state.
func (s *SyncService) Push(ctx context.Context) error {
	return s.observe(ctx, "sync_push", func() error {
		if s.client == nil {
			return fmt.Errorf("no remote endpoint configured")
		}
		return s.client.Save(ctx, s.store.Data())
	})
}

// Pull replaces the working state with the remote copy and saves it locally.
// An empty remote leaves the local state untouched.
func (s *SyncService) Pull(ctx context.Context) error {
	return s.observe(ctx, "sync_pull", func() error {
		if s.client == nil {
			return fmt.Errorf("no remote endpoint configured")
		}
		d, err := s.client.Load(ctx)
		if err != nil {
			if errors.Is(err, remote.ErrEmpty) {
				return fmt.Errorf("remote has no state to pull")
			}
			return err
		}
		s.store.Load(d)
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return repository.NewSQLiteSnapshotRepo(tx).SaveWorkingCopy(ctx, s.store.Snapshot())
		})
	})
}

func (s *SyncService) observe(ctx context.Context, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		StartedAt: start,
	})
	return err
}

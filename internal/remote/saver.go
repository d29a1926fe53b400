package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/antonkarev/notedeck/internal/state"
)

// DefaultDebounce is the quiet period before a scheduled save fires.
const DefaultDebounce = 400 * time.Millisecond

// SaveFunc performs one persistence attempt for the encoded snapshot.
type SaveFunc func(ctx context.Context, sn state.Snapshot) error

// Saver coalesces rapid state changes into debounced saves. Each Schedule
// replaces the pending timer; when the timer fires, any save still in flight
// is cancelled and a new one starts. A payload identical to the last
// successfully saved one is skipped. Failures are logged and the payload is
// retried on the next change.
type Saver struct {
	save   SaveFunc
	delay  time.Duration
	logger *slog.Logger

	mu        sync.Mutex
	timer     *time.Timer
	pending   *pendingSave
	inflight  *pendingSave
	cancel    context.CancelFunc
	lastSaved []byte
	closed    bool

	wg sync.WaitGroup
}

type pendingSave struct {
	snapshot state.Snapshot
	payload  []byte
}

// NewSaver creates a Saver around the given save function. A zero delay uses
// DefaultDebounce; a nil logger discards.
func NewSaver(save SaveFunc, delay time.Duration, logger *slog.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Saver{save: save, delay: delay, logger: logger}
}

// Schedule queues sn for saving after the quiet period. Calling again before
// the timer fires restarts it with the newer snapshot.
func (s *Saver) Schedule(sn state.Snapshot) {
	payload, err := json.Marshal(sn)
	if err != nil {
		s.logger.Error("encoding state for save", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if bytes.Equal(payload, s.lastSaved) {
		return
	}

	s.pending = &pendingSave{snapshot: sn, payload: payload}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

// Flush performs any outstanding save immediately, bypassing the timer. A
// save already in flight is cancelled and re-driven synchronously so the
// payload cannot be lost between the cancellation and process exit. Blocks
// until the save completes or ctx is done.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	p := s.pending
	s.pending = nil
	if p == nil {
		p = s.inflight
	}
	s.cancelInFlightLocked()
	s.mu.Unlock()

	if p == nil {
		return nil
	}

	// Let the cancelled goroutine drain before re-driving, so two saves
	// never overlap.
	s.wg.Wait()

	s.mu.Lock()
	done := bytes.Equal(p.payload, s.lastSaved)
	s.mu.Unlock()
	if done {
		return nil
	}

	if err := s.save(ctx, p.snapshot); err != nil {
		s.requeue(p)
		return err
	}
	s.markSaved(p.payload)
	return nil
}

// Close cancels pending and in-flight work and waits for goroutines to
// finish. The Saver accepts no further schedules afterwards.
func (s *Saver) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.cancelInFlightLocked()
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Saver) fire() {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	if p == nil || s.closed {
		s.mu.Unlock()
		return
	}

	s.cancelInFlightLocked()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.inflight = p

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		err := s.save(ctx, p.snapshot)

		s.mu.Lock()
		if s.inflight == p {
			s.inflight = nil
		}
		s.mu.Unlock()

		switch {
		case err == nil:
			s.markSaved(p.payload)
		case errors.Is(err, context.Canceled):
			// Superseded by a newer save or taken over by Flush.
		default:
			s.logger.Error("debounced save failed", "error", err)
			s.requeue(p)
		}
	}()
	s.mu.Unlock()
}

// requeue re-arms the payload so the next Schedule call retries it even if
// the state has not changed since.
func (s *Saver) requeue(p *pendingSave) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSaved != nil && bytes.Equal(p.payload, s.lastSaved) {
		s.lastSaved = nil
	}
}

func (s *Saver) markSaved(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSaved = payload
}

func (s *Saver) cancelInFlightLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

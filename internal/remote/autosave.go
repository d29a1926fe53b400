package remote

import (
	"context"
	"log/slog"
	"time"
)

// DefaultAutosaveInterval is the spacing between periodic snapshots.
const DefaultAutosaveInterval = 15 * time.Minute

// SnapshotFunc records one autosave snapshot of the current state.
type SnapshotFunc func(ctx context.Context) error

// AutosaveLoop periodically records snapshots into the local autosave ring.
// One snapshot is taken immediately on start, then one per interval.
type AutosaveLoop struct {
	snapshot SnapshotFunc
	interval time.Duration
	logger   *slog.Logger

	stop chan struct{}
	done chan struct{}
}

// NewAutosaveLoop creates a loop around the snapshot function. A zero
// interval uses DefaultAutosaveInterval; a nil logger discards.
func NewAutosaveLoop(snapshot SnapshotFunc, interval time.Duration, logger *slog.Logger) *AutosaveLoop {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AutosaveLoop{
		snapshot: snapshot,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the loop. It returns immediately; snapshots run on a
// background goroutine until Stop is called or ctx is done.
func (l *AutosaveLoop) Start(ctx context.Context) {
	go l.run(ctx)
}

// Stop halts the loop and waits for the goroutine to exit. Safe to call
// only once.
func (l *AutosaveLoop) Stop() {
	close(l.stop)
	<-l.done
}

func (l *AutosaveLoop) run(ctx context.Context) {
	defer close(l.done)

	l.record(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.record(ctx)
		case <-l.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (l *AutosaveLoop) record(ctx context.Context) {
	if err := l.snapshot(ctx); err != nil {
		l.logger.Error("autosave snapshot failed", "error", err)
	}
}

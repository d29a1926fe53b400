package remote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/antonkarev/notedeck/internal/state"
)

type saveRecorder struct {
	mu    sync.Mutex
	calls []state.Snapshot
	errs  []error
	next  error
	block chan struct{}
}

func (r *saveRecorder) save(ctx context.Context, sn state.Snapshot) error {
	r.mu.Lock()
	block := r.block
	err := r.next
	r.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	r.calls = append(r.calls, sn)
	r.errs = append(r.errs, err)
	r.mu.Unlock()
	return err
}

func (r *saveRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *saveRecorder) last() state.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

func stateWithContent(content string) state.Snapshot {
	d := state.Default()
	d.Notes = []domain.Note{{ID: "n1", Content: content, ProjectIDs: []string{}}}
	return state.Snapshot{Data: d}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSaverCoalescesRapidSchedules(t *testing.T) {
	rec := &saveRecorder{}
	saver := NewSaver(rec.save, 30*time.Millisecond, nil)
	defer saver.Close()

	saver.Schedule(stateWithContent("one"))
	saver.Schedule(stateWithContent("two"))
	saver.Schedule(stateWithContent("three"))

	waitFor(t, func() bool { return rec.count() == 1 })
	assert.Equal(t, "three", rec.last().Data.Notes[0].Content,
		"only the newest state reaches the save function")
}

func TestSaverSkipsUnchangedPayload(t *testing.T) {
	rec := &saveRecorder{}
	saver := NewSaver(rec.save, 10*time.Millisecond, nil)
	defer saver.Close()

	saver.Schedule(stateWithContent("same"))
	waitFor(t, func() bool { return rec.count() == 1 })

	saver.Schedule(stateWithContent("same"))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, rec.count(), "an identical payload is not saved twice")

	saver.Schedule(stateWithContent("different"))
	waitFor(t, func() bool { return rec.count() == 2 })
}

func TestSaverSupersedeCancelsInFlight(t *testing.T) {
	rec := &saveRecorder{block: make(chan struct{})}
	saver := NewSaver(rec.save, 10*time.Millisecond, nil)
	defer saver.Close()

	saver.Schedule(stateWithContent("slow"))
	time.Sleep(30 * time.Millisecond) // let the first save start and block

	rec.mu.Lock()
	rec.block = nil
	rec.mu.Unlock()

	saver.Schedule(stateWithContent("fast"))
	waitFor(t, func() bool { return rec.count() >= 1 })
	waitFor(t, func() bool { return rec.last().Data.Notes[0].Content == "fast" })
}

func TestSaverRetriesAfterFailure(t *testing.T) {
	rec := &saveRecorder{next: errors.New("network down")}
	saver := NewSaver(rec.save, 10*time.Millisecond, nil)
	defer saver.Close()

	saver.Schedule(stateWithContent("v1"))
	waitFor(t, func() bool { return rec.count() == 1 })

	rec.mu.Lock()
	rec.next = nil
	rec.mu.Unlock()

	// The same payload goes through again once rescheduled; a failed save
	// must not count as the last successfully saved state.
	saver.Schedule(stateWithContent("v1"))
	waitFor(t, func() bool { return rec.count() == 2 })
}

func TestSaverFlushSavesImmediately(t *testing.T) {
	rec := &saveRecorder{}
	saver := NewSaver(rec.save, time.Hour, nil)
	defer saver.Close()

	saver.Schedule(stateWithContent("urgent"))
	require.NoError(t, saver.Flush(context.Background()))
	assert.Equal(t, 1, rec.count())

	require.NoError(t, saver.Flush(context.Background()), "flush without pending work is a no-op")
	assert.Equal(t, 1, rec.count())
}

func TestSaverFlushCompletesInFlightSave(t *testing.T) {
	rec := &saveRecorder{block: make(chan struct{})}
	saver := NewSaver(rec.save, 10*time.Millisecond, nil)
	defer saver.Close()

	saver.Schedule(stateWithContent("only copy"))
	time.Sleep(30 * time.Millisecond) // the timer fired; the save is blocked in flight

	rec.mu.Lock()
	rec.block = nil
	rec.mu.Unlock()

	// Flush must not classify the in-flight save as superseded and drop it.
	require.NoError(t, saver.Flush(context.Background()))
	require.Equal(t, 1, rec.count(), "the payload survives being taken over by Flush")
	assert.Equal(t, "only copy", rec.last().Data.Notes[0].Content)
}

func TestSaverCloseDropsPendingWork(t *testing.T) {
	rec := &saveRecorder{}
	saver := NewSaver(rec.save, time.Hour, nil)

	saver.Schedule(stateWithContent("never"))
	saver.Close()
	assert.Equal(t, 0, rec.count())

	saver.Schedule(stateWithContent("after close"))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, rec.count(), "a closed saver accepts no further schedules")
}

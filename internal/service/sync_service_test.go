package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonkarev/notedeck/internal/db"
	"github.com/antonkarev/notedeck/internal/remote"
	"github.com/antonkarev/notedeck/internal/repository"
	"github.com/antonkarev/notedeck/internal/state"
	"github.com/antonkarev/notedeck/internal/testutil"
)

func TestSyncPushUploadsCurrentState(t *testing.T) {
	var received state.Data
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	store := state.NewStore()
	store.Load(testutil.SampleData())

	svc := NewSyncService(store, uow, remote.NewClient(srv.URL, "anon-1"))
	require.NoError(t, svc.Push(context.Background()))
	assert.Len(t, received.Notes, len(store.Data().Notes))
}

func TestSyncPullReplacesStateAndPersists(t *testing.T) {
	remoteState := state.Default()
	remoteState.Notes = append(remoteState.Notes, testutil.NewNote("pulled"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(remoteState)
	}))
	defer srv.Close()

	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	store := state.NewStore()
	store.Load(testutil.SampleData())
	ctx := context.Background()

	svc := NewSyncService(store, uow, remote.NewClient(srv.URL, "anon-1"))
	require.NoError(t, svc.Pull(ctx))

	require.Len(t, store.Data().Notes, 1)
	assert.Equal(t, "pulled", store.Data().Notes[0].Content)

	var persisted state.Snapshot
	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		sn, err := repository.NewSQLiteSnapshotRepo(tx).LoadWorkingCopy(ctx)
		persisted = sn
		return err
	}))
	require.Len(t, persisted.Data.Notes, 1)
	assert.Equal(t, "pulled", persisted.Data.Notes[0].Content)
}

func TestSyncPullEmptyRemoteKeepsLocalState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	store := state.NewStore()
	local := testutil.SampleData()
	store.Load(local)

	svc := NewSyncService(store, uow, remote.NewClient(srv.URL, "anon-1"))
	err := svc.Pull(context.Background())
	require.Error(t, err)
	assert.Len(t, store.Data().Notes, len(local.Notes))
}

func TestSyncWithoutRemote(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	store := state.NewStore()
	store.Load(state.Default())

	svc := NewSyncService(store, uow, nil)
	assert.Error(t, svc.Push(context.Background()))
	assert.Error(t, svc.Pull(context.Background()))
}

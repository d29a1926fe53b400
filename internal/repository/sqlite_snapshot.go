package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/antonkarev/notedeck/internal/db"
	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/antonkarev/notedeck/internal/state"
)

// autosaveLimit caps the ring; the oldest entries beyond it are pruned on
// every append.
const autosaveLimit = 10

// SQLiteSnapshotRepo implements SnapshotRepo using a SQLite database.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

// NewSQLiteSnapshotRepo creates a new SQLiteSnapshotRepo.
func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

func (r *SQLiteSnapshotRepo) SaveWorkingCopy(ctx context.Context, sn state.Snapshot) error {
	payload, err := json.Marshal(sn.Data)
	if err != nil {
		return fmt.Errorf("encoding working copy: %w", err)
	}
	selected := sn.SelectedNoteIDs
	if selected == nil {
		selected = []string{}
	}
	selectedJSON, err := json.Marshal(selected)
	if err != nil {
		return fmt.Errorf("encoding working copy selection: %w", err)
	}
	var undoJSON sql.NullString
	if sn.Undo != nil {
		raw, err := json.Marshal(sn.Undo)
		if err != nil {
			return fmt.Errorf("encoding undo slot: %w", err)
		}
		undoJSON = sql.NullString{String: string(raw), Valid: true}
	}

	query := `INSERT INTO working_copy (id, payload, selected_note_ids, undo_payload, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			selected_note_ids = excluded.selected_note_ids,
			undo_payload = excluded.undo_payload,
			updated_at = excluded.updated_at`
	savedAt := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := r.db.ExecContext(ctx, query, string(payload), string(selectedJSON), undoJSON, savedAt); err != nil {
		return fmt.Errorf("saving working copy: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) LoadWorkingCopy(ctx context.Context) (state.Snapshot, error) {
	var (
		payload      string
		selectedJSON string
		undoJSON     sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, selected_note_ids, undo_payload FROM working_copy WHERE id = 1`).
		Scan(&payload, &selectedJSON, &undoJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return state.Snapshot{}, fmt.Errorf("working copy: %w", ErrNotFound)
		}
		return state.Snapshot{}, fmt.Errorf("loading working copy: %w", err)
	}
	var sn state.Snapshot
	if err := json.Unmarshal([]byte(payload), &sn.Data); err != nil {
		return state.Snapshot{}, fmt.Errorf("decoding working copy: %w", err)
	}
	if err := json.Unmarshal([]byte(selectedJSON), &sn.SelectedNoteIDs); err != nil {
		return state.Snapshot{}, fmt.Errorf("decoding working copy selection: %w", err)
	}
	if undoJSON.Valid {
		var undo state.UndoRecord
		if err := json.Unmarshal([]byte(undoJSON.String), &undo); err != nil {
			return state.Snapshot{}, fmt.Errorf("decoding undo slot: %w", err)
		}
		sn.Undo = &undo
	}
	return sn, nil
}

func (r *SQLiteSnapshotRepo) AppendAutosave(ctx context.Context, a state.Autosave) error {
	payload, err := json.Marshal(a.Data)
	if err != nil {
		return fmt.Errorf("encoding autosave payload: %w", err)
	}
	selected := a.SelectedNoteIDs
	if selected == nil {
		selected = []string{}
	}
	selectedJSON, err := json.Marshal(selected)
	if err != nil {
		return fmt.Errorf("encoding autosave selection: %w", err)
	}

	query := `INSERT INTO autosaves (id, created_at, payload, selected_note_ids) VALUES (?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		a.ID,
		a.Timestamp.UTC().Format(time.RFC3339Nano),
		string(payload),
		string(selectedJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting autosave: %w", err)
	}

	prune := `DELETE FROM autosaves WHERE id NOT IN (
		SELECT id FROM autosaves ORDER BY created_at DESC LIMIT ?)`
	if _, err := r.db.ExecContext(ctx, prune, autosaveLimit); err != nil {
		return fmt.Errorf("pruning autosaves: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) ListAutosaves(ctx context.Context) ([]AutosaveMeta, error) {
	query := `SELECT id, created_at FROM autosaves ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing autosaves: %w", err)
	}
	defer rows.Close()

	var metas []AutosaveMeta
	for rows.Next() {
		var meta AutosaveMeta
		var createdAtStr string
		if err := rows.Scan(&meta.ID, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning autosave: %w", err)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing autosave timestamp: %w", err)
		}
		meta.CreatedAt = createdAt
		metas = append(metas, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating autosaves: %w", err)
	}
	return metas, nil
}

func (r *SQLiteSnapshotRepo) GetAutosave(ctx context.Context, id string) (*state.Autosave, error) {
	query := `SELECT id, created_at, payload, selected_note_ids FROM autosaves WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var a state.Autosave
	var createdAtStr, payload, selectedJSON string
	err := row.Scan(&a.ID, &createdAtStr, &payload, &selectedJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("autosave: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning autosave: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing autosave timestamp: %w", err)
	}
	a.Timestamp = domain.NewMillis(createdAt)

	if err := json.Unmarshal([]byte(payload), &a.Data); err != nil {
		return nil, fmt.Errorf("decoding autosave payload: %w", err)
	}
	if err := json.Unmarshal([]byte(selectedJSON), &a.SelectedNoteIDs); err != nil {
		return nil, fmt.Errorf("decoding autosave selection: %w", err)
	}
	return &a, nil
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/crewcast/internal/domain/model"
)

// Fixed row id: the store holds exactly one workspace record.
const sessionRowID = 1

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the session database at path and
// bootstraps the schema. ":memory:" keeps state for the process lifetime
// only. WAL mode is set for concurrent readers.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating session db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS session_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		team_json TEXT NOT NULL,
		nodes_json TEXT NOT NULL,
		kpi_json TEXT NOT NULL,
		meta_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing session db: %w", err)
	}
	return nil
}

// Load returns the persisted record or ErrNotInitialized when the row has
// never been written.
func (s *SQLiteStore) Load(ctx context.Context) (model.SessionRecord, error) {
	query := `SELECT team_json, nodes_json, kpi_json, meta_json FROM session_state WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, sessionRowID)

	var teamJSON, nodesJSON, kpiJSON, metaJSON string
	if err := row.Scan(&teamJSON, &nodesJSON, &kpiJSON, &metaJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SessionRecord{}, ErrNotInitialized
		}
		return model.SessionRecord{}, fmt.Errorf("loading session record: %w", err)
	}

	var record model.SessionRecord
	if err := json.Unmarshal([]byte(teamJSON), &record.Team); err != nil {
		return model.SessionRecord{}, fmt.Errorf("decoding team column: %w", err)
	}
	if err := json.Unmarshal([]byte(nodesJSON), &record.Nodes); err != nil {
		return model.SessionRecord{}, fmt.Errorf("decoding nodes column: %w", err)
	}
	if err := json.Unmarshal([]byte(kpiJSON), &record.LastKPI); err != nil {
		return model.SessionRecord{}, fmt.Errorf("decoding kpi column: %w", err)
	}
	if err := json.Unmarshal([]byte(metaJSON), &record.Meta); err != nil {
		return model.SessionRecord{}, fmt.Errorf("decoding meta column: %w", err)
	}
	return record, nil
}

// Save upserts the single workspace row.
func (s *SQLiteStore) Save(ctx context.Context, record model.SessionRecord) error {
	teamJSON, err := json.Marshal(record.Team)
	if err != nil {
		return fmt.Errorf("encoding team column: %w", err)
	}
	nodesJSON, err := json.Marshal(record.Nodes)
	if err != nil {
		return fmt.Errorf("encoding nodes column: %w", err)
	}
	kpiJSON, err := json.Marshal(record.LastKPI)
	if err != nil {
		return fmt.Errorf("encoding kpi column: %w", err)
	}
	metaJSON, err := json.Marshal(record.Meta)
	if err != nil {
		return fmt.Errorf("encoding meta column: %w", err)
	}

	query := `INSERT INTO session_state (id, team_json, nodes_json, kpi_json, meta_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			team_json = excluded.team_json,
			nodes_json = excluded.nodes_json,
			kpi_json = excluded.kpi_json,
			meta_json = excluded.meta_json,
			updated_at = excluded.updated_at`
	_, err = s.db.ExecContext(ctx, query,
		sessionRowID,
		string(teamJSON),
		string(nodesJSON),
		string(kpiJSON),
		string(metaJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving session record: %w", err)
	}
	return nil
}

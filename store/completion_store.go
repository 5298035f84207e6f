package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pharmaops/shiftcheck/models"
	_ "modernc.org/sqlite"
)

// CompletionStore is the SQLite-backed completion log. Every completion a
// position records is appended; reads reduce to the latest row per
// position so the engine's carry-window logic decides freshness, not the
// storage layer.
type CompletionStore struct {
	db *sql.DB
}

// NewCompletionStore opens (or creates) the completion database. Pass
// ":memory:" for an ephemeral store in tests.
func NewCompletionStore(path string) (*CompletionStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create completion directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &CompletionStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

func (s *CompletionStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS completions (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL,
		position TEXT NOT NULL,
		completed_by TEXT NOT NULL DEFAULT '',
		completed_at_utc TEXT NOT NULL,
		is_completed INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_completions_task ON completions(task_id);
	CREATE INDEX IF NOT EXISTS idx_completions_task_position ON completions(task_id, position);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends a completion for a task and position.
func (s *CompletionStore) Record(taskID, position, completedBy string, completedAt time.Time) error {
	if taskID == "" || position == "" {
		return errors.New("task id and position required")
	}
	_, err := s.db.Exec(
		`INSERT INTO completions (id, task_id, position, completed_by, completed_at_utc, is_completed, created_at)
		 VALUES (?, ?, ?, ?, ?, 1, ?)`,
		uuid.New().String(), taskID, position, completedBy,
		completedAt.UTC().Format(time.RFC3339), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record completion: %w", err)
	}
	return nil
}

// Clear marks a position's task as not completed by appending a
// tombstone row; the latest row per position wins on read.
func (s *CompletionStore) Clear(taskID, position string) error {
	_, err := s.db.Exec(
		`INSERT INTO completions (id, task_id, position, completed_by, completed_at_utc, is_completed, created_at)
		 VALUES (?, ?, ?, '', ?, 0, ?)`,
		uuid.New().String(), taskID, position,
		time.Now().UTC().Format(time.RFC3339), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("clear completion: %w", err)
	}
	return nil
}

// Latest reduces the log to one CompletionRecord for the task: the most
// recent row per position. The engine decides whether each entry is still
// inside its carry window.
func (s *CompletionStore) Latest(taskID string) (*models.CompletionRecord, error) {
	rows, err := s.db.Query(
		`SELECT position, completed_by, completed_at_utc, is_completed
		 FROM completions c
		 WHERE task_id = ?
		   AND created_at = (
			SELECT MAX(created_at) FROM completions
			WHERE task_id = c.task_id AND position = c.position
		   )
		 ORDER BY position`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rec models.CompletionRecord
	for rows.Next() {
		var position, by, atText string
		var completed int
		if err := rows.Scan(&position, &by, &atText, &completed); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		pc := models.PositionCompletion{
			PositionName: position,
			CompletedBy:  by,
			IsCompleted:  completed == 1,
		}
		if at, err := time.Parse(time.RFC3339, atText); err == nil {
			at = at.UTC()
			pc.CompletedAtUTC = &at
		}
		rec.Positions = append(rec.Positions, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	if len(rec.Positions) == 0 {
		return nil, nil
	}
	return &rec, nil
}

// Close closes the underlying database.
func (s *CompletionStore) Close() error {
	return s.db.Close()
}

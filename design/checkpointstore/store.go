/*
Package checkpointstore persists a history of design checkpoints to a
SQLite database, keyed by run ID and step, so a long design run can be
resumed from any previously recorded point rather than only the most
recent one. Grounded on the teacher's own sqlite3-backed history table
idiom in its synthesis fixer (CREATE TABLE ... / parameterized inserts),
using database/sql directly rather than a query-builder wrapper.
*/
package checkpointstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bebop/nadesign/design"
)

const schema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	run_id     TEXT NOT NULL,
	step       INTEGER NOT NULL,
	data       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (run_id, step)
);
`

// Store is a checkpoint history backed by a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) a SQLite database at path and ensures
// its checkpoints table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("checkpointstore: open %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("checkpointstore: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save records a checkpoint for runID at step, overwriting any checkpoint
// already recorded at that (runID, step) pair.
func (s *Store) Save(runID string, step int, ckpt design.Checkpoint) error {
	data, err := ckpt.Marshal()
	if err != nil {
		return fmt.Errorf("checkpointstore: marshal checkpoint: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO checkpoints(run_id, step, data, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(run_id, step) DO UPDATE SET data = excluded.data, created_at = excluded.created_at`,
		runID, step, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("checkpointstore: save run %q step %d: %w", runID, step, err)
	}
	return nil
}

// Load retrieves the checkpoint recorded for runID at step.
func (s *Store) Load(runID string, step int) (design.Checkpoint, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM checkpoints WHERE run_id = ? AND step = ?`, runID, step).Scan(&data)
	if err != nil {
		return design.Checkpoint{}, fmt.Errorf("checkpointstore: load run %q step %d: %w", runID, step, err)
	}
	return design.ParseCheckpoint([]byte(data))
}

// LatestStep returns the highest step recorded for runID, and false if
// none has been recorded yet.
func (s *Store) LatestStep(runID string) (int, bool, error) {
	var step sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(step) FROM checkpoints WHERE run_id = ?`, runID).Scan(&step)
	if err != nil {
		return 0, false, fmt.Errorf("checkpointstore: latest step for run %q: %w", runID, err)
	}
	if !step.Valid {
		return 0, false, nil
	}
	return int(step.Int64), true, nil
}

// Steps lists every step recorded for runID, ascending.
func (s *Store) Steps(runID string) ([]int, error) {
	rows, err := s.db.Query(`SELECT step FROM checkpoints WHERE run_id = ? ORDER BY step ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("checkpointstore: steps for run %q: %w", runID, err)
	}
	defer rows.Close()

	var steps []int
	for rows.Next() {
		var step int
		if err := rows.Scan(&step); err != nil {
			return nil, fmt.Errorf("checkpointstore: scan step: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

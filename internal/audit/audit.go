// Package audit is antiprobe's append-only run-history sink: one run's
// evidence and contradictions per row, rather than an append-only hash
// chain. A Store is write-only from the engine's perspective — nothing
// in internal/engine or internal/orchestrator ever reads it back, it
// exists purely so --history <path> gives an operator a queryable
// trail across runs.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"antiprobe/internal/orchestrator"
	"antiprobe/internal/security"
)

// Schema for the antiprobe run history.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL UNIQUE,
    host_id     TEXT NOT NULL,
    started_at  INTEGER NOT NULL,
    verdict     TEXT NOT NULL,
    score       INTEGER NOT NULL,
    raw_score   INTEGER NOT NULL,
    env_factor  REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS evidence (
    run_id      TEXT NOT NULL REFERENCES runs(run_id),
    source      TEXT NOT NULL,
    weight      INTEGER NOT NULL,
    confidence  REAL NOT NULL,
    details     TEXT
);

CREATE TABLE IF NOT EXISTS contradictions (
    run_id  TEXT NOT NULL REFERENCES runs(run_id),
    a       TEXT NOT NULL,
    b       TEXT NOT NULL,
    reason  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evidence_run ON evidence(run_id);
CREATE INDEX IF NOT EXISTS idx_contradictions_run ON contradictions(run_id);
`

// Store is the SQLite-backed run history. lock is a sidecar file held
// with an exclusive flock for the Store's lifetime, so two antiprobe
// processes never interleave writes to the same history database.
type Store struct {
	db   *sql.DB
	lock *os.File
}

// Open opens or creates the history database at path and applies the
// schema migration. It also locks and then stamps a path+".lock"
// sidecar file, waiting until any other process holding that lock
// releases it.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := security.EnsureSecureDir(dir); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	lockPath := path + ".lock"
	lock, err := os.OpenFile(lockPath, os.O_RDWR|os.O_CREATE, security.PermSecretFile)
	if err != nil {
		return nil, fmt.Errorf("open history lock file: %w", err)
	}
	if err := security.LockFile(lock); err != nil {
		lock.Close()
		return nil, fmt.Errorf("lock history database: %w", err)
	}
	// Stamp in place once locked: replacing the file would hand the
	// next process a fresh inode whose lock never conflicts with ours.
	if err := lock.Truncate(0); err != nil {
		security.UnlockFile(lock)
		lock.Close()
		return nil, fmt.Errorf("stamp history lock file: %w", err)
	}
	if _, err := lock.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0); err != nil {
		security.UnlockFile(lock)
		lock.Close()
		return nil, fmt.Errorf("stamp history lock file: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		security.UnlockFile(lock)
		lock.Close()
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		security.UnlockFile(lock)
		lock.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}

	if err := os.Chmod(path, security.PermSecretFile); err != nil {
		db.Close()
		security.UnlockFile(lock)
		lock.Close()
		return nil, fmt.Errorf("secure history database permissions: %w", err)
	}

	return &Store{db: db, lock: lock}, nil
}

// Close closes the underlying database connection and releases the
// history lock.
func (s *Store) Close() error {
	var dbErr error
	if s.db != nil {
		dbErr = s.db.Close()
	}
	if s.lock != nil {
		security.UnlockFile(s.lock)
		if lockErr := s.lock.Close(); lockErr != nil && dbErr == nil {
			dbErr = lockErr
		}
	}
	return dbErr
}

// RecordRun appends one finalized run to the history, along with its
// full evidence trail and any contradictions, in a single transaction.
// It is called once per finalized run (every iteration in --watch
// mode), after the engine has already been finalized — nothing here
// feeds back into scoring.
func (s *Store) RecordRun(runID, hostID string, startedAt time.Time, r orchestrator.Report) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, host_id, started_at, verdict, score, raw_score, env_factor)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, hostID, startedAt.Unix(), r.Verdict.String(), r.Score, r.RawScore, r.EnvFactor,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	evStmt, err := tx.Prepare(`
		INSERT INTO evidence (run_id, source, weight, confidence, details)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare evidence insert: %w", err)
	}
	defer evStmt.Close()

	for _, ev := range r.History {
		if _, err := evStmt.Exec(runID, ev.Source.String(), ev.Weight, ev.Confidence, ev.Details); err != nil {
			return fmt.Errorf("insert evidence: %w", err)
		}
	}

	cStmt, err := tx.Prepare(`
		INSERT INTO contradictions (run_id, a, b, reason)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare contradiction insert: %w", err)
	}
	defer cStmt.Close()

	for _, c := range r.Contradictions {
		if _, err := cStmt.Exec(runID, c.A.String(), c.B.String(), c.Reason); err != nil {
			return fmt.Errorf("insert contradiction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history transaction: %w", err)
	}

	return nil
}

// RunSummary is a single row of run history, without the per-evidence
// detail, for listing past runs.
type RunSummary struct {
	RunID     string
	HostID    string
	StartedAt time.Time
	Verdict   string
	Score     uint
	RawScore  uint
	EnvFactor float64
}

// RecentRuns returns up to limit most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := s.db.Query(`
		SELECT run_id, host_id, started_at, verdict, score, raw_score, env_factor
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var startedAt int64
		if err := rows.Scan(&r.RunID, &r.HostID, &startedAt, &r.Verdict, &r.Score, &r.RawScore, &r.EnvFactor); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.Unix(startedAt, 0).UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return out, nil
}

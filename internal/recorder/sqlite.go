package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists prediction outcomes to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *slog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *slog.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger.With(slog.String("component", "recorder"))}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info("sqlite recorder opened", slog.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prediction_outcomes (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			run_id       TEXT NOT NULL,
			source_key   TEXT NOT NULL,
			source_path  TEXT,
			stock_id     TEXT,
			status       TEXT NOT NULL,
			error_kind   TEXT,
			error        TEXT,
			window_start INTEGER,
			window_size  INTEGER,
			predicted_1  REAL,
			predicted_2  REAL,
			predicted_3  REAL,
			output_path  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run ON prediction_outcomes(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_source ON prediction_outcomes(source_key, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordOutcome inserts one outcome row. A zero RecordedAt is stamped with the current time.
func (r *SQLiteRecorder) RecordOutcome(ctx context.Context, o *Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := o.RecordedAt
	if at.IsZero() {
		at = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO prediction_outcomes
		(timestamp, run_id, source_key, source_path, stock_id, status, error_kind, error,
		 window_start, window_size, predicted_1, predicted_2, predicted_3, output_path)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		at.Unix(), o.RunID, o.SourceKey, o.SourcePath, o.StockID, o.Status, o.ErrorKind, o.Error,
		o.WindowStart, o.WindowSize, o.Prediction[0], o.Prediction[1], o.Prediction[2], o.OutputPath,
	)
	if err != nil {
		return fmt.Errorf("insert outcome for %s: %w", o.SourceKey, err)
	}
	return nil
}

// RunOutcomes returns the outcomes of one run in insertion order
func (r *SQLiteRecorder) RunOutcomes(ctx context.Context, runID string) ([]Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx, `SELECT
		timestamp, run_id, source_key, source_path, stock_id, status, error_kind, error,
		window_start, window_size, predicted_1, predicted_2, predicted_3, output_path
		FROM prediction_outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var (
			o  Outcome
			ts int64
		)
		if err := rows.Scan(&ts, &o.RunID, &o.SourceKey, &o.SourcePath, &o.StockID, &o.Status,
			&o.ErrorKind, &o.Error, &o.WindowStart, &o.WindowSize,
			&o.Prediction[0], &o.Prediction[1], &o.Prediction[2], &o.OutputPath); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.RecordedAt = time.Unix(ts, 0)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}

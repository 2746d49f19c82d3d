package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"siapkit/internal/modules/planner/domain"
	plannerout "siapkit/internal/modules/planner/port/out"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLiteJournal(dbPath string) (plannerout.Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	journal := &SQLiteJournal{db: db}
	if err := journal.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return journal, nil
}

func (s *SQLiteJournal) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS class_results (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  run_id TEXT NOT NULL,
  class_index INTEGER NOT NULL,
  class_label TEXT NOT NULL,
  state TEXT NOT NULL,
  lessons_saved INTEGER NOT NULL,
  returned_cleanly INTEGER NOT NULL,
  ok INTEGER NOT NULL DEFAULT 0,
  error TEXT,
  started_at TEXT NOT NULL,
  finished_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_class_results_run ON class_results(run_id);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create class_results table: %w", err)
	}
	// Journals created before the ok column existed.
	var hasOK int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pragma_table_info('class_results') WHERE name = 'ok'`).Scan(&hasOK); err != nil {
		return fmt.Errorf("inspect class_results table: %w", err)
	}
	if hasOK == 0 {
		if _, err := s.db.ExecContext(ctx, `ALTER TABLE class_results ADD COLUMN ok INTEGER NOT NULL DEFAULT 0`); err != nil {
			return fmt.Errorf("add ok column: %w", err)
		}
	}
	return nil
}

func (s *SQLiteJournal) Record(ctx context.Context, result domain.ClassResult) error {
	const stmt = `
INSERT INTO class_results (run_id, class_index, class_label, state, lessons_saved, returned_cleanly, ok, error, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := s.db.ExecContext(ctx, stmt,
		result.RunID,
		result.Index,
		result.Label,
		result.State.String(),
		result.LessonsSaved,
		boolInt(result.ReturnedCleanly()),
		boolInt(result.OK),
		result.Note,
		result.StartedAt.Format(timeLayout),
		result.FinishedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record class result: %w", err)
	}
	return nil
}

// Recent returns the latest results, newest first.
func (s *SQLiteJournal) Recent(ctx context.Context, limit int) ([]domain.ClassResult, error) {
	const query = `
SELECT run_id, class_index, class_label, state, lessons_saved, ok, COALESCE(error, ''), started_at, finished_at
FROM class_results
ORDER BY id DESC
LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query class results: %w", err)
	}
	defer rows.Close()

	var out []domain.ClassResult
	for rows.Next() {
		var (
			result            domain.ClassResult
			state             string
			ok                int
			started, finished string
		)
		if err := rows.Scan(&result.RunID, &result.Index, &result.Label, &state, &result.LessonsSaved, &ok, &result.Note, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan class result: %w", err)
		}
		result.State = domain.ParseState(state)
		result.OK = ok == 1
		result.StartedAt, _ = time.Parse(timeLayout, started)
		result.FinishedAt, _ = time.Parse(timeLayout, finished)
		out = append(out, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate class results: %w", err)
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *SQLiteJournal) Close() error {
	return s.db.Close()
}

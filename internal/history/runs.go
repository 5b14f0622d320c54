package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind identifies the command that produced a run.
type Kind string

const (
	KindOrganize Kind = "organize"
	KindPlan     Kind = "plan"
)

const StatusFailed = "failed"

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one recorded invocation.
type Run struct {
	ID           string
	Kind         Kind
	Status       string
	Library      string
	DetailJSON   string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration reports how long the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewRun starts a run record. Call Finish before recording it.
func NewRun(id string, kind Kind, library string) Run {
	return Run{ID: id, Kind: kind, Library: library, StartedAt: time.Now().UTC()}
}

// Finish stamps the outcome. detail is encoded as JSON; a non-nil runErr
// marks the run failed.
func (r Run) Finish(status string, detail any, runErr error) Run {
	r.FinishedAt = time.Now().UTC()
	r.Status = status
	if runErr != nil {
		r.Status = StatusFailed
		r.ErrorMessage = runErr.Error()
	}
	if detail != nil {
		if encoded, err := json.Marshal(detail); err == nil {
			r.DetailJSON = string(encoded)
		}
	}
	return r
}

// Record inserts or replaces a run.
func (s *Store) Record(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("record run: id required")
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}
	return withBusyRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO runs
			(id, kind, status, library, detail_json, error_message, started_at, finished_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			string(run.Kind),
			run.Status,
			run.Library,
			nullableString(run.DetailJSON),
			nullableString(run.ErrorMessage),
			run.StartedAt.UTC().Format(timeLayout),
			run.FinishedAt.UTC().Format(timeLayout),
		)
		return err
	})
}

// List returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, kind, status, library, detail_json, error_message, started_at, finished_at
		FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var runs []Run
	err := withBusyRetry(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		runs = runs[:0]
		for rows.Next() {
			run, err := scanRun(rows)
			if err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with id, or nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, kind, status, library, detail_json, error_message, started_at, finished_at
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run                 Run
		kind                string
		detail, errMessage  sql.NullString
		startedAt, finished string
	)
	if err := row.Scan(&run.ID, &kind, &run.Status, &run.Library, &detail, &errMessage, &startedAt, &finished); err != nil {
		return Run{}, err
	}
	run.Kind = Kind(kind)
	run.DetailJSON = detail.String
	run.ErrorMessage = errMessage.String
	run.StartedAt = parseTime(startedAt)
	run.FinishedAt = parseTime(finished)
	return run, nil
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

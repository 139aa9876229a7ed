package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/clementdevtech/tpuverify/internal/verify"
)

// ErrRunNotFound is returned when a run identifier is not in the
// archive.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one archived run without its diagnostics.
type RunSummary struct {
	RunID        string
	Module       string
	Verdict      bool
	Strictness   string
	ErrorCount   int
	WarningCount int
	CreatedAt    time.Time
}

// ListRuns returns archived runs, newest first. A non-positive limit
// returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT run_id, module, verdict, strictness, error_count, warning_count, created_at
		FROM runs
		ORDER BY created_at DESC, run_id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		summary, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one archived run's summary.
func (s *Store) GetRun(ctx context.Context, runID string) (RunSummary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, module, verdict, strictness, error_count, warning_count, created_at
		FROM runs
		WHERE run_id = ?
	`, runID)

	summary, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("get run %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return RunSummary{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	return summary, nil
}

// GetReport reassembles an archived run into a report, diagnostics in
// their original emission order.
func (s *Store) GetReport(ctx context.Context, runID string) (*verify.Report, error) {
	summary, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT severity, code, node, kind, message
		FROM diagnostics
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", runID, err)
	}
	defer rows.Close()

	rep := &verify.Report{RunID: summary.RunID, Verdict: summary.Verdict}
	for rows.Next() {
		var d verify.Diagnostic
		var severity string
		if err := rows.Scan(&severity, &d.Code, &d.Node, &d.Kind, &d.Message); err != nil {
			return nil, fmt.Errorf("get report %s: %w", runID, err)
		}
		d.Severity = verify.Severity(severity)
		rep.Diagnostics = append(rep.Diagnostics, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get report %s: %w", runID, err)
	}
	return rep, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunSummary, error) {
	var summary RunSummary
	var verdict int
	var createdAt string
	err := row.Scan(&summary.RunID, &summary.Module, &verdict, &summary.Strictness,
		&summary.ErrorCount, &summary.WarningCount, &createdAt)
	if err != nil {
		return RunSummary{}, err
	}
	summary.Verdict = verdict != 0

	summary.CreatedAt, err = time.Parse(createdAtFormat, createdAt)
	if err != nil {
		return RunSummary{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return summary, nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/clementdevtech/tpuverify/internal/verify"
)

// createdAtFormat is fixed width so created_at strings sort
// lexicographically in time order.
const createdAtFormat = "2006-01-02T15:04:05.000000000Z"

// WriteReport archives one validation run. The run row and its
// diagnostics are written in a single transaction. Re-archiving an
// existing run identifier is silently ignored so repeated CLI
// invocations stay idempotent.
func (s *Store) WriteReport(ctx context.Context, module string, strictness verify.Strictness, rep *verify.Report, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, module, verdict, strictness, error_count, warning_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`,
		rep.RunID,
		module,
		boolToInt(rep.Verdict),
		strictness.String(),
		rep.ErrorCount(),
		rep.WarningCount(),
		at.UTC().Format(createdAtFormat),
	)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if inserted == 0 {
		// Run already archived. Leave the original intact.
		return nil
	}

	for seq, d := range rep.Diagnostics {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO diagnostics
			(run_id, seq, severity, code, node, kind, message)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			rep.RunID,
			seq,
			string(d.Severity),
			d.Code,
			d.Node,
			d.Kind,
			d.Message,
		)
		if err != nil {
			return fmt.Errorf("write diagnostic %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Package runner validates batches of graph documents concurrently.
//
// Each document is independent, so documents run in parallel across a
// bounded worker pool while each individual run stays single-threaded
// for deterministic diagnostic ordering. Outcomes are returned in
// input order regardless of completion order.
package runner

import (
	"context"
	"log/slog"
	"sync"

	"github.com/clementdevtech/tpuverify/internal/graphdoc"
	"github.com/clementdevtech/tpuverify/internal/verify"
)

// DefaultWorkers bounds the pool when the caller does not.
const DefaultWorkers = 4

// Runner executes the validation stage over many documents.
type Runner struct {
	// Workers is the maximum number of documents validated at once.
	// Non-positive means DefaultWorkers.
	Workers int

	// Strictness is applied to every run.
	Strictness verify.Strictness

	// RunIDs stamps reports. Nil means UUIDv7. Generators must be
	// safe for concurrent use.
	RunIDs verify.RunIDGenerator

	// Logger for per-document progress. Nil disables logging.
	Logger *slog.Logger
}

// Outcome is the result of validating one document.
type Outcome struct {
	Path   string
	Module string
	Report *verify.Report

	// Err is set when the document failed to load; Report is nil in
	// that case.
	Err error
}

// Run validates every path and returns outcomes in input order.
//
// A load failure in one document never stops the others. ERROR
// HANDLING follows "log and continue": the failure is recorded on the
// outcome and the batch keeps going, so one bad document cannot hide
// findings in the rest.
func (r *Runner) Run(ctx context.Context, paths []string) []Outcome {
	workers := r.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	outcomes := make([]Outcome, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = r.runOne(paths[i])
			}
		}()
	}

	for i := range paths {
		// Checked before the send so a cancelled context never races
		// a ready worker.
		if err := ctx.Err(); err != nil {
			for j := i; j < len(paths); j++ {
				outcomes[j] = Outcome{Path: paths[j], Err: err}
			}
			close(jobs)
			wg.Wait()
			return outcomes
		}
		select {
		case <-ctx.Done():
			for j := i; j < len(paths); j++ {
				outcomes[j] = Outcome{Path: paths[j], Err: ctx.Err()}
			}
			close(jobs)
			wg.Wait()
			return outcomes
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

func (r *Runner) runOne(path string) Outcome {
	g, err := graphdoc.LoadFile(path)
	if err != nil {
		r.log().Warn("document load failed", "path", path, "error", err)
		return Outcome{Path: path, Err: err}
	}

	pass := &verify.Pass{Strictness: r.Strictness, RunIDs: r.RunIDs}
	report := pass.RunReport(g)

	r.log().Debug("document validated",
		"path", path,
		"module", g.Module().ID,
		"run", report.RunID,
		"verdict", report.Verdict,
		"errors", report.ErrorCount(),
		"warnings", report.WarningCount(),
	)
	return Outcome{Path: path, Module: g.Module().ID, Report: report}
}

func (r *Runner) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(discardHandler{})
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

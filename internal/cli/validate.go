package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/clementdevtech/tpuverify/internal/graphdoc"
	"github.com/clementdevtech/tpuverify/internal/runner"
	"github.com/clementdevtech/tpuverify/internal/store"
	"github.com/clementdevtech/tpuverify/internal/verify"
)

// ValidateResult holds one validation run for output.
type ValidateResult struct {
	RunID       string              `json:"run_id"`
	Module      string              `json:"module"`
	Strict      bool                `json:"strict"`
	Verdict     bool                `json:"verdict"`
	Errors      int                 `json:"errors"`
	Warnings    int                 `json:"warnings"`
	Diagnostics []verify.Diagnostic `json:"diagnostics,omitempty"`
}

func (r ValidateResult) String() string {
	var buf strings.Builder
	for _, d := range r.Diagnostics {
		fmt.Fprintf(&buf, "%s\n", d)
	}
	verdict := "pass"
	if !r.Verdict {
		verdict = "fail"
	}
	fmt.Fprintf(&buf, "%s: %s (%d errors, %d warnings) run=%s", r.Module, verdict, r.Errors, r.Warnings, r.RunID)
	return buf.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var strict bool
	var archivePath string

	var workers int

	cmd := &cobra.Command{
		Use:   "validate <graph.cue> [graph.cue...]",
		Short: "Validate graph documents",
		Long: `Run the structural validation stage over graph documents.

Checks replication and partition arity against cluster metadata,
cluster attribute propagation across replication boundaries, cluster
boundary adjacency, and accelerator type conflicts. Every violation is
reported; a run never stops at the first finding.

Multiple documents are validated concurrently. Exit code 0 means every
verdict passed (warnings allowed), 1 means at least one failed, 2 means
a document could not be loaded.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, strict, archivePath, workers, cmd)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat open cluster boundaries as errors")
	cmd.Flags().StringVar(&archivePath, "archive", "", "SQLite archive to record the runs in")
	cmd.Flags().IntVar(&workers, "workers", runner.DefaultWorkers, "documents validated concurrently")

	return cmd
}

func runValidate(opts *RootOptions, graphPaths []string, strict bool, archivePath string, workers int, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	strictness := verify.StrictnessLenient
	if strict {
		strictness = verify.StrictnessStrict
	}

	r := &runner.Runner{Workers: workers, Strictness: strictness}
	if opts.Verbose {
		r.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	formatter.VerboseLog("Validating %d document(s) (strictness=%s)", len(graphPaths), strictness)
	outcomes := r.Run(cmd.Context(), graphPaths)

	var st *store.Store
	if archivePath != "" {
		var err error
		st, err = store.Open(archivePath)
		if err != nil {
			formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return NewExitError(ExitCommandError, "failed to open archive")
		}
		defer st.Close()
	}

	loadFailed := false
	verdictFailed := false
	results := make([]ValidateResult, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			loadFailed = true
			outputLoadError(formatter, outcome.Err)
			continue
		}

		report := outcome.Report
		if !report.Verdict {
			verdictFailed = true
		}
		if st != nil {
			if err := st.WriteReport(cmd.Context(), outcome.Module, strictness, report, time.Now()); err != nil {
				formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return NewExitError(ExitCommandError, "failed to archive run")
			}
			formatter.VerboseLog("Archived run %s to %s", report.RunID, archivePath)
		}
		results = append(results, ValidateResult{
			RunID:       report.RunID,
			Module:      outcome.Module,
			Strict:      strict,
			Verdict:     report.Verdict,
			Errors:      report.ErrorCount(),
			Warnings:    report.WarningCount(),
			Diagnostics: report.Diagnostics,
		})
	}

	if err := outputResults(formatter, results); err != nil {
		return err
	}
	if loadFailed {
		return NewExitError(ExitCommandError, "failed to load graph document")
	}
	if verdictFailed {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// outputResults keeps the single-document output flat; batches are
// emitted as one JSON array or one text block per document.
func outputResults(formatter *OutputFormatter, results []ValidateResult) error {
	if len(results) == 1 {
		return formatter.Success(results[0])
	}
	if formatter.Format == "json" {
		return formatter.Success(results)
	}
	for _, result := range results {
		if err := formatter.Success(result); err != nil {
			return err
		}
	}
	return nil
}

// outputLoadError renders a graph document load failure and converts
// it to a command error.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *graphdoc.LoadError
	if errors.As(err, &loadErr) {
		formatter.Error(loadErr.Code, loadErr.Error(), nil)
	} else {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
	}
	return NewExitError(ExitCommandError, "failed to load graph document")
}

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/clementdevtech/tpuverify/internal/store"
	"github.com/clementdevtech/tpuverify/internal/verify"
)

// RunRow is one archived run in history output.
type RunRow struct {
	RunID      string `json:"run_id"`
	Module     string `json:"module"`
	Verdict    bool   `json:"verdict"`
	Strictness string `json:"strictness"`
	Errors     int    `json:"errors"`
	Warnings   int    `json:"warnings"`
	CreatedAt  string `json:"created_at"`
}

// HistoryResult is the list form of history output.
type HistoryResult struct {
	Runs []RunRow `json:"runs"`
}

func (r HistoryResult) String() string {
	if len(r.Runs) == 0 {
		return "no archived runs"
	}
	var buf strings.Builder
	for _, row := range r.Runs {
		verdict := "pass"
		if !row.Verdict {
			verdict = "fail"
		}
		fmt.Fprintf(&buf, "%s  %s  %s  %s  %d errors, %d warnings (%s)\n",
			row.CreatedAt, row.RunID, row.Module, verdict, row.Errors, row.Warnings, row.Strictness)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// RunDetail is the single-run form of history output.
type RunDetail struct {
	RunRow
	Diagnostics []verify.Diagnostic `json:"diagnostics,omitempty"`
}

func (r RunDetail) String() string {
	var buf strings.Builder
	for _, d := range r.Diagnostics {
		fmt.Fprintf(&buf, "%s\n", d)
	}
	buf.WriteString(HistoryResult{Runs: []RunRow{r.RunRow}}.String())
	return buf.String()
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var archivePath string
	var runID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived validation runs",
		Long: `Read the SQLite run archive. Without --run, lists archived runs
newest first. With --run, prints the full report of one run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, archivePath, runID, limit, cmd)
		},
	}

	cmd.Flags().StringVar(&archivePath, "archive", "", "SQLite archive path (required)")
	cmd.Flags().StringVar(&runID, "run", "", "show the full report for one run id")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list, 0 for all")
	cmd.MarkFlagRequired("archive")

	return cmd
}

func runHistory(opts *RootOptions, archivePath, runID string, limit int, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(archivePath); err != nil {
		formatter.Error(ErrCodeGeneric, fmt.Sprintf("archive not found: %s", archivePath), nil)
		return NewExitError(ExitCommandError, "archive not found")
	}

	st, err := store.Open(archivePath)
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, "failed to open archive")
	}
	defer st.Close()

	if runID != "" {
		return historyRun(formatter, st, runID, cmd)
	}
	return historyList(formatter, st, limit, cmd)
}

func historyList(formatter *OutputFormatter, st *store.Store, limit int, cmd *cobra.Command) error {
	runs, err := st.ListRuns(cmd.Context(), limit)
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, "failed to list runs")
	}

	result := HistoryResult{Runs: make([]RunRow, 0, len(runs))}
	for _, run := range runs {
		result.Runs = append(result.Runs, summaryRow(run))
	}
	return formatter.Success(result)
}

func historyRun(formatter *OutputFormatter, st *store.Store, runID string, cmd *cobra.Command) error {
	summary, err := st.GetRun(cmd.Context(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		formatter.Error(ErrCodeGeneric, fmt.Sprintf("run not found: %s", runID), nil)
		return NewExitError(ExitCommandError, "run not found")
	}
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, "failed to read run")
	}

	report, err := st.GetReport(cmd.Context(), runID)
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, "failed to read run")
	}

	return formatter.Success(RunDetail{
		RunRow:      summaryRow(summary),
		Diagnostics: report.Diagnostics,
	})
}

func summaryRow(run store.RunSummary) RunRow {
	return RunRow{
		RunID:      run.RunID,
		Module:     run.Module,
		Verdict:    run.Verdict,
		Strictness: run.Strictness,
		Errors:     run.ErrorCount,
		Warnings:   run.WarningCount,
		CreatedAt:  run.CreatedAt.UTC().Format(time.RFC3339),
	}
}

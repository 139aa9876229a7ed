package harness

import (
	"fmt"
	"strings"

	"github.com/clementdevtech/tpuverify/internal/verify"
)

// AssertionError is returned when an expectation fails. It includes
// the full diagnostic listing to help debug the failure.
type AssertionError struct {
	Expected    string
	Actual      string
	Diagnostics []verify.Diagnostic
}

func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Expectation failed\n")
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nReported diagnostics:\n")
	if len(e.Diagnostics) == 0 {
		fmt.Fprintf(&buf, "  (none)\n")
	}
	for i, d := range e.Diagnostics {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, d)
	}
	return buf.String()
}

// checkExpectations evaluates every expectation against the report and
// returns all failures, never just the first.
func checkExpectations(scenario *Scenario, report *verify.Report) []error {
	var failures []error

	if report.Verdict != scenario.Expect.Verdict {
		failures = append(failures, &AssertionError{
			Expected:    fmt.Sprintf("verdict %v", scenario.Expect.Verdict),
			Actual:      fmt.Sprintf("verdict %v", report.Verdict),
			Diagnostics: report.Diagnostics,
		})
	}

	matched := make([]bool, len(report.Diagnostics))
	for _, want := range scenario.Expect.Diagnostics {
		if !matchDiagnostic(want, report.Diagnostics, matched) {
			failures = append(failures, &AssertionError{
				Expected:    describeExpected(want),
				Actual:      fmt.Sprintf("%d diagnostics, none matching", len(report.Diagnostics)),
				Diagnostics: report.Diagnostics,
			})
		}
	}

	if scenario.Expect.Exhaustive {
		for i, d := range report.Diagnostics {
			if !matched[i] {
				failures = append(failures, &AssertionError{
					Expected:    fmt.Sprintf("no diagnostics beyond the %d expected", len(scenario.Expect.Diagnostics)),
					Actual:      fmt.Sprintf("unexpected diagnostic %s", d),
					Diagnostics: report.Diagnostics,
				})
			}
		}
	}
	return failures
}

// matchDiagnostic finds the first unmatched diagnostic satisfying
// want and claims it, so one reported diagnostic cannot satisfy two
// expectations.
func matchDiagnostic(want ExpectedDiagnostic, diags []verify.Diagnostic, matched []bool) bool {
	for i, d := range diags {
		if matched[i] {
			continue
		}
		if d.Code != want.Code {
			continue
		}
		if want.Node != "" && d.Node != want.Node {
			continue
		}
		if want.Severity != "" && string(d.Severity) != want.Severity {
			continue
		}
		matched[i] = true
		return true
	}
	return false
}

func describeExpected(want ExpectedDiagnostic) string {
	parts := []string{"diagnostic " + want.Code}
	if want.Node != "" {
		parts = append(parts, "on node "+want.Node)
	}
	if want.Severity != "" {
		parts = append(parts, "with severity "+want.Severity)
	}
	return strings.Join(parts, " ")
}

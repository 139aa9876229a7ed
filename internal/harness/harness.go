package harness

import (
	"fmt"

	"github.com/clementdevtech/tpuverify/internal/graphdoc"
	"github.com/clementdevtech/tpuverify/internal/verify"
)

// Result is one scenario execution: the report the stage produced and
// any expectation failures.
type Result struct {
	Scenario *Scenario
	Report   *verify.Report

	// Failures holds one error per violated expectation. Empty means
	// the scenario passed.
	Failures []error
}

// Passed reports whether all expectations held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Run executes a scenario: load the graph, run the stage with the
// scenario's fixed run identifier, evaluate the expectations.
//
// A load failure is an error; expectation failures are recorded on the
// result so a caller can report all of them at once.
func Run(scenario *Scenario) (*Result, error) {
	g, err := graphdoc.LoadFile(scenario.Graph)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	pass := verify.New()
	if scenario.Strict {
		pass.Strictness = verify.StrictnessStrict
	}
	pass.RunIDs = verify.NewFixedGenerator(scenario.RunID)

	report := pass.RunReport(g)
	return &Result{
		Scenario: scenario,
		Report:   report,
		Failures: checkExpectations(scenario, report),
	}, nil
}

// RunFile loads a scenario file and executes it.
func RunFile(path string) (*Result, error) {
	scenario, err := LoadScenario(path)
	if err != nil {
		return nil, err
	}
	return Run(scenario)
}

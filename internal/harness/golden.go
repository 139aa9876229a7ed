package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/clementdevtech/tpuverify/internal/verify"
)

// RunWithGolden executes a scenario and compares the canonical report
// against a golden file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden comparison is exact: diagnostic wording, ordering, and the
// run identifier are all part of the captured report.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result.Report); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already-produced report against a golden
// file.
func AssertGolden(t *testing.T, name string, report *verify.Report) error {
	t.Helper()

	data, err := report.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

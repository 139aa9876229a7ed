package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance test case for the validation stage.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden
	// file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Graph is the path to the CUE graph document, relative to the
	// scenario file location.
	Graph string `yaml:"graph"`

	// Strict promotes the open-boundary warning to an error.
	Strict bool `yaml:"strict,omitempty"`

	// RunID is the fixed run identifier stamped on the report.
	// Defaults to "run-0001" for deterministic golden comparison.
	RunID string `yaml:"run_id,omitempty"`

	// Expect is the required outcome.
	Expect ExpectClause `yaml:"expect"`
}

// ExpectClause specifies the expected report.
type ExpectClause struct {
	// Verdict is the required overall outcome.
	Verdict bool `yaml:"verdict"`

	// Diagnostics that must appear in the report. Subset match: each
	// entry must match at least one reported diagnostic.
	Diagnostics []ExpectedDiagnostic `yaml:"diagnostics,omitempty"`

	// Exhaustive additionally requires that the report contain no
	// diagnostics beyond the expected ones.
	Exhaustive bool `yaml:"exhaustive,omitempty"`
}

// ExpectedDiagnostic matches reported diagnostics. Empty fields match
// anything.
type ExpectedDiagnostic struct {
	Code     string `yaml:"code"`
	Node     string `yaml:"node,omitempty"`
	Severity string `yaml:"severity,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. The graph path
// is resolved relative to the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Graph != "" && !filepath.IsAbs(scenario.Graph) {
		scenario.Graph = filepath.Join(filepath.Dir(path), scenario.Graph)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Graph == "" {
		return fmt.Errorf("graph is required")
	}
	for i, d := range s.Expect.Diagnostics {
		if d.Code == "" {
			return fmt.Errorf("expect.diagnostics[%d]: code is required", i)
		}
		switch d.Severity {
		case "", "warning", "error":
		default:
			return fmt.Errorf("expect.diagnostics[%d]: severity must be warning or error, got %q", i, d.Severity)
		}
	}
	if s.RunID == "" {
		s.RunID = "run-0001"
	}
	return nil
}

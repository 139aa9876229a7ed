// Package harness provides a conformance testing framework for the
// validation stage.
//
// A scenario is a YAML file naming a graph document, a strictness
// setting, and the expected outcome: the verdict plus the diagnostics
// the run must produce. The harness loads the graph, runs the stage
// with fixed run identifiers, and checks the report against the
// expectations. Golden files capture the full canonical report so a
// change in diagnostic wording or ordering shows up as a diff.
//
// Expectation matching is subset based: every expected diagnostic must
// appear in the report, but the report may carry more unless the
// scenario sets exhaustive. Golden comparison is always exact.
package harness

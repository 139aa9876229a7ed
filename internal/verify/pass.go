package verify

import "github.com/clementdevtech/tpuverify/internal/ir"

// Strictness selects how the stage treats a plain successor of a
// cluster node that carries no cluster identifier at all.
type Strictness int

const (
	// StrictnessLenient downgrades the open-boundary case to a
	// warning. This matches long-standing upstream behavior.
	StrictnessLenient Strictness = iota

	// StrictnessStrict promotes the open-boundary case to an error.
	StrictnessStrict
)

func (s Strictness) String() string {
	if s == StrictnessStrict {
		return "strict"
	}
	return "lenient"
}

// Pass is the structural-validation stage. The zero value is a lenient
// pass with UUIDv7 run identifiers.
type Pass struct {
	Strictness Strictness

	// RunIDs stamps reports produced by RunReport. Nil means
	// UUIDv7Generator.
	RunIDs RunIDGenerator
}

// New returns a Pass with default options.
func New() *Pass {
	return &Pass{}
}

// Run executes the stage over the graph: one traversal to collect
// cluster metadata, one traversal to check every node. Diagnostics go
// to sink as they are found. Returns the verdict; false means the
// surrounding pipeline must abort after this stage completes.
//
// Run never mutates the graph and never stops early: a single run
// reports every violation found.
func (p *Pass) Run(g *ir.Graph, sink Sink) bool {
	metadata := CollectMetadata(g)

	ok := true
	g.Walk(func(n *ir.Node) {
		if IsPlain(n) {
			ok = p.checkOpClusterIO(n, metadata, sink) && ok
		}
		if IsIntersectionCandidate(n) {
			ok = checkAcceleratorExclusivity(n, metadata, sink) && ok
		}
	})
	return ok
}

// RunReport executes the stage with an internal collector and returns
// the aggregate report stamped with a run identifier.
func (p *Pass) RunReport(g *ir.Graph) *Report {
	var collector Collector
	verdict := p.Run(g, &collector)

	gen := p.RunIDs
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	return &Report{
		RunID:       gen.Generate(),
		Verdict:     verdict,
		Diagnostics: collector.Diagnostics(),
	}
}

package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clementdevtech/tpuverify/internal/ir"
	"github.com/clementdevtech/tpuverify/internal/testutil"
)

// replicatedClusterGraph builds a cluster "c1" with num_replicas
// replicas, one replicated-input node with the given operand count,
// and one plain successor carrying the given cluster attr.
func replicatedClusterGraph(replicas int64, operands int, succCluster string) *ir.Graph {
	meta := testutil.Metadata("meta", "c1", replicas, 1, false)

	ri := ir.NewNode("ri", ir.KindReplicatedInput).
		SetOperands(testutil.Values("a", ir.F32, operands)...).
		SetResults(ir.NewValue("r", ir.F32))
	iri := testutil.Wrap("iri", ri)

	add := ir.NewNode("add", ir.KindAdd).
		SetOperands(iri.Results()...).
		SetResults(ir.NewValue("s", ir.F32))
	if succCluster != "" {
		add.SetStrAttr(ir.AttrCluster, succCluster)
	}
	iadd := testutil.Wrap("iadd", add)

	return testutil.BuildModule(meta, iri, iadd)
}

func TestScenarioValidReplicatedCluster(t *testing.T) {
	g := replicatedClusterGraph(2, 2, "c1")

	var c Collector
	ok := New().Run(g, &c)
	assert.True(t, ok)
	assert.Empty(t, c.Diagnostics())
}

func TestScenarioReplicaArityMismatch(t *testing.T) {
	g := replicatedClusterGraph(2, 1, "c1")

	var c Collector
	ok := New().Run(g, &c)
	assert.False(t, ok)
	require.Len(t, c.Diagnostics(), 1)
	d := c.Diagnostics()[0]
	assert.Equal(t, CodeReplicaArity, d.Code)
	assert.Equal(t, "ri", d.Node)
	assert.Contains(t, d.Message, "num_replicas=2")
	assert.Contains(t, d.Message, "no. of inputs=1")
}

func TestScenarioNonClusterFeedingReplicatedOutput(t *testing.T) {
	meta := testutil.Metadata("meta", "c1", 1, 1, false)

	host := ir.NewNode("host", ir.KindNoOp).
		SetResults(ir.NewValue("hv", ir.F32))
	ihost := testutil.Wrap("ihost", host)

	ro := ir.NewNode("ro", ir.KindReplicatedOutput).
		SetOperands(ihost.Results()...).
		SetResults(testutil.Values("o", ir.F32, 1)...)
	iro := testutil.Wrap("iro", ro)

	g := testutil.BuildModule(meta, ihost, iro)

	var c Collector
	ok := New().Run(g, &c)
	assert.False(t, ok)
	require.Len(t, c.Diagnostics(), 1)
	d := c.Diagnostics()[0]
	assert.Equal(t, CodeReplicatedOutputAdj, d.Code)
	assert.Equal(t, "host", d.Node)
}

func TestScenarioNonClusterFedByReplicatedInput(t *testing.T) {
	meta := testutil.Metadata("meta", "c1", 1, 1, false)

	ri := ir.NewNode("ri", ir.KindReplicatedInput).
		SetOperands(testutil.Values("a", ir.F32, 1)...).
		SetResults(ir.NewValue("r", ir.F32))
	iri := testutil.Wrap("iri", ri)

	host := ir.NewNode("host", ir.KindNoOp).SetOperands(iri.Results()...)

	g := testutil.BuildModule(meta, iri, host)

	var c Collector
	ok := New().Run(g, &c)
	assert.False(t, ok)
	require.Len(t, c.Diagnostics(), 1)
	assert.Equal(t, CodeReplicatedInputAdj, c.Diagnostics()[0].Code)
}

func TestScenarioAcceleratorConflict(t *testing.T) {
	meta := testutil.Metadata("meta", "c1", 1, 1, false)

	// Soft placement disabled forces the node onto the accelerator;
	// its variant result forbids accelerator compilation.
	ta := ir.NewNode("ta", ir.KindTensorArray).
		SetStrAttr(ir.AttrCluster, "c1").
		SetStrAttr(ir.AttrDevice, "/job:worker/device:TPU:0").
		SetResults(ir.NewValue("handle", ir.Variant))
	ita := testutil.Wrap("ita", ta)

	g := testutil.BuildModule(meta, ita)

	var c Collector
	ok := New().Run(g, &c)
	assert.False(t, ok)
	require.Len(t, c.Diagnostics(), 1)
	d := c.Diagnostics()[0]
	assert.Equal(t, CodeAcceleratorConflict, d.Code)
	assert.Equal(t, "ta", d.Node)
}

func openBoundaryGraph() *ir.Graph {
	meta := testutil.Metadata("meta", "c1", 1, 1, false)

	add := ir.NewNode("add", ir.KindAdd).
		SetStrAttr(ir.AttrCluster, "c1").
		SetResults(ir.NewValue("s", ir.F32))
	iadd := testutil.Wrap("iadd", add)

	host := ir.NewNode("host", ir.KindNoOp).SetOperands(iadd.Results()...)

	return testutil.BuildModule(meta, iadd, host)
}

func TestScenarioOpenBoundaryWarnsButPasses(t *testing.T) {
	g := openBoundaryGraph()

	var c Collector
	ok := New().Run(g, &c)
	assert.True(t, ok, "open boundary is only a warning by default")
	require.Len(t, c.Diagnostics(), 1)
	d := c.Diagnostics()[0]
	assert.Equal(t, CodeOpenClusterBoundary, d.Code)
	assert.Equal(t, SeverityWarning, d.Severity)
	assert.Equal(t, "host", d.Node)
}

func TestScenarioOpenBoundaryFailsWhenStrict(t *testing.T) {
	g := openBoundaryGraph()

	var c Collector
	ok := (&Pass{Strictness: StrictnessStrict}).Run(g, &c)
	assert.False(t, ok)
	require.Len(t, c.Diagnostics(), 1)
	assert.Equal(t, SeverityError, c.Diagnostics()[0].Severity)
}

func TestEmptyClusterAttrFailsValidation(t *testing.T) {
	n := ir.NewNode("n", ir.KindAdd).SetStrAttr(ir.AttrCluster, "")
	g := testutil.BuildModule(testutil.Wrap("in", n))

	var c Collector
	ok := New().Run(g, &c)
	assert.False(t, ok)
	require.Len(t, c.Diagnostics(), 1)
	assert.Equal(t, CodeEmptyClusterAttr, c.Diagnostics()[0].Code)
}

func TestUnregisteredKindRunsAllChecks(t *testing.T) {
	meta := testutil.Metadata("meta", "c1", 1, 1, false)

	n := ir.NewNode("mystery", ir.KindUnregistered).
		SetStrAttr(ir.AttrCluster, "c1").
		SetResults(ir.NewValue("r", ir.Str))
	n.RawKind = "vendor.mystery_op"

	g := testutil.BuildModule(meta, testutil.Wrap("im", n))

	var c Collector
	ok := New().Run(g, &c)
	assert.False(t, ok)
	require.Len(t, c.Diagnostics(), 1)
	d := c.Diagnostics()[0]
	assert.Equal(t, CodeAcceleratorConflict, d.Code)
	assert.Equal(t, "vendor.mystery_op", d.Kind)
}

func TestGraphWithoutClustersPasses(t *testing.T) {
	a := ir.NewNode("a", ir.KindConst).SetResults(ir.NewValue("av", ir.F32))
	ia := testutil.Wrap("ia", a)
	b := ir.NewNode("b", ir.KindMatMul).SetOperands(ia.Results()...)
	g := testutil.BuildModule(ia, testutil.Wrap("ib", b))

	var c Collector
	assert.True(t, New().Run(g, &c))
	assert.Empty(t, c.Diagnostics())
}

func TestRunIsIdempotent(t *testing.T) {
	g := replicatedClusterGraph(2, 1, "c1")
	p := New()

	var first, second Collector
	okFirst := p.Run(g, &first)
	okSecond := p.Run(g, &second)

	assert.Equal(t, okFirst, okSecond)
	assert.Equal(t, first.Diagnostics(), second.Diagnostics(),
		"re-running on an unchanged graph yields an identical diagnostic sequence")
}

func TestRunNeverStopsEarly(t *testing.T) {
	// Two independent violations in one graph: both must be reported
	// in a single run.
	meta := testutil.Metadata("meta", "c1", 2, 1, false)

	ri := ir.NewNode("ri", ir.KindReplicatedInput).
		SetOperands(testutil.Values("a", ir.F32, 1)...).
		SetResults(ir.NewValue("r", ir.F32))
	iri := testutil.Wrap("iri", ri)
	add := ir.NewNode("add", ir.KindAdd).
		SetStrAttr(ir.AttrCluster, "c1").
		SetOperands(iri.Results()...)
	iadd := testutil.Wrap("iadd", add)

	bad := ir.NewNode("bad", ir.KindAdd).SetStrAttr(ir.AttrCluster, "")
	ibad := testutil.Wrap("ibad", bad)

	g := testutil.BuildModule(meta, iri, iadd, ibad)

	var c Collector
	ok := New().Run(g, &c)
	assert.False(t, ok)

	codes := make(map[string]int)
	for _, d := range c.Diagnostics() {
		codes[d.Code]++
	}
	assert.Equal(t, 1, codes[CodeReplicaArity])
	assert.Equal(t, 1, codes[CodeEmptyClusterAttr])
}

func TestRunReportStampsRunID(t *testing.T) {
	g := replicatedClusterGraph(2, 2, "c1")
	p := &Pass{RunIDs: NewFixedGenerator("run-0001")}

	report := p.RunReport(g)
	assert.Equal(t, "run-0001", report.RunID)
	assert.True(t, report.Verdict)
	assert.Empty(t, report.Diagnostics)
}

func TestRunReportCounts(t *testing.T) {
	g := openBoundaryGraph()
	p := &Pass{RunIDs: NewFixedGenerator("run-0002")}

	report := p.RunReport(g)
	assert.True(t, report.Verdict)
	assert.Equal(t, 0, report.ErrorCount())
	assert.Equal(t, 1, report.WarningCount())
}

func TestReportMarshalCanonicalDeterministic(t *testing.T) {
	g := replicatedClusterGraph(2, 1, "c1")
	p := &Pass{RunIDs: NewFixedGenerator("run-0003", "run-0003")}

	first, err := p.RunReport(g).MarshalCanonical()
	require.NoError(t, err)
	second, err := p.RunReport(g).MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestUUIDv7GeneratorProducesUniqueIDs(t *testing.T) {
	gen := UUIDv7Generator{}
	a := gen.Generate()
	b := gen.Generate()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clementdevtech/tpuverify/internal/ir"
	"github.com/clementdevtech/tpuverify/internal/testutil"
)

func replicatedInput(id string, operands int, packed bool) *ir.Node {
	n := ir.NewNode(id, ir.KindReplicatedInput).
		SetOperands(testutil.Values("a", ir.F32, operands)...).
		SetResults(ir.NewValue(id+".r", ir.F32))
	if packed {
		n.SetBoolAttr(ir.AttrIsPacked, true)
	}
	return n
}

// =============================================================================
// Replicated input
// =============================================================================

func TestReplicatedInputUnpackedArityMatch(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 2, NumCoresPerReplica: 1}
	ri := replicatedInput("ri", 2, false)

	var c Collector
	assert.True(t, validateReplicatedInput(ri, md, &c))
	assert.Empty(t, c.Diagnostics())
}

func TestReplicatedInputUnpackedArityMismatch(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 2, NumCoresPerReplica: 1}
	ri := replicatedInput("ri", 1, false)

	var c Collector
	assert.False(t, validateReplicatedInput(ri, md, &c))
	require.Len(t, c.Diagnostics(), 1)
	d := c.Diagnostics()[0]
	assert.Equal(t, CodeReplicaArity, d.Code)
	assert.Equal(t, SeverityError, d.Severity)
	assert.Equal(t, "ri", d.Node)
	assert.Contains(t, d.Message, "num_replicas=2")
	assert.Contains(t, d.Message, "no. of inputs=1")
}

func TestReplicatedInputPackedArityOnePassesRegardlessOfReplicas(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 8, NumCoresPerReplica: 1}
	ri := replicatedInput("ri", 1, true)

	var c Collector
	assert.True(t, validateReplicatedInput(ri, md, &c))
	assert.Empty(t, c.Diagnostics())
}

func TestReplicatedInputPackedArityNotOneFails(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 2, NumCoresPerReplica: 1}
	ri := replicatedInput("ri", 2, true)

	var c Collector
	assert.False(t, validateReplicatedInput(ri, md, &c))
	require.Len(t, c.Diagnostics(), 1)
	assert.Equal(t, CodePackedArity, c.Diagnostics()[0].Code)
}

func TestReplicatedInputSuccessorPropagation(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 1}
	ri := replicatedInput("ri", 1, false)
	iri := testutil.Wrap("iri", ri)

	ir.NewNode("add", ir.KindAdd).
		SetStrAttr(ir.AttrCluster, "c1").
		SetOperands(iri.Results()...)

	var c Collector
	assert.True(t, validateReplicatedInput(ri, md, &c))
	assert.Empty(t, c.Diagnostics())
}

func TestReplicatedInputSuccessorMissingClusterAttr(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 1}
	ri := replicatedInput("ri", 1, false)
	iri := testutil.Wrap("iri", ri)

	ir.NewNode("add", ir.KindAdd).SetOperands(iri.Results()...)

	var c Collector
	assert.False(t, validateReplicatedInput(ri, md, &c))
	require.Len(t, c.Diagnostics(), 1)
	d := c.Diagnostics()[0]
	assert.Equal(t, CodeMissingClusterAttr, d.Code)
	assert.Equal(t, "add", d.Node)
}

func TestReplicatedInputSuccessorWrongClusterAttr(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 1}
	ri := replicatedInput("ri", 1, false)
	iri := testutil.Wrap("iri", ri)

	ir.NewNode("add", ir.KindAdd).
		SetStrAttr(ir.AttrCluster, "c2").
		SetOperands(iri.Results()...)

	var c Collector
	assert.False(t, validateReplicatedInput(ri, md, &c))
	require.Len(t, c.Diagnostics(), 1)
	d := c.Diagnostics()[0]
	assert.Equal(t, CodeClusterAttrMismatch, d.Code)
	assert.Contains(t, d.Message, `Expected attr: "c1"`)
	assert.Contains(t, d.Message, `Actual attr: "c2"`)
}

func TestReplicatedInputStructuralSuccessorsSkipped(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 1}
	ri := replicatedInput("ri", 1, false)
	iri := testutil.Wrap("iri", ri)

	// A fetch terminator never carries a cluster attr; it must not be
	// subject to the propagation check.
	ir.NewNode("fetch", ir.KindFetch).SetOperands(iri.Results()...)

	var c Collector
	assert.True(t, validateReplicatedInput(ri, md, &c))
	assert.Empty(t, c.Diagnostics())
}

// =============================================================================
// Replicated output
// =============================================================================

func TestReplicatedOutputArityMatch(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 2, NumCoresPerReplica: 1}
	ro := ir.NewNode("ro", ir.KindReplicatedOutput).
		SetResults(testutil.Values("o", ir.F32, 2)...)

	var c Collector
	assert.True(t, validateReplicatedOutput(ro, md, &c))
	assert.Empty(t, c.Diagnostics())
}

func TestReplicatedOutputArityMismatch(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 2, NumCoresPerReplica: 1}
	ro := ir.NewNode("ro", ir.KindReplicatedOutput).
		SetResults(testutil.Values("o", ir.F32, 3)...)

	var c Collector
	assert.False(t, validateReplicatedOutput(ro, md, &c))
	require.Len(t, c.Diagnostics(), 1)
	d := c.Diagnostics()[0]
	assert.Equal(t, CodeReplicaArity, d.Code)
	assert.Contains(t, d.Message, "no. of outputs=3")
}

func TestReplicatedOutputPredecessorPropagation(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 1}

	work := ir.NewNode("work", ir.KindMatMul).SetResults(ir.NewValue("w", ir.F32))
	iwork := testutil.Wrap("iwork", work)
	ro := ir.NewNode("ro", ir.KindReplicatedOutput).
		SetOperands(iwork.Results()...).
		SetResults(testutil.Values("o", ir.F32, 1)...)

	var c Collector
	assert.False(t, validateReplicatedOutput(ro, md, &c), "predecessor lacks the cluster attr")
	require.Len(t, c.Diagnostics(), 1)
	d := c.Diagnostics()[0]
	assert.Equal(t, CodeMissingClusterAttr, d.Code)
	assert.Equal(t, "work", d.Node)
	assert.Contains(t, d.Message, "predecessor")
}

// =============================================================================
// Partitioned kinds
// =============================================================================

func TestPartitionedInputExactArity(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 2}
	pi := ir.NewNode("pi", ir.KindPartitionedInput).
		SetOperands(testutil.Values("a", ir.F32, 2)...)

	var c Collector
	assert.True(t, validatePartitionedInput(pi, md, &c))

	bad := ir.NewNode("pi2", ir.KindPartitionedInput).
		SetOperands(testutil.Values("b", ir.F32, 3)...)
	assert.False(t, validatePartitionedInput(bad, md, &c))
	require.Len(t, c.Diagnostics(), 1)
	assert.Equal(t, CodeCoreArity, c.Diagnostics()[0].Code)
}

func TestPartitionedInputHasNoPackingOption(t *testing.T) {
	// v1 ignores is_packed: arity must equal num_cores_per_replica.
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 2}
	pi := ir.NewNode("pi", ir.KindPartitionedInput).
		SetOperands(testutil.Values("a", ir.F32, 1)...).
		SetBoolAttr(ir.AttrIsPacked, true)

	var c Collector
	assert.False(t, validatePartitionedInput(pi, md, &c))
}

func TestPartitionedInputV2PackedRule(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 4}

	packed := ir.NewNode("p1", ir.KindPartitionedInputV2).
		SetOperands(testutil.Values("a", ir.F32, 1)...).
		SetBoolAttr(ir.AttrIsPacked, true)
	var c1 Collector
	assert.True(t, validatePartitionedInputV2(packed, md, &c1))

	packedBad := ir.NewNode("p2", ir.KindPartitionedInputV2).
		SetOperands(testutil.Values("b", ir.F32, 4)...).
		SetBoolAttr(ir.AttrIsPacked, true)
	var c2 Collector
	assert.False(t, validatePartitionedInputV2(packedBad, md, &c2))
	require.Len(t, c2.Diagnostics(), 1)
	assert.Equal(t, CodePackedArity, c2.Diagnostics()[0].Code)

	unpacked := ir.NewNode("p3", ir.KindPartitionedInputV2).
		SetOperands(testutil.Values("c", ir.F32, 4)...)
	var c3 Collector
	assert.True(t, validatePartitionedInputV2(unpacked, md, &c3))

	unpackedBad := ir.NewNode("p4", ir.KindPartitionedInputV2).
		SetOperands(testutil.Values("d", ir.F32, 2)...)
	var c4 Collector
	assert.False(t, validatePartitionedInputV2(unpackedBad, md, &c4))
	require.Len(t, c4.Diagnostics(), 1)
	assert.Equal(t, CodeCoreArity, c4.Diagnostics()[0].Code)
}

func TestPartitionedOutputArity(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 2}

	for _, kind := range []ir.OpKind{ir.KindPartitionedOutput, ir.KindPartitionedOutputV2} {
		good := ir.NewNode("po", kind).SetResults(testutil.Values("o", ir.F32, 2)...)
		var c Collector
		assert.True(t, validatePartitionedOutput(good, md, &c), "kind %s", kind)

		bad := ir.NewNode("po2", kind).SetResults(testutil.Values("p", ir.F32, 1)...)
		assert.False(t, validatePartitionedOutput(bad, md, &c), "kind %s", kind)
	}
}

// =============================================================================
// Dispatch
// =============================================================================

func TestCheckReplicationIODispatch(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 2, NumCoresPerReplica: 3}

	ri := replicatedInput("ri", 1, false)
	var c Collector
	assert.False(t, checkReplicationIO(ri, md, &c))
	require.Len(t, c.Diagnostics(), 1)
	assert.Equal(t, CodeReplicaArity, c.Diagnostics()[0].Code)

	po := ir.NewNode("po", ir.KindPartitionedOutputV2).
		SetResults(testutil.Values("o", ir.F32, 1)...)
	var c2 Collector
	assert.False(t, checkReplicationIO(po, md, &c2))
	assert.Equal(t, CodeCoreArity, c2.Diagnostics()[0].Code)
}

func TestCheckReplicationIOPassesThroughOtherKinds(t *testing.T) {
	md := ClusterMetadata{Cluster: "c1", NumReplicas: 2, NumCoresPerReplica: 3}
	island := ir.NewNode("island", ir.KindIsland)

	var c Collector
	assert.True(t, checkReplicationIO(island, md, &c))
	assert.Empty(t, c.Diagnostics())
}

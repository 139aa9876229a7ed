package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clementdevtech/tpuverify/internal/ir"
)

func TestMustNotBeAccelerator(t *testing.T) {
	valid := ir.NewNode("n", ir.KindConst).
		SetOperands(ir.NewValue("a", ir.F32)).
		SetResults(ir.NewValue("r", ir.I32))
	assert.False(t, mustNotBeAccelerator(valid))

	badOperand := ir.NewNode("n", ir.KindConst).
		SetOperands(ir.NewValue("a", ir.Str))
	assert.True(t, mustNotBeAccelerator(badOperand))

	badResult := ir.NewNode("n", ir.KindConst).
		SetResults(ir.NewValue("r", ir.Variant))
	assert.True(t, mustNotBeAccelerator(badResult))
}

func TestMustNotBeAcceleratorToleratesResourceOperands(t *testing.T) {
	n := ir.NewNode("read", ir.KindReadVariable).
		SetOperands(ir.NewValue("handle", ir.Resource)).
		SetResults(ir.NewValue("r", ir.F32))
	assert.False(t, mustNotBeAccelerator(n), "resource operands are tolerated")

	out := ir.NewNode("make", ir.KindUnregistered).
		SetResults(ir.NewValue("handle", ir.Resource))
	assert.True(t, mustNotBeAccelerator(out), "resource results are not")
}

func TestMustBeAcceleratorSoftPlacementDisabled(t *testing.T) {
	metadata := MetadataMap{"c1": {Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 1}}

	n := ir.NewNode("n", ir.KindConst).SetStrAttr(ir.AttrCluster, "c1")
	assert.True(t, mustBeAccelerator(n, metadata))
}

func TestMustBeAcceleratorOutsideCompilationEscapes(t *testing.T) {
	metadata := MetadataMap{"c1": {Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 1}}

	n := ir.NewNode("n", ir.KindConst).
		SetStrAttr(ir.AttrCluster, "c1").
		SetStrAttr(ir.AttrOutsideCompilation, "oc0")
	assert.False(t, mustBeAccelerator(n, metadata), "marked nodes escape the soft-placement rule")
}

func TestMustBeAcceleratorDevicePath(t *testing.T) {
	metadata := MetadataMap{"c1": {Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 1, AllowSoftPlacement: true}}

	onAccel := ir.NewNode("n", ir.KindConst).
		SetStrAttr(ir.AttrCluster, "c1").
		SetStrAttr(ir.AttrDevice, "/job:worker/device:TPU:0")
	assert.True(t, mustBeAccelerator(onAccel, metadata))

	onHost := ir.NewNode("n", ir.KindConst).
		SetStrAttr(ir.AttrCluster, "c1").
		SetStrAttr(ir.AttrDevice, "/job:worker/device:CPU:0")
	assert.False(t, mustBeAccelerator(onHost, metadata))

	noDevice := ir.NewNode("n", ir.KindConst).
		SetStrAttr(ir.AttrCluster, "c1")
	assert.False(t, mustBeAccelerator(noDevice, metadata))
}

func TestMustBeAcceleratorRequiresKnownMetadata(t *testing.T) {
	n := ir.NewNode("n", ir.KindConst).SetStrAttr(ir.AttrCluster, "c1")
	assert.False(t, mustBeAccelerator(n, MetadataMap{}))

	unclustered := ir.NewNode("n", ir.KindConst)
	assert.False(t, mustBeAccelerator(unclustered, MetadataMap{"c1": {Cluster: "c1"}}))
}

func TestAcceleratorExclusivityConflict(t *testing.T) {
	metadata := MetadataMap{"c1": {Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 1}}

	n := ir.NewNode("ta", ir.KindTensorArray).
		SetStrAttr(ir.AttrCluster, "c1").
		SetResults(ir.NewValue("r", ir.Variant))

	var c Collector
	assert.False(t, checkAcceleratorExclusivity(n, metadata, &c))
	require.Len(t, c.Diagnostics(), 1)
	d := c.Diagnostics()[0]
	assert.Equal(t, CodeAcceleratorConflict, d.Code)
	assert.Equal(t, "ta", d.Node)
}

func TestAcceleratorExclusivitySkipsReplicationKinds(t *testing.T) {
	metadata := MetadataMap{"c1": {Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 1}}

	var c Collector
	for _, kind := range []ir.OpKind{
		ir.KindReplicateMetadata,
		ir.KindReplicatedInput, ir.KindReplicatedOutput,
		ir.KindPartitionedInput, ir.KindPartitionedInputV2,
		ir.KindPartitionedOutput, ir.KindPartitionedOutputV2,
	} {
		n := ir.NewNode("n", kind).
			SetStrAttr(ir.AttrCluster, "c1").
			SetResults(ir.NewValue("r", ir.Variant))
		assert.True(t, checkAcceleratorExclusivity(n, metadata, &c), "kind %s", kind)
	}
	assert.Empty(t, c.Diagnostics())
}

func TestAcceleratorExclusivityEitherAloneIsFine(t *testing.T) {
	metadata := MetadataMap{"c1": {Cluster: "c1", NumReplicas: 1, NumCoresPerReplica: 1}}

	mustOnly := ir.NewNode("n", ir.KindConst).
		SetStrAttr(ir.AttrCluster, "c1").
		SetResults(ir.NewValue("r", ir.F32))
	var c1 Collector
	assert.True(t, checkAcceleratorExclusivity(mustOnly, metadata, &c1))

	mustNotOnly := ir.NewNode("n", ir.KindConst).
		SetResults(ir.NewValue("r", ir.Str))
	var c2 Collector
	assert.True(t, checkAcceleratorExclusivity(mustNotOnly, metadata, &c2))
}

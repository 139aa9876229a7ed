package ir

// OpKind identifies a node's operation kind.
//
// The enum is closed: every kind the toolchain registers has a member
// here. Nodes whose textual kind is not registered map to
// KindUnregistered (the zero value) and retain their raw name on the
// node for diagnostics.
type OpKind int

const (
	// KindUnregistered marks a node whose kind is unknown to the
	// toolchain. Deliberately the zero value so an unset kind is
	// treated conservatively.
	KindUnregistered OpKind = iota

	// Structural scaffolding.
	KindModule
	KindFunc
	KindFuncReturn
	KindGraph
	KindFetch
	KindIsland
	KindYield

	// Replication / partition boundary kinds.
	KindReplicateMetadata
	KindReplicatedInput
	KindReplicatedOutput
	KindPartitionedInput
	KindPartitionedInputV2
	KindPartitionedOutput
	KindPartitionedOutputV2

	// Kinds that may legally be either accelerator-compiled or not.
	KindConst
	KindWhile
	KindAssert
	KindIdentity
	KindStatefulCall
	KindTensorArray
	KindSetDynamicDimensionSize

	// Ordinary compute kinds.
	KindAdd
	KindMatMul
	KindNoOp
	KindReadVariable
)

var kindNames = map[OpKind]string{
	KindModule:                  "module",
	KindFunc:                    "func",
	KindFuncReturn:              "func.return",
	KindGraph:                   "executor.graph",
	KindFetch:                   "executor.fetch",
	KindIsland:                  "executor.island",
	KindYield:                   "executor.yield",
	KindReplicateMetadata:       "tpu.replicate_metadata",
	KindReplicatedInput:         "tpu.replicated_input",
	KindReplicatedOutput:        "tpu.replicated_output",
	KindPartitionedInput:        "tpu.partitioned_input",
	KindPartitionedInputV2:      "tpu.partitioned_input_v2",
	KindPartitionedOutput:       "tpu.partitioned_output",
	KindPartitionedOutputV2:     "tpu.partitioned_output_v2",
	KindConst:                   "const",
	KindWhile:                   "while",
	KindAssert:                  "assert",
	KindIdentity:                "identity",
	KindStatefulCall:            "stateful_call",
	KindTensorArray:             "tensor_array",
	KindSetDynamicDimensionSize: "xla.set_dynamic_dimension_size",
	KindAdd:                     "add",
	KindMatMul:                  "matmul",
	KindNoOp:                    "no_op",
	KindReadVariable:            "read_variable",
}

var kindsByName = func() map[string]OpKind {
	m := make(map[string]OpKind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// String returns the canonical textual name of the kind.
// KindUnregistered has no canonical name; callers that need a
// printable name for unregistered nodes should use Node.KindName.
func (k OpKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unregistered"
}

// ParseKind maps a textual kind to its enum member.
// Unknown names return (KindUnregistered, false).
func ParseKind(name string) (OpKind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// Attribute keys recognized by the validation stage.
const (
	// AttrCluster names the cluster a node belongs to. Presence with
	// an empty value is a hard error during validation.
	AttrCluster = "_tpu_replicate"

	// AttrDevice is the placement device string.
	AttrDevice = "device"

	// AttrOutsideCompilation marks a node deliberately excluded from
	// accelerator compilation within an otherwise accelerator-bound
	// cluster. Presence alone is significant.
	AttrOutsideCompilation = "_xla_outside_compilation"

	// AttrNumReplicas and AttrNumCoresPerReplica live on
	// replicate-metadata nodes.
	AttrNumReplicas        = "num_replicas"
	AttrNumCoresPerReplica = "num_cores_per_replica"

	// AttrAllowSoftPlacement permits the compiler to leave some nodes
	// un-accelerated instead of failing outright.
	AttrAllowSoftPlacement = "allow_soft_placement"

	// AttrIsPacked marks a replicated/partitioned input as supplying a
	// single shared value instead of one value per replica or core.
	AttrIsPacked = "is_packed"
)

// AcceleratorDevice is the substring identifying accelerator placement
// in a device attribute.
const AcceleratorDevice = "TPU"

package verify

import "github.com/clementdevtech/tpuverify/internal/ir"

// Classification sets. Built once at package init, read-only afterward,
// safe for concurrent readers.
//
// structuralKinds covers graph/function/region scaffolding plus the
// replication/partition boundary kinds; these are exempt from the
// general clusterable-IO checks.
//
// intersectionKinds covers kinds that may legitimately be either
// accelerator-compiled or not, subject to the exclusivity check.
var structuralKinds = map[ir.OpKind]struct{}{
	ir.KindModule:              {},
	ir.KindFunc:                {},
	ir.KindFuncReturn:          {},
	ir.KindGraph:               {},
	ir.KindFetch:               {},
	ir.KindIsland:              {},
	ir.KindYield:               {},
	ir.KindReplicateMetadata:   {},
	ir.KindReplicatedInput:     {},
	ir.KindReplicatedOutput:    {},
	ir.KindPartitionedInput:    {},
	ir.KindPartitionedInputV2:  {},
	ir.KindPartitionedOutput:   {},
	ir.KindPartitionedOutputV2: {},
}

var intersectionKinds = map[ir.OpKind]struct{}{
	ir.KindConst:                   {},
	ir.KindWhile:                   {},
	ir.KindAssert:                  {},
	ir.KindIdentity:                {},
	ir.KindStatefulCall:            {},
	ir.KindTensorArray:             {},
	ir.KindSetDynamicDimensionSize: {},
}

// IsPlain reports whether the node is subject to the general
// clusterable-IO checks. Unregistered kinds are conservatively plain:
// better to run more checks on an unknown node than fewer.
func IsPlain(n *ir.Node) bool {
	if n.Kind == ir.KindUnregistered {
		return true
	}
	_, structural := structuralKinds[n.Kind]
	return !structural
}

// IsIntersectionCandidate reports whether the node may legally be
// either accelerator-compiled or not. Unregistered kinds are
// conservatively candidates.
func IsIntersectionCandidate(n *ir.Node) bool {
	if n.Kind == ir.KindUnregistered {
		return true
	}
	_, ok := intersectionKinds[n.Kind]
	return ok
}

// isReplicationIO reports whether the kind is one of the six
// replication/partition boundary kinds. Kept as an exhaustive switch so
// the special-casing stays centralized.
func isReplicationIO(k ir.OpKind) bool {
	switch k {
	case ir.KindReplicatedInput,
		ir.KindReplicatedOutput,
		ir.KindPartitionedInput,
		ir.KindPartitionedInputV2,
		ir.KindPartitionedOutput,
		ir.KindPartitionedOutputV2:
		return true
	}
	return false
}

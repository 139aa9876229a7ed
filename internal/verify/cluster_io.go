package verify

import "github.com/clementdevtech/tpuverify/internal/ir"

// checkPropagatedAttr verifies that a plain neighbor of a
// replication/partition node carries exactly the cluster's canonical
// identifier attribute.
func checkPropagatedAttr(neighbor *ir.Node, want string, relation string, owner *ir.Node, sink Sink) bool {
	got, ok := neighbor.Cluster()
	if !ok {
		sink.Emit(errorDiag(neighbor, CodeMissingClusterAttr,
			"%s op has %s op %s with error: missing %s attr",
			owner.KindName(), relation, neighbor.KindName(), ir.AttrCluster))
		return false
	}
	if got != want {
		sink.Emit(errorDiag(neighbor, CodeClusterAttrMismatch,
			"%s op has %s op %s with error: invalid %s attr. Expected attr: %q, Actual attr: %q",
			owner.KindName(), relation, neighbor.KindName(), ir.AttrCluster, want, got))
		return false
	}
	return true
}

// validateReplicatedInput checks a replicated-input node's arity
// against its cluster metadata, then the identifier propagation on
// every plain successor.
func validateReplicatedInput(rep *ir.Node, md ClusterMetadata, sink Sink) bool {
	arity := int64(len(rep.Operands()))
	packed, _ := rep.BoolAttr(ir.AttrIsPacked)
	if packed && arity != 1 {
		sink.Emit(errorDiag(rep, CodePackedArity,
			"packed with number of inputs not 1. num_replicas=%d no. of inputs=%d",
			md.NumReplicas, arity))
		return false
	}
	if !packed && arity != md.NumReplicas {
		sink.Emit(errorDiag(rep, CodeReplicaArity,
			"number of inputs inconsistent. num_replicas=%d no. of inputs=%d",
			md.NumReplicas, arity))
		return false
	}
	for _, succ := range Successors(rep) {
		if !IsPlain(succ) {
			continue
		}
		if !checkPropagatedAttr(succ, md.Cluster, "successor", rep, sink) {
			return false
		}
	}
	return true
}

// validateReplicatedOutput checks result arity against num_replicas
// and identifier propagation on every plain predecessor.
func validateReplicatedOutput(rep *ir.Node, md ClusterMetadata, sink Sink) bool {
	arity := int64(len(rep.Results()))
	if arity != md.NumReplicas {
		sink.Emit(errorDiag(rep, CodeReplicaArity,
			"number of outputs inconsistent. num_replicas=%d no. of outputs=%d",
			md.NumReplicas, arity))
		return false
	}
	for _, pred := range Predecessors(rep) {
		if !IsPlain(pred) {
			continue
		}
		if !checkPropagatedAttr(pred, md.Cluster, "predecessor", rep, sink) {
			return false
		}
	}
	return true
}

// validatePartitionedInput checks the v1 kind: arity must equal
// num_cores_per_replica exactly, no packing option.
func validatePartitionedInput(part *ir.Node, md ClusterMetadata, sink Sink) bool {
	arity := int64(len(part.Operands()))
	if arity != md.NumCoresPerReplica {
		sink.Emit(errorDiag(part, CodeCoreArity,
			"number of inputs inconsistent. num_cores_per_replica=%d no. of inputs=%d",
			md.NumCoresPerReplica, arity))
		return false
	}
	return true
}

// validatePartitionedInputV2 follows the same packed/unpacked rule as
// replicated-input but against num_cores_per_replica.
func validatePartitionedInputV2(part *ir.Node, md ClusterMetadata, sink Sink) bool {
	arity := int64(len(part.Operands()))
	packed, _ := part.BoolAttr(ir.AttrIsPacked)
	if packed && arity != 1 {
		sink.Emit(errorDiag(part, CodePackedArity,
			"packed with number of inputs not 1. num_cores_per_replica=%d no. of inputs=%d",
			md.NumCoresPerReplica, arity))
		return false
	}
	if !packed && arity != md.NumCoresPerReplica {
		sink.Emit(errorDiag(part, CodeCoreArity,
			"number of inputs inconsistent. num_cores_per_replica=%d no. of inputs=%d",
			md.NumCoresPerReplica, arity))
		return false
	}
	return true
}

// validatePartitionedOutput applies to v1 and v2, identical rule.
func validatePartitionedOutput(part *ir.Node, md ClusterMetadata, sink Sink) bool {
	arity := int64(len(part.Results()))
	if arity != md.NumCoresPerReplica {
		sink.Emit(errorDiag(part, CodeCoreArity,
			"number of outputs inconsistent. num_cores_per_replica=%d no. of outputs=%d",
			md.NumCoresPerReplica, arity))
		return false
	}
	return true
}

// checkReplicationIO dispatches a replication/partition node to its
// arity and propagation validator using the metadata of the cluster
// asserted by the adjacent cluster node. Non-replication kinds pass
// through untouched.
func checkReplicationIO(n *ir.Node, md ClusterMetadata, sink Sink) bool {
	switch n.Kind {
	case ir.KindReplicatedInput:
		return validateReplicatedInput(n, md, sink)
	case ir.KindReplicatedOutput:
		return validateReplicatedOutput(n, md, sink)
	case ir.KindPartitionedInput:
		return validatePartitionedInput(n, md, sink)
	case ir.KindPartitionedInputV2:
		return validatePartitionedInputV2(n, md, sink)
	case ir.KindPartitionedOutput, ir.KindPartitionedOutputV2:
		return validatePartitionedOutput(n, md, sink)
	}
	return true
}

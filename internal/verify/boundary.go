package verify

import "github.com/clementdevtech/tpuverify/internal/ir"

// checkClusterSuccessor validates a plain successor of a cluster node.
// A successor with a different non-empty cluster identifier is a hard
// error. A successor with no identifier at all is, by default, only a
// warning; strict mode promotes it to an error.
func (p *Pass) checkClusterSuccessor(succ *ir.Node, cluster string, owner *ir.Node, sink Sink) bool {
	got, _ := succ.Cluster()
	if got == "" {
		if p.Strictness == StrictnessStrict {
			sink.Emit(errorDiag(succ, CodeOpenClusterBoundary,
				"cluster op %s with cluster = %s has successor as non cluster op %s",
				owner.KindName(), cluster, succ.KindName()))
			return false
		}
		sink.Emit(warningDiag(succ, CodeOpenClusterBoundary,
			"cluster op %s with cluster = %s has successor as non cluster op %s",
			owner.KindName(), cluster, succ.KindName()))
		return true
	}
	if got != cluster {
		sink.Emit(errorDiag(succ, CodeClusterMismatch,
			"mismatched cluster identifiers across adjacent nodes. Parent op %s with cluster = %s has successor cluster op %s with cluster = %s",
			owner.KindName(), cluster, succ.KindName(), got))
		return false
	}
	return true
}

// checkNonClusterPredecessor forbids a non-cluster node directly
// downstream of a replicated-input node. Partitioned kinds are exempt.
func checkNonClusterPredecessor(pred *ir.Node, owner *ir.Node, sink Sink) bool {
	if !IsPlain(pred) && pred.Kind == ir.KindReplicatedInput {
		sink.Emit(errorDiag(owner, CodeReplicatedInputAdj,
			"non-cluster op = %s has invalid predecessor op = %s",
			owner.KindName(), pred.KindName()))
		return false
	}
	return true
}

// checkNonClusterSuccessor forbids a non-cluster node directly
// upstream of a replicated-output node. Partitioned kinds are exempt.
func checkNonClusterSuccessor(succ *ir.Node, owner *ir.Node, sink Sink) bool {
	if !IsPlain(succ) && succ.Kind == ir.KindReplicatedOutput {
		sink.Emit(errorDiag(owner, CodeReplicatedOutputAdj,
			"non-cluster op = %s has invalid successor op = %s",
			owner.KindName(), succ.KindName()))
		return false
	}
	return true
}

// checkOpClusterIO runs the combined cluster-IO and boundary checks
// for one plain node.
func (p *Pass) checkOpClusterIO(n *ir.Node, metadata MetadataMap, sink Sink) bool {
	cluster := ""
	isClusterOp := false
	if v, ok := n.Cluster(); ok {
		if v == "" {
			sink.Emit(errorDiag(n, CodeEmptyClusterAttr,
				"empty %s attr for op = %s", ir.AttrCluster, n.KindName()))
			return false
		}
		cluster = v
		isClusterOp = true
	}
	md, hasMetadata := metadata[cluster]

	for _, pred := range Predecessors(n) {
		if isClusterOp && !IsPlain(pred) && hasMetadata {
			if !checkReplicationIO(pred, md, sink) {
				return false
			}
		}
		if !isClusterOp {
			if !checkNonClusterPredecessor(pred, n, sink) {
				return false
			}
		}
	}

	for _, succ := range Successors(n) {
		if isClusterOp && !IsPlain(succ) && hasMetadata {
			if !checkReplicationIO(succ, md, sink) {
				return false
			}
		}
		if isClusterOp && IsPlain(succ) {
			if !p.checkClusterSuccessor(succ, cluster, n, sink) {
				return false
			}
		}
		if !isClusterOp {
			if !checkNonClusterSuccessor(succ, n, sink) {
				return false
			}
		}
	}
	return true
}

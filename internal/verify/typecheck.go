package verify

import (
	"strings"

	"github.com/clementdevtech/tpuverify/internal/ir"
)

// mustNotBeAccelerator reports whether the node cannot be
// accelerator-compiled: some operand type is invalid for accelerator
// compilation and is not a resource reference, or some result type is
// invalid. A node failing this predicate may still be either.
func mustNotBeAccelerator(n *ir.Node) bool {
	for _, operand := range n.Operands() {
		t := operand.Type
		if !t.IsResource() && !t.ValidForXLA() {
			return true
		}
	}
	for _, result := range n.Results() {
		if !result.Type.ValidForXLA() {
			return true
		}
	}
	return false
}

// mustBeAccelerator reports whether the node is required to be
// accelerator-compiled: it belongs to a cluster with known metadata
// and either the cluster disallows soft placement and the node lacks
// an outside-compilation marker, or its device string names the
// accelerator.
func mustBeAccelerator(n *ir.Node, metadata MetadataMap) bool {
	cluster, ok := n.Cluster()
	if !ok {
		return false
	}
	md, ok := metadata[cluster]
	if !ok {
		return false
	}
	if !md.AllowSoftPlacement && !n.HasAttr(ir.AttrOutsideCompilation) {
		return true
	}
	device, ok := n.StrAttr(ir.AttrDevice)
	if !ok {
		return false
	}
	return strings.Contains(device, ir.AcceleratorDevice)
}

// checkAcceleratorExclusivity fails a node that is simultaneously
// required to be and forbidden from being accelerator-compiled.
// Replication/partition and metadata kinds are skipped
// unconditionally.
func checkAcceleratorExclusivity(n *ir.Node, metadata MetadataMap, sink Sink) bool {
	if n.Kind == ir.KindReplicateMetadata || isReplicationIO(n.Kind) {
		return true
	}
	if mustBeAccelerator(n, metadata) && mustNotBeAccelerator(n) {
		sink.Emit(errorDiag(n, CodeAcceleratorConflict,
			"found invalid op. Can't be both accelerator and non-accelerator"))
		return false
	}
	return true
}

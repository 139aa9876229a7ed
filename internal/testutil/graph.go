// Package testutil provides graph fixture builders shared by tests.
//
// The builders produce the module/func/graph scaffolding and the
// island wrapping that real graphs carry, so tests exercise the same
// one-level-of-indirection adjacency the loader produces.
package testutil

import (
	"fmt"

	"github.com/clementdevtech/tpuverify/internal/ir"
)

// BuildModule nests the given nodes inside module/func/graph
// scaffolding and returns the graph handle.
func BuildModule(nodes ...*ir.Node) *ir.Graph {
	graphNode := ir.NewNode("graph", ir.KindGraph).AddChildren(nodes...)
	fn := ir.NewNode("main", ir.KindFunc).AddChildren(graphNode)
	module := ir.NewNode("module", ir.KindModule).AddChildren(fn)
	return ir.NewGraph(module)
}

// Wrap nests a node inside an island wrapper and gives the island one
// forwarding result per inner result. Values flow out of the region
// through the wrapper, so consumers must be wired to the returned
// island results, not the inner node's own results.
func Wrap(id string, inner *ir.Node) *ir.Node {
	island := ir.NewNode(id, ir.KindIsland).AddChildren(inner)
	results := inner.Results()
	outs := make([]*ir.Value, len(results))
	for i, r := range results {
		outs[i] = ir.NewValue(r.Name+".out", r.Type)
	}
	island.SetResults(outs...)
	return island
}

// IslandResults returns an island's forwarding results for wiring
// consumers.
func IslandResults(island *ir.Node) []*ir.Value {
	return island.Results()
}

// Metadata builds a replicate-metadata node for a cluster.
func Metadata(id, cluster string, replicas, cores int64, softPlacement bool) *ir.Node {
	return ir.NewNode(id, ir.KindReplicateMetadata).
		SetStrAttr(ir.AttrCluster, cluster).
		SetIntAttr(ir.AttrNumReplicas, replicas).
		SetIntAttr(ir.AttrNumCoresPerReplica, cores).
		SetBoolAttr(ir.AttrAllowSoftPlacement, softPlacement)
}

// Values creates n external values named prefix0..prefixN-1 of the
// given type.
func Values(prefix string, t ir.TensorType, n int) []*ir.Value {
	vals := make([]*ir.Value, n)
	for i := range vals {
		vals[i] = ir.NewValue(fmt.Sprintf("%s%d", prefix, i), t)
	}
	return vals
}

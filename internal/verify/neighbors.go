package verify

import "github.com/clementdevtech/tpuverify/internal/ir"

// Successors returns the logical successors of a node wrapped in a
// region container. Values flow out of a region through the wrapper,
// not the wrapped node, so successors are the consumers of every value
// produced by the node's enclosing container.
func Successors(n *ir.Node) []*ir.Node {
	parent := n.Parent()
	if parent == nil {
		return nil
	}
	var succs []*ir.Node
	for _, result := range parent.Results() {
		succs = append(succs, result.Uses()...)
	}
	return succs
}

// Predecessors returns the logical predecessors of a node. For every
// operand with a defining node, the definition and every node nested
// inside it count as predecessors. This deliberately over-approximates
// adjacency: a value defined by a wrapper makes all of the wrapper's
// contents upstream. Operands with no defining node (externally
// supplied values) are skipped.
func Predecessors(n *ir.Node) []*ir.Node {
	var preds []*ir.Node
	for _, operand := range n.Operands() {
		def := operand.Def()
		if def == nil {
			continue
		}
		def.Walk(func(p *ir.Node) {
			preds = append(preds, p)
		})
	}
	return preds
}

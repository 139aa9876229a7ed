package ir

// Graph is a read-only handle to a module's node tree.
type Graph struct {
	module *Node
}

// NewGraph wraps a module root node.
func NewGraph(module *Node) *Graph {
	return &Graph{module: module}
}

// Module returns the root node.
func (g *Graph) Module() *Node { return g.module }

// Walk visits the module root and every nested node, pre-order.
// Traversal order is construction order and is stable across runs.
func (g *Graph) Walk(fn func(*Node)) {
	if g.module == nil {
		return
	}
	g.module.Walk(fn)
}

// Nodes returns every node in the graph in walk order.
func (g *Graph) Nodes() []*Node {
	var nodes []*Node
	g.Walk(func(n *Node) {
		nodes = append(nodes, n)
	})
	return nodes
}

// Find returns the node with the given ID, or nil.
func (g *Graph) Find(id string) *Node {
	var found *Node
	g.Walk(func(n *Node) {
		if found == nil && n.ID == id {
			found = n
		}
	})
	return found
}

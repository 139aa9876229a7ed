package ir

// Value is an SSA value: produced by at most one defining node and
// consumed by any number of users. Values with no defining node are
// external inputs (function arguments, captured values).
type Value struct {
	Name string
	Type TensorType

	def  *Node
	uses []*Node
}

// NewValue creates a detached value. It gains a definition when passed
// to Node.SetResults.
func NewValue(name string, t TensorType) *Value {
	return &Value{Name: name, Type: t}
}

// Def returns the defining node, or nil for external inputs.
func (v *Value) Def() *Node { return v.def }

// Uses returns the consuming nodes in the order the uses were wired.
// A node consuming the value through several operands appears once per
// operand.
func (v *Value) Uses() []*Node { return v.uses }

// Node is a single IR operation.
type Node struct {
	// ID uniquely names the node within its graph. Used for
	// diagnostics and test assertions.
	ID string

	// Kind is the registered operation kind, or KindUnregistered.
	Kind OpKind

	// RawKind holds the textual kind for unregistered nodes.
	RawKind string

	strs  map[string]string
	ints  map[string]int64
	bools map[string]bool

	operands []*Value
	results  []*Value
	children []*Node
	parent   *Node
}

// NewNode creates a node with no operands, results, or attributes.
func NewNode(id string, kind OpKind) *Node {
	return &Node{ID: id, Kind: kind}
}

// KindName returns a printable kind name, falling back to the raw
// textual kind for unregistered nodes.
func (n *Node) KindName() string {
	if n.Kind == KindUnregistered && n.RawKind != "" {
		return n.RawKind
	}
	return n.Kind.String()
}

// SetStrAttr sets a string attribute. Returns the node for chaining
// during construction.
func (n *Node) SetStrAttr(key, val string) *Node {
	if n.strs == nil {
		n.strs = make(map[string]string)
	}
	n.strs[key] = val
	return n
}

// SetIntAttr sets an integer attribute.
func (n *Node) SetIntAttr(key string, val int64) *Node {
	if n.ints == nil {
		n.ints = make(map[string]int64)
	}
	n.ints[key] = val
	return n
}

// SetBoolAttr sets a boolean attribute.
func (n *Node) SetBoolAttr(key string, val bool) *Node {
	if n.bools == nil {
		n.bools = make(map[string]bool)
	}
	n.bools[key] = val
	return n
}

// StrAttr returns a string attribute and whether it is present.
// Presence with an empty value is distinct from absence.
func (n *Node) StrAttr(key string) (string, bool) {
	v, ok := n.strs[key]
	return v, ok
}

// IntAttr returns an integer attribute and whether it is present.
func (n *Node) IntAttr(key string) (int64, bool) {
	v, ok := n.ints[key]
	return v, ok
}

// BoolAttr returns a boolean attribute and whether it is present.
func (n *Node) BoolAttr(key string) (bool, bool) {
	v, ok := n.bools[key]
	return v, ok
}

// HasAttr reports whether the node carries the attribute in any of the
// typed maps.
func (n *Node) HasAttr(key string) bool {
	if _, ok := n.strs[key]; ok {
		return true
	}
	if _, ok := n.ints[key]; ok {
		return true
	}
	_, ok := n.bools[key]
	return ok
}

// Cluster returns the node's cluster identifier attribute.
func (n *Node) Cluster() (string, bool) {
	return n.StrAttr(AttrCluster)
}

// SetOperands wires the node's operands and registers it as a user of
// each value.
func (n *Node) SetOperands(vals ...*Value) *Node {
	n.operands = vals
	for _, v := range vals {
		v.uses = append(v.uses, n)
	}
	return n
}

// SetResults wires the node's results and registers it as their
// definition.
func (n *Node) SetResults(vals ...*Value) *Node {
	n.results = vals
	for _, v := range vals {
		v.def = n
	}
	return n
}

// Operands returns the ordered operand values.
func (n *Node) Operands() []*Value { return n.operands }

// Results returns the ordered produced values.
func (n *Node) Results() []*Value { return n.results }

// AddChildren nests nodes inside this node and sets their parent.
func (n *Node) AddChildren(nodes ...*Node) *Node {
	for _, c := range nodes {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

// Children returns the directly nested nodes.
func (n *Node) Children() []*Node { return n.children }

// Parent returns the enclosing container node, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Walk visits the node and every node nested inside it, pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

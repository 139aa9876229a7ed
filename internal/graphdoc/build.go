package graphdoc

import (
	"fmt"

	"github.com/clementdevtech/tpuverify/internal/ir"
)

// BuildGraph resolves a parsed document into an ir.Graph. Resolution
// runs in two passes: every node and result value is declared first,
// then operands are wired, so definition order inside the document
// does not matter.
func BuildGraph(doc *Document) (*ir.Graph, error) {
	b := &builder{
		values: map[string]*ir.Value{},
		nodes:  map[string]*ir.Node{},
	}

	module := ir.NewNode(doc.Module.Name, ir.KindModule)
	for i := range doc.Module.Functions {
		fn, err := b.declareFunction(&doc.Module.Functions[i])
		if err != nil {
			return nil, err
		}
		module.AddChildren(fn)
	}
	for i := range doc.Module.Functions {
		if err := b.wireFunction(&doc.Module.Functions[i]); err != nil {
			return nil, err
		}
	}
	return ir.NewGraph(module), nil
}

type builder struct {
	values map[string]*ir.Value
	nodes  map[string]*ir.Node
}

func (b *builder) declareFunction(fn *FunctionDoc) (*ir.Node, error) {
	for _, in := range fn.Inputs {
		if _, err := b.declareValue(in); err != nil {
			return nil, err
		}
	}

	graphNode := ir.NewNode(fn.Name+".graph", ir.KindGraph)
	for i := range fn.Nodes {
		n, err := b.declareNode(&fn.Nodes[i])
		if err != nil {
			return nil, err
		}
		graphNode.AddChildren(n)
	}
	return ir.NewNode(fn.Name, ir.KindFunc).AddChildren(graphNode), nil
}

func (b *builder) declareNode(doc *NodeDoc) (*ir.Node, error) {
	if _, seen := b.nodes[doc.ID]; seen {
		return nil, &LoadError{
			Code:    ErrCodeBadDocument,
			Message: fmt.Sprintf("duplicate node id %q", doc.ID),
			Pos:     doc.Pos,
		}
	}

	kind, ok := ir.ParseKind(doc.Kind)
	n := ir.NewNode(doc.ID, kind)
	if !ok {
		n.RawKind = doc.Kind
	}
	b.nodes[doc.ID] = n

	for key, val := range doc.Strs {
		n.SetStrAttr(key, val)
	}
	for key, val := range doc.Ints {
		n.SetIntAttr(key, val)
	}
	for key, val := range doc.Bools {
		n.SetBoolAttr(key, val)
	}

	results := make([]*ir.Value, len(doc.Results))
	for i, port := range doc.Results {
		v, err := b.declareValue(port)
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	n.SetResults(results...)

	for i := range doc.Nodes {
		child, err := b.declareNode(&doc.Nodes[i])
		if err != nil {
			return nil, err
		}
		n.AddChildren(child)
	}
	return n, nil
}

func (b *builder) declareValue(port PortDoc) (*ir.Value, error) {
	if _, seen := b.values[port.Name]; seen {
		return nil, &LoadError{
			Code:    ErrCodeBadDocument,
			Message: fmt.Sprintf("value %q defined more than once", port.Name),
			Pos:     port.Pos,
		}
	}
	t, ok := ir.ParseType(port.Type)
	if !ok {
		return nil, &LoadError{
			Code:    ErrCodeBadDocument,
			Message: fmt.Sprintf("value %q has unknown type %q", port.Name, port.Type),
			Pos:     port.Pos,
		}
	}
	v := ir.NewValue(port.Name, t)
	b.values[port.Name] = v
	return v, nil
}

func (b *builder) wireFunction(fn *FunctionDoc) error {
	for i := range fn.Nodes {
		if err := b.wireNode(&fn.Nodes[i]); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) wireNode(doc *NodeDoc) error {
	n := b.nodes[doc.ID]
	operands := make([]*ir.Value, len(doc.Operands))
	for i, name := range doc.Operands {
		v, ok := b.values[name]
		if !ok {
			return &LoadError{
				Code:    ErrCodeBadDocument,
				Message: fmt.Sprintf("operand %q of node %q is not defined by any result or input", name, doc.ID),
				Pos:     doc.Pos,
			}
		}
		operands[i] = v
	}
	n.SetOperands(operands...)

	for i := range doc.Nodes {
		if err := b.wireNode(&doc.Nodes[i]); err != nil {
			return err
		}
	}
	return nil
}

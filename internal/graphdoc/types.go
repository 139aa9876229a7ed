// Package graphdoc loads accelerator graph documents written in CUE
// and builds the in-memory graphs the validation pass runs on.
//
// A document describes one module:
//
//	module: {
//		name: "cluster_demo"
//		functions: [{
//			name: "main"
//			inputs: [{name: "a0", type: "f32"}]
//			nodes: [{
//				id:   "meta"
//				kind: "tpu.replicate_metadata"
//				attrs: {"_tpu_replicate": "c0", num_replicas: 2}
//			}, ...]
//		}]
//	}
//
// Values are resolved by name: every node result defines a value, and
// operands reference values by the name that defined them. Names that
// appear under a function's inputs list are external values produced
// outside the document. An operand naming neither a result nor an
// input is a load error, never a silent dangling edge.
//
// Attribute names starting with an underscore must be quoted in the
// document. CUE treats bare underscore labels as hidden fields and
// drops them before the loader sees them.
package graphdoc

import "cuelang.org/go/cue/token"

// Document is the parsed form of a graph document, before any value
// resolution has happened.
type Document struct {
	Module ModuleDoc
}

// ModuleDoc holds the module header and its functions.
type ModuleDoc struct {
	Name      string
	Functions []FunctionDoc
}

// FunctionDoc is one function body: declared external inputs plus the
// top-level nodes of its graph region.
type FunctionDoc struct {
	Name   string
	Inputs []PortDoc
	Nodes  []NodeDoc
}

// PortDoc names a typed value, used for function inputs and node
// results.
type PortDoc struct {
	Name string
	Type string
	Pos  token.Pos
}

// NodeDoc is one operation in the document. Wrapper nodes (islands,
// while bodies) carry their region under Nodes and declare their own
// forwarding results explicitly.
type NodeDoc struct {
	ID       string
	Kind     string
	Operands []string
	Results  []PortDoc
	Nodes    []NodeDoc

	Strs  map[string]string
	Ints  map[string]int64
	Bools map[string]bool

	Pos token.Pos
}

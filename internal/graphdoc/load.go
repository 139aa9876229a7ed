package graphdoc

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/clementdevtech/tpuverify/internal/ir"
)

// Error codes for graph document loading.
const (
	ErrCodeNotFound    = "D001" // document file not found or unreadable
	ErrCodeCUE         = "D002" // CUE syntax or evaluation error
	ErrCodeBadDocument = "D003" // well-formed CUE, malformed document
)

// LoadError describes a failure while loading a graph document.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadFile reads a CUE graph document from disk and builds its graph.
func LoadFile(path string) (*ir.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("cannot read graph document: %v", err)}
	}
	return LoadBytes(data, path)
}

// LoadBytes compiles a CUE graph document and builds its graph. The
// filename only labels error positions.
func LoadBytes(data []byte, filename string) (*ir.Graph, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	doc, err := ParseDocument(v)
	if err != nil {
		return nil, err
	}
	return BuildGraph(doc)
}

// ParseDocument parses the document structure out of a compiled CUE
// value without resolving operand references.
func ParseDocument(v cue.Value) (*Document, error) {
	modVal := v.LookupPath(cue.ParsePath("module"))
	if !modVal.Exists() {
		return nil, &LoadError{Code: ErrCodeBadDocument, Message: "module is required", Pos: v.Pos()}
	}

	doc := &Document{}
	name, err := requiredString(modVal, "name")
	if err != nil {
		return nil, err
	}
	doc.Module.Name = name

	fnsVal := modVal.LookupPath(cue.ParsePath("functions"))
	if !fnsVal.Exists() {
		return nil, &LoadError{Code: ErrCodeBadDocument, Message: "module.functions is required", Pos: modVal.Pos()}
	}
	fnIter, err := fnsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for fnIter.Next() {
		fn, err := parseFunction(fnIter.Value())
		if err != nil {
			return nil, err
		}
		doc.Module.Functions = append(doc.Module.Functions, fn)
	}
	if len(doc.Module.Functions) == 0 {
		return nil, &LoadError{Code: ErrCodeBadDocument, Message: "module needs at least one function", Pos: modVal.Pos()}
	}
	return doc, nil
}

func parseFunction(v cue.Value) (FunctionDoc, error) {
	fn := FunctionDoc{}

	name, err := requiredString(v, "name")
	if err != nil {
		return fn, err
	}
	fn.Name = name

	inputsVal := v.LookupPath(cue.ParsePath("inputs"))
	if inputsVal.Exists() {
		fn.Inputs, err = parsePorts(inputsVal)
		if err != nil {
			return fn, err
		}
	}

	nodesVal := v.LookupPath(cue.ParsePath("nodes"))
	if !nodesVal.Exists() {
		return fn, &LoadError{Code: ErrCodeBadDocument, Message: fmt.Sprintf("function %q has no nodes", fn.Name), Pos: v.Pos()}
	}
	fn.Nodes, err = parseNodes(nodesVal)
	return fn, err
}

func parseNodes(v cue.Value) ([]NodeDoc, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var nodes []NodeDoc
	for iter.Next() {
		n, err := parseNode(iter.Value())
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func parseNode(v cue.Value) (NodeDoc, error) {
	n := NodeDoc{Pos: v.Pos()}

	id, err := requiredString(v, "id")
	if err != nil {
		return n, err
	}
	n.ID = id

	kind, err := requiredString(v, "kind")
	if err != nil {
		return n, err
	}
	n.Kind = kind

	opsVal := v.LookupPath(cue.ParsePath("operands"))
	if opsVal.Exists() {
		iter, err := opsVal.List()
		if err != nil {
			return n, formatCUEError(err)
		}
		for iter.Next() {
			name, err := iter.Value().String()
			if err != nil {
				return n, formatCUEError(err)
			}
			n.Operands = append(n.Operands, name)
		}
	}

	resVal := v.LookupPath(cue.ParsePath("results"))
	if resVal.Exists() {
		n.Results, err = parsePorts(resVal)
		if err != nil {
			return n, err
		}
	}

	attrsVal := v.LookupPath(cue.ParsePath("attrs"))
	if attrsVal.Exists() {
		if err := parseAttrs(attrsVal, &n); err != nil {
			return n, err
		}
	}

	nestedVal := v.LookupPath(cue.ParsePath("nodes"))
	if nestedVal.Exists() {
		n.Nodes, err = parseNodes(nestedVal)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// parseAttrs reads the attrs struct. Attribute values may be strings,
// integers, or booleans; anything else is rejected so graphs never
// carry attribute types the validator cannot compare.
func parseAttrs(v cue.Value, n *NodeDoc) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		key := iter.Label()
		fv := iter.Value()
		switch fv.Kind() {
		case cue.StringKind:
			s, err := fv.String()
			if err != nil {
				return formatCUEError(err)
			}
			if n.Strs == nil {
				n.Strs = map[string]string{}
			}
			n.Strs[key] = s
		case cue.IntKind:
			i, err := fv.Int64()
			if err != nil {
				return formatCUEError(err)
			}
			if n.Ints == nil {
				n.Ints = map[string]int64{}
			}
			n.Ints[key] = i
		case cue.BoolKind:
			b, err := fv.Bool()
			if err != nil {
				return formatCUEError(err)
			}
			if n.Bools == nil {
				n.Bools = map[string]bool{}
			}
			n.Bools[key] = b
		default:
			return &LoadError{
				Code:    ErrCodeBadDocument,
				Message: fmt.Sprintf("attribute %q of node %q must be a string, int, or bool", key, n.ID),
				Pos:     fv.Pos(),
			}
		}
	}
	return nil
}

func parsePorts(v cue.Value) ([]PortDoc, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var ports []PortDoc
	for iter.Next() {
		pv := iter.Value()
		name, err := requiredString(pv, "name")
		if err != nil {
			return nil, err
		}
		typ, err := requiredString(pv, "type")
		if err != nil {
			return nil, err
		}
		ports = append(ports, PortDoc{Name: name, Type: typ, Pos: pv.Pos()})
	}
	return ports, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &LoadError{Code: ErrCodeBadDocument, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// formatCUEError converts CUE SDK errors into LoadErrors carrying the
// first available position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: ErrCodeCUE, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: ErrCodeCUE, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

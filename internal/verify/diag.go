package verify

import (
	"fmt"

	"github.com/clementdevtech/tpuverify/internal/ir"
)

// Diagnostic codes (V100-V139)
const (
	// Attribute diagnostics (V100-V109)
	CodeEmptyClusterAttr    = "V100" // cluster attr present but empty
	CodeMissingClusterAttr  = "V101" // neighbor missing propagated cluster attr
	CodeClusterAttrMismatch = "V102" // neighbor carries wrong cluster attr

	// Arity diagnostics (V110-V119)
	CodePackedArity  = "V110" // packed input arity must be 1
	CodeReplicaArity = "V111" // arity must equal num_replicas
	CodeCoreArity    = "V112" // arity must equal num_cores_per_replica

	// Boundary diagnostics (V120-V129)
	CodeClusterMismatch     = "V120" // adjacent cluster nodes disagree on cluster
	CodeOpenClusterBoundary = "V121" // plain successor carries no cluster attr
	CodeReplicatedInputAdj  = "V122" // non-cluster node fed by replicated input
	CodeReplicatedOutputAdj = "V123" // non-cluster node feeding replicated output

	// Type-class diagnostics (V130-V139)
	CodeAcceleratorConflict = "V130" // must-be and must-not-be accelerator at once
)

// Severity of a diagnostic. Warnings do not fail the verdict.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic names one violated rule on one node.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Node     string   `json:"node"`
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s %s (%s): %s", d.Code, d.Severity, d.Node, d.Kind, d.Message)
}

// Sink receives diagnostics as checks emit them.
type Sink interface {
	Emit(Diagnostic)
}

// Collector is a Sink that accumulates diagnostics in emission order.
type Collector struct {
	diags []Diagnostic
}

// Emit implements Sink.
func (c *Collector) Emit(d Diagnostic) {
	c.diags = append(c.diags, d)
}

// Diagnostics returns the accumulated diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}

func errorDiag(n *ir.Node, code, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Node:     n.ID,
		Kind:     n.KindName(),
		Message:  fmt.Sprintf(format, args...),
	}
}

func warningDiag(n *ir.Node, code, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Node:     n.ID,
		Kind:     n.KindName(),
		Message:  fmt.Sprintf(format, args...),
	}
}

// Report is the stage's aggregate output: one verdict plus every
// diagnostic emitted during the run.
type Report struct {
	RunID       string       `json:"run_id"`
	Verdict     bool         `json:"verdict"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// ErrorCount returns the number of error-severity diagnostics.
func (r *Report) ErrorCount() int {
	count := 0
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-severity diagnostics.
func (r *Report) WarningCount() int {
	count := 0
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// MarshalCanonical renders the report as deterministic JSON for golden
// comparison and archive storage.
func (r *Report) MarshalCanonical() ([]byte, error) {
	diags := make([]any, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		diags[i] = map[string]any{
			"severity": string(d.Severity),
			"code":     d.Code,
			"node":     d.Node,
			"kind":     d.Kind,
			"message":  d.Message,
		}
	}
	doc := map[string]any{
		"run_id":      r.RunID,
		"verdict":     r.Verdict,
		"diagnostics": diags,
	}
	return ir.MarshalCanonical(doc)
}

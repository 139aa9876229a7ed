// Package verify implements the structural-validation stage that runs
// before replicated/partitioned accelerator lowering.
//
// The stage confirms that graph-topology and attribute invariants
// required by the downstream lowering actually hold, and reports
// failure with per-node diagnostics when they do not.
//
// ARCHITECTURE:
//
// Two traversals, strictly read-only:
//  1. Collecting: one full walk builds the cluster-metadata index.
//     No failure is possible in this phase.
//  2. Checking: one full walk runs the cluster-IO and boundary checks
//     on every plain node and the accelerator-exclusivity check on
//     every intersection-candidate node. Results AND-reduce into a
//     single verdict; the walk never stops early, so one run reports
//     every violation in the graph.
//
// The only shared state is the pair of immutable classification sets,
// built at package init and never modified. The stage holds no other
// state across runs: re-running on an unchanged graph yields an
// identical verdict and diagnostic sequence.
//
// Expected violations are diagnostics, never Go errors. Check
// functions return a success flag and emit to the Sink; the driver
// fails atomically at the end.
package verify

// Package ir provides the graph intermediate representation consumed by
// the validation stage.
//
// This package contains the graph data model only: node kinds, nodes,
// SSA values with def/use edges, nested wrapper containers, and typed
// attributes. All other internal packages import ir; ir imports nothing
// internal. This ensures IR remains the foundational layer with no
// circular dependencies.
//
// Key design constraints:
//   - The kind enum is closed; unknown textual kinds map to
//     KindUnregistered and keep their raw name for diagnostics.
//   - Attribute presence is distinct from attribute emptiness. A node
//     may carry a cluster attribute whose value is empty; the
//     validation stage treats that as a hard error, so the IR must be
//     able to represent it.
//   - Nodes and values are read-only for the duration of a validation
//     run. Construction happens up front (loader or test builder);
//     validators only traverse.
package ir

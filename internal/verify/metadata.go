package verify

import "github.com/clementdevtech/tpuverify/internal/ir"

// ClusterMetadata is one cluster's replication/partition record,
// collected from its metadata node.
type ClusterMetadata struct {
	// Cluster is the canonical cluster-identifier attribute value that
	// member nodes must carry.
	Cluster string

	NumReplicas        int64
	NumCoresPerReplica int64
	AllowSoftPlacement bool
}

// MetadataMap indexes cluster metadata by cluster identifier. Entries
// are value types: validators receive a snapshot they cannot mutate in
// place.
type MetadataMap map[string]ClusterMetadata

// CollectMetadata builds the cluster-metadata index in one traversal.
// No validation happens here; a missing entry later means "no
// cluster-level check is runnable" rather than an error.
//
// If two metadata nodes declare the same cluster identifier, the later
// one observed wins silently.
func CollectMetadata(g *ir.Graph) MetadataMap {
	m := make(MetadataMap)
	g.Walk(func(n *ir.Node) {
		if n.Kind != ir.KindReplicateMetadata {
			return
		}
		cluster, _ := n.Cluster()
		md := ClusterMetadata{
			Cluster:            cluster,
			NumReplicas:        1,
			NumCoresPerReplica: 1,
		}
		if v, ok := n.IntAttr(ir.AttrNumReplicas); ok {
			md.NumReplicas = v
		}
		if v, ok := n.IntAttr(ir.AttrNumCoresPerReplica); ok {
			md.NumCoresPerReplica = v
		}
		if v, ok := n.BoolAttr(ir.AttrAllowSoftPlacement); ok {
			md.AllowSoftPlacement = v
		}
		m[cluster] = md
	})
	return m
}

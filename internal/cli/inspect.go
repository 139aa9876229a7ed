package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clementdevtech/tpuverify/internal/graphdoc"
	"github.com/clementdevtech/tpuverify/internal/ir"
	"github.com/clementdevtech/tpuverify/internal/verify"
)

// KindCount is one entry of the kind census.
type KindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// ClusterInfo summarizes one cluster found in the document.
type ClusterInfo struct {
	Name               string `json:"name"`
	NumReplicas        int64  `json:"num_replicas"`
	NumCoresPerReplica int64  `json:"num_cores_per_replica"`
	AllowSoftPlacement bool   `json:"allow_soft_placement"`
	Nodes              int    `json:"nodes"`
}

// InspectResult is the structural census of a graph document.
type InspectResult struct {
	Module       string        `json:"module"`
	Nodes        int           `json:"nodes"`
	Kinds        []KindCount   `json:"kinds"`
	Unregistered []string      `json:"unregistered,omitempty"`
	Clusters     []ClusterInfo `json:"clusters,omitempty"`
}

func (r InspectResult) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "module %s: %d nodes\n", r.Module, r.Nodes)
	for _, kc := range r.Kinds {
		fmt.Fprintf(&buf, "  %-32s %d\n", kc.Kind, kc.Count)
	}
	if len(r.Unregistered) > 0 {
		fmt.Fprintf(&buf, "unregistered kinds: %s\n", strings.Join(r.Unregistered, ", "))
	}
	for _, c := range r.Clusters {
		fmt.Fprintf(&buf, "cluster %s: replicas=%d cores_per_replica=%d soft_placement=%v nodes=%d\n",
			c.Name, c.NumReplicas, c.NumCoresPerReplica, c.AllowSoftPlacement, c.Nodes)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <graph.cue>",
		Short: "Summarize a graph document without validating it",
		Long: `Load a graph document and print a structural census: node counts
per kind, unregistered kinds, and the clusters declared by
replicate-metadata nodes.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runInspect(opts *RootOptions, graphPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	g, err := graphdoc.LoadFile(graphPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	return formatter.Success(inspectGraph(g))
}

func inspectGraph(g *ir.Graph) InspectResult {
	result := InspectResult{Module: g.Module().ID}

	kindCounts := map[string]int{}
	clusterNodes := map[string]int{}
	unregistered := map[string]bool{}

	g.Walk(func(n *ir.Node) {
		result.Nodes++
		kindCounts[n.KindName()]++
		if n.Kind == ir.KindUnregistered {
			unregistered[n.KindName()] = true
		}
		if cluster, ok := n.Cluster(); ok && cluster != "" {
			clusterNodes[cluster]++
		}
	})

	for kind, count := range kindCounts {
		result.Kinds = append(result.Kinds, KindCount{Kind: kind, Count: count})
	}
	sort.Slice(result.Kinds, func(i, j int) bool { return result.Kinds[i].Kind < result.Kinds[j].Kind })

	for kind := range unregistered {
		result.Unregistered = append(result.Unregistered, kind)
	}
	sort.Strings(result.Unregistered)

	metadata := verify.CollectMetadata(g)
	clusters := make([]string, 0, len(metadata))
	for name := range metadata {
		clusters = append(clusters, name)
	}
	sort.Strings(clusters)
	for _, name := range clusters {
		md := metadata[name]
		result.Clusters = append(result.Clusters, ClusterInfo{
			Name:               name,
			NumReplicas:        md.NumReplicas,
			NumCoresPerReplica: md.NumCoresPerReplica,
			AllowSoftPlacement: md.AllowSoftPlacement,
			Nodes:              clusterNodes[name],
		})
	}
	return result
}

package retrieval

import (
	"sort"

	"doctoolkit/internal/graph"
)

// Config controls how neighbourhood subgraphs are extracted.
type Config struct {
	MaxHops      int
	AllowedKinds map[graph.RelationKind]bool // nil allows every kind
}

func DefaultConfig() Config {
	return Config{MaxHops: 1}
}

// Subgraph is the part of the documentation graph within MaxHops of the
// seeds, following edges in both directions.
type Subgraph struct {
	MaxHops int
	SeedIDs []string
	NodeIDs []string
	Depths  map[string]int
	Edges   []graph.Edge
}

// Extract walks outward from seeds. Seeds missing from g are ignored.
func Extract(g *graph.Graph, seeds []string, cfg Config) *Subgraph {
	if cfg.MaxHops < 0 {
		cfg.MaxHops = 0
	}
	sg := &Subgraph{MaxHops: cfg.MaxHops, Depths: map[string]int{}}
	if g == nil {
		return sg
	}

	seedSet := make(map[string]bool)
	for _, id := range seeds {
		if _, ok := g.Nodes[id]; ok {
			seedSet[id] = true
		}
	}
	sg.SeedIDs = sortedKeys(seedSet)
	if len(sg.SeedIDs) == 0 {
		return sg
	}

	adj := make(map[string][]edgeHop)
	for _, e := range g.Edges {
		if len(cfg.AllowedKinds) > 0 && !cfg.AllowedKinds[e.Kind] {
			continue
		}
		adj[e.From] = append(adj[e.From], edgeHop{to: e.To, edge: e})
		adj[e.To] = append(adj[e.To], edgeHop{to: e.From, edge: e})
	}

	queue := make([]queueItem, 0, len(sg.SeedIDs))
	for _, id := range sg.SeedIDs {
		sg.Depths[id] = 0
		queue = append(queue, queueItem{id: id})
	}

	edgeSeen := make(map[graph.Edge]bool)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= cfg.MaxHops {
			continue
		}

		for _, next := range adj[cur.id] {
			if !edgeSeen[next.edge] {
				edgeSeen[next.edge] = true
				sg.Edges = append(sg.Edges, next.edge)
			}
			// unresolved targets have no node
			if _, ok := g.Nodes[next.to]; !ok {
				continue
			}
			nextDepth := cur.depth + 1
			prev, seen := sg.Depths[next.to]
			if !seen || nextDepth < prev {
				sg.Depths[next.to] = nextDepth
				queue = append(queue, queueItem{id: next.to, depth: nextDepth})
			}
		}
	}

	sg.NodeIDs = sortedKeys(sg.Depths)
	sort.Slice(sg.Edges, func(i, j int) bool {
		a, b := sg.Edges[i], sg.Edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Kind < b.Kind
	})
	return sg
}

type queueItem struct {
	id    string
	depth int
}

type edgeHop struct {
	to   string
	edge graph.Edge
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

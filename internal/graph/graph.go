package graph

import (
	"sort"

	"doctoolkit/internal/metadata"
)

// Node represents a vertex in the documentation graph.
type Node struct {
	Symbol *Symbol
}

// Edge represents a directed relationship between two nodes.
type Edge struct {
	From string // Source code reference
	To   string // Target code reference
	Kind RelationKind
}

// Graph manages nodes and their relationships.
type Graph struct {
	Nodes      map[string]*Node
	Edges      []Edge
	Unresolved []Unresolved

	// Overload-group name -> IDs, used to resolve crefs written without a
	// parameter list or without a kind prefix.
	nameIndex map[string][]string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:     make(map[string]*Node),
		Edges:     []Edge{},
		nameIndex: make(map[string][]string),
	}
}

// AddSymbol adds or merges a node. Relations accumulate; a documented or
// extension flag set once stays set.
func (g *Graph) AddSymbol(s *Symbol) {
	if s == nil || s.ID == "" {
		return
	}
	if existing, ok := g.Nodes[s.ID]; ok {
		e := existing.Symbol
		if e.Kind == KindDoc && s.Kind != KindDoc {
			e.Kind, e.Name, e.Owner, e.Assembly = s.Kind, s.Name, s.Owner, s.Assembly
		}
		e.Documented = e.Documented || s.Documented
		e.Extension = e.Extension || s.Extension
		e.Relations = append(e.Relations, s.Relations...)
		return
	}
	g.Nodes[s.ID] = &Node{Symbol: s}
	g.index(s.ID)
}

// AddRelation records a relation on an existing node.
func (g *Graph) AddRelation(from string, rel Relation) {
	if n, ok := g.Nodes[from]; ok {
		n.Symbol.Relations = append(n.Symbol.Relations, rel)
	}
}

func (g *Graph) index(id string) {
	group := metadata.StripParameters(id)
	g.nameIndex[group] = append(g.nameIndex[group], id)
	if _, name := metadata.SplitCodeRef(group); name != group {
		g.nameIndex[name] = append(g.nameIndex[name], id)
	}
}

// RebuildIndices recomputes the name index from Nodes.
func (g *Graph) RebuildIndices() {
	g.nameIndex = make(map[string][]string)
	for _, id := range g.SortedIDs() {
		g.index(id)
	}
}

// SortedIDs returns node IDs in lexical order.
func (g *Graph) SortedIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LinkRelations resolves every relation target to a node. Targets matching
// no node or more than one are recorded in Unresolved.
func (g *Graph) LinkRelations() {
	g.Edges = []Edge{} // Reset edges
	g.Unresolved = nil
	seen := make(map[Edge]bool)

	for _, sourceID := range g.SortedIDs() {
		for _, rel := range g.Nodes[sourceID].Symbol.Relations {
			targets := g.resolveTarget(rel.Target)
			switch len(targets) {
			case 0:
				g.Unresolved = append(g.Unresolved, Unresolved{
					From: sourceID, Target: rel.Target, Kind: rel.Kind, Reason: ReasonNoCandidate,
				})
			case 1:
				e := Edge{From: sourceID, To: targets[0], Kind: rel.Kind}
				if !seen[e] {
					seen[e] = true
					g.Edges = append(g.Edges, e)
				}
			default:
				g.Unresolved = append(g.Unresolved, Unresolved{
					From: sourceID, Target: rel.Target, Kind: rel.Kind, Reason: ReasonAmbiguous, Candidates: targets,
				})
			}
		}
	}
}

// resolveTarget finds potential target IDs for a code reference.
func (g *Graph) resolveTarget(target string) []string {
	// 1. Exact code reference
	if _, ok := g.Nodes[target]; ok {
		return []string{target}
	}

	prefix, name := metadata.SplitCodeRef(target)
	if prefix == metadata.PrefixError {
		return nil
	}

	// 2. Unprefixed reference: try each member kind
	if prefix == "" {
		var ids []string
		for _, p := range []string{metadata.PrefixType, metadata.PrefixMethod, metadata.PrefixProperty, metadata.PrefixField} {
			if _, ok := g.Nodes[p+name]; ok {
				ids = append(ids, p+name)
			}
		}
		if len(ids) > 0 {
			return ids
		}
	}

	// 3. Overload group, e.g. M:Sample.Widget.Resize for every Resize
	if target == metadata.StripParameters(target) {
		return g.nameIndex[target]
	}
	return nil
}

// GetDependencies returns all nodes that the given node depends on.
func (g *Graph) GetDependencies(id string) []*Node {
	var deps []*Node
	for _, edge := range g.Edges {
		if edge.From == id {
			if node, ok := g.Nodes[edge.To]; ok {
				deps = append(deps, node)
			}
		}
	}
	return deps
}

// GetDependents returns all nodes that depend on the given node.
func (g *Graph) GetDependents(id string) []*Node {
	var deps []*Node
	for _, edge := range g.Edges {
		if edge.To == id {
			if node, ok := g.Nodes[edge.From]; ok {
				deps = append(deps, node)
			}
		}
	}
	return deps
}

// EdgesFrom returns the outgoing edges of id with the given kind.
func (g *Graph) EdgesFrom(id string, kind RelationKind) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.From == id && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

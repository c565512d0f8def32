package analysis

import (
	"doctoolkit/internal/graph"
)

// ImpactReport summarizes the documentation affected by changed members.
type ImpactReport struct {
	DirectlyAffected   []*graph.Node
	IndirectlyAffected []*graph.Node
	Unknown            []string
}

// Analyzer performs impact analysis on the documentation graph.
type Analyzer struct {
	g     *graph.Graph
	kinds map[graph.RelationKind]bool
}

// NewAnalyzer creates an analyzer that follows inherits_doc and references
// edges backwards.
func NewAnalyzer(g *graph.Graph) *Analyzer {
	return &Analyzer{
		g: g,
		kinds: map[graph.RelationKind]bool{
			graph.RelationInheritsDoc: true,
			graph.RelationReferences:  true,
		},
	}
}

// AnalyzeImpact identifies which entries must be regenerated when the
// documentation of the given code references changes: the entries
// themselves, and every entry that inherits from or links to them,
// transitively.
func (a *Analyzer) AnalyzeImpact(changed []string) (*ImpactReport, error) {
	report := &ImpactReport{
		DirectlyAffected:   []*graph.Node{},
		IndirectlyAffected: []*graph.Node{},
	}

	seenDirect := make(map[string]bool)
	seenIndirect := make(map[string]bool)

	// 1. Find Direct Impacts
	for _, id := range changed {
		node, ok := a.g.Nodes[id]
		if !ok {
			report.Unknown = append(report.Unknown, id)
			continue
		}
		if !seenDirect[id] {
			report.DirectlyAffected = append(report.DirectlyAffected, node)
			seenDirect[id] = true
		}
	}

	// 2. Find Indirect Impacts, breadth first
	dependents := a.dependents()
	queue := make([]string, 0, len(report.DirectlyAffected))
	for _, n := range report.DirectlyAffected {
		queue = append(queue, n.Symbol.ID)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, dep := range dependents[id] {
			if seenDirect[dep] || seenIndirect[dep] {
				continue
			}
			seenIndirect[dep] = true
			report.IndirectlyAffected = append(report.IndirectlyAffected, a.g.Nodes[dep])
			queue = append(queue, dep)
		}
	}

	return report, nil
}

func (a *Analyzer) dependents() map[string][]string {
	out := make(map[string][]string)
	for _, e := range a.g.Edges {
		if !a.kinds[e.Kind] {
			continue
		}
		if _, ok := a.g.Nodes[e.From]; !ok {
			continue
		}
		out[e.To] = append(out[e.To], e.From)
	}
	return out
}

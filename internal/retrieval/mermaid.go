package retrieval

import (
	"fmt"
	"strings"

	"doctoolkit/internal/graph"
)

// Mermaid renders sg as a left-to-right flowchart. Nodes are labelled with
// their code reference; seeds are highlighted.
func (sg *Subgraph) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("graph LR\n")

	ids := make(map[string]string, len(sg.NodeIDs))
	for i, id := range sg.NodeIDs {
		ids[id] = fmt.Sprintf("n%d", i)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", ids[id], mermaidLabel(id)))
	}
	for _, e := range sg.Edges {
		from, ok1 := ids[e.From]
		to, ok2 := ids[e.To]
		if !ok1 || !ok2 {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s %s|%s| %s\n", from, arrow(e.Kind), e.Kind, to))
	}
	if len(sg.SeedIDs) > 0 {
		sb.WriteString("    classDef seed stroke-width:3px\n")
		seeds := make([]string, 0, len(sg.SeedIDs))
		for _, id := range sg.SeedIDs {
			seeds = append(seeds, ids[id])
		}
		sb.WriteString(fmt.Sprintf("    class %s seed\n", strings.Join(seeds, ",")))
	}
	sb.WriteString("```\n")
	return sb.String()
}

func arrow(kind graph.RelationKind) string {
	switch kind {
	case graph.RelationInheritsDoc:
		return "-.->"
	case graph.RelationExtends:
		return "==>"
	default:
		return "-->"
	}
}

func mermaidLabel(v string) string {
	return strings.NewReplacer(`"`, "#quot;", "<", "#lt;", ">", "#gt;").Replace(v)
}

package analysis

import (
	"testing"

	"doctoolkit/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(nodes []*graph.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Symbol.ID)
	}
	return out
}

func TestAnalyzer_AnalyzeImpact(t *testing.T) {
	g := graph.NewGraph()
	g.AddSymbol(&graph.Symbol{ID: "T:Sample.Shape"})
	g.AddSymbol(&graph.Symbol{ID: "M:Sample.Shape.Area", Relations: []graph.Relation{
		{Target: "T:Sample.Shape", Kind: graph.RelationBelongsTo},
	}})
	g.AddSymbol(&graph.Symbol{ID: "M:Sample.Circle.Area", Relations: []graph.Relation{
		{Target: "M:Sample.Shape.Area", Kind: graph.RelationInheritsDoc},
	}})
	g.AddSymbol(&graph.Symbol{ID: "M:Sample.Ring.Area", Relations: []graph.Relation{
		{Target: "M:Sample.Circle.Area", Kind: graph.RelationInheritsDoc},
	}})
	g.AddSymbol(&graph.Symbol{ID: "T:Sample.Guide", Relations: []graph.Relation{
		{Target: "M:Sample.Ring.Area", Kind: graph.RelationReferences},
		{Target: "M:Sample.Shape.Area", Kind: graph.RelationReferences},
	}})
	g.LinkRelations()

	report, err := NewAnalyzer(g).AnalyzeImpact([]string{"M:Sample.Shape.Area", "M:Sample.Shape.Area", "M:Sample.Nope"})
	require.NoError(t, err)

	assert.Equal(t, []string{"M:Sample.Shape.Area"}, ids(report.DirectlyAffected))
	assert.ElementsMatch(t, []string{"M:Sample.Circle.Area", "M:Sample.Ring.Area", "T:Sample.Guide"}, ids(report.IndirectlyAffected))
	assert.Equal(t, []string{"M:Sample.Nope"}, report.Unknown)

	t.Run("Belongs-to edges do not propagate", func(t *testing.T) {
		report, err := NewAnalyzer(g).AnalyzeImpact([]string{"T:Sample.Shape"})
		require.NoError(t, err)
		assert.Empty(t, report.IndirectlyAffected)
	})
}

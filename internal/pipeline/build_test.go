package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"doctoolkit/internal/config"
	"doctoolkit/internal/graph"
	"doctoolkit/internal/storage"
	"doctoolkit/internal/xmldoc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

// sampleProject lays out the shared fixtures as a project tree.
func sampleProject(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	copyFile(t, "../metadata/testdata/sample.meta.yaml", filepath.Join(root, "meta", "Sample.Library.meta.yaml"))
	copyFile(t, "../xmldoc/testdata/Sample.Library.xml", filepath.Join(root, "xml", "Sample.Library.xml"))
	copyFile(t, "../xmldoc/testdata/shared.xml", filepath.Join(root, "xml", "shared", "shared.xml"))

	// shared.xml is only reachable through include directives; keep it out
	// of the scanned inputs by pointing the include at the subdirectory.
	doc := filepath.Join(root, "xml", "Sample.Library.xml")
	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	data = []byte(strings.ReplaceAll(string(data), `file="shared.xml"`, `file="shared/shared.xml"`))
	require.NoError(t, os.WriteFile(doc, data, 0o644))

	cfg := config.Default()
	cfg.Project.Root = root
	cfg.Inputs.Metadata = []string{"meta"}
	cfg.Inputs.Docs = []string{filepath.Join("xml", "*.xml")}
	return cfg
}

func newTestBuilder(cfg *config.Config) *Builder {
	b := NewBuilder(cfg, nil)
	b.Out = io.Discard
	return b
}

func TestBuilder_Build(t *testing.T) {
	cfg := sampleProject(t)

	model, report, err := newTestBuilder(cfg).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.MetadataFiles)
	assert.Equal(t, 1, report.DocFiles)
	assert.Equal(t, 1, report.Assemblies)
	assert.Equal(t, 7, report.DocEntries)
	assert.Equal(t, 2, report.InheritResolved)
	assert.Equal(t, 1, report.IncludesResolved)
	assert.Equal(t, 1, report.ExtensionContainers)
	assert.Equal(t, 3, report.ExtensionMembers, "Describe, Size and the classic Pair")
	assert.Equal(t, len(model.Graph.Edges), report.Edges)

	doc, ok := model.Docs.Member("M:Sample.Circle.Area")
	require.True(t, ok)
	assert.Equal(t, "Computes the area.", doc.Summary)

	assert.Contains(t, model.Graph.Edges, graph.Edge{
		From: "M:Sample.Circle.Area", To: "M:Sample.Shape.Area", Kind: graph.RelationInheritsDoc,
	})
}

func TestBuilder_Build_MissingInclude(t *testing.T) {
	cfg := sampleProject(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.Project.Root, "xml", "shared", "shared.xml")))

	t.Run("Reported", func(t *testing.T) {
		_, report, err := newTestBuilder(cfg).Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, report.MissingIncludeFiles)
	})

	t.Run("Fail fast", func(t *testing.T) {
		cfg.Docs.FailOnMissingInclude = true
		_, _, err := newTestBuilder(cfg).Build(context.Background())
		assert.ErrorIs(t, err, xmldoc.ErrIncludeFileNotFound)
	})
}

func TestBuilder_Build_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newTestBuilder(sampleProject(t)).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPersist(t *testing.T) {
	model, _, err := newTestBuilder(sampleProject(t)).Build(context.Background())
	require.NoError(t, err)

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "doctoolkit.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, Persist(ctx, store, model))

	doc, err := store.GetDoc(ctx, "T:Sample.Circle")
	require.NoError(t, err)
	assert.Equal(t, "A round shape.", doc.Summary)

	exts, err := store.Extensions(ctx)
	require.NoError(t, err)
	require.Len(t, exts, 3)

	var describe *storage.ExtensionRecord
	for i := range exts {
		if exts[i].Name == "Describe" {
			describe = &exts[i]
		}
	}
	require.NotNil(t, describe)
	assert.Equal(t, "M:Sample.SampleExtensions.Describe(Sample.SampleType)", describe.CodeRef)
	assert.Equal(t, "Sample.SampleType", describe.ExtendedType)
	assert.Equal(t, "T:Sample.SampleExtensions", describe.Container)
	assert.Equal(t, "<M>$AB12", describe.Block)
	assert.False(t, describe.Static)

	g, err := store.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(model.Graph.Nodes), len(g.Nodes))
}

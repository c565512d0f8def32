package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"doctoolkit/internal/config"
	"doctoolkit/internal/crawler"
	"doctoolkit/internal/extension"
	"doctoolkit/internal/graph"
	"doctoolkit/internal/metadata"
	"doctoolkit/internal/xmldoc"

	"github.com/charmbracelet/log"
)

// Model is the result of one documentation run.
type Model struct {
	Registry   *metadata.Registry
	Docs       *xmldoc.Repository
	Extensions []*extension.ContainerInfo
	Graph      *graph.Graph
}

type Report struct {
	MetadataFiles       int
	DocFiles            int
	Assemblies          int
	Types               int
	Members             int
	DocEntries          int
	ExtensionContainers int
	ExtensionMembers    int
	InheritResolved     int
	InheritUnresolved   int
	IncludesResolved    int
	MissingIncludeFiles int
	MissingIncludePaths int
	Edges               int
	Unresolved          int
	Duration            time.Duration
}

// Builder runs crawl, load, import, resolve and link for one project.
type Builder struct {
	Config *config.Config
	Logger *log.Logger
	Out    io.Writer // progress lines
}

func NewBuilder(cfg *config.Config, logger *log.Logger) *Builder {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Builder{Config: cfg, Logger: logger, Out: os.Stdout}
}

func (b *Builder) Build(ctx context.Context) (*Model, *Report, error) {
	start := time.Now()
	report := &Report{}
	metaRoots, docRoots := b.Config.InputRoots()
	c := crawler.NewCrawler()

	reg, err := b.loadMetadataStage(ctx, c, metaRoots, report)
	if err != nil {
		return nil, nil, err
	}

	docs, err := b.importDocsStage(ctx, c, docRoots, reg, report)
	if err != nil {
		return nil, nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	containers := b.extensionStage(reg, report)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	g := b.graphStage(reg, docs, containers, report)

	report.Duration = time.Since(start)
	b.progress("✅ Build finished in %v.\n", report.Duration.Round(time.Millisecond))
	return &Model{Registry: reg, Docs: docs, Extensions: containers, Graph: g}, report, nil
}

func (b *Builder) loadMetadataStage(ctx context.Context, c *crawler.Crawler, roots []string, report *Report) (*metadata.Registry, error) {
	reg, err := metadata.NewRegistry()
	if err != nil {
		return nil, err
	}
	err = c.Scan(roots, crawler.KindMetadata, func(f crawler.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		a, err := metadata.LoadFile(f.Path)
		if err != nil {
			return err
		}
		if err := reg.Add(a); err != nil {
			return fmt.Errorf("failed to register %s: %w", f.Path, err)
		}
		report.MetadataFiles++
		b.logger().Debug("loaded metadata", "file", f.Path, "assembly", a.Name, "types", len(a.AllTypes()))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("metadata stage failed: %w", err)
	}

	report.Assemblies = len(reg.Assemblies())
	report.Types = len(reg.Types())
	report.Members = len(reg.Members())
	b.progress("📦 Loaded %d assemblies (%d types, %d members) from %d files.\n",
		report.Assemblies, report.Types, report.Members, report.MetadataFiles)
	return reg, nil
}

func (b *Builder) importDocsStage(ctx context.Context, c *crawler.Crawler, roots []string, reg *metadata.Registry, report *Report) (*xmldoc.Repository, error) {
	opts := []xmldoc.Option{
		xmldoc.WithInheritanceSource(reg),
		xmldoc.WithLogger(b.Logger),
	}
	if !b.Config.Docs.FailOnMissingInclude {
		opts = append(opts, xmldoc.WithErrorHandler(xmldoc.NewLogHandler(b.Logger)))
	}
	docs := xmldoc.NewRepository(opts...)

	err := c.Scan(roots, crawler.KindDocs, func(f crawler.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := docs.ImportFile(f.Path); err != nil {
			return err
		}
		report.DocFiles++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("docs stage failed: %w", err)
	}

	docs.ResolveAll()
	stats := docs.Stats()
	report.DocEntries = stats.Entries
	report.InheritResolved = stats.InheritResolved
	report.InheritUnresolved = stats.InheritUnresolved
	report.IncludesResolved = stats.IncludesResolved
	report.MissingIncludeFiles = stats.MissingIncludeFiles
	report.MissingIncludePaths = stats.MissingIncludePaths

	b.progress("📝 Imported %d documentation entries from %d files.\n", report.DocEntries, report.DocFiles)
	b.progress("  -> inheritdoc resolved: %d, unresolved: %d, includes inlined: %d\n",
		report.InheritResolved, report.InheritUnresolved, report.IncludesResolved)
	return docs, nil
}

func (b *Builder) extensionStage(reg *metadata.Registry, report *Report) []*extension.ContainerInfo {
	containers := extension.NewCache().Scan(reg.Types())
	report.ExtensionContainers = len(containers)
	for _, info := range containers {
		report.ExtensionMembers += len(info.Members())
		b.logger().Debug("extension container", "type", info.Container().FullName(),
			"blocks", len(info.Blocks()), "members", len(info.Members()))
	}
	b.progress("🧩 Found %d extension members in %d containers.\n", report.ExtensionMembers, report.ExtensionContainers)
	return containers
}

func (b *Builder) graphStage(reg *metadata.Registry, docs *xmldoc.Repository, containers []*extension.ContainerInfo, report *Report) *graph.Graph {
	g := graph.NewGraph()
	for _, m := range reg.Members() {
		g.AddMember(m)
	}
	for _, info := range containers {
		for _, m := range info.Members() {
			g.AddExtension(m)
		}
	}
	for _, ref := range docs.CodeRefs() {
		if doc, ok := docs.Member(ref); ok {
			g.AddDoc(doc)
		}
	}
	for _, r := range docs.Resolutions() {
		g.AddResolution(r)
	}
	g.LinkRelations()

	report.Edges = len(g.Edges)
	report.Unresolved = len(g.Unresolved)
	b.progress("📊 Graph: %d nodes, %d edges, %d unresolved references.\n", len(g.Nodes), report.Edges, report.Unresolved)
	for reason, n := range g.UnresolvedReasonCounts() {
		b.logger().Debug("unresolved references", "reason", reason, "count", n)
	}
	for kind, n := range g.EdgeKindCounts() {
		b.logger().Debug("edges", "kind", kind, "count", n)
	}
	return g
}

func (b *Builder) progress(format string, args ...any) {
	if b.Out != nil {
		fmt.Fprintf(b.Out, format, args...)
	}
}

func (b *Builder) logger() *log.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return log.New(io.Discard)
}

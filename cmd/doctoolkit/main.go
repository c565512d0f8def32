package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"doctoolkit/internal/analysis"
	"doctoolkit/internal/config"
	"doctoolkit/internal/git"
	"doctoolkit/internal/graph"
	"doctoolkit/internal/pipeline"
	"doctoolkit/internal/retrieval"
	"doctoolkit/internal/storage"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "doctoolkit",
		Short:         "Build API documentation models from assembly metadata and XML docs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	configPath string
	dbPath     string
	logLevel   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the config file")
	// Empty means the configured storage.db_path
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the documentation database (SQLite)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	extensionsCmd.Flags().String("type", "", "Only list extensions of this type (full name)")
	showCmd.Flags().Bool("summary", false, "Print the summary text instead of the XML entry")
	impactCmd.Flags().String("since", "", "Also treat entries in documentation files changed since this git ref as changed")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(extensionsCmd)
	graphCmd.Flags().Int("hops", retrieval.DefaultConfig().MaxHops, "Relations to follow outward from each member")
	graphCmd.Flags().StringSlice("kind", nil, "Only follow these relation kinds (belongs_to, references, inherits_doc, extends)")

	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(graphCmd)
}

// loadConfig applies command-line overrides on top of the config file.
func loadConfig() (*config.Config, *log.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "doctoolkit"})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	logger.SetLevel(level)
	return cfg, logger, nil
}

// initStore opens the configured SQLite store.
func initStore() (*storage.SQLiteStore, *log.Logger, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database %s: %w", cfg.Storage.DBPath, err)
	}
	logger.Debug("opened database", "path", cfg.Storage.DBPath)
	return store, logger, nil
}

var buildCmd = &cobra.Command{
	Use:   "build [root]",
	Short: "Load metadata and documentation, resolve it and store the result",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg.Project.Root = args[0]
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "📂 Building documentation model for: %s\n", cfg.Project.Root)

		builder := pipeline.NewBuilder(cfg, logger)
		builder.Out = out

		ctx := cmd.Context()
		model, report, err := builder.Build(ctx)
		if err != nil {
			return err
		}

		store, err := storage.NewSQLiteStore(cfg.Storage.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()

		if err := pipeline.Persist(ctx, store, model); err != nil {
			return err
		}

		fmt.Fprintf(out, "💾 Saved %d members, %d docs and %d extension members to %s\n",
			report.Members, report.DocEntries, report.ExtensionMembers, cfg.Storage.DBPath)
		if report.InheritUnresolved > 0 || report.MissingIncludeFiles > 0 || report.MissingIncludePaths > 0 {
			fmt.Fprintf(out, "⚠️  %d unresolved inheritdoc, %d missing include files, %d unmatched include paths\n",
				report.InheritUnresolved, report.MissingIncludeFiles, report.MissingIncludePaths)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <codeRef>",
	Short: "Print the resolved documentation of one member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := initStore()
		if err != nil {
			return err
		}
		defer store.Close()

		doc, err := store.GetDoc(cmd.Context(), args[0])
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no documentation for %s (run `doctoolkit build` first?)", args[0])
		}
		if err != nil {
			return err
		}

		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			fmt.Fprintln(cmd.OutOrStdout(), doc.Summary)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(doc.XML))
		return nil
	},
}

var extensionsCmd = &cobra.Command{
	Use:   "extensions",
	Short: "List extension members grouped by extended type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := initStore()
		if err != nil {
			return err
		}
		defer store.Close()

		exts, err := store.Extensions(cmd.Context())
		if err != nil {
			return err
		}
		only, _ := cmd.Flags().GetString("type")

		out := cmd.OutOrStdout()
		current := ""
		count := 0
		for _, e := range exts {
			if only != "" && e.ExtendedType != only {
				continue
			}
			if e.ExtendedType != current {
				current = e.ExtendedType
				fmt.Fprintf(out, "🧩 %s\n", current)
			}
			kind := e.Kind
			if e.Static {
				kind = "static " + kind
			}
			block := e.Block
			if block == "" {
				block = "classic"
			}
			fmt.Fprintf(out, "  - %s %s  [%s, %s]\n", kind, e.Name, block, e.Container)
			count++
		}
		if count == 0 {
			fmt.Fprintln(out, "No extension members found.")
		}
		return nil
	},
}

var impactCmd = &cobra.Command{
	Use:   "impact [codeRef]...",
	Short: "List documentation entries affected by changes to the given members",
	RunE: func(cmd *cobra.Command, args []string) error {
		since, _ := cmd.Flags().GetString("since")
		if len(args) == 0 && since == "" {
			return errors.New("impact needs at least one code reference or --since")
		}

		store, logger, err := initStore()
		if err != nil {
			return err
		}
		defer store.Close()

		changed := args
		if since != "" {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			diff, err := git.GetChangedFiles(cmd.Context(), cfg.Project.Root, since)
			if err != nil {
				return err
			}
			refs, err := analysis.ChangedCodeRefs(cfg.Project.Root, git.Filter(diff, ".xml"))
			if err != nil {
				return err
			}
			logger.Info("changed entries", "since", since, "count", len(refs))
			changed = append(changed, refs...)
		}

		g, err := store.LoadGraph(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load graph: %w", err)
		}

		report, err := analysis.NewAnalyzer(g).AnalyzeImpact(changed)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, id := range report.Unknown {
			fmt.Fprintf(out, "❓ Unknown: %s\n", id)
		}
		fmt.Fprintf(out, "🎯 Directly affected: %d\n", len(report.DirectlyAffected))
		for _, n := range report.DirectlyAffected {
			fmt.Fprintf(out, "  - %s\n", n.Symbol.ID)
		}
		fmt.Fprintf(out, "🌊 Indirectly affected: %d\n", len(report.IndirectlyAffected))
		for _, n := range report.IndirectlyAffected {
			fmt.Fprintf(out, "  - %s\n", n.Symbol.ID)
		}
		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph <codeRef>...",
	Short: "Print the relations around the given members as a Mermaid diagram",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := initStore()
		if err != nil {
			return err
		}
		defer store.Close()

		g, err := store.LoadGraph(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load graph: %w", err)
		}

		cfg := retrieval.DefaultConfig()
		cfg.MaxHops, _ = cmd.Flags().GetInt("hops")
		kinds, _ := cmd.Flags().GetStringSlice("kind")
		if len(kinds) > 0 {
			cfg.AllowedKinds = make(map[graph.RelationKind]bool, len(kinds))
			for _, k := range kinds {
				cfg.AllowedKinds[graph.RelationKind(k)] = true
			}
		}

		sg := retrieval.Extract(g, args, cfg)
		if len(sg.SeedIDs) == 0 {
			return fmt.Errorf("no documented member matches %s", strings.Join(args, ", "))
		}
		fmt.Fprint(cmd.OutOrStdout(), sg.Mermaid())
		return nil
	},
}

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphscape/graphscape/pkg/pipeline"
	"github.com/graphscape/graphscape/pkg/scene"
	"github.com/graphscape/graphscape/pkg/source"
)

// =============================================================================
// Shared Source Flags
// =============================================================================

// runFlags holds the flags shared by commands that execute the pipeline.
type runFlags struct {
	config        string
	csvPaths      []string
	parquetPaths  []string
	neo4jURI      string
	neo4jUsername string
	neo4jPassword string
	neo4jQuery    string
	output        string
	noCache       bool
	refresh       bool
}

// addRunFlags registers the source, cache, and output flags on cmd.
func addRunFlags(cmd *cobra.Command, rf *runFlags) {
	cmd.Flags().StringVarP(&rf.config, "config", "c", "", "TOML run configuration file")
	cmd.Flags().StringArrayVar(&rf.csvPaths, "csv", nil, "CSV edge table (repeatable)")
	cmd.Flags().StringArrayVar(&rf.parquetPaths, "parquet", nil, "Parquet edge table (repeatable)")
	cmd.Flags().StringVar(&rf.neo4jURI, "neo4j-uri", "", "Neo4j bolt URI (e.g. bolt://localhost:7687)")
	cmd.Flags().StringVar(&rf.neo4jUsername, "neo4j-username", "", "Neo4j username")
	cmd.Flags().StringVar(&rf.neo4jPassword, "neo4j-password", "", "Neo4j password")
	cmd.Flags().StringVar(&rf.neo4jQuery, "neo4j-query", "", "Cypher query returning source, target, type columns")
	cmd.Flags().StringVarP(&rf.output, "output", "o", "graph", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&rf.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&rf.refresh, "refresh", false, "bypass cached results and recompute")
}

// loadConfig loads the TOML config when --config was given.
func (rf *runFlags) loadConfig() (*Config, error) {
	if rf.config == "" {
		return nil, nil
	}
	return LoadConfig(rf.config)
}

// buildSources assembles sources from flags followed by config entries.
func (rf *runFlags) buildSources(cfg *Config) ([]source.Source, error) {
	var sources []source.Source
	for _, path := range rf.csvPaths {
		sources = append(sources, &source.CSVFile{Path: path})
	}
	for _, path := range rf.parquetPaths {
		sources = append(sources, &source.ParquetFile{Path: path})
	}
	if rf.neo4jURI != "" {
		sources = append(sources, &source.Neo4jSource{
			URI:      rf.neo4jURI,
			Username: rf.neo4jUsername,
			Password: rf.neo4jPassword,
			Query:    rf.neo4jQuery,
		})
	}
	if cfg != nil {
		fromConfig, err := cfg.BuildSources()
		if err != nil {
			return nil, err
		}
		sources = append(sources, fromConfig...)
	}
	return sources, nil
}

// =============================================================================
// Render Command
// =============================================================================

// renderCommand creates the render command: the full ingest, layout, and
// render pipeline in one invocation.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		rf         runFlags
		formatsStr string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Ingest sources and render graph artifacts",
		Long: `Ingest edge tables, normalize them into a directed graph, compute a
deterministic force-directed layout, and render the requested artifacts.

Sources can be given as flags (--csv, --parquet, --neo4j-uri) or declared in
a TOML config (--config). When no source yields data, a small sample graph is
rendered so the output pipeline can still be exercised.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatsStr != "" {
				opts.Formats = parseFormats(formatsStr)
			}
			return c.runPipeline(withLogger(cmd.Context(), c.Logger), &rf, opts)
		},
	}

	addRunFlags(cmd, &rf)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): html (default), json, svg, png, dot, csv (comma-separated)")
	cmd.Flags().IntVarP(&opts.Dimensions, "dimensions", "d", 0, "layout dimensions: 2 (default) or 3")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "layout random seed (default 42)")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", 0, "layout iterations (default depends on dimensions)")
	cmd.Flags().IntVar(&opts.NodeLimit, "limit", 0, "maximum number of nodes (default 1000)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "graph title shown in artifacts")
	cmd.Flags().Float64Var(&opts.MinSize, "min-size", 0, "smallest node size in pixels (default 15)")
	cmd.Flags().Float64Var(&opts.MaxSize, "max-size", 0, "largest node size in pixels (default 35)")

	return cmd
}

// runPipeline executes the full pipeline and writes the resulting artifacts.
func (c *CLI) runPipeline(ctx context.Context, rf *runFlags, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	cfg, err := rf.loadConfig()
	if err != nil {
		return err
	}
	if cfg != nil {
		cfg.ApplyTo(&opts)
	}
	if len(opts.Formats) == 0 {
		opts.Formats = parseFormats("")
	}

	sources, err := rf.buildSources(cfg)
	if err != nil {
		return err
	}
	opts.Sources = sources
	opts.Refresh = rf.refresh
	opts.Logger = logger

	runner, err := c.newRunner(rf.noCache, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Rendering graph...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	logger.Debugf("Run %s complete", result.RunID)

	title := opts.Title
	if title == "" {
		title = pipeline.DefaultTitle
	}
	printSuccess("Rendered %s", title)
	if result.Stats.Placeholder {
		printWarning("No source data available, rendered sample graph")
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)

	paths, err := writeArtifacts(result.Artifacts, rf.output)
	if err != nil {
		return err
	}
	for _, path := range paths {
		printFile(path)
	}
	prog.done(fmt.Sprintf("Wrote %d artifact(s)", len(paths)))

	for _, path := range paths {
		if filepath.Ext(path) == ".html" {
			printNewline()
			printNextStep("Open the graph", "open "+path)
			break
		}
	}
	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactExtensions maps pipeline artifact keys to file extensions.
var artifactExtensions = map[string]string{
	pipeline.FormatHTML:       ".html",
	pipeline.FormatJSON:       ".json",
	pipeline.FormatSVG:        ".svg",
	pipeline.FormatPNG:        ".png",
	pipeline.FormatDOT:        ".dot",
	pipeline.ArtifactCSVNodes: ".nodes.csv",
	pipeline.ArtifactCSVEdges: ".edges.csv",
}

// writeArtifacts writes each rendered artifact next to the output base path
// and returns the written paths in sorted order. When exactly one artifact
// was produced and output already carries an extension, it is used verbatim.
func writeArtifacts(artifacts map[string][]byte, output string) ([]string, error) {
	keys := make([]string, 0, len(artifacts))
	for key := range artifacts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	base := output
	if ext := filepath.Ext(output); ext != "" {
		base = strings.TrimSuffix(output, ext)
	}

	paths := make([]string, 0, len(keys))
	for _, key := range keys {
		ext, ok := artifactExtensions[key]
		if !ok {
			ext = "." + key
		}
		path := base + ext
		if len(keys) == 1 && filepath.Ext(output) != "" {
			path = output
		}
		if err := scene.WriteArtifact(path, artifacts[key]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

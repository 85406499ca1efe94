// Package pipeline provides the core visualization pipeline for Graphscape.
//
// This package implements the complete ingest → build → layout → render
// pipeline shared by every entry point, so CLI commands and embedding
// callers get identical behavior and caching.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Ingest: Read configured sources and normalize them into one edge set
//  2. Build: Construct the immutable in-memory graph with degrees
//  3. Layout: Compute deterministic force-directed positions
//  4. Render: Style the graph and emit artifacts in the requested formats
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Sources: []source.Source{&source.CSVFile{Path: "edges.csv"}},
//	    Formats: []string{"html"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["html"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphscape/graphscape/pkg/cache"
	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/kgraph"
	"github.com/graphscape/graphscape/pkg/layout"
	"github.com/graphscape/graphscape/pkg/scene"
	"github.com/graphscape/graphscape/pkg/source"
	"github.com/graphscape/graphscape/pkg/style"
)

// =============================================================================
// Default Values - Single Source of Truth for Every Entry Point
// =============================================================================

const (
	// DefaultDimensions renders flat 2D layouts unless 3D is requested.
	DefaultDimensions = 2

	// DefaultNodeLimit caps graph size before layout. Larger graphs are
	// truncated to their first-seen prefix.
	DefaultNodeLimit = 1000

	// DefaultSeed is the layout seed for reproducible runs.
	DefaultSeed = int64(42)

	// DefaultTitle labels artifacts when no title is configured.
	DefaultTitle = "Knowledge Graph"
)

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatCSV  = "csv"
)

// CSV output produces two artifacts under these keys.
const (
	ArtifactCSVNodes = "csv:nodes"
	ArtifactCSVEdges = "csv:edges"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatJSON: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatCSV:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for job payloads.
type Options struct {
	// Ingest options
	NodeLimit int  `json:"node_limit,omitempty"`
	Refresh   bool `json:"refresh,omitempty"`

	// Layout options
	Dimensions int   `json:"dimensions,omitempty"`
	Seed       int64 `json:"seed,omitempty"`
	Iterations int   `json:"iterations,omitempty"`

	// Render options
	Title   string   `json:"title,omitempty"`
	Formats []string `json:"formats,omitempty"`
	MinSize float64  `json:"min_size,omitempty"`
	MaxSize float64  `json:"max_size,omitempty"`

	// Runtime options (not serialized)
	Sources []source.Source `json:"-"`
	Logger  *log.Logger     `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string

	// Graph is the built knowledge graph.
	Graph *kgraph.Graph

	// EdgeSetHash is the content hash of the normalized edge set.
	EdgeSetHash string

	// Scene is the styled, positioned scene the artifacts were rendered from.
	Scene *scene.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	Placeholder bool
	IngestTime  time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	IngestHit bool // Whether the edge set came from cache
	LayoutHit bool // Whether coordinates came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: html, json, svg, png, dot, csv)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDimensions checks that a dimension count is renderable.
func ValidateDimensions(dimensions int) error {
	if dimensions != 2 && dimensions != 3 {
		return errors.New(errors.ErrCodeInvalidDimensions,
			"invalid dimensions: %d (must be 2 or 3)", dimensions)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent - calling it multiple times has the
// same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetIngestDefaults()
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetIngestDefaults sets default values for ingestion.
func (o *Options) SetIngestDefaults() {
	if o.NodeLimit == 0 {
		o.NodeLimit = DefaultNodeLimit
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Dimensions == 0 {
		o.Dimensions = DefaultDimensions
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Iterations == 0 {
		if o.Dimensions == 3 {
			o.Iterations = layout.DefaultIterations3D
		} else {
			o.Iterations = layout.DefaultIterations2D
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return ValidateDimensions(o.Dimensions)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.MinSize == 0 {
		o.MinSize = style.DefaultMinSize
	}
	if o.MaxSize == 0 {
		o.MaxSize = style.DefaultMaxSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateDimensions(o.Dimensions); err != nil {
		return err
	}
	if o.MaxSize <= o.MinSize {
		return errors.New(errors.ErrCodeInvalidInput,
			"max size %.1f must exceed min size %.1f", o.MaxSize, o.MinSize)
	}
	return ValidateFormats(o.Formats)
}

// LayoutConfig returns the layout engine configuration for these options.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		Dimensions: o.Dimensions,
		Seed:       o.Seed,
		Iterations: o.Iterations,
	}
}

// EdgeSetKeyOpts returns cache key options for edge set ingestion.
func (o *Options) EdgeSetKeyOpts() cache.EdgeSetKeyOpts {
	return cache.EdgeSetKeyOpts{
		NodeLimit: o.NodeLimit,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Dimensions: o.Dimensions,
		Seed:       o.Seed,
		Iterations: o.Iterations,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		MinSize: o.MinSize,
		MaxSize: o.MaxSize,
		Title:   o.Title,
	}
}

package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/graphscape/graphscape/pkg/cache"
	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/kgraph"
	"github.com/graphscape/graphscape/pkg/layout"
	"github.com/graphscape/graphscape/pkg/observability"
	"github.com/graphscape/graphscape/pkg/scene"
	"github.com/graphscape/graphscape/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete ingest → build → layout → render pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Ingest
	ingestStart := time.Now()
	observability.Pipeline().OnIngestStart(ctx, len(opts.Sources))
	edgeSet, ingestHit, err := r.IngestWithCacheInfo(ctx, opts)
	result.Stats.IngestTime = time.Since(ingestStart)
	observability.Pipeline().OnIngestComplete(ctx, len(edgeSet.Edges), result.Stats.IngestTime, err)
	if err != nil {
		return nil, err
	}
	result.CacheInfo.IngestHit = ingestHit
	result.Stats.Placeholder = edgeSet.Placeholder

	if data, err := json.Marshal(edgeSet); err == nil {
		result.EdgeSetHash = cache.Hash(data)
	}

	r.Logger.Info("ingested sources",
		"edges", len(edgeSet.Edges),
		"placeholder", edgeSet.Placeholder,
		"duration", result.Stats.IngestTime)

	// Stage 2: Build
	g := kgraph.Build(edgeSet.Edges, edgeSet.NodeAttrs, opts.NodeLimit, opts.Logger)
	result.Graph = g
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	// Stage 3: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Dimensions, g.NodeCount())
	coords, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, result.EdgeSetHash, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Dimensions, result.Stats.LayoutTime, err)
	if err != nil {
		return nil, err
	}
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", g.NodeCount(),
		"dimensions", opts.Dimensions,
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	s, artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, coords, result.EdgeSetHash, result.RunID, edgeSet.Placeholder, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Scene = s
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// IngestWithCacheInfo reads and normalizes sources with caching and returns
// cache hit info.
func (r *Runner) IngestWithCacheInfo(ctx context.Context, opts Options) (source.EdgeSet, bool, error) {
	opts.SetIngestDefaults()
	r.applyLogger(&opts)

	cacheKey := r.Keyer.EdgeSetKey(sourceFingerprint(opts.Sources), opts.EdgeSetKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached source.EdgeSet
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "edgeset")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "edgeset")
	}

	edgeSet, err := source.Ingest(ctx, opts.Sources, opts.Logger)
	if err != nil {
		return source.EdgeSet{}, false, err
	}

	// Placeholder edge sets are never cached: the next run should retry
	// the real sources.
	if !edgeSet.Placeholder {
		if data, err := json.Marshal(edgeSet); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLEdgeSet)
			observability.Cache().OnCacheSet(ctx, "edgeset", len(data))
		}
	}

	return edgeSet, false, nil
}

// Ingest is a convenience wrapper that discards the cache hit info.
func (r *Runner) Ingest(ctx context.Context, opts Options) (source.EdgeSet, error) {
	edgeSet, _, err := r.IngestWithCacheInfo(ctx, opts)
	return edgeSet, err
}

// LayoutWithCacheInfo computes coordinates with caching and returns cache
// hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *kgraph.Graph, edgeSetHash string, opts Options) (layout.Coordinates, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(edgeSetHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Coordinates
			if err := json.Unmarshal(data, &cached); err == nil && len(cached) == g.NodeCount() {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	coords, err := layout.Layout(g, opts.LayoutConfig())
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(coords); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return coords, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g *kgraph.Graph, edgeSetHash string, opts Options) (layout.Coordinates, error) {
	coords, _, err := r.LayoutWithCacheInfo(ctx, g, edgeSetHash, opts)
	return coords, err
}

// RenderWithCacheInfo builds the scene and renders artifacts with caching.
// The artifact cache key is derived from the edge set and coordinate
// content, never the run ID, so repeated runs over identical inputs hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *kgraph.Graph, coords layout.Coordinates, edgeSetHash, runID string, placeholder bool, opts Options) (*scene.Scene, map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	s, err := scene.Build(g, coords, scene.Config{
		RunID:       runID,
		Title:       opts.Title,
		Dimensions:  opts.Dimensions,
		MinSize:     opts.MinSize,
		MaxSize:     opts.MaxSize,
		Placeholder: placeholder,
	})
	if err != nil {
		return nil, nil, false, err
	}

	coordData, err := json.Marshal(coords)
	if err != nil {
		return nil, nil, false, errors.Wrap(errors.ErrCodeInternal, err, "failed to hash coordinates")
	}
	contentHash := cache.Hash(append([]byte(edgeSetHash), coordData...))

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		keys := artifactKeys(format)
		for _, artifactName := range keys {
			cacheKey := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(artifactName))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[artifactName] = data
			} else {
				allCached = false
			}
		}
		if !allCached {
			break
		}
	}
	if allCached {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return s, artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := RenderScene(ctx, s, g, opts)
	if err != nil {
		return nil, nil, false, err
	}

	for artifactName, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(artifactName))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return s, rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// sourceFingerprint identifies the configured source list for cache keys.
func sourceFingerprint(sources []source.Source) string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	data, _ := json.Marshal(names)
	return cache.Hash(data)
}

// artifactKeys maps a requested format to the artifact map keys it
// produces. CSV fans out into separate node and edge tables.
func artifactKeys(format string) []string {
	if format == FormatCSV {
		return []string{ArtifactCSVNodes, ArtifactCSVEdges}
	}
	return []string{format}
}

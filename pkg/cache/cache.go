// Package cache provides pluggable caching for pipeline stage results.
//
// Cache keys are content-addressed: every key embeds a SHA-256 hash of the
// inputs that produced the value, so stale entries are structurally
// unreachable and TTLs only bound disk growth. The FileCache backend serves
// single-machine CLI usage; RedisCache shares results between runs on
// different hosts.
package cache

import (
	"context"
	"time"
)

// TTLs per stage. Ingested edge sets expire quickly because the underlying
// sources change out-of-band; layouts and artifacts are pure functions of
// their hashed inputs, so their TTL only limits disk usage.
const (
	TTLEdgeSet  = 15 * time.Minute
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry TTLs.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes an entry; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// EdgeSetKeyOpts captures the ingest inputs that affect the edge set.
type EdgeSetKeyOpts struct {
	NodeLimit int `json:"node_limit"`
}

// LayoutKeyOpts captures the layout parameters that affect coordinates.
type LayoutKeyOpts struct {
	Dimensions int   `json:"dimensions"`
	Seed       int64 `json:"seed"`
	Iterations int   `json:"iterations"`
}

// ArtifactKeyOpts captures the styling parameters that affect rendered
// artifacts.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	MinSize float64 `json:"min_size"`
	MaxSize float64 `json:"max_size"`
	Title   string  `json:"title"`
}

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// EdgeSetKey keys a normalized edge set by a fingerprint of the
	// configured sources.
	EdgeSetKey(sourceFingerprint string, opts EdgeSetKeyOpts) string
	// LayoutKey keys computed coordinates by the edge set content hash.
	LayoutKey(edgeSetHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered artifact by the layout content hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes stage inputs into fixed-width keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// EdgeSetKey implements Keyer.
func (k *DefaultKeyer) EdgeSetKey(sourceFingerprint string, opts EdgeSetKeyOpts) string {
	return hashKey("edgeset", sourceFingerprint, opts)
}

// LayoutKey implements Keyer.
func (k *DefaultKeyer) LayoutKey(edgeSetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", edgeSetHash, opts)
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Package kgraph implements the in-memory directed graph model for one
// visualization run.
//
// A Graph is built once from a normalized edge set, computes node degrees
// after the full edge set is known, and is never mutated afterwards. No
// cross-run identity is preserved: every pipeline invocation builds a fresh
// Graph from scratch.
package kgraph

import (
	"maps"

	"github.com/charmbracelet/log"
)

// Reserved attribute keys. These are promoted to typed Node fields during
// Build and are not part of the open attribute map.
const (
	KeyName     = "name"
	KeyCategory = "category"
	KeyDegree   = "degree"
)

// Internal-only attribute keys that must never surface in tooltips or
// exported artifacts (raw embedding vectors from the extraction backend).
var internalKeys = map[string]bool{
	"embedding": true,
	"vector":    true,
}

// IsInternalKey reports whether an attribute key is internal-only and must
// be suppressed from exported artifacts.
func IsInternalKey(key string) bool { return internalKeys[key] }

// DefaultEdgeType is assigned to edges whose source data carries no
// relationship label.
const DefaultEdgeType = "related"

// DefaultCategory is assigned to nodes with no resolvable category.
const DefaultCategory = "unknown"

// maxNameLength bounds the length of attribute values considered as a
// fallback display name.
const maxNameLength = 100

// Attrs stores arbitrary key-value pairs attached to nodes or edges.
// Attrs maps are never nil on built graphs.
type Attrs map[string]any

// EdgeRecord is one normalized relationship as produced by the source
// adapter: non-empty string endpoints, a type label, and an open attribute
// map for everything the synonym table did not claim.
type EdgeRecord struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	Attrs  Attrs  `json:"attrs,omitempty"`
}

// NodeRecord carries externally supplied attributes for a node, merged by
// ID during Build. Records referencing nodes that no edge touches are
// ignored (nodes exist only when referenced by an edge).
type NodeRecord struct {
	ID    string `json:"id"`
	Attrs Attrs  `json:"attrs,omitempty"`
}

// Node is a vertex in the built graph. Name and Category are resolved from
// attributes during Build; Degree counts incident edges (in + out, self-
// loops twice) and is immutable once the graph is built.
type Node struct {
	ID       string
	Name     string
	Category string
	Degree   int
	Attrs    Attrs
}

// Edge is a directed relationship between two nodes of the built graph.
type Edge struct {
	Source string
	Target string
	Type   string
	Attrs  Attrs
}

// Graph owns the node and edge sets for the duration of one visualization
// run. It is immutable after Build and therefore safe for concurrent
// readers (e.g. a 2D and a 3D layout running over the same graph).
type Graph struct {
	nodes     map[string]*Node
	order     []string // node IDs in first-seen edge order
	edges     []Edge
	neighbors map[string][]string
	cats      []string // distinct categories in first-seen order
	types     []string // distinct edge types in first-seen order
}

// Build constructs a Graph from normalized edge records and optional node
// attribute records.
//
// Nodes are created lazily when first referenced by an edge, in edge order
// (source before target). If limit > 0 and more distinct nodes are
// referenced, the first `limit` nodes by first-seen order are retained and
// the induced subgraph on that node set is returned; the truncation is
// logged as a lossy operation.
func Build(edges []EdgeRecord, nodeAttrs []NodeRecord, limit int, logger *log.Logger) *Graph {
	if logger == nil {
		logger = log.Default()
	}

	g := &Graph{
		nodes:     make(map[string]*Node),
		neighbors: make(map[string][]string),
	}

	attrsByID := make(map[string]Attrs, len(nodeAttrs))
	for _, rec := range nodeAttrs {
		if rec.ID == "" {
			continue
		}
		if existing, ok := attrsByID[rec.ID]; ok {
			maps.Copy(existing, rec.Attrs)
			continue
		}
		merged := make(Attrs, len(rec.Attrs))
		maps.Copy(merged, rec.Attrs)
		attrsByID[rec.ID] = merged
	}

	// First pass: discover nodes in first-seen order.
	for _, e := range edges {
		g.ensureNode(e.Source, attrsByID)
		g.ensureNode(e.Target, attrsByID)
	}

	// Truncate to a deterministic first-seen prefix if over the limit.
	if limit > 0 && len(g.order) > limit {
		logger.Warn("node limit exceeded, truncating graph",
			"nodes", len(g.order),
			"limit", limit)
		for _, id := range g.order[limit:] {
			delete(g.nodes, id)
		}
		g.order = g.order[:limit]
	}

	// Second pass: keep edges whose endpoints survived, accumulate degrees.
	for _, e := range edges {
		src, okS := g.nodes[e.Source]
		dst, okD := g.nodes[e.Target]
		if !okS || !okD {
			continue
		}
		typ := e.Type
		if typ == "" {
			typ = DefaultEdgeType
		}
		attrs := e.Attrs
		if attrs == nil {
			attrs = Attrs{}
		}
		g.edges = append(g.edges, Edge{Source: e.Source, Target: e.Target, Type: typ, Attrs: attrs})
		src.Degree++
		dst.Degree++
		g.neighbors[e.Source] = append(g.neighbors[e.Source], e.Target)
		g.neighbors[e.Target] = append(g.neighbors[e.Target], e.Source)
	}

	// Resolve display names, categories, and category/type catalogs.
	seenCat := make(map[string]bool)
	for _, id := range g.order {
		n := g.nodes[id]
		n.Name = resolveName(n)
		n.Category = resolveCategory(n)
		if !seenCat[n.Category] {
			seenCat[n.Category] = true
			g.cats = append(g.cats, n.Category)
		}
	}
	seenType := make(map[string]bool)
	for _, e := range g.edges {
		if !seenType[e.Type] {
			seenType[e.Type] = true
			g.types = append(g.types, e.Type)
		}
	}

	return g
}

// ensureNode registers an endpoint the first time it is referenced.
func (g *Graph) ensureNode(id string, attrsByID map[string]Attrs) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	attrs := Attrs{}
	if ext, ok := attrsByID[id]; ok {
		maps.Copy(attrs, ext)
	}
	g.nodes[id] = &Node{ID: id, Attrs: attrs}
	g.order = append(g.order, id)
}

// resolveName picks a display name: the reserved "name" attribute, else a
// short descriptive string attribute (scanned in a fixed key order so ties
// break deterministically), else the node ID.
func resolveName(n *Node) string {
	if v, ok := n.Attrs[KeyName].(string); ok && v != "" {
		return v
	}
	// Deterministic fallback scan: prefer common descriptive keys.
	for _, key := range []string{"title", "label", "description"} {
		if v, ok := n.Attrs[key].(string); ok && v != "" && len(v) < maxNameLength {
			return v
		}
	}
	return n.ID
}

// resolveCategory picks a category: the reserved "category" attribute, a
// "type" attribute, or the first label of a semicolon-joined "labels"
// attribute; "unknown" otherwise.
func resolveCategory(n *Node) string {
	if v, ok := n.Attrs[KeyCategory].(string); ok && v != "" {
		return v
	}
	if v, ok := n.Attrs["type"].(string); ok && v != "" {
		return v
	}
	if v, ok := n.Attrs["labels"].(string); ok && v != "" {
		for i := 0; i < len(v); i++ {
			if v[i] == ';' {
				return v[:i]
			}
		}
		return v
	}
	return DefaultCategory
}

// Nodes returns all nodes in first-seen order. The returned slice is fresh
// but the node pointers refer to graph-owned values; callers must treat
// them as read-only.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Degree returns the total incident edge count for a node, or 0 if the
// node does not exist. Self-loops count twice.
func (g *Graph) Degree(id string) int {
	if n, ok := g.nodes[id]; ok {
		return n.Degree
	}
	return 0
}

// Degrees returns a fresh map of node ID to degree for every node.
func (g *Graph) Degrees() map[string]int {
	degrees := make(map[string]int, len(g.nodes))
	for id, n := range g.nodes {
		degrees[id] = n.Degree
	}
	return degrees
}

// Neighbors returns the IDs adjacent to a node (both edge directions), in
// edge insertion order, with duplicates for parallel edges. The returned
// slice is a read-only view.
func (g *Graph) Neighbors(id string) []string { return g.neighbors[id] }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Categories returns the distinct node categories in first-seen node order.
func (g *Graph) Categories() []string {
	cats := make([]string, len(g.cats))
	copy(cats, g.cats)
	return cats
}

// EdgeTypes returns the distinct edge types in first-seen edge order.
func (g *Graph) EdgeTypes() []string {
	types := make([]string, len(g.types))
	copy(types, g.types)
	return types
}

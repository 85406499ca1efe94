// Package scene assembles styled, positioned graph elements into render-
// ready artifacts.
//
// A Scene is the complete, self-describing payload one artifact needs: node
// positions and styles, sampled edge curves, legend entries, and camera
// defaults. Exporters in this package write it as interactive HTML, plain
// JSON, Graphviz DOT, static SVG/PNG, or CSV tables.
package scene

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/geometry"
	"github.com/graphscape/graphscape/pkg/kgraph"
	"github.com/graphscape/graphscape/pkg/layout"
	"github.com/graphscape/graphscape/pkg/style"
)

// tooltipValueLimit truncates long attribute values in tooltips.
const tooltipValueLimit = 100

// arrowSize is the arrowhead edge length in layout units (the layout box
// is roughly unit-sized).
const arrowSize = 0.03

// Node is one positioned, styled vertex of a scene.
type Node struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Degree      int       `json:"degree"`
	Position    []float64 `json:"position"`
	Color       string    `json:"color"`
	BorderColor string    `json:"border_color"`
	HoverColor  string    `json:"hover_color"`
	Size        float64   `json:"size"`
	Tooltip     string    `json:"tooltip"`
}

// Edge is one styled relationship. 2D scenes carry a sampled curve and an
// arrowhead polygon; 3D scenes carry the straight segment endpoints.
type Edge struct {
	Source  string           `json:"source"`
	Target  string           `json:"target"`
	Type    string           `json:"type"`
	Color   string           `json:"color"`
	Points  []geometry.Point `json:"points,omitempty"`
	Arrow   []geometry.Point `json:"arrow,omitempty"`
	Segment [][]float64      `json:"segment,omitempty"`
}

// LegendEntry is one swatch of the category or edge-type legend.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// Camera holds initial view parameters for the interactive renderer.
type Camera struct {
	Zoom        float64 `json:"zoom"`
	RotateSpeed float64 `json:"rotate_speed,omitempty"`
}

// Stats summarizes the scene for captions and logs.
type Stats struct {
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`
	Categories int `json:"categories"`
	EdgeTypes  int `json:"edge_types"`
}

// Scene is the full render-ready description of one layout run.
type Scene struct {
	RunID       string        `json:"run_id"`
	Title       string        `json:"title"`
	Dimensions  int           `json:"dimensions"`
	Placeholder bool          `json:"placeholder,omitempty"`
	Nodes       []Node        `json:"nodes"`
	Edges       []Edge        `json:"edges"`
	Legend      []LegendEntry `json:"legend"`
	EdgeLegend  []LegendEntry `json:"edge_legend"`
	Camera      Camera        `json:"camera"`
	Stats       Stats         `json:"stats"`
}

// Config parameterizes scene assembly.
type Config struct {
	RunID       string
	Title       string
	Dimensions  int
	MinSize     float64
	MaxSize     float64
	Placeholder bool
}

// Build assembles a Scene from an immutable graph and its layout
// coordinates. Nodes keep the graph's first-seen order; edges keep
// insertion order.
func Build(g *kgraph.Graph, coords layout.Coordinates, cfg Config) (*Scene, error) {
	if cfg.Dimensions != 2 && cfg.Dimensions != 3 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions,
			"scene dimensions must be 2 or 3, got %d", cfg.Dimensions)
	}
	minSize, maxSize := cfg.MinSize, cfg.MaxSize
	if minSize <= 0 {
		minSize = style.DefaultMinSize
	}
	if maxSize <= minSize {
		// Keep the range valid even when minSize exceeds the default max.
		maxSize = minSize + (style.DefaultMaxSize - style.DefaultMinSize)
	}

	nodeColors := style.AssignColors(g.Categories(), style.NodePalette)
	edgeColors := style.AssignColors(g.EdgeTypes(), style.EdgePalette)
	sizes := style.AssignSizes(g.Degrees(), minSize, maxSize)

	s := &Scene{
		RunID:       cfg.RunID,
		Title:       cfg.Title,
		Dimensions:  cfg.Dimensions,
		Placeholder: cfg.Placeholder,
		Camera:      Camera{Zoom: 1},
	}
	if cfg.Dimensions == 3 {
		s.Camera.RotateSpeed = 0.3
	}

	catCounts := make(map[string]int)
	for _, n := range g.Nodes() {
		pos, ok := coords[n.ID]
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal,
				"no coordinates for node %q", n.ID)
		}
		color := nodeColors[n.Category]
		s.Nodes = append(s.Nodes, Node{
			ID:          n.ID,
			Name:        n.Name,
			Category:    n.Category,
			Degree:      n.Degree,
			Position:    pos,
			Color:       color,
			BorderColor: style.AdjustBrightness(color, -0.2),
			HoverColor:  style.AdjustBrightness(color, 0.1),
			Size:        sizes[n.ID],
			Tooltip:     Tooltip(n),
		})
		catCounts[n.Category]++
	}

	typeCounts := make(map[string]int)
	for i, e := range g.Edges() {
		se := Edge{
			Source: e.Source,
			Target: e.Target,
			Type:   e.Type,
			Color:  edgeColors[e.Type],
		}
		src, dst := coords[e.Source], coords[e.Target]
		if cfg.Dimensions == 2 {
			p0 := geometry.Point{src[0], src[1]}
			p1 := geometry.Point{dst[0], dst[1]}
			se.Points = geometry.Curve(p0, p1, i)
			se.Arrow = geometry.Arrowhead(se.Points, arrowSize)
		} else {
			se.Segment = [][]float64{src, dst}
		}
		s.Edges = append(s.Edges, se)
		typeCounts[e.Type]++
	}

	for _, cat := range g.Categories() {
		s.Legend = append(s.Legend, LegendEntry{
			Label: cat,
			Color: nodeColors[cat],
			Count: catCounts[cat],
		})
	}
	for _, typ := range g.EdgeTypes() {
		s.EdgeLegend = append(s.EdgeLegend, LegendEntry{
			Label: typ,
			Color: edgeColors[typ],
			Count: typeCounts[typ],
		})
	}

	s.Stats = Stats{
		Nodes:      len(s.Nodes),
		Edges:      len(s.Edges),
		Categories: len(s.Legend),
		EdgeTypes:  len(s.EdgeLegend),
	}
	return s, nil
}

// Tooltip renders a node's hover text: name, category, degree, then every
// non-internal attribute in sorted key order with long values truncated.
func Tooltip(n *kgraph.Node) string {
	var b strings.Builder
	b.WriteString(n.Name)
	fmt.Fprintf(&b, "\ncategory: %s", n.Category)
	fmt.Fprintf(&b, "\ndegree: %d", n.Degree)

	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		if kgraph.IsInternalKey(k) || k == kgraph.KeyName || k == kgraph.KeyCategory {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		val := fmt.Sprintf("%v", n.Attrs[k])
		if runes := []rune(val); len(runes) > tooltipValueLimit {
			val = string(runes[:tooltipValueLimit]) + "…"
		}
		fmt.Fprintf(&b, "\n%s: %s", k, val)
	}
	return b.String()
}

// MarshalScene encodes a scene as indented JSON.
func MarshalScene(s *Scene) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to encode scene")
	}
	return data, nil
}

// UnmarshalScene decodes a scene from its JSON form.
func UnmarshalScene(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "failed to decode scene")
	}
	return &s, nil
}

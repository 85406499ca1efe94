package scene

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/kgraph"
)

// ToDOT converts a graph to Graphviz DOT with the scene's color and size
// styling, for static rendering or external tooling.
func ToDOT(s *Scene) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		// DOT widths are inches; scene sizes are renderer pixels.
		width := n.Size / 30
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q, color=%q, width=%.2f, pos=\"%s\"];\n",
			n.ID, sanitizeDOTLabel(n.Name), n.Color, n.BorderColor, width, dotPos(n.Position))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, label=%q, fontsize=8];\n",
			e.Source, e.Target, e.Color, e.Type)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotPos formats the first two position components as a pinned neato
// position, preserving the computed layout in static renders.
func dotPos(p []float64) string {
	if len(p) < 2 {
		return "0,0!"
	}
	// Scale the unit layout box up to points so nodes do not overlap.
	return fmt.Sprintf("%.2f,%.2f!", p[0]*300, p[1]*300)
}

// RenderStaticSVG renders the scene's DOT form to SVG bytes.
func RenderStaticSVG(ctx context.Context, s *Scene) ([]byte, error) {
	return renderStatic(ctx, s, graphviz.SVG)
}

// RenderStaticPNG renders the scene's DOT form to PNG bytes.
func RenderStaticPNG(ctx context.Context, s *Scene) ([]byte, error) {
	return renderStatic(ctx, s, graphviz.PNG)
}

func renderStatic(ctx context.Context, s *Scene, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(ToDOT(s)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to parse generated dot")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportIO, err, "failed to render %s", format)
	}
	return buf.Bytes(), nil
}

// sanitizeDOTLabel keeps labels single-line.
func sanitizeDOTLabel(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// WriteDOT writes the DOT artifact to a file.
func WriteDOT(s *Scene, path string) error {
	return writeFileAtomic(path, []byte(ToDOT(s)))
}

// WriteStaticSVG renders and writes the static SVG artifact.
func WriteStaticSVG(ctx context.Context, s *Scene, path string) error {
	data, err := RenderStaticSVG(ctx, s)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// WriteStaticPNG renders and writes the static PNG artifact.
func WriteStaticPNG(ctx context.Context, s *Scene, path string) error {
	data, err := RenderStaticPNG(ctx, s)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// NodesCSV renders the graph's node table with canonical headers.
func NodesCSV(g *kgraph.Graph) []byte {
	var nodes bytes.Buffer
	nodes.WriteString("id,name,category,degree\n")
	for _, n := range g.Nodes() {
		fmt.Fprintf(&nodes, "%s,%s,%s,%d\n",
			csvField(n.ID), csvField(n.Name), csvField(n.Category), n.Degree)
	}
	return nodes.Bytes()
}

// EdgesCSV renders the graph's edge table with canonical headers, suitable
// for re-ingestion.
func EdgesCSV(g *kgraph.Graph) []byte {
	var edges bytes.Buffer
	edges.WriteString("source,target,type\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&edges, "%s,%s,%s\n",
			csvField(e.Source), csvField(e.Target), csvField(e.Type))
	}
	return edges.Bytes()
}

// ExportCSV writes the node and edge tables as two CSV files.
func ExportCSV(g *kgraph.Graph, nodesPath, edgesPath string) error {
	if err := writeFileAtomic(nodesPath, NodesCSV(g)); err != nil {
		return err
	}
	return writeFileAtomic(edgesPath, EdgesCSV(g))
}

// csvField quotes a value when it contains CSV metacharacters.
func csvField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

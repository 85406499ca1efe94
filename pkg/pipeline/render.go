package pipeline

import (
	"context"

	"github.com/graphscape/graphscape/pkg/kgraph"
	"github.com/graphscape/graphscape/pkg/scene"
)

// RenderScene renders a built scene into every requested format. The
// returned map is keyed by artifact name; most formats map one-to-one, CSV
// fans out into csv:nodes and csv:edges.
func RenderScene(ctx context.Context, s *scene.Scene, g *kgraph.Graph, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatHTML:
			data, err := scene.RenderHTML(s)
			if err != nil {
				return nil, err
			}
			artifacts[FormatHTML] = data

		case FormatJSON:
			data, err := scene.MarshalScene(s)
			if err != nil {
				return nil, err
			}
			artifacts[FormatJSON] = data

		case FormatDOT:
			artifacts[FormatDOT] = []byte(scene.ToDOT(s))

		case FormatSVG:
			data, err := scene.RenderStaticSVG(ctx, s)
			if err != nil {
				return nil, err
			}
			artifacts[FormatSVG] = data

		case FormatPNG:
			data, err := scene.RenderStaticPNG(ctx, s)
			if err != nil {
				return nil, err
			}
			artifacts[FormatPNG] = data

		case FormatCSV:
			artifacts[ArtifactCSVNodes] = scene.NodesCSV(g)
			artifacts[ArtifactCSVEdges] = scene.EdgesCSV(g)

		default:
			if err := ValidateFormat(format); err != nil {
				return nil, err
			}
		}
	}
	return artifacts, nil
}

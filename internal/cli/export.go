package cli

import (
	"github.com/spf13/cobra"

	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/pipeline"
)

// exportFormats is the set of formats the export command accepts.
var exportFormats = map[string]bool{
	pipeline.FormatCSV:  true,
	pipeline.FormatDOT:  true,
	pipeline.FormatJSON: true,
}

// exportCommand creates the export command: the same pipeline as render but
// limited to machine-readable artifacts.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		rf     runFlags
		format string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the normalized graph as CSV, DOT, or JSON",
		Long: `Export the normalized graph in a machine-readable format.

CSV produces two files (node and edge tables) that round-trip through the
csv source. DOT targets Graphviz tooling. JSON is the full scene including
layout coordinates and styling.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !exportFormats[format] {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid export format %q (must be csv, dot, or json)", format)
			}
			opts.Formats = []string{format}
			return c.runPipeline(withLogger(cmd.Context(), c.Logger), &rf, opts)
		},
	}

	addRunFlags(cmd, &rf)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatCSV, "export format: csv (default), dot, json")
	cmd.Flags().IntVar(&opts.NodeLimit, "limit", 0, "maximum number of nodes (default 1000)")

	return cmd
}

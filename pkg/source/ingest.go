package source

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/observability"
)

// Ingest reads every configured source in order and normalizes the results
// into one EdgeSet.
//
// Sources that fail to read are logged and skipped. If no source yields a
// table at all, a deterministic placeholder graph is returned with its
// Placeholder flag set so downstream artifacts can label it as sample data.
// If tables were read but no usable edges survive normalization, Ingest
// returns an EMPTY_GRAPH error.
func Ingest(ctx context.Context, sources []Source, logger *log.Logger) (EdgeSet, error) {
	if logger == nil {
		logger = log.Default()
	}

	var tables []Table
	for _, src := range sources {
		observability.Source().OnSourceRead(ctx, src.Name())
		start := time.Now()
		table, err := src.Read(ctx)
		if err != nil {
			observability.Source().OnSourceError(ctx, src.Name(), err)
			logger.Warn("source unavailable, skipping",
				"source", src.Name(),
				"error", err)
			continue
		}
		observability.Source().OnSourceComplete(ctx, src.Name(), len(table.Rows), time.Since(start))
		logger.Debug("read source table",
			"source", src.Name(),
			"rows", len(table.Rows))
		tables = append(tables, table)
	}

	if len(tables) == 0 {
		logger.Warn("no readable sources, rendering placeholder sample graph",
			"configured", len(sources),
			"code", errors.ErrCodeSourceUnavailable)
		return placeholderEdgeSet(), nil
	}

	return Normalize(tables, logger)
}

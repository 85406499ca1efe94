// Package source ingests heterogeneous tabular relationship data and
// normalizes it into a single edge set for graph construction.
//
// A Source produces one Table of rows with arbitrary column names. Column
// reconciliation maps well-known synonyms onto the canonical source /
// target / type columns, so CSV exports, Parquet relationship tables, and
// Neo4j query results can be mixed freely in one run. Tables that cannot
// be reconciled are skipped with a warning rather than failing the run.
package source

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/kgraph"
)

// ============================================================================
// Types
// ============================================================================

// Row is one record of a tabular source, keyed by column name.
type Row = map[string]any

// Table is the raw output of one Source read.
type Table struct {
	Name string
	Rows []Row
}

// Source is a provider of one relationship or node-attribute table.
type Source interface {
	// Name identifies the source in logs and cache keys.
	Name() string
	// Read fetches the full table. Implementations honor ctx cancellation
	// for remote backends.
	Read(ctx context.Context) (Table, error)
}

// EdgeSet is the normalized output of ingestion: cleaned edge records,
// optional node attribute records, and a flag marking synthesized
// placeholder data. It is JSON-serializable so it can be cached between
// runs.
type EdgeSet struct {
	Edges       []kgraph.EdgeRecord `json:"edges"`
	NodeAttrs   []kgraph.NodeRecord `json:"node_attrs,omitempty"`
	Placeholder bool                `json:"placeholder,omitempty"`
}

// ============================================================================
// Column reconciliation
// ============================================================================

// Canonical column names for edge tables.
const (
	colSource = "source"
	colTarget = "target"
	colType   = "type"
	colNodeID = "id"
)

// Synonyms accepted for each canonical column, matched case-sensitively and
// only when the canonical column itself is absent. Order matters: the first
// synonym present in a table wins.
var columnSynonyms = map[string][]string{
	colSource: {"src", "from", "from_id", "start", "source_id"},
	colTarget: {"destination", "dst", "to", "to_id", "end", "target_id"},
	colType:   {"relationship", "relation", "rel_type", "edge_type", "predicate"},
	colNodeID: {"node_id", "entity_id"},
}

// resolveColumn finds the table column holding the canonical field, checking
// the canonical name first and then its synonyms in declaration order.
func resolveColumn(columns map[string]bool, canonical string) (string, bool) {
	if columns[canonical] {
		return canonical, true
	}
	for _, syn := range columnSynonyms[canonical] {
		if columns[syn] {
			return syn, true
		}
	}
	return "", false
}

// tableColumns collects the union of column names across all rows. Sparse
// rows are common in hand-edited CSVs, so no single row is authoritative.
func tableColumns(t Table) map[string]bool {
	columns := make(map[string]bool)
	for _, row := range t.Rows {
		for key := range row {
			columns[key] = true
		}
	}
	return columns
}

// ============================================================================
// Normalization
// ============================================================================

// Normalize reconciles and concatenates raw tables into one EdgeSet.
//
// Each table is classified as an edge table (resolvable source and target
// columns), a node attribute table (resolvable id column), or unresolvable.
// Unresolvable tables are skipped with a warning. Rows missing either
// endpoint are dropped. Duplicate (source, target) pairs collapse to the
// first occurrence, except that a later row may fill in a type the first
// occurrence lacked.
func Normalize(tables []Table, logger *log.Logger) (EdgeSet, error) {
	if logger == nil {
		logger = log.Default()
	}

	var set EdgeSet
	index := make(map[[2]string]int) // (source, target) -> index into set.Edges

	for _, table := range tables {
		columns := tableColumns(table)

		srcCol, okSrc := resolveColumn(columns, colSource)
		dstCol, okDst := resolveColumn(columns, colTarget)
		if okSrc && okDst {
			typeCol, _ := resolveColumn(columns, colType)
			normalizeEdgeTable(table, srcCol, dstCol, typeCol, &set, index, logger)
			continue
		}

		if idCol, ok := resolveColumn(columns, colNodeID); ok {
			normalizeNodeTable(table, idCol, &set)
			continue
		}

		logger.Warn("skipping table with unresolvable schema",
			"table", table.Name,
			"error", errors.ErrCodeSchemaUnresolvable)
	}

	if len(set.Edges) == 0 {
		return set, errors.New(errors.ErrCodeEmptyGraph,
			"no edges remained after normalization")
	}

	// Default the relationship type only after deduplication so a later
	// row can still backfill an explicitly missing type.
	for i := range set.Edges {
		if set.Edges[i].Type == "" {
			set.Edges[i].Type = kgraph.DefaultEdgeType
		}
	}

	return set, nil
}

func normalizeEdgeTable(table Table, srcCol, dstCol, typeCol string, set *EdgeSet, index map[[2]string]int, logger *log.Logger) {
	dropped := 0
	for _, row := range table.Rows {
		src, okSrc := coerceString(row[srcCol])
		dst, okDst := coerceString(row[dstCol])
		if !okSrc || !okDst {
			dropped++
			continue
		}

		typ := ""
		if typeCol != "" {
			typ, _ = coerceString(row[typeCol])
		}

		key := [2]string{src, dst}
		if i, seen := index[key]; seen {
			if set.Edges[i].Type == "" && typ != "" {
				set.Edges[i].Type = typ
			}
			continue
		}

		attrs := kgraph.Attrs{}
		for col, val := range row {
			if col == srcCol || col == dstCol || col == typeCol || val == nil {
				continue
			}
			attrs[col] = val
		}

		index[key] = len(set.Edges)
		set.Edges = append(set.Edges, kgraph.EdgeRecord{
			Source: src,
			Target: dst,
			Type:   typ,
			Attrs:  attrs,
		})
	}
	if dropped > 0 {
		logger.Warn("dropped rows with missing endpoints",
			"table", table.Name,
			"dropped", dropped)
	}
}

func normalizeNodeTable(table Table, idCol string, set *EdgeSet) {
	for _, row := range table.Rows {
		id, ok := coerceString(row[idCol])
		if !ok {
			continue
		}
		attrs := kgraph.Attrs{}
		for col, val := range row {
			if col == idCol || val == nil {
				continue
			}
			attrs[col] = val
		}
		set.NodeAttrs = append(set.NodeAttrs, kgraph.NodeRecord{ID: id, Attrs: attrs})
	}
}

// coerceString converts an endpoint value to its string form. Nil values
// and empty strings are treated as missing.
func coerceString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case int:
		return strconv.Itoa(val), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return fmt.Sprintf("%v", val), true
	}
}

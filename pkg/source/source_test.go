package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/graphscape/graphscape/pkg/errors"
)

func silentLogger() *log.Logger { return log.New(io.Discard) }

func TestNormalizeSynonyms(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
		want [3]string // source, target, type of the single edge
	}{
		{
			name: "Canonical",
			rows: []Row{{"source": "a", "target": "b", "type": "knows"}},
			want: [3]string{"a", "b", "knows"},
		},
		{
			name: "SrcDst",
			rows: []Row{{"src": "a", "dst": "b", "relationship": "knows"}},
			want: [3]string{"a", "b", "knows"},
		},
		{
			name: "FromTo",
			rows: []Row{{"from": "a", "to": "b", "predicate": "cites"}},
			want: [3]string{"a", "b", "cites"},
		},
		{
			name: "StartEnd",
			rows: []Row{{"start": "a", "end": "b", "rel_type": "owns"}},
			want: [3]string{"a", "b", "owns"},
		},
		{
			name: "IDSuffixes",
			rows: []Row{{"source_id": "a", "target_id": "b", "edge_type": "part_of"}},
			want: [3]string{"a", "b", "part_of"},
		},
		{
			name: "MissingTypeDefaults",
			rows: []Row{{"source": "a", "destination": "b"}},
			want: [3]string{"a", "b", "related"},
		},
		{
			name: "CanonicalWinsOverSynonym",
			rows: []Row{{"source": "a", "src": "WRONG", "target": "b"}},
			want: [3]string{"a", "b", "related"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Normalize([]Table{{Name: "t", Rows: tt.rows}}, silentLogger())
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if len(set.Edges) != 1 {
				t.Fatalf("len(Edges) = %d, want 1", len(set.Edges))
			}
			e := set.Edges[0]
			got := [3]string{e.Source, e.Target, e.Type}
			if got != tt.want {
				t.Errorf("edge = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeDedup(t *testing.T) {
	rows := []Row{
		{"source": "a", "target": "b", "weight": "1"},
		{"source": "a", "target": "b", "type": "knows", "weight": "2"},
		{"source": "a", "target": "b", "type": "other"},
		{"source": "b", "target": "a", "type": "reverse"},
	}
	set, err := Normalize([]Table{{Name: "t", Rows: rows}}, silentLogger())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(set.Edges) != 2 {
		t.Fatalf("len(Edges) = %d, want 2", len(set.Edges))
	}
	// First occurrence wins, but its missing type is backfilled by the
	// first later duplicate that carries one.
	if set.Edges[0].Type != "knows" {
		t.Errorf("Edges[0].Type = %q, want knows", set.Edges[0].Type)
	}
	if set.Edges[0].Attrs["weight"] != "1" {
		t.Errorf("Edges[0].weight = %v, want 1 (first occurrence)", set.Edges[0].Attrs["weight"])
	}
	// Reverse direction is a distinct edge.
	if set.Edges[1].Source != "b" || set.Edges[1].Target != "a" {
		t.Errorf("Edges[1] = %s->%s, want b->a", set.Edges[1].Source, set.Edges[1].Target)
	}
}

func TestNormalizeDropsMissingEndpoints(t *testing.T) {
	rows := []Row{
		{"source": "a", "target": "b"},
		{"source": nil, "target": "b"},
		{"source": "a", "target": ""},
		{"target": "b"},
	}
	set, err := Normalize([]Table{{Name: "t", Rows: rows}}, silentLogger())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(set.Edges) != 1 {
		t.Errorf("len(Edges) = %d, want 1", len(set.Edges))
	}
}

func TestNormalizeNodeTable(t *testing.T) {
	tables := []Table{
		{Name: "edges", Rows: []Row{{"source": "a", "target": "b"}}},
		{Name: "nodes", Rows: []Row{
			{"entity_id": "a", "name": "Alpha", "category": "person"},
			{"id": "b", "name": "Beta"},
		}},
	}
	set, err := Normalize(tables, silentLogger())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(set.NodeAttrs) != 2 {
		t.Fatalf("len(NodeAttrs) = %d, want 2", len(set.NodeAttrs))
	}
	if set.NodeAttrs[0].ID != "a" || set.NodeAttrs[0].Attrs["name"] != "Alpha" {
		t.Errorf("NodeAttrs[0] = %+v, want a/Alpha", set.NodeAttrs[0])
	}
}

func TestNormalizeUnresolvableSkipped(t *testing.T) {
	tables := []Table{
		{Name: "bad", Rows: []Row{{"foo": "x", "bar": "y"}}},
		{Name: "good", Rows: []Row{{"source": "a", "target": "b"}}},
	}
	set, err := Normalize(tables, silentLogger())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(set.Edges) != 1 {
		t.Errorf("len(Edges) = %d, want 1", len(set.Edges))
	}
}

func TestNormalizeEmpty(t *testing.T) {
	_, err := Normalize([]Table{{Name: "t"}}, silentLogger())
	if !errors.Is(err, errors.ErrCodeEmptyGraph) {
		t.Errorf("error = %v, want code %s", err, errors.ErrCodeEmptyGraph)
	}
}

func TestNormalizeNumericEndpoints(t *testing.T) {
	rows := []Row{{"source": int64(1), "target": 2.0, "type": "rel"}}
	set, err := Normalize([]Table{{Name: "t", Rows: rows}}, silentLogger())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if set.Edges[0].Source != "1" || set.Edges[0].Target != "2" {
		t.Errorf("edge = %s->%s, want 1->2", set.Edges[0].Source, set.Edges[0].Target)
	}
}

func TestIngestMemory(t *testing.T) {
	src := &MemoryTable{TableName: "edges", Rows: []Row{
		{"source": "A", "target": "B", "type": "knows"},
	}}
	set, err := Ingest(context.Background(), []Source{src}, silentLogger())
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if set.Placeholder {
		t.Error("Placeholder = true, want false")
	}
	if len(set.Edges) != 1 || set.Edges[0].Type != "knows" {
		t.Errorf("Edges = %+v, want one knows edge", set.Edges)
	}
}

func TestIngestPlaceholderFallback(t *testing.T) {
	set, err := Ingest(context.Background(), nil, silentLogger())
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if !set.Placeholder {
		t.Error("Placeholder = false, want true")
	}
	if len(set.Edges) != 15 {
		t.Errorf("len(Edges) = %d, want 15", len(set.Edges))
	}
	if len(set.NodeAttrs) != 10 {
		t.Errorf("len(NodeAttrs) = %d, want 10", len(set.NodeAttrs))
	}

	// Placeholder output is deterministic across calls.
	again, _ := Ingest(context.Background(), nil, silentLogger())
	for i := range set.Edges {
		if set.Edges[i].Source != again.Edges[i].Source || set.Edges[i].Target != again.Edges[i].Target {
			t.Fatalf("placeholder edge %d differs between calls", i)
		}
	}
}

func TestIngestUnreadableSourceFallsBack(t *testing.T) {
	src := &CSVFile{Path: filepath.Join(t.TempDir(), "missing.csv")}
	set, err := Ingest(context.Background(), []Source{src}, silentLogger())
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if !set.Placeholder {
		t.Error("Placeholder = false, want true")
	}
}

func TestCSVFileRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.csv")
	content := "src,destination,relationship,weight\nA,B,knows,3\nB,C,,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := (&CSVFile{Path: path}).Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(table.Rows))
	}

	set, err := Normalize([]Table{table}, silentLogger())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(set.Edges) != 2 {
		t.Fatalf("len(Edges) = %d, want 2", len(set.Edges))
	}
	if set.Edges[0].Type != "knows" || set.Edges[0].Attrs["weight"] != "3" {
		t.Errorf("Edges[0] = %+v, want knows/weight=3", set.Edges[0])
	}
	if set.Edges[1].Type != "related" {
		t.Errorf("Edges[1].Type = %q, want related (default)", set.Edges[1].Type)
	}
}

func TestCSVFileNotFound(t *testing.T) {
	_, err := (&CSVFile{Path: filepath.Join(t.TempDir(), "nope.csv")}).Read(context.Background())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want code %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestCSVFileErrorKeepsPathVerbatim(t *testing.T) {
	// Paths are format arguments, so printf verbs in a file name must come
	// through untouched.
	path := filepath.Join(t.TempDir(), "100%tables.csv")
	_, err := (&CSVFile{Path: path}).Read(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error = %q, want it to contain %q", err, path)
	}
}

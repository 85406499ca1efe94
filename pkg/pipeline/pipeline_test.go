package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/graphscape/graphscape/pkg/cache"
	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/source"
)

func silentLogger() *log.Logger { return log.New(io.Discard) }

func memorySource() source.Source {
	return &source.MemoryTable{TableName: "edges", Rows: []source.Row{
		{"source": "a", "target": "b", "type": "knows"},
		{"source": "b", "target": "c", "type": "cites"},
		{"source": "c", "target": "a", "type": "knows"},
	}}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.Dimensions != DefaultDimensions {
		t.Errorf("Dimensions = %d, want %d", opts.Dimensions, DefaultDimensions)
	}
	if opts.NodeLimit != DefaultNodeLimit {
		t.Errorf("NodeLimit = %d, want %d", opts.NodeLimit, DefaultNodeLimit)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if opts.Iterations != 100 {
		t.Errorf("Iterations = %d, want 100 for 2D", opts.Iterations)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatHTML {
		t.Errorf("Formats = %v, want [html]", opts.Formats)
	}
	if opts.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", opts.Title, DefaultTitle)
	}

	// Idempotent: a second call must not change anything.
	opts.Iterations = 5
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Iterations != 5 {
		t.Error("second ValidateAndSetDefaults call overwrote fields")
	}
}

func TestOptionsIterationsDefault3D(t *testing.T) {
	opts := Options{Dimensions: 3}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Iterations != 70 {
		t.Errorf("Iterations = %d, want 70 for 3D", opts.Iterations)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"BadDimensions", Options{Dimensions: 4}, errors.ErrCodeInvalidDimensions},
		{"BadFormat", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"BadSizes", Options{MinSize: 30, MaxSize: 20}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecuteEndToEnd(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, silentLogger())
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Sources: []source.Source{memorySource()},
		Formats: []string{FormatHTML, FormatJSON, FormatDOT, FormatCSV},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID is empty")
	}
	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 3 {
		t.Errorf("stats = %+v, want 3 nodes / 3 edges", result.Stats)
	}
	if result.Stats.Placeholder {
		t.Error("Placeholder = true for real sources")
	}
	if result.EdgeSetHash == "" {
		t.Error("EdgeSetHash is empty")
	}
	if result.Scene == nil || len(result.Scene.Nodes) != 3 {
		t.Fatalf("Scene = %+v, want 3 nodes", result.Scene)
	}

	for _, key := range []string{FormatHTML, FormatJSON, FormatDOT, ArtifactCSVNodes, ArtifactCSVEdges} {
		if len(result.Artifacts[key]) == 0 {
			t.Errorf("artifact %q is empty", key)
		}
	}
	if !strings.Contains(string(result.Artifacts[FormatHTML]), "<!DOCTYPE html>") {
		t.Error("html artifact is not a page")
	}
	if !strings.HasPrefix(string(result.Artifacts[ArtifactCSVNodes]), "id,name,category,degree\n") {
		t.Error("csv nodes artifact missing header")
	}
}

func TestExecuteCaching(t *testing.T) {
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fileCache, nil, silentLogger())
	defer runner.Close()

	opts := Options{
		Sources: []source.Source{memorySource()},
		Formats: []string{FormatJSON},
	}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.IngestHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss everywhere: %+v", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.IngestHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit everywhere: %+v", second.CacheInfo)
	}
	if second.EdgeSetHash != first.EdgeSetHash {
		t.Error("edge set hash changed between identical runs")
	}

	// Refresh bypasses the ingest cache.
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.IngestHit {
		t.Error("refresh run should not hit the ingest cache")
	}
}

func TestExecuteEmptyGraph(t *testing.T) {
	runner := NewRunner(nil, nil, silentLogger())
	defer runner.Close()

	// A readable table whose rows all lack endpoints yields no edges.
	empty := &source.MemoryTable{TableName: "edges", Rows: []source.Row{
		{"source": nil, "target": "b"},
	}}
	_, err := runner.Execute(context.Background(), Options{
		Sources: []source.Source{empty},
	})
	if !errors.Is(err, errors.ErrCodeEmptyGraph) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeEmptyGraph)
	}
}

func TestExecutePlaceholderFallback(t *testing.T) {
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fileCache, nil, silentLogger())
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.Stats.Placeholder {
		t.Error("Stats.Placeholder = false, want true with no sources")
	}
	if !result.Scene.Placeholder {
		t.Error("Scene.Placeholder = false, want true")
	}
	if result.Stats.NodeCount != 10 {
		t.Errorf("NodeCount = %d, want 10 sample nodes", result.Stats.NodeCount)
	}

	// Placeholder data is never cached, so the next run retries sources.
	again, err := runner.Execute(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if again.CacheInfo.IngestHit {
		t.Error("placeholder edge set should not be served from cache")
	}
}

func TestExecuteNodeLimitTruncates(t *testing.T) {
	rows := make([]source.Row, 0, 50)
	for i := 0; i < 50; i++ {
		rows = append(rows, source.Row{
			"source": nodeID(i),
			"target": nodeID(i + 1),
		})
	}
	runner := NewRunner(nil, nil, silentLogger())
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Sources:   []source.Source{&source.MemoryTable{TableName: "edges", Rows: rows}},
		NodeLimit: 10,
		Formats:   []string{FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Stats.NodeCount != 10 {
		t.Errorf("NodeCount = %d, want 10 after truncation", result.Stats.NodeCount)
	}
	if result.Stats.EdgeCount != 9 {
		t.Errorf("EdgeCount = %d, want 9 (induced chain)", result.Stats.EdgeCount)
	}
}

func nodeID(i int) string {
	return string([]byte{'n', byte('0' + i/10%10), byte('0' + i%10)})
}

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/pipeline"
	"github.com/graphscape/graphscape/pkg/source"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graphscape.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
title = "Citations"
dimensions = 3
node_limit = 500
seed = 7
formats = ["html", "json"]

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[[source]]
kind = "csv"
path = "edges.csv"

[[source]]
kind = "neo4j"
uri = "bolt://localhost:7687"
username = "neo4j"
password = "secret"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Title != "Citations" || cfg.Dimensions != 3 || cfg.NodeLimit != 500 || cfg.Seed != 7 {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache config = %+v", cfg.Cache)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("len(Sources) = %d, want 2", len(cfg.Sources))
	}
	if cfg.Sources[0].Kind != "csv" || cfg.Sources[0].Path != "edges.csv" {
		t.Errorf("Sources[0] = %+v", cfg.Sources[0])
	}
	if cfg.Sources[1].URI != "bolt://localhost:7687" {
		t.Errorf("Sources[1] = %+v", cfg.Sources[1])
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestBuildSources(t *testing.T) {
	cfg := &Config{Sources: []SourceConfig{
		{Kind: "csv", Path: "a.csv"},
		{Kind: "parquet", Path: "b.parquet"},
		{Kind: "neo4j", URI: "bolt://localhost:7687"},
	}}

	sources, err := cfg.BuildSources()
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 3 {
		t.Fatalf("len(sources) = %d, want 3", len(sources))
	}
	if _, ok := sources[0].(*source.CSVFile); !ok {
		t.Errorf("sources[0] = %T, want *source.CSVFile", sources[0])
	}
	if _, ok := sources[1].(*source.ParquetFile); !ok {
		t.Errorf("sources[1] = %T, want *source.ParquetFile", sources[1])
	}
	if _, ok := sources[2].(*source.Neo4jSource); !ok {
		t.Errorf("sources[2] = %T, want *source.Neo4jSource", sources[2])
	}
}

func TestBuildSourcesUnknownKind(t *testing.T) {
	cfg := &Config{Sources: []SourceConfig{{Kind: "sqlite"}}}
	_, err := cfg.BuildSources()
	if !errors.Is(err, errors.ErrCodeInvalidSource) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidSource)
	}
}

func TestApplyToFlagPrecedence(t *testing.T) {
	cfg := &Config{Title: "From Config", Dimensions: 3, Seed: 7}

	// Flags already set stay untouched; unset options come from the config.
	opts := pipeline.Options{Title: "From Flag"}
	cfg.ApplyTo(&opts)

	if opts.Title != "From Flag" {
		t.Errorf("Title = %q, want flag value", opts.Title)
	}
	if opts.Dimensions != 3 || opts.Seed != 7 {
		t.Errorf("opts = %+v, want config values for unset fields", opts)
	}
}

package cli

import (
	"github.com/BurntSushi/toml"

	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/pipeline"
	"github.com/graphscape/graphscape/pkg/source"
)

// =============================================================================
// Run Configuration
// =============================================================================

// Config is the TOML run configuration. It declares the graph sources plus
// optional pipeline and cache settings. Command-line flags take precedence
// over config values.
type Config struct {
	Title      string   `toml:"title"`
	Dimensions int      `toml:"dimensions"`
	NodeLimit  int      `toml:"node_limit"`
	Seed       int64    `toml:"seed"`
	Iterations int      `toml:"iterations"`
	Formats    []string `toml:"formats"`
	MinSize    float64  `toml:"min_size"`
	MaxSize    float64  `toml:"max_size"`

	Cache   CacheConfig    `toml:"cache"`
	Sources []SourceConfig `toml:"source"`
}

// CacheConfig selects the cache backend for pipeline results.
type CacheConfig struct {
	// Backend is "file" (default), "redis", or "none".
	Backend       string `toml:"backend"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// SourceConfig declares one graph source as a [[source]] table.
type SourceConfig struct {
	// Kind is "csv", "parquet", or "neo4j".
	Kind string `toml:"kind"`

	// Path is the file path for csv and parquet sources.
	Path string `toml:"path"`

	// Neo4j connection settings. Query is optional; when empty a default
	// relationship query is used.
	URI      string `toml:"uri"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Query    string `toml:"query"`
}

// LoadConfig reads and parses a TOML run configuration.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to load config %s", path)
	}
	return &cfg, nil
}

// BuildSources instantiates the configured sources in declaration order.
func (c *Config) BuildSources() ([]source.Source, error) {
	sources := make([]source.Source, 0, len(c.Sources))
	for _, sc := range c.Sources {
		switch sc.Kind {
		case "csv":
			sources = append(sources, &source.CSVFile{Path: sc.Path})
		case "parquet":
			sources = append(sources, &source.ParquetFile{Path: sc.Path})
		case "neo4j":
			sources = append(sources, &source.Neo4jSource{
				URI:      sc.URI,
				Username: sc.Username,
				Password: sc.Password,
				Query:    sc.Query,
			})
		default:
			return nil, errors.New(errors.ErrCodeInvalidSource, "unknown source kind %q (must be csv, parquet, or neo4j)", sc.Kind)
		}
	}
	return sources, nil
}

// ApplyTo copies config values onto pipeline options, but only where the
// option is still unset so command-line flags win.
func (c *Config) ApplyTo(opts *pipeline.Options) {
	if opts.Title == "" {
		opts.Title = c.Title
	}
	if opts.Dimensions == 0 {
		opts.Dimensions = c.Dimensions
	}
	if opts.NodeLimit == 0 {
		opts.NodeLimit = c.NodeLimit
	}
	if opts.Seed == 0 {
		opts.Seed = c.Seed
	}
	if opts.Iterations == 0 {
		opts.Iterations = c.Iterations
	}
	if len(opts.Formats) == 0 {
		opts.Formats = c.Formats
	}
	if opts.MinSize == 0 {
		opts.MinSize = c.MinSize
	}
	if opts.MaxSize == 0 {
		opts.MaxSize = c.MaxSize
	}
}

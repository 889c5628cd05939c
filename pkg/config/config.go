// Package config loads snaprag's TOML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvVar is the environment variable carrying the config file path.
const EnvVar = "SNAPRAG_CONFIG"

// DefaultPath is used when EnvVar is unset.
const DefaultPath = "config.toml"

// Config is the root of the TOML document described in spec.md §6.
type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Logging    LoggingConfig    `toml:"logging"`
	Embeddings EmbeddingsConfig `toml:"embeddings"`
	Performance PerformanceConfig `toml:"performance"`
	Sync       SyncConfig       `toml:"sync"`
	LLM        LLMConfig        `toml:"llm"`
}

// DatabaseConfig configures the Postgres connection pool.
type DatabaseConfig struct {
	URL               string        `toml:"url"`
	MaxConnections    int32         `toml:"max_connections"`
	MinConnections    int32         `toml:"min_connections"`
	ConnectionTimeout time.Duration `toml:"connection_timeout"`
}

// LoggingConfig configures pkg/log.
type LoggingConfig struct {
	Level     string `toml:"level"`
	Backtrace bool   `toml:"backtrace"`
}

// EmbeddingsConfig configures pkg/embedder.
type EmbeddingsConfig struct {
	Dimension     int      `toml:"dimension"`
	Model         string   `toml:"model"`
	BatchSize     int      `toml:"batch_size"`
	ParallelTasks int      `toml:"parallel_tasks"`
	Endpoints     []string `toml:"endpoints"`
}

// PerformanceConfig configures vector-index behavior.
type PerformanceConfig struct {
	EnableVectorIndexes bool `toml:"enable_vector_indexes"`
	VectorIndexLists    int  `toml:"vector_index_lists"`
}

// SyncConfig configures pkg/sync's shard pollers.
type SyncConfig struct {
	HTTPEndpoint              string   `toml:"http_endpoint"`
	GRPCEndpoint              string   `toml:"grpc_endpoint"`
	EnableRealtime            bool     `toml:"enable_realtime"`
	EnableHistorical          bool     `toml:"enable_historical"`
	HistoricalSyncFromEventID uint64   `toml:"historical_sync_from_event_id"`
	BatchSize                 int      `toml:"batch_size"`
	SyncIntervalMS            int      `toml:"sync_interval_ms"`
	ShardIDs                  []uint32 `toml:"shard_ids"`
}

// LLMConfig configures the RAG prompt-construction external collaborator.
type LLMConfig struct {
	Endpoint string `toml:"endpoint"`
	Key      string `toml:"key"`
}

// Path resolves the config file path: EnvVar if set, else DefaultPath.
func Path() string {
	if p := os.Getenv(EnvVar); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads and parses the config file at Path(), applying defaults for
// anything the file leaves unset.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads and parses the config file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns a Config populated with the system's defaults, to be
// overridden field-by-field by whatever the TOML file specifies.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			MaxConnections:    10,
			MinConnections:    2,
			ConnectionTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Embeddings: EmbeddingsConfig{
			Dimension:     768,
			BatchSize:     64,
			ParallelTasks: 4,
		},
		Performance: PerformanceConfig{
			EnableVectorIndexes: true,
			VectorIndexLists:    100,
		},
		Sync: SyncConfig{
			EnableRealtime:   true,
			EnableHistorical: false,
			BatchSize:        100,
			SyncIntervalMS:   1000,
		},
	}
}

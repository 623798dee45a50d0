package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Storage StorageConfig `yaml:"storage"`
	Search  SearchConfig  `yaml:"search"`
	Events  EventsConfig  `yaml:"events"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// StorageConfig points at the primary MongoDB record store.
type StorageConfig struct {
	URI               string        `yaml:"uri" validate:"required"`
	Database          string        `yaml:"database" validate:"required"`
	NovelsCollection  string        `yaml:"novels_collection"`
	LibraryCollection string        `yaml:"library_collection"`
	ConnectTimeout    time.Duration `yaml:"connect_timeout"`
}

// SearchConfig points at the secondary Elasticsearch index.
type SearchConfig struct {
	Addresses []string      `yaml:"addresses"`
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	Index     string        `yaml:"index"`
	Timeout   time.Duration `yaml:"timeout"`
}

// EventsConfig configures the best-effort observability event stream.
type EventsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Stream        string `yaml:"stream"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// CatalogConfig tunes the catalog service itself.
type CatalogConfig struct {
	SearchTimeout    time.Duration `yaml:"search_timeout"`
	SyncQueueSize    int           `yaml:"sync_queue_size" validate:"min=1"`
	SyncWorkers      int           `yaml:"sync_workers" validate:"min=1"`
	DefaultPageSize  int           `yaml:"default_page_size" validate:"min=1"`
	ListingPageSize  int           `yaml:"listing_page_size" validate:"min=1"`
	ReindexBatchSize int           `yaml:"reindex_batch_size" validate:"min=1"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Logging: DefaultLoggingConfig(),
		Storage: StorageConfig{
			URI:               "mongodb://localhost:27017",
			Database:          "storyhive",
			NovelsCollection:  "novels",
			LibraryCollection: "library",
			ConnectTimeout:    10 * time.Second,
		},
		Search: SearchConfig{
			Addresses: []string{"http://localhost:9200"},
			Index:     "novels",
			Timeout:   2 * time.Second,
		},
		Events: EventsConfig{
			Enabled:       false,
			URL:           "nats://localhost:4222",
			Stream:        "STORYHIVE",
			SubjectPrefix: "storyhive.events",
		},
		Catalog: CatalogConfig{
			SearchTimeout:    2 * time.Second,
			SyncQueueSize:    256,
			SyncWorkers:      2,
			DefaultPageSize:  10,
			ListingPageSize:  20,
			ReindexBatchSize: 100,
		},
	}
}

// LoadConfig loads configuration in layers:
// defaults -> config.yml -> config.local.yml -> env overrides -> validate.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if err := loadFile("config/config.yml", cfg); err != nil {
		return nil, err
	}
	if err := loadFile("config/config.local.yml", cfg); err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	cfg.Logging.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnvOverrides lets deployment environments override the file layers.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("STORYHIVE_MONGO_URI"); v != "" {
		c.Storage.URI = v
	}
	if v := os.Getenv("STORYHIVE_MONGO_DB"); v != "" {
		c.Storage.Database = v
	}
	if v := os.Getenv("STORYHIVE_ES_ADDRESSES"); v != "" {
		c.Search.Addresses = strings.Split(v, ",")
	}
	if v := os.Getenv("STORYHIVE_ES_INDEX"); v != "" {
		c.Search.Index = v
	}
	if v := os.Getenv("STORYHIVE_NATS_URL"); v != "" {
		c.Events.URL = v
		c.Events.Enabled = true
	}
	if v := os.Getenv("STORYHIVE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

var validate = validator.New()

// Validate checks the assembled configuration before anything connects.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if len(c.Search.Addresses) == 0 {
		return fmt.Errorf("invalid configuration: search.addresses is empty")
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the catalogsearch service and indexer configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Auth      AuthConfig      `yaml:"auth"`
	Search    SearchConfig    `yaml:"search"`
	Index     IndexConfig     `yaml:"index"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"` // empty = auth disabled
}

// EmbeddingConfig holds the OpenAI-compatible embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // label for metrics
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	// SendDimensions forwards Dimensions as a request parameter (matryoshka models only).
	SendDimensions      bool                 `yaml:"send_dimensions"`
	QueryInstruction    string               `yaml:"query_instruction"`
	DocumentInstruction string               `yaml:"document_instruction"`
	TimeoutMs           int                  `yaml:"timeout_ms"`
	Cache               EmbeddingCacheConfig `yaml:"cache"`
}

// EmbeddingCacheConfig controls the Redis-backed embedding cache.
type EmbeddingCacheConfig struct {
	Enabled  bool `yaml:"enabled"`
	TTLHours int  `yaml:"ttl_hours"` // 0 = no expiry
}

// CategoryEntry is one canonical category with its raw variants.
type CategoryEntry struct {
	Key      string   `yaml:"key"`
	Variants []string `yaml:"variants"`
}

// SearchConfig holds query understanding and hybrid retrieval settings.
type SearchConfig struct {
	K             int      `yaml:"k"`
	NumCandidates int      `yaml:"num_candidates"`
	MinScore      *float64 `yaml:"min_score"`
	DefaultSize   int      `yaml:"default_size"`

	Brands            []string `yaml:"brands"`
	BrandThreshold    int      `yaml:"brand_threshold"`
	BrandWordBoundary bool     `yaml:"brand_word_boundary"`

	CategoryInference string          `yaml:"category_inference"` // disabled, exact, fuzzy
	CategoryThreshold int             `yaml:"category_threshold"`
	CategoryFilter    bool            `yaml:"category_filter"`
	Categories        []CategoryEntry `yaml:"categories"` // empty = built-in map

	AudiencePhrases []string `yaml:"audience_phrases"` // empty = built-in list

	EmbeddingTimeoutMs int `yaml:"embedding_timeout_ms"`
	RetrievalTimeoutMs int `yaml:"retrieval_timeout_ms"`
}

// EmbeddingTimeout returns the embedding call deadline.
func (s SearchConfig) EmbeddingTimeout() time.Duration {
	return time.Duration(s.EmbeddingTimeoutMs) * time.Millisecond
}

// RetrievalTimeout returns the retrieval call deadline.
func (s SearchConfig) RetrievalTimeout() time.Duration {
	return time.Duration(s.RetrievalTimeoutMs) * time.Millisecond
}

// IndexConfig holds HNSW index settings.
type IndexConfig struct {
	HNSWM           int `yaml:"hnsw_m"`
	HNSWEFConstruct int `yaml:"hnsw_ef_construction"`
}

// CatalogConfig holds the relational catalog source used by the indexer.
type CatalogConfig struct {
	Driver    string `yaml:"driver"`
	DSN       string `yaml:"dsn"`
	Table     string `yaml:"table"`
	Workers   int    `yaml:"workers"`
	BatchSize int    `yaml:"batch_size"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// Defaults.
const (
	DefaultK              = 200
	DefaultNumCandidates  = 500
	DefaultMinScore       = 2.0
	DefaultSize           = 10
	DefaultBrandThreshold = 80
	DefaultDimensions     = 384
	DefaultModel          = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultCatalogTable   = "ecommerce_products_mini"
)

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = DefaultModel
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = DefaultDimensions
	}
	if c.Embedding.TimeoutMs <= 0 {
		c.Embedding.TimeoutMs = 10000
	}

	if c.Search.K <= 0 {
		c.Search.K = DefaultK
	}
	if c.Search.NumCandidates <= 0 {
		c.Search.NumCandidates = DefaultNumCandidates
	}
	if c.Search.MinScore == nil {
		v := DefaultMinScore
		c.Search.MinScore = &v
	}
	if c.Search.DefaultSize <= 0 {
		c.Search.DefaultSize = DefaultSize
	}
	if c.Search.BrandThreshold <= 0 {
		c.Search.BrandThreshold = DefaultBrandThreshold
	}
	if c.Search.CategoryInference == "" {
		c.Search.CategoryInference = "disabled"
	}
	if c.Search.CategoryThreshold <= 0 {
		c.Search.CategoryThreshold = DefaultBrandThreshold
	}
	if c.Search.EmbeddingTimeoutMs <= 0 {
		c.Search.EmbeddingTimeoutMs = 2000
	}
	if c.Search.RetrievalTimeoutMs <= 0 {
		c.Search.RetrievalTimeoutMs = 2000
	}

	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 16
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 200
	}

	if c.Catalog.Driver == "" {
		c.Catalog.Driver = "postgres"
	}
	if c.Catalog.Table == "" {
		c.Catalog.Table = DefaultCatalogTable
	}
	if c.Catalog.Workers <= 0 {
		c.Catalog.Workers = max(runtime.NumCPU()/2, 1)
	}
	if c.Catalog.BatchSize <= 0 {
		c.Catalog.BatchSize = 64
	}

	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "catalog:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding.base_url is required")
	}
	if c.Search.NumCandidates < c.Search.K {
		return fmt.Errorf("search.num_candidates (%d) must be >= search.k (%d)",
			c.Search.NumCandidates, c.Search.K)
	}
	if c.Search.MinScore != nil && *c.Search.MinScore < 0 {
		return fmt.Errorf("search.min_score must not be negative, got %v", *c.Search.MinScore)
	}
	if c.Search.DefaultSize < 1 || c.Search.DefaultSize > 50 {
		return fmt.Errorf("search.default_size must be between 1 and 50, got %d", c.Search.DefaultSize)
	}
	if c.Search.BrandThreshold > 100 {
		return fmt.Errorf("search.brand_threshold must be between 1 and 100, got %d", c.Search.BrandThreshold)
	}
	if c.Search.CategoryThreshold > 100 {
		return fmt.Errorf("search.category_threshold must be between 1 and 100, got %d", c.Search.CategoryThreshold)
	}
	switch c.Search.CategoryInference {
	case "disabled", "exact", "fuzzy":
		// ok
	default:
		return fmt.Errorf(
			"search.category_inference must be \"disabled\", \"exact\" or \"fuzzy\", got %q",
			c.Search.CategoryInference,
		)
	}
	for i, e := range c.Search.Categories {
		if strings.TrimSpace(e.Key) == "" {
			return fmt.Errorf("search.categories[%d].key is required", i)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

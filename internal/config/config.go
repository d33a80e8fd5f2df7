package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/hybridsearch/internal/domain/search/request"
)

// Config holds the hybridsearch API configuration.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Search        SearchConfig        `yaml:"search"`
	Summary       SummaryConfig       `yaml:"summary"`
	Cache         CacheConfig         `yaml:"cache"`
	Analytics     AnalyticsConfig     `yaml:"analytics"`
	Monitoring    MonitoringConfig    `yaml:"monitoring"`
	Auth          AuthConfig          `yaml:"auth"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
	File  string `yaml:"file"`  // optional rotated log file, teed with stdout
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ElasticsearchConfig holds search cluster settings.
type ElasticsearchConfig struct {
	Host          string `yaml:"host"`
	APIKey        string `yaml:"api_key"`
	Index         string `yaml:"index"` // combined index, used for "both"
	MainIndex     string `yaml:"main_index"`
	NewsIndex     string `yaml:"news_index"`
	SemanticField string `yaml:"semantic_field"`
	InferenceID   string `yaml:"inference_id"`
	TimeoutSec    int    `yaml:"timeout_sec"`
}

// SearchConfig holds pagination and request coalescing settings.
type SearchConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
	DebounceMs      int `yaml:"debounce_ms"`
	MaxSessions     int `yaml:"max_sessions"`
}

// SummaryConfig holds AI summary settings.
type SummaryConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Provider          string `yaml:"provider"` // elastic, openai, gemini
	InferenceEndpoint string `yaml:"inference_endpoint"`
	Model             string `yaml:"model"`
	APIKey            string `yaml:"api_key"`
	BaseURL           string `yaml:"base_url"`
	TopResults        int    `yaml:"top_results"`
	SnippetLength     int    `yaml:"snippet_length"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	DebounceMs        int    `yaml:"debounce_ms"`
}

// CacheConfig holds the Redis summary cache settings.
type CacheConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// AnalyticsConfig holds behavioral analytics settings.
type AnalyticsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Collection string `yaml:"collection"`
	Workers    int    `yaml:"workers"`
}

// MonitoringConfig holds span/error sink settings.
type MonitoringConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
}

// Summary providers.
const (
	ProviderElastic = "elastic"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Elasticsearch.Index == "" {
		c.Elasticsearch.Index = "search-emory-combined"
	}
	if c.Elasticsearch.MainIndex == "" {
		c.Elasticsearch.MainIndex = "search-emory-main-v2"
	}
	if c.Elasticsearch.NewsIndex == "" {
		c.Elasticsearch.NewsIndex = "search-emory-news-v2"
	}
	if c.Elasticsearch.SemanticField == "" {
		c.Elasticsearch.SemanticField = "emory_main_semantic_text"
	}
	if c.Elasticsearch.InferenceID == "" {
		c.Elasticsearch.InferenceID = ".elser-2-elasticsearch"
	}
	if c.Elasticsearch.TimeoutSec <= 0 {
		c.Elasticsearch.TimeoutSec = 10
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 10
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = request.MaxResultsPerPage
	}
	if c.Search.DebounceMs < 0 {
		c.Search.DebounceMs = 0
	}
	if c.Search.MaxSessions <= 0 {
		c.Search.MaxSessions = 10000
	}
	if c.Summary.Provider == "" {
		c.Summary.Provider = ProviderElastic
	}
	if c.Summary.TopResults <= 0 {
		c.Summary.TopResults = 5
	}
	if c.Summary.SnippetLength <= 0 {
		c.Summary.SnippetLength = 300
	}
	if c.Summary.DebounceMs <= 0 {
		c.Summary.DebounceMs = 1000
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Analytics.Workers <= 0 {
		c.Analytics.Workers = 4
	}
	if c.Monitoring.ServiceName == "" {
		c.Monitoring.ServiceName = "hybridsearch"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Elasticsearch.Host == "" {
		return fmt.Errorf("elasticsearch.host is required")
	}
	if c.Search.MaxPageSize > request.MaxResultsPerPage {
		return fmt.Errorf("search.max_page_size (%d) exceeds the hard limit of %d",
			c.Search.MaxPageSize, request.MaxResultsPerPage)
	}
	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return fmt.Errorf("search.default_page_size (%d) exceeds search.max_page_size (%d)",
			c.Search.DefaultPageSize, c.Search.MaxPageSize)
	}
	if c.Summary.Enabled {
		switch c.Summary.Provider {
		case ProviderElastic:
			if c.Summary.InferenceEndpoint == "" {
				return fmt.Errorf("summary.inference_endpoint is required for provider %q", ProviderElastic)
			}
		case ProviderOpenAI, ProviderGemini:
			if c.Summary.APIKey == "" {
				return fmt.Errorf("summary.api_key is required for provider %q", c.Summary.Provider)
			}
		default:
			return fmt.Errorf(
				"summary.provider must be %q, %q or %q, got %q",
				ProviderElastic, ProviderOpenAI, ProviderGemini, c.Summary.Provider,
			)
		}
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	if c.Analytics.Enabled && c.Analytics.Collection == "" {
		return fmt.Errorf("analytics.collection is required when analytics is enabled")
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

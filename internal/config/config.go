package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the copilot API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Quotes    QuotesConfig    `yaml:"quotes"`
	Social    SocialConfig    `yaml:"social"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
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

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	DSN              string `yaml:"dsn"`
	MaxOpenConns     int    `yaml:"max_open_conns"`
	MaxIdleConns     int    `yaml:"max_idle_conns"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds the optional Redis embedding-cache settings.
// Empty addrs disables the cache.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLHours int      `yaml:"ttl_hours"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// LLMConfig holds chat-completion provider settings.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

// CategoryConfig is one (threshold, limit) pair for a retrieval category.
type CategoryConfig struct {
	Threshold float64 `yaml:"threshold"`
	Limit     int     `yaml:"limit"`
}

// RetrievalConfig holds similarity-search parameters per category and the
// per-search timeout applied inside the fan-out.
type RetrievalConfig struct {
	Glossary         CategoryConfig `yaml:"glossary"`
	Patterns         CategoryConfig `yaml:"patterns"`
	Playbooks        CategoryConfig `yaml:"playbooks"`
	Brand            CategoryConfig `yaml:"brand"`
	SearchTimeoutSec int            `yaml:"search_timeout_sec"`
}

// QuotesConfig holds quote-cache settings.
type QuotesConfig struct {
	CacheTTLMin     int `yaml:"cache_ttl_min"`
	CacheMaxEntries int `yaml:"cache_max_entries"`
}

// SocialConfig holds social-signal cache settings.
type SocialConfig struct {
	CacheTTLMin     int `yaml:"cache_ttl_min"`
	CacheMaxEntries int `yaml:"cache_max_entries"`
}

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
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = 24
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = "https://api.openai.com/v1"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 15
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o"
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 2000
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 60
	}
	applyCategoryDefaults(&c.Retrieval.Glossary, 0.7, 5)
	applyCategoryDefaults(&c.Retrieval.Patterns, 0.7, 3)
	applyCategoryDefaults(&c.Retrieval.Playbooks, 0.7, 3)
	applyCategoryDefaults(&c.Retrieval.Brand, 0.6, 4)
	if c.Retrieval.SearchTimeoutSec <= 0 {
		c.Retrieval.SearchTimeoutSec = 5
	}
	if c.Quotes.CacheTTLMin <= 0 {
		c.Quotes.CacheTTLMin = 5
	}
	if c.Quotes.CacheMaxEntries <= 0 {
		c.Quotes.CacheMaxEntries = 256
	}
	if c.Social.CacheTTLMin <= 0 {
		c.Social.CacheTTLMin = 60
	}
	if c.Social.CacheMaxEntries <= 0 {
		c.Social.CacheMaxEntries = 64
	}
}

func applyCategoryDefaults(c *CategoryConfig, threshold float64, limit int) {
	if c.Threshold <= 0 {
		c.Threshold = threshold
	}
	if c.Limit <= 0 {
		c.Limit = limit
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	for name, cat := range map[string]CategoryConfig{
		"glossary":  c.Retrieval.Glossary,
		"patterns":  c.Retrieval.Patterns,
		"playbooks": c.Retrieval.Playbooks,
		"brand":     c.Retrieval.Brand,
	} {
		if cat.Threshold < 0 || cat.Threshold > 1 {
			return fmt.Errorf("retrieval.%s.threshold must be within [0, 1], got %g", name, cat.Threshold)
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

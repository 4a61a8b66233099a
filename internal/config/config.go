package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/thesisrec/internal/domain/recommendation"
)

// Config holds the thesisrec service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Corpus   CorpusConfig   `yaml:"corpus"`
	Auth     AuthConfig     `yaml:"auth"`
	LLM      LLMConfig      `yaml:"llm"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API key and user account settings.
type AuthConfig struct {
	APIKeys    []string `yaml:"api_keys"`
	BcryptCost int      `yaml:"bcrypt_cost"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	MaxUploadMB     int `yaml:"max_upload_mb"`

	// Browser origins allowed to call the API. Empty disables CORS headers.
	CORSOrigins []string `yaml:"cors_origins"`
	// Per-IP limit on login, registration, feedback and elaboration calls.
	// Zero disables limiting.
	RateLimitPerMin int `yaml:"rate_limit_per_min"`
}

// DatabaseConfig holds database connection settings. Empty addrs disables persistence.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool { return len(d.Addrs) > 0 }

// CorpusConfig holds corpus loading and ranking settings.
type CorpusConfig struct {
	CSVPath      string   `yaml:"csv_path"`
	Separator    string   `yaml:"separator"`
	NoHeader     bool     `yaml:"no_header"`
	DefaultTopN  int      `yaml:"default_top_n"`
	ExcludedTags []string `yaml:"excluded_tags"` // empty: program tags
	TopTags      int      `yaml:"top_tags"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// LLMConfig holds the conversational model settings. Empty model disables it.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float32       `yaml:"temperature"`
	CacheTTLSec int           `yaml:"cache_ttl_sec"` // completion cache, needs a database; 0 disables
	Budget      BudgetConfig  `yaml:"budget"`
	Breaker     BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds the provider circuit breaker settings.
type BreakerConfig struct {
	Failures       int `yaml:"failures"`         // consecutive failures that open the circuit
	OpenTimeoutSec int `yaml:"open_timeout_sec"` // wait before a half-open probe
}

// Enabled reports whether a chat model is configured.
func (l LLMConfig) Enabled() bool { return l.Model != "" }

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// Load reads configuration from a YAML file by environment name (local, dev, docker, prod).
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
	if c.HTTP.MaxUploadMB <= 0 {
		c.HTTP.MaxUploadMB = 16
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Corpus.Separator == "" {
		c.Corpus.Separator = ";"
	}
	if c.Corpus.DefaultTopN <= 0 {
		c.Corpus.DefaultTopN = 15
	}
	if c.Corpus.TopTags <= 0 {
		c.Corpus.TopTags = 10
	}
	if c.Auth.BcryptCost <= 0 {
		c.Auth.BcryptCost = 10
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 1024
	}
	if c.LLM.Budget.Action == "" {
		c.LLM.Budget.Action = "warn"
	}
	if c.LLM.Breaker.Failures <= 0 {
		c.LLM.Breaker.Failures = 5
	}
	if c.LLM.Breaker.OpenTimeoutSec <= 0 {
		c.LLM.Breaker.OpenTimeoutSec = 30
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "thesisrec:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.RateLimitPerMin < 0 {
		return fmt.Errorf("http.rate_limit_per_min must be >= 0, got %d", c.HTTP.RateLimitPerMin)
	}
	switch c.Database.Driver {
	case "", "valkey", "redis":
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	if c.Corpus.CSVPath == "" && !c.Database.Enabled() {
		return fmt.Errorf("corpus.csv_path or database.addrs is required")
	}
	if n := utf8.RuneCountInString(c.Corpus.Separator); n > 1 {
		return fmt.Errorf("corpus.separator must be a single character, got %q", c.Corpus.Separator)
	}
	if c.Corpus.DefaultTopN > recommendation.MaxTopN {
		return fmt.Errorf("corpus.default_top_n must be at most %d, got %d",
			recommendation.MaxTopN, c.Corpus.DefaultTopN)
	}
	if c.Auth.BcryptCost != 0 && (c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost) {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}
	switch c.LLM.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf("llm.budget.action must be \"warn\" or \"reject\", got %q", c.LLM.Budget.Action)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %v", c.LLM.Temperature)
	}
	if c.LLM.CacheTTLSec < 0 {
		return fmt.Errorf("llm.cache_ttl_sec must be >= 0, got %d", c.LLM.CacheTTLSec)
	}
	return nil
}

// SeparatorRune returns the CSV separator as a rune.
func (c CorpusConfig) SeparatorRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Separator)
	if r == utf8.RuneError {
		return ';'
	}
	return r
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

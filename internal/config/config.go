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

// Config holds the moviedex API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Metadata  MetadataConfig  `yaml:"metadata"`
	Summary   SummaryConfig   `yaml:"summary"`
	Recommend RecommendConfig `yaml:"recommend"`
	Session   SessionConfig   `yaml:"session"`
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
	ShutdownSec     int `yaml:"shutdown_sec"`
}

// CatalogConfig locates the similarity snapshot on disk.
type CatalogConfig struct {
	TablePath  string `yaml:"table_path"`
	MatrixPath string `yaml:"matrix_path"`
}

// MetadataConfig holds movie metadata provider (TMDB) settings.
type MetadataConfig struct {
	BaseURL         string `yaml:"base_url"`
	ImageBaseURL    string `yaml:"image_base_url"`
	APIKey          string `yaml:"api_key"`
	Language        string `yaml:"language"`
	FetchTimeoutSec int    `yaml:"fetch_timeout_sec"`
	ProbeTimeoutSec int    `yaml:"probe_timeout_sec"`
}

// SummaryConfig holds summary provider (OpenAI) settings.
type SummaryConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"` // optional, for OpenAI-compatible endpoints
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// RecommendConfig holds neighbor selection settings.
type RecommendConfig struct {
	TopK int `yaml:"top_k"`
}

// SessionConfig holds detail selection session settings.
type SessionConfig struct {
	MaxIdleSec       int `yaml:"max_idle_sec"`
	SweepIntervalSec int `yaml:"sweep_interval_sec"`
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
		// Summary generation is synchronous and can outlive a short write window.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Metadata.BaseURL == "" {
		c.Metadata.BaseURL = "https://api.themoviedb.org/3"
	}
	if c.Metadata.ImageBaseURL == "" {
		c.Metadata.ImageBaseURL = "https://image.tmdb.org/t/p/w500"
	}
	if c.Metadata.Language == "" {
		c.Metadata.Language = "en-US"
	}
	if c.Metadata.FetchTimeoutSec <= 0 {
		c.Metadata.FetchTimeoutSec = 10
	}
	if c.Metadata.ProbeTimeoutSec <= 0 {
		c.Metadata.ProbeTimeoutSec = 5
	}
	if c.Summary.Model == "" {
		c.Summary.Model = "gpt-4o-mini"
	}
	if c.Summary.MaxTokens <= 0 {
		c.Summary.MaxTokens = 400
	}
	if c.Recommend.TopK <= 0 {
		c.Recommend.TopK = 5
	}
	if c.Session.MaxIdleSec <= 0 {
		c.Session.MaxIdleSec = 3600
	}
	if c.Session.SweepIntervalSec <= 0 {
		c.Session.SweepIntervalSec = 300
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Catalog.TablePath == "" {
		return fmt.Errorf("catalog.table_path is required")
	}
	if c.Catalog.MatrixPath == "" {
		return fmt.Errorf("catalog.matrix_path is required")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf(
			"logging.level must be one of \"debug\", \"info\", \"warn\", \"error\", got %q",
			c.Logging.Level,
		)
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

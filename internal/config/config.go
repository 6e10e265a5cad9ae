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

// Config holds the gateway configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Sidecar   SidecarConfig   `yaml:"sidecar"`
	Redis     RedisConfig     `yaml:"redis"`
	Faiss     FaissConfig     `yaml:"faiss"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Embedding EmbeddingConfig `yaml:"embedding"`
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

// SidecarConfig holds the gRPC backend settings. One address serves both the
// embedding and the index service.
type SidecarConfig struct {
	GRPCAddress string `yaml:"grpc_address"`
}

// RedisConfig holds cache connection and key settings.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	CacheTTLSec      int      `yaml:"cache_ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// FaissConfig holds search request defaults for the index backend.
type FaissConfig struct {
	DefaultTopK     int    `yaml:"default_top_k"`
	DefaultNprobe   int    `yaml:"default_nprobe"`
	DefaultShardKey string `yaml:"default_shard_key"`
}

// RateLimitConfig holds admission limiter settings.
type RateLimitConfig struct {
	PermitLimit int `yaml:"permit_limit"`
	WindowSec   int `yaml:"window_sec"`
	QueueLimit  int `yaml:"queue_limit"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider     string       `yaml:"provider"` // sidecar (default), openai
	Model        string       `yaml:"model"`
	DisableCache bool         `yaml:"disable_cache"`
	OpenAI       OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig holds the OpenAI-compatible provider settings. Only used when
// embedding.provider is "openai".
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "vc:"
	}
	if c.Redis.CacheTTLSec <= 0 {
		c.Redis.CacheTTLSec = 300
	}
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
	if c.Faiss.DefaultTopK <= 0 {
		c.Faiss.DefaultTopK = 10
	}
	if c.Faiss.DefaultNprobe <= 0 {
		c.Faiss.DefaultNprobe = 10
	}
	if c.Faiss.DefaultShardKey == "" {
		c.Faiss.DefaultShardKey = "nyc_taxi_2023"
	}
	if c.RateLimit.PermitLimit <= 0 {
		c.RateLimit.PermitLimit = 100
	}
	if c.RateLimit.WindowSec <= 0 {
		c.RateLimit.WindowSec = 10
	}
	if c.RateLimit.QueueLimit <= 0 {
		c.RateLimit.QueueLimit = 50
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "sidecar"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "all-MiniLM-L6-v2"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Redis.Addrs) == 0 {
		return fmt.Errorf("redis.addrs is required")
	}
	// The index backend always lives on the sidecar, whichever embedding
	// provider is selected.
	if c.Sidecar.GRPCAddress == "" {
		return fmt.Errorf("sidecar.grpc_address is required")
	}
	switch c.Embedding.Provider {
	case "sidecar":
	case "openai":
		if c.Embedding.OpenAI.APIKey == "" {
			return fmt.Errorf("embedding.openai.api_key is required for the openai provider")
		}
	default:
		return fmt.Errorf("embedding.provider must be \"sidecar\" or \"openai\", got %q", c.Embedding.Provider)
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

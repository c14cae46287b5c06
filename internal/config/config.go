// Package config loads the server and game configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mvg01/liargame/internal/game"
	"github.com/mvg01/liargame/internal/llm"
)

const maxConfigSize = 1 << 20

// Config represents the application configuration
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Game    GameConfig    `yaml:"game"`
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LLMConfig selects and tunes the language-model collaborator
type LLMConfig struct {
	Provider string            `yaml:"provider"` // openai, gemini, offline
	Model    string            `yaml:"model"`
	APIKey   string            `yaml:"api_key"`
	BaseURL  string            `yaml:"base_url"`
	Sampling llm.SamplingTable `yaml:"sampling"`

	CallTimeout       time.Duration `yaml:"call_timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"` // 0 disables limiting
	Burst             int           `yaml:"burst"`
}

// GameConfig holds gameplay settings
type GameConfig struct {
	MaxHistoryLength int    `yaml:"max_history_length"`
	Narrator         bool   `yaml:"narrator"`
	TopicsFile       string `yaml:"topics_file"` // empty uses the built-in topics
}

// StoreConfig selects the session store
type StoreConfig struct {
	Backend       string        `yaml:"backend"` // memory, redis
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	RedisPrefix   string        `yaml:"redis_prefix"`
	LockLease     time.Duration `yaml:"lock_lease"`
	SessionTTL    time.Duration `yaml:"session_ttl"`    // 0 keeps sessions forever
	SweepSchedule string        `yaml:"sweep_schedule"` // cron spec for the memory store
}

// ServerConfig holds HTTP settings
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	PublicURL string `yaml:"public_url"` // base URL encoded into share QR codes
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json
}

// TracingConfig holds OpenTelemetry settings
type TracingConfig struct {
	Exporter string `yaml:"exporter"` // none, stdout, otlp
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o",
			Sampling:    llm.DefaultSampling(),
			CallTimeout: game.DefaultCallTimeout,
			Burst:       1,
		},
		Game: GameConfig{
			MaxHistoryLength: game.DefaultHistoryWindow,
		},
		Store: StoreConfig{
			Backend:       "memory",
			RedisAddr:     "localhost:6379",
			RedisPrefix:   "liargame:",
			LockLease:     time.Minute,
			SweepSchedule: "@every 1m",
		},
		Server: ServerConfig{Host: "0.0.0.0", Port: 8000},
		Log:    LogConfig{Level: "info", Format: "text"},
		Tracing: TracingConfig{
			Exporter: "none",
		},
	}
}

// Load reads dotenv files (".env" when none are given; missing files are
// ignored), then the optional YAML file at path, then environment overrides
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Default()
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if info.Size() > maxConfigSize {
			return nil, fmt.Errorf("config file too large: %d bytes", info.Size())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LIARGAME_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LIARGAME_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "openai":
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" && c.LLM.Provider == "openai" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Store.RedisPassword = v
	}
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "gemini":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("an API key is required for provider %s", c.LLM.Provider)
		}
	case "offline":
	default:
		return fmt.Errorf("unknown llm provider: %q", c.LLM.Provider)
	}
	if c.LLM.CallTimeout <= 0 {
		return errors.New("llm.call_timeout must be positive")
	}
	if c.LLM.RequestsPerSecond < 0 {
		return errors.New("llm.requests_per_second must not be negative")
	}

	switch c.Store.Backend {
	case "memory":
	case "redis":
		if c.Store.RedisAddr == "" {
			return errors.New("store.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	if c.Store.SessionTTL < 0 {
		return errors.New("store.session_ttl must not be negative")
	}

	switch c.Tracing.Exporter {
	case "", "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown trace exporter: %q", c.Tracing.Exporter)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	return nil
}

// Package config loads alertmesh settings from an optional YAML file,
// ALERTMESH_* environment variables and command line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hupe1980/alertmesh/logging"
)

// EnvPrefix prefixes every environment override, e.g. ALERTMESH_SERVER_ADDR.
const EnvPrefix = "ALERTMESH"

// Memory backends.
const (
	MemoryInMemory = "inmemory"
	MemoryRedis    = "redis"
)

// Summarizer providers.
const (
	ProviderRule      = "rule"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Memory     MemoryConfig     `mapstructure:"memory"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	CORS bool   `mapstructure:"cors"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// MemoryConfig selects the working memory backend.
type MemoryConfig struct {
	Backend string      `mapstructure:"backend"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the Redis memory backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

// SummarizerConfig selects the summarization strategy.
type SummarizerConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`   // empty keeps the provider default
	APIKey   string `mapstructure:"api_key"` // empty falls back to the SDK env var
}

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
	Runtime   bool   `mapstructure:"runtime"`
}

var defaults = map[string]any{
	"server.addr":           ":8080",
	"server.cors":           true,
	"log.level":             "info",
	"log.format":            "json",
	"log.add_source":        false,
	"memory.backend":        MemoryInMemory,
	"memory.redis.addr":     "localhost:6379",
	"memory.redis.password": "",
	"memory.redis.db":       0,
	"memory.redis.key":      "alertmesh:memory",
	"summarizer.provider":   ProviderRule,
	"summarizer.model":      "",
	"summarizer.api_key":    "",
	"metrics.namespace":     "",
	"metrics.runtime":       true,
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"addr":       "server.addr",
	"log-level":  "log.level",
	"log-format": "log.format",
	"memory":     "memory.backend",
	"redis-addr": "memory.redis.addr",
	"summarizer": "summarizer.provider",
}

// Default returns the built-in configuration, ignoring files and the
// environment.
func Default() *Config {
	var cfg Config
	if err := newViper().Unmarshal(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

func newViper() *viper.Viper {
	v := viper.New()

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	return v
}

// Load reads the configuration. An explicit path must exist; with an empty
// path ./alertmesh.yaml is read when present. Flags that were set on the
// command line override file and environment values.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := newViper()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("alertmesh")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	switch c.Memory.Backend {
	case MemoryInMemory:
	case MemoryRedis:
		if c.Memory.Redis.Addr == "" {
			errs = append(errs, errors.New("memory.redis.addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("memory.backend: unknown backend %q", c.Memory.Backend))
	}

	switch c.Summarizer.Provider {
	case ProviderRule, ProviderOpenAI, ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("summarizer.provider: unknown provider %q", c.Summarizer.Provider))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	return nil
}

// LoggerConfig converts the log settings for logging.NewLogger. out defaults
// to stdout.
func (c *Config) LoggerConfig(out io.Writer) *logging.Config {
	level, _ := logging.ParseLevel(c.Log.Level)

	if out == nil {
		out = os.Stdout
	}

	return &logging.Config{
		Level:     level,
		Format:    c.Log.Format,
		Output:    out,
		AddSource: c.Log.AddSource,
		Component: "alertmesh",
	}
}

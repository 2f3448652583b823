// Package config loads parseurl settings from a YAML file and the
// environment. Precedence, lowest first: defaults, file, environment, flags.
// Flags are applied by the CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jongio/parseurl/logutil"
	"github.com/jongio/parseurl/urlcache"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv and Load.
const (
	EnvPrefix    = "PARSEURL_"
	EnvConfig    = "PARSEURL_CONFIG"
	EnvDebug     = logutil.EnvDebug
	EnvOutput    = "PARSEURL_OUTPUT"
	EnvLogFormat = "PARSEURL_LOG_FORMAT"
	EnvCacheDir  = "PARSEURL_CACHE_DIR"
)

// Config is the full set of file-configurable settings.
type Config struct {
	Output    string      `yaml:"output"`
	Debug     bool        `yaml:"debug"`
	LogFormat string      `yaml:"logFormat"`
	Cache     CacheConfig `yaml:"cache"`
	MCP       MCPConfig   `yaml:"mcp"`
}

// CacheConfig configures the packed cache. An empty Dir disables it.
type CacheConfig struct {
	Dir             string        `yaml:"dir"`
	TTL             time.Duration `yaml:"ttl"`
	BreakerFailures int           `yaml:"breakerFailures"`
	BreakerTimeout  time.Duration `yaml:"breakerTimeout"`
}

// MCPConfig configures the MCP tool server.
type MCPConfig struct {
	RateLimit   float64 `yaml:"rateLimit"`
	Burst       int     `yaml:"burst"`
	MetricsPort int     `yaml:"metricsPort"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Output:    "default",
		LogFormat: string(logutil.FormatText),
		Cache: CacheConfig{
			TTL:             24 * time.Hour,
			BreakerFailures: urlcache.DefaultBreakerFailures,
			BreakerTimeout:  urlcache.DefaultBreakerTimeout,
		},
		MCP: MCPConfig{
			RateLimit: 10,
			Burst:     20,
		},
	}
}

// Load reads the file at path over the defaults, then applies the process
// environment. An empty path falls back to $PARSEURL_CONFIG, and if that is
// unset only defaults and environment are used.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.Environ()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path) // #nosec G304 -- user supplied config path
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from KEY=VALUE entries such as os.Environ().
func (c *Config) ApplyEnv(environ []string) error {
	vars := filterByPrefix(sliceToMap(environ), EnvPrefix)

	if v, ok := vars[EnvDebug]; ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebug, err)
		}
		c.Debug = debug
	}
	if v := vars[EnvOutput]; v != "" {
		c.Output = v
	}
	if v := vars[EnvLogFormat]; v != "" {
		c.LogFormat = v
	}
	if v, ok := vars[EnvCacheDir]; ok {
		c.Cache.Dir = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Output {
	case "default", "json", "yaml":
	default:
		return fmt.Errorf("output %q is not one of default, json, yaml", c.Output)
	}
	if _, err := logutil.ParseFormat(c.LogFormat); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.MCP.RateLimit < 0 {
		return fmt.Errorf("mcp.rateLimit must not be negative, got %g", c.MCP.RateLimit)
	}
	if c.MCP.RateLimit > 0 && c.MCP.Burst < 1 {
		return fmt.Errorf("mcp.burst must be at least 1 when rate limiting, got %d", c.MCP.Burst)
	}
	if c.MCP.MetricsPort < 0 || c.MCP.MetricsPort > 65535 {
		return fmt.Errorf("mcp.metricsPort %d is out of range", c.MCP.MetricsPort)
	}
	return nil
}

// CacheOptions returns the urlcache options for this configuration.
func (c *Config) CacheOptions(version string) urlcache.Options {
	return urlcache.Options{
		Dir:             c.Cache.Dir,
		TTL:             c.Cache.TTL,
		Version:         version,
		BreakerFailures: c.Cache.BreakerFailures,
		BreakerTimeout:  c.Cache.BreakerTimeout,
	}
}

// sliceToMap converts KEY=VALUE entries into a map, skipping malformed rows.
func sliceToMap(environ []string) map[string]string {
	result := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		result[k] = v
	}
	return result
}

// filterByPrefix keeps the entries whose key starts with prefix, compared
// case-insensitively. Keys are returned upper-cased.
func filterByPrefix(vars map[string]string, prefix string) map[string]string {
	result := make(map[string]string)
	prefix = strings.ToUpper(prefix)
	for k, v := range vars {
		if up := strings.ToUpper(k); strings.HasPrefix(up, prefix) {
			result[up] = v
		}
	}
	return result
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yanqian/hiking-guide/internal/domain/edge"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Edge       EdgeConfig       `yaml:"edge"`
	Form       FormConfig       `yaml:"form"`
	TrailCache TrailCacheConfig `yaml:"trailCache"`
}

// HTTPConfig controls server level behavior. TrustedProxies lists the IPs or
// CIDRs whose X-Forwarded-For is honored when resolving the client IP; empty
// trusts none.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	TrustedProxies []string        `yaml:"trustedProxies"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// EdgeConfig controls the /api forwarder.
type EdgeConfig struct {
	APIBaseURL   string        `yaml:"apiBaseUrl"`
	AllowOrigin  string        `yaml:"allowOrigin"`
	AllowMethods string        `yaml:"allowMethods"`
	AllowHeaders string        `yaml:"allowHeaders"`
	Timeout      time.Duration `yaml:"timeout"`
}

// FormConfig controls the server rendered trail safety form.
type FormConfig struct {
	APIBaseURL         string        `yaml:"apiBaseUrl"`
	Timeout            time.Duration `yaml:"timeout"`
	DefaultTrailID     string        `yaml:"defaultTrailId"`
	DefaultDescription string        `yaml:"defaultDescription"`
}

// TrailCacheConfig controls caching of the trail listing.
type TrailCacheConfig struct {
	TTL    time.Duration `yaml:"ttl"`
	Valkey ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// Load reads configuration from an optional .env file, a YAML file and
// environment variables, in that order of increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_TRUSTED_PROXIES"); v != "" {
		cfg.HTTP.TrustedProxies = splitList(v)
	}
	if v := os.Getenv("API_URL"); v != "" {
		cfg.Edge.APIBaseURL = v
	}
	if v := os.Getenv("EDGE_ALLOW_ORIGIN"); v != "" {
		cfg.Edge.AllowOrigin = v
	}
	if v := os.Getenv("EDGE_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Edge.Timeout = parsed
		}
	}
	if v := os.Getenv("FORM_API_BASE_URL"); v != "" {
		cfg.Form.APIBaseURL = v
	}
	if v := os.Getenv("FORM_DEFAULT_TRAIL_ID"); v != "" {
		cfg.Form.DefaultTrailID = v
	}
	if v := os.Getenv("TRAIL_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.TrailCache.TTL = parsed
		}
	}
	if v := os.Getenv("TRAIL_CACHE_VALKEY_ENABLED"); v != "" {
		cfg.TrailCache.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("TRAIL_CACHE_VALKEY_ADDR"); v != "" {
		cfg.TrailCache.Valkey.Addr = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Edge: EdgeConfig{
			APIBaseURL:   edge.DefaultAPIBaseURL,
			AllowOrigin:  edge.DefaultAllowOrigin,
			AllowMethods: edge.DefaultAllowMethods,
			AllowHeaders: edge.DefaultAllowHeaders,
			Timeout:      30 * time.Second,
		},
		Form: FormConfig{
			Timeout:        30 * time.Second,
			DefaultTrailID: "108",
		},
		TrailCache: TrailCacheConfig{
			TTL: 5 * time.Minute,
			Valkey: ValkeyConfig{
				Prefix: "hiking",
			},
		},
	}
}

// FormAPIBaseURL is the backend origin used by the form, defaulting to the
// edge forwarder's destination.
func (c *Config) FormAPIBaseURL() string {
	if strings.TrimSpace(c.Form.APIBaseURL) != "" {
		return c.Form.APIBaseURL
	}
	return c.Edge.APIBaseURL
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	for _, proxy := range c.HTTP.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("http.trustedProxies: %q is not an IP or CIDR", proxy)
		}
	}
	if err := validateOrigin("edge.apiBaseUrl", c.Edge.APIBaseURL); err != nil {
		return err
	}
	if strings.TrimSpace(c.Form.APIBaseURL) != "" {
		if err := validateOrigin("form.apiBaseUrl", c.Form.APIBaseURL); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.Edge.AllowOrigin) == "" {
		return errors.New("edge.allowOrigin cannot be empty")
	}
	if c.Edge.AllowOrigin == "*" {
		return errors.New("edge.allowOrigin must name a single origin, not a wildcard")
	}
	if c.Edge.Timeout < 0 {
		return errors.New("edge.timeout cannot be negative")
	}
	if c.TrailCache.TTL < 0 {
		return errors.New("trailCache.ttl cannot be negative")
	}
	if c.TrailCache.Valkey.Enabled && strings.TrimSpace(c.TrailCache.Valkey.Addr) == "" {
		return errors.New("trailCache.valkey.addr cannot be empty when valkey is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}

func validateOrigin(field, raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) origin", field)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", field)
	}
	return nil
}

func validProxy(raw string) bool {
	if net.ParseIP(raw) != nil {
		return true
	}
	_, _, err := net.ParseCIDR(raw)
	return err == nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

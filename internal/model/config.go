package model

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Config holds all client configuration
type Config struct {
	API          APIConfig         `yaml:"api" mapstructure:"api"`
	Site         SiteConfig        `yaml:"site" mapstructure:"site"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// APIConfig describes how to reach the analysis service.
// BaseURL is read once at startup and never changes for the process lifetime.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"` // 0 disables the bound
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// SiteConfig is the public origin used for permalinks
type SiteConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// CacheConfig controls the permalink lookup cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig paces batch submissions
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sizes the batch fetch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls terminal rendering
type OutputConfig struct {
	Color   bool `yaml:"color" mapstructure:"color"`
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := ".legm/cache"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".legm", "cache")
	}

	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   60 * time.Second,
			UserAgent: "legm-cli/0.1 (+https://github.com/ppiankov/legm)",
		},
		Site: SiteConfig{
			BaseURL: "https://legm.app",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         1,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}

// Validate checks the fields the client cannot run without
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url cannot be empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout cannot be negative")
	}
	if c.Concurrency.Workers <= 0 {
		return fmt.Errorf("concurrency.workers must be > 0")
	}
	if c.Cache.MemoryTTL < 0 || c.Cache.DiskTTL < 0 {
		return fmt.Errorf("cache TTLs cannot be negative")
	}
	if c.RateLimiting.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate_limiting.requests_per_second must be > 0")
	}
	return nil
}

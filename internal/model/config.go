package model

import "time"

// Config holds the complete runtime configuration
type Config struct {
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Fetch       FetchConfig       `yaml:"fetch" mapstructure:"fetch"`
	Tracker     TrackerConfig     `yaml:"tracker" mapstructure:"tracker"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// InputConfig bounds the text accepted by the pipeline
type InputConfig struct {
	MaxChars int `yaml:"max_chars" mapstructure:"max_chars"` // Size guard, counted in characters
}

// FetchConfig controls the optional URL input source
type FetchConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// TrackerConfig controls the optional issue-tracker input source,
// which shells out to an external CLI
type TrackerConfig struct {
	Command string        `yaml:"command" mapstructure:"command"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CacheConfig controls the in-memory cache for fetched source text
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig controls report emission
type OutputConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"` // Collector directory for report files
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
}

// ConcurrencyConfig controls batch processing only; a single pipeline
// invocation always runs synchronously
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig throttles outbound fetches in batch mode
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// DefaultConfig returns the built-in defaults, the lowest layer of the
// configuration hierarchy
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			MaxChars: 200_000,
		},
		Fetch: FetchConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Refract/0.3 (+https://github.com/refracthq/refract)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Tracker: TrackerConfig{
			Command: "gh",
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		Output: OutputConfig{
			Dir:           "./refract-reports",
			IncludeFooter: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             4,
		},
	}
}

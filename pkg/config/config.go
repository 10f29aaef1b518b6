package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"fetchanything/pkg/models"
	"fetchanything/pkg/parse"
	"fetchanything/pkg/utils"
)

const (
	DefaultLevel     = 2
	DefaultFilter    = "*"
	DefaultOutputDir = "downloads"
	DefaultUserAgent = "fetchanything/1.0"

	VisitedStoreMemory = "memory" // In-process map, the default
	VisitedStoreBadger = "badger" // In-memory BadgerDB, for very large crawls

	LogFormatText = "text"
	LogFormatJSON = "json"
)

// AppConfig holds the settings for one run. Values come from Default, then an optional YAML file,
// then explicitly set command-line flags
type AppConfig struct {
	Level              int              `yaml:"level"`                   // Maximum crawl depth
	Filter             string           `yaml:"filter"`                  // Filename filter (see pkg/match)
	OutputDir          string           `yaml:"out"`                     // Download directory
	Verbose            bool             `yaml:"verbose,omitempty"`       // Debug logging
	LogFormat          string           `yaml:"log_format,omitempty"`    // "text" or "json"
	UserAgent          string           `yaml:"user_agent,omitempty"`    // User-Agent header on every request
	VisitedStore       string           `yaml:"visited_store,omitempty"` // "memory" or "badger"
	NoProgress         bool             `yaml:"no_progress,omitempty"`   // Disable the per-file progress line
	HTTPClientSettings HTTPClientConfig `yaml:"http_client_settings,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	Timeout               time.Duration `yaml:"timeout,omitempty"`                 // Overall request timeout (0 = none; large downloads need room)
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake
	ResponseHeaderTimeout time.Duration `yaml:"response_header_timeout,omitempty"` // Time to wait for response headers
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"` // Timeout for 100-continue
	ForceAttemptHTTP2     *bool         `yaml:"force_attempt_http2,omitempty"`     // nil=default, true=force, false=disable
	DialerTimeout         time.Duration `yaml:"dialer_timeout,omitempty"`          // Connection dial timeout
	DialerKeepAlive       time.Duration `yaml:"dialer_keep_alive,omitempty"`       // TCP keep-alive interval
	MaxRedirects          int           `yaml:"max_redirects,omitempty"`           // Redirect hops followed per request
}

// Default returns the configuration used when neither a file nor flags override anything
func Default() AppConfig {
	return AppConfig{
		Level:        DefaultLevel,
		Filter:       DefaultFilter,
		OutputDir:    DefaultOutputDir,
		LogFormat:    LogFormatText,
		UserAgent:    DefaultUserAgent,
		VisitedStore: VisitedStoreMemory,
	}
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the file keep their current values
func LoadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read config '%s': %w", utils.ErrFilesystem, path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: parse config '%s': %w", utils.ErrConfigValidation, path, err)
	}
	return nil
}

// Request builds the immutable crawl request for seedURL. The seed must be an absolute URL
func (c *AppConfig) Request(seedURL string) (models.CrawlRequest, error) {
	if !parse.IsValidURL(seedURL) {
		return models.CrawlRequest{}, fmt.Errorf("%w: '%s' needs a scheme and a host", utils.ErrInvalidSeed, seedURL)
	}
	return models.CrawlRequest{
		SeedURL:   seedURL,
		MaxDepth:  c.Level,
		Filter:    c.Filter,
		OutputDir: c.OutputDir,
	}, nil
}

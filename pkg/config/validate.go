package config

import (
	"fmt"
	"time"

	"fetchanything/pkg/match"
	"fetchanything/pkg/utils"
)

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	// Level
	if c.Level < 0 {
		warnings = append(warnings, fmt.Sprintf("level cannot be negative (%d), setting to 0 (seed only)", c.Level))
		c.Level = 0
	}

	// Filter
	if c.Filter == "" {
		warnings = append(warnings, fmt.Sprintf("filter is empty, defaulting to '%s'", DefaultFilter))
		c.Filter = DefaultFilter
	}
	if _, errFilter := match.CompileFilter(c.Filter); errFilter != nil {
		return warnings, errFilter
	}

	// OutputDir
	if c.OutputDir == "" {
		warnings = append(warnings, fmt.Sprintf("out is empty, defaulting to '%s'", DefaultOutputDir))
		c.OutputDir = DefaultOutputDir
	}

	// LogFormat
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	case "":
		c.LogFormat = LogFormatText
	default:
		warnings = append(warnings, fmt.Sprintf("unknown log_format '%s', defaulting to '%s'", c.LogFormat, LogFormatText))
		c.LogFormat = LogFormatText
	}

	// UserAgent
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	// VisitedStore
	switch c.VisitedStore {
	case VisitedStoreMemory, VisitedStoreBadger:
	case "":
		c.VisitedStore = VisitedStoreMemory
	default:
		return warnings, fmt.Errorf("%w: visited_store must be '%s' or '%s', got '%s'",
			utils.ErrConfigValidation, VisitedStoreMemory, VisitedStoreBadger, c.VisitedStore)
	}

	// HTTPClientSettings defaults
	warnings = append(warnings, c.validateHTTPClientSettings()...)

	return warnings, nil
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *AppConfig) validateHTTPClientSettings() (warnings []string) {
	h := &c.HTTPClientSettings
	if h.Timeout < 0 {
		warnings = append(warnings, "http_client_settings.timeout cannot be negative, disabling timeout")
		h.Timeout = 0
	}
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 100
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 2
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = 10 * time.Second
	}
	if h.ResponseHeaderTimeout <= 0 {
		h.ResponseHeaderTimeout = 30 * time.Second
	}
	if h.ExpectContinueTimeout <= 0 {
		h.ExpectContinueTimeout = 1 * time.Second
	}
	if h.DialerTimeout <= 0 {
		h.DialerTimeout = 15 * time.Second
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = 30 * time.Second
	}
	if h.MaxRedirects <= 0 {
		h.MaxRedirects = 10
	}
	return warnings
}

package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fetchanything/pkg/utils"
)

func TestAppConfig_Validate_Defaults(t *testing.T) {
	cfg := Default()
	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, 2, cfg.Level)
	assert.Equal(t, "*", cfg.Filter)
	assert.Equal(t, "downloads", cfg.OutputDir)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, VisitedStoreMemory, cfg.VisitedStore)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)

	// Check HTTP client defaults
	assert.Equal(t, time.Duration(0), cfg.HTTPClientSettings.Timeout)
	assert.Equal(t, 100, cfg.HTTPClientSettings.MaxIdleConns)
	assert.Equal(t, 2, cfg.HTTPClientSettings.MaxIdleConnsPerHost)
	assert.Equal(t, 90*time.Second, cfg.HTTPClientSettings.IdleConnTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTPClientSettings.TLSHandshakeTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTPClientSettings.ResponseHeaderTimeout)
	assert.Equal(t, 1*time.Second, cfg.HTTPClientSettings.ExpectContinueTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTPClientSettings.DialerTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTPClientSettings.DialerKeepAlive)
	assert.Equal(t, 10, cfg.HTTPClientSettings.MaxRedirects)
}

func TestAppConfig_Validate_ZeroValue(t *testing.T) {
	cfg := AppConfig{}
	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Level, "zero level is valid and kept")
	assert.Equal(t, DefaultFilter, cfg.Filter)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.True(t, containsWarning(warnings, "filter is empty"))
	assert.True(t, containsWarning(warnings, "out is empty"))
}

func TestAppConfig_Validate_NegativeLevel(t *testing.T) {
	cfg := Default()
	cfg.Level = -3

	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Level)
	assert.True(t, containsWarning(warnings, "level cannot be negative"))
}

func TestAppConfig_Validate_InvalidFilter(t *testing.T) {
	cfg := Default()
	cfg.Filter = "report(.pdf"

	_, err := cfg.Validate()

	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrConfigValidation))
}

func TestAppConfig_Validate_UnknownLogFormat(t *testing.T) {
	cfg := Default()
	cfg.LogFormat = "xml"

	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.True(t, containsWarning(warnings, "unknown log_format"))
}

func TestAppConfig_Validate_VisitedStore(t *testing.T) {
	tests := []struct {
		name    string
		store   string
		want    string
		wantErr bool
	}{
		{"memory", VisitedStoreMemory, VisitedStoreMemory, false},
		{"badger", VisitedStoreBadger, VisitedStoreBadger, false},
		{"empty defaults to memory", "", VisitedStoreMemory, false},
		{"unknown rejected", "redis", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.VisitedStore = tt.store
			_, err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, utils.ErrConfigValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.VisitedStore)
		})
	}
}

func TestAppConfig_Validate_KeepsExplicitHTTPSettings(t *testing.T) {
	cfg := Default()
	cfg.HTTPClientSettings = HTTPClientConfig{
		Timeout:      2 * time.Minute,
		MaxIdleConns: 7,
		MaxRedirects: 3,
	}

	_, err := cfg.Validate()

	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.HTTPClientSettings.Timeout)
	assert.Equal(t, 7, cfg.HTTPClientSettings.MaxIdleConns)
	assert.Equal(t, 3, cfg.HTTPClientSettings.MaxRedirects)
}

func TestAppConfig_Validate_NegativeTimeout(t *testing.T) {
	cfg := Default()
	cfg.HTTPClientSettings.Timeout = -time.Second

	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.HTTPClientSettings.Timeout)
	assert.True(t, containsWarning(warnings, "timeout cannot be negative"))
}

// containsWarning checks if any warning contains the given substring
func containsWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

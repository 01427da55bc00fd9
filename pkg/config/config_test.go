package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "bg-BG", cfg.Browser.Locale)
	assert.Equal(t, 5, cfg.Sessions.Max)
	assert.Equal(t, 300, cfg.Sessions.IdleTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
browser:
  headless: false
  locale: en-US
sessions:
  max: 2
guard:
  allowed_hosts:
    - "*.example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "en-US", cfg.Browser.Locale)
	assert.Equal(t, 2, cfg.Sessions.Max)
	assert.Equal(t, []string{"*.example.com"}, cfg.Guard.AllowedHosts)

	// Untouched sections keep their defaults.
	assert.Equal(t, 300, cfg.Sessions.IdleTimeout)
	assert.Equal(t, 1280, cfg.Browser.ViewportWidth)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero max sessions", "sessions:\n  max: 0\n"},
		{"negative idle timeout", "sessions:\n  idle_timeout: -1\n"},
		{"zero viewport", "browser:\n  viewport_width: 0\n"},
		{"malformed yaml", "sessions: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

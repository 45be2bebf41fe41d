// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests in this file use t.Setenv and therefore cannot run in parallel.

func TestLoadConfigFileDefaults(t *testing.T) {
	cfg := &ServerConfig{}
	require.NoError(t, cfg.LoadConfigFile(""))

	assert.Equal(t, "localhost", cfg.Basic.Host)
	assert.Equal(t, "8383", cfg.Basic.Port)
	assert.Equal(t, "/", cfg.Basic.BasePath)
	assert.Equal(t, "api.mangadex.org", cfg.Upstream.APIURL.Host)
	assert.Equal(t, "https", cfg.Upstream.CoverURL.Scheme)
	assert.Equal(t, []string{"en"}, cfg.Reader.Languages)
	assert.NotEmpty(t, cfg.Instance.InstanceID)
}

func TestLoadConfigFileEnvironment(t *testing.T) {
	t.Setenv("MANGAFE_PORT", "9000")
	t.Setenv("MANGAFE_LANGUAGES", "en, ja,,pt-br")
	t.Setenv("MANGAFE_UPSTREAM_TIMEOUT", "3s")
	t.Setenv("MANGAFE_LIMITER", "true")
	t.Setenv("MANGAFE_LIMITER_RATE", "0.5")
	t.Setenv("MANGAFE_BASE_PATH", "/reader")

	cfg := &ServerConfig{}
	require.NoError(t, cfg.LoadConfigFile(""))

	assert.Equal(t, "9000", cfg.Basic.Port)
	assert.Equal(t, []string{"en", "ja", "pt-br"}, cfg.Reader.Languages)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.True(t, cfg.Limiter.Enabled)
	assert.InDelta(t, 0.5, cfg.Limiter.Rate, 1e-9)
	assert.Equal(t, "/reader/", cfg.Basic.BasePath)
}

func TestLoadConfigFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
basic:
  port: "8080"
  basePath: /manga-app/
reader:
  chapterPageSize: 50
  dataSaver: true
cache:
  enabled: true
  cacheTTL: 90s
`), 0o600))

	// Environment wins over the file for overwrite-tagged fields.
	t.Setenv("MANGAFE_PORT", "8181")

	cfg := &ServerConfig{}
	require.NoError(t, cfg.LoadConfigFile(path))

	assert.Equal(t, "8181", cfg.Basic.Port)
	assert.Equal(t, "/manga-app/", cfg.Basic.BasePath)
	assert.Equal(t, 50, cfg.Reader.ChapterPageSize)
	assert.True(t, cfg.Reader.DataSaver)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
}

func TestLoadConfigFileInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "Invalid MANGAFE_API_URL",
			env:  map[string]string{"MANGAFE_API_URL": "not-a-url"},
		},
		{
			name: "Chapter page size out of range",
			env:  map[string]string{"MANGAFE_CHAPTER_PAGE_SIZE": "0"},
		},
		{
			name: "Unknown log format",
			env:  map[string]string{"MANGAFE_LOG_FORMAT": "xml"},
		},
		{
			name: "Relative base path",
			env:  map[string]string{"MANGAFE_BASE_PATH": "reader"},
		},
		{
			name: "Limiter with zero burst",
			env:  map[string]string{"MANGAFE_LIMITER": "true", "MANGAFE_LIMITER_BURST": "0"},
		},
		{
			name: "Unparseable duration",
			env:  map[string]string{"MANGAFE_CACHE_TTL": "ten minutes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &ServerConfig{}
			assert.Error(t, cfg.LoadConfigFile(""))
		})
	}
}

func TestNormalizeBasePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "/"},
		{in: "/", want: "/"},
		{in: "/reader", want: "/reader/"},
		{in: "/reader/", want: "/reader/"},
		{in: "reader", wantErr: true},
		{in: "/a//b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := normalizeBasePath(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidBasePath)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFileMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want os.FileMode
	}{
		{"", 0o666},
		{"660", 0o660},
		{"0640", 0o640},
		{"rw-rw----", 0o660},
		{"rwxr-xr-x", 0o755},
	}

	for _, tt := range tests {
		got, err := parseFileMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseFileMode("999")
	assert.ErrorIs(t, err, errUnixSocketInvalidPermissions)
}

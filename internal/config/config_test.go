package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, ":7443", cfg.TLSListenAddr)
	assert.Equal(t, "/data/images", cfg.StoragePath)
	assert.False(t, cfg.EnableTLS)
	assert.Equal(t, 10_000_000, cfg.MaxRequestBytes)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ARX_LISTEN_ADDR", ":9000")
	t.Setenv("ARX_STORAGE_PATH", "/tmp/arx")
	t.Setenv("ARX_MAX_REQUEST_BYTES", "2048")
	t.Setenv("ARX_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/tmp/arx", cfg.StoragePath)
	assert.Equal(t, 2048, cfg.MaxRequestBytes)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"NotANumber", "ten"},
		{"Overflow", "99999999999999999999"},
		{"Zero", "0"},
		{"Negative", "-5"},
		{"Fraction", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ARX_MAX_REQUEST_BYTES", tt.value)

			cfg, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, 10_000_000, cfg.MaxRequestBytes)
		})
	}
}

func TestLoadJSONFile(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "server": {
    "documentRoot": "/srv/images",
    "httpPort": 8081,
    "httpsPort": 8443,
    "enableSsl": false,
    "keystorePath": "ignored.jks",
    "keystorePassword": "ignored"
  }
}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/images", cfg.StoragePath)
	assert.Equal(t, ":8081", cfg.ListenAddr)
	assert.Equal(t, ":8443", cfg.TLSListenAddr)
	assert.False(t, cfg.EnableTLS)
}

func TestLoadYAMLFileOverridesEnv(t *testing.T) {
	t.Setenv("ARX_STORAGE_PATH", "/from/env")
	path := writeConfig(t, "config.yaml", `
server:
  documentRoot: /from/file
  enableSsl: true
  certFile: /etc/arx/cert.pem
  keyFile: /etc/arx/key.pem
  maxRequestSize: 5000000
  logLevel: warn
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/file", cfg.StoragePath)
	assert.True(t, cfg.EnableTLS)
	assert.Equal(t, "/etc/arx/cert.pem", cfg.TLSCertFile)
	assert.Equal(t, "/etc/arx/key.pem", cfg.TLSKeyFile)
	assert.Equal(t, 5_000_000, cfg.MaxRequestBytes)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, ":7070", cfg.ListenAddr)
}

func TestLoadTLSWithoutCertificate(t *testing.T) {
	path := writeConfig(t, "config.yaml", "server:\n  enableSsl: true\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", "server: [unclosed")

	_, err := Load(path)
	assert.Error(t, err)
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr      string
	TLSListenAddr   string
	StoragePath     string
	EnableTLS       bool
	TLSCertFile     string
	TLSKeyFile      string
	MaxRequestBytes int
	LogLevel        string
}

// fileConfig mirrors the config file layout. It is YAML, and since YAML is a
// superset of JSON the historical config.json files load unchanged.
type fileConfig struct {
	Server struct {
		DocumentRoot   string `yaml:"documentRoot"`
		HTTPPort       int    `yaml:"httpPort"`
		HTTPSPort      int    `yaml:"httpsPort"`
		EnableSSL      *bool  `yaml:"enableSsl"`
		CertFile       string `yaml:"certFile"`
		KeyFile        string `yaml:"keyFile"`
		MaxRequestSize int    `yaml:"maxRequestSize"`
		LogLevel       string `yaml:"logLevel"`
	} `yaml:"server"`
}

// Load builds the configuration from defaults and ARX_* environment
// variables, then applies the config file at path when path is non-empty.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ListenAddr:      getEnv("ARX_LISTEN_ADDR", ":7070"),
		TLSListenAddr:   getEnv("ARX_TLS_LISTEN_ADDR", ":7443"),
		StoragePath:     getEnv("ARX_STORAGE_PATH", "/data/images"),
		EnableTLS:       getEnv("ARX_ENABLE_TLS", "") == "true",
		TLSCertFile:     getEnv("ARX_TLS_CERT_FILE", ""),
		TLSKeyFile:      getEnv("ARX_TLS_KEY_FILE", ""),
		MaxRequestBytes: getEnvInt("ARX_MAX_REQUEST_BYTES", 10_000_000),
		LogLevel:        getEnv("ARX_LOG_LEVEL", "info"),
	}

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.EnableTLS && (cfg.TLSCertFile == "" || cfg.TLSKeyFile == "") {
		return nil, fmt.Errorf("tls enabled but certificate or key file is not set")
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	s := fc.Server
	if s.DocumentRoot != "" {
		c.StoragePath = s.DocumentRoot
	}
	if s.HTTPPort != 0 {
		c.ListenAddr = fmt.Sprintf(":%d", s.HTTPPort)
	}
	if s.HTTPSPort != 0 {
		c.TLSListenAddr = fmt.Sprintf(":%d", s.HTTPSPort)
	}
	if s.EnableSSL != nil {
		c.EnableTLS = *s.EnableSSL
	}
	if s.CertFile != "" {
		c.TLSCertFile = s.CertFile
	}
	if s.KeyFile != "" {
		c.TLSKeyFile = s.KeyFile
	}
	if s.MaxRequestSize > 0 {
		c.MaxRequestBytes = s.MaxRequestSize
	}
	if s.LogLevel != "" {
		c.LogLevel = s.LogLevel
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// getEnvInt returns the positive integer in key, or defaultValue when the
// variable is unset, malformed, out of range or not positive.
func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

// Package config assembles runtime settings for the archive from built-in
// defaults, an optional JSON or YAML file, environment variables and
// command-line flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds runtime settings shared by the REPL, the HTTP API and the
// one-shot export/backup commands.
type Config struct {
	// Storage backend: sqlite (default), postgres or mysql.
	DBDriver    string
	DatabaseDSN string

	HTTPAddr  string
	JWTSecret string
	TokenTTL  time.Duration

	// AI collaborator. An empty AIAPIKey disables AI features.
	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	SubmitDelay time.Duration
	LoginDelay  time.Duration

	ExportDir string
	StrictCSV bool

	LogLevel  string
	LogFormat string

	// Optional off-device backup target. Upload is skipped when S3Bucket is empty.
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// DefaultJWTSecret is the placeholder secret of a fresh install. The HTTP
// API refuses to start with it.
const DefaultJWTSecret = "change-me"

// LoadDefaults populates Config with values suitable for a single-user
// local install.
func (c *Config) LoadDefaults() {
	c.DBDriver = "sqlite"
	c.DatabaseDSN = "file:arsip.db?_pragma=busy_timeout(5000)"
	c.HTTPAddr = ":8080"
	c.JWTSecret = DefaultJWTSecret
	c.TokenTTL = 12 * time.Hour
	c.AIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	c.AIModel = "gemini-3-flash-preview"
	c.SubmitDelay = 500 * time.Millisecond
	c.LoginDelay = time.Second
	c.ExportDir = "exports"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config from defaults, then the file named by -c/-config
// (if any), then environment variables, then the flags found in args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	parseEnv(cfg)
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

// CheckJWTSecret reports an error when JWTSecret is empty or still the
// public default.
func (c *Config) CheckJWTSecret() error {
	if c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret {
		return errors.New("jwt secret is unset or the default, set jwt_secret or ARSIP_JWT_SECRET")
	}
	return nil
}

// AIEnabled reports whether an AI credential is configured.
func (c *Config) AIEnabled() bool {
	return c.AIAPIKey != ""
}

// S3Enabled reports whether backups should be copied to object storage.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

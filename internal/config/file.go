package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/arsip/internal/flagx"
	"github.com/dmitrijs2005/arsip/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for decoding config files. Durations use
// timex.Duration so both "500ms" and integer nanoseconds are accepted.
// Keys missing from the file keep the value the struct was seeded with.
type fileConfig struct {
	DBDriver       string         `json:"db_driver" yaml:"db_driver"`
	DatabaseDSN    string         `json:"database_dsn" yaml:"database_dsn"`
	HTTPAddr       string         `json:"http_addr" yaml:"http_addr"`
	JWTSecret      string         `json:"jwt_secret" yaml:"jwt_secret"`
	TokenTTL       timex.Duration `json:"token_ttl" yaml:"token_ttl"`
	AIAPIKey       string         `json:"ai_api_key" yaml:"ai_api_key"`
	AIBaseURL      string         `json:"ai_base_url" yaml:"ai_base_url"`
	AIModel        string         `json:"ai_model" yaml:"ai_model"`
	SubmitDelay    timex.Duration `json:"submit_delay" yaml:"submit_delay"`
	LoginDelay     timex.Duration `json:"login_delay" yaml:"login_delay"`
	ExportDir      string         `json:"export_dir" yaml:"export_dir"`
	StrictCSV      bool           `json:"strict_csv" yaml:"strict_csv"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
	LogFormat      string         `json:"log_format" yaml:"log_format"`
	S3Bucket       string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey    string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key" yaml:"s3_secret_key"`
}

func toFile(c *Config) fileConfig {
	return fileConfig{
		DBDriver:       c.DBDriver,
		DatabaseDSN:    c.DatabaseDSN,
		HTTPAddr:       c.HTTPAddr,
		JWTSecret:      c.JWTSecret,
		TokenTTL:       timex.Duration{Duration: c.TokenTTL},
		AIAPIKey:       c.AIAPIKey,
		AIBaseURL:      c.AIBaseURL,
		AIModel:        c.AIModel,
		SubmitDelay:    timex.Duration{Duration: c.SubmitDelay},
		LoginDelay:     timex.Duration{Duration: c.LoginDelay},
		ExportDir:      c.ExportDir,
		StrictCSV:      c.StrictCSV,
		LogLevel:       c.LogLevel,
		LogFormat:      c.LogFormat,
		S3Bucket:       c.S3Bucket,
		S3Region:       c.S3Region,
		S3BaseEndpoint: c.S3BaseEndpoint,
		S3AccessKey:    c.S3AccessKey,
		S3SecretKey:    c.S3SecretKey,
	}
}

func (f fileConfig) apply(c *Config) {
	c.DBDriver = f.DBDriver
	c.DatabaseDSN = f.DatabaseDSN
	c.HTTPAddr = f.HTTPAddr
	c.JWTSecret = f.JWTSecret
	c.TokenTTL = f.TokenTTL.Duration
	c.AIAPIKey = f.AIAPIKey
	c.AIBaseURL = f.AIBaseURL
	c.AIModel = f.AIModel
	c.SubmitDelay = f.SubmitDelay.Duration
	c.LoginDelay = f.LoginDelay.Duration
	c.ExportDir = f.ExportDir
	c.StrictCSV = f.StrictCSV
	c.LogLevel = f.LogLevel
	c.LogFormat = f.LogFormat
	c.S3Bucket = f.S3Bucket
	c.S3Region = f.S3Region
	c.S3BaseEndpoint = f.S3BaseEndpoint
	c.S3AccessKey = f.S3AccessKey
	c.S3SecretKey = f.S3SecretKey
}

// parseFile overlays the file named by -c/-config onto cfg. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fc := toFile(cfg)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

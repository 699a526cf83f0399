package config

import "os"

// parseEnv overrides cfg with any of the recognised environment variables
// that are set and non-empty. API_KEY keeps the name used by existing
// deployments of the archive.
func parseEnv(cfg *Config) {
	for name, dst := range map[string]*string{
		"API_KEY":           &cfg.AIAPIKey,
		"ARSIP_DB_DRIVER":   &cfg.DBDriver,
		"ARSIP_DB_DSN":      &cfg.DatabaseDSN,
		"ARSIP_HTTP_ADDR":   &cfg.HTTPAddr,
		"ARSIP_JWT_SECRET":  &cfg.JWTSecret,
		"ARSIP_AI_BASE_URL": &cfg.AIBaseURL,
		"ARSIP_AI_MODEL":    &cfg.AIModel,
	} {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
}

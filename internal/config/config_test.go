package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"API_KEY", "ARSIP_DB_DRIVER", "ARSIP_DB_DSN", "ARSIP_HTTP_ADDR",
		"ARSIP_JWT_SECRET", "ARSIP_AI_BASE_URL", "ARSIP_AI_MODEL",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "gemini-3-flash-preview", c.AIModel)
	assert.Equal(t, 500*time.Millisecond, c.SubmitDelay)
	assert.Equal(t, time.Second, c.LoginDelay)
	assert.Equal(t, "exports", c.ExportDir)
	assert.False(t, c.StrictCSV)
	assert.False(t, c.AIEnabled())
	assert.False(t, c.S3Enabled())
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	clearEnv(t)

	c, err := LoadConfig(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, c)
}

func TestLoadConfig_JSONFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "arsip.json", `{
		"db_driver": "postgres",
		"database_dsn": "postgres://u:p@localhost/arsip",
		"submit_delay": "0s",
		"login_delay": 250000000,
		"s3_bucket": "arsip-backups"
	}`)

	c, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)

	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "postgres://u:p@localhost/arsip", c.DatabaseDSN)
	assert.Equal(t, time.Duration(0), c.SubmitDelay)
	assert.Equal(t, 250*time.Millisecond, c.LoginDelay)
	assert.True(t, c.S3Enabled())
	// keys absent from the file keep their defaults
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 12*time.Hour, c.TokenTTL)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "arsip.yaml", "http_addr: \":9090\"\nai_model: custom-model\nstrict_csv: true\ntoken_ttl: 1h\n")

	c, err := LoadConfig([]string{"-config", path})
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.Equal(t, "custom-model", c.AIModel)
	assert.True(t, c.StrictCSV)
	assert.Equal(t, time.Hour, c.TokenTTL)
}

func TestLoadConfig_BadFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig([]string{"-c", writeFile(t, "bad.json", "{ nope")})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "arsip.json", `{"database_dsn": "from-file", "http_addr": ":1111", "ai_model": "file-model"}`)

	t.Setenv("ARSIP_DB_DSN", "from-env")
	t.Setenv("ARSIP_HTTP_ADDR", ":2222")
	t.Setenv("API_KEY", "secret")

	c, err := LoadConfig([]string{"-c", path, "-http", ":3333", "-strict-csv", "-log-level", "debug"})
	require.NoError(t, err)

	assert.Equal(t, "file-model", c.AIModel, "file beats defaults")
	assert.Equal(t, "from-env", c.DatabaseDSN, "env beats file")
	assert.Equal(t, ":3333", c.HTTPAddr, "flag beats env")
	assert.True(t, c.StrictCSV)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.AIEnabled())
}

func TestLoadConfig_IgnoresForeignArgs(t *testing.T) {
	clearEnv(t)

	c, err := LoadConfig([]string{"export", "-out", "x.csv", "-driver", "mysql"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", c.DBDriver)
}

func TestCheckJWTSecret(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()
	assert.Error(t, c.CheckJWTSecret(), "default")

	c.JWTSecret = ""
	assert.Error(t, c.CheckJWTSecret(), "empty")

	c.JWTSecret = "s3cr3t-for-this-install"
	assert.NoError(t, c.CheckJWTSecret())
}

func TestPositional(t *testing.T) {
	args := []string{"-c", "arsip.yaml", "-dsn", "file:x.db", "-strict-csv", "backup.json"}
	assert.Equal(t, []string{"backup.json"}, Positional(args))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "MAX_TIME_STEPS", "MAX_NODE_STEPS", "ESTIMATE_RETENTION", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL", "MIGRATIONS_PATH"} {
		t.Setenv(k, "")
	}

	assert.Equal(t, 8080, ServerPort())
	assert.Equal(t, ":8080", ServerAddr())
	assert.Equal(t, int64(10_000), MaxTimeSteps())
	assert.Equal(t, int64(1_000_000), MaxNodeSteps())
	assert.Equal(t, 30*24*time.Hour, EstimateRetention())
	assert.Equal(t, 100.0, RateLimitRPS())
	assert.Equal(t, 20, RateLimitBurst())
	assert.Equal(t, "info", LogLevel())
	assert.Equal(t, "migrations", MigrationsPath())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_TIME_STEPS", "-4")
	t.Setenv("MAX_NODE_STEPS", "lots")
	t.Setenv("RATE_LIMIT_RPS", "fast")
	t.Setenv("ESTIMATE_RETENTION", "forever")

	assert.Equal(t, int64(10_000), MaxTimeSteps())
	assert.Equal(t, int64(1_000_000), MaxNodeSteps())
	assert.Equal(t, 100.0, RateLimitRPS())
	assert.Equal(t, 30*24*time.Hour, EstimateRetention())
}

func TestLoadReadsEnvFileAndSecret(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SERVER_PORT=9090\nMAX_TIME_STEPS=500\n"), 0o600))
	require.NoError(t, os.WriteFile(envFile+".secret", []byte("API_KEY=s3cret\n"), 0o600))

	t.Setenv("CURRENCY_ENV", envFile)
	// godotenv does not override variables that are already set
	t.Setenv("SERVER_PORT", "")
	os.Unsetenv("SERVER_PORT")
	t.Setenv("MAX_TIME_STEPS", "")
	os.Unsetenv("MAX_TIME_STEPS")
	t.Setenv("API_KEY", "")
	os.Unsetenv("API_KEY")

	require.NoError(t, Load())
	assert.Equal(t, 9090, ServerPort())
	assert.Equal(t, int64(500), MaxTimeSteps())
	assert.Equal(t, "s3cret", APIKey())
}

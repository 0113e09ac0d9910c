package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"CASES_TABLE", "STATE_TABLE", "PARAM_PREFIX", "SEED_FILE",
	"SESSION_TTL_MINUTES", "MAX_INPUT_LENGTH", "LOG_LEVEL", "LOG_FORMAT",
}

// isolate clears config variables and runs the test from an empty directory so
// a developer's .env.local is never picked up.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.UseDynamo())
	require.Equal(t, DefaultSeedFile, cfg.SeedFile)
	require.Equal(t, time.Hour, cfg.SessionTTL)
	require.Equal(t, 300, cfg.MaxInputLength)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Empty(t, cfg.ParamPrefix)
}

func TestLoad_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("CASES_TABLE", "fraud-cases")
	t.Setenv("STATE_TABLE", "fraud-calls")
	t.Setenv("PARAM_PREFIX", "/fraud-desk")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("MAX_INPUT_LENGTH", "not-a-number")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.UseDynamo())
	require.Equal(t, "fraud-cases", cfg.CasesTable)
	require.Equal(t, "/fraud-desk", cfg.ParamPrefix)
	require.Equal(t, 15*time.Minute, cfg.SessionTTL)
	require.Equal(t, DefaultMaxInputLength, cfg.MaxInputLength)
	require.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_ReadsDotEnvLocal(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(".", envFile), []byte("SEED_FILE=local/cases.yaml\nLOG_LEVEL=debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")
	// godotenv skips keys that exist at all, even when empty. The t.Setenv
	// cleanup from isolate restores the original value.
	require.NoError(t, os.Unsetenv("SEED_FILE"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "local/cases.yaml", cfg.SeedFile)
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	isolate(t)
	t.Setenv("CASES_TABLE", "fraud-cases")
	_, err := Load()
	require.ErrorContains(t, err, "set together")

	t.Setenv("STATE_TABLE", "fraud-calls")
	t.Setenv("SESSION_TTL_MINUTES", "0")
	_, err = Load()
	require.ErrorContains(t, err, "SESSION_TTL_MINUTES")

	t.Setenv("SESSION_TTL_MINUTES", "")
	t.Setenv("MAX_INPUT_LENGTH", "-1")
	_, err = Load()
	require.ErrorContains(t, err, "MAX_INPUT_LENGTH")
}

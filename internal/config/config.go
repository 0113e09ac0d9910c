// Package config handles fraud desk configuration from environment variables.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultSeedFile       = "shared-data/fraud_cases.json"
	DefaultSessionTTL     = 60 * time.Minute
	DefaultMaxInputLength = 300
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"

	// SeedParameter is the snapshot parameter name under PARAM_PREFIX.
	SeedParameter = "seed/fraud_cases"

	envFile = ".env.local"
)

// Config holds all runtime settings.
type Config struct {
	// DynamoDB tables. Both empty means the in-memory store.
	CasesTable string
	StateTable string

	ParamPrefix string // optional; enables the SSM seed source
	SeedFile    string

	SessionTTL     time.Duration
	MaxInputLength int

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, after applying .env.local
// when it exists. Variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load(envFile)

	cfg := &Config{
		CasesTable:     strings.TrimSpace(os.Getenv("CASES_TABLE")),
		StateTable:     strings.TrimSpace(os.Getenv("STATE_TABLE")),
		ParamPrefix:    strings.TrimSpace(os.Getenv("PARAM_PREFIX")),
		SeedFile:       getEnv("SEED_FILE", DefaultSeedFile),
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_MINUTES", int(DefaultSessionTTL/time.Minute))) * time.Minute,
		MaxInputLength: getEnvInt("MAX_INPUT_LENGTH", DefaultMaxInputLength),
		LogLevel:       getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:      getEnv("LOG_FORMAT", DefaultLogFormat),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	if (c.CasesTable == "") != (c.StateTable == "") {
		return errors.New("config: CASES_TABLE and STATE_TABLE must be set together")
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL_MINUTES must be positive")
	}
	if c.MaxInputLength <= 0 {
		return errors.New("config: MAX_INPUT_LENGTH must be positive")
	}
	return nil
}

// UseDynamo reports whether the DynamoDB tables are configured.
func (c *Config) UseDynamo() bool {
	return c.CasesTable != "" && c.StateTable != ""
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

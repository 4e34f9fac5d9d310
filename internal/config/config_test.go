package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c := load([]string{filepath.Join(t.TempDir(), "missing.hcl")})

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "gpt-3.5-turbo", c.OpenAIModel)
	assert.Equal(t, time.Hour, c.StalenessWindow)
	assert.Equal(t, 90*time.Second, c.GenerationTimeout)
	assert.Equal(t, 1, c.GenerateBatchSize)
	assert.Equal(t, 3, c.GenerateConcurrency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TW_DATABASE_DSN", "postgres://tw:tw@localhost:5432/tw?sslmode=disable")
	t.Setenv("TW_OPENAI_KEY", "sk-test")
	t.Setenv("TW_STALENESS_WINDOW", "30m")
	t.Setenv("TW_GENERATE_BATCH_SIZE", "5")

	c := load([]string{filepath.Join(t.TempDir(), "missing.hcl")})

	assert.Equal(t, "postgres://tw:tw@localhost:5432/tw?sslmode=disable", c.DatabaseDSN)
	assert.Equal(t, "sk-test", c.OpenAIKey)
	assert.Equal(t, 30*time.Minute, c.StalenessWindow)
	assert.Equal(t, 5, c.GenerateBatchSize)
	assert.NoError(t, c.Validate())
}

func TestLoad_HCLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
database_dsn = "postgres://from-file"
base_url     = "https://trendwise.example.com"
`), 0o600))

	c := load([]string{path})

	assert.Equal(t, "postgres://from-file", c.DatabaseDSN)
	assert.Equal(t, "https://trendwise.example.com", c.BaseURL)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Config{OpenAIKey: "k"}.Validate(), ErrMissingDatabaseDSN)
	assert.ErrorIs(t, Config{DatabaseDSN: "dsn"}.Validate(), ErrMissingOpenAIKey)
	assert.NoError(t, Config{DatabaseDSN: "dsn", OpenAIKey: "k"}.Validate())
}

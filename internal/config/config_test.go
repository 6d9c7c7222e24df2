package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	content := `
api:
  environment: "test"
  base_url: "localhost:8080"
  port: "8080"
  jwt_signing_key: "test-key"
  allowed_cors_domains: "http://localhost:3000"

gin:
  mode: "test"

postgres:
  host: "localhost"
  port: "5432"
  user: "raffle"
  password: "secret"
  db: "raffle_test"

raffle:
  number_min: 1
  number_max: 999999
  attempt_multiplier: 100
  conflict_retries: 3
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "8080", conf.API.Port)
	assert.Equal(t, "test-key", conf.API.JWTSigningKey)
	assert.Equal(t, "test", conf.Gin.Mode)
	assert.Equal(t, "raffle_test", conf.Postgres.DB)
	assert.Equal(t, 1, conf.Raffle.NumberMin)
	assert.Equal(t, 999999, conf.Raffle.NumberMax)
	assert.Equal(t, 100, conf.Raffle.AttemptMultiplier)
	assert.Equal(t, 3, conf.Raffle.ConflictRetries)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

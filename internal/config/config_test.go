package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `api:
  environment: "test"
  base_url: "localhost:9090"
  port: "9090"
  jwt_signing_key: "file-key"
  allowed_cors_domains:
    - "http://localhost:3000"

gin:
  mode: "test"

postgres:
  host: "db.internal"
  port: "5432"
  user: "app"
  password: "secret"
  db_name: "campus_events"
  ssl_mode: "disable"
`

func writeTestConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, "file-key", conf.API.JWTSigningKey)
	assert.Equal(t, []string{"http://localhost:3000"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "db.internal", conf.Postgres.Host)
	assert.Equal(t, "test", conf.Gin.Mode)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("API_JWT_SIGNING_KEY", "env-key")
	t.Setenv("POSTGRES_PASSWORD", "env-secret")

	conf, err := Load(writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "env-key", conf.API.JWTSigningKey)
	assert.Equal(t, "env-secret", conf.Postgres.Password)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

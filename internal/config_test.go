package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgconfig "beyondnp-backend/pkg/config"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Mongo.URI = "mongodb://localhost:27017"
	cfg.Auth.JWTSecret = "0123456789abcdef0123"
	return cfg
}

func TestDefaultConfigNeedsSecrets(t *testing.T) {
	cfg := NewDefaultConfig()
	require.Error(t, cfg.Validate())

	require.NoError(t, validConfig().Validate())
}

func TestAuthConfig_ShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"
	require.Error(t, cfg.Validate())
}

func TestMailConfig_ResendNeedsSender(t *testing.T) {
	cfg := validConfig()
	cfg.Mail.ResendAPIKey = "re_test"
	require.Error(t, cfg.Validate())

	cfg.Mail.From = "BeyondNP <noreply@beyondnp.com>"
	require.NoError(t, cfg.Validate())
}

func TestHTTPConfig_Address(t *testing.T) {
	cfg := HTTPConfig{Port: 5000}
	assert.Equal(t, ":5000", cfg.Address())

	cfg.Port = 70000
	require.Error(t, cfg.Validate())
}

func TestLoad_EnvironmentOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
app:
  log_level: debug
  http:
    port: 8080
mongo:
  uri: mongodb://file:27017
  database: fromfile
auth:
  jwt_secret: file-secret-0123456789
  token_ttl: 24h
  code_ttl: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("MONGODB_URI", "mongodb://env:27017")
	t.Setenv("PORT", "5000")

	cfg := NewDefaultConfig()
	require.NoError(t, pkgconfig.Load(path, cfg))

	assert.Equal(t, "mongodb://env:27017", cfg.Mongo.URI)
	assert.Equal(t, "fromfile", cfg.Mongo.Database)
	assert.Equal(t, 5000, cfg.App.HTTP.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.CodeTTL)
	assert.Equal(t, 15*time.Second, cfg.Mail.SendTimeout)
}

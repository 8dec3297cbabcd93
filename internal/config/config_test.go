package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)
	cfg, err := Load()
	req.NoError(err)
	req.Equal("0.0.0.0", cfg.AppHost)
	req.NotEmpty(cfg.HTTPPort)
	req.Equal("order_service", cfg.DB.Database)
	req.Equal("1h0m0s", cfg.TokenTTL.String())
	req.NoError(cfg.Validate())
}

func TestLoad_WSOrigins(t *testing.T) {
	t.Setenv("WS_ALLOWED_ORIGINS", "example.com, *.example.org ,")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"example.com", "*.example.org"}, cfg.WSAllowedOrigins)
}

func TestValidate_ProductionRequiresSecrets(t *testing.T) {
	req := require.New(t)
	cfg, err := Load()
	req.NoError(err)
	cfg.AppEnv = "production"
	cfg.JWTSecret = "dev-secret"
	req.Error(cfg.Validate())

	cfg.JWTSecret = "real-secret"
	req.NoError(cfg.Validate())
}

func TestDatabaseURL_EscapesPassword(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.DB.Password = "p@ss word"
	require.Contains(t, cfg.DatabaseURL(), "p%40ss+word")
}

func TestLoad_BadTokenTTL(t *testing.T) {
	t.Setenv("TOKEN_TTL", "soon")
	_, err := Load()
	require.Error(t, err)
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quitcoach/config"
)

func withConfig(t *testing.T, cfg config.Config) {
	t.Helper()
	saved := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = saved })
}

func TestGenerateAndExtractIdentity(t *testing.T) {
	withConfig(t, config.Config{Env: "development", JWTSecret: "test-secret"})

	tok, err := GenerateToken("8d3f6c2e-0f55-4d2b-9a43-1f1d3a0c9b7e", "coach", "kim@example.com", time.Hour)
	require.NoError(t, err)

	id, err := ExtractIdentity(tok)
	require.NoError(t, err)
	assert.Equal(t, "coach", id.Role)
	assert.Equal(t, "kim@example.com", id.Email)
}

func TestSecretKey_NoFallbackInProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	withConfig(t, config.Config{Env: "development"})
	devToken, err := GenerateToken("sub", "member", "", time.Hour)
	require.NoError(t, err)

	withConfig(t, config.Config{Env: "production"})
	_, err = GenerateToken("sub", "member", "", time.Hour)
	assert.Error(t, err)
	_, err = ExtractIdentity(devToken)
	assert.Error(t, err)
}

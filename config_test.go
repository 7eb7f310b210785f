// Package loadenv provides tests for environment-derived configuration.
package loadenv

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearInfisicalEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"INFISICAL_MACHINE_ID",
		"INFISICAL_SECRET_KEY",
		"INFISICAL_PROJECT_ID",
		"INFISICAL_ENVIRONMENT",
		"INFISICAL_SECRET_PATH",
		"INFISICAL_HOST",
	} {
		// t.Setenv registers restoration of the original value; the unset
		// afterwards makes the variable truly absent so envconfig defaults
		// apply.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults with empty environment", func(t *testing.T) {
		clearInfisicalEnv(t)
		t.Setenv("ENV", "production") // skip .env loading

		cfg, err := loadConfig()
		require.NoError(t, err)

		// Missing credentials are accepted at load time; authentication
		// fails on first use instead.
		assert.Empty(t, cfg.ClientID)
		assert.Empty(t, cfg.ClientSecret)
		assert.Empty(t, cfg.ProjectID)
		assert.Equal(t, EnvironmentDev, cfg.Environment)
		assert.Equal(t, "/", cfg.SecretPath)
		assert.Equal(t, "https://app.infisical.com", cfg.Host)
	})

	t.Run("explicit environment values win", func(t *testing.T) {
		clearInfisicalEnv(t)
		t.Setenv("ENV", "production")
		t.Setenv("INFISICAL_MACHINE_ID", "machine-id")
		t.Setenv("INFISICAL_SECRET_KEY", "machine-secret")
		t.Setenv("INFISICAL_PROJECT_ID", "proj-1")
		t.Setenv("INFISICAL_ENVIRONMENT", "staging")
		t.Setenv("INFISICAL_SECRET_PATH", "/backend")
		t.Setenv("INFISICAL_HOST", "https://infisical.internal")

		cfg, err := loadConfig()
		require.NoError(t, err)

		assert.Equal(t, "machine-id", cfg.ClientID)
		assert.Equal(t, "machine-secret", cfg.ClientSecret)
		assert.Equal(t, "proj-1", cfg.ProjectID)
		assert.Equal(t, EnvironmentStaging, cfg.Environment)
		assert.Equal(t, "/backend", cfg.SecretPath)
		assert.Equal(t, "https://infisical.internal", cfg.Host)
	})
}

// Package loadenv resolves client configuration from the process environment.
package loadenv

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the process-lifetime defaults for a Client: the machine
// identity used to authenticate and the scope every operation falls back to
// when no per-call override is given. Resolved once at construction and
// read-only afterwards.
type Config struct {
	// ClientID and ClientSecret form the default machine identity. Empty
	// values are accepted here; authentication will fail on first use.
	ClientID     string `envconfig:"INFISICAL_MACHINE_ID"`
	ClientSecret string `envconfig:"INFISICAL_SECRET_KEY"`

	// ProjectID is the default project. Operations without a project
	// override fail with ErrMissingProject when this is empty.
	ProjectID string `envconfig:"INFISICAL_PROJECT_ID"`

	// Environment and SecretPath scope reads and writes by default.
	Environment Environment `envconfig:"INFISICAL_ENVIRONMENT" default:"dev"`
	SecretPath  string      `envconfig:"INFISICAL_SECRET_PATH" default:"/"`

	// Host is the base URL of the Infisical deployment.
	Host string `envconfig:"INFISICAL_HOST" default:"https://app.infisical.com"`
}

// loadConfig reads configuration from the environment, loading a .env file
// first outside production. A missing .env file is not an error.
func loadConfig() (*Config, error) {
	env := os.Getenv("ENV")
	if env != "production" && env != "prod" {
		_ = godotenv.Load(".env")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}

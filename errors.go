// Package loadenv provides custom error types for Infisical secret operations.
//
// # Error Handling Security
//
// This package defines typed errors to ensure secure error handling:
//
// - Errors never expose secret values in their messages
// - Use errors.Is() / errors.As() to check for specific error types
// - Error messages provide operation and scope context without leaking secrets
// - Remote API errors are wrapped to prevent information leakage
package loadenv

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingProject is returned when an operation cannot resolve a project
	// identifier from either a per-call override or the client's defaults.
	// It is raised before any cache lookup or remote call; supplying a project
	// via WithProject or INFISICAL_PROJECT_ID resolves it.
	ErrMissingProject = errors.New("project ID must be provided or set via INFISICAL_PROJECT_ID")

	// ErrSecretNotFound is returned when a requested secret does not exist in
	// the resolved scope. This typically occurs when the secret name, path,
	// or environment is wrong.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretEmpty is returned when the remote service answers a fetch with
	// a record carrying no value. This may indicate the secret was created but
	// never populated, or that values were excluded by the listing flags.
	ErrSecretEmpty = errors.New("secret value is empty")
)

// APIError describes a non-success response from the Infisical API.
// The message comes from the remote error body and never contains secret
// values; the status code allows callers to distinguish auth failures from
// missing resources.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("infisical API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("infisical API error: status %d: %s", e.StatusCode, e.Message)
}

// handleError processes errors from remote operations, providing consistent
// error handling and wrapping with operational context.
//
// It preserves the package's sentinel errors as-is while wrapping other
// errors with the operation name for better diagnosis.
func handleError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrMissingProject) ||
		errors.Is(err, ErrSecretNotFound) ||
		errors.Is(err, ErrSecretEmpty) {
		return err
	}

	return fmt.Errorf("%s operation failed: %w", operation, err)
}

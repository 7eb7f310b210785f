// Package loadenv defines interfaces for Infisical secret operations.
package loadenv

import "context"

// SecretsAPI defines the interface for Infisical secret operations.
// This interface abstracts the REST client to enable testing with mocks and
// to provide a stable API surface.
type SecretsAPI interface {
	// GetSecret retrieves a single secret by name within a scope.
	GetSecret(ctx context.Context, params *GetSecretInput) (*SecretRecord, error)

	// ListSecrets retrieves the secrets of a scope, in remote order.
	ListSecrets(ctx context.Context, params *ListSecretsInput) ([]SecretRecord, error)

	// CreateSecret creates a new secret and returns the created record.
	CreateSecret(ctx context.Context, params *CreateSecretInput) (*SecretRecord, error)

	// UpdateSecret updates a secret addressed by its current name.
	UpdateSecret(ctx context.Context, params *UpdateSecretInput) error
}

// apiFactory builds a SecretsAPI bound to the given credentials. The client
// uses it to construct one-shot capabilities for per-call credential
// overrides without retaining them.
type apiFactory func(ctx context.Context, creds Credentials) (SecretsAPI, error)

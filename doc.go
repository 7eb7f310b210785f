// Package loadenv provides a high-level, testable client for the Infisical
// secret-management service featuring structured logging, scoped in-memory
// caching, and environment-derived defaults.
//
// The client wraps the Infisical v3 raw-secrets REST API to provide:
//   - Simple methods for core operations: Get, GetAll, ListSecrets,
//     CreateSecret, UpdateSecret, GetSecretRecord
//   - Scoped caching via ScopedCache, keyed by (project, environment, path,
//     name), with prefix invalidation on every mutation
//   - Per-call overrides for project, environment, path, and credentials
//   - Consistent, security-conscious error handling with typed errors
//
// Security considerations
//
//   - The package never logs secret values; only metadata like secret names
//   - SecretValue redacts itself when printed or JSON-marshaled; callers must
//     use Reveal to obtain the raw value
//   - Typed errors (ErrMissingProject, ErrSecretNotFound, ErrSecretEmpty)
//     avoid leaking sensitive details while remaining actionable
//
// # Thread safety
//
// All exported client methods are safe for concurrent use by multiple
// goroutines. ScopedCache is protected by a mutex; scope defaults are
// resolved once at construction and never mutated. Note that two concurrent
// cache misses for the same key may both reach the remote service; callers
// needing single-flight semantics must coordinate externally.
//
// # Usage
//
// See the package tests for basic usage, caching, per-call overrides, and
// error handling patterns.
package loadenv

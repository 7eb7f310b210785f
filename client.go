// Package loadenv provides a Go client for the Infisical secret-management
// service with scoped caching and comprehensive error handling.
//
// # Security Considerations
//
// This package is designed with security as a first-class concern:
//
//   - Never log secret values - this package only logs secret names, scope,
//     and operation metadata
//   - SecretValue redacts itself when printed or encoded; use Reveal to read
//     the raw value
//   - Machine-identity credentials are held only by the transport; per-call
//     credential overrides build one-shot transports that are not retained
//
// # Thread Safety
//
// All Client methods are safe for concurrent use by multiple goroutines.
// The REST transport is immutable after login, the cache is mutex-protected,
// and scope defaults are read-only after construction.
package loadenv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Client provides a high-level interface for Infisical secrets. It composes
// a remote capability with a scoped cache and process-lifetime scope
// defaults. Reads consult the cache first; every mutation invalidates the
// affected scope's cached entries.
type Client struct {
	// api is the default remote capability, built once at construction
	api SecretsAPI

	// newAPI builds one-shot capabilities for per-call credential overrides
	newAPI apiFactory

	// cache holds fetched secret values keyed by scope-prefixed keys; nil
	// disables caching
	cache *ScopedCache

	// logger is used for structured logging of operations; nil disables it
	logger *slog.Logger

	// defaults holds the read-only scope defaults resolved at construction
	defaults *Config
}

// New creates a client from the process environment. A .env file is loaded
// first outside production; explicit values in cfg-style environment
// variables win. The universal-auth login happens immediately: if the host
// is unreachable or the machine identity is rejected, New fails and no
// client is returned.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := loadenv.New(ctx,
//	    loadenv.WithLogger(slog.Default()),
//	)
func New(ctx context.Context, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return NewWithConfig(ctx, cfg, opts...)
}

// NewWithConfig creates a client from an explicit configuration, skipping
// environment loading. This is useful for tests and for embedders that
// resolve configuration themselves.
func NewWithConfig(ctx context.Context, cfg *Config, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	options := defaultOptions()
	applyOptions(options, opts)

	factory := func(ctx context.Context, creds Credentials) (SecretsAPI, error) {
		return newRestAPI(ctx, cfg.Host, creds)
	}

	api := options.api
	if api == nil {
		var err error
		api, err = factory(ctx, Credentials{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize infisical client: %w", err)
		}
	}

	cache := options.cache
	if !options.cacheSet {
		cache = NewScopedCache(options.cacheTTL, options.cacheSize)
	}

	client := &Client{
		api:      api,
		newAPI:   factory,
		cache:    cache,
		logger:   options.logger,
		defaults: cfg,
	}

	if client.logger != nil {
		client.logger.InfoContext(ctx, "infisical client initialized",
			"host", cfg.Host,
			"environment", string(cfg.Environment))
	}

	return client, nil
}

// resolveScope applies the client defaults to a call's overrides. The
// returned path is the caller-supplied one verbatim (empty when not
// overridden); use defaultedPath for remote calls. A missing project fails
// with ErrMissingProject before any cache or remote access.
func (c *Client) resolveScope(cfg *callConfig) (projectID string, env Environment, path string, err error) {
	projectID = cfg.project
	if projectID == "" {
		projectID = c.defaults.ProjectID
	}
	if projectID == "" {
		return "", "", "", ErrMissingProject
	}

	env = cfg.environment
	if env == "" {
		env = c.defaults.Environment
	}
	if env == "" {
		env = EnvironmentDev
	}

	return projectID, env, cfg.path, nil
}

// defaultedPath substitutes the instance default for an empty path. Remote
// calls always address a concrete path; cache keys keep the raw one.
func (c *Client) defaultedPath(path string) string {
	if path == "" {
		return c.defaults.SecretPath
	}
	return path
}

// mapRemoteError converts remote API failures into the package's error
// vocabulary, wrapping everything else with operation context.
func mapRemoteError(err error, operation string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return handleError(ErrSecretNotFound, operation)
	}
	return handleError(err, operation)
}

// Get retrieves the value of a secret, consulting the scoped cache first.
//
// On a cache hit the remote service is not contacted at all. On a miss the
// secret is fetched, cached under project:environment:path:name, and
// returned. The cache key uses the caller-supplied path verbatim; the remote
// call falls back to the default secret path when none is given.
//
// WithCredentials authenticates this call with a one-shot capability bound
// to the supplied machine identity; the capability is discarded afterwards
// but the fetched value is still cached.
//
// Example usage:
//
//	value, err := client.Get(ctx, "DATABASE_URL",
//	    loadenv.WithProject("my-project"),
//	    loadenv.WithEnvironment(loadenv.EnvironmentProd),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	connect(value.Reveal())
func (c *Client) Get(ctx context.Context, name string, opts ...CallOption) (SecretValue, error) {
	if ctx == nil {
		return SecretValue{}, fmt.Errorf("context cannot be nil")
	}
	if name == "" {
		return SecretValue{}, fmt.Errorf("secret name cannot be empty")
	}

	cfg := resolveCall(opts)
	projectID, env, path, err := c.resolveScope(cfg)
	if err != nil {
		return SecretValue{}, err
	}

	key := cacheKey(projectID, env, path, name)
	if c.cache != nil {
		if cached, found := c.cache.Get(key); found {
			if value, ok := cached.(SecretValue); ok {
				if c.logger != nil {
					c.logger.DebugContext(ctx, "cache hit for secret",
						"secret_name", name,
						"project", projectID,
						"environment", string(env))
				}
				return value, nil
			}
		}
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "retrieving secret",
			"secret_name", name,
			"project", projectID,
			"environment", string(env))
	}

	api := c.api
	if cfg.credentials != nil {
		api, err = c.newAPI(ctx, *cfg.credentials)
		if err != nil {
			return SecretValue{}, handleError(err, "Get")
		}
	}

	record, err := api.GetSecret(ctx, &GetSecretInput{
		SecretName:  name,
		ProjectID:   projectID,
		Environment: string(env),
		SecretPath:  c.defaultedPath(path),
	})
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to retrieve secret",
				"secret_name", name,
				"project", projectID,
				"error", err)
		}
		return SecretValue{}, mapRemoteError(err, "Get")
	}
	if record.SecretValue == "" {
		return SecretValue{}, handleError(ErrSecretEmpty, "Get")
	}

	value := NewSecretValue(record.SecretValue)
	if c.cache != nil {
		c.cache.Set(key, value, 0)
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "secret retrieved successfully",
			"secret_name", name,
			"project", projectID)
	}

	return value, nil
}

// GetAll retrieves every secret of a scope as a name-to-value map. The call
// always bypasses the cache: bulk listings are never cached, only
// individual Get results are. Records without a name are skipped; an empty
// scope yields an empty map, and a failed listing yields no partial result.
func (c *Client) GetAll(ctx context.Context, opts ...CallOption) (map[string]SecretValue, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	cfg := resolveCall(opts)
	projectID, env, path, err := c.resolveScope(cfg)
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "retrieving all secrets",
			"project", projectID,
			"environment", string(env),
			"path", c.defaultedPath(path))
	}

	records, err := c.api.ListSecrets(ctx, &ListSecretsInput{
		ProjectID:              projectID,
		Environment:            string(env),
		SecretPath:             c.defaultedPath(path),
		ExpandSecretReferences: true,
		ViewSecretValue:        true,
		Recursive:              false,
		IncludeImports:         true,
	})
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to retrieve secrets",
				"project", projectID,
				"error", err)
		}
		return nil, mapRemoteError(err, "GetAll")
	}

	result := make(map[string]SecretValue, len(records))
	for _, record := range records {
		if record.SecretKey == "" {
			continue
		}
		result[record.SecretKey] = NewSecretValue(record.SecretValue)
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "secrets retrieved successfully",
			"project", projectID,
			"count", len(result))
	}

	return result, nil
}

// ListSecrets retrieves the full secret records of a scope, in the order the
// remote service yields them. Results are never cached.
//
// Listing flags default to expand references, include values, non-recursive,
// include imports, and no tag filter; each can be overridden with
// WithExpandReferences, WithViewValues, WithRecursive, WithImports, and
// WithTagFilters.
func (c *Client) ListSecrets(ctx context.Context, opts ...CallOption) ([]SecretRecord, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	cfg := resolveCall(opts)
	projectID, env, path, err := c.resolveScope(cfg)
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "listing secrets",
			"project", projectID,
			"environment", string(env),
			"path", c.defaultedPath(path))
	}

	records, err := c.api.ListSecrets(ctx, &ListSecretsInput{
		ProjectID:              projectID,
		Environment:            string(env),
		SecretPath:             c.defaultedPath(path),
		ExpandSecretReferences: boolOrDefault(cfg.expandReferences, true),
		ViewSecretValue:        boolOrDefault(cfg.viewValues, true),
		Recursive:              boolOrDefault(cfg.recursive, false),
		IncludeImports:         boolOrDefault(cfg.includeImports, true),
		TagFilters:             cfg.tagFilters,
	})
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to list secrets",
				"project", projectID,
				"error", err)
		}
		return nil, mapRemoteError(err, "ListSecrets")
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "secrets listed successfully",
			"project", projectID,
			"count", len(records))
	}

	return records, nil
}

// CreateSecret creates a new secret and returns the created record. The
// remote service is the authority on name collisions; no pre-check is done
// here and duplicate-name failures propagate unchanged.
//
// On success every cached entry under the resolved scope is invalidated,
// covering both the resolved path and the empty-path key space a prior Get
// may have cached under.
func (c *Client) CreateSecret(ctx context.Context, name, value string, opts ...CallOption) (*SecretRecord, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if name == "" {
		return nil, fmt.Errorf("secret name cannot be empty")
	}
	if value == "" {
		return nil, fmt.Errorf("secret value cannot be empty")
	}

	cfg := resolveCall(opts)
	projectID, env, path, err := c.resolveScope(cfg)
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "creating secret",
			"secret_name", name,
			"project", projectID,
			"environment", string(env))
	}

	record, err := c.api.CreateSecret(ctx, &CreateSecretInput{
		SecretName:               name,
		SecretValue:              value,
		ProjectID:                projectID,
		Environment:              string(env),
		SecretPath:               c.defaultedPath(path),
		SecretComment:            cfg.comment,
		SkipMultilineEncoding:    cfg.skipMultilineEncoding,
		SecretReminderRepeatDays: cfg.reminderRepeatDays,
		SecretReminderNote:       cfg.reminderNote,
	})
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to create secret",
				"secret_name", name,
				"project", projectID,
				"error", err)
		}
		return nil, mapRemoteError(err, "CreateSecret")
	}

	c.invalidateScope(ctx, projectID, env, c.defaultedPath(path))

	if c.logger != nil {
		c.logger.InfoContext(ctx, "secret created successfully",
			"secret_name", name,
			"project", projectID)
	}

	return record, nil
}

// UpdateSecret updates a secret addressed by its current name. The value,
// name, comment, reminder, metadata, and tags are only touched when the
// corresponding option is supplied.
//
// Invalidation is keyed by the current name's scope; when the secret is
// renamed via WithNewName, entries cached under the new name are not purged
// and the first read under the new name fetches fresh.
func (c *Client) UpdateSecret(ctx context.Context, currentName string, opts ...CallOption) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	if currentName == "" {
		return fmt.Errorf("secret name cannot be empty")
	}

	cfg := resolveCall(opts)
	projectID, env, path, err := c.resolveScope(cfg)
	if err != nil {
		return err
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "updating secret",
			"secret_name", currentName,
			"project", projectID,
			"environment", string(env))
	}

	input := &UpdateSecretInput{
		CurrentSecretName:        currentName,
		ProjectID:                projectID,
		Environment:              string(env),
		SecretPath:               c.defaultedPath(path),
		NewSecretName:            cfg.newName,
		SecretComment:            cfg.comment,
		SkipMultilineEncoding:    cfg.skipMultilineEncoding,
		SecretReminderRepeatDays: cfg.reminderRepeatDays,
		SecretReminderNote:       cfg.reminderNote,
		Metadata:                 cfg.metadata,
		TagIDs:                   cfg.tagIDs,
	}
	if cfg.newValue != nil {
		input.NewSecretValue = *cfg.newValue
		input.HasNewSecretValue = true
	}

	if err := c.api.UpdateSecret(ctx, input); err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to update secret",
				"secret_name", currentName,
				"project", projectID,
				"error", err)
		}
		return mapRemoteError(err, "UpdateSecret")
	}

	c.invalidateScope(ctx, projectID, env, c.defaultedPath(path))

	if c.logger != nil {
		c.logger.InfoContext(ctx, "secret updated successfully",
			"secret_name", currentName,
			"project", projectID)
	}

	return nil
}

// GetSecretRecord retrieves the complete record of a secret, including
// comment, version, tags, and metadata. The call always bypasses the cache;
// use Get when only the value is needed.
func (c *Client) GetSecretRecord(ctx context.Context, name string, opts ...CallOption) (*SecretRecord, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if name == "" {
		return nil, fmt.Errorf("secret name cannot be empty")
	}

	cfg := resolveCall(opts)
	projectID, env, path, err := c.resolveScope(cfg)
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "retrieving secret record",
			"secret_name", name,
			"project", projectID,
			"environment", string(env))
	}

	record, err := c.api.GetSecret(ctx, &GetSecretInput{
		SecretName:  name,
		ProjectID:   projectID,
		Environment: string(env),
		SecretPath:  c.defaultedPath(path),
	})
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to retrieve secret record",
				"secret_name", name,
				"project", projectID,
				"error", err)
		}
		return nil, mapRemoteError(err, "GetSecretRecord")
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "secret record retrieved successfully",
			"secret_name", name,
			"project", projectID)
	}

	return record, nil
}

// invalidateScope purges the cached entries a mutation may have staled:
// everything under the resolved path's prefix and everything under the
// empty-path prefix, since a Get without a path override caches under the
// latter.
func (c *Client) invalidateScope(ctx context.Context, projectID string, env Environment, resolvedPath string) {
	if c.cache == nil {
		return
	}

	removed := c.cache.DeletePrefix(scopePrefix(projectID, env, resolvedPath))
	if resolvedPath != "" {
		removed += c.cache.DeletePrefix(scopePrefix(projectID, env, ""))
	}

	if c.logger != nil && removed > 0 {
		c.logger.DebugContext(ctx, "cache invalidated for scope",
			"project", projectID,
			"environment", string(env),
			"path", resolvedPath,
			"entries_removed", removed)
	}
}

// InvalidateScope removes every cached entry under the given scope. This
// forces subsequent Get calls within the scope to fetch fresh values, for
// example after an out-of-band mutation by another client.
func (c *Client) InvalidateScope(projectID string, env Environment, path string) {
	if c.cache == nil || projectID == "" {
		return
	}
	c.invalidateScope(context.Background(), projectID, env, path)
}

// ClearCache removes all cached secret values.
// This forces all subsequent Get calls to fetch values from the remote
// service.
func (c *Client) ClearCache() {
	if c.cache == nil {
		return
	}
	c.cache.Clear()
}

// CacheSize returns the current number of cached entries, excluding expired
// ones. Returns 0 if caching is disabled.
func (c *Client) CacheSize() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Size()
}

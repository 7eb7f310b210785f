// Package loadenv provides functional options for configuring the client and
// for per-call scope overrides.
package loadenv

import (
	"log/slog"
	"time"
)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	logger    *slog.Logger
	cache     *ScopedCache
	cacheSet  bool
	cacheTTL  time.Duration
	cacheSize int
	api       SecretsAPI
}

// Option is a functional option for configuring the Client.
type Option func(*clientOptions)

// WithLogger configures the client with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// WithCache configures the client with a pre-built cache, replacing the
// default one. If cache is nil, caching will be disabled.
func WithCache(cache *ScopedCache) Option {
	return func(opts *clientOptions) {
		opts.cache = cache
		opts.cacheSet = true
	}
}

// WithCacheTTL overrides the default time-to-live of the built-in cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(opts *clientOptions) {
		opts.cacheTTL = ttl
	}
}

// WithCacheSize overrides the capacity of the built-in cache
// (0 = unlimited).
func WithCacheSize(size int) Option {
	return func(opts *clientOptions) {
		opts.cacheSize = size
	}
}

// WithAPI replaces the remote capability, bypassing REST client
// construction. Intended for tests and embedders that bring their own
// transport.
func WithAPI(api SecretsAPI) Option {
	return func(opts *clientOptions) {
		opts.api = api
	}
}

// defaultOptions returns the default configuration options. The cache
// defaults mirror the reference client: 100 entries, one hour TTL.
func defaultOptions() *clientOptions {
	return &clientOptions{
		cacheTTL:  time.Hour,
		cacheSize: 100,
	}
}

// applyOptions applies the given options to the client options.
func applyOptions(opts *clientOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}

// callConfig collects the per-call overrides of an operation. Unset fields
// fall back to the client's defaults in resolveScope.
type callConfig struct {
	project     string
	environment Environment
	path        string
	credentials *Credentials

	// listing flags; pointers so unset flags keep their documented defaults
	expandReferences *bool
	viewValues       *bool
	recursive        *bool
	includeImports   *bool
	tagFilters       []string

	// write fields
	comment               string
	skipMultilineEncoding bool
	reminderRepeatDays    int
	reminderNote          string
	newValue              *string
	newName               string
	metadata              []SecretMetadata
	tagIDs                []string
}

// CallOption is a functional option carrying a per-call override. Options
// that do not apply to an operation are ignored by it.
type CallOption func(*callConfig)

// WithProject overrides the default project for this call only.
func WithProject(projectID string) CallOption {
	return func(cfg *callConfig) {
		cfg.project = projectID
	}
}

// WithEnvironment overrides the default environment for this call only.
func WithEnvironment(env Environment) CallOption {
	return func(cfg *callConfig) {
		cfg.environment = env
	}
}

// WithPath overrides the default secret path for this call only. An empty
// path behaves like no override: the remote call falls back to the default
// path while the cache key keeps the empty form.
func WithPath(path string) CallOption {
	return func(cfg *callConfig) {
		cfg.path = path
	}
}

// WithCredentials authenticates this call with a one-shot capability bound
// to the given machine identity instead of the client's default. The
// capability is not retained. Only Get honors this option.
func WithCredentials(creds Credentials) CallOption {
	return func(cfg *callConfig) {
		cfg.credentials = &creds
	}
}

// WithExpandReferences controls reference expansion when listing
// (default true).
func WithExpandReferences(expand bool) CallOption {
	return func(cfg *callConfig) {
		cfg.expandReferences = &expand
	}
}

// WithViewValues controls whether listed records include values
// (default true).
func WithViewValues(view bool) CallOption {
	return func(cfg *callConfig) {
		cfg.viewValues = &view
	}
}

// WithRecursive controls recursive listing below the scope path
// (default false).
func WithRecursive(recursive bool) CallOption {
	return func(cfg *callConfig) {
		cfg.recursive = &recursive
	}
}

// WithImports controls whether imported secrets are included when listing
// (default true).
func WithImports(include bool) CallOption {
	return func(cfg *callConfig) {
		cfg.includeImports = &include
	}
}

// WithTagFilters restricts a listing to secrets carrying the given tag
// slugs (default none).
func WithTagFilters(tags ...string) CallOption {
	return func(cfg *callConfig) {
		cfg.tagFilters = tags
	}
}

// WithComment attaches a comment when creating or updating a secret.
func WithComment(comment string) CallOption {
	return func(cfg *callConfig) {
		cfg.comment = comment
	}
}

// WithSkipMultilineEncoding disables multiline encoding of the value when
// creating or updating a secret.
func WithSkipMultilineEncoding(skip bool) CallOption {
	return func(cfg *callConfig) {
		cfg.skipMultilineEncoding = skip
	}
}

// WithReminder sets a rotation reminder interval and note when creating or
// updating a secret.
func WithReminder(repeatDays int, note string) CallOption {
	return func(cfg *callConfig) {
		cfg.reminderRepeatDays = repeatDays
		cfg.reminderNote = note
	}
}

// WithNewValue sets the replacement value when updating a secret. Updates
// without this option leave the value untouched.
func WithNewValue(value string) CallOption {
	return func(cfg *callConfig) {
		cfg.newValue = &value
	}
}

// WithNewName renames the secret when updating. Cached entries under the new
// name are not invalidated; the first read under the new name fetches fresh.
func WithNewName(name string) CallOption {
	return func(cfg *callConfig) {
		cfg.newName = name
	}
}

// WithMetadata replaces the secret's metadata entries when updating.
func WithMetadata(metadata ...SecretMetadata) CallOption {
	return func(cfg *callConfig) {
		cfg.metadata = metadata
	}
}

// WithTags replaces the secret's tag associations when updating.
func WithTags(tagIDs ...string) CallOption {
	return func(cfg *callConfig) {
		cfg.tagIDs = tagIDs
	}
}

// resolveCall folds a list of call options into a callConfig.
func resolveCall(options []CallOption) *callConfig {
	cfg := &callConfig{}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

// boolOrDefault dereferences an optional flag, falling back to def.
func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

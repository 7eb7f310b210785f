// Package loadenv defines the data types exchanged with the Infisical API.
package loadenv

// Environment identifies an Infisical environment slug. The type is an open
// enumeration: the constants below cover the common slugs, but any slug
// configured on the project is accepted.
type Environment string

const (
	EnvironmentDev     Environment = "dev"
	EnvironmentStaging Environment = "staging"
	EnvironmentProd    Environment = "prod"
)

// Credentials holds a machine-identity client ID / client secret pair used
// to authenticate against the universal-auth endpoint.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// SecretValue wraps a raw secret string so it cannot leak through logging or
// JSON encoding by accident. Reveal returns the underlying value.
type SecretValue struct {
	value string
}

// NewSecretValue wraps a raw secret string.
func NewSecretValue(value string) SecretValue {
	return SecretValue{value: value}
}

// Reveal returns the raw secret value.
func (s SecretValue) Reveal() string {
	return s.value
}

// String implements fmt.Stringer with a redacted representation.
func (s SecretValue) String() string {
	return "**********"
}

// MarshalJSON encodes the redacted representation, never the raw value.
func (s SecretValue) MarshalJSON() ([]byte, error) {
	return []byte(`"**********"`), nil
}

// SecretTag is a tag attached to a secret record.
type SecretTag struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// SecretMetadata is a single key/value metadata entry on a secret.
type SecretMetadata struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SecretRecord is the full representation of a named secret as returned by
// the Infisical v3 raw-secrets API, including its value and metadata.
type SecretRecord struct {
	ID            string           `json:"id"`
	Workspace     string           `json:"workspace"`
	Environment   string           `json:"environment"`
	SecretPath    string           `json:"secretPath,omitempty"`
	SecretKey     string           `json:"secretKey"`
	SecretValue   string           `json:"secretValue"`
	SecretComment string           `json:"secretComment,omitempty"`
	Version       int              `json:"version,omitempty"`
	Type          string           `json:"type,omitempty"`
	Tags          []SecretTag      `json:"tags,omitempty"`
	Metadata      []SecretMetadata `json:"secretMetadata,omitempty"`
}

// GetSecretInput carries the parameters for a single-secret fetch.
type GetSecretInput struct {
	SecretName  string
	ProjectID   string
	Environment string
	SecretPath  string
}

// ListSecretsInput carries the parameters and flags for a secret listing.
type ListSecretsInput struct {
	ProjectID              string
	Environment            string
	SecretPath             string
	ExpandSecretReferences bool
	ViewSecretValue        bool
	Recursive              bool
	IncludeImports         bool
	TagFilters             []string
}

// CreateSecretInput carries the parameters for creating a secret.
type CreateSecretInput struct {
	SecretName               string
	SecretValue              string
	ProjectID                string
	Environment              string
	SecretPath               string
	SecretComment            string
	SkipMultilineEncoding    bool
	SecretReminderRepeatDays int
	SecretReminderNote       string
}

// UpdateSecretInput carries the parameters for updating a secret by its
// current name. Zero-valued optional fields are omitted from the request.
type UpdateSecretInput struct {
	CurrentSecretName        string
	ProjectID                string
	Environment              string
	SecretPath               string
	NewSecretValue           string
	HasNewSecretValue        bool
	NewSecretName            string
	SecretComment            string
	SkipMultilineEncoding    bool
	SecretReminderRepeatDays int
	SecretReminderNote       string
	Metadata                 []SecretMetadata
	TagIDs                   []string
}

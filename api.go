// Package loadenv implements the remote capability against the Infisical
// v3 raw-secrets REST API.
package loadenv

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	universalAuthLoginPath = "/api/v1/auth/universal-auth/login"
	rawSecretsPath         = "/api/v3/secrets/raw"
)

// apiErrorBody is the JSON error envelope returned by Infisical.
type apiErrorBody struct {
	Message string `json:"message"`
}

// loginRequest and loginResponse model the universal-auth exchange.
type loginRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// secretEnvelope wraps single-secret responses.
type secretEnvelope struct {
	Secret SecretRecord `json:"secret"`
}

// secretImport is a block of secrets pulled in from another scope.
type secretImport struct {
	SecretPath  string         `json:"secretPath"`
	Environment string         `json:"environment"`
	Secrets     []SecretRecord `json:"secrets"`
}

// listEnvelope wraps listing responses.
type listEnvelope struct {
	Secrets []SecretRecord `json:"secrets"`
	Imports []secretImport `json:"imports"`
}

// restAPI implements SecretsAPI over HTTP. The access token is obtained once
// at construction via universal-auth login; instances are immutable and safe
// for concurrent use afterwards.
type restAPI struct {
	http *resty.Client
}

// newRestAPI authenticates the given machine identity against host and
// returns a capability bound to the resulting access token. Construction
// fails if the host is unreachable or the credentials are rejected.
func newRestAPI(ctx context.Context, host string, creds Credentials) (*restAPI, error) {
	httpClient := resty.New().SetBaseURL(strings.TrimRight(host, "/"))

	var login loginResponse
	var errBody apiErrorBody
	resp, err := httpClient.R().
		SetContext(ctx).
		SetBody(loginRequest{ClientID: creds.ClientID, ClientSecret: creds.ClientSecret}).
		SetResult(&login).
		SetError(&errBody).
		Post(universalAuthLoginPath)
	if err != nil {
		return nil, fmt.Errorf("failed to reach universal-auth endpoint: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: errBody.Message}
	}
	if login.AccessToken == "" {
		return nil, fmt.Errorf("universal-auth login returned no access token")
	}

	httpClient.SetAuthToken(login.AccessToken)
	return &restAPI{http: httpClient}, nil
}

// GetSecret retrieves a single secret by name within a scope.
func (a *restAPI) GetSecret(ctx context.Context, params *GetSecretInput) (*SecretRecord, error) {
	var envelope secretEnvelope
	var errBody apiErrorBody
	resp, err := a.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"workspaceId": params.ProjectID,
			"environment": params.Environment,
			"secretPath":  params.SecretPath,
		}).
		SetResult(&envelope).
		SetError(&errBody).
		Get(rawSecretsPath + "/" + params.SecretName)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: errBody.Message}
	}
	return &envelope.Secret, nil
}

// ListSecrets retrieves the secrets of a scope. When imports are included,
// imported secrets are appended after the scope's own, preserving remote
// order within each block.
func (a *restAPI) ListSecrets(ctx context.Context, params *ListSecretsInput) ([]SecretRecord, error) {
	var envelope listEnvelope
	var errBody apiErrorBody
	req := a.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"workspaceId":            params.ProjectID,
			"environment":            params.Environment,
			"secretPath":             params.SecretPath,
			"expandSecretReferences": strconv.FormatBool(params.ExpandSecretReferences),
			"viewSecretValue":        strconv.FormatBool(params.ViewSecretValue),
			"recursive":              strconv.FormatBool(params.Recursive),
			"include_imports":        strconv.FormatBool(params.IncludeImports),
		}).
		SetResult(&envelope).
		SetError(&errBody)
	if len(params.TagFilters) > 0 {
		req.SetQueryParam("tagSlugs", strings.Join(params.TagFilters, ","))
	}

	resp, err := req.Get(rawSecretsPath)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: errBody.Message}
	}

	records := envelope.Secrets
	if params.IncludeImports {
		for _, imp := range envelope.Imports {
			records = append(records, imp.Secrets...)
		}
	}
	return records, nil
}

// createSecretBody is the JSON request body for secret creation.
type createSecretBody struct {
	WorkspaceID              string `json:"workspaceId"`
	Environment              string `json:"environment"`
	SecretPath               string `json:"secretPath"`
	SecretValue              string `json:"secretValue"`
	SecretComment            string `json:"secretComment,omitempty"`
	SkipMultilineEncoding    bool   `json:"skipMultilineEncoding"`
	SecretReminderRepeatDays int    `json:"secretReminderRepeatDays,omitempty"`
	SecretReminderNote       string `json:"secretReminderNote,omitempty"`
	Type                     string `json:"type"`
}

// CreateSecret creates a new secret and returns the created record.
func (a *restAPI) CreateSecret(ctx context.Context, params *CreateSecretInput) (*SecretRecord, error) {
	var envelope secretEnvelope
	var errBody apiErrorBody
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(createSecretBody{
			WorkspaceID:              params.ProjectID,
			Environment:              params.Environment,
			SecretPath:               params.SecretPath,
			SecretValue:              params.SecretValue,
			SecretComment:            params.SecretComment,
			SkipMultilineEncoding:    params.SkipMultilineEncoding,
			SecretReminderRepeatDays: params.SecretReminderRepeatDays,
			SecretReminderNote:       params.SecretReminderNote,
			Type:                     "shared",
		}).
		SetResult(&envelope).
		SetError(&errBody).
		Post(rawSecretsPath + "/" + params.SecretName)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: errBody.Message}
	}
	return &envelope.Secret, nil
}

// updateSecretBody is the JSON request body for secret updates. Optional
// fields are omitted so the remote service leaves them untouched.
type updateSecretBody struct {
	WorkspaceID              string           `json:"workspaceId"`
	Environment              string           `json:"environment"`
	SecretPath               string           `json:"secretPath"`
	SecretValue              *string          `json:"secretValue,omitempty"`
	NewSecretName            string           `json:"newSecretName,omitempty"`
	SecretComment            string           `json:"secretComment,omitempty"`
	SkipMultilineEncoding    bool             `json:"skipMultilineEncoding"`
	SecretReminderRepeatDays int              `json:"secretReminderRepeatDays,omitempty"`
	SecretReminderNote       string           `json:"secretReminderNote,omitempty"`
	SecretMetadata           []SecretMetadata `json:"secretMetadata,omitempty"`
	TagIDs                   []string         `json:"tagIds,omitempty"`
}

// UpdateSecret updates a secret addressed by its current name.
func (a *restAPI) UpdateSecret(ctx context.Context, params *UpdateSecretInput) error {
	body := updateSecretBody{
		WorkspaceID:              params.ProjectID,
		Environment:              params.Environment,
		SecretPath:               params.SecretPath,
		NewSecretName:            params.NewSecretName,
		SecretComment:            params.SecretComment,
		SkipMultilineEncoding:    params.SkipMultilineEncoding,
		SecretReminderRepeatDays: params.SecretReminderRepeatDays,
		SecretReminderNote:       params.SecretReminderNote,
		SecretMetadata:           params.Metadata,
		TagIDs:                   params.TagIDs,
	}
	if params.HasNewSecretValue {
		body.SecretValue = &params.NewSecretValue
	}

	var errBody apiErrorBody
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(body).
		SetError(&errBody).
		Patch(rawSecretsPath + "/" + params.CurrentSecretName)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: errBody.Message}
	}
	return nil
}

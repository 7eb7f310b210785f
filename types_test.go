// Package loadenv provides tests for the secret value wrapper.
package loadenv

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretValue_Redaction(t *testing.T) {
	secret := NewSecretValue("hunter2")

	t.Run("String is redacted", func(t *testing.T) {
		assert.Equal(t, "**********", secret.String())
		assert.Equal(t, "**********", fmt.Sprintf("%v", secret))
		assert.Equal(t, "**********", fmt.Sprintf("%s", secret))
	})

	t.Run("JSON is redacted", func(t *testing.T) {
		data, err := json.Marshal(secret)
		require.NoError(t, err)
		assert.Equal(t, `"**********"`, string(data))

		data, err = json.Marshal(map[string]SecretValue{"password": secret})
		require.NoError(t, err)
		assert.NotContains(t, string(data), "hunter2")
	})

	t.Run("Reveal returns the raw value", func(t *testing.T) {
		assert.Equal(t, "hunter2", secret.Reveal())
	})

	t.Run("zero value reveals empty", func(t *testing.T) {
		var zero SecretValue
		assert.Empty(t, zero.Reveal())
		assert.Equal(t, "**********", zero.String())
	})
}

package checkincode

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	first := New()
	second := New()

	assert.NotEmpty(t, first.Secret())
	assert.NotEqual(t, first.Secret(), second.Secret())
	assert.NotContains(t, first.Secret(), "-")
}

func TestMatches(t *testing.T) {
	code := Code("abc123")

	assert.True(t, code.Matches("abc123"))
	assert.False(t, code.Matches("ABC123"))
	assert.False(t, code.Matches("abc123 "))
	assert.False(t, code.Matches(""))
}

func TestRedaction(t *testing.T) {
	code := New()

	assert.Equal(t, "[REDACTED]", code.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", code))
	assert.NotContains(t, fmt.Sprintf("%v", code), code.Secret())

	marshaled, err := json.Marshal(struct {
		Code Code `json:"code"`
	}{Code: code})
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(marshaled), code.Secret()))
	assert.JSONEq(t, `{"code":"[REDACTED]"}`, string(marshaled))
}

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONPlainObject(t *testing.T) {
	fields, err := ParseFields(`{"material": "CdSe", "peak_nm": 520}`)

	require.NoError(t, err)
	assert.Equal(t, "CdSe", fields["material"])
	assert.Equal(t, 520.0, fields["peak_nm"])
}

func TestParseJSONStripsMarkdownFences(t *testing.T) {
	response := "Here is the extraction:\n```json\n{\"material\": \"CdSe\"}\n```\nLet me know if you need more."

	fields, err := ParseFields(response)

	require.NoError(t, err)
	assert.Equal(t, "CdSe", fields["material"])
}

func TestParseJSONNoObject(t *testing.T) {
	_, err := ParseFields("I could not find any fields in the paper.")
	assert.Error(t, err)
}

func TestParseJSONTyped(t *testing.T) {
	type holder struct {
		Value float64 `json:"value"`
	}
	h, err := ParseJSON[holder](`the answer: {"value": 72.0}`)

	require.NoError(t, err)
	assert.Equal(t, 72.0, h.Value)
}

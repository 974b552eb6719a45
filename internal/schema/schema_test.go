package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchema = `
version: 3
synthesis:
  - name: material
    type: str
  - name: temp_c
    type: float
  - name: phase
    type: enum
    enum: [cubic, hexagonal]
optics:
  - name: peak_nm
    type: number
  - name: solvents
    type: list_str
`

func TestLoadBuildsHint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSchema), 0o644))

	hint, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "object", hint["type"])
	assert.Equal(t, true, hint["additionalProperties"])

	props := hint["properties"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"type": "string"}, props["material"])
	assert.Equal(t, map[string]interface{}{"type": "number"}, props["temp_c"])
	assert.Equal(t, map[string]interface{}{"type": "number"}, props["peak_nm"])
	assert.Equal(t, map[string]interface{}{"type": "string", "enum": []string{"cubic", "hexagonal"}}, props["phase"])
	assert.Equal(t, map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}}, props["solvents"])

	// The version key is metadata, not a field section.
	assert.NotContains(t, props, "version")
}

func TestLoadUnknownTypeFallsBackToString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yml")
	require.NoError(t, os.WriteFile(path, []byte("misc:\n  - name: odd\n    type: quaternion\n"), 0o644))

	hint, err := Load(path)
	require.NoError(t, err)

	props := hint["properties"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"type": "string"}, props["odd"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

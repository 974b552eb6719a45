package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifacts writes named JSON documents under a single output directory.
// Writes are whole-file overwrites, so rerunning a document replaces its
// artifact rather than appending to it.
type Artifacts struct {
	Dir string
}

func NewArtifacts(dir string) *Artifacts {
	return &Artifacts{Dir: dir}
}

// WriteJSON serializes v under the given file name and returns the full path.
func (a *Artifacts) WriteJSON(name string, v interface{}) (string, error) {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir '%s': %w", a.Dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal artifact '%s': %w", name, err)
	}

	path := filepath.Join(a.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact '%s': %w", path, err)
	}
	return path, nil
}

// Stem derives the artifact key for a document reference: the base name
// without its extension. The same document always maps to the same key.
func Stem(documentRef string) string {
	base := filepath.Base(documentRef)
	return base[:len(base)-len(filepath.Ext(base))]
}

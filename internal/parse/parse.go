// Package parse is the boundary to document text extraction. The engine
// only needs extracted text; how it was pulled out of the source file is a
// collaborator's concern.
package parse

import (
	"fmt"
	"os"
	"strings"
)

type Document struct {
	Text string
}

// DocumentParser turns a document path into extracted text. An empty or
// unreadable document is an error, which the pipeline treats as a
// document-level failure rather than a backend disagreement.
type DocumentParser interface {
	Parse(path string) (Document, error)
}

// PlainText reads pre-extracted text files (.txt, .md). PDF extraction
// runs as a separate preprocessing step that drops its text next to the
// source; this parser picks those files up.
type PlainText struct{}

func (PlainText) Parse(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document '%s': %w", path, err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("no text extracted from %s", path)
	}
	return Document{Text: text}, nil
}

package core

import "fmt"

// DefaultMaxPromptChars bounds how much document text goes into one prompt.
const DefaultMaxPromptChars = 40000

// BuildExtractionPrompt composes the round-one prompt from the template and
// the document text, truncating the text to fit model context limits.
func BuildExtractionPrompt(template, docText string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxPromptChars
	}
	return fmt.Sprintf("%s\n\n---\n\n## Paper Content\n\n%s\n", template, TruncateText(docText, maxChars))
}

// TruncateText keeps the beginning and end of oversized text. Results and
// conclusions tend to live at the ends of a paper, so the middle is what
// gets dropped.
func TruncateText(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	half := maxChars / 2
	return text[:half] + "\n\n...[TRUNCATED]...\n\n" + text[len(text)-half:]
}

package llm

import (
	"context"
	"encoding/json"

	"github.com/agenthands/quorum/internal/core/model"
)

// StructuredExtractor is the single capability every backend provides:
// given a request, return a field-name-to-value mapping or an error.
// Provider differences (auth, base endpoint, image support) are
// construction-time configuration, not call-time branches.
type StructuredExtractor interface {
	Extract(ctx context.Context, req model.ExtractionRequest) (map[string]interface{}, error)
}

const extractorSystemPrompt = "You are a structured information extractor. " +
	"Return ONLY valid JSON. Follow the provided schema keys/types as much as possible. " +
	"Unknown fields should be null."

// schemaInstructions renders the output-shape hint for providers without a
// native schema parameter.
func schemaInstructions(schema map[string]interface{}) string {
	if schema == nil {
		schema = map[string]interface{}{"type": "object"}
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return extractorSystemPrompt
	}
	return extractorSystemPrompt + "\nSchema:\n" + string(data)
}

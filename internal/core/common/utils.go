package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON unmarshals a JSON object out of an LLM response into T.
// Models frequently wrap the object in markdown fences or prose, so the
// text between the first '{' and the last '}' is what gets parsed.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	start := strings.IndexByte(response, '{')
	if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}
	end := strings.LastIndexByte(response, '}')
	if end == -1 || end < start {
		return zero, fmt.Errorf("no JSON object found in response (missing '}')")
	}
	jsonStr := response[start : end+1]

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}

// ParseFields parses a field-name-to-value mapping, the shape every
// structured-extraction backend is asked to return.
func ParseFields(response string) (map[string]interface{}, error) {
	return ParseJSON[map[string]interface{}](response)
}

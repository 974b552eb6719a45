package model

// InlineImage is an optional image attachment for backends that accept
// visual context (figures, spectra). Backends without image support
// report the whole call as failed rather than silently ignoring them.
type InlineImage struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// ExtractionRequest is the payload handed to every backend in a round.
// Built by the prompt layer; the fan-out controller treats it as read-only.
type ExtractionRequest struct {
	Prompt string                 `json:"prompt"`
	Images []InlineImage          `json:"images,omitempty"`
	Schema map[string]interface{} `json:"schema,omitempty"`
}

// BackendResult records what one backend actually returned on one attempt.
// Exactly one of Fields or Err is set. Never mutated after the round ends.
type BackendResult struct {
	BackendID string                 `json:"backend_id"`
	Provider  string                 `json:"provider"`
	ModelName string                 `json:"model_name"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Err       string                 `json:"error,omitempty"`
}

// Failed reports whether the backend call was captured as an error.
func (r BackendResult) Failed() bool {
	return r.Err != ""
}

// FieldCandidate is one backend's value for one field, flattened out of a
// BackendResult for comparison and kept verbatim for audit.
type FieldCandidate struct {
	BackendID string      `json:"backend_id"`
	Field     string      `json:"field"`
	Value     interface{} `json:"value"`
}

type AgreedField struct {
	Value    interface{}      `json:"value"`
	Evidence []FieldCandidate `json:"evidence"`
}

type DisagreedField struct {
	Candidates []FieldCandidate `json:"candidates"`
	Reason     string           `json:"reason"`
}

// ConsensusReport partitions every field seen in a round into agreed or
// disagreed. Fields with no non-null candidate anywhere appear in neither.
type ConsensusReport struct {
	Agreed    map[string]AgreedField    `json:"agreed"`
	Disagreed map[string]DisagreedField `json:"disagreed"`
}

// Resolved reports whether the round left no disputed fields.
func (c ConsensusReport) Resolved() bool {
	return len(c.Disagreed) == 0
}

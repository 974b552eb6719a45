package model

import "time"

// Status is the terminal state of one document in a pipeline run.
type Status string

const (
	StatusDone               Status = "done"
	StatusDoneAfterReextract Status = "done_after_reextract"
	StatusEscalated          Status = "escalated"
	StatusError              Status = "error"
)

// Record is the final agreed output for a document.
type Record struct {
	DocumentRef          string                 `json:"document_ref"`
	Fields               map[string]interface{} `json:"fields"`
	BackendIDs           []string               `json:"backend_ids"`
	RequiredReextraction bool                   `json:"required_reextraction"`
}

// ReviewCase is the durable audit artifact for an unresolved document.
// A rerun of the same document overwrites the case under the same key;
// it is a point-in-time snapshot, not a log.
type ReviewCase struct {
	CaseID        string                    `json:"case_id"`
	DocumentRef   string                    `json:"document_ref"`
	Disagreements map[string]DisagreedField `json:"disagreements"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// CaseHandle identifies a persisted review case.
type CaseHandle struct {
	CaseID string `json:"case_id"`
	Path   string `json:"path"`
}

// Outcome is what RunDocument reports back to the orchestration layer.
type Outcome struct {
	Status     Status      `json:"status"`
	Record     *Record     `json:"record,omitempty"`
	ReviewCase *CaseHandle `json:"review_case,omitempty"`
	Message    string      `json:"message,omitempty"`
}

package review

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/quorum/internal/core/model"
	"github.com/agenthands/quorum/internal/store"
)

// Recorder persists review cases for documents whose second round still
// disagrees. The case file is keyed by the document stem, so rerunning the
// same document overwrites its case with a fresh point-in-time snapshot.
type Recorder struct {
	artifacts *store.Artifacts
}

func NewRecorder(artifacts *store.Artifacts) *Recorder {
	return &Recorder{artifacts: artifacts}
}

// RecordReviewCase serializes every remaining candidate with its
// provenance. This is the terminal hand-off to manual review; nothing in
// the pipeline updates the case afterwards.
func (r *Recorder) RecordReviewCase(documentRef string, report model.ConsensusReport) (model.CaseHandle, error) {
	caseID := uuid.New().String()
	c := model.ReviewCase{
		CaseID:        caseID,
		DocumentRef:   documentRef,
		Disagreements: report.Disagreed,
		CreatedAt:     time.Now().UTC(),
	}

	name := store.Stem(documentRef) + ".review.json"
	path, err := r.artifacts.WriteJSON(name, c)
	if err != nil {
		return model.CaseHandle{}, fmt.Errorf("failed to record review case for %s: %w", documentRef, err)
	}

	return model.CaseHandle{CaseID: caseID, Path: path}, nil
}

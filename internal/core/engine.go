package core

import (
	"context"
	"fmt"
	"log"

	"github.com/agenthands/quorum/internal/core/consensus"
	"github.com/agenthands/quorum/internal/core/fanout"
	"github.com/agenthands/quorum/internal/core/model"
	"github.com/agenthands/quorum/internal/core/reextract"
	"github.com/agenthands/quorum/internal/core/review"
	"github.com/agenthands/quorum/internal/store"
)

// Engine drives one document through the consensus state machine:
// fan-out, aggregate, and on disagreement one focused re-extraction round,
// then either a final record or an escalated review case. Apart from the
// fan-out's remote calls everything here is a pure function of the
// previous stage's output.
type Engine struct {
	Fanout      *fanout.Controller
	Reextractor *reextract.Driver
	Recorder    *review.Recorder
	Artifacts   *store.Artifacts
	Tolerances  consensus.Tolerances
}

func NewEngine(ctrl *fanout.Controller, artifacts *store.Artifacts, tol consensus.Tolerances) *Engine {
	return &Engine{
		Fanout:      ctrl,
		Reextractor: reextract.NewDriver(ctrl),
		Recorder:    review.NewRecorder(artifacts),
		Artifacts:   artifacts,
		Tolerances:  tol,
	}
}

// RunRound dispatches one fan-out round.
func (e *Engine) RunRound(ctx context.Context, req model.ExtractionRequest, backendIDs []string) ([]model.BackendResult, error) {
	return e.Fanout.Invoke(ctx, req, backendIDs)
}

// Aggregate computes consensus over one round's results with the engine's
// configured tolerances.
func (e *Engine) Aggregate(results []model.BackendResult) model.ConsensusReport {
	return consensus.Aggregate(results, e.Tolerances)
}

// RunDocument runs the full two-round pipeline for one document. The
// returned outcome is terminal: done, done after re-extraction, escalated
// to review, or a document-level error. Only configuration problems (zero
// or unknown backends) surface as an error return.
func (e *Engine) RunDocument(ctx context.Context, documentRef string, req model.ExtractionRequest, backendIDs []string) (model.Outcome, error) {
	results, err := e.RunRound(ctx, req, backendIDs)
	if err != nil {
		return model.Outcome{Status: model.StatusError, Message: err.Error()}, err
	}

	report := e.Aggregate(results)
	if report.Resolved() {
		rec, err := e.saveRecord(documentRef, report, backendIDs, false)
		if err != nil {
			return model.Outcome{Status: model.StatusError, Message: err.Error()}, err
		}
		return model.Outcome{Status: model.StatusDone, Record: rec}, nil
	}

	log.Printf("%s: %d fields disputed, running focused re-extraction", documentRef, len(report.Disagreed))

	reResults, err := e.Reextractor.Reextract(ctx, req, report.Disagreed, backendIDs, nil)
	if err != nil {
		return model.Outcome{Status: model.StatusError, Message: err.Error()}, err
	}

	// Round-two consensus stands on round-two responses alone.
	report2 := e.Aggregate(reResults)
	if report2.Resolved() {
		rec, err := e.saveRecord(documentRef, report2, backendIDs, true)
		if err != nil {
			return model.Outcome{Status: model.StatusError, Message: err.Error()}, err
		}
		return model.Outcome{Status: model.StatusDoneAfterReextract, Record: rec}, nil
	}

	handle, err := e.Recorder.RecordReviewCase(documentRef, report2)
	if err != nil {
		return model.Outcome{Status: model.StatusError, Message: err.Error()}, err
	}
	return model.Outcome{Status: model.StatusEscalated, ReviewCase: &handle}, nil
}

func (e *Engine) saveRecord(documentRef string, report model.ConsensusReport, backendIDs []string, reextracted bool) (*model.Record, error) {
	fields := make(map[string]interface{}, len(report.Agreed))
	for name, agreed := range report.Agreed {
		fields[name] = agreed.Value
	}

	rec := &model.Record{
		DocumentRef:          documentRef,
		Fields:               fields,
		BackendIDs:           backendIDs,
		RequiredReextraction: reextracted,
	}

	if _, err := e.Artifacts.WriteJSON(store.Stem(documentRef)+".json", rec); err != nil {
		return nil, fmt.Errorf("failed to save record for %s: %w", documentRef, err)
	}
	return rec, nil
}

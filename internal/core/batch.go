package core

import (
	"context"
	"log"
	"sync"

	"github.com/agenthands/quorum/internal/core/model"
	"github.com/agenthands/quorum/internal/parse"
	"github.com/agenthands/quorum/internal/store"
)

// BatchOptions configures one batch run over many documents.
type BatchOptions struct {
	PromptTemplate string
	Schema         map[string]interface{}
	BackendIDs     []string
	Workers        int
	MaxPromptChars int
}

// Tally counts terminal statuses across a batch.
type Tally map[model.Status]int

// RunBatch processes every document with bounded parallelism. Documents
// share only read-only configuration, so their rounds run independently;
// one document's failure never stops the rest. Each outcome is appended to
// the ledger as it lands.
func (e *Engine) RunBatch(ctx context.Context, docs []string, parser parse.DocumentParser, opts BatchOptions, ledger *store.Ledger, runID string) Tally {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	var mu sync.Mutex
	tally := make(Tally)
	record := func(docRef string, outcome model.Outcome) {
		mu.Lock()
		defer mu.Unlock()
		tally[outcome.Status]++
		if ledger != nil {
			if err := ledger.RecordOutcome(runID, docRef, outcome); err != nil {
				log.Printf("failed to record outcome for %s: %v", docRef, err)
			}
		}
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, docRef := range docs {
		wg.Add(1)
		sem <- struct{}{}
		go func(docRef string) {
			defer wg.Done()
			defer func() { <-sem }()
			record(docRef, e.runOne(ctx, docRef, parser, opts))
		}(docRef)
	}
	wg.Wait()

	return tally
}

func (e *Engine) runOne(ctx context.Context, docRef string, parser parse.DocumentParser, opts BatchOptions) model.Outcome {
	doc, err := parser.Parse(docRef)
	if err != nil {
		log.Printf("%s: %v", docRef, err)
		return model.Outcome{Status: model.StatusError, Message: err.Error()}
	}

	req := model.ExtractionRequest{
		Prompt: BuildExtractionPrompt(opts.PromptTemplate, doc.Text, opts.MaxPromptChars),
		Schema: opts.Schema,
	}

	outcome, err := e.RunDocument(ctx, docRef, req, opts.BackendIDs)
	if err != nil {
		log.Printf("%s: %v", docRef, err)
	}
	return outcome
}

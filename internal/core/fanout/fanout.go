package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/agenthands/quorum/internal/config"
	"github.com/agenthands/quorum/internal/core/model"
	"github.com/agenthands/quorum/internal/llm"
)

// ErrNoBackends is returned when a round is dispatched with zero backends.
var ErrNoBackends = errors.New("no backends configured")

// Controller fans one extraction request out to a set of backends
// concurrently, isolating failures per backend. Its output is the system's
// only record of what each backend actually did on that attempt, so the
// controller never retries within a round; recovery is a second round.
type Controller struct {
	extractors  map[string]llm.StructuredExtractor
	descriptors map[string]config.BackendConfig
}

// NewController constructs one client per configured backend. A backend
// with an unknown provider is a configuration error reported here, not a
// per-call failure later.
func NewController(ctx context.Context, backends []config.BackendConfig) (*Controller, error) {
	if len(backends) == 0 {
		return nil, ErrNoBackends
	}

	c := &Controller{
		extractors:  make(map[string]llm.StructuredExtractor, len(backends)),
		descriptors: make(map[string]config.BackendConfig, len(backends)),
	}
	for _, b := range backends {
		if b.ID == "" {
			return nil, fmt.Errorf("backend with provider %q has no id", b.Provider)
		}
		if _, dup := c.extractors[b.ID]; dup {
			return nil, fmt.Errorf("duplicate backend id %q", b.ID)
		}
		ext, err := llm.NewExtractor(ctx, b)
		if err != nil {
			return nil, fmt.Errorf("backend %q: %w", b.ID, err)
		}
		c.extractors[b.ID] = ext
		c.descriptors[b.ID] = b
	}
	return c, nil
}

// NewControllerWithExtractors wires pre-built extractors, used by tests and
// by callers that construct clients themselves.
func NewControllerWithExtractors(backends []config.BackendConfig, extractors map[string]llm.StructuredExtractor) (*Controller, error) {
	if len(backends) == 0 {
		return nil, ErrNoBackends
	}
	c := &Controller{
		extractors:  make(map[string]llm.StructuredExtractor, len(backends)),
		descriptors: make(map[string]config.BackendConfig, len(backends)),
	}
	for _, b := range backends {
		ext, ok := extractors[b.ID]
		if !ok {
			return nil, fmt.Errorf("no extractor for backend id %q", b.ID)
		}
		c.extractors[b.ID] = ext
		c.descriptors[b.ID] = b
	}
	return c, nil
}

// Invoke calls every requested backend concurrently and returns one result
// per id, in the caller-specified id order regardless of completion order.
// A backend failure (timeout, malformed response, auth, unsupported
// feature) is captured into that backend's result and never blocks the
// others. An unknown id is a configuration error for the whole round.
func (c *Controller) Invoke(ctx context.Context, req model.ExtractionRequest, backendIDs []string) ([]model.BackendResult, error) {
	if len(backendIDs) == 0 {
		return nil, ErrNoBackends
	}
	for _, id := range backendIDs {
		if _, ok := c.extractors[id]; !ok {
			return nil, fmt.Errorf("unknown backend id: %s", id)
		}
	}

	results := make([]model.BackendResult, len(backendIDs))
	var wg sync.WaitGroup
	for i, id := range backendIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = c.callOne(ctx, id, req)
		}(i, id)
	}
	wg.Wait()

	return results, nil
}

func (c *Controller) callOne(ctx context.Context, id string, req model.ExtractionRequest) model.BackendResult {
	desc := c.descriptors[id]
	result := model.BackendResult{
		BackendID: id,
		Provider:  desc.Provider,
		ModelName: desc.ModelName,
	}

	fields, err := c.extractors[id].Extract(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			result.Err = "timeout"
		} else {
			result.Err = err.Error()
		}
		return result
	}

	result.Fields = fields
	return result
}

package fanout

import (
	"context"
	"time"

	"github.com/agenthands/quorum/internal/core/model"
)

// MockExtractor is a canned StructuredExtractor for tests.
type MockExtractor struct {
	Fields map[string]interface{}
	Err    error
	Delay  time.Duration
	// Fn, when set, overrides the canned behavior entirely.
	Fn func(ctx context.Context, req model.ExtractionRequest) (map[string]interface{}, error)
}

func (m *MockExtractor) Extract(ctx context.Context, req model.ExtractionRequest) (map[string]interface{}, error) {
	if m.Fn != nil {
		return m.Fn(ctx, req)
	}
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Fields, nil
}

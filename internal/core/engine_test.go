package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/quorum/internal/config"
	"github.com/agenthands/quorum/internal/core/consensus"
	"github.com/agenthands/quorum/internal/core/fanout"
	"github.com/agenthands/quorum/internal/core/model"
	"github.com/agenthands/quorum/internal/llm"
	"github.com/agenthands/quorum/internal/parse"
	"github.com/agenthands/quorum/internal/store"
)

// focusMock answers round one with round1 and, once the prompt looks like a
// focused re-extraction, answers with round2.
func focusMock(round1, round2 map[string]interface{}) *fanout.MockExtractor {
	return &fanout.MockExtractor{
		Fn: func(ctx context.Context, req model.ExtractionRequest) (map[string]interface{}, error) {
			if strings.Contains(req.Prompt, "conflicting values") {
				return round2, nil
			}
			return round1, nil
		},
	}
}

func newTestEngine(t *testing.T, dir string, extractors map[string]llm.StructuredExtractor) *Engine {
	t.Helper()
	backends := make([]config.BackendConfig, 0, len(extractors))
	for id := range extractors {
		backends = append(backends, config.BackendConfig{ID: id, Provider: "test", ModelName: id})
	}
	ctrl, err := fanout.NewControllerWithExtractors(backends, extractors)
	require.NoError(t, err)
	return NewEngine(ctrl, store.NewArtifacts(dir), consensus.DefaultTolerances())
}

func TestRunDocumentAllAgree(t *testing.T) {
	dir := t.TempDir()
	fields := map[string]interface{}{"material": "CdSe", "peak_nm": 520.0}
	engine := newTestEngine(t, dir, map[string]llm.StructuredExtractor{
		"m1": &fanout.MockExtractor{Fields: fields},
		"m2": &fanout.MockExtractor{Fields: fields},
		"m3": &fanout.MockExtractor{Fields: fields},
	})

	outcome, err := engine.RunDocument(context.Background(), "smith2021.pdf", model.ExtractionRequest{Prompt: "p"}, []string{"m1", "m2", "m3"})

	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, outcome.Status)
	require.NotNil(t, outcome.Record)
	assert.Equal(t, "CdSe", outcome.Record.Fields["material"])
	assert.False(t, outcome.Record.RequiredReextraction)
	assert.Equal(t, []string{"m1", "m2", "m3"}, outcome.Record.BackendIDs)

	data, err := os.ReadFile(filepath.Join(dir, "smith2021.json"))
	require.NoError(t, err)
	var rec model.Record
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "smith2021.pdf", rec.DocumentRef)
}

func TestRunDocumentResolvedAfterReextraction(t *testing.T) {
	dir := t.TempDir()
	// Two fields agree, one is disputed in round one; round two converges.
	engine := newTestEngine(t, dir, map[string]llm.StructuredExtractor{
		"m1": focusMock(
			map[string]interface{}{"material": "CdSe", "solvent": "toluene", "peak_nm": 520.0},
			map[string]interface{}{"peak_nm": map[string]interface{}{"value": 521.0}},
		),
		"m2": focusMock(
			map[string]interface{}{"material": "CdSe", "solvent": "toluene", "peak_nm": 610.0},
			map[string]interface{}{"peak_nm": map[string]interface{}{"value": 520.8}},
		),
		"m3": focusMock(
			map[string]interface{}{"material": "CdSe", "solvent": "toluene", "peak_nm": 520.5},
			map[string]interface{}{"peak_nm": map[string]interface{}{"value": 521.2}},
		),
	})

	outcome, err := engine.RunDocument(context.Background(), "doc.pdf", model.ExtractionRequest{Prompt: "p"}, []string{"m1", "m2", "m3"})

	require.NoError(t, err)
	assert.Equal(t, model.StatusDoneAfterReextract, outcome.Status)
	require.NotNil(t, outcome.Record)
	assert.True(t, outcome.Record.RequiredReextraction)
	// Round-two consensus only: the record holds the revised value.
	assert.Equal(t, 521.0, outcome.Record.Fields["peak_nm"])
	// Fields agreed in round one are absent: round two stands alone.
	assert.NotContains(t, outcome.Record.Fields, "material")
}

func TestRunDocumentEscalates(t *testing.T) {
	dir := t.TempDir()
	engine := newTestEngine(t, dir, map[string]llm.StructuredExtractor{
		"m1": focusMock(
			map[string]interface{}{"peak_nm": 520.0},
			map[string]interface{}{"peak_nm": 520.0},
		),
		"m2": focusMock(
			map[string]interface{}{"peak_nm": 610.0},
			map[string]interface{}{"peak_nm": 610.0},
		),
	})

	outcome, err := engine.RunDocument(context.Background(), "doc.pdf", model.ExtractionRequest{Prompt: "p"}, []string{"m1", "m2"})

	require.NoError(t, err)
	assert.Equal(t, model.StatusEscalated, outcome.Status)
	require.NotNil(t, outcome.ReviewCase)

	data, err := os.ReadFile(outcome.ReviewCase.Path)
	require.NoError(t, err)
	var c model.ReviewCase
	require.NoError(t, json.Unmarshal(data, &c))
	require.Contains(t, c.Disagreements, "peak_nm")
	// The case carries every round-two candidate for the disputed field.
	assert.Len(t, c.Disagreements["peak_nm"].Candidates, 2)
}

func TestRunDocumentSurvivesAlwaysFailingBackend(t *testing.T) {
	dir := t.TempDir()
	fields := map[string]interface{}{"material": "CdSe"}
	engine := newTestEngine(t, dir, map[string]llm.StructuredExtractor{
		"m1": &fanout.MockExtractor{Fields: fields},
		"m2": &fanout.MockExtractor{Err: errors.New("boom")},
		"m3": &fanout.MockExtractor{Fields: fields},
	})

	outcome, err := engine.RunDocument(context.Background(), "doc.pdf", model.ExtractionRequest{Prompt: "p"}, []string{"m1", "m2", "m3"})

	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, outcome.Status)
	assert.Equal(t, "CdSe", outcome.Record.Fields["material"])
}

func TestRunDocumentUnknownBackendIsError(t *testing.T) {
	dir := t.TempDir()
	engine := newTestEngine(t, dir, map[string]llm.StructuredExtractor{
		"m1": &fanout.MockExtractor{Fields: map[string]interface{}{}},
	})

	outcome, err := engine.RunDocument(context.Background(), "doc.pdf", model.ExtractionRequest{}, []string{"m1", "ghost"})

	require.Error(t, err)
	assert.Equal(t, model.StatusError, outcome.Status)
}

func TestRunBatchTalliesOutcomes(t *testing.T) {
	dir := t.TempDir()
	docsDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "good.txt"), []byte("quantum dot synthesis at 180C"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "empty.txt"), []byte("   \n"), 0o644))

	fields := map[string]interface{}{"material": "CdSe"}
	engine := newTestEngine(t, dir, map[string]llm.StructuredExtractor{
		"m1": &fanout.MockExtractor{Fields: fields},
		"m2": &fanout.MockExtractor{Fields: fields},
	})

	ledgerPath := filepath.Join(t.TempDir(), "ledger.db")
	ledger, err := store.OpenLedger(ledgerPath)
	require.NoError(t, err)
	defer ledger.Close()

	docs := []string{
		filepath.Join(docsDir, "good.txt"),
		filepath.Join(docsDir, "empty.txt"),
		filepath.Join(docsDir, "missing.txt"),
	}
	tally := engine.RunBatch(context.Background(), docs, parse.PlainText{}, BatchOptions{
		PromptTemplate: "Extract fields.",
		BackendIDs:     []string{"m1", "m2"},
		Workers:        2,
	}, ledger, "run-1")

	// One success; the empty and missing documents fail without stopping the batch.
	assert.Equal(t, 1, tally[model.StatusDone])
	assert.Equal(t, 2, tally[model.StatusError])

	counts, err := ledger.Tally("run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts[model.StatusDone])
	assert.Equal(t, 2, counts[model.StatusError])
}

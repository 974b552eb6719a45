package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/quorum/internal/core/model"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := OpenLedger(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLedgerTally(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.RecordOutcome("run-1", "a.pdf", model.Outcome{Status: model.StatusDone}))
	require.NoError(t, l.RecordOutcome("run-1", "b.pdf", model.Outcome{Status: model.StatusDone}))
	require.NoError(t, l.RecordOutcome("run-1", "c.pdf", model.Outcome{Status: model.StatusEscalated, ReviewCase: &model.CaseHandle{CaseID: "case-1", Path: "/out/c.review.json"}}))
	require.NoError(t, l.RecordOutcome("run-2", "d.pdf", model.Outcome{Status: model.StatusError, Message: "no text"}))

	tally, err := l.Tally("run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, tally[model.StatusDone])
	assert.Equal(t, 1, tally[model.StatusEscalated])
	assert.Zero(t, tally[model.StatusError])

	all, err := l.Tally("")
	require.NoError(t, err)
	assert.Equal(t, 1, all[model.StatusError])
}

func TestLedgerReviewCases(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.RecordOutcome("run-1", "a.pdf", model.Outcome{Status: model.StatusDone}))
	require.NoError(t, l.RecordOutcome("run-1", "c.pdf", model.Outcome{
		Status:     model.StatusEscalated,
		ReviewCase: &model.CaseHandle{CaseID: "case-1", Path: "/out/c.review.json"},
	}))

	cases, err := l.ReviewCases()
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "c.pdf", cases[0].DocumentRef)
	assert.Equal(t, "case-1", cases[0].CaseID)
	assert.Equal(t, "/out/c.review.json", cases[0].ArtifactPath)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "smith2021", Stem("data/pdfs/smith2021.pdf"))
	assert.Equal(t, "notes", Stem("notes.txt"))
	assert.Equal(t, "plain", Stem("plain"))
}

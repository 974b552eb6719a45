package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/agenthands/quorum/internal/core/model"
)

// Ledger records one row per processed document so batch runs can report a
// final tally and review cases stay findable after the process exits.
type Ledger struct {
	db *sql.DB
}

func OpenLedger(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS outcomes (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		document_ref  TEXT NOT NULL,
		status        TEXT NOT NULL,
		artifact_path TEXT DEFAULT '',
		case_id       TEXT DEFAULT '',
		message       TEXT DEFAULT '',
		run_id        TEXT DEFAULT '',
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes(status);
	CREATE INDEX IF NOT EXISTS idx_outcomes_document ON outcomes(document_ref);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordOutcome appends the terminal state of one document.
func (l *Ledger) RecordOutcome(runID, documentRef string, outcome model.Outcome) error {
	var artifactPath, caseID string
	if outcome.ReviewCase != nil {
		artifactPath = outcome.ReviewCase.Path
		caseID = outcome.ReviewCase.CaseID
	}
	_, err := l.db.Exec(
		`INSERT INTO outcomes (document_ref, status, artifact_path, case_id, message, run_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		documentRef, string(outcome.Status), artifactPath, caseID, outcome.Message, runID,
	)
	return err
}

// Tally counts outcomes per status, optionally scoped to one run.
func (l *Ledger) Tally(runID string) (map[model.Status]int, error) {
	query := `SELECT status, COUNT(*) FROM outcomes GROUP BY status`
	args := []interface{}{}
	if runID != "" {
		query = `SELECT status, COUNT(*) FROM outcomes WHERE run_id = ? GROUP BY status`
		args = append(args, runID)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tally := make(map[model.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		tally[model.Status(status)] = n
	}
	return tally, rows.Err()
}

// ReviewRow is one escalated document as listed from the ledger.
type ReviewRow struct {
	DocumentRef  string
	CaseID       string
	ArtifactPath string
	CreatedAt    time.Time
}

// ReviewCases lists escalated documents, newest first.
func (l *Ledger) ReviewCases() ([]ReviewRow, error) {
	rows, err := l.db.Query(
		`SELECT document_ref, case_id, artifact_path, created_at
		 FROM outcomes WHERE status = ? ORDER BY created_at DESC`,
		string(model.StatusEscalated),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []ReviewRow
	for rows.Next() {
		var r ReviewRow
		if err := rows.Scan(&r.DocumentRef, &r.CaseID, &r.ArtifactPath, &r.CreatedAt); err != nil {
			return nil, err
		}
		cases = append(cases, r)
	}
	return cases, rows.Err()
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agenthands/quorum/internal/core"
	"github.com/agenthands/quorum/internal/core/consensus"
	"github.com/agenthands/quorum/internal/core/fanout"
	"github.com/agenthands/quorum/internal/core/model"
	"github.com/agenthands/quorum/internal/parse"
	"github.com/agenthands/quorum/internal/schema"
	"github.com/agenthands/quorum/internal/store"
)

const defaultPromptTemplate = "Extract structured information from the paper and return as JSON."

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract fields from every document in a directory",
	Long: `Run dispatches each document to all configured backends, computes
field-wise consensus, re-extracts disputed fields in a focused second
round, and writes either a final record or a review case per document.
Processing continues past individual document failures; a per-status
tally is printed at the end.`,
	RunE: runBatch,
}

func init() {
	runCmd.Flags().String("docs-dir", "", "directory of extracted document text (.txt/.md); overrides config")
	runCmd.Flags().String("out-dir", "", "output directory for records and review cases; overrides config")
	runCmd.Flags().String("schema", "", "extraction schema file (YAML); overrides config")
	runCmd.Flags().String("prompt-file", "", "prompt template file; overrides config")
	runCmd.Flags().Int("workers", 0, "documents processed in parallel; overrides config")

	rootCmd.AddCommand(runCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("docs-dir"); v != "" {
		cfg.Paths.DocsDir = v
	}
	if v, _ := cmd.Flags().GetString("out-dir"); v != "" {
		cfg.Paths.OutDir = v
	}
	if v, _ := cmd.Flags().GetString("schema"); v != "" {
		cfg.Paths.SchemaFile = v
	}
	if v, _ := cmd.Flags().GetString("prompt-file"); v != "" {
		cfg.Paths.PromptFile = v
	}
	if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
		cfg.Concurrency.Documents = v
	}

	promptTemplate := defaultPromptTemplate
	if cfg.Paths.PromptFile != "" {
		data, err := os.ReadFile(cfg.Paths.PromptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: prompt file not found, using default prompt\n")
		} else {
			promptTemplate = string(data)
			fmt.Fprintf(os.Stderr, "Loaded prompt from %s\n", cfg.Paths.PromptFile)
		}
	}

	var schemaHint map[string]interface{}
	if cfg.Paths.SchemaFile != "" {
		schemaHint, err = schema.Load(cfg.Paths.SchemaFile)
		if err != nil {
			return err
		}
	}

	docs, err := findDocuments(cfg.Paths.DocsDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Found %d documents in %s\n", len(docs), cfg.Paths.DocsDir)
	if len(docs) == 0 {
		return nil
	}

	ctrl, err := fanout.NewController(cmd.Context(), cfg.Backends)
	if err != nil {
		return err
	}

	ledger, err := store.OpenLedger(cfg.Paths.LedgerPath)
	if err != nil {
		return err
	}
	defer ledger.Close()

	tol := consensus.Tolerances{
		RelTol: cfg.Thresholds.NumericRelativeTol,
		AbsTol: cfg.Thresholds.NumericAbsTol,
	}
	engine := core.NewEngine(ctrl, store.NewArtifacts(cfg.Paths.OutDir), tol)

	runID := uuid.New().String()
	tally := engine.RunBatch(cmd.Context(), docs, parse.PlainText{}, core.BatchOptions{
		PromptTemplate: promptTemplate,
		Schema:         schemaHint,
		BackendIDs:     cfg.BackendIDs(),
		Workers:        cfg.Concurrency.Documents,
	}, ledger, runID)

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Processing Complete!")
	fmt.Printf("  OK (direct):      %d\n", tally[model.StatusDone])
	fmt.Printf("  OK (reextracted): %d\n", tally[model.StatusDoneAfterReextract])
	fmt.Printf("  Needs review:     %d\n", tally[model.StatusEscalated])
	fmt.Printf("  Errors:           %d\n", tally[model.StatusError])
	fmt.Println(strings.Repeat("=", 50))

	return nil
}

func findDocuments(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("no docs directory configured (set paths.docs_dir or --docs-dir)")
	}
	var docs []string
	for _, pattern := range []string{"*.txt", "*.md"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		docs = append(docs, matches...)
	}
	sort.Strings(docs)
	return docs, nil
}

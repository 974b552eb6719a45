package server

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agenthands/quorum/internal/config"
	"github.com/agenthands/quorum/internal/core"
	"github.com/agenthands/quorum/internal/core/consensus"
	"github.com/agenthands/quorum/internal/core/fanout"
	"github.com/agenthands/quorum/internal/core/model"
	"github.com/agenthands/quorum/internal/schema"
	"github.com/agenthands/quorum/internal/store"
)

type Server struct {
	Engine         *core.Engine
	Ledger         *store.Ledger
	BackendIDs     []string
	PromptTemplate string
	Schema         map[string]interface{}
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctrl, err := fanout.NewController(context.Background(), cfg.Backends)
	if err != nil {
		log.Fatalf("Failed to initialize backends: %v", err)
	}

	ledger, err := store.OpenLedger(cfg.Paths.LedgerPath)
	if err != nil {
		log.Fatalf("Failed to open ledger: %v", err)
	}

	tol := consensus.Tolerances{
		RelTol: cfg.Thresholds.NumericRelativeTol,
		AbsTol: cfg.Thresholds.NumericAbsTol,
	}
	engine := core.NewEngine(ctrl, store.NewArtifacts(cfg.Paths.OutDir), tol)

	s := &Server{
		Engine:     engine,
		Ledger:     ledger,
		BackendIDs: cfg.BackendIDs(),
		PromptTemplate: "Extract structured information from the paper and return as JSON.",
	}

	if cfg.Paths.PromptFile != "" {
		if data, err := os.ReadFile(cfg.Paths.PromptFile); err == nil {
			s.PromptTemplate = string(data)
		} else {
			log.Printf("Warning: could not read prompt file %s: %v", cfg.Paths.PromptFile, err)
		}
	}
	if cfg.Paths.SchemaFile != "" {
		hint, err := schema.Load(cfg.Paths.SchemaFile)
		if err != nil {
			log.Printf("Warning: could not load schema %s: %v", cfg.Paths.SchemaFile, err)
		} else {
			s.Schema = hint
		}
	}

	return s
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/documents", s.ExtractDocument)
	r.GET("/reviews", s.ListReviews)
	r.GET("/tally", s.Tally)

	return r
}

type ExtractRequest struct {
	DocumentRef string `json:"document_ref" binding:"required"`
	Text        string `json:"text" binding:"required"`
}

// ExtractDocument runs one document through the full two-round pipeline
// and returns its terminal outcome.
func (s *Server) ExtractDocument(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	extractionReq := model.ExtractionRequest{
		Prompt: core.BuildExtractionPrompt(s.PromptTemplate, req.Text, core.DefaultMaxPromptChars),
		Schema: s.Schema,
	}

	outcome, err := s.Engine.RunDocument(c.Request.Context(), req.DocumentRef, extractionReq, s.BackendIDs)
	if err != nil {
		log.Printf("Failed to process %s: %v", req.DocumentRef, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process document"})
		return
	}

	if err := s.Ledger.RecordOutcome(uuid.New().String(), req.DocumentRef, outcome); err != nil {
		log.Printf("Failed to record outcome for %s: %v", req.DocumentRef, err)
	}

	c.JSON(http.StatusOK, outcome)
}

func (s *Server) ListReviews(c *gin.Context) {
	cases, err := s.Ledger.ReviewCases()
	if err != nil {
		log.Printf("Failed to list review cases: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list review cases"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": cases})
}

func (s *Server) Tally(c *gin.Context) {
	tally, err := s.Ledger.Tally(c.Query("run_id"))
	if err != nil {
		log.Printf("Failed to compute tally: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute tally"})
		return
	}
	c.JSON(http.StatusOK, tally)
}

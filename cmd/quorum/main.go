// Package main is the entry point for the quorum CLI: multi-backend
// structured extraction with consensus, focused re-extraction, and
// escalation to human review.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agenthands/quorum/internal/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "quorum",
	Short: "Multi-backend structured extraction with consensus",
	Long: `quorum extracts structured field values from documents by querying
several independent model backends and reconciling their answers.
Fields the backends agree on become the final record; disputed fields go
through a focused second extraction round, and documents that still
disagree are escalated to human review with a full candidate audit trail.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config/config.toml", "backends config (TOML)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgPath)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agenthands/quorum/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Inspect documents escalated to human review",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List escalated documents, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ledger, err := store.OpenLedger(cfg.Paths.LedgerPath)
		if err != nil {
			return err
		}
		defer ledger.Close()

		cases, err := ledger.ReviewCases()
		if err != nil {
			return err
		}
		if len(cases) == 0 {
			fmt.Println("No review cases.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DOCUMENT\tCASE\tFILE\tCREATED")
		for _, c := range cases {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.DocumentRef, c.CaseID, c.ArtifactPath, c.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	reviewCmd.AddCommand(reviewListCmd)
	rootCmd.AddCommand(reviewCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/review"
	"github.com/pdiddy/litreview/internal/store"
	"github.com/pdiddy/litreview/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan <query>",
	Short: "Scan cached documents for query-derived keywords",
	Long: `Scan derives keywords from the query ("healthcare AND device" yields
healthcare and device), searches every downloaded document in the record
catalog for them, and stores per-keyword counts, presence flags, and context
snippets back onto each record.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("catalog-dir", "catalog", "record catalog directory")
	scanCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	query := args[0]
	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	asJSON, _ := cmd.Flags().GetBool("json")

	st, err := store.Open(types.StoreConfig{CatalogDir: catalogDir})
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ListRecords()
	if err != nil {
		return err
	}

	pipeline := review.New(nil, types.PipelineConfig{}, nil)
	records = pipeline.ScanDocuments(records, query, os.Stderr)

	if err := st.SaveRecords(records); err != nil {
		return fmt.Errorf("saving records: %w", err)
	}

	if asJSON {
		return review.FormatJSON(os.Stdout, records)
	}
	review.FormatTable(os.Stdout, records)
	return nil
}

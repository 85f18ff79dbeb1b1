// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/review"
	"github.com/pdiddy/litreview/internal/store"
	"github.com/pdiddy/litreview/pkg/types"
)

const defaultRetrievalTimeout = 30 * time.Second

var runCmd = &cobra.Command{
	Use:   "run <query>",
	Short: "Run the full pipeline: fetch, dedup, download, scan",
	Long: `Run executes the whole aggregation pipeline for a query: catalog fetches,
deduplication, PDF retrieval into the document cache, and keyword scanning of
each downloaded document. Results are saved to the record catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().String("sources", "arxiv,semantic,ieee,acm", "comma-separated source tags (arxiv, semantic, ieee, acm, google)")
	runCmd.Flags().Int("limit", defaultLimit, "per-source result cap")
	runCmd.Flags().Bool("all", false, "page through each source until exhaustion or its hard cap")
	runCmd.Flags().String("cache-dir", "documents", "document cache directory")
	runCmd.Flags().String("catalog-dir", "catalog", "record catalog directory")
	runCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	query := args[0]
	sourcesFlag, _ := cmd.Flags().GetString("sources")
	limit, _ := cmd.Flags().GetInt("limit")
	fetchAll, _ := cmd.Flags().GetBool("all")
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	asJSON, _ := cmd.Flags().GetBool("json")

	sources := selectedSources(sourcesFlag)
	cat := buildCatalog(sources)

	cfg := types.PipelineConfig{
		Catalog: catalogConfig(),
		Retrieval: types.RetrievalConfig{
			HTTPConfig: types.HTTPConfig{Timeout: defaultRetrievalTimeout},
			CacheDir:   cacheDir,
		},
		Store: types.StoreConfig{CatalogDir: catalogDir},
	}

	pipeline := review.New(cat, cfg, nil)
	records := pipeline.Run(cmd.Context(), query, sources, limit, fetchAll, os.Stderr)

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveRecords(records); err != nil {
		return fmt.Errorf("saving records: %w", err)
	}

	if asJSON {
		return review.FormatJSON(os.Stdout, records)
	}
	review.FormatTable(os.Stdout, records)
	fmt.Fprintf(os.Stdout, "%d records saved to %s\n", len(records), catalogDir)
	return nil
}

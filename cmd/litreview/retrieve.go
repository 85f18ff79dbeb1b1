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

var retrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Download documents for stored records into the cache",
	Long: `Retrieve downloads the full-text PDF for every stored record that still has
an unresolved document, writing into the document cache. Already-cached files
are skipped, so the command is safe to rerun after blocked or failed
downloads.`,
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().String("cache-dir", "documents", "document cache directory")
	retrieveCmd.Flags().String("catalog-dir", "catalog", "record catalog directory")

	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	catalogDir, _ := cmd.Flags().GetString("catalog-dir")

	st, err := store.Open(types.StoreConfig{CatalogDir: catalogDir})
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ListRecords()
	if err != nil {
		return err
	}

	cfg := types.PipelineConfig{
		Retrieval: types.RetrievalConfig{
			HTTPConfig: types.HTTPConfig{Timeout: defaultRetrievalTimeout},
			CacheDir:   cacheDir,
		},
	}
	pipeline := review.New(nil, cfg, nil)
	records = pipeline.RetrieveDocuments(records, os.Stderr)

	if err := st.SaveRecords(records); err != nil {
		return fmt.Errorf("saving records: %w", err)
	}

	downloaded := 0
	for _, r := range records {
		if r.DocumentStatus == types.DocumentDownloaded {
			downloaded++
		}
	}
	fmt.Fprintf(os.Stdout, "%d/%d documents in cache\n", downloaded, len(records))
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/catalog"
	"github.com/pdiddy/litreview/internal/review"
	"github.com/pdiddy/litreview/pkg/types"
)

const (
	defaultCatalogTimeout = 30 * time.Second
	defaultUserAgent      = "litreview/0.1"
	defaultLimit          = 5
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <query>",
	Short: "Query literature catalogs and deduplicate the results",
	Long: `Fetch queries the selected catalogs for a search term, normalizes every
result into the canonical record shape, and deduplicates across sources by
DOI or title plus first author. No documents are downloaded.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("sources", "arxiv,semantic,ieee,acm", "comma-separated source tags (arxiv, semantic, ieee, acm, google)")
	fetchCmd.Flags().Int("limit", defaultLimit, "per-source result cap")
	fetchCmd.Flags().Bool("all", false, "page through each source until exhaustion or its hard cap")
	fetchCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	query := args[0]
	sourcesFlag, _ := cmd.Flags().GetString("sources")
	limit, _ := cmd.Flags().GetInt("limit")
	fetchAll, _ := cmd.Flags().GetBool("all")
	asJSON, _ := cmd.Flags().GetBool("json")

	sources := selectedSources(sourcesFlag)
	cat := buildCatalog(sources)

	var all []types.Record
	for _, tag := range sources {
		all = append(all, cat.FetchFromSource(cmd.Context(), tag, query, limit, fetchAll)...)
	}

	records := catalog.Deduplicate(all)

	if asJSON {
		return review.FormatJSON(os.Stdout, records)
	}
	review.FormatTable(os.Stdout, records)
	fmt.Fprintf(os.Stdout, "%d records (%d duplicates removed)\n", len(records), len(all)-len(records))
	return nil
}

// selectedSources splits and trims the sources flag.
func selectedSources(flag string) []string {
	var tags []string
	for _, s := range strings.Split(flag, ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}

// buildCatalog assembles the catalog from config, secrets, and an HTTP
// client with a bounded timeout. The scraper tool is attached only when
// the google source is requested and an interpreter exists.
func buildCatalog(tags []string) *catalog.Catalog {
	cfg := catalogConfig()
	client := &http.Client{Timeout: cfg.Timeout}

	var tool catalog.ScraperTool
	for _, tag := range tags {
		if tag == catalog.TagGoogle {
			t, err := catalog.DetectScraper()
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				break
			}
			tool = t
			break
		}
	}

	return catalog.New(cfg, client, tool, nil)
}

func catalogConfig() types.CatalogConfig {
	return types.CatalogConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultCatalogTimeout,
			UserAgent: defaultUserAgent,
		},
		MaxResults:            defaultLimit,
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", ""),
		IEEEAPIKey:            secretDefault("ieee-api-key", ""),
		ScholarPages:          1,
		ScraperDir:            "downloads",
	}
}

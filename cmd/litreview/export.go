// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/store"
	"github.com/pdiddy/litreview/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored record catalog as a review table",
	Long: `Export writes the stored records as a flat CSV review table (one
"<keyword>_count" column per keyword) or as YAML, which preserves the
nested keyword snippets the flat table cannot carry.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("catalog-dir", "catalog", "record catalog directory")
	exportCmd.Flags().String("format", "csv", "output format: csv or yaml")
	exportCmd.Flags().String("out", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	st, err := store.Open(types.StoreConfig{CatalogDir: catalogDir})
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ListRecords()
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "csv":
		err = store.ExportCSV(out, records)
	case "yaml":
		err = store.ExportYAML(out, records)
	default:
		err = fmt.Errorf("unknown export format %q (want csv or yaml)", format)
	}
	if err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "Exported %d records to %s\n", len(records), outPath)
	}
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"incident-analysis/internal/ingest"
)

var (
	importFile  string
	importSheet string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import incidents from a CSV or XLSX spreadsheet",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "Spreadsheet to import (required)")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Sheet name (defaults to the first sheet)")
	importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	if !ingest.Supported(importFile) {
		return fmt.Errorf("%s: %w", importFile, ingest.ErrUnsupportedFormat)
	}

	sheet := importSheet
	if sheet == "" {
		sheets, err := ingest.SheetNames(importFile)
		if err != nil {
			return err
		}
		if len(sheets) == 0 {
			return fmt.Errorf("%s: %w", importFile, ingest.ErrSheetNotFound)
		}
		sheet = sheets[0]
	}

	table, err := ingest.ReadSheet(importFile, sheet)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	incidents, issues := ingest.ToIncidents(table, loc)
	for _, issue := range issues {
		logger.Warn(issue.String())
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	imported, failed := 0, 0
	for _, inc := range incidents {
		if _, err := db.SaveIncident(ctx, inc); err != nil {
			logger.WithError(err).WithField("id", inc.ID).Warn("Failed to import incident")
			failed++
			continue
		}
		imported++
	}

	fmt.Printf("Imported %d incidents from %s (%s), %d failed, %d cell issues\n", imported, importFile, sheet, failed, len(issues))
	return nil
}

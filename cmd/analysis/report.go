package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"incident-analysis/internal/reliability"
	"incident-analysis/internal/report"
)

var (
	reportRange string
	reportType  string
	reportOut   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write charts, a summary and a CSV export for one analysis",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportRange, "range", string(reliability.Last30Days), "Date range label")
	reportCmd.Flags().StringVar(&reportType, "type", reliability.AllTypes, "Incident type filter")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "reports", "Output directory")
}

func runReport(cmd *cobra.Command, args []string) error {
	if _, err := reliability.ParseRangeLabel(reportRange); err != nil {
		return fmt.Errorf("%w (one of %v)", err, reliability.RangeLabels)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := newEngine()
	if err != nil {
		return err
	}

	incidents, err := db.ListIncidents(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load incidents: %w", err)
	}

	now := time.Now()
	res := engine.Analyze(incidents, reliability.Query{Range: reportRange, Type: reportType}, now)

	dir, err := report.NewGenerator(logger).GenerateReport(reportOut, res, now)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	fmt.Printf("%d of %d incidents analysed, report written to %s\n", len(res.Filtered), res.Total, dir)
	return nil
}

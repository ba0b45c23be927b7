package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"incident-analysis/internal/models"
)

func (g *Generator) generateTextReport(outputDir string, res models.MetricsResult, now time.Time) error {
	file, err := os.Create(filepath.Join(outputDir, "summary.txt"))
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteSummary(file, res, now)
}

// WriteSummary writes a plain-text summary of res
func WriteSummary(w io.Writer, res models.MetricsResult, now time.Time) error {
	fmt.Fprintf(w, "Incident Analysis Report\n")
	fmt.Fprintf(w, "Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Period: %s (%s to %s)\n", res.Range, res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"))
	fmt.Fprintf(w, "Type filter: %s\n\n", res.TypeFilter)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintln(w, "\nINCIDENTS")
	fmt.Fprintf(w, "  Matching: %d of %d\n", len(res.Filtered), res.Total)

	fmt.Fprintln(w, "\nBY TYPE")
	if len(res.TypeStats) == 0 {
		fmt.Fprintln(w, "  No incidents in period.")
	}
	codes := make([]string, 0, len(res.TypeStats))
	for code := range res.TypeStats {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "  %-6s %d\n", code, res.TypeStats[code])
	}

	fmt.Fprintln(w, "\nBY MONTH")
	for _, m := range res.MonthlyData {
		fmt.Fprintf(w, "  %s  %d\n", m.Month, m.Count)
	}

	fmt.Fprintln(w, "\nBY STATUS")
	for _, sc := range res.StatusData {
		fmt.Fprintf(w, "  %-12s %4d  (%.1f%%)\n", sc.Status, sc.Count, sc.Percentage)
	}

	if len(res.DepartData) > 0 {
		fmt.Fprintln(w, "\nTOP FEEDERS")
		fmt.Fprintf(w, "  %-20s %-8s %6s %4s %8s %7s\n", "Feeder", "Voltage", "Count", "DD", "Resolved", "Share")
		for _, d := range res.DepartData {
			fmt.Fprintf(w, "  %-20s %-8s %6d %4d %7.1f%% %6.1f%%\n",
				d.Depart, d.Voltage, d.Count, d.DDCount, d.ResolutionRate, d.Percentage)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	idx := res.Indices
	fmt.Fprintln(w, "\nRELIABILITY INDICES (permanent outages, DD)")
	fmt.Fprintf(w, "  DD count:                 %d\n", idx.DDCount)
	fmt.Fprintf(w, "  TCI (cumulative outage):  %d h\n", idx.TCIHours)
	fmt.Fprintf(w, "  TMC (mean outage):        %.1f min\n", idx.TMCMinutes)
	fmt.Fprintf(w, "  END (energy not served):  %d kWh\n", idx.ENDKwh)
	fmt.Fprintf(w, "  SAIDI:                    %.2f h/customer\n", idx.SAIDI)
	fmt.Fprintf(w, "  SAIFI:                    %.2f interruptions/customer\n", idx.SAIFI)
	fmt.Fprintf(w, "  CAIDI:                    %.2f h/interruption\n", idx.CAIDI)

	if idx.Estimated > 0 {
		fmt.Fprintf(w, "\n  %d DD incident(s) used estimated values.\n", idx.Estimated)
	}
	if len(idx.Incomplete) > 0 {
		fmt.Fprintf(w, "\n  Insufficient data for %d DD incident(s): %s\n", len(idx.Incomplete), strings.Join(idx.Incomplete, ", "))
	}

	fmt.Fprintln(w)
	_, err := fmt.Fprintln(w, strings.Repeat("=", 60))
	return err
}

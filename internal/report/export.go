package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"incident-analysis/internal/models"
)

var exportColumns = []string{
	"id", "posteName", "voltage", "status", "depart", "type", "declenchement",
	"rDepart", "retab", "ir", "finRetab", "troncons", "duration", "affectedCustomers", "createdAt",
}

func (g *Generator) generateCSVExport(outputDir string, res models.MetricsResult) error {
	file, err := os.Create(filepath.Join(outputDir, "incidents.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, res.Filtered)
}

// WriteCSV writes incidents as CSV with a header row
func WriteCSV(w io.Writer, incidents []models.Incident) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return err
	}

	for _, inc := range incidents {
		var duration, affected, createdAt string
		if inc.Duration != nil {
			duration = strconv.FormatFloat(*inc.Duration, 'f', -1, 64)
		}
		if inc.AffectedCustomers != nil {
			affected = strconv.Itoa(*inc.AffectedCustomers)
		}
		if inc.CreatedAt != nil {
			createdAt = inc.CreatedAt.Format(time.RFC3339)
		}

		record := []string{
			inc.ID, inc.PosteName, inc.Voltage, string(inc.Status), inc.Depart, inc.Type.String(),
			inc.Declenchement, inc.RDepart, inc.Retab, inc.IR, inc.FinRetab, inc.Troncons,
			duration, affected, createdAt,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"incident-analysis/internal/models"
)

// Generator writes chart images, a text summary and a CSV export for an
// analysis result
type Generator struct {
	logger *logrus.Logger
}

// NewGenerator creates a new report generator
func NewGenerator(logger *logrus.Logger) *Generator {
	return &Generator{logger: logger}
}

// GenerateReport creates a report directory under outputDir and returns its path.
// Individual artefacts that fail are logged and skipped.
func (g *Generator) GenerateReport(outputDir string, res models.MetricsResult, now time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := now.Format("2006-01-02_15-04-05")
	reportDir := filepath.Join(outputDir, fmt.Sprintf("analysis_report_%s_%s", sanitizeFilename(res.Range), timestamp))
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := g.generateTypeChart(reportDir, res); err != nil {
		g.logger.WithError(err).Warn("Failed to generate type chart")
	}

	if err := g.generateMonthlyChart(reportDir, res); err != nil {
		g.logger.WithError(err).Warn("Failed to generate monthly chart")
	}

	if err := g.generateStatusChart(reportDir, res); err != nil {
		g.logger.WithError(err).Warn("Failed to generate status chart")
	}

	if err := g.generateDepartChart(reportDir, res); err != nil {
		g.logger.WithError(err).Warn("Failed to generate feeder chart")
	}

	if err := g.generateTextReport(reportDir, res, now); err != nil {
		g.logger.WithError(err).Warn("Failed to generate text report")
	}

	if err := g.generateCSVExport(reportDir, res); err != nil {
		g.logger.WithError(err).Warn("Failed to generate CSV export")
	}

	g.logger.WithField("dir", reportDir).Info("Report generated")
	return reportDir, nil
}

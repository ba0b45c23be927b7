package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"incident-analysis/internal/models"
)

var errNoData = errors.New("no data to chart")

func (g *Generator) generateTypeChart(outputDir string, res models.MetricsResult) error {
	if len(res.TypeStats) == 0 {
		return errNoData
	}

	codes := make([]string, 0, len(res.TypeStats))
	for code := range res.TypeStats {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var values []chart.Value
	for i, code := range codes {
		values = append(values, chart.Value{
			Label: code,
			Value: float64(res.TypeStats[code]),
			Style: chart.Style{
				FillColor:   chart.GetDefaultColor(i),
				StrokeColor: chart.GetDefaultColor(i),
			},
		})
	}

	return renderBars(filepath.Join(outputDir, "incident_types.png"), "Incidents by Type - "+res.Range, values)
}

func (g *Generator) generateMonthlyChart(outputDir string, res models.MetricsResult) error {
	if len(res.MonthlyData) == 0 {
		return errNoData
	}

	var values []chart.Value
	for _, m := range res.MonthlyData {
		values = append(values, chart.Value{
			Label: m.Month,
			Value: float64(m.Count),
		})
	}

	return renderBars(filepath.Join(outputDir, "monthly_incidents.png"), "Incidents by Month - "+res.Range, values)
}

// statusColors follows the dashboard palette
var statusColors = map[models.Status]drawing.Color{
	models.StatusPending:    drawing.ColorFromHex("ff9800"),
	models.StatusInProgress: drawing.ColorFromHex("2196f3"),
	models.StatusResolved:   drawing.ColorFromHex("4caf50"),
}

func (g *Generator) generateStatusChart(outputDir string, res models.MetricsResult) error {
	if len(res.StatusData) == 0 {
		return errNoData
	}

	var values []chart.Value
	for _, sc := range res.StatusData {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", sc.Status, sc.Percentage),
			Value: float64(sc.Count),
			Style: chart.Style{
				FillColor:   statusColors[sc.Status],
				StrokeColor: drawing.ColorWhite,
			},
		})
	}

	pie := chart.PieChart{
		Title:  "Incidents by Status - " + res.Range,
		Width:  600,
		Height: 600,
		Values: values,
	}

	file, err := os.Create(filepath.Join(outputDir, "status_distribution.png"))
	if err != nil {
		return err
	}
	defer file.Close()

	return pie.Render(chart.PNG, file)
}

func (g *Generator) generateDepartChart(outputDir string, res models.MetricsResult) error {
	if len(res.DepartData) == 0 {
		return errNoData
	}

	var values []chart.Value
	for i, d := range res.DepartData {
		values = append(values, chart.Value{
			Label: d.Depart,
			Value: float64(d.Count),
			Style: chart.Style{
				FillColor:   chart.GetDefaultColor(i),
				StrokeColor: chart.GetDefaultColor(i),
			},
		})
	}

	return renderBars(filepath.Join(outputDir, "feeder_incidents.png"), "Top Feeders - "+res.Range, values)
}

func renderBars(filename, title string, values []chart.Value) error {
	max := 0.0
	for _, v := range values {
		if v.Value > max {
			max = v.Value
		}
	}

	graph := chart.BarChart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:    1200,
		Height:   400,
		BarWidth: 40,
		YAxis: chart.YAxis{
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: max + 1,
			},
		},
		Bars: values,
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

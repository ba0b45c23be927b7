package reliability

import (
	"sort"
	"strings"
	"time"

	"incident-analysis/internal/models"
)

// AggregateTypeStats counts incidents per type code. An incident carrying
// several codes increments each of them.
func AggregateTypeStats(filtered []models.Incident) map[string]int {
	stats := make(map[string]int)
	for _, inc := range filtered {
		for _, code := range inc.Type {
			stats[code]++
		}
	}
	return stats
}

// AggregateMonthly counts incidents per creation month in loc, ascending by
// month. Incidents without a creation time are skipped.
func AggregateMonthly(filtered []models.Incident, loc *time.Location) []models.MonthCount {
	if loc == nil {
		loc = time.UTC
	}

	months := make(map[string]int)
	for _, inc := range filtered {
		if inc.CreatedAt == nil || inc.CreatedAt.IsZero() {
			continue
		}
		months[inc.CreatedAt.In(loc).Format("2006-01")]++
	}

	data := make([]models.MonthCount, 0, len(months))
	for month, count := range months {
		data = append(data, models.MonthCount{Month: month, Count: count})
	}
	sort.Slice(data, func(i, j int) bool {
		return data[i].Month < data[j].Month
	})
	return data
}

// DepartLimit is the number of feeders kept by AggregateByDepart
const DepartLimit = 8

// statusOrder is the display order of the status distribution
var statusOrder = []models.Status{models.StatusPending, models.StatusInProgress, models.StatusResolved}

// AggregateStatus counts incidents per status in Pending, In Progress,
// Resolved order. Statuses with no incident are omitted.
func AggregateStatus(filtered []models.Incident) []models.StatusCount {
	counts := make(map[models.Status]int, len(statusOrder))
	for _, inc := range filtered {
		counts[models.ParseStatus(string(inc.Status))]++
	}

	data := make([]models.StatusCount, 0, len(statusOrder))
	for _, status := range statusOrder {
		if counts[status] == 0 {
			continue
		}
		data = append(data, models.StatusCount{
			Status:     status,
			Count:      counts[status],
			Percentage: percent(counts[status], len(filtered)),
		})
	}
	return data
}

// AggregateByDepart groups incidents by feeder, most incidents first, and
// keeps the top limit feeders (all when limit <= 0). Incidents with a blank
// feeder are left out, including from the percentage base.
func AggregateByDepart(filtered []models.Incident, limit int) []models.DepartStats {
	byDepart := make(map[string]*models.DepartStats)
	total := 0

	for _, inc := range filtered {
		depart := strings.TrimSpace(inc.Depart)
		if depart == "" {
			continue
		}
		total++

		ds, ok := byDepart[depart]
		if !ok {
			voltage := strings.TrimSpace(inc.Voltage)
			if voltage == "" {
				voltage = "N/A"
			}
			ds = &models.DepartStats{Depart: depart, Voltage: voltage}
			byDepart[depart] = ds
		}
		ds.Count++
		if inc.Type.Has(models.TypeDD) {
			ds.DDCount++
		}
		if inc.Status == models.StatusResolved {
			ds.Resolved++
		}
	}

	data := make([]models.DepartStats, 0, len(byDepart))
	for _, ds := range byDepart {
		ds.Percentage = percent(ds.Count, total)
		ds.ResolutionRate = percent(ds.Resolved, ds.Count)
		data = append(data, *ds)
	}
	sort.Slice(data, func(i, j int) bool {
		if data[i].Count != data[j].Count {
			return data[i].Count > data[j].Count
		}
		return data[i].Depart < data[j].Depart
	})

	if limit > 0 && len(data) > limit {
		data = data[:limit]
	}
	return data
}

// percent returns part as a percentage of whole to one decimal, 0 when whole is 0
func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round(float64(part)/float64(whole)*100, 1)
}

package reliability

import (
	"time"

	"incident-analysis/internal/models"
)

// EffectiveTime returns the instant used for date filtering. Incidents
// without a creation time are treated as created at now.
func EffectiveTime(inc models.Incident, now time.Time) time.Time {
	if inc.CreatedAt == nil || inc.CreatedAt.IsZero() {
		return now
	}
	return *inc.CreatedAt
}

// MatchesType reports whether inc passes typeFilter
func MatchesType(inc models.Incident, typeFilter string) bool {
	return typeFilter == AllTypes || typeFilter == "" || inc.Type.Has(typeFilter)
}

// FilterIncidents keeps incidents created at or after start whose type set
// matches typeFilter. Input order is preserved.
func FilterIncidents(incidents []models.Incident, start time.Time, typeFilter string, now time.Time) []models.Incident {
	filtered := make([]models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if EffectiveTime(inc, now).Before(start) {
			continue
		}
		if !MatchesType(inc, typeFilter) {
			continue
		}
		filtered = append(filtered, inc)
	}
	return filtered
}

package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"incident-analysis/internal/models"
	"incident-analysis/internal/reliability"
)

// RowIssue describes a cell that could not be coerced during import.
// The affected field is left empty; the row is still imported.
type RowIssue struct {
	Row    int    `json:"row"` // 1-based data row, header excluded
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (i RowIssue) String() string {
	return fmt.Sprintf("row %d, column %q: %s (%q)", i.Row, i.Column, i.Reason, i.Value)
}

type field int

const (
	fieldUnknown field = iota
	fieldID
	fieldType
	fieldCreatedAt
	fieldDeclenchement
	fieldFinRetab
	fieldDuration
	fieldAffectedCustomers
	fieldStatus
	fieldDepart
	fieldPosteName
	fieldVoltage
	fieldRDepart
	fieldRetab
	fieldIR
	fieldTroncons
)

var headerAliases = map[string]field{
	"id":                fieldID,
	"type":              fieldType,
	"types":             fieldType,
	"createdat":         fieldCreatedAt,
	"date":              fieldCreatedAt,
	"declenchement":     fieldDeclenchement,
	"finretab":          fieldFinRetab,
	"duration":          fieldDuration,
	"durationhours":     fieldDuration,
	"duree":             fieldDuration,
	"affectedcustomers": fieldAffectedCustomers,
	"clients":           fieldAffectedCustomers,
	"status":            fieldStatus,
	"depart":            fieldDepart,
	"postename":         fieldPosteName,
	"poste":             fieldPosteName,
	"voltage":           fieldVoltage,
	"tension":           fieldVoltage,
	"rdepart":           fieldRDepart,
	"retab":             fieldRetab,
	"ir":                fieldIR,
	"troncons":          fieldTroncons,
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "", "é", "e", "è", "e", "ç", "c").Replace(h)
}

// ToIncidents converts sheet rows into incidents. Headers are matched without
// regard to case, spaces, underscores or dashes; unknown columns are ignored.
// Zoneless timestamps are read in loc. Blank rows are skipped.
func ToIncidents(t Table, loc *time.Location) ([]models.Incident, []RowIssue) {
	columns := make(map[string]field, len(t.Columns))
	for _, c := range t.Columns {
		columns[c] = headerAliases[normalizeHeader(c)]
	}

	var incidents []models.Incident
	var issues []RowIssue

	for i, row := range t.Rows {
		if blank(row) {
			continue
		}

		inc := models.Incident{Status: models.StatusPending}
		for _, col := range t.Columns {
			value := strings.TrimSpace(row[col])
			if value == "" {
				continue
			}
			issue := apply(&inc, columns[col], value, loc)
			if issue != "" {
				issues = append(issues, RowIssue{Row: i + 1, Column: col, Value: value, Reason: issue})
			}
		}
		incidents = append(incidents, inc)
	}
	return incidents, issues
}

func apply(inc *models.Incident, f field, value string, loc *time.Location) string {
	switch f {
	case fieldID:
		inc.ID = value
	case fieldType:
		inc.Type = reliability.ParseTypes(value)
	case fieldCreatedAt:
		t, ok := reliability.ParseTimestamp(value, loc)
		if !ok {
			return "unrecognised timestamp"
		}
		inc.CreatedAt = &t
	case fieldDeclenchement:
		inc.Declenchement = value
	case fieldFinRetab:
		inc.FinRetab = value
	case fieldDuration:
		d, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
		if err != nil || !reliability.ValidDuration(d) {
			return fmt.Sprintf("duration is not a number of hours between 0 and %d", reliability.MaxOutageHours)
		}
		inc.Duration = &d
	case fieldAffectedCustomers:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return "affected customers is not a non-negative integer"
		}
		inc.AffectedCustomers = &n
	case fieldStatus:
		inc.Status = models.ParseStatus(value)
	case fieldDepart:
		inc.Depart = value
	case fieldPosteName:
		inc.PosteName = value
	case fieldVoltage:
		inc.Voltage = value
	case fieldRDepart:
		inc.RDepart = value
	case fieldRetab:
		inc.Retab = value
	case fieldIR:
		inc.IR = value
	case fieldTroncons:
		inc.Troncons = value
	}
	return ""
}

func blank(row map[string]string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

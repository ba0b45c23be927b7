package models

import "time"

// MonthCount is the number of incidents created in one calendar month
type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// StatusCount is the share of an analysis held by one status
type StatusCount struct {
	Status     Status  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DepartStats summarises the incidents of one feeder
type DepartStats struct {
	Depart         string  `json:"depart"`
	Voltage        string  `json:"voltage"` // voltage of the first incident seen
	Count          int     `json:"count"`
	DDCount        int     `json:"ddCount"`
	Resolved       int     `json:"resolved"`
	Percentage     float64 `json:"percentage"`     // of incidents with a feeder
	ResolutionRate float64 `json:"resolutionRate"` // resolved / count
}

// Indices holds the distribution reliability indices for a set of incidents
type Indices struct {
	DDCount    int     `json:"ddCount"`
	TCIHours   int64   `json:"tciHours"`
	// TMCMinutes is the mean outage time over the DD incidents whose duration
	// could be resolved. It divides by DDCount only when no DD incident is
	// listed in Incomplete for a missing duration.
	TMCMinutes float64 `json:"tmcMinutes"`
	ENDKwh     int64   `json:"endKwh"`
	SAIDI      float64 `json:"saidi"`
	SAIFI      float64 `json:"saifi"`
	CAIDI      float64 `json:"caidi"`

	// Estimated counts DD incidents where at least one value came from a
	// configured estimate instead of the record itself.
	Estimated int `json:"estimated"`

	// Incomplete lists DD incidents left out of one or more sums because
	// their duration or affected customers could not be resolved.
	Incomplete []string `json:"incomplete,omitempty"`
}

// MetricsResult is the outcome of one analysis run
type MetricsResult struct {
	Range       string         `json:"range"`
	TypeFilter  string         `json:"typeFilter"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	Total       int            `json:"total"`
	Filtered    []Incident     `json:"filtered"`
	TypeStats   map[string]int `json:"typeStats"`
	MonthlyData []MonthCount   `json:"monthlyData"`
	StatusData  []StatusCount  `json:"statusData"`
	DepartData  []DepartStats  `json:"departData"`
	Indices     Indices        `json:"indices"`
}

// DashboardStats summarises the incident log for the landing page
type DashboardStats struct {
	Total      int        `json:"total"`
	Resolved   int        `json:"resolved"`
	Pending    int        `json:"pending"`
	InProgress int        `json:"inProgress"`
	Recent     []Incident `json:"recent"`
}

// Snapshot is a persisted MetricsResult taken by the scheduler
type Snapshot struct {
	ID      string        `json:"id"`
	TakenAt time.Time     `json:"takenAt"`
	Range   string        `json:"range"`
	Result  MetricsResult `json:"result"`
}

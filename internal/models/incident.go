package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Status is the lifecycle state of an incident
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// ParseStatus maps a stored or submitted status onto a known Status.
// Unknown and empty values fall back to Pending.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in progress", "in-progress", "in_progress":
		return StatusInProgress
	case "resolved":
		return StatusResolved
	default:
		return StatusPending
	}
}

// Valid reports whether s is one of the three known states
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusResolved
}

// Known incident type codes offered by the incident form
const (
	TypeDRR = "DRR"
	TypeDRL = "DRL"
	TypeDD  = "DD"
	TypeED  = "ED"
	TypeBC  = "BC"
)

// KnownTypes lists the type codes in form order
var KnownTypes = []string{TypeDRR, TypeDRL, TypeDD, TypeED, TypeBC}

// TypeSet is an ordered set of incident type codes.
// It is stored and displayed as a single space-joined string.
type TypeSet []string

// NewTypeSet builds a set from codes, dropping blanks and duplicates
func NewTypeSet(codes ...string) TypeSet {
	var set TypeSet
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" || set.Has(c) {
			continue
		}
		set = append(set, c)
	}
	return set
}

// Has reports whether code is a member of the set
func (t TypeSet) Has(code string) bool {
	for _, c := range t {
		if c == code {
			return true
		}
	}
	return false
}

// String returns the storage form of the set
func (t TypeSet) String() string {
	return strings.Join(t, " ")
}

// MarshalJSON encodes the set as its space-joined string
func (t TypeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts either the space-joined string or an array of codes
func (t *TypeSet) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = NewTypeSet(strings.Fields(s)...)
		return nil
	}
	var codes []string
	if err := json.Unmarshal(data, &codes); err != nil {
		return err
	}
	*t = NewTypeSet(codes...)
	return nil
}

// Incident is a single network incident as recorded by an operator
type Incident struct {
	ID                string     `json:"id"`
	Type              TypeSet    `json:"type"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
	Declenchement     string     `json:"declenchement,omitempty"` // outage start
	FinRetab          string     `json:"finRetab,omitempty"`      // service fully restored
	Duration          *float64   `json:"duration,omitempty"`      // hours
	AffectedCustomers *int       `json:"affectedCustomers,omitempty"`
	Status            Status     `json:"status"`
	Depart            string     `json:"depart,omitempty"` // feeder
	PosteName         string     `json:"posteName,omitempty"`
	Voltage           string     `json:"voltage,omitempty"`
	RDepart           string     `json:"rDepart,omitempty"`
	Retab             string     `json:"retab,omitempty"`
	IR                string     `json:"ir,omitempty"`
	Troncons          string     `json:"troncons,omitempty"`
}

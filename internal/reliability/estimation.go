package reliability

import (
	"fmt"

	"incident-analysis/internal/models"
)

// EstimationPolicy supplies values for DD incidents whose record lacks them.
// A false second return marks the value as unavailable: the incident is then
// left out of the sums that need it and reported in Indices.Incomplete.
type EstimationPolicy interface {
	DurationHours(inc models.Incident) (float64, bool)
	AffectedCustomers(inc models.Incident) (int, bool)
}

// SkipPolicy never estimates
type SkipPolicy struct{}

func (SkipPolicy) DurationHours(models.Incident) (float64, bool) { return 0, false }
func (SkipPolicy) AffectedCustomers(models.Incident) (int, bool) { return 0, false }

// FixedPolicy substitutes configured defaults
type FixedPolicy struct {
	Hours     float64
	Customers int
}

// NewFixedPolicy returns a policy answering every gap with the given values
func NewFixedPolicy(durationHours float64, affectedCustomers int) FixedPolicy {
	return FixedPolicy{Hours: durationHours, Customers: affectedCustomers}
}

func (p FixedPolicy) DurationHours(models.Incident) (float64, bool) {
	return p.Hours, true
}

func (p FixedPolicy) AffectedCustomers(models.Incident) (int, bool) {
	return p.Customers, true
}

// Estimation modes accepted by PolicyFor
const (
	EstimationSkip  = "skip"
	EstimationFixed = "fixed"
)

// PolicyFor builds the policy named by mode
func PolicyFor(mode string, durationHours float64, affectedCustomers int) (EstimationPolicy, error) {
	switch mode {
	case "", EstimationSkip:
		return SkipPolicy{}, nil
	case EstimationFixed:
		if durationHours < 0 || affectedCustomers < 0 {
			return nil, fmt.Errorf("fixed estimation values must not be negative")
		}
		return NewFixedPolicy(durationHours, affectedCustomers), nil
	default:
		return nil, fmt.Errorf("unknown estimation mode %q", mode)
	}
}

package reliability

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"incident-analysis/internal/models"
)

// Defaults for Params
const (
	DefaultTotalCustomers            = 10000
	DefaultAveragePowerPerCustomerKw = 2.0
)

// MaxOutageHours bounds a recorded outage duration to one leap year
const MaxOutageHours = 24 * 366

// ValidDuration reports whether h is a usable outage duration in hours:
// finite, not negative and at most MaxOutageHours
func ValidDuration(h float64) bool {
	return !math.IsNaN(h) && !math.IsInf(h, 0) && h >= 0 && h <= MaxOutageHours
}

// Params configures the reliability index computation
type Params struct {
	TotalCustomers            int
	AveragePowerPerCustomerKw float64
	Estimation                EstimationPolicy
	Location                  *time.Location // zone for zoneless outage timestamps
}

// DefaultParams returns the stock network size, load and a skip policy
func DefaultParams() Params {
	return Params{
		TotalCustomers:            DefaultTotalCustomers,
		AveragePowerPerCustomerKw: DefaultAveragePowerPerCustomerKw,
		Estimation:                SkipPolicy{},
		Location:                  time.UTC,
	}
}

// OutageHours resolves the outage duration of inc from its start and end
// timestamps, falling back to the explicit duration field. A span that ends
// before it starts, and a duration field failing ValidDuration, are treated
// as missing.
func OutageHours(inc models.Incident, loc *time.Location) (float64, bool) {
	start, okStart := ParseTimestamp(inc.Declenchement, loc)
	end, okEnd := ParseTimestamp(inc.FinRetab, loc)
	if okStart && okEnd && !end.Before(start) {
		return end.Sub(start).Hours(), true
	}
	if inc.Duration != nil && ValidDuration(*inc.Duration) {
		return *inc.Duration, true
	}
	return 0, false
}

// ComputeIndices derives the reliability indices from the DD incidents of filtered
func ComputeIndices(filtered []models.Incident, p Params) models.Indices {
	if p.Estimation == nil {
		p.Estimation = SkipPolicy{}
	}

	var (
		idx                  models.Indices
		totalHours           float64
		totalCustomerHours   float64
		totalAffected        int
		incidentsWithOutages int
	)

	for _, inc := range filtered {
		if !inc.Type.Has(models.TypeDD) {
			continue
		}
		idx.DDCount++

		estimated := false
		hours, ok := OutageHours(inc, p.Location)
		if !ok {
			hours, ok = p.Estimation.DurationHours(inc)
			estimated = ok
		}
		hasHours := ok

		var customers int
		if inc.AffectedCustomers != nil && *inc.AffectedCustomers >= 0 {
			customers, ok = *inc.AffectedCustomers, true
		} else {
			customers, ok = p.Estimation.AffectedCustomers(inc)
			estimated = estimated || ok
		}
		hasCustomers := ok

		if estimated {
			idx.Estimated++
		}
		if !hasHours || !hasCustomers {
			idx.Incomplete = append(idx.Incomplete, inc.ID)
		}

		if hasHours {
			totalHours += hours
			incidentsWithOutages++
		}
		if hasCustomers {
			totalAffected += customers
		}
		if hasHours && hasCustomers {
			totalCustomerHours += hours * float64(customers)
		}
	}

	idx.TCIHours = roundInt(totalHours)
	if incidentsWithOutages > 0 {
		idx.TMCMinutes = round(totalHours/float64(incidentsWithOutages)*60, 1)
	}
	idx.ENDKwh = roundInt(totalCustomerHours * p.AveragePowerPerCustomerKw)

	if p.TotalCustomers > 0 {
		saidi := totalCustomerHours / float64(p.TotalCustomers)
		saifi := float64(totalAffected) / float64(p.TotalCustomers)
		idx.SAIDI = round(saidi, 2)
		idx.SAIFI = round(saifi, 2)
		if saifi > 0 {
			idx.CAIDI = round(saidi/saifi, 2)
		}
	}
	return idx
}

// round and roundInt map non-finite input to 0
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

func roundInt(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

package domain

import (
	"math"
	"slices"
	"time"

	"github.com/aclements/go-moremath/stats"
)

// MonthlyNormal summarizes one calendar month across the reference window.
type MonthlyNormal struct {
	Month time.Month `json:"month"`
	Label string     `json:"label"`
	Mean  float64    `json:"mean"`
	P25   float64    `json:"p25"`
	P75   float64    `json:"p75"`
	Count int        `json:"count"`
}

// HasData reports whether any observation contributed to the normal.
func (n MonthlyNormal) HasData() bool { return n.Count > 0 }

// Climatology holds the per-month normals over an inclusive year window.
type Climatology struct {
	StartYear int               `json:"start_year"`
	EndYear   int               `json:"end_year"`
	Months    [12]MonthlyNormal `json:"months"`
}

// Empty reports whether no month has reference data.
func (c Climatology) Empty() bool {
	for _, n := range c.Months {
		if n.HasData() {
			return false
		}
	}
	return true
}

// Normal returns the normal for a calendar month and whether it has data.
func (c Climatology) Normal(m time.Month) (MonthlyNormal, bool) {
	if m < time.January || m > time.December {
		return MonthlyNormal{}, false
	}
	n := c.Months[m-1]
	return n, n.HasData()
}

// ComputeClimatology restricts the series to [startYear, endYear] and computes
// the mean, 25th and 75th percentile of each calendar month.
func ComputeClimatology(s Series, startYear, endYear int) Climatology {
	var byMonth [12][]float64
	for _, o := range s.Years(startYear, endYear) {
		i := o.Date.Month() - 1
		byMonth[i] = append(byMonth[i], o.PrecipMM)
	}

	c := Climatology{StartYear: startYear, EndYear: endYear}
	for i, xs := range byMonth {
		m := time.Month(i + 1)
		n := MonthlyNormal{Month: m, Label: MonthLabel(m), Count: len(xs)}
		if len(xs) > 0 {
			n.Mean = stats.Mean(xs)
			n.P25 = Percentile(xs, 25)
			n.P75 = Percentile(xs, 75)
		}
		c.Months[i] = n
	}
	return c
}

// Percentile returns the p-th percentile (0–100) of xs using linear
// interpolation between closest ranks. It returns NaN for an empty slice.
func Percentile(xs []float64, p float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}

	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	p = min(max(p, 0), 100)
	rank := p / 100 * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}

	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

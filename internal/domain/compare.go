package domain

import (
	"fmt"
	"time"
)

// Deviation is the percent difference of an observation from its monthly mean.
// Infinite is set when the mean is zero and the observation positive; Percent
// is then meaningless and left at zero.
type Deviation struct {
	Percent  float64 `json:"percent"`
	Infinite bool    `json:"infinite"`
}

// String formats the deviation with an explicit sign, e.g. "+12.5%".
func (d Deviation) String() string {
	if d.Infinite {
		return "Infinite%"
	}
	return fmt.Sprintf("%+.1f%%", d.Percent)
}

// PercentDeviation computes (observed - mean) / mean * 100.
func PercentDeviation(observed, mean float64) Deviation {
	if mean == 0 {
		if observed > 0 {
			return Deviation{Infinite: true}
		}
		return Deviation{}
	}
	return Deviation{Percent: (observed - mean) / mean * 100}
}

// Anomaly is the current-year value minus the monthly mean. Valid is false
// when either side is missing.
type Anomaly struct {
	Month time.Month `json:"month"`
	Label string     `json:"label"`
	Value float64    `json:"value"`
	Valid bool       `json:"valid"`
}

// ComputeAnomalies subtracts the climatological mean from each month of the
// current year.
func ComputeAnomalies(cur CurrentYear, clim Climatology) [12]Anomaly {
	var out [12]Anomaly
	for i := range out {
		m := time.Month(i + 1)
		a := Anomaly{Month: m, Label: MonthLabel(m)}
		v, okV := cur.Value(m)
		n, okN := clim.Normal(m)
		if okV && okN {
			a.Value = v - n.Mean
			a.Valid = true
		}
		out[i] = a
	}
	return out
}

// Highlight describes the most recent observation against its normal.
// HasNormal is false when the climatology has no data for that month, in
// which case ClimMean, Anomaly and Deviation are zero.
type Highlight struct {
	Date      time.Time `json:"date"`
	Label     string    `json:"label"`
	Value     float64   `json:"value"`
	ClimMean  float64   `json:"clim_mean"`
	Anomaly   float64   `json:"anomaly"`
	Deviation Deviation `json:"deviation"`
	HasNormal bool      `json:"has_normal"`
}

// Month returns the calendar month of the highlighted observation.
func (h Highlight) Month() time.Month { return h.Date.Month() }

// CompareLatest builds the highlight for the chronologically last observation.
func CompareLatest(s Series, clim Climatology) (Highlight, bool) {
	latest, ok := Latest(s)
	if !ok {
		return Highlight{}, false
	}

	h := Highlight{
		Date:  latest.Date,
		Label: MonthLabel(latest.Date.Month()),
		Value: latest.PrecipMM,
	}
	if n, ok := clim.Normal(latest.Date.Month()); ok {
		h.ClimMean = n.Mean
		h.Anomaly = latest.PrecipMM - n.Mean
		h.Deviation = PercentDeviation(latest.PrecipMM, n.Mean)
		h.HasNormal = true
	}
	return h, true
}

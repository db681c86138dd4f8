package domain

import "time"

// Report is the outcome of one analysis run.
type Report struct {
	Location     string      `json:"location"`
	Observations int         `json:"observations"`
	Climatology  Climatology `json:"climatology"`
	Current      CurrentYear `json:"current"`
	Highlight    *Highlight  `json:"highlight,omitempty"`
	Anomalies    [12]Anomaly `json:"anomalies"`
	GeneratedAt  time.Time   `json:"generated_at"`
}

// Chartable reports whether there is enough data for the charts: at least one
// current-year observation and a non-empty climatology.
func (r Report) Chartable() bool {
	return !r.Current.Empty() && !r.Climatology.Empty()
}

// Analyze runs the aggregate and compare stages over a loaded series.
// An empty series yields an empty, non-chartable report.
func Analyze(location string, s Series, refStartYear, refEndYear int) Report {
	clim := ComputeClimatology(s, refStartYear, refEndYear)
	cur := ExtractCurrentYear(s)

	r := Report{
		Location:     location,
		Observations: len(s),
		Climatology:  clim,
		Current:      cur,
		Anomalies:    ComputeAnomalies(cur, clim),
		GeneratedAt:  clock.Now().UTC(),
	}
	if h, ok := CompareLatest(s, clim); ok {
		r.Highlight = &h
	}
	return r
}

package domain

import "time"

// CurrentYear holds the observations of the latest calendar year, aligned by
// month for charting.
type CurrentYear struct {
	Year    int         `json:"year"`
	Values  [12]float64 `json:"values"`
	Present [12]bool    `json:"present"`
}

// Empty reports whether no month of the year has an observation.
func (c CurrentYear) Empty() bool {
	for _, ok := range c.Present {
		if ok {
			return false
		}
	}
	return true
}

// Value returns the observation for a calendar month, if present.
func (c CurrentYear) Value(m time.Month) (float64, bool) {
	if m < time.January || m > time.December {
		return 0, false
	}
	return c.Values[m-1], c.Present[m-1]
}

// ExtractCurrentYear selects every observation of the largest year present.
// Duplicate months keep the later observation.
func ExtractCurrentYear(s Series) CurrentYear {
	year, ok := MaxYear(s)
	if !ok {
		return CurrentYear{}
	}

	cur := CurrentYear{Year: year}
	for _, o := range s.Years(year, year) {
		i := o.Date.Month() - 1
		cur.Values[i] = o.PrecipMM
		cur.Present[i] = true
	}
	return cur
}

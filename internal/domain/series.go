package domain

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

var (
	// ErrInputNotFound reports that the series file does not exist.
	ErrInputNotFound = errors.New("input series not found")

	// ErrMalformedInput reports that the series could not be decoded into a
	// date-to-number object.
	ErrMalformedInput = errors.New("malformed input series")
)

// dateLayouts are tried in order for non-numeric keys.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"200601",
	"2006",
}

// Observation is one monthly precipitation total.
type Observation struct {
	Date     time.Time `json:"date"`
	PrecipMM float64   `json:"precip_mm"`
}

// Series is a date-ordered sequence of monthly observations.
type Series []Observation

// ParseSeries decodes a JSON object of date keys to monthly totals and returns
// the observations sorted by date. Null values are skipped.
func ParseSeries(data []byte) (Series, error) {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformedInput)
	}

	series := make(Series, 0, len(raw))
	for key, v := range raw {
		if v == nil {
			continue
		}
		date, err := parseDateKey(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		series = append(series, Observation{Date: date, PrecipMM: *v})
	}

	slices.SortFunc(series, func(a, b Observation) int {
		return a.Date.Compare(b.Date)
	})
	return series, nil
}

// parseDateKey accepts the date spellings pandas infers for an index of
// strings, plus all-digit keys as Unix epoch milliseconds.
func parseDateKey(key string) (time.Time, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return time.Time{}, errors.New("empty date key")
	}

	if isDigits(key) && len(key) > 6 {
		ms, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("date key %q: %w", key, err)
		}
		return time.UnixMilli(ms).UTC(), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, key); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date key %q", key)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// MonthLabel returns the three-letter English abbreviation used on chart axes.
func MonthLabel(m time.Month) string {
	return m.String()[:3]
}

// MonthLabels returns Jan through Dec in calendar order.
func MonthLabels() []string {
	labels := make([]string, 12)
	for i := range labels {
		labels[i] = MonthLabel(time.Month(i + 1))
	}
	return labels
}

// Latest returns the chronologically last observation.
func Latest(s Series) (Observation, bool) {
	if len(s) == 0 {
		return Observation{}, false
	}
	return s[len(s)-1], true
}

// MaxYear returns the largest calendar year present in the series.
func MaxYear(s Series) (int, bool) {
	if len(s) == 0 {
		return 0, false
	}
	year := s[0].Date.Year()
	for _, o := range s[1:] {
		year = max(year, o.Date.Year())
	}
	return year, true
}

// Years returns the observations whose year falls within [from, to].
func (s Series) Years(from, to int) Series {
	var out Series
	for _, o := range s {
		if y := o.Date.Year(); y >= from && y <= to {
			out = append(out, o)
		}
	}
	return out
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeries(t *testing.T) {
	t.Run("sorted by date", func(t *testing.T) {
		data := []byte(`{"2024-03-01": 80.5, "2024-01-01": 210.0, "2024-02-01": 175.25}`)
		s, err := ParseSeries(data)
		require.NoError(t, err)
		require.Len(t, s, 3)

		assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), s[0].Date)
		assert.Equal(t, 210.0, s[0].PrecipMM)
		assert.Equal(t, time.February, s[1].Date.Month())
		assert.Equal(t, 175.25, s[1].PrecipMM)
		assert.Equal(t, time.March, s[2].Date.Month())
	})

	t.Run("null values dropped", func(t *testing.T) {
		s, err := ParseSeries([]byte(`{"2024-01-01": 10, "2024-02-01": null}`))
		require.NoError(t, err)
		require.Len(t, s, 1)
		assert.Equal(t, time.January, s[0].Date.Month())
	})

	t.Run("empty object", func(t *testing.T) {
		s, err := ParseSeries([]byte(`{}`))
		require.NoError(t, err)
		assert.Empty(t, s)
	})

	malformed := []struct {
		name string
		data string
	}{
		{"not json", `{invalid json`},
		{"array", `[1, 2, 3]`},
		{"null document", `null`},
		{"string value", `{"2024-01-01": "12.5"}`},
		{"unparsable date key", `{"last january": 12.5}`},
		{"empty date key", `{"": 12.5}`},
	}
	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeries([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestParseDateKey(t *testing.T) {
	jan1995 := time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		key      string
		expected time.Time
	}{
		{"date", "1995-01-01", jan1995},
		{"year month", "1995-01", jan1995},
		{"compact year month", "199501", jan1995},
		{"rfc3339", "1995-01-01T00:00:00Z", jan1995},
		{"datetime", "1995-01-01 00:00:00", jan1995},
		{"epoch millis", "788918400000", jan1995},
		{"slashes", "1995/01/01", jan1995},
		{"padded", " 1995-01-01 ", jan1995},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateKey(tt.key)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s", got)
		})
	}
}

func TestMonthLabels(t *testing.T) {
	assert.Equal(t,
		[]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		MonthLabels())
}

func TestLatestAndMaxYear(t *testing.T) {
	_, ok := Latest(nil)
	assert.False(t, ok)
	_, ok = MaxYear(nil)
	assert.False(t, ok)

	s := Series{
		{Date: monthDate(2023, time.December), PrecipMM: 1},
		{Date: monthDate(2024, time.February), PrecipMM: 2},
	}
	latest, ok := Latest(s)
	require.True(t, ok)
	assert.Equal(t, 2.0, latest.PrecipMM)

	year, ok := MaxYear(s)
	require.True(t, ok)
	assert.Equal(t, 2024, year)
}

func TestSeriesYears(t *testing.T) {
	s := Series{
		{Date: monthDate(1994, time.December)},
		{Date: monthDate(1995, time.January)},
		{Date: monthDate(2024, time.December)},
		{Date: monthDate(2025, time.January)},
	}
	got := s.Years(1995, 2024)
	require.Len(t, got, 2)
	assert.Equal(t, 1995, got[0].Date.Year())
	assert.Equal(t, 2024, got[1].Date.Year())
}

// --- helpers ---

func monthDate(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

// syntheticSeries builds one observation per month for [from, to] using fn.
func syntheticSeries(from, to int, fn func(year int, m time.Month) float64) Series {
	var s Series
	for y := from; y <= to; y++ {
		for m := time.January; m <= time.December; m++ {
			s = append(s, Observation{Date: monthDate(y, m), PrecipMM: fn(y, m)})
		}
	}
	return s
}

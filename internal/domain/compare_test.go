package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentDeviation(t *testing.T) {
	tests := []struct {
		name     string
		observed float64
		mean     float64
		expected Deviation
	}{
		{"equal to mean", 87.3, 87.3, Deviation{Percent: 0}},
		{"above mean", 150, 100, Deviation{Percent: 50}},
		{"below mean", 25, 100, Deviation{Percent: -75}},
		{"zero observed", 0, 40, Deviation{Percent: -100}},
		{"zero mean positive observed", 12, 0, Deviation{Infinite: true}},
		{"zero mean zero observed", 0, 0, Deviation{}},
		{"zero mean negative observed", -1, 0, Deviation{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentDeviation(tt.observed, tt.mean)
			assert.Equal(t, tt.expected.Infinite, got.Infinite)
			assert.InDelta(t, tt.expected.Percent, got.Percent, 1e-9)
		})
	}
}

func TestPercentDeviation_ExactlyZeroAtMean(t *testing.T) {
	clim := ComputeClimatology(Series{
		{Date: monthDate(2000, time.May), PrecipMM: 12.1},
		{Date: monthDate(2001, time.May), PrecipMM: 30.7},
		{Date: monthDate(2002, time.May), PrecipMM: 5.9},
	}, 1995, 2024)
	may, ok := clim.Normal(time.May)
	require.True(t, ok)

	d := PercentDeviation(may.Mean, may.Mean)
	assert.False(t, d.Infinite)
	assert.Zero(t, d.Percent)
}

func TestDeviationString(t *testing.T) {
	assert.Equal(t, "+12.5%", Deviation{Percent: 12.5}.String())
	assert.Equal(t, "-3.2%", Deviation{Percent: -3.24}.String())
	assert.Equal(t, "+0.0%", Deviation{}.String())
	assert.Equal(t, "Infinite%", Deviation{Infinite: true}.String())
}

func TestComputeAnomalies_KnownYear(t *testing.T) {
	// Reference years hold 5*m for month m; the current year holds 10*m, i.e.
	// [10, 20, ..., 120], so every anomaly is 5*m.
	s := syntheticSeries(1995, 2024, func(_ int, m time.Month) float64 { return float64(5 * int(m)) })
	s = append(s, syntheticSeries(2025, 2025, func(_ int, m time.Month) float64 { return float64(10 * int(m)) })...)

	clim := ComputeClimatology(s, 1995, 2024)
	cur := ExtractCurrentYear(s)
	anomalies := ComputeAnomalies(cur, clim)

	for i, a := range anomalies {
		m := time.Month(i + 1)
		n, _ := clim.Normal(m)
		v, _ := cur.Value(m)

		assert.True(t, a.Valid)
		assert.Equal(t, MonthLabel(m), a.Label)
		assert.InDelta(t, v-n.Mean, a.Value, 1e-9)
		assert.InDelta(t, float64(5*int(m)), a.Value, 1e-9)
	}
}

func TestComputeAnomalies_MissingSides(t *testing.T) {
	s := Series{
		{Date: monthDate(2000, time.January), PrecipMM: 100},
		{Date: monthDate(2025, time.February), PrecipMM: 40},
	}
	anomalies := ComputeAnomalies(ExtractCurrentYear(s), ComputeClimatology(s, 1995, 2024))

	for _, a := range anomalies {
		assert.False(t, a.Valid, a.Label)
		assert.Zero(t, a.Value, a.Label)
	}
}

func TestCompareLatest(t *testing.T) {
	s := syntheticSeries(1995, 2024, func(_ int, m time.Month) float64 { return 100 })
	s = append(s, Observation{Date: monthDate(2025, time.March), PrecipMM: 130})

	h, ok := CompareLatest(s, ComputeClimatology(s, 1995, 2024))
	require.True(t, ok)

	assert.Equal(t, "Mar", h.Label)
	assert.Equal(t, time.March, h.Month())
	assert.Equal(t, 130.0, h.Value)
	assert.Equal(t, 100.0, h.ClimMean)
	assert.InDelta(t, 30.0, h.Anomaly, 1e-9)
	assert.InDelta(t, 30.0, h.Deviation.Percent, 1e-9)
	assert.True(t, h.HasNormal)
}

func TestCompareLatest_ZeroMean(t *testing.T) {
	s := syntheticSeries(1995, 2024, func(_ int, m time.Month) float64 { return 0 })
	s = append(s, Observation{Date: monthDate(2025, time.July), PrecipMM: 3.2})

	h, ok := CompareLatest(s, ComputeClimatology(s, 1995, 2024))
	require.True(t, ok)
	assert.True(t, h.Deviation.Infinite)
	assert.InDelta(t, 3.2, h.Anomaly, 1e-9)
}

func TestCompareLatest_NoNormalForMonth(t *testing.T) {
	s := Series{{Date: monthDate(2025, time.June), PrecipMM: 9}}

	h, ok := CompareLatest(s, ComputeClimatology(s, 1995, 2024))
	require.True(t, ok)
	assert.False(t, h.HasNormal)
	assert.Zero(t, h.ClimMean)
	assert.Equal(t, Deviation{}, h.Deviation)
}

func TestCompareLatest_EmptySeries(t *testing.T) {
	_, ok := CompareLatest(nil, Climatology{})
	assert.False(t, ok)
}

// Package domain models a single-location monthly precipitation series and
// the climatology derived from it.
//
// # Input Shape
//
// The series arrives as a JSON object mapping a date to the monthly total in
// millimetres:
//
//	{"1995-01-01": 212.4, "1995-02-01": 187.0, ...}
//
// One value per month is expected. Keys may be full dates, year-month pairs,
// RFC 3339 timestamps, or Unix epoch milliseconds; only the year and month are
// used. Null values are dropped.
//
// # Climatology
//
// The climatology is computed over an inclusive reference window of calendar
// years (1995–2024 by default). Observations are grouped by calendar month and
// each month gets an arithmetic mean and the 25th/75th percentiles. Percentiles
// use linear interpolation between closest ranks:
//
//	rank = p/100 * (n-1)
//	value = x[floor(rank)] + (rank-floor(rank)) * (x[ceil(rank)] - x[floor(rank)])
//
// A month with no observations in the window has Count == 0 and is left out of
// the band and mean line. A window with no data at all is not an error: the
// climatology is simply empty and charts depending on it are skipped.
//
// # Current Year and Highlighted Month
//
// "This year" is the largest calendar year present in the series. The
// highlighted month is the chronologically last observation, which is usually
// but not necessarily inside this year.
//
// # Deviation
//
// Percent deviation of the highlighted month against its monthly mean:
//
//	(observed - mean) / mean * 100
//
// A zero mean yields an infinite deviation when observed > 0 and 0 otherwise.
package domain

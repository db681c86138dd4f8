// Command genmock writes a deterministic synthetic monthly precipitation
// series in the input format the climatology command reads. The seasonal
// profile follows a southern-hemisphere summer rainfall regime (wet Nov–Mar).
//
// Usage:
//
//	go run ./cmd/genmock -out data/precipitation_monthly.json -from 1990 -to 2025 -through 3
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
)

// seasonalMeanMM is the long-run mean of each calendar month, January first.
var seasonalMeanMM = [12]float64{245, 210, 160, 60, 22, 12, 10, 9, 18, 45, 120, 210}

func main() {
	if err := run(clockwork.NewRealClock()); err != nil {
		log.Fatal(err)
	}
}

func run(clock clockwork.Clock) error {
	now := clock.Now().UTC()

	out := flag.String("out", "", "output path for the JSON series")
	from := flag.Int("from", 1990, "first year of the series")
	to := flag.Int("to", now.Year(), "last year of the series")
	through := flag.Int("through", 0, "last month (1-12) of the final year; 0 means the last complete month for the current year, else 12")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *from > *to {
		return fmt.Errorf("-from %d is after -to %d", *from, *to)
	}

	lastMonth := *through
	if lastMonth == 0 {
		lastMonth = 12
		if *to == now.Year() {
			lastMonth = int(now.Month()) - 1
		}
	}
	if lastMonth < 0 || lastMonth > 12 {
		return fmt.Errorf("-through must be between 0 and 12, got %d", *through)
	}

	series := generate(*from, *to, time.Month(lastMonth), *seed)

	data, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		return fmt.Errorf("encode series: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write series: %w", err)
	}

	log.Printf("wrote %d monthly values (%d-01 .. %d-%02d) to %s", len(series), *from, *to, lastMonth, *out)
	return nil
}

// generate draws one log-normally perturbed value per month around the
// seasonal mean. The same seed always yields the same series.
func generate(from, to int, lastMonth time.Month, seed uint64) map[string]float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	series := make(map[string]float64)
	for y := from; y <= to; y++ {
		for m := time.January; m <= time.December; m++ {
			if y == to && m > lastMonth {
				break
			}
			v := seasonalMeanMM[m-1] * math.Exp(0.45*rng.NormFloat64()-0.1)
			key := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
			series[key] = math.Round(v*10) / 10
		}
	}
	return series
}

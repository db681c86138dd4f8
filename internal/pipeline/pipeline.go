package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/precip-climatology/internal/domain"
	"github.com/couchcryptid/precip-climatology/internal/observability"
)

// SeriesLoader reads the full observation series.
type SeriesLoader interface {
	Load(ctx context.Context) (domain.Series, error)
}

// ChartRenderer writes the two charts and returns their file paths.
type ChartRenderer interface {
	RenderClimatology(ctx context.Context, r domain.Report) (string, error)
	RenderAnomalies(ctx context.Context, r domain.Report) (string, error)
}

// ReportPublisher ships the finished report to an external sink.
type ReportPublisher interface {
	Publish(ctx context.Context, r domain.Report) error
}

// Window is the location and inclusive reference years of the climatology.
type Window struct {
	Location     string
	RefStartYear int
	RefEndYear   int
}

// Pipeline runs load, aggregate/compare, render and publish once.
type Pipeline struct {
	loader    SeriesLoader
	renderer  ChartRenderer
	publisher ReportPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	window    Window
	ready     atomic.Bool
}

// New creates a Pipeline. Pass a nil publisher to skip publication.
func New(l SeriesLoader, r ChartRenderer, pub ReportPublisher, logger *slog.Logger, metrics *observability.Metrics, window Window) *Pipeline {
	return &Pipeline{
		loader:    l,
		renderer:  r,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
		window:    window,
	}
}

// WithClock replaces the clock used for stage timing.
func (p *Pipeline) WithClock(c clockwork.Clock) *Pipeline {
	p.clock = c
	return p
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("analysis has not completed successfully")
	}
	return nil
}

// Run executes one analysis. A load failure aborts before any chart is
// produced. Missing data downstream skips charts without failing the run;
// render and publish failures are joined into the returned error.
func (p *Pipeline) Run(ctx context.Context) (domain.Report, error) {
	report, err := p.run(ctx)
	if err != nil {
		p.metrics.LastRunSuccess.Set(0)
		return report, err
	}
	p.metrics.LastRunSuccess.Set(1)
	p.ready.Store(true)
	return report, nil
}

func (p *Pipeline) run(ctx context.Context) (domain.Report, error) {
	series, err := p.load(ctx)
	if err != nil {
		return domain.Report{}, err
	}

	report := p.analyze(series)

	var errs []error
	if err := p.renderCharts(ctx, report); err != nil {
		errs = append(errs, err)
	}
	if err := p.publish(ctx, report); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return report, err
	}
	p.logger.Info("analysis complete", "location", report.Location)
	return report, nil
}

func (p *Pipeline) load(ctx context.Context) (domain.Series, error) {
	start := p.clock.Now()
	series, err := p.loader.Load(ctx)
	p.observeStage("load", start)
	if err != nil {
		p.logger.Error("failed to load series", "error", err)
		return nil, fmt.Errorf("load series: %w", err)
	}

	p.metrics.ObservationsLoaded.Set(float64(len(series)))
	attrs := []any{"observations", len(series)}
	if len(series) > 0 {
		attrs = append(attrs,
			"first", series[0].Date.Format("2006-01"),
			"last", series[len(series)-1].Date.Format("2006-01"))
	}
	p.logger.Info("series loaded", attrs...)
	return series, nil
}

func (p *Pipeline) analyze(series domain.Series) domain.Report {
	start := p.clock.Now()
	w := p.window
	report := domain.Analyze(w.Location, series, w.RefStartYear, w.RefEndYear)
	p.observeStage("aggregate", start)

	months := 0
	for _, n := range report.Climatology.Months {
		if n.HasData() {
			months++
		}
	}
	p.metrics.ClimatologyMonths.Set(float64(months))
	p.logger.Info("climatology computed",
		"ref_start_year", w.RefStartYear,
		"ref_end_year", w.RefEndYear,
		"months_with_data", months,
	)
	if !report.Current.Empty() {
		p.logger.Info("current year extracted", "this_year", report.Current.Year)
	}

	h := report.Highlight
	switch {
	case h == nil:
		p.logger.Error("no data for highlighted month")
	case !h.HasNormal:
		p.metrics.LatestPrecipMM.Set(h.Value)
		p.logger.Warn("highlighted month has no climatology",
			"month", h.Date.Format("2006-01"), "value_mm", h.Value)
	default:
		p.metrics.LatestPrecipMM.Set(h.Value)
		if h.Deviation.Infinite {
			p.metrics.LatestDeviationInf.Set(1)
		} else {
			p.metrics.LatestDeviationPct.Set(h.Deviation.Percent)
		}
		p.logger.Info("highlighted month compared",
			"month", h.Date.Format("2006-01"),
			"value_mm", h.Value,
			"clim_mean_mm", h.ClimMean,
			"deviation_pct", h.Deviation.String(),
		)
	}
	return report
}

func (p *Pipeline) renderCharts(ctx context.Context, report domain.Report) error {
	if !report.Chartable() {
		p.logger.Error("not enough data to generate charts",
			"current_year_empty", report.Current.Empty(),
			"climatology_empty", report.Climatology.Empty(),
		)
		p.metrics.ChartsSkipped.Add(2)
		return nil
	}

	start := p.clock.Now()
	defer p.observeStage("render", start)

	var errs []error
	for _, c := range []struct {
		name   string
		render func(context.Context, domain.Report) (string, error)
	}{
		{"climatology", p.renderer.RenderClimatology},
		{"anomaly", p.renderer.RenderAnomalies},
	} {
		path, err := c.render(ctx, report)
		if err != nil {
			p.logger.Error("chart rendering failed", "chart", c.name, "error", err)
			p.metrics.ChartErrors.Inc()
			errs = append(errs, fmt.Errorf("render %s chart: %w", c.name, err))
			continue
		}
		p.metrics.ChartsRendered.Inc()
		p.logger.Info("chart saved", "chart", c.name, "path", path)
	}
	return errors.Join(errs...)
}

func (p *Pipeline) publish(ctx context.Context, report domain.Report) error {
	if p.publisher == nil {
		return nil
	}

	start := p.clock.Now()
	defer p.observeStage("publish", start)

	if err := p.publisher.Publish(ctx, report); err != nil {
		p.logger.Error("report publication failed", "error", err)
		return fmt.Errorf("publish report: %w", err)
	}
	p.logger.Info("report published", "location", report.Location)
	return nil
}

func (p *Pipeline) observeStage(stage string, start time.Time) {
	p.metrics.StageDuration.WithLabelValues(stage).Observe(p.clock.Since(start).Seconds())
}

package chart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/precip-climatology/internal/domain"
)

// Output file names inside the configured folder.
const (
	ClimatologyFile = "1_precipitation_vs_climatology.png"
	AnomalyFile     = "2_precipitation_monthly_anomaly.png"
)

// Chart canvas size.
const (
	width  = 14 * vg.Inch
	height = 8 * vg.Inch
)

// ErrNoData is returned when the report lacks current-year values or a climatology.
var ErrNoData = errors.New("not enough data to render chart")

// Renderer writes the climatology and anomaly charts as PNG files.
// It implements pipeline.ChartRenderer.
type Renderer struct {
	outputDir string
	dpi       int
	logger    *slog.Logger
}

// NewRenderer creates a Renderer writing into outputDir at the given resolution.
func NewRenderer(outputDir string, dpi int, logger *slog.Logger) *Renderer {
	return &Renderer{outputDir: outputDir, dpi: dpi, logger: logger}
}

// OutputDir returns the folder charts are written to.
func (r *Renderer) OutputDir() string { return r.outputDir }

// RenderClimatology draws current-year bars against the climatology band and
// mean line and returns the written file path.
func (r *Renderer) RenderClimatology(ctx context.Context, report domain.Report) (string, error) {
	return r.render(ctx, report, ClimatologyFile, climatologyPlot)
}

// RenderAnomalies draws the per-month anomaly bars and returns the written file path.
func (r *Renderer) RenderAnomalies(ctx context.Context, report domain.Report) (string, error) {
	return r.render(ctx, report, AnomalyFile, anomalyPlot)
}

func (r *Renderer) render(ctx context.Context, report domain.Report, name string, build func(domain.Report) (*plot.Plot, error)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !report.Chartable() {
		return "", ErrNoData
	}

	p, err := build(report)
	if err != nil {
		return "", fmt.Errorf("build %s: %w", name, err)
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(r.outputDir, name)
	if err := r.save(p, path); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	r.logger.Debug("chart written", "path", path, "dpi", r.dpi)
	return path, nil
}

// save draws the plot onto a raster canvas at the configured DPI and encodes it as PNG.
func (r *Renderer) save(p *plot.Plot, path string) error {
	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(r.dpi))
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

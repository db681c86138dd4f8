package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/precip-climatology/internal/domain"
)

var (
	colorObserved = color.RGBA{R: 30, G: 144, B: 255, A: 255} // dodger blue
	colorDeficit  = color.RGBA{R: 178, G: 34, B: 34, A: 255}  // firebrick
	colorMean     = color.RGBA{R: 255, A: 255}
	colorBand     = color.NRGBA{R: 128, G: 128, B: 128, A: 51}
	colorMarker   = color.RGBA{R: 255, G: 215, A: 255} // gold
	colorGrid     = color.Gray{Y: 200}
)

const barWidth = vg.Length(40)

func climatologyPlot(r domain.Report) (*plot.Plot, error) {
	clim := r.Climatology
	p := newPlot(
		fmt.Sprintf("%s — Monthly Precipitation vs Climatology (%d–%d)", r.Location, clim.StartYear, clim.EndYear),
		"Precipitation Total (mm)",
	)

	for i, run := range climatologyRuns(clim) {
		band, err := plotter.NewPolygon(bandOutline(clim, run))
		if err != nil {
			return nil, fmt.Errorf("band: %w", err)
		}
		band.Color = colorBand
		band.LineStyle.Width = 0
		p.Add(band)
		if i == 0 {
			p.Legend.Add("Normal Range (P25–P75)", band)
		}
	}

	bars, err := plotter.NewBarChart(currentValues(r.Current), barWidth)
	if err != nil {
		return nil, fmt.Errorf("bars: %w", err)
	}
	bars.Color = colorObserved
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.Legend.Add(fmt.Sprintf("Observed (%d)", r.Current.Year), bars)

	line, points, err := plotter.NewLinePoints(meanPoints(clim))
	if err != nil {
		return nil, fmt.Errorf("mean line: %w", err)
	}
	line.Color = colorMean
	line.Width = vg.Points(2.5)
	points.Shape = draw.CircleGlyph{}
	points.Color = colorMean
	points.Radius = vg.Points(3.5)
	p.Add(line, points)
	p.Legend.Add(fmt.Sprintf("Climatological Mean (%d–%d)", clim.StartYear, clim.EndYear), line, points)

	if h := r.Highlight; h != nil {
		label := fmt.Sprintf("%.1f mm", h.Value)
		if h.HasNormal {
			label += fmt.Sprintf("\n(%s)", h.Deviation)
		}
		if err := addHighlight(p, monthIndex(h), h.Value, label); err != nil {
			return nil, err
		}
	}

	p.Legend.Top = true
	return p, nil
}

func anomalyPlot(r domain.Report) (*plot.Plot, error) {
	clim := r.Climatology
	p := newPlot(
		fmt.Sprintf("%s — Monthly Precipitation Anomaly (%d) vs Climatology (%d–%d)",
			r.Location, r.Current.Year, clim.StartYear, clim.EndYear),
		"Precipitation Anomaly (mm)",
	)

	surplus, deficit := anomalyBars(r.Anomalies)
	for _, s := range []struct {
		values plotter.Values
		color  color.Color
	}{
		{surplus, colorObserved},
		{deficit, colorDeficit},
	} {
		bars, err := plotter.NewBarChart(s.values, barWidth)
		if err != nil {
			return nil, fmt.Errorf("anomaly bars: %w", err)
		}
		bars.Color = s.color
		bars.LineStyle.Width = 0
		p.Add(bars)
	}

	zero, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: 0}, {X: 11.5, Y: 0}})
	if err != nil {
		return nil, fmt.Errorf("zero line: %w", err)
	}
	zero.Color = color.Black
	zero.Width = vg.Points(1.5)
	p.Add(zero)

	if h := r.Highlight; h != nil {
		i := monthIndex(h)
		if a := r.Anomalies[i]; a.Valid {
			label := fmt.Sprintf("%+.1f mm", a.Value)
			if h.HasNormal {
				label += fmt.Sprintf("\n(%s)", h.Deviation)
			}
			if err := addHighlight(p, i, a.Value, label); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func newPlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(20)
	p.X.Label.Text = "Month"
	p.Y.Label.Text = yLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.TextStyle.Font.Size = vg.Points(14)
	p.X.Tick.Label.Font.Size = vg.Points(12)
	p.Y.Tick.Label.Font.Size = vg.Points(12)
	p.NominalX(domain.MonthLabels()...)

	grid := plotter.NewGrid()
	grid.Vertical.Color = colorGrid
	grid.Vertical.Width = vg.Points(0.5)
	grid.Vertical.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Horizontal = grid.Vertical
	p.Add(grid)
	return p
}

// addHighlight marks (x, y) with a gold diamond and an annotation above it.
func addHighlight(p *plot.Plot, x int, y float64, label string) error {
	pt := plotter.XYs{{X: float64(x), Y: y}}

	marker, err := plotter.NewScatter(pt)
	if err != nil {
		return fmt.Errorf("highlight marker: %w", err)
	}
	marker.Shape = diamondGlyph{}
	marker.Color = colorMarker
	marker.Radius = vg.Points(7)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: pt, Labels: []string{label}})
	if err != nil {
		return fmt.Errorf("highlight label: %w", err)
	}
	labels.Offset = vg.Point{Y: vg.Points(14)}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YBottom
		labels.TextStyle[i].Font.Size = vg.Points(11)
	}

	p.Add(marker, labels)
	return nil
}

// monthIndex is the zero-based x position of the highlighted month.
func monthIndex(h *domain.Highlight) int {
	return int(h.Month()) - 1
}

// currentValues returns the twelve bar heights of the current year; absent
// months are zero-height and therefore invisible.
func currentValues(cur domain.CurrentYear) plotter.Values {
	vs := make(plotter.Values, 12)
	for i, ok := range cur.Present {
		if ok {
			vs[i] = cur.Values[i]
		}
	}
	return vs
}

// anomalyBars splits anomalies by sign so each group gets its own color.
// Each slice has twelve entries; the other group's months and invalid months are zero.
func anomalyBars(anomalies [12]domain.Anomaly) (surplus, deficit plotter.Values) {
	surplus = make(plotter.Values, 12)
	deficit = make(plotter.Values, 12)
	for i, a := range anomalies {
		switch {
		case !a.Valid:
		case a.Value >= 0:
			surplus[i] = a.Value
		default:
			deficit[i] = a.Value
		}
	}
	return surplus, deficit
}

// climatologyRuns groups consecutive month indices that have reference data.
func climatologyRuns(clim domain.Climatology) [][]int {
	var runs [][]int
	var cur []int
	for i, n := range clim.Months {
		if n.HasData() {
			cur = append(cur, i)
			continue
		}
		if len(cur) > 0 {
			runs = append(runs, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// bandOutline traces P75 left to right, then P25 right to left.
func bandOutline(clim domain.Climatology, run []int) plotter.XYs {
	xys := make(plotter.XYs, 0, 2*len(run))
	for _, i := range run {
		xys = append(xys, plotter.XY{X: float64(i), Y: clim.Months[i].P75})
	}
	for j := len(run) - 1; j >= 0; j-- {
		i := run[j]
		xys = append(xys, plotter.XY{X: float64(i), Y: clim.Months[i].P25})
	}
	return xys
}

func meanPoints(clim domain.Climatology) plotter.XYs {
	var xys plotter.XYs
	for i, n := range clim.Months {
		if n.HasData() {
			xys = append(xys, plotter.XY{X: float64(i), Y: n.Mean})
		}
	}
	return xys
}

// diamondGlyph is a filled diamond with a black outline.
type diamondGlyph struct{}

func (diamondGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := sty.Radius
	var path vg.Path
	path.Move(vg.Point{X: pt.X, Y: pt.Y + r})
	path.Line(vg.Point{X: pt.X + r, Y: pt.Y})
	path.Line(vg.Point{X: pt.X, Y: pt.Y - r})
	path.Line(vg.Point{X: pt.X - r, Y: pt.Y})
	path.Close()

	c.SetColor(sty.Color)
	c.Fill(path)
	c.SetLineWidth(vg.Points(1.5))
	c.SetColor(color.Black)
	c.Stroke(path)
}

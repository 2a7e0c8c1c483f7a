// Package render draws chart figures to static images with gonum/plot, for
// hosts that cannot run a browser-side renderer.
package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/statlens/internal/charts"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default image size when a figure's layout does not set one.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Formats lists the accepted output formats.
var Formats = []string{"png", "svg", "pdf"}

// Plot converts f into a gonum plot.
func Plot(f *charts.Figure) (*plot.Plot, error) {
	if f == nil {
		return nil, errors.New("nil figure")
	}
	p := plot.New()
	p.Title.Text = f.Layout.Title.Text
	if f.Layout.XAxis != nil {
		p.X.Label.Text = f.Layout.XAxis.Title.Text
	}
	if f.Layout.YAxis != nil {
		p.Y.Label.Text = f.Layout.YAxis.Title.Text
		if r := f.Layout.YAxis.Range; len(r) == 2 {
			p.Y.Min, p.Y.Max = r[0], r[1]
		}
	}

	var err error
	switch f.Kind {
	case charts.KindHistogram:
		err = addHistogram(p, f.Data)
	case charts.KindBox:
		err = addBoxes(p, f.Data)
	case charts.KindQQ:
		err = addScatterLines(p, f.Data)
	case charts.KindCorrelation, charts.KindConfusion:
		err = addHeatMap(p, f.Data)
	case charts.KindMetrics:
		err = addBars(p, f.Data)
	default:
		err = fmt.Errorf("unsupported figure kind %q", f.Kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "render %s", f.Kind)
	}
	return p, nil
}

// Write renders f to w in format ("png", "svg" or "pdf").
func Write(w io.Writer, f *charts.Figure, format string) error {
	p, err := Plot(f)
	if err != nil {
		return err
	}
	width, height := size(f.Layout)
	wt, err := p.WriterTo(width, height, strings.ToLower(format))
	if err != nil {
		return errors.Wrap(err, "image writer")
	}
	_, err = wt.WriteTo(w)
	return err
}

// WriteFile renders f to path, choosing the format from the extension.
func WriteFile(path string, f *charts.Figure) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		format = "png"
	}
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create image")
	}
	if err := Write(out, f, format); err != nil {
		out.Close()
		_ = os.Remove(path)
		return err
	}
	return out.Close()
}

func size(l charts.Layout) (vg.Length, vg.Length) {
	w, h := DefaultWidth, DefaultHeight
	// layout sizes are CSS pixels at 96 dpi
	if l.Width > 0 {
		w = vg.Length(l.Width) * vg.Inch / 96
	}
	if l.Height > 0 {
		h = vg.Length(l.Height) * vg.Inch / 96
	}
	return w, h
}

func addHistogram(p *plot.Plot, traces []charts.Trace) error {
	if len(traces) == 0 {
		return errors.New("no traces")
	}
	t := traces[0]
	vals, ok := t.X.([]float64)
	if !ok || len(vals) == 0 {
		return errors.New("histogram needs numeric x values")
	}
	bins := t.NBinsX
	if bins <= 0 {
		bins = charts.DefaultBins
	}
	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return err
	}
	h.FillColor = markerColor(t.Marker, 0)
	p.Add(h)
	return nil
}

func addBoxes(p *plot.Plot, traces []charts.Trace) error {
	names := make([]string, 0, len(traces))
	for i, t := range traces {
		vals, ok := t.Y.([]float64)
		if !ok || len(vals) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(20), float64(len(names)), plotter.Values(vals))
		if err != nil {
			return err
		}
		b.FillColor = seriesColor(i)
		p.Add(b)
		names = append(names, t.Name)
	}
	if len(names) == 0 {
		return errors.New("no numeric box data")
	}
	p.NominalX(names...)
	return nil
}

func addScatterLines(p *plot.Plot, traces []charts.Trace) error {
	for _, t := range traces {
		xs, okX := t.X.([]float64)
		ys, okY := t.Y.([]float64)
		if !okX || !okY || len(xs) != len(ys) {
			return errors.New("scatter traces need paired numeric x and y")
		}
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i].X, pts[i].Y = xs[i], ys[i]
		}
		switch t.Mode {
		case "lines":
			l, err := plotter.NewLine(pts)
			if err != nil {
				return err
			}
			if t.Line != nil {
				l.LineStyle.Color = parseColor(t.Line.Color)
				l.LineStyle.Width = vg.Points(float64(t.Line.Width))
			}
			p.Add(l)
			p.Legend.Add(t.Name, l)
		default:
			s, err := plotter.NewScatter(pts)
			if err != nil {
				return err
			}
			s.GlyphStyle.Color = markerColor(t.Marker, 0)
			if t.Marker != nil && t.Marker.Size > 0 {
				s.GlyphStyle.Radius = vg.Points(float64(t.Marker.Size) / 2)
			}
			p.Add(s)
			p.Legend.Add(t.Name, s)
		}
	}
	p.Legend.Top = true
	p.Legend.Left = true
	return nil
}

// grid adapts a row-major matrix to plotter.GridXYZ. Row 0 is drawn at the top.
type grid struct {
	z [][]float64
}

func (g grid) Dims() (c, r int)   { return len(g.z[0]), len(g.z) }
func (g grid) Z(c, r int) float64 { return g.z[len(g.z)-1-r][c] }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

func addHeatMap(p *plot.Plot, traces []charts.Trace) error {
	if len(traces) == 0 || len(traces[0].Z) == 0 || len(traces[0].Z[0]) == 0 {
		return errors.New("heatmap needs a matrix")
	}
	t := traces[0]
	g := grid{z: t.Z}
	pal := palette.Heat(12, 1)
	if t.ColorScale == "RdBu" {
		pal = palette.Radial(12, palette.Blue, palette.Red, 1)
	}
	hm := plotter.NewHeatMap(g, pal)
	if t.ZMid != nil {
		lo, hi := hm.Min, hm.Max
		span := max(hi-*t.ZMid, *t.ZMid-lo)
		hm.Min, hm.Max = *t.ZMid-span, *t.ZMid+span
	}
	p.Add(hm)

	cols, rows := g.Dims()
	var pts plotter.XYs
	var texts []string
	cells, _ := t.Text.([][]string)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			label := strconv.FormatFloat(t.Z[r][c], 'g', 3, 64)
			if r < len(cells) && c < len(cells[r]) {
				label = cells[r][c]
			}
			pts = append(pts, plotter.XY{X: float64(c), Y: float64(rows - 1 - r)})
			texts = append(texts, label)
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: texts})
	if err != nil {
		return err
	}
	p.Add(labels)

	if xs, ok := t.X.([]string); ok {
		p.NominalX(xs...)
	}
	if ys, ok := t.Y.([]string); ok {
		rev := make([]string, len(ys))
		for i, y := range ys {
			rev[len(ys)-1-i] = y
		}
		p.NominalY(rev...)
	}
	return nil
}

func addBars(p *plot.Plot, traces []charts.Trace) error {
	if len(traces) == 0 {
		return errors.New("no traces")
	}
	t := traces[0]
	vals, ok := t.Y.([]float64)
	if !ok || len(vals) == 0 {
		return errors.New("bar chart needs numeric y values")
	}
	for i, v := range vals {
		b, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(40))
		if err != nil {
			return err
		}
		b.XMin = float64(i)
		b.Color = markerColor(t.Marker, i)
		b.LineStyle.Width = 0
		p.Add(b)
	}
	if texts, ok := t.Text.([]string); ok && len(texts) == len(vals) {
		pts := make(plotter.XYs, len(vals))
		for i, v := range vals {
			pts[i] = plotter.XY{X: float64(i), Y: v}
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: texts})
		if err != nil {
			return err
		}
		p.Add(labels)
	}
	if names, ok := t.X.([]string); ok {
		p.NominalX(names...)
	}
	return nil
}

var named = map[string]color.RGBA{
	"red":    {R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	"blue":   {R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	"green":  {R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	"yellow": {R: 0xf2, G: 0xc9, B: 0x1e, A: 0xff},
	"purple": {R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	"black":  {A: 0xff},
}

// parseColor accepts the named colors above and #rrggbb. Anything else is
// drawn black.
func parseColor(s string) color.Color {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[s]; ok {
		return c
	}
	if len(s) == 7 && s[0] == '#' {
		if v, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
		}
	}
	return named["black"]
}

func markerColor(m *charts.Marker, i int) color.Color {
	if m == nil {
		return seriesColor(i)
	}
	switch c := m.Color.(type) {
	case string:
		return parseColor(c)
	case []string:
		if len(c) > 0 {
			return parseColor(c[i%len(c)])
		}
	}
	return seriesColor(i)
}

func seriesColor(i int) color.Color {
	return parseColor(charts.MetricColors[i%len(charts.MetricColors)])
}

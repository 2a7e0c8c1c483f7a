package charts

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/statlens/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Colors are the histogram colors offered to users.
var Colors = []string{"red", "blue", "green", "yellow", "purple"}

const (
	DefaultBins  = 30
	DefaultColor = "blue"
	MinBins      = 1
	MaxBins      = 50
)

// Q-Q theoretical probabilities span [qqLow, qqHigh].
const (
	qqLow  = 0.01
	qqHigh = 0.99
)

func numeric(ds *dataset.Dataset, column string) *dataset.Column {
	c, ok := ds.Column(column)
	if !ok || !c.IsNumeric() {
		return nil
	}
	return c
}

// Histogram bins column into bins buckets. It returns nil when column is
// absent or not numeric.
func Histogram(ds *dataset.Dataset, column string, bins int, color string) *Figure {
	c := numeric(ds, column)
	if c == nil {
		return nil
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	if color == "" {
		color = DefaultColor
	}
	return &Figure{
		Kind: KindHistogram,
		Data: []Trace{{
			Type:   "histogram",
			Name:   column,
			X:      c.Values(),
			NBinsX: bins,
			Marker: &Marker{Color: strings.ToLower(color)},
		}},
		Layout: newLayout(fmt.Sprintf("Distribution of %s", column), "Value", "Count"),
	}
}

// BoxPlot draws column, or every numeric column when column is empty. It
// returns nil for an absent or non-numeric column, or when there is nothing
// numeric to draw.
func BoxPlot(ds *dataset.Dataset, column string) *Figure {
	if column != "" {
		c := numeric(ds, column)
		if c == nil {
			return nil
		}
		return &Figure{
			Kind:   KindBox,
			Data:   []Trace{{Type: "box", Name: column, Y: c.Values()}},
			Layout: newLayout(fmt.Sprintf("Box Plot of %s", column), "", "Value"),
		}
	}
	cols := ds.NumericColumns()
	if len(cols) == 0 {
		return nil
	}
	f := &Figure{Kind: KindBox, Layout: newLayout("Box Plot", "", "Value")}
	for _, c := range cols {
		f.Data = append(f.Data, Trace{Type: "box", Name: c.Name, Y: c.Values()})
	}
	return f
}

// QQPlot plots sorted sample values against standard-normal quantiles at
// evenly spaced probabilities over [0.01, 0.99], with a y=x reference line.
func QQPlot(ds *dataset.Dataset, column string) *Figure {
	c := numeric(ds, column)
	if c == nil {
		return nil
	}
	sample := c.Values()
	if len(sample) == 0 {
		return nil
	}
	sort.Float64s(sample)
	theory := theoreticalQuantiles(len(sample))

	lo := math.Min(floats.Min(theory), sample[0])
	hi := math.Max(floats.Max(theory), sample[len(sample)-1])
	return &Figure{
		Kind: KindQQ,
		Data: []Trace{
			{
				Type:   "scatter",
				Name:   "Sample Quantiles",
				Mode:   "markers",
				X:      theory,
				Y:      sample,
				Marker: &Marker{Color: "blue", Size: 4},
			},
			{
				Type: "scatter",
				Name: "Reference Line",
				Mode: "lines",
				X:    []float64{lo, hi},
				Y:    []float64{lo, hi},
				Line: &Line{Color: "red", Width: 2},
			},
		},
		Layout: newLayout(fmt.Sprintf("Q-Q Plot of %s", column), "Theoretical Quantiles", "Sample Quantiles"),
	}
}

func theoreticalQuantiles(n int) []float64 {
	probs := make([]float64, n)
	if n == 1 {
		probs[0] = qqLow
	} else {
		floats.Span(probs, qqLow, qqHigh)
	}
	for i, p := range probs {
		probs[i] = distuv.UnitNormal.Quantile(p)
	}
	return probs
}

// CorrelationMatrix returns pairwise Pearson coefficients between the numeric
// columns of ds, using rows where both values are present. Undefined
// coefficients are reported as 0.
func CorrelationMatrix(ds *dataset.Dataset) ([]string, [][]float64) {
	cols := ds.NumericColumns()
	names := make([]string, len(cols))
	m := make([][]float64, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		m[i] = make([]float64, len(cols))
		m[i][i] = 1
	}
	for i := 0; i < len(cols); i++ {
		for j := 0; j < i; j++ {
			x, y := pairwise(cols[i].Floats, cols[j].Floats)
			r := 0.0
			if len(x) >= 2 {
				r = stat.Correlation(x, y, nil)
			}
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			}
			m[i][j], m[j][i] = r, r
		}
	}
	return names, m
}

func pairwise(a, b []float64) (x, y []float64) {
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		x = append(x, a[k])
		y = append(y, b[k])
	}
	return x, y
}

// Correlation renders the correlation heatmap. It returns nil when ds has
// fewer than two numeric columns.
func Correlation(ds *dataset.Dataset) *Figure {
	names, m := CorrelationMatrix(ds)
	if len(names) < 2 {
		return nil
	}
	text := make([][]string, len(m))
	for i, row := range m {
		text[i] = make([]string, len(row))
		for j, v := range row {
			text[i][j] = formatRounded(v, 2)
		}
	}
	l := newLayout("Correlation Matrix", "", "")
	l.Width, l.Height = 600, 600
	return &Figure{
		Kind: KindCorrelation,
		Data: []Trace{{
			Type:         "heatmap",
			X:            names,
			Y:            names,
			Z:            m,
			Text:         text,
			TextTemplate: "%{text}",
			TextFont:     &Font{Size: 10},
			ColorScale:   "RdBu",
			ZMid:         floatPtr(0),
			HoverOnGaps:  boolPtr(false),
		}},
		Layout: l,
	}
}

// formatRounded rounds half away from zero and drops trailing zeros, so 0.5
// renders as "0.5" and 1 as "1".
func formatRounded(v float64, places int) string {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		r = 0 // normalise -0
	}
	return fmt.Sprintf("%g", r)
}

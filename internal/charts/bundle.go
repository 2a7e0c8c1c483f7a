package charts

import "github.com/KaramelBytes/statlens/internal/dataset"

// Options selects which dataset charts Build produces.
type Options struct {
	Column          string
	Bins            int
	Color           string
	ShowPlot        bool
	ShowCorrelation bool
}

// Bundle holds the dataset charts; each entry is nil when not requested or
// when the data is unsuitable for it.
type Bundle struct {
	Histogram   *Figure `json:"histogram,omitempty"`
	BoxPlot     *Figure `json:"boxplot,omitempty"`
	QQPlot      *Figure `json:"qqplot,omitempty"`
	Correlation *Figure `json:"correlation,omitempty"`
}

// Figures returns the non-nil figures in display order.
func (b Bundle) Figures() []*Figure {
	var out []*Figure
	for _, f := range []*Figure{b.Histogram, b.BoxPlot, b.QQPlot, b.Correlation} {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

// Build assembles the dataset charts. Nothing is drawn unless ShowPlot is
// set; the histogram and Q-Q plot also need a column, and the correlation
// heatmap needs ShowCorrelation.
func Build(ds *dataset.Dataset, opt Options) Bundle {
	var b Bundle
	if !opt.ShowPlot {
		return b
	}
	if opt.Column != "" {
		b.Histogram = Histogram(ds, opt.Column, opt.Bins, opt.Color)
		b.QQPlot = QQPlot(ds, opt.Column)
	}
	b.BoxPlot = BoxPlot(ds, opt.Column)
	if opt.ShowCorrelation {
		b.Correlation = Correlation(ds)
	}
	return b
}

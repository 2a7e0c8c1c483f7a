package charts

import (
	"fmt"

	"github.com/KaramelBytes/statlens/internal/classifier"
)

// MetricColors are the bar colors for accuracy, precision, recall and F1.
var MetricColors = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728"}

// ConfusionMatrix renders r's confusion matrix as a heatmap with rows
// labelled by actual class and columns by predicted class.
func ConfusionMatrix(r *classifier.Result) *Figure {
	if r == nil || len(r.ConfusionMatrix) == 0 {
		return nil
	}
	k := len(r.ClassLabels)
	xs := make([]string, k)
	ys := make([]string, k)
	for i, label := range r.ClassLabels {
		xs[i] = "Predicted " + label
		ys[i] = "Actual " + label
	}
	z := make([][]float64, len(r.ConfusionMatrix))
	text := make([][]string, len(r.ConfusionMatrix))
	for i, row := range r.ConfusionMatrix {
		z[i] = make([]float64, len(row))
		text[i] = make([]string, len(row))
		for j, v := range row {
			z[i][j] = float64(v)
			text[i][j] = fmt.Sprintf("%d", v)
		}
	}
	l := newLayout("Confusion Matrix", "Predicted", "Actual")
	l.Width, l.Height = 500, 500
	return &Figure{
		Kind: KindConfusion,
		Data: []Trace{{
			Type:         "heatmap",
			X:            xs,
			Y:            ys,
			Z:            z,
			Text:         text,
			TextTemplate: "%{text}",
			TextFont:     &Font{Size: 12},
			ColorScale:   "Blues",
			HoverOnGaps:  boolPtr(false),
		}},
		Layout: l,
	}
}

// MetricsBar renders the four headline scores of r on a [0, 1] axis.
func MetricsBar(r *classifier.Result) *Figure {
	if r == nil {
		return nil
	}
	values := []float64{r.Accuracy, r.Precision, r.Recall, r.F1Score}
	text := make([]string, len(values))
	for i, v := range values {
		text[i] = fmt.Sprintf("%.3f", v)
	}
	l := newLayout("SVM Model Performance Metrics", "Metrics", "Score")
	l.YAxis.Range = []float64{0, 1}
	l.ShowLegend = boolPtr(false)
	return &Figure{
		Kind: KindMetrics,
		Data: []Trace{{
			Type:         "bar",
			X:            []string{"Accuracy", "Precision", "Recall", "F1-Score"},
			Y:            values,
			Marker:       &Marker{Color: MetricColors},
			Text:         text,
			TextPosition: "auto",
		}},
		Layout: l,
	}
}

// ResultBundle holds the charts derived from a classifier result.
type ResultBundle struct {
	ConfusionMatrix *Figure `json:"confusion_matrix,omitempty"`
	Metrics         *Figure `json:"metrics,omitempty"`
}

// BuildResult renders both result charts.
func BuildResult(r *classifier.Result) ResultBundle {
	return ResultBundle{ConfusionMatrix: ConfusionMatrix(r), Metrics: MetricsBar(r)}
}

package charts

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/KaramelBytes/statlens/internal/classifier"
	"github.com/KaramelBytes/statlens/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixed(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		dataset.NewNumeric("a", []float64{1, 2, 3, 4, math.NaN()}),
		dataset.NewNumeric("b", []float64{2, 4, 6, 8, 10}),
		dataset.NewCategorical("c", []string{"x", "y", "x", "y", "x"}, nil),
	)
	require.NoError(t, err)
	return ds
}

func TestBuildersReturnNilForUnsuitableColumns(t *testing.T) {
	ds := mixed(t)
	for _, col := range []string{"missing", "c"} {
		assert.Nil(t, Histogram(ds, col, 10, "red"), col)
		assert.Nil(t, BoxPlot(ds, col), col)
		assert.Nil(t, QQPlot(ds, col), col)
	}
}

func TestHistogram(t *testing.T) {
	f := Histogram(mixed(t), "a", 12, "Red")
	require.NotNil(t, f)
	assert.Equal(t, KindHistogram, f.Kind)
	assert.Equal(t, "Distribution of a", f.Layout.Title.Text)
	assert.Equal(t, Template, f.Layout.Template)
	require.Len(t, f.Data, 1)
	assert.Equal(t, 12, f.Data[0].NBinsX)
	assert.Equal(t, "red", f.Data[0].Marker.Color)
	assert.Equal(t, []float64{1, 2, 3, 4}, f.Data[0].X)
}

func TestBoxPlotModes(t *testing.T) {
	ds := mixed(t)
	one := BoxPlot(ds, "b")
	require.NotNil(t, one)
	assert.Equal(t, "Box Plot of b", one.Layout.Title.Text)
	assert.Len(t, one.Data, 1)

	all := BoxPlot(ds, "")
	require.NotNil(t, all)
	assert.Equal(t, "Box Plot", all.Layout.Title.Text)
	require.Len(t, all.Data, 2)
	assert.Equal(t, "a", all.Data[0].Name)
	assert.Equal(t, "b", all.Data[1].Name)

	text, err := dataset.New(dataset.NewCategorical("c", []string{"x"}, nil))
	require.NoError(t, err)
	assert.Nil(t, BoxPlot(text, ""))
}

func TestQQPlot(t *testing.T) {
	f := QQPlot(mixed(t), "a")
	require.NotNil(t, f)
	require.Len(t, f.Data, 2)
	theory := f.Data[0].X.([]float64)
	sample := f.Data[0].Y.([]float64)
	require.Len(t, theory, 4, "missing values are dropped")
	assert.Equal(t, []float64{1, 2, 3, 4}, sample)
	assert.InDelta(t, -2.326348, theory[0], 1e-5)
	assert.InDelta(t, 2.326348, theory[3], 1e-5)
	for i := 1; i < len(theory); i++ {
		assert.Greater(t, theory[i], theory[i-1])
	}
	ref := f.Data[1]
	assert.Equal(t, []float64{theory[0], 4}, ref.X)
	assert.Equal(t, ref.X, ref.Y)
	assert.Equal(t, "Q-Q Plot of a", f.Layout.Title.Text)
}

func TestCorrelation(t *testing.T) {
	single, err := dataset.New(dataset.NewNumeric("a", []float64{1, 2}), dataset.NewCategorical("c", []string{"x", "y"}, nil))
	require.NoError(t, err)
	assert.Nil(t, Correlation(single))

	ds := dataset.Random(300, dataset.RandomSeed)
	f := Correlation(ds)
	require.NotNil(t, f)
	z := f.Data[0].Z
	require.Len(t, z, 3)
	for i := range z {
		assert.Equal(t, 1.0, z[i][i])
		for j := range z {
			assert.Equal(t, z[i][j], z[j][i])
			assert.LessOrEqual(t, math.Abs(z[i][j]), 1.0)
		}
	}
	assert.Equal(t, 600, f.Layout.Width)
	assert.Equal(t, "RdBu", f.Data[0].ColorScale)

	names, m := CorrelationMatrix(mixed(t))
	assert.Equal(t, []string{"a", "b"}, names)
	assert.InDelta(t, 1.0, m[0][1], 1e-12, "pairwise complete rows are perfectly correlated")
}

func TestCorrelationConstantColumnIsZero(t *testing.T) {
	ds, err := dataset.New(dataset.NewNumeric("a", []float64{1, 2, 3}), dataset.NewNumeric("k", []float64{5, 5, 5}))
	require.NoError(t, err)
	_, m := CorrelationMatrix(ds)
	assert.Equal(t, 0.0, m[0][1])
	assert.Equal(t, 1.0, m[1][1])
}

func TestFormatRounded(t *testing.T) {
	assert.Equal(t, "0.12", formatRounded(0.1249, 2))
	assert.Equal(t, "-0.5", formatRounded(-0.499, 2))
	assert.Equal(t, "1", formatRounded(1, 2))
	assert.Equal(t, "0", formatRounded(-0.001, 2))
}

func TestBuildHonoursFlags(t *testing.T) {
	ds := dataset.Random(100, dataset.RandomSeed)
	none := Build(ds, Options{Column: "x"})
	assert.Empty(t, none.Figures())

	b := Build(ds, Options{Column: "x", Bins: 20, Color: "green", ShowPlot: true})
	assert.NotNil(t, b.Histogram)
	assert.NotNil(t, b.BoxPlot)
	assert.NotNil(t, b.QQPlot)
	assert.Nil(t, b.Correlation)

	b = Build(ds, Options{ShowPlot: true, ShowCorrelation: true})
	assert.Nil(t, b.Histogram)
	assert.Nil(t, b.QQPlot)
	assert.Len(t, b.BoxPlot.Data, 3)
	assert.NotNil(t, b.Correlation)
	assert.Len(t, b.Figures(), 2)
}

func TestResultCharts(t *testing.T) {
	assert.Nil(t, ConfusionMatrix(nil))
	assert.Nil(t, MetricsBar(nil))

	r := &classifier.Result{
		Accuracy: 0.75, Precision: 0.5, Recall: 1, F1Score: 0.6667,
		ConfusionMatrix: [][]int{{1, 1}, {0, 2}},
		ClassLabels:     []string{"no", "yes"},
	}
	b := BuildResult(r)
	require.NotNil(t, b.ConfusionMatrix)
	cm := b.ConfusionMatrix.Data[0]
	assert.Equal(t, []string{"Predicted no", "Predicted yes"}, cm.X)
	assert.Equal(t, []string{"Actual no", "Actual yes"}, cm.Y)
	assert.Equal(t, [][]float64{{1, 1}, {0, 2}}, cm.Z)
	assert.Equal(t, "Blues", cm.ColorScale)

	require.NotNil(t, b.Metrics)
	bar := b.Metrics.Data[0]
	assert.Equal(t, []string{"0.750", "0.500", "1.000", "0.667"}, bar.Text)
	assert.Equal(t, []float64{0, 1}, b.Metrics.Layout.YAxis.Range)
	assert.Equal(t, "SVM Model Performance Metrics", b.Metrics.Layout.Title.Text)
}

func TestFigureJSONShape(t *testing.T) {
	f := Correlation(dataset.Random(50, dataset.RandomSeed))
	raw, err := f.JSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "data")
	assert.Contains(t, decoded, "layout")
	layout := decoded["layout"].(map[string]any)
	assert.Equal(t, "plotly_white", layout["template"])
	trace := decoded["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "heatmap", trace["type"])
	assert.Equal(t, 0.0, trace["zmid"])
	assert.Equal(t, "%{text}", trace["texttemplate"])
}

package render

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/statlens/internal/charts"
	"github.com/KaramelBytes/statlens/internal/classifier"
	"github.com/KaramelBytes/statlens/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestWriteEveryFigureKind(t *testing.T) {
	ds := dataset.Random(200, dataset.RandomSeed)
	res := &classifier.Result{
		Accuracy: 0.9, Precision: 0.8, Recall: 0.85, F1Score: 0.82,
		ConfusionMatrix: [][]int{{5, 1}, {0, 4}},
		ClassLabels:     []string{"no", "yes"},
	}
	figs := map[string]*charts.Figure{
		"histogram":   charts.Histogram(ds, "x", 20, "green"),
		"box":         charts.BoxPlot(ds, ""),
		"qq":          charts.QQPlot(ds, "y"),
		"correlation": charts.Correlation(ds),
		"confusion":   charts.ConfusionMatrix(res),
		"metrics":     charts.MetricsBar(res),
	}
	for name, f := range figs {
		t.Run(name, func(t *testing.T) {
			require.NotNil(t, f)
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, f, "png"))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "not a png")
		})
	}
}

func TestWriteFileUsesExtension(t *testing.T) {
	ds := dataset.Random(100, dataset.RandomSeed)
	path := filepath.Join(t.TempDir(), "hist.svg")
	require.NoError(t, WriteFile(path, charts.Histogram(ds, "z", 10, "red")))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<svg")
}

func TestPlotRejectsUnusableFigures(t *testing.T) {
	_, err := Plot(nil)
	assert.Error(t, err)

	_, err = Plot(&charts.Figure{Kind: "pie"})
	assert.Error(t, err)

	_, err = Plot(&charts.Figure{Kind: charts.KindHistogram, Data: []charts.Trace{{X: []string{"a"}}}})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.png")
	assert.Error(t, WriteFile(path, &charts.Figure{Kind: charts.KindBox}))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "failed render must not leave a file")
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, color.Color(named["blue"]), parseColor("Blue"))
	assert.Equal(t, color.Color(color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}), parseColor("#1f77b4"))
	assert.Equal(t, color.Color(named["black"]), parseColor("chartreuse"))
}

func TestSizeFromLayout(t *testing.T) {
	w, h := size(charts.Layout{})
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)
	w, h = size(charts.Layout{Width: 960, Height: 480})
	assert.InDelta(t, 720.0, float64(w), 1e-9)
	assert.InDelta(t, 360.0, float64(h), 1e-9)
}

package stats

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/KaramelBytes/statlens/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneToTen(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(dataset.NewNumeric("v", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
	require.NoError(t, err)
	return ds
}

func TestSummarizeOneToTen(t *testing.T) {
	rep, err := Summarize(oneToTen(t), "")
	require.NoError(t, err)
	require.NotNil(t, rep.Summary)
	s := rep.Summary
	assert.Equal(t, "v", rep.Column)
	assert.Equal(t, 10, s.Count)
	assert.InDelta(t, 5.5, s.Mean.Float(), 1e-12)
	assert.InDelta(t, 5.5, s.Median.Float(), 1e-12)
	assert.InDelta(t, 9.1666666667, s.Var.Float(), 1e-9)
	assert.InDelta(t, 3.25, s.Q25.Float(), 1e-12)
	assert.InDelta(t, 7.75, s.Q75.Float(), 1e-12)
	assert.InDelta(t, 0, s.Skewness.Float(), 1e-12)
	assert.InDelta(t, -1.2242424242, s.Kurtosis.Float(), 1e-9)
	assert.Equal(t, 1.0, s.Min.Float())
	assert.Equal(t, 10.0, s.Max.Float())
}

func TestSummarizeErrors(t *testing.T) {
	ds, err := dataset.New(
		dataset.NewCategorical("name", []string{"a", "b"}, nil),
		dataset.NewNumeric("n", []float64{1, 2}),
	)
	require.NoError(t, err)

	_, err = Summarize(ds, "name")
	var nn *dataset.NonNumericColumnError
	require.ErrorAs(t, err, &nn)
	assert.Equal(t, "name", nn.Column)

	_, err = Summarize(ds, "missing")
	var nf *dataset.ColumnNotFoundError
	require.ErrorAs(t, err, &nf)

	text, err := dataset.New(dataset.NewCategorical("only", []string{"x", "y"}, nil))
	require.NoError(t, err)
	_, err = Summarize(text, "")
	require.ErrorAs(t, err, &nn)
}

func TestSummarizeMultiColumnTable(t *testing.T) {
	ds := dataset.Random(200, dataset.RandomSeed)
	rep, err := Summarize(ds, "")
	require.NoError(t, err)
	require.Nil(t, rep.Summary)
	require.NotNil(t, rep.Table)
	assert.Equal(t, []string{"x", "y", "z"}, rep.Table.Columns)
	assert.Equal(t, 200.0, rep.Table.Values["x"]["count"].Float())
	md := rep.Markdown()
	assert.Contains(t, md, "[DESCRIBE]")
	assert.Contains(t, md, "| 75% |")
}

func TestRandomSummaryIsFinite(t *testing.T) {
	ds, _, err := dataset.Load(context.Background(), dataset.Source{Kind: dataset.SourceRandom, SampleSize: 500})
	require.NoError(t, err)
	rep, err := Summarize(ds, "x")
	require.NoError(t, err)
	s := rep.Summary
	assert.Equal(t, 500, s.Count)
	for name, v := range map[string]Number{
		"mean": s.Mean, "median": s.Median, "std": s.Std, "var": s.Var,
		"min": s.Min, "max": s.Max, "q25": s.Q25, "q75": s.Q75,
		"skewness": s.Skewness, "kurtosis": s.Kurtosis,
	} {
		assert.True(t, v.IsFinite(), "%s = %v", name, v)
	}
}

func TestHypothesisTest(t *testing.T) {
	res, err := HypothesisTest(oneToTen(t), "v", 0)
	require.NoError(t, err)
	// mean 5.5, sd 3.02765, se 0.957427
	assert.InDelta(t, 5.744562647, res.TStatistic.Float(), 1e-6)
	assert.Less(t, res.PValue.Float(), 0.001)
	assert.InDelta(t, 5.5, res.SampleMean.Float(), 1e-12)
	assert.Equal(t, 10, res.ShapiroN)
	// scipy.stats.shapiro(range(1, 11)) -> W=0.9702, p=0.8924
	assert.InDelta(t, 0.9702, res.ShapiroStatistic.Float(), 1e-3)
	assert.InDelta(t, 0.8924, res.ShapiroPValue.Float(), 5e-3)
	assert.True(t, res.IsNormal)
	assert.Contains(t, res.Markdown(), "verdict: normal")
}

func TestHypothesisTestZeroVarianceRendersText(t *testing.T) {
	ds, err := dataset.New(dataset.NewNumeric("c", []float64{2, 2, 2, 2, 2}))
	require.NoError(t, err)
	res, err := HypothesisTest(ds, "", 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(res.TStatistic.Float()))

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"t_statistic":"nan"`)
	assert.Contains(t, string(b), `"p_value":"nan"`)
}

func TestHypothesisTestCapsNormalitySample(t *testing.T) {
	ds := dataset.Random(6000, dataset.RandomSeed)
	res, err := HypothesisTest(ds, "y", 0)
	require.NoError(t, err)
	assert.Equal(t, 6000, res.N)
	assert.Equal(t, NormalityLimit, res.ShapiroN)
	assert.True(t, res.ShapiroStatistic.IsFinite())
}

func TestShapiroWilkSmallSamples(t *testing.T) {
	w, p := ShapiroWilk([]float64{1, 2})
	assert.True(t, math.IsNaN(w))
	assert.True(t, math.IsNaN(p))

	// Three equally spaced points are perfectly normal-looking.
	w, p = ShapiroWilk([]float64{1, 2, 3})
	assert.InDelta(t, 1.0, w, 1e-9)
	assert.InDelta(t, 1.0, p, 1e-9)

	// Strong right skew.
	w, p = ShapiroWilk([]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 50})
	assert.Less(t, w, 0.5)
	assert.Less(t, p, 0.001)
}

func TestNumberJSON(t *testing.T) {
	b, err := json.Marshal([]Number{1.5, Number(math.Inf(1)), Number(math.Inf(-1))})
	require.NoError(t, err)
	assert.Equal(t, `[1.5,"inf","-inf"]`, string(b))

	var back []Number
	require.NoError(t, json.Unmarshal([]byte(`[2,"nan","inf"]`), &back))
	assert.Equal(t, Number(2), back[0])
	assert.True(t, math.IsNaN(back[1].Float()))
	assert.True(t, math.IsInf(back[2].Float(), 1))
}

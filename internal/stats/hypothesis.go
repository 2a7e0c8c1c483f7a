package stats

import (
	"math"

	"github.com/KaramelBytes/statlens/internal/dataset"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// NormalityLimit caps how many leading values feed the Shapiro-Wilk check.
const NormalityLimit = 5000

// NormalAlpha is the significance level for IsNormal.
const NormalAlpha = 0.05

// TestResult is a one-sample t-test against TestValue plus a normality check.
type TestResult struct {
	Column           string `json:"column"`
	N                int    `json:"n"`
	TStatistic       Number `json:"t_statistic"`
	PValue           Number `json:"p_value"`
	TestValue        Number `json:"test_value"`
	SampleMean       Number `json:"sample_mean"`
	ShapiroStatistic Number `json:"shapiro_statistic"`
	ShapiroPValue    Number `json:"shapiro_p_value"`
	ShapiroN         int    `json:"shapiro_n"`
	IsNormal         bool   `json:"is_normal"`
}

// HypothesisTest runs a two-sided one-sample Student t-test of column against
// testValue. An empty column selects the first numeric column.
func HypothesisTest(ds *dataset.Dataset, column string, testValue float64) (*TestResult, error) {
	if column == "" {
		num := ds.NumericColumns()
		if len(num) == 0 {
			if ds.Width() == 0 {
				return nil, errNoColumns
			}
			return nil, &dataset.NonNumericColumnError{Column: ds.Names()[0]}
		}
		column = num[0].Name
	}
	col, err := numericColumn(ds, column)
	if err != nil {
		return nil, err
	}
	vals := col.Values()
	res := &TestResult{Column: col.Name, N: len(vals), TestValue: Number(testValue)}

	t, p := ttest1(vals, testValue)
	res.TStatistic, res.PValue = Number(t), Number(p)
	if len(vals) > 0 {
		res.SampleMean = Number(stat.Mean(vals, nil))
	} else {
		res.SampleMean = Number(math.NaN())
	}

	sample := vals
	if len(sample) > NormalityLimit {
		sample = sample[:NormalityLimit]
	}
	w, sp := ShapiroWilk(sample)
	res.ShapiroStatistic, res.ShapiroPValue = Number(w), Number(sp)
	res.ShapiroN = len(sample)
	res.IsNormal = sp > NormalAlpha
	return res, nil
}

func ttest1(x []float64, mu float64) (t, p float64) {
	n := len(x)
	if n < 2 {
		return math.NaN(), math.NaN()
	}
	mean, sd := stat.MeanStdDev(x, nil)
	t = (mean - mu) / (sd / math.Sqrt(float64(n)))
	if math.IsNaN(t) {
		return t, math.NaN()
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	return t, 2 * dist.Survival(math.Abs(t))
}

// Package stats computes descriptive statistics and one-sample tests over
// dataset columns.
package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/KaramelBytes/statlens/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of one numeric column. Count is the
// number of non-missing values; the rest are computed over those values.
type Summary struct {
	Count    int    `json:"count"`
	Mean     Number `json:"mean"`
	Median   Number `json:"median"`
	Std      Number `json:"std"`
	Var      Number `json:"var"`
	Min      Number `json:"min"`
	Max      Number `json:"max"`
	Q25      Number `json:"q25"`
	Q75      Number `json:"q75"`
	Skewness Number `json:"skewness"`
	Kurtosis Number `json:"kurtosis"`
}

// DescribeFields are the rows of a multi-column Table, in display order.
var DescribeFields = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Table is a per-column summary of every numeric column.
// Values is keyed by column, then by one of DescribeFields.
type Table struct {
	Columns []string                     `json:"columns"`
	Values  map[string]map[string]Number `json:"values"`
}

// Report is the outcome of Summarize: exactly one of Summary or Table is set.
type Report struct {
	Column  string   `json:"column,omitempty"`
	Summary *Summary `json:"summary,omitempty"`
	Table   *Table   `json:"table,omitempty"`
}

var errNoColumns = errors.New("dataset has no columns")

// Summarize describes column. With no column on a single-column dataset that
// column is used; with several columns a Table over all numeric columns is
// returned instead.
func Summarize(ds *dataset.Dataset, column string) (*Report, error) {
	if column == "" {
		switch ds.Width() {
		case 0:
			return nil, errNoColumns
		case 1:
			column = ds.Names()[0]
		default:
			return &Report{Table: describe(ds)}, nil
		}
	}
	col, err := numericColumn(ds, column)
	if err != nil {
		return nil, err
	}
	s := summarize(col.Values())
	return &Report{Column: col.Name, Summary: &s}, nil
}

func numericColumn(ds *dataset.Dataset, name string) (*dataset.Column, error) {
	col, ok := ds.Column(name)
	if !ok {
		return nil, &dataset.ColumnNotFoundError{Column: name}
	}
	if !col.IsNumeric() {
		return nil, &dataset.NonNumericColumnError{Column: name}
	}
	return col, nil
}

func summarize(vals []float64) Summary {
	s := Summary{Count: len(vals)}
	if len(vals) == 0 {
		nan := Number(math.NaN())
		s.Mean, s.Median, s.Std, s.Var = nan, nan, nan, nan
		s.Min, s.Max, s.Q25, s.Q75 = nan, nan, nan, nan
		s.Skewness, s.Kurtosis = nan, nan
		return s
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	mean, variance := stat.MeanVariance(vals, nil)
	s.Mean = Number(mean)
	s.Var = Number(variance)
	s.Std = Number(math.Sqrt(variance))
	if len(vals) < 2 {
		s.Var, s.Std = Number(math.NaN()), Number(math.NaN())
	}
	s.Min = Number(sorted[0])
	s.Max = Number(sorted[len(sorted)-1])
	s.Median = Number(quantile(sorted, 0.5))
	s.Q25 = Number(quantile(sorted, 0.25))
	s.Q75 = Number(quantile(sorted, 0.75))
	s.Skewness, s.Kurtosis = shapeMoments(vals)
	return s
}

// shapeMoments returns the biased skewness and excess kurtosis.
func shapeMoments(vals []float64) (skew, kurt Number) {
	m2 := stat.Moment(2, vals, nil)
	if m2 == 0 {
		return Number(math.NaN()), Number(math.NaN())
	}
	m3 := stat.Moment(3, vals, nil)
	m4 := stat.Moment(4, vals, nil)
	return Number(m3 / math.Pow(m2, 1.5)), Number(m4/(m2*m2) - 3)
}

func describe(ds *dataset.Dataset) *Table {
	t := &Table{Values: map[string]map[string]Number{}}
	for _, c := range ds.NumericColumns() {
		s := summarize(c.Values())
		t.Columns = append(t.Columns, c.Name)
		t.Values[c.Name] = map[string]Number{
			"count": Number(s.Count),
			"mean":  s.Mean,
			"std":   s.Std,
			"min":   s.Min,
			"25%":   s.Q25,
			"50%":   s.Median,
			"75%":   s.Q75,
			"max":   s.Max,
		}
	}
	return t
}

// quantile interpolates linearly between closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

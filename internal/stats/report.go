package stats

import (
	"fmt"
	"strings"
)

// Markdown renders the report as a compact text block.
func (r *Report) Markdown() string {
	var b strings.Builder
	if r.Summary != nil {
		s := r.Summary
		b.WriteString("[SUMMARY STATISTICS]\n")
		b.WriteString(fmt.Sprintf("Column: %s\n", r.Column))
		b.WriteString(fmt.Sprintf("- count: %d\n", s.Count))
		for _, kv := range []struct {
			k string
			v Number
		}{
			{"mean", s.Mean}, {"median", s.Median}, {"std", s.Std}, {"var", s.Var},
			{"min", s.Min}, {"max", s.Max}, {"q25", s.Q25}, {"q75", s.Q75},
			{"skewness", s.Skewness}, {"kurtosis", s.Kurtosis},
		} {
			b.WriteString(fmt.Sprintf("- %s: %s\n", kv.k, kv.v))
		}
		return b.String()
	}
	if r.Table == nil {
		return ""
	}
	b.WriteString("[DESCRIBE]\n")
	if len(r.Table.Columns) == 0 {
		b.WriteString("(no numeric columns)\n")
		return b.String()
	}
	b.WriteString("| stat | " + strings.Join(r.Table.Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(r.Table.Columns)+1) + "\n")
	for _, f := range DescribeFields {
		cells := make([]string, 0, len(r.Table.Columns))
		for _, c := range r.Table.Columns {
			cells = append(cells, r.Table.Values[c][f].String())
		}
		b.WriteString("| " + f + " | " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

// Markdown renders the test outcome.
func (t *TestResult) Markdown() string {
	var b strings.Builder
	b.WriteString("[HYPOTHESIS TEST]\n")
	b.WriteString(fmt.Sprintf("One-sample t-test on %s (n=%d) against %s\n", t.Column, t.N, t.TestValue))
	b.WriteString(fmt.Sprintf("- t statistic: %s\n", t.TStatistic))
	b.WriteString(fmt.Sprintf("- p-value: %s\n", t.PValue))
	b.WriteString(fmt.Sprintf("- sample mean: %s\n", t.SampleMean))
	b.WriteString("\n[NORMALITY]\n")
	b.WriteString(fmt.Sprintf("Shapiro-Wilk on %d values\n", t.ShapiroN))
	b.WriteString(fmt.Sprintf("- W: %s\n", t.ShapiroStatistic))
	b.WriteString(fmt.Sprintf("- p-value: %s\n", t.ShapiroPValue))
	verdict := "not normal"
	if t.IsNormal {
		verdict = "normal"
	}
	b.WriteString(fmt.Sprintf("- verdict: %s (alpha %.2f)\n", verdict, NormalAlpha))
	return b.String()
}

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/statlens/internal/classifier"
	"github.com/KaramelBytes/statlens/internal/dataset"
	"github.com/KaramelBytes/statlens/internal/metrics"
	"github.com/KaramelBytes/statlens/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTumorCSV(t *testing.T) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("tumor_size,texture,grade,diagnosis\n")
	for i := 0; i < 40; i++ {
		label, base := "benign", 1.0
		if i%2 == 1 {
			label, base = "malignant", 5.0
		}
		fmt.Fprintf(&sb, "%.2f,%.2f,g%d,%s\n", base+float64(i%5)*0.1, base*2+float64(i%3)*0.2, i%3, label)
	}
	p := filepath.Join(t.TempDir(), "tumors.csv")
	require.NoError(t, os.WriteFile(p, []byte(sb.String()), 0o644))
	return p
}

func scrape(t *testing.T, rec *metrics.Recorder) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, rec.WriteTextfile(p))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}

func TestValidate(t *testing.T) {
	base := DefaultConfig()
	require.NoError(t, base.Validate())

	cases := []struct {
		name  string
		edit  func(*AnalysisConfig)
		field string
	}{
		{"bad source", func(c *AnalysisConfig) { c.DataSource = "ftp" }, "data_source"},
		{"sample too small", func(c *AnalysisConfig) { c.SampleSize = 99 }, "sample_size"},
		{"sample too large", func(c *AnalysisConfig) { c.SampleSize = 10001 }, "sample_size"},
		{"bins", func(c *AnalysisConfig) { c.Bins = 51 }, "bins"},
		{"color", func(c *AnalysisConfig) { c.Color = "orange" }, "color"},
		{"upload without file", func(c *AnalysisConfig) { c.DataSource = dataset.SourceUpload }, "upload_path"},
		{"svm on random", func(c *AnalysisConfig) { c.SVM.Enabled = true }, "svm.enabled"},
		{"kernel", func(c *AnalysisConfig) {
			c.DataSource = dataset.SourceLocal
			c.SVM.Enabled = true
			c.SVM.Kernel = "cubic"
		}, "svm.kernel"},
		{"test size", func(c *AnalysisConfig) {
			c.DataSource = dataset.SourceLocal
			c.SVM.Enabled = true
			c.SVM.TestSize = 0.25
		}, "svm.test_size"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.edit(&cfg)
			err := cfg.Validate()
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.field, ce.Field)
		})
	}

	local := DefaultConfig()
	local.DataSource = dataset.SourceLocal
	local.SampleSize = 0
	assert.NoError(t, local.Validate(), "sample size only applies to random data")
}

func TestColumnChoices(t *testing.T) {
	cols, targets := ColumnChoices(nil, dataset.SourceRandom)
	assert.Equal(t, []Choice{{"x", "X"}, {"y", "Y"}, {"z", "Z"}}, cols)
	assert.Empty(t, targets)

	ds, err := dataset.ReadFile(writeTumorCSV(t))
	require.NoError(t, err)
	cols, targets = ColumnChoices(ds, dataset.SourceLocal)
	assert.Equal(t, []Choice{{"tumor_size", "Tumor Size"}, {"texture", "Texture"}}, cols)
	require.Len(t, targets, 4)
	assert.Equal(t, Choice{"diagnosis", "Diagnosis"}, targets[3])
}

func TestNormalize(t *testing.T) {
	ds, err := dataset.ReadFile(writeTumorCSV(t))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.DataSource = dataset.SourceLocal
	cfg.SelectedColumn = "x"
	cfg.SVM.Enabled = true
	cfg.SVM.TargetColumn = "missing"
	got, warnings := Normalize(cfg, ds)
	assert.Equal(t, "tumor_size", got.SelectedColumn)
	assert.Equal(t, "diagnosis", got.SVM.TargetColumn)
	assert.Len(t, warnings, 2)
	assert.Equal(t, "x", cfg.SelectedColumn, "caller copy untouched")

	random := DefaultConfig()
	random.SelectedColumn = "tumor_size"
	random.SVM.Enabled = true
	random.SVM.Kernel = classifier.Linear
	got, warnings = Normalize(random, nil)
	assert.Equal(t, "x", got.SelectedColumn)
	assert.False(t, got.SVM.Enabled)
	assert.Equal(t, classifier.RBF, got.SVM.Kernel)
	assert.Len(t, warnings, 2)

	quiet := DefaultConfig()
	quiet.SelectedColumn = ""
	got, warnings = Normalize(quiet, nil)
	assert.Equal(t, "x", got.SelectedColumn)
	assert.Empty(t, warnings)
}

func TestServiceLoadFallbackRecordsWarning(t *testing.T) {
	rec := metrics.New()
	svc := NewService(utils.Discard(), rec)
	cfg := DefaultConfig()
	cfg.DataSource = dataset.SourceLocal
	cfg.LocalPath = filepath.Join(t.TempDir(), "absent.csv")

	ds, warnings, err := svc.LoadDataset(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, dataset.DefaultSampleSize, ds.Len())
	assert.Equal(t, []string{dataset.WarnLocalFallback}, warnings)
	assert.Contains(t, scrape(t, rec), "statlens_warnings_total 1")
}

func TestServiceComputeStatistics(t *testing.T) {
	svc := NewService(utils.Discard(), nil)
	ds := dataset.Random(500, dataset.RandomSeed)
	st, err := svc.ComputeStatistics(ds, "y", 0)
	require.NoError(t, err)
	require.NotNil(t, st.Summary.Summary)
	assert.Equal(t, 500, st.Summary.Summary.Count)
	assert.Equal(t, "y", st.HypothesisTest.Column)

	_, err = svc.ComputeStatistics(ds, "nope", 0)
	var nf *dataset.ColumnNotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestServiceRunClassifier(t *testing.T) {
	ds, err := dataset.ReadFile(writeTumorCSV(t))
	require.NoError(t, err)
	rec := metrics.New()
	svc := NewService(utils.Discard(), rec)

	res, err := svc.RunClassifier(ds, "", classifier.RBF, 0.2, classifier.DefaultSeed)
	require.NoError(t, err)
	assert.Equal(t, "diagnosis", res.TargetColumn)
	assert.Equal(t, []string{"benign", "malignant"}, res.ClassLabels)
	assert.Equal(t, 8, res.NTest)
	assert.Equal(t, 32, res.NTrain)
	assert.Contains(t, scrape(t, rec), `statlens_classifier_accuracy{kernel="rbf"}`)
	assert.Contains(t, scrape(t, rec), `statlens_operations_total{operation="run_classifier",outcome="success"} 1`)

	tiny := ds.Head(5)
	_, err = svc.RunClassifier(tiny, "", classifier.RBF, 0.2, classifier.DefaultSeed)
	var short *classifier.InsufficientDataError
	assert.ErrorAs(t, err, &short)

	_, err = svc.RunClassifier(ds.Head(0), "", classifier.RBF, 0.2, classifier.DefaultSeed)
	assert.ErrorIs(t, err, classifier.ErrEmptyAfterCleaning)

	size, _ := ds.Column("tumor_size")
	single, err := dataset.New(size)
	require.NoError(t, err)
	_, err = svc.RunClassifier(single, "", classifier.RBF, 0.2, classifier.DefaultSeed)
	assert.ErrorIs(t, err, classifier.ErrNoFeatureColumns)
}

func TestAnalyze(t *testing.T) {
	svc := NewService(utils.Discard(), nil)

	cfg := DefaultConfig()
	cfg.DataSource = dataset.SourceLocal
	cfg.LocalPath = writeTumorCSV(t)
	cfg.SelectedColumn = "texture"
	cfg.SVM.Enabled = true
	cfg.SVM.Kernel = classifier.Linear
	out, err := svc.Analyze(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)
	assert.Equal(t, 40, out.Info.Rows)
	require.NotNil(t, out.Statistics)
	assert.Equal(t, "texture", out.Statistics.HypothesisTest.Column)
	assert.NotNil(t, out.Charts.Histogram)
	assert.NotNil(t, out.Charts.Correlation)
	require.NotNil(t, out.Classifier)
	assert.Equal(t, classifier.Linear, out.Classifier.Kernel)

	off := DefaultConfig()
	off.ShowPlot = false
	off.ShowStats = false
	out, err = svc.Analyze(context.Background(), off)
	require.NoError(t, err)
	assert.Nil(t, out.Statistics)
	assert.Empty(t, out.Charts.Figures())
	assert.Nil(t, out.Classifier)

	bad := DefaultConfig()
	bad.SVM.Enabled = true
	_, err = svc.Analyze(context.Background(), bad)
	var ce *ConfigError
	assert.ErrorAs(t, err, &ce)
}

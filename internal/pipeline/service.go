// Package pipeline is the facade hosts call: it loads datasets, computes
// statistics, builds charts and trains classifiers from an AnalysisConfig,
// logging and timing each step.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/KaramelBytes/statlens/internal/charts"
	"github.com/KaramelBytes/statlens/internal/classifier"
	"github.com/KaramelBytes/statlens/internal/dataset"
	"github.com/KaramelBytes/statlens/internal/metrics"
	"github.com/KaramelBytes/statlens/internal/stats"
	"github.com/sirupsen/logrus"
)

// Operation names used in logs and metrics.
const (
	OpLoad       = "load_dataset"
	OpStatistics = "compute_statistics"
	OpCharts     = "build_charts"
	OpClassifier = "run_classifier"
)

// Statistics pairs the summary with the hypothesis test for one column.
type Statistics struct {
	Summary        *stats.Report     `json:"summary"`
	HypothesisTest *stats.TestResult `json:"hypothesis_test"`
}

// Service runs pipeline operations. It holds no per-request state and is
// safe for concurrent use as long as callers do not share a Dataset they are
// still building.
type Service struct {
	log     *logrus.Logger
	metrics *metrics.Recorder
}

// NewService wires a logger and an optional metrics recorder.
func NewService(log *logrus.Logger, rec *metrics.Recorder) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{log: log, metrics: rec}
}

func (s *Service) observe(op string, start time.Time, err error) {
	d := time.Since(start)
	s.metrics.Observe(op, d, err)
	entry := s.log.WithFields(logrus.Fields{"op": op, "elapsed": d.String()})
	if err != nil {
		entry.WithError(err).Debug("operation failed")
		return
	}
	entry.Debug("operation done")
}

// LoadDataset resolves cfg's data source. Warnings are returned for the
// caller to show and logged at debug level.
func (s *Service) LoadDataset(ctx context.Context, cfg AnalysisConfig) (ds *dataset.Dataset, warnings []string, err error) {
	start := time.Now()
	defer func() { s.observe(OpLoad, start, err) }()

	ds, warnings, err = dataset.Load(ctx, dataset.Source{
		Kind:       cfg.DataSource,
		SampleSize: cfg.SampleSize,
		Path:       cfg.UploadPath,
		LocalPath:  cfg.LocalPath,
	})
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		s.log.WithField("source", cfg.DataSource).Debug(w)
	}
	s.metrics.DatasetLoaded(ds.Len(), len(warnings))
	return ds, warnings, nil
}

// ComputeStatistics summarizes column and tests its mean against testValue.
func (s *Service) ComputeStatistics(ds *dataset.Dataset, column string, testValue float64) (out *Statistics, err error) {
	start := time.Now()
	defer func() { s.observe(OpStatistics, start, err) }()

	summary, err := stats.Summarize(ds, column)
	if err != nil {
		return nil, err
	}
	test, err := stats.HypothesisTest(ds, column, testValue)
	if err != nil {
		return nil, err
	}
	return &Statistics{Summary: summary, HypothesisTest: test}, nil
}

// BuildCharts builds the dataset charts cfg asks for.
func (s *Service) BuildCharts(ds *dataset.Dataset, cfg AnalysisConfig) charts.Bundle {
	start := time.Now()
	b := charts.Build(ds, charts.Options{
		Column:          cfg.SelectedColumn,
		Bins:            cfg.Bins,
		Color:           cfg.Color,
		ShowPlot:        cfg.ShowPlot,
		ShowCorrelation: cfg.ShowCorrelation,
	})
	s.observe(OpCharts, start, nil)
	s.log.WithField("figures", len(b.Figures())).Debug("charts built")
	return b
}

// RunClassifier trains and evaluates an SVM. An empty target selects the
// last column.
func (s *Service) RunClassifier(ds *dataset.Dataset, target string, kernel classifier.Kernel, testSize float64, seed int64) (res *classifier.Result, err error) {
	start := time.Now()
	defer func() { s.observe(OpClassifier, start, err) }()

	if err := classifier.Validate(ds); err != nil {
		return nil, err
	}
	res, err = classifier.Run(ds, target, classifier.TrainOptions{TestSize: testSize, Kernel: kernel, Seed: seed})
	if err != nil {
		return nil, err
	}
	s.metrics.ModelEvaluated(string(res.Kernel), res.Accuracy)
	s.log.WithFields(logrus.Fields{
		"target":   res.TargetColumn,
		"kernel":   res.Kernel,
		"accuracy": res.Accuracy,
		"n_test":   res.NTest,
	}).Info("classifier evaluated")
	return res, nil
}

// Analysis is everything one configuration produces.
type Analysis struct {
	Config     AnalysisConfig     `json:"config"`
	Info       dataset.Info       `json:"info"`
	Warnings   []string           `json:"warnings,omitempty"`
	Statistics *Statistics        `json:"statistics,omitempty"`
	Charts     charts.Bundle      `json:"charts"`
	Classifier *classifier.Result `json:"classifier,omitempty"`
}

// Analyze validates cfg, loads its dataset, normalizes cfg against it and
// runs the steps it enables. Statistics run when ShowStats is set and the
// classifier when SVM is enabled.
func (s *Service) Analyze(ctx context.Context, cfg AnalysisConfig) (*Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ds, warnings, err := s.LoadDataset(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cfg, adjusted := Normalize(cfg, ds)
	for _, w := range adjusted {
		s.log.WithField("column", cfg.SelectedColumn).Debug(w)
	}
	out := &Analysis{
		Config:   cfg,
		Info:     dataset.Describe(ds),
		Warnings: append(warnings, adjusted...),
	}
	if cfg.ShowStats {
		out.Statistics, err = s.ComputeStatistics(ds, cfg.SelectedColumn, 0)
		if err != nil {
			var nonNumeric *dataset.NonNumericColumnError
			if !errors.As(err, &nonNumeric) {
				return nil, err
			}
			out.Warnings = append(out.Warnings, "statistics unavailable: "+err.Error())
		}
	}
	out.Charts = s.BuildCharts(ds, cfg)
	if cfg.SVM.Enabled {
		if out.Classifier, err = s.RunClassifier(ds, cfg.SVM.TargetColumn, cfg.SVM.Kernel, cfg.SVM.TestSize, cfg.SVM.Seed); err != nil {
			return nil, err
		}
	}
	return out, nil
}

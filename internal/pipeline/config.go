package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/statlens/internal/charts"
	"github.com/KaramelBytes/statlens/internal/classifier"
	"github.com/KaramelBytes/statlens/internal/dataset"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sample size bounds for random data.
const (
	MinSampleSize = 100
	MaxSampleSize = 10000
)

// SVMConfig is the optional classifier section of an AnalysisConfig.
type SVMConfig struct {
	Enabled      bool              `json:"enabled" yaml:"enabled"`
	TargetColumn string            `json:"target_column" yaml:"target_column"`
	Kernel       classifier.Kernel `json:"kernel" yaml:"kernel"`
	TestSize     float64           `json:"test_size" yaml:"test_size"`
	Seed         int64             `json:"seed" yaml:"seed"`
}

// AnalysisConfig is one request's settings. The pipeline reads it and never
// modifies the caller's copy.
type AnalysisConfig struct {
	DataSource      dataset.SourceKind `json:"data_source" yaml:"data_source"`
	SampleSize      int                `json:"sample_size" yaml:"sample_size"`
	SelectedColumn  string             `json:"selected_column" yaml:"selected_column"`
	Color           string             `json:"color" yaml:"color"`
	Bins            int                `json:"bins" yaml:"bins"`
	ShowPlot        bool               `json:"show_plot" yaml:"show_plot"`
	ShowStats       bool               `json:"show_stats" yaml:"show_stats"`
	ShowCorrelation bool               `json:"show_correlation" yaml:"show_correlation"`
	UploadPath      string             `json:"upload_path,omitempty" yaml:"upload_path,omitempty"`
	LocalPath       string             `json:"local_path,omitempty" yaml:"local_path,omitempty"`
	SVM             SVMConfig          `json:"svm" yaml:"svm"`
}

// DefaultConfig returns the settings a new session starts with.
func DefaultConfig() AnalysisConfig {
	return AnalysisConfig{
		DataSource:      dataset.SourceRandom,
		SampleSize:      dataset.DefaultSampleSize,
		SelectedColumn:  dataset.RandomColumns[0],
		Color:           charts.DefaultColor,
		Bins:            charts.DefaultBins,
		ShowPlot:        true,
		ShowStats:       true,
		ShowCorrelation: true,
		SVM:             defaultSVM(),
	}
}

func defaultSVM() SVMConfig {
	return SVMConfig{Kernel: classifier.RBF, TestSize: 0.2, Seed: classifier.DefaultSeed}
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Reason) }

// Validate checks field ranges and the cross-field rules that do not depend
// on the loaded data.
func (c AnalysisConfig) Validate() error {
	if _, err := dataset.ParseSourceKind(string(c.DataSource)); err != nil {
		return &ConfigError{Field: "data_source", Reason: err.Error()}
	}
	if c.DataSource == dataset.SourceRandom && (c.SampleSize < MinSampleSize || c.SampleSize > MaxSampleSize) {
		return &ConfigError{Field: "sample_size", Reason: fmt.Sprintf("must be between %d and %d", MinSampleSize, MaxSampleSize)}
	}
	if c.Bins < charts.MinBins || c.Bins > charts.MaxBins {
		return &ConfigError{Field: "bins", Reason: fmt.Sprintf("must be between %d and %d", charts.MinBins, charts.MaxBins)}
	}
	if !contains(charts.Colors, strings.ToLower(c.Color)) {
		return &ConfigError{Field: "color", Reason: fmt.Sprintf("must be one of %s", strings.Join(charts.Colors, ", "))}
	}
	if c.DataSource == dataset.SourceUpload && strings.TrimSpace(c.UploadPath) == "" {
		return &ConfigError{Field: "upload_path", Reason: "a file is required for the upload source"}
	}
	if !c.SVM.Enabled {
		return nil
	}
	if c.DataSource == dataset.SourceRandom {
		return &ConfigError{Field: "svm.enabled", Reason: "SVM is not available for random data"}
	}
	if _, err := classifier.ParseKernel(string(c.SVM.Kernel)); err != nil {
		return &ConfigError{Field: "svm.kernel", Reason: err.Error()}
	}
	if !validTestSize(c.SVM.TestSize) {
		return &ConfigError{Field: "svm.test_size", Reason: "must be one of 0.1, 0.2, 0.3, 0.4"}
	}
	return nil
}

func validTestSize(v float64) bool {
	for _, ts := range classifier.TestSizes {
		if math.Abs(ts-v) < 1e-9 {
			return true
		}
	}
	return false
}

// Choice is a selectable column with its display label.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ColumnChoices lists the columns offered for statistics and plots (numeric
// columns) and for the SVM target (every column). Random data offers its
// fixed schema and no targets.
func ColumnChoices(ds *dataset.Dataset, source dataset.SourceKind) (columns, targets []Choice) {
	if source == dataset.SourceRandom {
		for _, name := range dataset.RandomColumns {
			columns = append(columns, Choice{Value: name, Label: strings.ToUpper(name)})
		}
		return columns, nil
	}
	if ds == nil {
		return nil, nil
	}
	for _, c := range ds.NumericColumns() {
		columns = append(columns, Choice{Value: c.Name, Label: label(c.Name)})
	}
	for _, name := range ds.Names() {
		targets = append(targets, Choice{Value: name, Label: label(name)})
	}
	return columns, targets
}

func label(name string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(name, "_", " "))
}

// Normalize returns a copy of cfg adjusted to the loaded dataset, with one
// warning per adjustment. An unknown selected column falls back to the first
// column choice and an unknown SVM target to the last column. When SVM is off
// its settings are reset to their defaults.
func Normalize(cfg AnalysisConfig, ds *dataset.Dataset) (AnalysisConfig, []string) {
	var warnings []string
	cfg.Color = strings.ToLower(cfg.Color)
	columns, targets := ColumnChoices(ds, cfg.DataSource)

	if !hasChoice(columns, cfg.SelectedColumn) {
		next := ""
		if len(columns) > 0 {
			next = columns[0].Value
		}
		if cfg.SelectedColumn != "" && next != "" {
			warnings = append(warnings, fmt.Sprintf("column %q not available, using %q", cfg.SelectedColumn, next))
		}
		cfg.SelectedColumn = next
	}

	if cfg.DataSource == dataset.SourceRandom && cfg.SVM.Enabled {
		warnings = append(warnings, "SVM is not available for random data, disabled")
		cfg.SVM.Enabled = false
	}
	if !cfg.SVM.Enabled {
		cfg.SVM = defaultSVM()
		return cfg, warnings
	}
	if cfg.SVM.TargetColumn != "" && !hasChoice(targets, cfg.SVM.TargetColumn) {
		next := ""
		if len(targets) > 0 {
			next = targets[len(targets)-1].Value
		}
		warnings = append(warnings, fmt.Sprintf("target column %q not available, using %q", cfg.SVM.TargetColumn, next))
		cfg.SVM.TargetColumn = next
	}
	return cfg, warnings
}

func hasChoice(choices []Choice, value string) bool {
	for _, c := range choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

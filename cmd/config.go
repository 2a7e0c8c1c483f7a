package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/statlens/internal/charts"
	"github.com/KaramelBytes/statlens/internal/classifier"
	cfgpkg "github.com/KaramelBytes/statlens/internal/config"
	"github.com/KaramelBytes/statlens/internal/dataset"
	"github.com/KaramelBytes/statlens/internal/pipeline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set statlens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_source: %s\n", cfg.DataSource)
		fmt.Fprintf(out, "sample_size: %d\n", cfg.SampleSize)
		fmt.Fprintf(out, "selected_column: %s\n", cfg.SelectedColumn)
		fmt.Fprintf(out, "color: %s\n", cfg.Color)
		fmt.Fprintf(out, "bins: %d\n", cfg.Bins)
		fmt.Fprintf(out, "show_plot: %t\n", cfg.ShowPlot)
		fmt.Fprintf(out, "show_stats: %t\n", cfg.ShowStats)
		fmt.Fprintf(out, "show_correlation: %t\n", cfg.ShowCorrelation)
		fmt.Fprintf(out, "local_dataset: %s\n", cfg.LocalDataset)
		fmt.Fprintf(out, "uploads_dir: %s\n", cfg.UploadsDir)
		fmt.Fprintf(out, "sessions_dir: %s\n", cfg.SessionsDir)
		fmt.Fprintf(out, "svm_kernel: %s\n", cfg.SVMKernel)
		fmt.Fprintf(out, "svm_test_size: %.1f\n", cfg.SVMTestSize)
		fmt.Fprintf(out, "svm_seed: %d\n", cfg.SVMSeed)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		if cfg.MetricsFile != "" {
			fmt.Fprintf(out, "metrics_file: %s\n", cfg.MetricsFile)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data_source":
			kind, err := dataset.ParseSourceKind(val)
			if err != nil {
				return err
			}
			cfg.DataSource = string(kind)
		case "sample_size":
			i, err := strconv.Atoi(val)
			if err != nil || i < pipeline.MinSampleSize || i > pipeline.MaxSampleSize {
				return fmt.Errorf("invalid sample_size: %v (use %d-%d)", val, pipeline.MinSampleSize, pipeline.MaxSampleSize)
			}
			cfg.SampleSize = i
		case "selected_column":
			cfg.SelectedColumn = val
		case "color":
			if !contains(charts.Colors, val) {
				return fmt.Errorf("invalid color: %s (use %s)", val, strings.Join(charts.Colors, ", "))
			}
			cfg.Color = val
		case "bins":
			i, err := strconv.Atoi(val)
			if err != nil || i < charts.MinBins || i > charts.MaxBins {
				return fmt.Errorf("invalid bins: %v (use %d-%d)", val, charts.MinBins, charts.MaxBins)
			}
			cfg.Bins = i
		case "show_plot", "show_stats", "show_correlation":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %w", key, err)
			}
			switch key {
			case "show_plot":
				cfg.ShowPlot = b
			case "show_stats":
				cfg.ShowStats = b
			default:
				cfg.ShowCorrelation = b
			}
		case "local_dataset":
			cfg.LocalDataset = val
		case "uploads_dir":
			cfg.UploadsDir = val
		case "sessions_dir":
			cfg.SessionsDir = val
		case "svm_kernel":
			k, err := classifier.ParseKernel(val)
			if err != nil {
				return err
			}
			cfg.SVMKernel = string(k)
		case "svm_test_size":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for svm_test_size: %w", err)
			}
			check := pipeline.DefaultConfig()
			check.DataSource = dataset.SourceLocal
			check.SVM.Enabled = true
			check.SVM.TestSize = f
			if err := check.Validate(); err != nil {
				return err
			}
			cfg.SVMTestSize = f
		case "svm_seed":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for svm_seed: %w", err)
			}
			cfg.SVMSeed = i
		case "log_level":
			if _, err := logrus.ParseLevel(val); err != nil {
				return err
			}
			cfg.LogLevel = val
		case "log_format":
			switch val {
			case "text", "json":
				cfg.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		case "metrics_file":
			cfg.MetricsFile = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/statlens/internal/config"
	"github.com/KaramelBytes/statlens/internal/metrics"
	"github.com/KaramelBytes/statlens/internal/pipeline"
	"github.com/KaramelBytes/statlens/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Logging/metrics flags (override config if set)
	flagLogLevel    string
	flagLogFormat   string
	flagMetricsFile string

	// Loaded configuration
	cfg *cfgpkg.Global

	log      = utils.Discard()
	recorder = metrics.New()
)

var rootCmd = &cobra.Command{
	Use:   "statlens",
	Short: "statlens: descriptive statistics, charts and SVM models for tabular data",
	Long:  `statlens loads a CSV/Excel dataset (or synthetic random data), summarizes it, builds chart specifications and trains support-vector classifiers, keeping results in named sessions.`,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flushMetrics()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before every command
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.statlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text|json (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagMetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("log-level") && flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if f.Changed("log-format") && flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if f.Changed("metrics-file") {
		cfg.MetricsFile = flagMetricsFile
	}
	if debug {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	log = utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

func newService() *pipeline.Service {
	return pipeline.NewService(log, recorder)
}

func flushMetrics() {
	if cfg == nil || cfg.MetricsFile == "" {
		return
	}
	if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to write metrics: %v\n", err)
		return
	}
	log.WithField("path", cfg.MetricsFile).Debug("metrics written")
}

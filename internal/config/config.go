package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Analysis defaults
	DataSource      string `mapstructure:"data_source" yaml:"data_source"`
	SampleSize      int    `mapstructure:"sample_size" yaml:"sample_size"`
	SelectedColumn  string `mapstructure:"selected_column" yaml:"selected_column"`
	Color           string `mapstructure:"color" yaml:"color"`
	Bins            int    `mapstructure:"bins" yaml:"bins"`
	ShowPlot        bool   `mapstructure:"show_plot" yaml:"show_plot"`
	ShowStats       bool   `mapstructure:"show_stats" yaml:"show_stats"`
	ShowCorrelation bool   `mapstructure:"show_correlation" yaml:"show_correlation"`

	// Data locations
	LocalDataset string `mapstructure:"local_dataset" yaml:"local_dataset"`
	UploadsDir   string `mapstructure:"uploads_dir" yaml:"uploads_dir"`
	SessionsDir  string `mapstructure:"sessions_dir" yaml:"sessions_dir"`

	// Classifier defaults
	SVMKernel   string  `mapstructure:"svm_kernel" yaml:"svm_kernel"`
	SVMTestSize float64 `mapstructure:"svm_test_size" yaml:"svm_test_size"`
	SVMSeed     int64   `mapstructure:"svm_seed" yaml:"svm_seed"`

	// Logging and metrics
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat   string `mapstructure:"log_format" yaml:"log_format"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".statlens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.statlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := homeDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_source", "random")
	v.SetDefault("sample_size", 1000)
	v.SetDefault("selected_column", "x")
	v.SetDefault("color", "blue")
	v.SetDefault("bins", 30)
	v.SetDefault("show_plot", true)
	v.SetDefault("show_stats", true)
	v.SetDefault("show_correlation", true)
	v.SetDefault("local_dataset", "brain_tumor_dataset.csv")
	v.SetDefault("uploads_dir", "")
	v.SetDefault("sessions_dir", "")
	v.SetDefault("svm_kernel", "rbf")
	v.SetDefault("svm_test_size", 0.2)
	v.SetDefault("svm_seed", 42)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("metrics_file", "")
}

func fillDirs(c *Global, dir string) {
	if c.SessionsDir == "" {
		c.SessionsDir = filepath.Join(dir, "sessions")
	}
	if c.UploadsDir == "" {
		c.UploadsDir = filepath.Join(dir, "uploads")
	}
}

// Defaults returns the built-in configuration without consulting the
// environment or any config file.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	if dir, err := homeDir(); err == nil {
		fillDirs(&c, dir)
	}
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("STATLENS")
	v.AutomaticEnv()
	setDefaults(v)

	dir, err := homeDir()
	if err != nil {
		return nil, err
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	fillDirs(&c, dir)
	return &c, nil
}

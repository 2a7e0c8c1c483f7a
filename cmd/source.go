package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/statlens/internal/classifier"
	"github.com/KaramelBytes/statlens/internal/dataset"
	"github.com/KaramelBytes/statlens/internal/pipeline"
	"github.com/KaramelBytes/statlens/internal/session"
	"github.com/KaramelBytes/statlens/internal/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// sourceFlags are the data selection flags shared by the analysis commands.
type sourceFlags struct {
	source     string
	file       string
	sampleSize int
	column     string
	session    string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.source, "source", "", "data source: random|upload|local (default from config)")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "CSV/XLSX/XLS file to upload (implies --source upload)")
	cmd.Flags().IntVar(&f.sampleSize, "sample-size", 0, "rows of random data (100-10000)")
	cmd.Flags().StringVarP(&f.column, "column", "c", "", "column for statistics and plots")
	cmd.Flags().StringVarP(&f.session, "session", "s", "", "session id or name to read settings from")
}

// resolve builds the request configuration: config file defaults, then the
// session's stored settings, then any flags the user set.
func (f *sourceFlags) resolve(cmd *cobra.Command) (pipeline.AnalysisConfig, *session.Session, error) {
	ac := configDefaults()
	var sess *session.Session
	if f.session != "" {
		s, err := sessionStore().Open(f.session)
		if err != nil {
			return ac, nil, err
		}
		sess = s
		ac = s.Config
	}
	flags := cmd.Flags()
	if flags.Changed("source") {
		kind, err := dataset.ParseSourceKind(f.source)
		if err != nil {
			return ac, nil, err
		}
		ac.DataSource = kind
	}
	if flags.Changed("file") {
		stored, err := storeUpload(f.file)
		if err != nil {
			return ac, nil, err
		}
		ac.UploadPath = stored
		if !flags.Changed("source") {
			ac.DataSource = dataset.SourceUpload
		}
	}
	if flags.Changed("sample-size") {
		ac.SampleSize = f.sampleSize
	}
	if flags.Changed("column") {
		ac.SelectedColumn = f.column
	}
	return ac, sess, nil
}

// load validates ac, loads its dataset and adjusts ac to the data. Warnings
// are printed to stderr.
func load(ctx context.Context, svc *pipeline.Service, ac pipeline.AnalysisConfig) (*dataset.Dataset, pipeline.AnalysisConfig, error) {
	if err := ac.Validate(); err != nil {
		return nil, ac, err
	}
	ds, warnings, err := svc.LoadDataset(ctx, ac)
	if err != nil {
		return nil, ac, err
	}
	ac, adjusted := pipeline.Normalize(ac, ds)
	for _, w := range append(warnings, adjusted...) {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", w)
	}
	return ds, ac, nil
}

func configDefaults() pipeline.AnalysisConfig {
	ac := pipeline.DefaultConfig()
	if cfg == nil {
		return ac
	}
	if kind, err := dataset.ParseSourceKind(cfg.DataSource); err == nil {
		ac.DataSource = kind
	}
	if cfg.SampleSize > 0 {
		ac.SampleSize = cfg.SampleSize
	}
	if cfg.SelectedColumn != "" {
		ac.SelectedColumn = cfg.SelectedColumn
	}
	if cfg.Color != "" {
		ac.Color = cfg.Color
	}
	if cfg.Bins > 0 {
		ac.Bins = cfg.Bins
	}
	ac.ShowPlot = cfg.ShowPlot
	ac.ShowStats = cfg.ShowStats
	ac.ShowCorrelation = cfg.ShowCorrelation
	ac.LocalPath = cfg.LocalDataset
	if k, err := classifier.ParseKernel(cfg.SVMKernel); err == nil {
		ac.SVM.Kernel = k
	}
	if cfg.SVMTestSize > 0 {
		ac.SVM.TestSize = cfg.SVMTestSize
	}
	if cfg.SVMSeed != 0 {
		ac.SVM.Seed = cfg.SVMSeed
	}
	return ac
}

func sessionStore() *session.Store {
	dir := ""
	if cfg != nil {
		dir = expandHome(cfg.SessionsDir)
	}
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".statlens", "sessions")
	}
	return session.NewStore(dir)
}

// storeUpload copies an uploaded file into the uploads directory so sessions
// can reload it later. The copy keeps the original extension.
func storeUpload(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", dataset.ErrNoFile
	}
	in, err := os.Open(src)
	if err != nil {
		return "", &dataset.LoadError{Path: filepath.Base(src), Err: err}
	}
	defer in.Close()

	dir := ""
	if cfg != nil {
		dir = expandHome(cfg.UploadsDir)
	}
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".statlens", "uploads")
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, uuid.NewString()[:8]+"-"+filepath.Base(src))
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("store upload: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	log.WithField("path", dst).Debug("upload stored")
	return dst, nil
}

func expandHome(dir string) string {
	if !strings.HasPrefix(dir, "~") {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	dir = strings.TrimPrefix(dir, "~")
	dir = strings.TrimPrefix(dir, string(os.PathSeparator))
	dir = strings.TrimPrefix(dir, "/")
	return filepath.Join(home, dir)
}

func printJSON(w io.Writer, v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

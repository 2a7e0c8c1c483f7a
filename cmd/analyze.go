package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/statlens/internal/classifier"
	"github.com/KaramelBytes/statlens/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	anaSource     sourceFlags
	anaOutputPath string
	anaSVM        bool
	anaTarget     string
	anaKernel     string
	anaTestSize   float64
	anaNoStats    bool
	anaNoPlot     bool
	anaJSON       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis: info, statistics, charts and optionally an SVM",
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, sess, err := anaSource.resolve(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("svm") {
			ac.SVM.Enabled = anaSVM
		}
		if flags.Changed("target") {
			ac.SVM.TargetColumn = anaTarget
		}
		if flags.Changed("kernel") {
			k, err := classifier.ParseKernel(anaKernel)
			if err != nil {
				return err
			}
			ac.SVM.Kernel = k
		}
		if flags.Changed("test-size") {
			ac.SVM.TestSize = anaTestSize
		}
		if anaNoStats {
			ac.ShowStats = false
		}
		if anaNoPlot {
			ac.ShowPlot = false
		}

		res, err := newService().Analyze(cmd.Context(), ac)
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", w)
		}
		if sess != nil {
			sess.SetConfig(res.Config)
			if res.Classifier != nil {
				sess.AddResult(res.Classifier)
			}
			if err := sess.Save(); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if anaJSON {
			return printJSON(out, res)
		}
		md := analysisMarkdown(res)
		// Decide where to write: --output path or stdout
		if anaOutputPath != "" {
			if err := os.WriteFile(anaOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(out, md)
		return nil
	},
}

func analysisMarkdown(a *pipeline.Analysis) string {
	var sb strings.Builder
	sb.WriteString(a.Info.Markdown())
	sb.WriteString("\n")
	if a.Statistics != nil {
		sb.WriteString(a.Statistics.Summary.Markdown())
		sb.WriteString("\n")
		sb.WriteString(a.Statistics.HypothesisTest.Markdown())
		sb.WriteString("\n")
	}
	if figs := namedFigures(a.Charts); len(figs) > 0 {
		sb.WriteString("[CHARTS]\n")
		for _, nf := range figs {
			fmt.Fprintf(&sb, "- %s: %s\n", nf.name, nf.fig.Layout.Title.Text)
		}
		sb.WriteString("\n")
	}
	if a.Classifier != nil {
		printResult(&sb, a.Classifier)
	}
	return sb.String()
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaSource.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	analyzeCmd.Flags().BoolVar(&anaSVM, "svm", false, "train an SVM classifier as well")
	analyzeCmd.Flags().StringVarP(&anaTarget, "target", "t", "", "SVM target column (default: last column)")
	analyzeCmd.Flags().StringVarP(&anaKernel, "kernel", "k", string(classifier.RBF), "SVM kernel: linear|poly|rbf|sigmoid")
	analyzeCmd.Flags().Float64Var(&anaTestSize, "test-size", 0.2, "SVM test fraction: 0.1|0.2|0.3|0.4")
	analyzeCmd.Flags().BoolVar(&anaNoStats, "no-stats", false, "skip statistics")
	analyzeCmd.Flags().BoolVar(&anaNoPlot, "no-plot", false, "skip charts")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "print JSON instead of Markdown")
}

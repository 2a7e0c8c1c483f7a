package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/statlens/internal/classifier"
	"github.com/KaramelBytes/statlens/internal/session"
	"github.com/spf13/cobra"
)

var (
	trainSource   sourceFlags
	trainTarget   string
	trainKernel   string
	trainTestSize float64
	trainSeed     int64
	trainSave     bool
	trainName     string
	trainJSON     bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train and evaluate an SVM classifier",
	Long:  `Train a support-vector classifier on the dataset. The target defaults to the last column; the result is appended to --session, or to a new session with --save.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, sess, err := trainSource.resolve(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		ac.SVM.Enabled = true
		if flags.Changed("target") {
			ac.SVM.TargetColumn = trainTarget
		}
		if flags.Changed("kernel") {
			k, err := classifier.ParseKernel(trainKernel)
			if err != nil {
				return err
			}
			ac.SVM.Kernel = k
		}
		if flags.Changed("test-size") {
			ac.SVM.TestSize = trainTestSize
		}
		if flags.Changed("seed") {
			ac.SVM.Seed = trainSeed
		}

		svc := newService()
		ds, ac, err := load(cmd.Context(), svc, ac)
		if err != nil {
			return err
		}
		res, err := svc.RunClassifier(ds, ac.SVM.TargetColumn, ac.SVM.Kernel, ac.SVM.TestSize, ac.SVM.Seed)
		if err != nil {
			return err
		}

		if sess == nil && trainSave {
			sess = sessionStore().Create(trainName, ac)
		}
		var rec *session.Record
		if sess != nil {
			sess.SetConfig(ac)
			rec = sess.AddResult(res)
			if err := sess.Save(); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if trainJSON {
			return printJSON(out, res)
		}
		printResult(out, res)
		if rec != nil {
			fmt.Fprintf(out, "✓ Saved result %s to session '%s' (%s)\n", rec.ID[:8], sess.Name, sess.ID)
		}
		return nil
	},
}

func printResult(w io.Writer, r *classifier.Result) {
	fmt.Fprintln(w, "[SVM RESULT]")
	fmt.Fprintf(w, "target: %s  kernel: %s  test_size: %.1f\n", r.TargetColumn, r.Kernel, r.TestSize)
	fmt.Fprintf(w, "features (%d): %s\n", r.NFeatures, strings.Join(r.FeatureColumns, ", "))
	fmt.Fprintf(w, "samples: %d (train %d, test %d)\n", r.NSamples, r.NTrain, r.NTest)
	fmt.Fprintf(w, "accuracy: %.3f  precision: %.3f  recall: %.3f  f1: %.3f\n", r.Accuracy, r.Precision, r.Recall, r.F1Score)
	fmt.Fprintln(w, "\n[CONFUSION MATRIX] rows=actual, cols=predicted")
	fmt.Fprintf(w, "| |%s|\n", strings.Join(r.ClassLabels, "|"))
	fmt.Fprintf(w, "|---|%s\n", strings.Repeat("---|", len(r.ClassLabels)))
	for i, row := range r.ConfusionMatrix {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprintf("%d", v)
		}
		label := ""
		if i < len(r.ClassLabels) {
			label = r.ClassLabels[i]
		}
		fmt.Fprintf(w, "|%s|%s|\n", label, strings.Join(cells, "|"))
	}
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainSource.register(trainCmd)
	trainCmd.Flags().StringVarP(&trainTarget, "target", "t", "", "target column (default: last column)")
	trainCmd.Flags().StringVarP(&trainKernel, "kernel", "k", string(classifier.RBF), "kernel: linear|poly|rbf|sigmoid")
	trainCmd.Flags().Float64Var(&trainTestSize, "test-size", 0.2, "test fraction: 0.1|0.2|0.3|0.4")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", classifier.DefaultSeed, "split seed")
	trainCmd.Flags().BoolVar(&trainSave, "save", false, "store the result in a new session when --session is not given")
	trainCmd.Flags().StringVar(&trainName, "name", "", "name for the new session with --save")
	trainCmd.Flags().BoolVar(&trainJSON, "json", false, "print JSON instead of text")
}

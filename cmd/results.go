package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/statlens/internal/charts"
	"github.com/KaramelBytes/statlens/internal/session"
	"github.com/spf13/cobra"
)

var (
	resSession  string
	resCharts   bool
	resImageDir string
	resFormat   string
	resJSON     bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect classifier results stored in a session",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored results",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openResultSession()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !sess.HasResults() {
			fmt.Fprintln(out, "(no results)")
			return nil
		}
		for _, r := range sess.Results {
			fmt.Fprintf(out, "- %s %s target=%s kernel=%s accuracy=%.3f\n",
				r.ID[:8], r.TrainedAt.Format("2006-01-02 15:04:05"), r.Result.TargetColumn, r.Result.Kernel, r.Result.Accuracy)
		}
		return nil
	},
}

var resultsShowCmd = &cobra.Command{
	Use:   "show [result-id]",
	Short: "Show a stored result (default: the latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openResultSession()
		if err != nil {
			return err
		}
		var rec *session.Record
		if len(args) == 1 {
			if rec, err = sess.Result(args[0]); err != nil {
				return err
			}
		} else {
			latest, ok := sess.Latest()
			if !ok {
				return fmt.Errorf("session '%s' has no results; run train --session %s first", sess.Name, sess.Name)
			}
			rec = latest
		}

		out := cmd.OutOrStdout()
		bundle := charts.BuildResult(rec.Result)
		if resImageDir != "" {
			figs := []namedFigure{{"confusion_matrix", bundle.ConfusionMatrix}, {"metrics", bundle.Metrics}}
			if err := writeFigureImages(cmd, filepath.Clean(resImageDir), resFormat, figs); err != nil {
				return err
			}
		}
		if resJSON {
			payload := map[string]any{"id": rec.ID, "trained_at": rec.TrainedAt, "result": rec.Result}
			if resCharts {
				payload["charts"] = bundle
			}
			return printJSON(out, payload)
		}
		fmt.Fprintf(out, "result %s trained %s\n\n", rec.ID, rec.TrainedAt.Format("2006-01-02 15:04:05"))
		printResult(out, rec.Result)
		if resCharts {
			fmt.Fprintln(out)
			return printJSON(out, bundle)
		}
		return nil
	},
}

func openResultSession() (*session.Session, error) {
	if resSession == "" {
		return nil, fmt.Errorf("--session is required")
	}
	return sessionStore().Open(resSession)
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsShowCmd)
	resultsCmd.PersistentFlags().StringVarP(&resSession, "session", "s", "", "session id or name")
	resultsShowCmd.Flags().BoolVar(&resCharts, "charts", false, "include confusion-matrix and metrics chart specifications")
	resultsShowCmd.Flags().StringVar(&resImageDir, "render", "", "render the result charts as images into this directory")
	resultsShowCmd.Flags().StringVar(&resFormat, "format", "png", "image format for --render: png|svg|pdf")
	resultsShowCmd.Flags().BoolVar(&resJSON, "json", false, "print JSON instead of text")
}

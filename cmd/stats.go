package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	statsSource    sourceFlags
	statsTestValue float64
	statsJSON      bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summary statistics and a one-sample t-test for a column",
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, _, err := statsSource.resolve(cmd)
		if err != nil {
			return err
		}
		svc := newService()
		ds, ac, err := load(cmd.Context(), svc, ac)
		if err != nil {
			return err
		}
		st, err := svc.ComputeStatistics(ds, ac.SelectedColumn, statsTestValue)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if statsJSON {
			return printJSON(out, st)
		}
		fmt.Fprintln(out, st.Summary.Markdown())
		fmt.Fprintln(out, st.HypothesisTest.Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsSource.register(statsCmd)
	statsCmd.Flags().Float64Var(&statsTestValue, "test-value", 0, "population mean for the t-test")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON instead of Markdown")
}

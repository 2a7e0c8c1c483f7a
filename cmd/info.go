package cmd

import (
	"fmt"

	"github.com/KaramelBytes/statlens/internal/dataset"
	"github.com/KaramelBytes/statlens/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	infoSource    sourceFlags
	infoJSON      bool
	previewSource sourceFlags
	previewRows   int
	previewJSON   bool
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show dataset shape, column types and missing values",
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, _, err := infoSource.resolve(cmd)
		if err != nil {
			return err
		}
		ds, ac, err := load(cmd.Context(), newService(), ac)
		if err != nil {
			return err
		}
		info := dataset.Describe(ds)
		columns, targets := pipeline.ColumnChoices(ds, ac.DataSource)
		out := cmd.OutOrStdout()
		if infoJSON {
			return printJSON(out, map[string]any{
				"info":           info,
				"column_choices": columns,
				"target_choices": targets,
			})
		}
		fmt.Fprintln(out, info.Markdown())
		fmt.Fprintln(out, "[COLUMN CHOICES]")
		for _, c := range columns {
			fmt.Fprintf(out, "- %s (%s)\n", c.Value, c.Label)
		}
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the first rows of a dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, _, err := previewSource.resolve(cmd)
		if err != nil {
			return err
		}
		ds, _, err := load(cmd.Context(), newService(), ac)
		if err != nil {
			return err
		}
		p := dataset.Preview(ds, previewRows)
		if previewJSON {
			return printJSON(cmd.OutOrStdout(), p)
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoSource.register(infoCmd)
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "print JSON instead of Markdown")

	rootCmd.AddCommand(previewCmd)
	previewSource.register(previewCmd)
	previewCmd.Flags().IntVarP(&previewRows, "rows", "n", dataset.DefaultPreviewRows, "rows to show")
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "print JSON instead of Markdown")
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/statlens/internal/charts"
	"github.com/KaramelBytes/statlens/internal/render"
	"github.com/KaramelBytes/statlens/internal/utils"
	"github.com/spf13/cobra"
)

var (
	chartsSource   sourceFlags
	chartsBins     int
	chartsColor    string
	chartsNoCorr   bool
	chartsOutDir   string
	chartsImageDir string
	chartsFormat   string
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Build histogram, box, Q-Q and correlation chart specifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, _, err := chartsSource.resolve(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("bins") {
			ac.Bins = chartsBins
		}
		if cmd.Flags().Changed("color") {
			ac.Color = chartsColor
		}
		if chartsNoCorr {
			ac.ShowCorrelation = false
		}
		// asking for charts implies drawing them
		ac.ShowPlot = true

		svc := newService()
		ds, ac, err := load(cmd.Context(), svc, ac)
		if err != nil {
			return err
		}
		bundle := svc.BuildCharts(ds, ac)
		figs := namedFigures(bundle)
		if len(figs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "(no charts for this data)")
			return nil
		}
		written := false
		if chartsOutDir != "" {
			if err := writeFigureJSON(cmd, chartsOutDir, figs); err != nil {
				return err
			}
			written = true
		}
		if chartsImageDir != "" {
			if err := writeFigureImages(cmd, chartsImageDir, chartsFormat, figs); err != nil {
				return err
			}
			written = true
		}
		if !written {
			return printJSON(cmd.OutOrStdout(), bundle)
		}
		return nil
	},
}

type namedFigure struct {
	name string
	fig  *charts.Figure
}

func namedFigures(b charts.Bundle) []namedFigure {
	var out []namedFigure
	for _, nf := range []namedFigure{
		{"histogram", b.Histogram},
		{"boxplot", b.BoxPlot},
		{"qqplot", b.QQPlot},
		{"correlation", b.Correlation},
	} {
		if nf.fig != nil {
			out = append(out, nf)
		}
	}
	return out
}

func writeFigureJSON(cmd *cobra.Command, dir string, figs []namedFigure) error {
	if err := utils.EnsureDir(dir); err != nil {
		return err
	}
	for _, nf := range figs {
		data, err := utils.PrettyJSON(nf.fig)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, nf.name+".json")
		if err := utils.SafeWriteFile(path, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	}
	return nil
}

func writeFigureImages(cmd *cobra.Command, dir, format string, figs []namedFigure) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if !contains(render.Formats, format) {
		return fmt.Errorf("unsupported --format: %s (use png, svg or pdf)", format)
	}
	for _, nf := range figs {
		path := filepath.Join(dir, nf.name+"."+format)
		if err := render.WriteFile(path, nf.fig); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Rendered %s\n", path)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsSource.register(chartsCmd)
	chartsCmd.Flags().IntVar(&chartsBins, "bins", charts.DefaultBins, "histogram bins (1-50)")
	chartsCmd.Flags().StringVar(&chartsColor, "color", charts.DefaultColor, "histogram color: red|blue|green|yellow|purple")
	chartsCmd.Flags().BoolVar(&chartsNoCorr, "no-correlation", false, "skip the correlation heatmap")
	chartsCmd.Flags().StringVarP(&chartsOutDir, "output", "o", "", "write one <chart>.json per figure to this directory")
	chartsCmd.Flags().StringVar(&chartsImageDir, "render", "", "render figures as images into this directory")
	chartsCmd.Flags().StringVar(&chartsFormat, "format", "png", "image format for --render: png|svg|pdf")
}

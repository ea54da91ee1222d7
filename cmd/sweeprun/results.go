package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/driftml/sweep-runner/internal/analysis"
	"github.com/driftml/sweep-runner/internal/app"
	"github.com/driftml/sweep-runner/internal/config"

	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Query the tracking service for trial results and chart them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		a, err := app.NewApp(cfg, app.WithTracking())
		if err != nil {
			return err
		}
		defer a.Close()

		metric, _ := cmd.Flags().GetString("metric")
		if metric == "" && cfg.Sweep != nil {
			metric = cfg.Sweep.SortMetric
		}
		if metric == "" {
			return fmt.Errorf("no metric to sort by; set sweep.sort_metric or pass --metric")
		}

		experiment, _ := cmd.Flags().GetString("experiment")
		if experiment == "" && cfg.Sweep != nil {
			experiment = cfg.Sweep.Experiment
		}

		analyzer := analysis.NewAnalyzer(a.Tracking(), a.Logger)

		rows, err := analyzer.Table(a.Context(), experiment, metric)
		if err != nil {
			return err
		}

		writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(writer, "TRIAL\tCOMPONENT\t%s\n", metric)
		for _, row := range rows {
			value := "-"
			if v, ok := row.Metrics[metric]; ok {
				value = strconv.FormatFloat(v, 'f', 6, 64)
			}
			fmt.Fprintf(writer, "%s\t%s\t%s\n", row.TrialName, row.Component, value)
		}
		writer.Flush()

		out, _ := cmd.Flags().GetString("out")
		if out != "" {
			var labelParams []string
			if cfg.Sweep != nil {
				labelParams = cfg.Sweep.LabelParams
			}

			if err := analysis.RenderBarChart(rows, metric, labelParams, out); err != nil {
				return err
			}
			fmt.Printf("chart written to %s\n", out)
		}

		return nil
	},
}

func init() {
	resultsCmd.Flags().String("experiment", "", "Experiment name (overrides the configured one)")
	resultsCmd.Flags().String("metric", "", "Metric column to sort by")
	resultsCmd.Flags().String("out", "", "Write a bar chart PNG to this path")
}

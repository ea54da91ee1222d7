package analysis

import (
	"fmt"
	"os"

	"github.com/driftml/sweep-runner/internal/tracking"
	"github.com/wcharczuk/go-chart/v2"
)

// RenderBarChart draws one bar per trial component, metric value against a
// label built from the hyperparameters, and writes the chart as a PNG.
func RenderBarChart(rows []tracking.ResultRow, metric string, labelParams []string, outPath string) error {
	bars := make([]chart.Value, 0, len(rows))
	for _, row := range rows {
		value, ok := row.Metrics[metric]
		if !ok {
			continue
		}
		bars = append(bars, chart.Value{Value: value, Label: Label(row, labelParams)})
	}

	if len(bars) == 0 {
		return fmt.Errorf("no rows recorded metric %q", metric)
	}

	graph := chart.BarChart{
		Title:    metric,
		Height:   512,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Bars: bars,
	}

	file, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := graph.Render(chart.PNG, file); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

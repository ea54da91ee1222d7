package analysis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/driftml/sweep-runner/internal/tracking"
	"go.uber.org/zap"
)

// Analyzer pulls the per-trial results table out of the tracking service and
// prepares it for comparison.
type Analyzer struct {
	tracking *tracking.Client
	logger   *zap.Logger
}

func NewAnalyzer(trk *tracking.Client, logger *zap.Logger) *Analyzer {
	return &Analyzer{tracking: trk, logger: logger}
}

// Table runs the analytics query for the experiment and returns the rows
// sorted ascending by the chosen metric.
func (a *Analyzer) Table(ctx context.Context, experimentName, metric string) ([]tracking.ResultRow, error) {
	rows, err := a.tracking.Search(ctx, experimentName)
	if err != nil {
		return nil, fmt.Errorf("failed to query results for %q: %w", experimentName, err)
	}

	a.logger.Info("fetched results",
		zap.String("experiment", experimentName),
		zap.Int("rows", len(rows)),
	)

	SortByMetric(rows, metric)
	return rows, nil
}

// SortByMetric orders rows ascending by the metric value. Rows that never
// recorded the metric sort last.
func SortByMetric(rows []tracking.ResultRow, metric string) {
	sort.SliceStable(rows, func(i, j int) bool {
		vi, oki := rows[i].Metrics[metric]
		vj, okj := rows[j].Metrics[metric]
		if oki != okj {
			return oki
		}
		return vi < vj
	})
}

// Label synthesizes a short bar label from the row's hyperparameters.
func Label(row tracking.ResultRow, labelParams []string) string {
	parts := make([]string, 0, len(labelParams))
	for _, p := range labelParams {
		v, ok := row.Parameters[p]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", p, strconv.FormatFloat(v, 'f', -1, 64)))
	}

	if len(parts) == 0 {
		return row.TrialName
	}

	return strings.Join(parts, "\n")
}

package analysis

import (
	"testing"

	"github.com/driftml/sweep-runner/internal/tracking"
)

func TestSortByMetric(t *testing.T) {
	rows := []tracking.ResultRow{
		{TrialName: "c", Metrics: map[string]float64{"test:mse": 0.9}},
		{TrialName: "missing", Metrics: map[string]float64{}},
		{TrialName: "a", Metrics: map[string]float64{"test:mse": 0.1}},
		{TrialName: "b", Metrics: map[string]float64{"test:mse": 0.5}},
	}

	SortByMetric(rows, "test:mse")

	want := []string{"a", "b", "c", "missing"}
	for i, name := range want {
		if rows[i].TrialName != name {
			t.Errorf("row %d = %q, want %q", i, rows[i].TrialName, name)
		}
	}
}

func TestLabel(t *testing.T) {
	row := tracking.ResultRow{
		TrialName:  "trial-1",
		Parameters: map[string]float64{"learning_rate": 0.1, "epochs": 100},
	}

	got := Label(row, []string{"learning_rate", "epochs"})
	want := "learning_rate=0.1\nepochs=100"
	if got != want {
		t.Errorf("Label = %q, want %q", got, want)
	}

	// Fall back to the trial name when no labelled parameter is present.
	if got := Label(row, []string{"momentum"}); got != "trial-1" {
		t.Errorf("Label fallback = %q, want trial name", got)
	}
}

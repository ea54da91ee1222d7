package sweep

import (
	"strings"
	"testing"
	"time"
)

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.1, "0-1"},
		{0.9, "0-9"},
		{100, "100"},
		{1.25, "1-25"},
	}

	for _, tc := range cases {
		if got := FormatValue(tc.in); got != tc.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildNames(t *testing.T) {
	combo := Combination{
		Names:  []string{"learning_rate", "epochs"},
		Values: map[string]float64{"learning_rate": 0.1, "epochs": 100},
	}

	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	jobName, trialName := BuildNames("reg-sweep", combo, 1, ts)

	for _, want := range []string{"reg-sweep", "0-1", "100", "20240601-120000"} {
		if !strings.Contains(jobName, want) {
			t.Errorf("job name %q does not contain %q", jobName, want)
		}
	}

	if !strings.HasPrefix(trialName, jobName) {
		t.Errorf("trial name %q should extend job name %q", trialName, jobName)
	}

	if strings.Contains(jobName, ".") {
		t.Errorf("job name %q must not contain dots", jobName)
	}
}

// Repeated candidate values must still yield unique names thanks to the run
// number embedded in each one.
func TestBuildNamesUniqueWithRepeatedValues(t *testing.T) {
	params := []Parameter{
		{Name: "learning_rate", Values: []float64{0.1, 0.1}},
		{Name: "epochs", Values: []float64{100}},
	}

	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	seen := map[string]bool{}
	for i, combo := range Combinations(params) {
		jobName, trialName := BuildNames("reg-sweep", combo, i+1, ts)
		if seen[jobName] || seen[trialName] {
			t.Fatalf("duplicate name generated: %q / %q", jobName, trialName)
		}
		seen[jobName] = true
		seen[trialName] = true
	}
}

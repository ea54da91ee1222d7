package sweep

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatValue renders a hyperparameter value for use in a job or trial name.
// Dots are not allowed in names, so 0.1 becomes "0-1".
func FormatValue(v float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(v, 'f', -1, 64), ".", "-")
}

// BuildNames derives the job and trial names for one combination. The name
// embeds every hyperparameter value, the submission timestamp and the run
// number, which together keep names unique across a sweep even when candidate
// values repeat.
func BuildNames(base string, combo Combination, runNumber int, ts time.Time) (jobName, trialName string) {
	parts := []string{base}
	for _, name := range combo.Names {
		parts = append(parts, strings.ReplaceAll(name, "_", "-"), FormatValue(combo.Values[name]))
	}
	parts = append(parts, ts.UTC().Format("20060102-150405"), fmt.Sprintf("%03d", runNumber))

	slug := strings.Join(parts, "-")
	return slug, slug + "-trial"
}

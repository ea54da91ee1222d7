package config

import (
	"errors"

	"github.com/spf13/viper"
)

const DefaultSweepHome = "~/.sweeprun"

// The abalone dataset from the UCI repository, a small tabular regression
// benchmark with the target in the last column.
const DefaultDatasetURL = "https://archive.ics.uci.edu/ml/machine-learning-databases/abalone/abalone.data"

const DefaultTestFraction = 0.33

var (
	ErrSweepHomeNotSet       = errors.New("sweep home directory is not set")
	ErrSweepHomeExpandFailed = errors.New("failed to expand sweep home directory")
)

func setDefaults() {
	viper.SetDefault("host", "localhost")
	viper.SetDefault("port", 8930)
	viper.SetDefault("environment", "dev")
	viper.SetDefault("filesystem_type", FilesystemLocal)

	viper.SetDefault("dataset.url", DefaultDatasetURL)
	viper.SetDefault("dataset.test_fraction", DefaultTestFraction)
	viper.SetDefault("dataset.seed", 42)
	viper.SetDefault("dataset.key_prefix", "sweep-data")

	viper.SetDefault("tracking.timeout_seconds", 30)

	viper.SetDefault("sweep.submit_pause_seconds", 2)
	viper.SetDefault("sweep.cleanup_pause_millis", 500)
}

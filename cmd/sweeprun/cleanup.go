package cmd

import (
	"fmt"
	"time"

	"github.com/driftml/sweep-runner/internal/app"
	"github.com/driftml/sweep-runner/internal/config"
	"github.com/driftml/sweep-runner/internal/sweep"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Tear down the experiment, its trials and their components",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		a, err := app.NewApp(cfg, app.WithTracking())
		if err != nil {
			return err
		}
		defer a.Close()

		experiment, _ := cmd.Flags().GetString("experiment")
		if experiment == "" && cfg.Sweep != nil {
			experiment = cfg.Sweep.Experiment
		}
		if experiment == "" {
			return fmt.Errorf("no experiment to clean up; set sweep.experiment or pass --experiment")
		}

		pause := 500 * time.Millisecond
		if cfg.Sweep != nil && cfg.Sweep.CleanupPauseMillis > 0 {
			pause = time.Duration(cfg.Sweep.CleanupPauseMillis) * time.Millisecond
		}

		cleaner := sweep.NewCleaner(a.Tracking(), a.Logger, pause)
		if err := cleaner.Run(a.Context(), experiment); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}

		fmt.Printf("experiment %s deleted\n", experiment)
		return nil
	},
}

func init() {
	cleanupCmd.Flags().String("experiment", "", "Experiment name (overrides the configured one)")
}

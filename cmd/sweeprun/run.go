package cmd

import (
	"fmt"

	"github.com/driftml/sweep-runner/internal/app"
	"github.com/driftml/sweep-runner/internal/config"
	"github.com/driftml/sweep-runner/internal/dataset"
	"github.com/driftml/sweep-runner/internal/sweep"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Prepare the dataset and run the hyperparameter sweep",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		a, err := app.NewApp(cfg,
			app.WithDBInitialization(),
			app.WithObjectStore(),
			app.WithTracking(),
			app.WithTrainer(),
		)
		if err != nil {
			return err
		}
		defer a.Close()

		preparer := dataset.NewPreparer(cfg, a.ObjectStore(), a.Uploader(), a.Logger)

		prepared, err := preparer.Prepare(a.Context())
		if err != nil {
			return fmt.Errorf("failed to prepare dataset: %w", err)
		}

		if err := preparer.Stage(a.Context(), prepared); err != nil {
			return err
		}

		driver := sweep.NewDriver(cfg, a.Tracking(), a.Trainer(), a.SubmissionRepository, a.Logger)

		result, err := driver.Run(a.Context(), prepared.TrainUri, prepared.TestUri)
		if err != nil {
			return fmt.Errorf("sweep aborted: %w", err)
		}

		fmt.Printf("submitted %d training jobs under experiment %s\n", len(result.JobNames), result.ExperimentName)
		return nil
	},
}

func init() {
	runCmd.Flags().String("experiment", "", "Experiment name (overrides the configured one)")

	viper.BindPFlag("sweep.experiment", runCmd.Flags().Lookup("experiment"))
}

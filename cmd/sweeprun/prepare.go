package cmd

import (
	"fmt"

	"github.com/driftml/sweep-runner/internal/app"
	"github.com/driftml/sweep-runner/internal/config"
	"github.com/driftml/sweep-runner/internal/dataset"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Download the dataset, split and scale it, and stage it to the object store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		a, err := app.NewApp(cfg, app.WithObjectStore())
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

		fmt.Printf("train data: %s\ntest data:  %s\n", prepared.TrainUri, prepared.TestUri)
		return nil
	},
}

func init() {
	prepareCmd.Flags().String("dataset-url", config.DefaultDatasetURL, "URL of the raw dataset to download")

	viper.BindPFlag("dataset.url", prepareCmd.Flags().Lookup("dataset-url"))
}

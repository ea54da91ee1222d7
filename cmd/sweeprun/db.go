package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/driftml/sweep-runner/internal/app"
	"github.com/driftml/sweep-runner/internal/config"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun/extra/bundebug"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Utility for local submission-ledger management",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the local database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newDBApp()
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Println("database initialized")
		return nil
	},
}

var dbSubmissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "List recorded job submissions for an experiment",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newDBApp()
		if err != nil {
			return err
		}
		defer a.Close()

		experiment, _ := cmd.Flags().GetString("experiment")
		if experiment == "" && a.Config().Sweep != nil {
			experiment = a.Config().Sweep.Experiment
		}

		submissions, err := a.SubmissionRepository.ListByExperiment(a.Context(), experiment)
		if err != nil {
			return err
		}

		writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "RUN\tJOB\tTRIAL\tSTATUS\tHYPERPARAMETERS")
		for _, s := range submissions {
			fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\n",
				s.RunNumber, s.JobName, s.TrialName, s.Status, string(s.Hyperparameters))
		}
		return writer.Flush()
	},
}

var dbPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete recorded submissions for an experiment",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newDBApp()
		if err != nil {
			return err
		}
		defer a.Close()

		experiment, _ := cmd.Flags().GetString("experiment")
		if experiment == "" && a.Config().Sweep != nil {
			experiment = a.Config().Sweep.Experiment
		}

		if err := a.SubmissionRepository.DeleteByExperiment(a.Context(), experiment); err != nil {
			return err
		}

		fmt.Printf("pruned submissions for experiment %s\n", experiment)
		return nil
	},
}

func newDBApp() (*app.App, error) {
	a, err := app.NewApp(config.GetConfig(), app.WithDBInitialization())
	if err != nil {
		return nil, err
	}

	a.DB().AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithEnabled(false),
		bundebug.FromEnv(),
	))

	return a, nil
}

func init() {
	dbSubmissionsCmd.Flags().String("experiment", "", "Experiment name (overrides the configured one)")
	dbPruneCmd.Flags().String("experiment", "", "Experiment name (overrides the configured one)")

	dbCmd.AddCommand(dbInitCmd, dbSubmissionsCmd, dbPruneCmd)
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/driftml/sweep-runner/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const sweepPrefix = "SWEEP"

var Cmd = &cobra.Command{
	Use:   "sweeprun",
	Short: "Sweep Runner CLI",
	Long:  "Organize hyperparameter-sweep training runs against an experiment-tracking service, then query and chart the results",

	// Runs before this command and any subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		viper.SetEnvPrefix(sweepPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(
			`-`, `_`,
			`.`, `_`,
		))
		viper.AutomaticEnv()

		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}

		if !config.IsLoaded() {
			if err := config.InitConfig(); err != nil {
				return err
			}
		}

		return nil
	},
}

func Execute() {
	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pflags := Cmd.PersistentFlags()

	pflags.String("sweep-home", "", "Path to the sweep home directory")
	pflags.String("config-file", "", "Path to the config file")
	pflags.String("env-file", "", "Path to the env file")

	viper.BindPFlag("sweep_home", pflags.Lookup("sweep-home"))
	viper.BindPFlag("config_file", pflags.Lookup("config-file"))
	viper.BindPFlag("env_file", pflags.Lookup("env-file"))

	Cmd.AddCommand(prepareCmd, runCmd, resultsCmd, cleanupCmd, serveCmd, dbCmd)
	Cmd.CompletionOptions.HiddenDefaultCmd = true
}

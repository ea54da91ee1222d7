package cmd

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/driftml/sweep-runner/internal/app"
	"github.com/driftml/sweep-runner/internal/config"
	"github.com/driftml/sweep-runner/internal/server"
	"github.com/driftml/sweep-runner/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local tracking and training service for offline development",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		a, err := app.NewApp(cfg, app.WithDBInitialization())
		if err != nil {
			return err
		}
		defer a.Close()

		srv, err := server.NewServer(cfg)
		if err != nil {
			return err
		}

		handlers := server.NewHandlers(server.NewStore(a.DB()), a.Logger)
		srv.SetupRoutes(handlers)

		logger.Info("Tracking service listening on", cfg.Host, cfg.Port)

		errc := make(chan error, 1)
		signalc := make(chan os.Signal, 1)

		go func() {
			errc <- srv.Start()
		}()

		signal.Notify(signalc, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errc:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-signalc:
			return srv.Stop(a.Context())
		}
	},
}

func init() {
	serveCmd.Flags().Int("port", 8930, "Port to run the server on")
	serveCmd.Flags().String("host", "localhost", "Host to run the server on")

	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("host", serveCmd.Flags().Lookup("host"))
}

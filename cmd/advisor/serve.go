package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/comigor/advisor-go/internal/logger"
	"github.com/comigor/advisor-go/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the advisor over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}

		serverAddr := fmt.Sprintf("%s:%s", a.cfg.Server.Host, a.cfg.Server.Port)
		serveErr := server.New(a.advisor).ListenAndServe(ctx, serverAddr)
		if serveErr != nil {
			logger.L.Error("failed to start server", "error", serveErr)
		}
		if err := a.teardown(); err != nil && serveErr == nil {
			return err
		}
		return serveErr
	},
}

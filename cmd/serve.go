package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/edgegate/edgegate/internal/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the edgegate authorizer as an HTTP server",
	Long: `Runs the authorizer behind an HTTP facade: POST a gateway event to
/v1/authorize and receive the policy response the gateway would get.
Meant for local development, integration tests, and operations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		components, err := f.BuildComponents()
		if err != nil {
			return fmt.Errorf("building authorizer: %w", err)
		}
		defer func() {
			if err := components.Auditor.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close auditor")
			}
		}()

		if addr == "" {
			addr = components.Config.Server.Addr
		}

		srv := api.NewServer(components.Authorizer, components.Keys, components.Store, components.Auditor)

		server := &http.Server{
			Addr:    addr,
			Handler: srv.Routes(components.Config.Server.AdminToken),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides server.addr from config)")
	f.bindConfigFlag(serveCmd.Flags())
}

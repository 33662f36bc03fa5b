package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/server"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing the pipeline steps. Profile and history routes are enabled when DATABASE_URL is set.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Port
	if servePort != 0 {
		port = servePort
	}

	// Surface credential problems at startup; later calls retry once.
	if err := a.gateway.Warm(cmd.Context()); err != nil {
		a.logger.Warn().Err(err).Msg("language model unavailable at startup")
	}

	opts := []server.Option{server.WithLogger(a.logger), server.WithMetrics(a.metrics)}
	if a.cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), a.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.Migrate(cmd.Context()); err != nil {
			return err
		}
		opts = append(opts, server.WithStore(database))
	}

	srv := server.New(server.Config{
		Port:      port,
		RateLimit: ratelimit.LoadConfig(os.LookupEnv),
	}, a.pipeline, opts...)
	return srv.Start()
}

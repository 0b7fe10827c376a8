package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/database"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "portfolio-site-backend",
		Short:         "JSON API for the portfolio site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(newServeCommand(), newMigrateCommand(), newTokenCommand())
	return root
}

// loadConfig reads the environment and configures the global logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg.App)
	return cfg, nil
}

// setupLogging writes colored console output in development and JSON in
// production.
func setupLogging(app config.AppConfig) {
	level, err := zerolog.ParseLevel(app.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if app.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// newConnectionCache picks the connector for DB_TYPE. Nothing is dialed until
// the first request needs the database.
func newConnectionCache(cfg config.DatabaseConfig) *database.ConnectionCache {
	var connector database.Connector
	switch cfg.Type {
	case config.DatabasePostgres, config.DatabaseSupabase:
		connector = database.ConnectPostgres()
	default:
		connector = database.ConnectMongo(cfg.Name)
	}

	log.Info().Str("dbType", cfg.Type).Bool("configured", cfg.URI != "").Msg("Database selected")
	return database.NewConnectionCache(cfg.URI, cfg.URIKey, connector)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

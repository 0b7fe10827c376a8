package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-site-backend/api"
	"github.com/rpupo63/portfolio-site-backend/services"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	log.Info().Msg("Initializing app...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	connections := newConnectionCache(cfg.Database)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := connections.Close(ctx); err != nil {
			log.Error().Err(err).Msg("Error closing database connection")
		}
	}()

	generator, err := services.NewGenerator(cmd.Context(), cfg.Chat)
	if err != nil {
		log.Warn().Err(err).Msg("Chat generator unavailable, using canned replies")
	}

	server, err := api.NewServer(cfg, api.Dependencies{
		Connections: connections,
		Chat:        services.NewChatService(generator, cfg.Chat.Timeout),
		Notifier:    services.NewContactNotifier(cfg.Notify),
	})
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(shutdownTimeout)
	return nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables or indexes for the configured database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			connections := newConnectionCache(cfg.Database)
			defer connections.Close(context.Background())

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			backend, err := connections.Get(ctx)
			if err != nil {
				return err
			}
			if err := backend.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate %s: %w", cfg.Database.Type, err)
			}

			log.Info().Str("dbType", cfg.Database.Type).Msg("Migration complete")
			return nil
		},
	}
}

func newTokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an admin token for the project write routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			token, err := api.IssueAdminToken(cfg.Auth.AdminJWTSecret, subject, ttl, time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "admin", "subject claim of the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "how long the token stays valid")
	return cmd
}

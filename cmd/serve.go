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

	"github.com/mmc102/partner-finder/internal/config"
	"github.com/mmc102/partner-finder/internal/handlers"
	"github.com/mmc102/partner-finder/internal/repository"
	"github.com/mmc102/partner-finder/internal/repository/migrations"
	"github.com/mmc102/partner-finder/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return Run(cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Apply pending migrations before serving")
}

// newServices builds every service on top of store
func newServices(cfg *config.Config, store repository.Store) handlers.Services {
	clock := services.RealClock{}
	return handlers.Services{
		Users:     services.NewUserService(store, cfg.JWT.Secret, cfg.JWT.Expiry, clock),
		Social:    services.NewSocialService(store, clock),
		Interests: services.NewInterestService(store, clock),
		Feed:      services.NewFeedService(store),
		Catalog:   services.NewCatalogService(store, services.UUIDGenerator{}),
		Hub:       services.NewWSHub(),
	}
}

// Run serves the API until SIGINT or SIGTERM
func Run(cfg *config.Config) error {
	ctx := context.Background()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if pg, ok := store.(*repository.PostgresStore); ok {
		if autoMigrate {
			if err := migrations.MigrateUp(pg.Pool()); err != nil {
				return err
			}
		}
		if err := migrations.CheckStatus(pg.Pool()); err != nil {
			if errors.Is(err, migrations.ErrNeedsMigration) {
				return fmt.Errorf("%w: run \"partner-finder migrate up\" or serve with --migrate", err)
			}
			return err
		}
	}

	router := handlers.NewRouter(newServices(cfg, store))

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

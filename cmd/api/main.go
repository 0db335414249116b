package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/users-service/internal/config"
	"github.com/deppfellow/users-service/internal/database"
	"github.com/deppfellow/users-service/internal/handler"
	"github.com/deppfellow/users-service/internal/lib/photo"
	"github.com/deppfellow/users-service/internal/logger"
	"github.com/deppfellow/users-service/internal/repository"
	"github.com/deppfellow/users-service/internal/router"
	"github.com/deppfellow/users-service/internal/server"
	"github.com/deppfellow/users-service/internal/service"
)

const DefaultContextTimeout = 30

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// The agent is flushed by srv.Shutdown.
	loggerService := logger.NewLoggerService(cfg.Observability)

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	if err := database.Migrate(migrateCtx, &log, cfg); err != nil {
		cancelMigrate()
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	cancelMigrate()

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	if err := database.Seed(seedCtx, srv.DB, &log); err != nil {
		log.Warn().Err(err).Msg("seeding skipped, continuing startup")
	}
	cancelSeed()

	repos := repository.NewRepositories()
	photos := photo.NewClient(cfg.Integration, &log)

	services, err := service.NewService(srv, repos, photos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

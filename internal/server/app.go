// Package server initializes and runs the Leazzy backend: it opens the
// database, wires the services into the HTTP API, and handles graceful
// shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ashishkaushik/leazzy/internal/logging"
	"github.com/ashishkaushik/leazzy/internal/server/config"
	"github.com/ashishkaushik/leazzy/internal/server/httpapi"
	"github.com/ashishkaushik/leazzy/internal/server/repositories/repomanager"
	"github.com/ashishkaushik/leazzy/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	userService := services.NewUserService(db, rm, cfg)
	propertyService := services.NewPropertyService(db, rm)
	photoService := services.NewPhotoService(cfg)

	api := httpapi.NewServer(userService, propertyService, photoService, cfg, logger)

	return &App{config: cfg, logger: logger, db: db, api: api}, nil
}

// Run serves the HTTP API until ctx is cancelled or an OS signal arrives,
// then drains in-flight requests.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer app.api.Close()
	defer func() { _ = app.db.Close() }()

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.api.Router(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		app.logger.Info(shutdownCtx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

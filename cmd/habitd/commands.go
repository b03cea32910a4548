package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habitbuilder/internal/db"
	"github.com/habitbuilder/internal/handler"
	"github.com/habitbuilder/internal/metrics"
	"github.com/habitbuilder/internal/router"
	"github.com/habitbuilder/internal/seed"
	"github.com/sirupsen/logrus"
)

// ServeCmd runs the HTTP API until SIGINT or SIGTERM.
type ServeCmd struct {
	Listen          string        `help:"Listen address, overrides LISTEN_ADDR."`
	ShutdownTimeout time.Duration `help:"Graceful shutdown timeout." default:"10s"`
}

func (cmd *ServeCmd) Run(app *appContext) error {
	gin.SetMode(app.cfg.GinMode)
	if err := handler.RegisterValidators(); err != nil {
		return err
	}

	gdb, err := app.openDatabase()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close(gdb)

	var collectors *metrics.Collectors
	if app.cfg.MetricsEnabled {
		collectors = metrics.New()
	}

	habits, users := app.services(gdb, collectors)
	api := handler.NewAPI(habits, users, handler.Options{
		Logger:         app.logger,
		SupportContact: app.cfg.SupportContact,
	})
	engine := router.SetupRouter(api, router.Options{Logger: app.logger, Metrics: collectors})

	addr := app.cfg.ListenAddr
	if cmd.Listen != "" {
		addr = cmd.Listen
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		app.logger.WithField("addr", addr).Info("habitd listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to run server: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// MigrateCmd creates the schema and exits.
type MigrateCmd struct{}

func (cmd *MigrateCmd) Run(app *appContext) error {
	gdb, err := app.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	app.logger.WithField("driver", app.cfg.DatabaseDriver).Info("schema is up to date")
	return nil
}

// SeedCmd inserts sample data through the service layer.
type SeedCmd struct {
	Users  int `help:"Number of sample users." default:"3"`
	Habits int `help:"Number of sample habits." default:"8"`
}

func (cmd *SeedCmd) Run(app *appContext) error {
	gdb, err := app.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	habits, users := app.services(gdb, nil)
	result, err := seed.Generate(context.Background(), habits, users, seed.Options{Users: cmd.Users, Habits: cmd.Habits})
	if err != nil {
		return err
	}

	app.logger.WithFields(logrus.Fields{
		"users":  len(result.Usernames),
		"habits": len(result.Habits),
	}).Info("sample data inserted")
	return nil
}

package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ibaloyan/ClimateAnalysis/internal/climate"
	"github.com/ibaloyan/ClimateAnalysis/internal/climate/views"
	"github.com/ibaloyan/ClimateAnalysis/internal/config"
	"github.com/ibaloyan/ClimateAnalysis/internal/db"
	"github.com/ibaloyan/ClimateAnalysis/internal/httpapi"
	"github.com/ibaloyan/ClimateAnalysis/internal/migrate"
)

// Run opens the store read-only, serves the API on cfg.HTTPAddr and shuts
// down gracefully when ctx is canceled. The store must already exist with its
// tables; `climatectl migrate` creates them.
func Run(ctx context.Context, cfg config.Config) error {
	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return err
	}
	return serve(ctx, cfg, ln)
}

func serve(ctx context.Context, cfg config.Config, ln net.Listener) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", ln.Addr().String(),
		"dbDriver", cfg.Driver,
		"sqlitePath", cfg.Path,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"dbLogSQL", cfg.LogSQL,
	)
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Verify(ctx, dbConn); err != nil {
		_ = ln.Close()
		return err
	}

	if err := views.LoadTemplates(); err != nil {
		_ = ln.Close()
		return err
	}

	router := httpapi.NewRouter(dbConn)
	climate.RegisterFeature(router, dbConn)

	srv := httpapi.NewServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rpattn/jobql/internal/db"
	"github.com/rpattn/jobql/internal/export"
	"github.com/rpattn/jobql/internal/jobs"
	"github.com/rpattn/jobql/internal/metrics"
	"github.com/rpattn/jobql/internal/middleware"
	"github.com/rpattn/jobql/internal/repository"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  serveRunE,
}

var serveArgs struct {
	addr    string
	migrate bool
}

func init() {
	serveCmd.Flags().StringVar(&serveArgs.addr, "addr", "", "Listen address, overrides server.addr")
	serveCmd.Flags().BoolVar(&serveArgs.migrate, "migrate", false, "Apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func serveRunE(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveArgs.addr != "" {
		cfg.Server.Addr = serveArgs.addr
	}
	mode, err := cfg.Filter.CompileMode()
	if err != nil {
		return err
	}
	registry := cfg.Filter.Registry()

	if serveArgs.migrate || cfg.Server.AutoMigrate {
		if err := db.RunMigrations(cfg.Database); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer conn.Close()

	jobRepo := repository.NewJobRepository(conn.Pool)
	attributeRepo := repository.NewAttributeRepository(conn.Pool)

	service := jobs.NewService(jobRepo, attributeRepo,
		jobs.WithRegistry(registry),
		jobs.WithMode(mode),
		jobs.WithLogger(logger.Named("jobs")),
		jobs.WithPageLimits(cfg.Server.DefaultLimit, cfg.Server.MaxLimit),
	)
	exporter := export.NewService(service, export.WithLogger(logger.Named("export")))

	api := middleware.Chain(
		jobs.NewHTTPHandler(service, exporter, conn, logger.Named("http")),
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.LoggingMiddleware(logger.Named("access")),
		metrics.Middleware,
		middleware.AttributeLoaderMiddleware(attributeRepo),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", api)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", cfg.Server.Addr),
			zap.String("filter_mode", mode.String()),
			zap.Strings("relations", registry.Names()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "start server")
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}
	logger.Info("server exited")
	return nil
}

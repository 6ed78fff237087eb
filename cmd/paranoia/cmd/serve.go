package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/paranoialabs/paranoia/internal/adapter/inbound/admin"
)

var traceStdout bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin API and the periodic stale-account sweep",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&traceStdout, "trace-stdout", false, "emit OpenTelemetry spans to stdout")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	shutdownTracing, err := setupTracing(ctx)
	if err != nil {
		return err
	}
	defer shutdownTracing()

	// Enforcement runs once at startup: declarations must hold before the
	// first request, even after direct data manipulation while down.
	if _, err := a.enforcement.Run(ctx); err != nil {
		a.logger.Error("startup enforcement pass failed", "error", err)
	}

	a.scheduler.Start(ctx)
	defer a.scheduler.Stop()

	handler := admin.NewHandler(a.settings, a.enforcement, a.scheduler, a.credentials, a.cfg.Server.AdminToken, a.logger)
	srv := &http.Server{
		Addr:              a.cfg.Server.HTTPAddr,
		Handler:           handler.Routes(a.promReg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("admin API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case err := <-errCh:
		return fmt.Errorf("admin server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// setupTracing installs a stdout span exporter when requested; otherwise a
// no-op provider keeps span creation cheap.
func setupTracing(ctx context.Context) (func(), error) {
	if !traceStdout {
		return func() {}, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}, nil
}

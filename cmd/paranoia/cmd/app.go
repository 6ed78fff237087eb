package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	policycel "github.com/paranoialabs/paranoia/internal/adapter/outbound/cel"
	"github.com/paranoialabs/paranoia/internal/adapter/outbound/mail"
	"github.com/paranoialabs/paranoia/internal/adapter/outbound/manifest"
	"github.com/paranoialabs/paranoia/internal/adapter/outbound/memory"
	"github.com/paranoialabs/paranoia/internal/adapter/outbound/sqlite"
	"github.com/paranoialabs/paranoia/internal/config"
	"github.com/paranoialabs/paranoia/internal/domain/account"
	"github.com/paranoialabs/paranoia/internal/domain/extension"
	"github.com/paranoialabs/paranoia/internal/domain/policy"
	"github.com/paranoialabs/paranoia/internal/domain/role"
	"github.com/paranoialabs/paranoia/internal/domain/session"
	"github.com/paranoialabs/paranoia/internal/port/outbound"
	"github.com/paranoialabs/paranoia/internal/service"
)

// app wires config, stores and services together for the CLI commands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *policy.Registry
	settings *service.SettingsStore

	accounts   account.Store
	sessions   session.Store
	roles      role.Store
	extensions extension.Store
	queue      outbound.ResetQueue

	enforcement *service.EnforcementService
	sweep       *service.SweepService
	worker      *service.ResetWorker
	scheduler   *service.Scheduler
	guard       *service.SessionGuard
	credentials *service.CredentialService

	metrics *service.Metrics
	promReg *prometheus.Registry

	close func() error
}

// buildApp loads config and constructs the full service graph.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: policy.Default(),
		settings: service.NewSettingsStore(service.Settings{
			AccessThresholdDays: cfg.Settings.AccessThresholdDays,
			EmailNotification:   cfg.Settings.EmailNotification,
		}),
		queue: memory.NewResetQueue(),
		close: func() error { return nil },
	}

	// Manifest collaborators extend the built-in hardening surface.
	for _, path := range cfg.Manifests {
		c, err := manifest.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load manifest %s: %w", path, err)
		}
		if err := a.registry.Register(c); err != nil {
			return nil, err
		}
		logger.Info("loaded collaborator manifest", "collaborator", c.Name(), "path", path)
	}

	if err := a.buildStores(ctx); err != nil {
		return nil, err
	}

	exemptions, err := policycel.Compile(cfg.Sweep.Exemptions)
	if err != nil {
		return nil, fmt.Errorf("failed to compile sweep exemptions: %w", err)
	}

	a.promReg = prometheus.NewRegistry()
	a.metrics = service.NewMetrics(a.promReg)

	a.enforcement = service.NewEnforcementService(a.registry, a.roles, a.extensions, logger, a.metrics)
	a.sweep = service.NewSweepService(a.accounts, a.queue, exemptions, a.settings, cfg.Sweep.BatchSize, logger, a.metrics)
	a.worker = service.NewResetWorker(a.accounts, a.buildMailer(), a.settings, cfg.SiteName, logger, a.metrics)
	a.scheduler = service.NewScheduler(a.sweep, a.worker, a.queue, cfg.SweepInterval(), logger)
	a.guard = service.NewSessionGuard(a.sessions, logger)
	a.credentials = service.NewCredentialService(a.accounts, a.guard, logger)

	return a, nil
}

// buildStores selects the configured backend.
func (a *app) buildStores(ctx context.Context) error {
	switch a.cfg.Store.Driver {
	case "sqlite":
		db, err := sqlite.Open(ctx, a.cfg.Store.Path)
		if err != nil {
			return err
		}
		a.accounts = db.Accounts()
		a.sessions = db.Sessions()
		a.roles = db.Roles()
		a.extensions = db.Extensions()
		a.close = db.Close
	case "memory":
		a.accounts = memory.NewAccountStore()
		a.sessions = memory.NewSessionStore()
		a.roles = memory.NewRoleStore(
			role.Role{ID: role.Anonymous, Name: "Anonymous"},
			role.Role{ID: role.Authenticated, Name: "Authenticated"},
		)
		a.extensions = memory.NewExtensionStore()
	default:
		return fmt.Errorf("unknown store driver: %s", a.cfg.Store.Driver)
	}
	return nil
}

// buildMailer selects the configured delivery mode.
func (a *app) buildMailer() outbound.Mailer {
	if a.cfg.Mail.Mode == "smtp" {
		return mail.NewSMTPMailer(a.cfg.Mail.Addr, a.cfg.Mail.From)
	}
	return mail.NewLogMailer(a.logger)
}

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Server.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.DevMode {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

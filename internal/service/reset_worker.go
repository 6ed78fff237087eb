package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/paranoialabs/paranoia/internal/adapter/outbound/mail"
	"github.com/paranoialabs/paranoia/internal/domain/account"
	"github.com/paranoialabs/paranoia/internal/port/outbound"
)

// ResetWorker processes queued stale-account resets: it overwrites the
// account's credential with a locked value and, when enabled, notifies the
// account holder. Resets are idempotent, so at-least-once queue delivery is
// fine.
type ResetWorker struct {
	accounts account.Store
	mailer   outbound.Mailer
	settings *SettingsStore
	siteName string
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

// NewResetWorker creates a reset worker. The mailer is only used while
// email notification is enabled in settings. metrics may be nil.
func NewResetWorker(accounts account.Store, mailer outbound.Mailer, settings *SettingsStore, siteName string, logger *slog.Logger, metrics *Metrics) *ResetWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResetWorker{
		accounts: accounts,
		mailer:   mailer,
		settings: settings,
		siteName: siteName,
		logger:   logger.With("channel", "paranoia"),
		metrics:  metrics,
		tracer:   otel.Tracer("paranoia/reset"),
	}
}

// Process handles one queued reset. A missing account is a no-op. A store
// failure logs an error and aborts this item without retrying; the queue
// infrastructure owns retry and backoff.
func (w *ResetWorker) Process(ctx context.Context, item outbound.ResetItem) error {
	ctx, span := w.tracer.Start(ctx, "reset.process",
		trace.WithAttributes(attribute.Int64("account.uid", item.UID)))
	defer span.End()

	a, err := w.accounts.Get(ctx, item.UID)
	if errors.Is(err, account.ErrAccountNotFound) {
		w.logger.Debug("queued account no longer exists", "uid", item.UID, "item", item.ID)
		w.record("missing")
		return nil
	}
	if err != nil {
		w.logger.Error("failed to load queued account", "uid", item.UID, "error", err)
		w.record("error")
		return fmt.Errorf("failed to load account %d: %w", item.UID, err)
	}

	locked, err := account.LockedCredential()
	if err != nil {
		w.logger.Error("failed to generate locked credential", "uid", a.UID, "error", err)
		w.record("error")
		return err
	}

	if err := w.accounts.UpdateCredential(ctx, a.UID, locked); err != nil {
		w.logger.Error("failed to reset credential", "uid", a.UID, "name", a.Name, "error", err)
		w.record("error")
		return fmt.Errorf("failed to reset credential for account %d: %w", a.UID, err)
	}

	w.logger.Info("reset credential of stale account", "uid", a.UID, "name", a.Name)
	w.record("ok")

	if w.settings.Get().EmailNotification {
		w.sendNotification(ctx, a)
	}
	return nil
}

// sendNotification mails the account holder about the reset. Delivery
// failure is logged, never fatal: the reset itself already happened.
func (w *ResetWorker) sendNotification(ctx context.Context, a *account.Account) {
	if a.Mail == "" {
		w.logger.Debug("account has no mail address, skipping notification", "uid", a.UID)
		return
	}

	msg, err := mail.RenderExpired(a.Mail, mail.ExpiredParams{
		Name:          a.Name,
		ThresholdDays: w.settings.Get().AccessThresholdDays,
		SiteName:      w.siteName,
	})
	if err != nil {
		w.logger.Error("failed to render reset notification", "uid", a.UID, "error", err)
		w.recordMail("error")
		return
	}

	if err := w.mailer.Send(ctx, msg); err != nil {
		w.logger.Error("failed to send reset notification",
			"uid", a.UID, "to", a.Mail, "message_id", msg.ID, "error", err)
		w.recordMail("error")
		return
	}
	w.logger.Info("sent reset notification", "uid", a.UID, "to", a.Mail, "message_id", msg.ID)
	w.recordMail("sent")
}

func (w *ResetWorker) record(result string) {
	if w.metrics != nil {
		w.metrics.ResetsTotal.WithLabelValues(result).Inc()
	}
}

func (w *ResetWorker) recordMail(result string) {
	if w.metrics != nil {
		w.metrics.MailTotal.WithLabelValues(result).Inc()
	}
}

package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for paranoia.
// Pass to services that need to record metrics; nil disables recording.
type Metrics struct {
	ResetsTotal         *prometheus.CounterVec
	PermissionsStripped prometheus.Counter
	ExtensionsDisabled  prometheus.Counter
	SweepEnqueuedTotal  prometheus.Counter
	QueueDepth          prometheus.Gauge
	MailTotal           *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ResetsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paranoia",
				Name:      "resets_total",
				Help:      "Stale-account credential resets processed",
			},
			[]string{"result"}, // result=ok/missing/error
		),
		PermissionsStripped: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "paranoia",
				Name:      "permissions_stripped_total",
				Help:      "Restricted permissions removed from roles",
			},
		),
		ExtensionsDisabled: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "paranoia",
				Name:      "extensions_disabled_total",
				Help:      "Extensions deactivated by enforcement",
			},
		),
		SweepEnqueuedTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "paranoia",
				Name:      "sweep_enqueued_total",
				Help:      "Accounts enqueued for credential reset",
			},
		),
		QueueDepth: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "paranoia",
				Name:      "sweep_queue_depth",
				Help:      "Reset queue depth after the last sweep",
			},
		),
		MailTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paranoia",
				Name:      "mail_total",
				Help:      "Notification mails attempted",
			},
			[]string{"result"}, // result=sent/error
		),
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/paranoialabs/paranoia/internal/adapter/outbound/memory"
	"github.com/paranoialabs/paranoia/internal/domain/account"
	"github.com/paranoialabs/paranoia/internal/port/outbound"
)

func TestMetrics_ResetWorkerRecordsResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	accounts := memory.NewAccountStore()
	saveAccount(t, accounts, account.Account{UID: 2, Name: "stale"})
	settings := NewSettingsStore(Settings{})
	w := NewResetWorker(accounts, &captureMailer{}, settings, "example site", testLogger(), metrics)

	ctx := context.Background()
	if err := w.Process(ctx, outbound.NewResetItem(2)); err != nil {
		t.Fatalf("Process(): %v", err)
	}
	if err := w.Process(ctx, outbound.NewResetItem(404)); err != nil {
		t.Fatalf("Process() missing: %v", err)
	}

	if got := testutil.ToFloat64(metrics.ResetsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("resets_total{result=ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.ResetsTotal.WithLabelValues("missing")); got != 1 {
		t.Errorf("resets_total{result=missing} = %v, want 1", got)
	}
}

func TestMetrics_SweepGathersLabeledFamilies(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	accounts := memory.NewAccountStore()
	queue := memory.NewResetQueue()
	settings := NewSettingsStore(Settings{AccessThresholdDays: 30})
	sweep := NewSweepService(accounts, queue, nil, settings, 0, testLogger(), metrics)
	sweep.now = func() time.Time { return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) }

	saveAccount(t, accounts, account.Account{UID: 2, LastAccess: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)})
	if _, err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("Run(): %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather(): %v", err)
	}

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	enq, ok := byName["paranoia_sweep_enqueued_total"]
	if !ok {
		t.Fatal("Gather() missing paranoia_sweep_enqueued_total")
	}
	if got := enq.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Errorf("paranoia_sweep_enqueued_total = %v, want 1", got)
	}

	depth, ok := byName["paranoia_sweep_queue_depth"]
	if !ok {
		t.Fatal("Gather() missing paranoia_sweep_queue_depth")
	}
	if got := depth.GetMetric()[0].GetGauge().GetValue(); got != 1 {
		t.Errorf("paranoia_sweep_queue_depth = %v, want 1", got)
	}
}

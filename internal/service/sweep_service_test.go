package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	policycel "github.com/paranoialabs/paranoia/internal/adapter/outbound/cel"
	"github.com/paranoialabs/paranoia/internal/adapter/outbound/memory"
	"github.com/paranoialabs/paranoia/internal/domain/account"
	"github.com/paranoialabs/paranoia/internal/port/outbound"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testSweepEnv builds a sweep over an in-memory store with a fixed clock.
func testSweepEnv(t *testing.T, thresholdDays int, exprs []string) (*SweepService, *memory.AccountStore, *memory.ResetQueue) {
	t.Helper()

	accounts := memory.NewAccountStore()
	queue := memory.NewResetQueue()

	var exemptions outbound.Exempter
	if len(exprs) > 0 {
		compiled, err := policycel.Compile(exprs)
		if err != nil {
			t.Fatalf("Compile() exemptions: %v", err)
		}
		exemptions = compiled
	}

	settings := NewSettingsStore(Settings{AccessThresholdDays: thresholdDays})
	svc := NewSweepService(accounts, queue, exemptions, settings, 0, testLogger(), nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) }
	return svc, accounts, queue
}

func saveAccount(t *testing.T, store *memory.AccountStore, a account.Account) {
	t.Helper()
	if err := store.Save(context.Background(), &a); err != nil {
		t.Fatalf("Save(%d): %v", a.UID, err)
	}
}

func TestSweepService_Run_EnqueuesStaleAccounts(t *testing.T) {
	svc, accounts, queue := testSweepEnv(t, 30, nil)
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	saveAccount(t, accounts, account.Account{UID: 2, Name: "stale", LastAccess: now.AddDate(0, 0, -60)})
	saveAccount(t, accounts, account.Account{UID: 3, Name: "fresh", LastAccess: now.AddDate(0, 0, -5)})

	enqueued, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if enqueued != 1 {
		t.Errorf("Run() enqueued = %d, want 1", enqueued)
	}
	item, _ := queue.Dequeue()
	if item == nil || item.UID != 2 {
		t.Errorf("Dequeue() = %v, want item for uid 2", item)
	}
}

func TestSweepService_Run_ZeroThresholdDisables(t *testing.T) {
	svc, accounts, queue := testSweepEnv(t, 0, nil)
	saveAccount(t, accounts, account.Account{UID: 2, Name: "stale", LastAccess: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)})

	enqueued, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if enqueued != 0 || queue.Len() != 0 {
		t.Errorf("Run() with zero threshold enqueued %d items, want 0", queue.Len())
	}
}

func TestSweepService_Run_ThresholdChangeTakesEffect(t *testing.T) {
	svc, accounts, queue := testSweepEnv(t, 0, nil)
	saveAccount(t, accounts, account.Account{UID: 2, Name: "stale", LastAccess: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)})

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() disabled: %v", err)
	}
	if queue.Len() != 0 {
		t.Fatal("Run() disabled should enqueue nothing")
	}

	// Settings updates apply on the next run without a restart.
	svc.settings.Update(Settings{AccessThresholdDays: 30})
	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() enabled: %v", err)
	}
	if queue.Len() != 1 {
		t.Errorf("Run() after enabling enqueued %d, want 1", queue.Len())
	}
}

func TestSweepService_Run_SkipsOwnerAndLocked(t *testing.T) {
	svc, accounts, queue := testSweepEnv(t, 30, nil)
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	locked, err := account.LockedCredential()
	if err != nil {
		t.Fatalf("LockedCredential(): %v", err)
	}
	saveAccount(t, accounts, account.Account{UID: 1, Name: "owner", LastAccess: old})
	saveAccount(t, accounts, account.Account{UID: 2, Name: "locked", Pass: locked, LastAccess: old})
	saveAccount(t, accounts, account.Account{UID: 3, Name: "stale", LastAccess: old})

	enqueued, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if enqueued != 1 {
		t.Errorf("Run() enqueued = %d, want 1 (owner and locked skipped)", enqueued)
	}
	item, _ := queue.Dequeue()
	if item == nil || item.UID != 3 {
		t.Errorf("Dequeue() = %v, want item for uid 3", item)
	}
}

func TestSweepService_Run_ExemptionsSkipMatches(t *testing.T) {
	svc, accounts, queue := testSweepEnv(t, 30, []string{`"keeper" in account.roles`})
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	saveAccount(t, accounts, account.Account{UID: 2, Name: "service-bot", Roles: []string{"keeper"}, LastAccess: old})
	saveAccount(t, accounts, account.Account{UID: 3, Name: "human", Roles: []string{"editor"}, LastAccess: old})

	enqueued, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if enqueued != 1 {
		t.Errorf("Run() enqueued = %d, want 1 (exempt role skipped)", enqueued)
	}
	item, _ := queue.Dequeue()
	if item == nil || item.UID != 3 {
		t.Errorf("Dequeue() = %v, want item for uid 3", item)
	}
}

// uidExempter exempts a single fixed account.
type uidExempter struct {
	uid int64
}

func (e uidExempter) IsExempt(a *account.Account) bool { return a.UID == e.uid }

func TestSweepService_Run_CustomExempter(t *testing.T) {
	accounts := memory.NewAccountStore()
	queue := memory.NewResetQueue()
	settings := NewSettingsStore(Settings{AccessThresholdDays: 30})
	svc := NewSweepService(accounts, queue, uidExempter{uid: 2}, settings, 0, testLogger(), nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) }

	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	saveAccount(t, accounts, account.Account{UID: 2, Name: "pinned", LastAccess: old})
	saveAccount(t, accounts, account.Account{UID: 3, Name: "stale", LastAccess: old})

	enqueued, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if enqueued != 1 {
		t.Errorf("Run() enqueued = %d, want 1 (exempter decision honored)", enqueued)
	}
	item, _ := queue.Dequeue()
	if item == nil || item.UID != 3 {
		t.Errorf("Dequeue() = %v, want item for uid 3", item)
	}
}

func TestSweepService_Run_BatchLimit(t *testing.T) {
	accounts := memory.NewAccountStore()
	queue := memory.NewResetQueue()
	settings := NewSettingsStore(Settings{AccessThresholdDays: 30})
	svc := NewSweepService(accounts, queue, nil, settings, 2, testLogger(), nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) }

	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for uid := int64(2); uid <= 6; uid++ {
		saveAccount(t, accounts, account.Account{UID: uid, LastAccess: old})
	}

	enqueued, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if enqueued != 2 {
		t.Errorf("Run() enqueued = %d, want batch limit of 2", enqueued)
	}
}

func TestSweepService_Run_DoesNotRequeuePending(t *testing.T) {
	svc, accounts, queue := testSweepEnv(t, 30, nil)
	saveAccount(t, accounts, account.Account{UID: 2, LastAccess: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)})

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() first: %v", err)
	}
	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() second: %v", err)
	}
	if queue.Len() != 1 {
		t.Errorf("queue length = %d, want 1 (pending account not re-queued)", queue.Len())
	}
}

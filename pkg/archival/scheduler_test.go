package archival

import (
	"context"
	"testing"
	"time"

	"rollcall-hq/rollcall/pkg/tenant"
)

func testCoordinator() *Coordinator {
	policy := NewPolicyResolver(tenant.NewMemoryStore())
	archiver := NewBatchArchiver(newCountingStore(), newMemWriter(), 400, nil)
	return NewCoordinator(tenant.NewMemoryStore(), policy, archiver, 0, nil)
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	scheduler := NewScheduler(testCoordinator(), "not a cron expression", nil)
	if err := scheduler.Start(context.Background()); err == nil {
		t.Fatal("expected an error for an invalid cron expression")
	}
	if scheduler.IsRunning() {
		t.Error("scheduler must not be running after a failed Start")
	}
}

func TestScheduler_DefaultSchedule(t *testing.T) {
	scheduler := NewScheduler(testCoordinator(), "", nil)
	if scheduler.schedule != DefaultSchedule {
		t.Errorf("empty schedule should fall back to %q, got %q", DefaultSchedule, scheduler.schedule)
	}
	if scheduler.location != time.UTC {
		t.Errorf("nil location should fall back to UTC, got %v", scheduler.location)
	}
}

func TestScheduler_Lifecycle(t *testing.T) {
	scheduler := NewScheduler(testCoordinator(), "0 2 * * *", time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !scheduler.IsRunning() {
		t.Error("scheduler should report running after Start")
	}
	if err := scheduler.Start(ctx); err == nil {
		t.Error("a second Start must fail while running")
	}

	scheduler.Stop()
	if scheduler.IsRunning() {
		t.Error("scheduler should report stopped after Stop")
	}
	// Stop is idempotent.
	scheduler.Stop()
}

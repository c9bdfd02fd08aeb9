package archival

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"rollcall-hq/rollcall/pkg/attendance"
	"rollcall-hq/rollcall/pkg/tenant"
)

// seedTenant creates a tenant with the given retention window. A window of
// zero leaves the config document out entirely when writeConfig is false.
func seedTenant(t *testing.T, store *tenant.MemoryStore, id string, retentionDays int, writeConfig bool) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	if err := store.PutTenant(ctx, &tenant.Tenant{
		ID:               id,
		OrganizationName: "org-" + id,
		CreatedAt:        now,
		UpdatedAt:        now,
	}); err != nil {
		t.Fatalf("PutTenant() failed: %v", err)
	}
	if writeConfig {
		if err := store.PutConfig(ctx, &tenant.Config{
			TenantID:          id,
			DataRetentionDays: retentionDays,
			ApprovalLevels:    1,
			Timezone:          "UTC",
		}); err != nil {
			t.Fatalf("PutConfig() failed: %v", err)
		}
	}
}

func outcomeFor(t *testing.T, outcomes []Outcome, tenantID string) Outcome {
	t.Helper()
	for _, outcome := range outcomes {
		if outcome.TenantID == tenantID {
			return outcome
		}
	}
	t.Fatalf("no outcome for tenant %s", tenantID)
	return Outcome{}
}

// TestCoordinator_Isolation tests the hard isolation requirement: a forced
// archive-write failure for tenant A must not prevent tenant B, run
// concurrently, from completing; A reports failure, B reports success.
func TestCoordinator_Isolation(t *testing.T) {
	directory := tenant.NewMemoryStore()
	seedTenant(t, directory, "tenant-a", 30, true)
	seedTenant(t, directory, "tenant-b", 30, true)

	records := newCountingStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedRecords(t, records.MemoryStore, "tenant-a", 20, base)
	seedRecords(t, records.MemoryStore, "tenant-b", 20, base)

	writer := newMemWriter()
	writer.failFor["tenant-a"] = true

	now := time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)
	policy := NewPolicyResolver(directory).WithClock(func() time.Time { return now })
	archiver := NewBatchArchiver(records, writer, 400, nil)
	coordinator := NewCoordinator(directory, policy, archiver, 0, nil)

	outcomes, err := coordinator.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}

	a := outcomeFor(t, outcomes, "tenant-a")
	if a.Status != OutcomeFailed {
		t.Errorf("tenant-a status = %q, want failed", a.Status)
	}
	var writeErr *WriteError
	if !errors.As(a.Err, &writeErr) {
		t.Errorf("tenant-a error should be a WriteError, got %T", a.Err)
	}

	b := outcomeFor(t, outcomes, "tenant-b")
	if b.Status != OutcomeArchived {
		t.Errorf("tenant-b status = %q, want archived", b.Status)
	}
	if b.Stats.Records != 20 {
		t.Errorf("tenant-b archived %d records, want 20", b.Stats.Records)
	}

	// A's records all stayed live; B's were drained.
	countA, _ := records.Count(context.Background(), "tenant-a")
	countB, _ := records.Count(context.Background(), "tenant-b")
	if countA != 20 {
		t.Errorf("tenant-a must keep all 20 records live, got %d", countA)
	}
	if countB != 0 {
		t.Errorf("tenant-b must be drained, got %d", countB)
	}
}

// TestCoordinator_ConfigSkip tests that a tenant with no retention window
// yields a skipped outcome with zero store queries, and that a missing
// config document behaves the same way.
func TestCoordinator_ConfigSkip(t *testing.T) {
	for _, tc := range []struct {
		name        string
		retention   int
		writeConfig bool
	}{
		{name: "retention zero", retention: 0, writeConfig: true},
		{name: "missing config", writeConfig: false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			directory := tenant.NewMemoryStore()
			seedTenant(t, directory, "t1", tc.retention, tc.writeConfig)

			records := newCountingStore()
			seedRecords(t, records.MemoryStore, "t1", 5, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

			policy := NewPolicyResolver(directory)
			archiver := NewBatchArchiver(records, newMemWriter(), 400, nil)
			coordinator := NewCoordinator(directory, policy, archiver, 0, nil)

			outcomes, err := coordinator.Run(context.Background())
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			outcome := outcomeFor(t, outcomes, "t1")
			if outcome.Status != OutcomeSkipped {
				t.Errorf("status = %q, want skipped", outcome.Status)
			}
			if outcome.Err != nil {
				t.Errorf("a configuration skip is not a failure: %v", outcome.Err)
			}

			queries, _ := records.counts()
			if queries != 0 {
				t.Errorf("a skipped tenant must not be queried, got %d queries", queries)
			}
		})
	}
}

// TestCoordinator_ListFailureIsFatal tests that failing to enumerate
// tenants aborts the whole run.
func TestCoordinator_ListFailureIsFatal(t *testing.T) {
	policy := NewPolicyResolver(tenant.NewMemoryStore())
	archiver := NewBatchArchiver(newCountingStore(), newMemWriter(), 400, nil)
	coordinator := NewCoordinator(failingLister{}, policy, archiver, 0, nil)

	if _, err := coordinator.Run(context.Background()); err == nil {
		t.Fatal("expected a fatal error when tenant listing fails")
	}
}

type failingLister struct{}

func (failingLister) ListTenants(ctx context.Context) ([]*tenant.Tenant, error) {
	return nil, errors.New("directory unavailable")
}

// TestCoordinator_ConcurrencyCap tests that a bounded run still settles
// every tenant.
func TestCoordinator_ConcurrencyCap(t *testing.T) {
	directory := tenant.NewMemoryStore()
	records := newCountingStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"t1", "t2", "t3", "t4", "t5"} {
		seedTenant(t, directory, id, 30, true)
		seedRecords(t, records.MemoryStore, id, 3, base)
	}

	now := time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)
	policy := NewPolicyResolver(directory).WithClock(func() time.Time { return now })
	archiver := NewBatchArchiver(records, newMemWriter(), 400, nil)
	coordinator := NewCoordinator(directory, policy, archiver, 2, nil)

	outcomes, err := coordinator.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(outcomes) != 5 {
		t.Fatalf("expected 5 outcomes, got %d", len(outcomes))
	}
	for _, outcome := range outcomes {
		if outcome.Status != OutcomeArchived {
			t.Errorf("tenant %s status = %q, want archived", outcome.TenantID, outcome.Status)
		}
	}
}

// TestCoordinator_RetentionScenario runs the concrete end-to-end scenario:
// tenant T1 with a 30 day window on 2024-03-01 archives the records from
// 2024-01-15 and 2024-01-20 into one two-line file and leaves the record
// from 2024-02-01 untouched.
func TestCoordinator_RetentionScenario(t *testing.T) {
	ctx := context.Background()
	directory := tenant.NewMemoryStore()
	seedTenant(t, directory, "T1", 30, true)

	records := newCountingStore()
	for _, record := range []*attendance.Record{
		{ID: "jan-15", TenantID: "T1", UserID: "u1",
			CheckInTime: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			Fields:      map[string]any{"device_info": map[string]any{"os": "ios"}}},
		{ID: "jan-20", TenantID: "T1", UserID: "u2",
			CheckInTime: time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)},
		{ID: "feb-01", TenantID: "T1", UserID: "u3",
			CheckInTime: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)},
	} {
		if err := records.Put(ctx, record); err != nil {
			t.Fatalf("Put() failed: %v", err)
		}
	}

	now := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	writer := newMemWriter()
	policy := NewPolicyResolver(directory).WithClock(func() time.Time { return now })
	archiver := NewBatchArchiver(records, writer, 400, nil).WithClock(func() time.Time { return now })
	coordinator := NewCoordinator(directory, policy, archiver, 0, nil)

	outcomes, err := coordinator.Run(ctx)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	outcome := outcomeFor(t, outcomes, "T1")
	if outcome.Status != OutcomeArchived {
		t.Fatalf("status = %q, want archived (err=%v)", outcome.Status, outcome.Err)
	}
	if outcome.Stats.Records != 2 {
		t.Errorf("archived %d records, want 2", outcome.Stats.Records)
	}

	files := writer.tenantFiles("T1")
	if len(files) != 1 {
		t.Fatalf("expected exactly one archive file, got %d", len(files))
	}
	lines := strings.Split(files[0], "\n")
	if len(lines) != 2 {
		t.Fatalf("archive file has %d lines, want 2", len(lines))
	}

	if _, err := records.Get(ctx, "T1", "feb-01"); err != nil {
		t.Errorf("the 2024-02-01 record must stay live: %v", err)
	}
	for _, id := range []string{"jan-15", "jan-20"} {
		if _, err := records.Get(ctx, "T1", id); !errors.Is(err, attendance.ErrNotFound) {
			t.Errorf("record %s must be purged, got err=%v", id, err)
		}
	}
}

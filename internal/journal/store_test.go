package journal_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"parbids/internal/journal"
)

func openStore(t *testing.T, dir string) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(dir, "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close journal: %v", err)
		}
	})
	return store
}

func TestStoreRecordsRunLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, t.TempDir())

	started := time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)
	if err := store.BeginRun(ctx, "run-1", started); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	if _, err := store.Append(ctx, journal.Record{
		RunID:      "run-1",
		Subject:    "Blackford",
		Session:    "01",
		ScanName:   "scan1",
		SourcePath: "/raw/scan1.PAR",
		OutputPath: "/bids/sub-Blackford/ses-01/anat/sub-Blackford_ses-01_T1w.nii.gz",
		Status:     journal.StatusSucceeded,
	}); err != nil {
		t.Fatalf("Append succeeded record: %v", err)
	}
	if _, err := store.Append(ctx, journal.Record{
		RunID:    "run-1",
		Subject:  "Blackford",
		Session:  "01",
		ScanName: "scan2",
		Status:   journal.StatusSkipped,
		Reason:   "unsupported geometry",
	}); err != nil {
		t.Fatalf("Append skipped record: %v", err)
	}

	finished := started.Add(2 * time.Minute)
	if err := store.FinishRun(ctx, "run-1", finished, 1, 1, 0); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	run := runs[0]
	if run.ID != "run-1" || run.Succeeded != 1 || run.Skipped != 1 || run.Failed != 0 {
		t.Fatalf("run = %+v", run)
	}
	if run.FinishedAt == nil || !run.FinishedAt.Equal(finished) {
		t.Fatalf("FinishedAt = %v, want %v", run.FinishedAt, finished)
	}

	records, err := store.RecordsForRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("RecordsForRun: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].ScanName != "scan1" || records[0].Status != journal.StatusSucceeded {
		t.Fatalf("first record = %+v", records[0])
	}
	if records[1].Reason != "unsupported geometry" {
		t.Fatalf("second record reason = %q", records[1].Reason)
	}
}

func TestStoreUnfinishedRunHasNoFinishTime(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, t.TempDir())

	if err := store.BeginRun(ctx, "run-open", time.Now().UTC()); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 1)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].FinishedAt != nil {
		t.Fatalf("FinishedAt = %v, want nil", runs[0].FinishedAt)
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.db")

	store, err := journal.Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	if err := store.BeginRun(ctx, "run-1", time.Now().UTC()); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := journal.Open(path)
	if err != nil {
		t.Fatalf("reopen journal: %v", err)
	}
	defer reopened.Close()

	runs, err := reopened.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run-1" {
		t.Fatalf("runs = %+v", runs)
	}
}

func TestStatusValid(t *testing.T) {
	for _, status := range []journal.Status{journal.StatusSucceeded, journal.StatusSkipped, journal.StatusFailed} {
		if !status.Valid() {
			t.Fatalf("%q should be valid", status)
		}
	}
	if journal.Status("exploded").Valid() {
		t.Fatal("unknown status should be invalid")
	}
}

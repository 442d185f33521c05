package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/wattwise/wattwise/internal/apperror"
)

func TestLedgerAward(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	entry, updated, err := db.Ledger().Award(ctx, user.ID, 150, "turned off the heater")
	if err != nil {
		t.Fatalf("Award() error = %v", err)
	}

	if entry.ID == "" {
		t.Error("Award() did not set entry.ID")
	}
	if entry.Points != 150 {
		t.Errorf("entry.Points = %d, want 150", entry.Points)
	}
	if entry.Reason != "turned off the heater" {
		t.Errorf("entry.Reason = %q", entry.Reason)
	}
	if entry.Timestamp.IsZero() {
		t.Error("Award() did not set entry.Timestamp")
	}

	// The returned user reflects the award.
	if updated.EnergyPoints != 150 {
		t.Errorf("updated.EnergyPoints = %d, want 150", updated.EnergyPoints)
	}
}

func TestLedgerAward_Accumulates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	awards := []int{100, 250, -50}
	for _, points := range awards {
		if _, _, err := db.Ledger().Award(ctx, user.ID, points, "adjustment"); err != nil {
			t.Fatalf("Award(%d) error = %v", points, err)
		}
	}

	got, err := db.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EnergyPoints != 300 {
		t.Errorf("EnergyPoints = %d, want 300", got.EnergyPoints)
	}

	history, err := db.Ledger().History(ctx, user.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("History() returned %d entries, want 3", len(history))
	}
	// Newest first: the -50 adjustment leads.
	if history[0].Points != -50 {
		t.Errorf("history[0].Points = %d, want -50", history[0].Points)
	}
}

func TestLedgerAward_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, _, err := db.Ledger().Award(ctx, "nonexistent", 100, "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Award(missing) error = %v, want ErrNotFound", err)
	}

	// The failed award must not leave an orphaned ledger entry.
	history, err := db.Ledger().History(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("History() returned %d entries for a failed award, want 0", len(history))
	}
}

// Concurrent awards must both land in the total. The increment happens
// inside the UPDATE statement, not as a read-modify-write round trip,
// so overlapping transactions cannot overwrite each other.
func TestLedgerAward_Concurrent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	const workers = 4
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := db.Ledger().Award(ctx, user.ID, 100, "concurrent")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Award() error = %v", err)
		}
	}

	got, err := db.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EnergyPoints != workers*100 {
		t.Errorf("EnergyPoints = %d, want %d", got.EnergyPoints, workers*100)
	}

	history, err := db.Ledger().History(ctx, user.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != workers {
		t.Errorf("History() returned %d entries, want %d", len(history), workers)
	}
}

func TestLedgerHistory_Empty(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	history, err := db.Ledger().History(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if history == nil {
		t.Error("History() returned nil, want empty slice")
	}
	if len(history) != 0 {
		t.Errorf("History() returned %d entries, want 0", len(history))
	}
}

package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/wattwise/wattwise/internal/apperror"
	"github.com/wattwise/wattwise/internal/model"
)

// newTestDB creates an in-memory SQLite database for testing.
//
// ":memory:" gives every test a fresh, isolated database that is
// destroyed when the connection closes — fast, no files, no cleanup.
//
// The `t.Helper()` call tells Go's test framework to report errors at
// the CALLER's line number, not inside this function.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x"}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Username: "alice", PasswordHash: "hash"}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Verify the user was modified in-place (pointer receiver)
	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.EnergyPoints != 0 {
		t.Errorf("new user EnergyPoints = %d, want 0", user.EnergyPoints)
	}
	if user.Level != 1 {
		t.Errorf("new user Level = %d, want 1", user.Level)
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice")

	duplicate := &model.User{Username: "alice", PasswordHash: "y"}
	err := db.Users().Create(context.Background(), duplicate)
	if err == nil {
		t.Fatal("Create() should have returned an error for duplicate username")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

func TestUserGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice")

	got, err := db.Users().GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("GetByID() Username = %q, want %q", got.Username, "alice")
	}

	_, err = db.Users().GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice")

	got, err := db.Users().GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByUsername() ID = %q, want %q", got.ID, created.ID)
	}

	_, err = db.Users().GetByUsername(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUsername(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByGitHubID(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Username: "octocat", GitHubID: 42}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := db.Users().GetByGitHubID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetByGitHubID() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("GetByGitHubID() ID = %q, want %q", got.ID, user.ID)
	}

	// GitHubID 0 means "local account" — it must never match anything,
	// even though every local account stores a zero there.
	createTestUser(t, db, "local")
	_, err = db.Users().GetByGitHubID(context.Background(), 0)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByGitHubID(0) error = %v, want ErrNotFound", err)
	}
}

func TestUserRaiseLevel(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	ctx := context.Background()

	if err := db.Users().RaiseLevel(ctx, user.ID, 3); err != nil {
		t.Fatalf("RaiseLevel() error = %v", err)
	}
	got, err := db.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Level != 3 {
		t.Errorf("Level = %d, want 3", got.Level)
	}

	// The level is monotonic: a lower target is a silent no-op, not a
	// downgrade.
	if err := db.Users().RaiseLevel(ctx, user.ID, 2); err != nil {
		t.Fatalf("RaiseLevel(lower) error = %v", err)
	}
	got, _ = db.Users().GetByID(ctx, user.ID)
	if got.Level != 3 {
		t.Errorf("Level after lower raise = %d, want 3", got.Level)
	}
}

func TestUserTopByPoints(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// alice and carol tie at 200; alice was created first, so her
	// smaller xid wins the tiebreak.
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	for _, award := range []struct {
		id     string
		points int
	}{
		{alice.ID, 200}, {bob.ID, 50}, {carol.ID, 200},
	} {
		if _, _, err := db.Ledger().Award(ctx, award.id, award.points, "setup"); err != nil {
			t.Fatalf("Award() error = %v", err)
		}
	}

	top, err := db.Users().TopByPoints(ctx, 10)
	if err != nil {
		t.Fatalf("TopByPoints() error = %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("TopByPoints() returned %d users, want 3", len(top))
	}
	want := []string{"alice", "carol", "bob"}
	for i, username := range want {
		if top[i].Username != username {
			t.Errorf("top[%d] = %q, want %q", i, top[i].Username, username)
		}
	}

	limited, err := db.Users().TopByPoints(ctx, 2)
	if err != nil {
		t.Fatalf("TopByPoints(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("TopByPoints(2) returned %d users, want 2", len(limited))
	}
}

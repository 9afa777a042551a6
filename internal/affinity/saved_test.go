package affinity

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func testTracker(t *testing.T) *Tracker {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewTracker(rdb)
}

func TestToggleSaved(t *testing.T) {
	tracker := testTracker(t)
	ctx := context.Background()
	userID := uuid.New()
	listingID := uuid.New()

	saved, err := tracker.ToggleSaved(ctx, userID, listingID)
	if err != nil {
		t.Fatalf("first toggle error: %v", err)
	}
	if !saved {
		t.Error("first toggle should save")
	}
	if !tracker.IsSaved(ctx, userID, listingID) {
		t.Error("listing should read as saved")
	}

	saved, err = tracker.ToggleSaved(ctx, userID, listingID)
	if err != nil {
		t.Fatalf("second toggle error: %v", err)
	}
	if saved {
		t.Error("second toggle should unsave")
	}
	if tracker.IsSaved(ctx, userID, listingID) {
		t.Error("listing should read as not saved after double toggle")
	}
}

func TestSavedSetsArePerUser(t *testing.T) {
	tracker := testTracker(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	listingID := uuid.New()

	if _, err := tracker.ToggleSaved(ctx, alice, listingID); err != nil {
		t.Fatalf("toggle error: %v", err)
	}

	if tracker.IsSaved(ctx, bob, listingID) {
		t.Error("one user's save must not leak into another's set")
	}
}

func TestSavedIDs(t *testing.T) {
	tracker := testTracker(t)
	ctx := context.Background()
	userID := uuid.New()

	first := uuid.New()
	second := uuid.New()
	tracker.ToggleSaved(ctx, userID, first)
	tracker.ToggleSaved(ctx, userID, second)

	ids := tracker.SavedIDs(ctx, userID)
	if len(ids) != 2 {
		t.Fatalf("SavedIDs returned %d ids, want 2", len(ids))
	}

	set := tracker.SavedSet(ctx, userID)
	if !set[first] || !set[second] {
		t.Errorf("SavedSet missing entries: %v", set)
	}
}

// Reads must degrade to neutral results and toggles must report the store
// unavailable, never an internal failure, when redis is gone.
func TestTrackerUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	tracker := NewTracker(rdb)
	mr.Close()

	ctx := context.Background()
	userID := uuid.New()
	listingID := uuid.New()

	if _, err := tracker.ToggleSaved(ctx, userID, listingID); err != ErrUnavailable {
		t.Errorf("toggle error = %v, want ErrUnavailable", err)
	}
	if tracker.IsSaved(ctx, userID, listingID) {
		t.Error("unreachable store should read as not saved")
	}
	if ids := tracker.SavedIDs(ctx, userID); len(ids) != 0 {
		t.Errorf("unreachable store returned ids: %v", ids)
	}
}

func TestNilTracker(t *testing.T) {
	tracker := NewTracker(nil)
	ctx := context.Background()

	if _, err := tracker.ToggleSaved(ctx, uuid.New(), uuid.New()); err != ErrUnavailable {
		t.Errorf("nil client toggle error = %v, want ErrUnavailable", err)
	}
	if tracker.IsSaved(ctx, uuid.New(), uuid.New()) {
		t.Error("nil client should read as not saved")
	}
}

package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"careconnect/internal/db"
	"careconnect/internal/models"
	"careconnect/internal/testutil"
)

func TestPromotionApprovalAttachesSchedule(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	reviewerID := testutil.CreateTestUser(t, database, "coord-p1", "coordp1@example.com", models.RoleCoordinator)
	submitterID := testutil.CreateTestUser(t, database, "parent-p1", "parentp1@example.com", models.RoleParent)
	listing := testutil.CreateTestListing(t, database, submitterID, "Promo Host")
	promotion := testutil.CreateTestPromotion(t, database, listing.ID, "Spring Workshop")

	if promotion.ModerationState != models.PromotionPending {
		t.Fatalf("new promotion state = %s, want pending", promotion.ModerationState)
	}

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	if err := database.ApprovePromotion(ctx, promotion.ID, reviewerID, models.PromotionPending, start, end, 2); err != nil {
		t.Fatalf("approve: %v", err)
	}

	got, err := database.GetPromotionByID(ctx, promotion.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ModerationState != models.PromotionApproved {
		t.Errorf("state = %s, want approved", got.ModerationState)
	}
	if got.StartDate == nil || got.EndDate == nil || got.Sequence == nil {
		t.Fatal("approval did not attach the schedule")
	}
	if !got.StartDate.Equal(start) || !got.EndDate.Equal(end) || *got.Sequence != 2 {
		t.Errorf("schedule = (%v, %v, %d), want (%v, %v, 2)", got.StartDate, got.EndDate, *got.Sequence, start, end)
	}
	if got.ReviewedBy == nil || *got.ReviewedBy != reviewerID {
		t.Errorf("reviewed_by = %v, want %v", got.ReviewedBy, reviewerID)
	}
}

func TestPromotionRejectionClearsSchedule(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	reviewerID := testutil.CreateTestUser(t, database, "coord-p2", "coordp2@example.com", models.RoleCoordinator)
	submitterID := testutil.CreateTestUser(t, database, "parent-p2", "parentp2@example.com", models.RoleParent)
	listing := testutil.CreateTestListing(t, database, submitterID, "Promo Host 2")
	promotion := testutil.CreateTestPromotion(t, database, listing.ID, "Autumn Series")

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	if err := database.ApprovePromotion(ctx, promotion.ID, reviewerID, models.PromotionPending, start, end, 1); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if err := database.RejectPromotion(ctx, promotion.ID, reviewerID, "content out of date", models.PromotionApproved); err != nil {
		t.Fatalf("reject: %v", err)
	}

	got, _ := database.GetPromotionByID(ctx, promotion.ID)
	if got.ModerationState != models.PromotionRejected {
		t.Errorf("state = %s, want rejected", got.ModerationState)
	}
	if got.StartDate != nil || got.EndDate != nil || got.Sequence != nil {
		t.Error("rejection should clear the schedule")
	}
	if got.RejectionReason == nil || *got.RejectionReason != "content out of date" {
		t.Errorf("rejection_reason = %v", got.RejectionReason)
	}
}

func TestUpdatePromotionSchedule(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	reviewerID := testutil.CreateTestUser(t, database, "coord-p3", "coordp3@example.com", models.RoleCoordinator)
	submitterID := testutil.CreateTestUser(t, database, "parent-p3", "parentp3@example.com", models.RoleParent)
	listing := testutil.CreateTestListing(t, database, submitterID, "Promo Host 3")
	promotion := testutil.CreateTestPromotion(t, database, listing.ID, "Winter Camp")

	// Schedule edits only apply to approved promotions.
	seq := 1
	end := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)
	err := database.UpdatePromotionSchedule(ctx, promotion.ID, nil, &end, &seq)
	if !errors.Is(err, db.ErrStateConflict) {
		t.Fatalf("edit on pending error = %v, want ErrStateConflict", err)
	}

	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	if err := database.ApprovePromotion(ctx, promotion.ID, reviewerID, models.PromotionPending, start, end, 1); err != nil {
		t.Fatalf("approve: %v", err)
	}

	newEnd := time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC)
	newSeq := 4
	if err := database.UpdatePromotionSchedule(ctx, promotion.ID, &start, &newEnd, &newSeq); err != nil {
		t.Fatalf("edit: %v", err)
	}

	got, _ := database.GetPromotionByID(ctx, promotion.ID)
	if got.ModerationState != models.PromotionApproved {
		t.Errorf("edit changed state to %s", got.ModerationState)
	}
	if got.EndDate == nil || !got.EndDate.Equal(newEnd) {
		t.Errorf("end_date = %v, want %v", got.EndDate, newEnd)
	}
	if got.Sequence == nil || *got.Sequence != 4 {
		t.Errorf("sequence = %v, want 4", got.Sequence)
	}
}

func TestListPromotionsByListing(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	submitterID := testutil.CreateTestUser(t, database, "parent-p4", "parentp4@example.com", models.RoleParent)
	listing := testutil.CreateTestListing(t, database, submitterID, "Promo Host 4")
	other := testutil.CreateTestListing(t, database, submitterID, "Other Host")

	testutil.CreateTestPromotion(t, database, listing.ID, "First")
	testutil.CreateTestPromotion(t, database, listing.ID, "Second")
	testutil.CreateTestPromotion(t, database, other.ID, "Elsewhere")

	promotions, err := database.ListPromotionsByListing(ctx, listing.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(promotions) != 2 {
		t.Errorf("listed %d promotions, want 2", len(promotions))
	}
	for _, p := range promotions {
		if p.ListingID != listing.ID {
			t.Errorf("promotion %s belongs to %s", p.ID, p.ListingID)
		}
	}
}

func TestPromotionNotFound(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	submitterID := testutil.CreateTestUser(t, database, "parent-p5", "parentp5@example.com", models.RoleParent)
	listing := testutil.CreateTestListing(t, database, submitterID, "Promo Host 5")
	promotion := testutil.CreateTestPromotion(t, database, listing.ID, "Ghost Promo")

	missing := promotion.ID
	missing[0] ^= 0xff

	if _, err := database.GetPromotionByID(ctx, missing); !errors.Is(err, db.ErrPromotionNotFound) {
		t.Errorf("get missing error = %v, want ErrPromotionNotFound", err)
	}
	if err := database.RejectPromotion(ctx, missing, submitterID, "r", models.PromotionPending); !errors.Is(err, db.ErrPromotionNotFound) {
		t.Errorf("reject missing error = %v, want ErrPromotionNotFound", err)
	}
}

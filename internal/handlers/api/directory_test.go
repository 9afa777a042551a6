package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"careconnect/internal/affinity"
	"careconnect/internal/db"
	"careconnect/internal/jobs"
	"careconnect/internal/models"
	"careconnect/internal/testutil"
)

func directoryTestApp(database *db.DB) *fiber.App {
	h := NewDirectoryHandler(database, affinity.NewTracker(nil), jobs.NewBannerCache(nil), 20)
	app := fiber.New()
	app.Get("/api/directory", h.List)
	return app
}

type directoryListResponse struct {
	Status string `json:"status"`
	Data   struct {
		Items []directoryItem `json:"items"`
		Total int             `json:"total"`
	} `json:"data"`
}

func TestDirectoryList_SavedFilterAnonymous(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	coordinator := testutil.CreateTestUser(t, database, "oidc|coordinator-1", "coordinator@example.com", models.RoleCoordinator)
	submitter := testutil.CreateTestUser(t, database, "oidc|parent-1", "parent@example.com", models.RoleParent)
	listing := testutil.CreateTestListing(t, database, submitter, "Harbor Speech Pathology")
	if err := database.ApproveListing(ctx, listing.ID, coordinator, models.StatePending); err != nil {
		t.Fatalf("failed to approve listing: %v", err)
	}

	app := directoryTestApp(database)

	// With no signed-in viewer the saved toggle restricts to an empty
	// result; browsing must not be interrupted with an error.
	resp, err := app.Test(httptest.NewRequest("GET", "/api/directory?saved=true", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected status 200 for anonymous saved filter, got %d", resp.StatusCode)
	}
	var savedOnly directoryListResponse
	if err := json.NewDecoder(resp.Body).Decode(&savedOnly); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if savedOnly.Status != "ok" {
		t.Errorf("expected status ok, got %q", savedOnly.Status)
	}
	if savedOnly.Data.Total != 0 || len(savedOnly.Data.Items) != 0 {
		t.Errorf("expected empty result for anonymous saved filter, got total=%d items=%d",
			savedOnly.Data.Total, len(savedOnly.Data.Items))
	}

	// The same anonymous viewer still sees the directory without the
	// toggle.
	resp, err = app.Test(httptest.NewRequest("GET", "/api/directory", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	var unfiltered directoryListResponse
	if err := json.NewDecoder(resp.Body).Decode(&unfiltered); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if unfiltered.Data.Total != 1 {
		t.Errorf("expected 1 approved listing, got %d", unfiltered.Data.Total)
	}
}

// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"careconnect/internal/db"
	"careconnect/internal/models"
)

// TestDB creates a test database connection and returns a cleanup function.
// Tests that need a database are skipped unless TEST_DATABASE_URL is set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	// Delete in order to respect foreign keys
	pool.Exec(ctx, "DELETE FROM promotions")
	pool.Exec(ctx, "DELETE FROM listings")
	pool.Exec(ctx, "DELETE FROM users")
}

// CreateTestUser creates a test user and returns its ID.
func CreateTestUser(t *testing.T, database *db.DB, sub, email, role string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var id uuid.UUID
	err := database.Pool.QueryRow(ctx, `
		INSERT INTO users (sub, email, name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sub) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, sub, email, fmt.Sprintf("Test User %s", sub), role).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return id
}

// CreateTestListing creates a pending listing submitted by the given user
// and returns it.
func CreateTestListing(t *testing.T, database *db.DB, submittedBy uuid.UUID, name string) *models.Listing {
	t.Helper()
	ctx := context.Background()

	listing := &models.Listing{
		SubmittedBy:     &submittedBy,
		Name:            name,
		Email:           fmt.Sprintf("%s@example.com", name),
		City:            "Springfield",
		State:           "IL",
		Specializations: []string{"speech therapy"},
		Stages:          []string{"toddler"},
		Languages:       []string{"english"},
	}
	if err := database.CreateListing(ctx, listing); err != nil {
		t.Fatalf("failed to create test listing: %v", err)
	}

	return listing
}

// CreateTestPromotion creates a pending promotion for the listing and
// returns it.
func CreateTestPromotion(t *testing.T, database *db.DB, listingID uuid.UUID, title string) *models.Promotion {
	t.Helper()
	ctx := context.Background()

	promotion := &models.Promotion{
		ListingID: listingID,
		Title:     title,
	}
	if err := database.CreatePromotion(ctx, promotion); err != nil {
		t.Fatalf("failed to create test promotion: %v", err)
	}

	return promotion
}

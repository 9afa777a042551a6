package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"careconnect/internal/models"
)

// listingColumns is the standard column list for listing queries.
const listingColumns = `id, submitted_by, name, email, phone, qualifications, bio,
	lifecycle_state, approved_by, approved_at, rejection_reason,
	specializations, stages, languages, availability, services,
	address_line, city, state, postcode, country, created_at, updated_at`

// scanListing scans a row into a Listing struct.
func scanListing(row pgx.Row) (*models.Listing, error) {
	var l models.Listing
	err := row.Scan(
		&l.ID,
		&l.SubmittedBy,
		&l.Name,
		&l.Email,
		&l.Phone,
		&l.Qualifications,
		&l.Bio,
		&l.LifecycleState,
		&l.ApprovedBy,
		&l.ApprovedAt,
		&l.RejectionReason,
		&l.Specializations,
		&l.Stages,
		&l.Languages,
		&l.Availability,
		&l.Services,
		&l.AddressLine,
		&l.City,
		&l.State,
		&l.Postcode,
		&l.Country,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// scanListings scans multiple rows into a slice of Listings.
func scanListings(rows pgx.Rows) ([]models.Listing, error) {
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(
			&l.ID,
			&l.SubmittedBy,
			&l.Name,
			&l.Email,
			&l.Phone,
			&l.Qualifications,
			&l.Bio,
			&l.LifecycleState,
			&l.ApprovedBy,
			&l.ApprovedAt,
			&l.RejectionReason,
			&l.Specializations,
			&l.Stages,
			&l.Languages,
			&l.Availability,
			&l.Services,
			&l.AddressLine,
			&l.City,
			&l.State,
			&l.Postcode,
			&l.Country,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

// CreateListing inserts a new listing in the pending state for coordinator
// review.
func (d *DB) CreateListing(ctx context.Context, l *models.Listing) error {
	query := `
		INSERT INTO listings (submitted_by, name, email, phone, qualifications, bio,
			lifecycle_state, specializations, stages, languages, availability, services,
			address_line, city, state, postcode, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`

	err := d.Pool.QueryRow(ctx, query,
		l.SubmittedBy,
		l.Name,
		l.Email,
		l.Phone,
		l.Qualifications,
		l.Bio,
		models.StatePending,
		l.Specializations,
		l.Stages,
		l.Languages,
		l.Availability,
		l.Services,
		l.AddressLine,
		l.City,
		l.State,
		l.Postcode,
		l.Country,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return err
	}

	l.LifecycleState = models.StatePending
	return nil
}

// GetListingByID retrieves a listing by its ID.
func (d *DB) GetListingByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	return scanListing(d.Pool.QueryRow(ctx, query, id))
}

// ListApprovedListings retrieves the listings eligible for the public
// directory view.
func (d *DB) ListApprovedListings(ctx context.Context) ([]models.Listing, error) {
	return d.ListListingsByState(ctx, models.StateApproved)
}

// ListListingsByState retrieves all listings in the given lifecycle state,
// oldest first.
func (d *DB) ListListingsByState(ctx context.Context, state string) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE lifecycle_state = $1 ORDER BY created_at ASC`
	rows, err := d.Pool.Query(ctx, query, state)
	if err != nil {
		return nil, err
	}
	return scanListings(rows)
}

// ListListingsBySubmitter retrieves the listings a user has submitted,
// newest first, for the account's own view.
func (d *DB) ListListingsBySubmitter(ctx context.Context, userID uuid.UUID) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE submitted_by = $1 ORDER BY created_at DESC`
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanListings(rows)
}

// ListAllListings retrieves every listing regardless of state, for
// coordinator-facing views.
func (d *DB) ListAllListings(ctx context.Context) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at ASC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanListings(rows)
}

// ApproveListing moves a listing into the approved state, recording the
// approver and clearing any previous rejection reason. The update is
// conditional on the expected current state; a concurrent moderation action
// surfaces as ErrStateConflict.
func (d *DB) ApproveListing(ctx context.Context, id, reviewerID uuid.UUID, fromState string) error {
	now := time.Now()
	query := `
		UPDATE listings
		SET lifecycle_state = $1, approved_by = $2, approved_at = $3, rejection_reason = NULL, updated_at = NOW()
		WHERE id = $4 AND lifecycle_state = $5
	`
	result, err := d.Pool.Exec(ctx, query, models.StateApproved, reviewerID, now, id, fromState)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return d.listingUpdateMiss(ctx, id)
	}
	return nil
}

// RejectListing moves a listing into the rejected state with the given
// reason.
func (d *DB) RejectListing(ctx context.Context, id uuid.UUID, reason, fromState string) error {
	query := `
		UPDATE listings
		SET lifecycle_state = $1, rejection_reason = $2, updated_at = NOW()
		WHERE id = $3 AND lifecycle_state = $4
	`
	result, err := d.Pool.Exec(ctx, query, models.StateRejected, reason, id, fromState)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return d.listingUpdateMiss(ctx, id)
	}
	return nil
}

// SetListingState moves a listing between states with no metadata changes,
// used for archive and unarchive.
func (d *DB) SetListingState(ctx context.Context, id uuid.UUID, fromState, toState string) error {
	query := `
		UPDATE listings
		SET lifecycle_state = $1, updated_at = NOW()
		WHERE id = $2 AND lifecycle_state = $3
	`
	result, err := d.Pool.Exec(ctx, query, toState, id, fromState)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return d.listingUpdateMiss(ctx, id)
	}
	return nil
}

// ResubmitListing resets a rejected or approved listing back to pending for
// re-review. A listing already pending cannot be resubmitted.
func (d *DB) ResubmitListing(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE listings
		SET lifecycle_state = $1, updated_at = NOW()
		WHERE id = $2 AND lifecycle_state IN ($3, $4)
	`
	result, err := d.Pool.Exec(ctx, query, models.StatePending, id, models.StateRejected, models.StateApproved)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return d.listingUpdateMiss(ctx, id)
	}
	return nil
}

// CountListingsByState returns the number of listings per lifecycle state,
// for the metrics collector.
func (d *DB) CountListingsByState(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT lifecycle_state, COUNT(*) FROM listings GROUP BY lifecycle_state`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var state string
		var count int64
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		counts[state] = count
	}
	return counts, rows.Err()
}

// listingUpdateMiss distinguishes a missing listing from one whose state
// moved underneath a conditional update.
func (d *DB) listingUpdateMiss(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := d.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM listings WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrListingNotFound
	}
	return ErrStateConflict
}

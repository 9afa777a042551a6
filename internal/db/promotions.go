package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"careconnect/internal/models"
)

// promotionColumns is the standard column list for promotion queries.
const promotionColumns = `id, listing_id, title, description, media_url, content_type,
	moderation_state, rejection_reason, start_date, end_date, sequence,
	reviewed_by, reviewed_at, created_at, updated_at`

// scanPromotion scans a row into a Promotion struct.
func scanPromotion(row pgx.Row) (*models.Promotion, error) {
	var p models.Promotion
	err := row.Scan(
		&p.ID,
		&p.ListingID,
		&p.Title,
		&p.Description,
		&p.MediaURL,
		&p.ContentType,
		&p.ModerationState,
		&p.RejectionReason,
		&p.StartDate,
		&p.EndDate,
		&p.Sequence,
		&p.ReviewedBy,
		&p.ReviewedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPromotionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// scanPromotions scans multiple rows into a slice of Promotions.
func scanPromotions(rows pgx.Rows) ([]models.Promotion, error) {
	defer rows.Close()

	var promotions []models.Promotion
	for rows.Next() {
		var p models.Promotion
		if err := rows.Scan(
			&p.ID,
			&p.ListingID,
			&p.Title,
			&p.Description,
			&p.MediaURL,
			&p.ContentType,
			&p.ModerationState,
			&p.RejectionReason,
			&p.StartDate,
			&p.EndDate,
			&p.Sequence,
			&p.ReviewedBy,
			&p.ReviewedAt,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		promotions = append(promotions, p)
	}

	return promotions, rows.Err()
}

// CreatePromotion inserts a new promotion in the pending state, bound to its
// listing. Schedule columns stay empty until approval.
func (d *DB) CreatePromotion(ctx context.Context, p *models.Promotion) error {
	query := `
		INSERT INTO promotions (listing_id, title, description, media_url, content_type, moderation_state)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	contentType := p.ContentType
	if contentType == "" {
		contentType = models.ContentBanner
	}

	err := d.Pool.QueryRow(ctx, query,
		p.ListingID,
		p.Title,
		p.Description,
		p.MediaURL,
		contentType,
		models.PromotionPending,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}

	p.ContentType = contentType
	p.ModerationState = models.PromotionPending
	return nil
}

// GetPromotionByID retrieves a promotion by its ID.
func (d *DB) GetPromotionByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE id = $1`
	return scanPromotion(d.Pool.QueryRow(ctx, query, id))
}

// ListApprovedPromotions retrieves all approved promotions; display ordering
// is applied in memory by the scheduler.
func (d *DB) ListApprovedPromotions(ctx context.Context) ([]models.Promotion, error) {
	return d.ListPromotionsByState(ctx, models.PromotionApproved)
}

// ListPromotionsByState retrieves all promotions in the given moderation
// state, oldest first.
func (d *DB) ListPromotionsByState(ctx context.Context, state string) ([]models.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE moderation_state = $1 ORDER BY created_at ASC`
	rows, err := d.Pool.Query(ctx, query, state)
	if err != nil {
		return nil, err
	}
	return scanPromotions(rows)
}

// ListPromotionsByListing retrieves a listing's promotions, newest first.
func (d *DB) ListPromotionsByListing(ctx context.Context, listingID uuid.UUID) ([]models.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE listing_id = $1 ORDER BY created_at DESC`
	rows, err := d.Pool.Query(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	return scanPromotions(rows)
}

// ApprovePromotion moves a promotion into the approved state, atomically
// attaching its complete schedule and clearing any previous rejection
// reason. Conditional on the expected current state.
func (d *DB) ApprovePromotion(ctx context.Context, id, reviewerID uuid.UUID, fromState string, start, end time.Time, sequence int) error {
	now := time.Now()
	query := `
		UPDATE promotions
		SET moderation_state = $1, start_date = $2, end_date = $3, sequence = $4,
			rejection_reason = NULL, reviewed_by = $5, reviewed_at = $6, updated_at = NOW()
		WHERE id = $7 AND moderation_state = $8
	`
	result, err := d.Pool.Exec(ctx, query,
		models.PromotionApproved, start, end, sequence, reviewerID, now, id, fromState)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return d.promotionUpdateMiss(ctx, id)
	}
	return nil
}

// RejectPromotion moves a promotion into the rejected state with the given
// reason and drops its schedule; a rejected promotion has no display window.
func (d *DB) RejectPromotion(ctx context.Context, id, reviewerID uuid.UUID, reason, fromState string) error {
	now := time.Now()
	query := `
		UPDATE promotions
		SET moderation_state = $1, rejection_reason = $2, start_date = NULL, end_date = NULL, sequence = NULL,
			reviewed_by = $3, reviewed_at = $4, updated_at = NOW()
		WHERE id = $5 AND moderation_state = $6
	`
	result, err := d.Pool.Exec(ctx, query, models.PromotionRejected, reason, reviewerID, now, id, fromState)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return d.promotionUpdateMiss(ctx, id)
	}
	return nil
}

// UpdatePromotionSchedule overwrites an approved promotion's schedule with
// the merged result of a partial edit. Either date may become NULL, leaving
// the promotion without a display window until the schedule is completed.
func (d *DB) UpdatePromotionSchedule(ctx context.Context, id uuid.UUID, start, end *time.Time, sequence *int) error {
	query := `
		UPDATE promotions
		SET start_date = $1, end_date = $2, sequence = $3, updated_at = NOW()
		WHERE id = $4 AND moderation_state = $5
	`
	result, err := d.Pool.Exec(ctx, query, start, end, sequence, id, models.PromotionApproved)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return d.promotionUpdateMiss(ctx, id)
	}
	return nil
}

// promotionUpdateMiss distinguishes a missing promotion from one whose state
// moved underneath a conditional update.
func (d *DB) promotionUpdateMiss(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := d.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM promotions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrPromotionNotFound
	}
	return ErrStateConflict
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Moderation states for a promotion. Expiry is never a stored state; it is
// derived from the schedule at read time.
const (
	PromotionPending  = "pending"
	PromotionApproved = "approved"
	PromotionRejected = "rejected"
)

// Display statuses derived from a promotion's schedule and the clock.
const (
	DisplayNoSchedule = "no_schedule"
	DisplayUpcoming   = "upcoming"
	DisplayActive     = "active"
	DisplayExpired    = "expired"
)

// Content types for promotional material.
const (
	ContentBanner   = "banner"
	ContentEvent    = "event"
	ContentCampaign = "campaign"
)

// Promotion is a moderated, schedule-bound piece of promotional content tied
// to a listing. The schedule fields are only populated once approved; lower
// sequence means higher display priority.
type Promotion struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listing_id"`

	Title       string `json:"title"`
	Description string `json:"description"`
	MediaURL    string `json:"media_url"`
	ContentType string `json:"content_type"`

	ModerationState string  `json:"moderation_state"`
	RejectionReason *string `json:"rejection_reason"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Sequence  *int       `json:"sequence"`

	ReviewedBy *uuid.UUID `json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScheduleInput is the (possibly partial) schedule supplied with a promotion
// approval or schedule edit. Nil fields were not supplied by the caller; the
// clear flags mark a date explicitly supplied as empty, which a partial edit
// uses to remove one end of the window.
type ScheduleInput struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Sequence  *int       `json:"sequence"`

	ClearStartDate bool `json:"-"`
	ClearEndDate   bool `json:"-"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Lifecycle states for a specialist listing. A listing is never physically
// deleted; removal is modeled as the archived state.
const (
	StatePending  = "pending"
	StateApproved = "approved"
	StateRejected = "rejected"
	StateArchived = "archived"
)

// ListingService is one service offered by a specialist, matched by the
// directory filter with any-of semantics across a listing's services.
type ListingService struct {
	Category   string `json:"category"`
	Type       string `json:"type"`
	PriceRange string `json:"price_range"`
}

// Listing represents a specialist's directory entry and moderation subject.
// Facet fields hold the normalized multi-valued form; normalization of raw
// submissions happens at the API boundary, never here.
type Listing struct {
	ID             uuid.UUID  `json:"id"`
	SubmittedBy    *uuid.UUID `json:"submitted_by"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Qualifications string     `json:"qualifications"`
	Bio            string     `json:"bio"`

	LifecycleState  string     `json:"lifecycle_state"`
	ApprovedBy      *uuid.UUID `json:"approved_by"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectionReason *string    `json:"rejection_reason"`

	Specializations []string         `json:"specializations"`
	Stages          []string         `json:"stages"`
	Languages       []string         `json:"languages"`
	Availability    []string         `json:"availability"`
	Services        []ListingService `json:"services"`

	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPubliclyVisible returns true if the listing is eligible for the public
// directory view.
func (l *Listing) IsPubliclyVisible() bool {
	return l.LifecycleState == StateApproved
}

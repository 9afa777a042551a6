package api

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"careconnect/internal/db"
	"careconnect/internal/email"
	"careconnect/internal/models"
	"careconnect/internal/validation"
)

// ListingsHandler handles specialist listing submission and self-service
// views.
type ListingsHandler struct {
	db       *db.DB
	notifier *email.Notifier
}

// NewListingsHandler creates a new listings handler.
func NewListingsHandler(database *db.DB, notifier *email.Notifier) *ListingsHandler {
	return &ListingsHandler{db: database, notifier: notifier}
}

// listingBody is the submission payload. Facet fields accept either a JSON
// array or a delimited string; both normalize to the canonical multi-valued
// form.
type listingBody struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Qualifications string `json:"qualifications"`
	Bio            string `json:"bio"`

	Specializations any `json:"specializations"`
	Stages          any `json:"stages"`
	Languages       any `json:"languages"`
	Availability    any `json:"availability"`

	Services []models.ListingService `json:"services"`

	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
}

func (b *listingBody) validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return models.NewValidationError("name", "name is required")
	}
	if strings.TrimSpace(b.Email) == "" {
		return models.NewValidationError("email", "contact email is required")
	}
	return nil
}

// Submit creates a new listing in the pending state and notifies the
// coordinators.
func (h *ListingsHandler) Submit(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "sign in to submit a listing")
	}

	var body listingBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := body.validate(); err != nil {
		return jsonDomainError(c, err)
	}

	listing := &models.Listing{
		SubmittedBy:    &user.ID,
		Name:           strings.TrimSpace(body.Name),
		Email:          strings.TrimSpace(body.Email),
		Phone:          strings.TrimSpace(body.Phone),
		Qualifications: body.Qualifications,
		Bio:            body.Bio,

		Specializations: validation.NormalizeFacet(body.Specializations),
		Stages:          validation.NormalizeFacet(body.Stages),
		Languages:       validation.NormalizeFacet(body.Languages),
		Availability:    validation.NormalizeFacet(body.Availability),
		Services:        body.Services,

		AddressLine: body.AddressLine,
		City:        strings.TrimSpace(body.City),
		State:       strings.TrimSpace(body.State),
		Postcode:    body.Postcode,
		Country:     body.Country,
	}

	if err := h.db.CreateListing(c.Context(), listing); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create listing")
	}

	h.notifier.NotifyListingSubmitted(c.Context(), listing)
	return jsonCreated(c, listing)
}

// Get returns a single listing. Non-approved listings are visible only to
// their submitter and to coordinators.
func (h *ListingsHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid listing id")
	}

	listing, err := h.db.GetListingByID(c.Context(), id)
	if err != nil {
		return jsonDomainError(c, err)
	}

	if !listing.IsPubliclyVisible() && !canViewListing(currentUser(c), listing) {
		return jsonError(c, fiber.StatusNotFound, "listing not found")
	}

	return jsonSuccess(c, listing)
}

// Mine returns the authenticated user's own submissions, regardless of
// state.
func (h *ListingsHandler) Mine(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	listings, err := h.db.ListListingsBySubmitter(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch listings")
	}

	return jsonSuccess(c, listings)
}

// Resubmit returns a rejected or approved listing to the pending queue, for
// corrections after rejection or edits that need re-review.
func (h *ListingsHandler) Resubmit(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid listing id")
	}

	listing, err := h.db.GetListingByID(c.Context(), id)
	if err != nil {
		return jsonDomainError(c, err)
	}
	if !canViewListing(user, listing) {
		return jsonError(c, fiber.StatusForbidden, "not your listing")
	}
	switch listing.LifecycleState {
	case models.StatePending:
		return jsonDomainError(c, models.NewValidationError("lifecycle_state", "listing is already pending review"))
	case models.StateArchived:
		return jsonDomainError(c, models.NewValidationError("lifecycle_state", "an archived listing cannot be resubmitted"))
	}

	if err := h.db.ResubmitListing(c.Context(), id); err != nil {
		return jsonDomainError(c, err)
	}

	listing, err = h.db.GetListingByID(c.Context(), id)
	if err != nil {
		return jsonDomainError(c, err)
	}

	h.notifier.NotifyListingSubmitted(c.Context(), listing)
	return jsonSuccess(c, listing)
}

// SubmitPromotion creates a pending promotion attached to one of the user's
// approved listings.
func (h *ListingsHandler) SubmitPromotion(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid listing id")
	}

	listing, err := h.db.GetListingByID(c.Context(), listingID)
	if err != nil {
		return jsonDomainError(c, err)
	}
	if !canViewListing(user, listing) {
		return jsonError(c, fiber.StatusForbidden, "not your listing")
	}
	if listing.LifecycleState != models.StateApproved {
		return jsonDomainError(c, models.NewValidationError("listing", "promotions require an approved listing"))
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		MediaURL    string `json:"media_url"`
		ContentType string `json:"content_type"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(body.Title) == "" {
		return jsonDomainError(c, models.NewValidationError("title", "title is required"))
	}

	promotion := &models.Promotion{
		ListingID:   listingID,
		Title:       strings.TrimSpace(body.Title),
		Description: body.Description,
		MediaURL:    body.MediaURL,
		ContentType: body.ContentType,
	}

	if err := h.db.CreatePromotion(c.Context(), promotion); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create promotion")
	}

	return jsonCreated(c, promotion)
}

// ListPromotions returns the promotions attached to one of the user's
// listings, for tracking review outcomes.
func (h *ListingsHandler) ListPromotions(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid listing id")
	}

	listing, err := h.db.GetListingByID(c.Context(), listingID)
	if err != nil {
		return jsonDomainError(c, err)
	}
	if !canViewListing(user, listing) {
		return jsonError(c, fiber.StatusForbidden, "not your listing")
	}

	promotions, err := h.db.ListPromotionsByListing(c.Context(), listingID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch promotions")
	}

	return jsonSuccess(c, promotions)
}

// canViewListing reports whether the user may see a listing beyond the
// public directory view.
func canViewListing(user *models.User, listing *models.Listing) bool {
	if user == nil {
		return false
	}
	if user.IsCoordinator() {
		return true
	}
	return listing.SubmittedBy != nil && *listing.SubmittedBy == user.ID
}

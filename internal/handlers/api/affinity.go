package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"careconnect/internal/affinity"
	"careconnect/internal/db"
	"careconnect/internal/models"
)

// AffinityHandler manages the viewer's saved set and recently-viewed
// history.
type AffinityHandler struct {
	db      *db.DB
	tracker *affinity.Tracker
}

// NewAffinityHandler creates a new affinity handler.
func NewAffinityHandler(database *db.DB, tracker *affinity.Tracker) *AffinityHandler {
	return &AffinityHandler{db: database, tracker: tracker}
}

// ToggleSaved flips whether a listing is in the user's saved set. When the
// store is unreachable the response reports the feature unavailable instead
// of failing the request.
func (h *AffinityHandler) ToggleSaved(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "sign in to save listings")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid listing id")
	}

	listing, err := h.db.GetListingByID(c.Context(), id)
	if err != nil {
		return jsonDomainError(c, err)
	}
	if !listing.IsPubliclyVisible() {
		return jsonError(c, fiber.StatusNotFound, "listing not found")
	}

	saved, err := h.tracker.ToggleSaved(c.Context(), user.ID, id)
	if errors.Is(err, affinity.ErrUnavailable) {
		return jsonSuccess(c, fiber.Map{"saved": false, "available": false})
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update saved listings")
	}

	return jsonSuccess(c, fiber.Map{"saved": saved, "available": true})
}

// Saved returns the user's saved listings. Stale saved ids whose listings
// are no longer publicly visible are filtered out but left in the set.
func (h *AffinityHandler) Saved(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	ids := h.tracker.SavedIDs(c.Context(), user.ID)
	listings := make([]models.Listing, 0, len(ids))
	for _, id := range ids {
		listing, err := h.db.GetListingByID(c.Context(), id)
		if err != nil {
			continue
		}
		if listing.IsPubliclyVisible() {
			listings = append(listings, *listing)
		}
	}

	return jsonSuccess(c, listings)
}

// Recent returns the viewer's recently-viewed listings, most recent first.
func (h *AffinityHandler) Recent(c fiber.Ctx) error {
	ids := sessionRecent(c)
	listings := make([]models.Listing, 0, len(ids))
	for _, id := range ids {
		listing, err := h.db.GetListingByID(c.Context(), id)
		if err != nil {
			continue
		}
		if listing.IsPubliclyVisible() {
			listings = append(listings, *listing)
		}
	}

	return jsonSuccess(c, listings)
}

package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"

	"careconnect/internal/affinity"
	"careconnect/internal/db"
	"careconnect/internal/directory"
	"careconnect/internal/jobs"
	"careconnect/internal/metrics"
	"careconnect/internal/models"
	"careconnect/internal/schedule"
)

// DirectoryHandler serves the public directory: filtered listing search,
// listing detail with view tracking, and the ordered active banner strip.
type DirectoryHandler struct {
	db       *db.DB
	tracker  *affinity.Tracker
	banners  *jobs.BannerCache
	pageSize int
}

// NewDirectoryHandler creates a new directory handler.
func NewDirectoryHandler(database *db.DB, tracker *affinity.Tracker, banners *jobs.BannerCache, pageSize int) *DirectoryHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &DirectoryHandler{db: database, tracker: tracker, banners: banners, pageSize: pageSize}
}

// directoryItem is a listing annotated with the viewer's saved flag.
type directoryItem struct {
	models.Listing
	Saved bool `json:"saved"`
}

// bannerItem is an approved promotion annotated with its derived display
// status.
type bannerItem struct {
	models.Promotion
	DisplayStatus string `json:"display_status"`
	DaysRemaining *int   `json:"days_remaining,omitempty"`
}

// List serves the filtered, paginated directory. All predicates combine with
// AND; the saved and recently-viewed toggles additionally restrict to the
// viewer's own affinity data.
func (h *DirectoryHandler) List(c fiber.Ctx) error {
	filter := directory.Filter{
		Search:          c.Query("q", ""),
		City:            c.Query("city", ""),
		State:           c.Query("state", ""),
		Specialization:  c.Query("specialization", ""),
		Stage:           c.Query("stage", ""),
		Language:        c.Query("language", ""),
		Availability:    c.Query("availability", ""),
		ServiceCategory: c.Query("service_category", ""),
		ServiceType:     c.Query("service_type", ""),
		PriceRange:      c.Query("price_range", ""),
	}
	if c.Query("saved", "") == "true" {
		filter.SetSavedOnly(true)
	}
	if c.Query("recent", "") == "true" {
		filter.SetRecentlyViewedOnly(true)
	}

	user := currentUser(c)

	listings, err := h.db.ListApprovedListings(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch listings")
	}

	// Anonymous viewers keep a nil saved set; the saved toggle then
	// matches nothing instead of failing the request.
	var saved map[uuid.UUID]bool
	if user != nil {
		saved = h.tracker.SavedSet(c.Context(), user.ID)
	}
	recent := sessionRecent(c)

	matched := directory.Apply(listings, filter, saved, recent)
	metrics.RecordDirectorySearch()

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * h.pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + h.pageSize
	if end > len(matched) {
		end = len(matched)
	}

	items := make([]directoryItem, 0, end-start)
	for _, l := range matched[start:end] {
		items = append(items, directoryItem{Listing: l, Saved: saved[l.ID]})
	}

	return jsonSuccess(c, fiber.Map{
		"items":     items,
		"total":     len(matched),
		"page":      page,
		"page_size": h.pageSize,
	})
}

// Show serves a single public listing with its active promotions, and
// records the view in the session's recently-viewed sequence.
func (h *DirectoryHandler) Show(c fiber.Ctx) error {
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

	recordSessionView(c, id)

	promotions, err := h.db.ListPromotionsByListing(c.Context(), id)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch promotions")
	}
	now := time.Now()
	active := make([]bannerItem, 0, len(promotions))
	for _, p := range promotions {
		if p.ModerationState != models.PromotionApproved {
			continue
		}
		if status := schedule.DeriveStatus(now, p.StartDate, p.EndDate); status == models.DisplayActive {
			active = append(active, bannerItem{
				Promotion:     p,
				DisplayStatus: status,
				DaysRemaining: schedule.DaysRemaining(now, p.EndDate),
			})
		}
	}

	saved := false
	if user := currentUser(c); user != nil {
		saved = h.tracker.IsSaved(c.Context(), user.ID, id)
	}

	return jsonSuccess(c, fiber.Map{
		"listing":    listing,
		"saved":      saved,
		"promotions": active,
	})
}

// Banners serves the ordered strip of currently active promotions. The
// ordered approved set comes from the cache when fresh; display status is
// always derived at request time so a cached entry cannot serve a stale
// status across a date boundary.
func (h *DirectoryHandler) Banners(c fiber.Ctx) error {
	metrics.RecordBannerRequest()

	ordered, ok := h.banners.Get(c.Context())
	if !ok {
		approved, err := h.db.ListApprovedPromotions(c.Context())
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch promotions")
		}
		ordered = schedule.Order(approved)
	}

	now := time.Now()
	items := make([]bannerItem, 0, len(ordered))
	for _, p := range ordered {
		if schedule.DeriveStatus(now, p.StartDate, p.EndDate) != models.DisplayActive {
			continue
		}
		items = append(items, bannerItem{
			Promotion:     p,
			DisplayStatus: models.DisplayActive,
			DaysRemaining: schedule.DaysRemaining(now, p.EndDate),
		})
	}

	return jsonSuccess(c, items)
}

// sessionRecent reads the viewer's recently-viewed sequence from their
// session. No session means no history.
func sessionRecent(c fiber.Ctx) []uuid.UUID {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}
	stored, _ := sess.Get(affinity.RecentKey).(string)
	return affinity.DecodeRecent(stored)
}

// recordSessionView pushes a listing view onto the session's
// recently-viewed sequence.
func recordSessionView(c fiber.Ctx, id uuid.UUID) {
	sess := session.FromContext(c)
	if sess == nil {
		return
	}
	ids := affinity.RecordView(sessionRecent(c), id)
	sess.Set(affinity.RecentKey, affinity.EncodeRecent(ids))
}

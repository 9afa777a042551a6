package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"careconnect/internal/db"
	"careconnect/internal/email"
	"careconnect/internal/lifecycle"
	"careconnect/internal/metrics"
	"careconnect/internal/models"
	"careconnect/internal/schedule"
	"careconnect/internal/validation"
)

// ModerationHandler handles coordinator moderation of listings and
// promotions.
type ModerationHandler struct {
	db         *db.DB
	notifier   *email.Notifier
	listings   *lifecycle.Machine
	promotions *lifecycle.Machine
}

// NewModerationHandler creates a new moderation handler.
func NewModerationHandler(database *db.DB, notifier *email.Notifier) *ModerationHandler {
	return &ModerationHandler{
		db:         database,
		notifier:   notifier,
		listings:   lifecycle.NewListingMachine(),
		promotions: lifecycle.NewPromotionMachine(),
	}
}

// currentUser returns the authenticated user stored by the auth middleware,
// or nil when the request is anonymous.
func currentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// Queue returns the pending moderation queues.
func (h *ModerationHandler) Queue(c fiber.Ctx) error {
	if user := currentUser(c); user == nil || !user.IsCoordinator() {
		return jsonError(c, fiber.StatusForbidden, "coordinator access required")
	}

	listings, err := h.db.ListListingsByState(c.Context(), models.StatePending)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch pending listings")
	}

	promotions, err := h.db.ListPromotionsByState(c.Context(), models.PromotionPending)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch pending promotions")
	}

	return jsonSuccess(c, fiber.Map{
		"listings":   listings,
		"promotions": promotions,
	})
}

// ApproveListing moves a listing to approved and notifies the specialist.
func (h *ModerationHandler) ApproveListing(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil || !user.IsCoordinator() {
		return jsonError(c, fiber.StatusForbidden, "coordinator access required")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid listing id")
	}

	listing, err := h.applyListingTransition(c.Context(), id, lifecycle.TransitionApprove, lifecycle.Request{}, user)
	metrics.RecordModeration("listing", lifecycle.TransitionApprove, outcomeLabel(err))
	if err != nil {
		return jsonDomainError(c, err)
	}

	h.notifier.NotifyListingApproved(c.Context(), listing)
	return jsonSuccess(c, listing)
}

// RejectListing moves a listing to rejected with a reason and notifies the
// specialist.
func (h *ModerationHandler) RejectListing(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil || !user.IsCoordinator() {
		return jsonError(c, fiber.StatusForbidden, "coordinator access required")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid listing id")
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	req := lifecycle.Request{Reason: body.Reason}
	listing, err := h.applyListingTransition(c.Context(), id, lifecycle.TransitionReject, req, user)
	metrics.RecordModeration("listing", lifecycle.TransitionReject, outcomeLabel(err))
	if err != nil {
		return jsonDomainError(c, err)
	}

	h.notifier.NotifyListingRejected(c.Context(), listing, body.Reason)
	return jsonSuccess(c, listing)
}

// ArchiveListing archives an approved listing; requires explicit
// confirmation.
func (h *ModerationHandler) ArchiveListing(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil || !user.IsCoordinator() {
		return jsonError(c, fiber.StatusForbidden, "coordinator access required")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid listing id")
	}

	var body struct {
		Confirmed bool `json:"confirmed"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	req := lifecycle.Request{Confirmed: body.Confirmed}
	listing, err := h.applyListingTransition(c.Context(), id, lifecycle.TransitionArchive, req, user)
	metrics.RecordModeration("listing", lifecycle.TransitionArchive, outcomeLabel(err))
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, listing)
}

// UnarchiveListing restores an archived listing to approved.
func (h *ModerationHandler) UnarchiveListing(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil || !user.IsCoordinator() {
		return jsonError(c, fiber.StatusForbidden, "coordinator access required")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid listing id")
	}

	listing, err := h.applyListingTransition(c.Context(), id, lifecycle.TransitionUnarchive, lifecycle.Request{}, user)
	metrics.RecordModeration("listing", lifecycle.TransitionUnarchive, outcomeLabel(err))
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, listing)
}

// GetPromotion returns a promotion for coordinator review.
func (h *ModerationHandler) GetPromotion(c fiber.Ctx) error {
	if user := currentUser(c); user == nil || !user.IsCoordinator() {
		return jsonError(c, fiber.StatusForbidden, "coordinator access required")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid promotion id")
	}

	promotion, err := h.db.GetPromotionByID(c.Context(), id)
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, promotion)
}

// ApprovePromotion approves a promotion, atomically attaching its complete
// display schedule.
func (h *ModerationHandler) ApprovePromotion(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil || !user.IsCoordinator() {
		return jsonError(c, fiber.StatusForbidden, "coordinator access required")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid promotion id")
	}

	input, err := parseScheduleBody(c.Body())
	if err != nil {
		return jsonDomainError(c, err)
	}

	req := lifecycle.Request{Schedule: input}
	promotion, err := h.applyPromotionTransition(c.Context(), id, lifecycle.TransitionApprove, req, user)
	metrics.RecordModeration("promotion", lifecycle.TransitionApprove, outcomeLabel(err))
	if err != nil {
		return jsonDomainError(c, err)
	}

	if listing, lerr := h.db.GetListingByID(c.Context(), promotion.ListingID); lerr == nil {
		h.notifier.NotifyPromotionApproved(c.Context(), listing, promotion)
	}
	return jsonSuccess(c, promotion)
}

// RejectPromotion rejects a promotion with a reason.
func (h *ModerationHandler) RejectPromotion(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil || !user.IsCoordinator() {
		return jsonError(c, fiber.StatusForbidden, "coordinator access required")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid promotion id")
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	req := lifecycle.Request{Reason: body.Reason}
	promotion, err := h.applyPromotionTransition(c.Context(), id, lifecycle.TransitionReject, req, user)
	metrics.RecordModeration("promotion", lifecycle.TransitionReject, outcomeLabel(err))
	if err != nil {
		return jsonDomainError(c, err)
	}

	if listing, lerr := h.db.GetListingByID(c.Context(), promotion.ListingID); lerr == nil {
		h.notifier.NotifyPromotionRejected(c.Context(), listing, promotion, body.Reason)
	}
	return jsonSuccess(c, promotion)
}

// EditPromotionSchedule applies a partial schedule update to an approved
// promotion without changing its moderation state.
func (h *ModerationHandler) EditPromotionSchedule(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil || !user.IsCoordinator() {
		return jsonError(c, fiber.StatusForbidden, "coordinator access required")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid promotion id")
	}

	input, err := parseScheduleBody(c.Body())
	if err != nil {
		return jsonDomainError(c, err)
	}

	req := lifecycle.Request{Schedule: input}
	promotion, err := h.applyPromotionTransition(c.Context(), id, lifecycle.TransitionEditSchedule, req, user)
	metrics.RecordModeration("promotion", lifecycle.TransitionEditSchedule, outcomeLabel(err))
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, promotion)
}

// applyListingTransition runs the fetch, machine evaluation, and conditional
// persist for one listing transition. A conditional update that loses to a
// concurrent action reloads the fresh state and re-evaluates once; the
// machine then typically reports the transition illegal from the new state.
func (h *ModerationHandler) applyListingTransition(ctx context.Context, id uuid.UUID, transition string, req lifecycle.Request, reviewer *models.User) (*models.Listing, error) {
	for attempt := 0; attempt < 2; attempt++ {
		listing, err := h.db.GetListingByID(ctx, id)
		if err != nil {
			return nil, err
		}

		next, err := h.listings.Apply(listing.LifecycleState, transition, req)
		if err != nil {
			return nil, err
		}

		switch transition {
		case lifecycle.TransitionApprove:
			err = h.db.ApproveListing(ctx, id, reviewer.ID, listing.LifecycleState)
		case lifecycle.TransitionReject:
			err = h.db.RejectListing(ctx, id, req.Reason, listing.LifecycleState)
		default:
			err = h.db.SetListingState(ctx, id, listing.LifecycleState, next)
		}

		if errors.Is(err, db.ErrStateConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return h.db.GetListingByID(ctx, id)
	}
	return nil, db.ErrStateConflict
}

// applyPromotionTransition is the promotion counterpart of
// applyListingTransition.
func (h *ModerationHandler) applyPromotionTransition(ctx context.Context, id uuid.UUID, transition string, req lifecycle.Request, reviewer *models.User) (*models.Promotion, error) {
	for attempt := 0; attempt < 2; attempt++ {
		promotion, err := h.db.GetPromotionByID(ctx, id)
		if err != nil {
			return nil, err
		}
		req.Current = promotion

		if _, err := h.promotions.Apply(promotion.ModerationState, transition, req); err != nil {
			return nil, err
		}

		switch transition {
		case lifecycle.TransitionApprove:
			// The machine precondition guarantees a complete schedule here.
			err = h.db.ApprovePromotion(ctx, id, reviewer.ID, promotion.ModerationState,
				*req.Schedule.StartDate, *req.Schedule.EndDate, *req.Schedule.Sequence)
		case lifecycle.TransitionReject:
			err = h.db.RejectPromotion(ctx, id, reviewer.ID, req.Reason, promotion.ModerationState)
		case lifecycle.TransitionEditSchedule:
			merged := schedule.Merged(promotion, req.Schedule)
			err = h.db.UpdatePromotionSchedule(ctx, id, merged.StartDate, merged.EndDate, merged.Sequence)
		}

		if errors.Is(err, db.ErrStateConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return h.db.GetPromotionByID(ctx, id)
	}
	return nil, db.ErrStateConflict
}

// parseScheduleBody decodes a schedule payload. Dates use the wire format
// YYYY-MM-DD; a date supplied as an empty string clears that end of the
// window on a partial edit, while an absent field is left untouched.
func parseScheduleBody(body []byte) (*models.ScheduleInput, error) {
	var raw struct {
		StartDate *string `json:"start_date"`
		EndDate   *string `json:"end_date"`
		Sequence  *int    `json:"sequence"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, models.NewValidationError("schedule", "invalid request body")
	}

	in := &models.ScheduleInput{Sequence: raw.Sequence}

	if raw.StartDate != nil {
		t, err := validation.ParseDate(*raw.StartDate)
		if err != nil {
			return nil, models.NewValidationError("start_date", "invalid date, expected YYYY-MM-DD")
		}
		if t == nil {
			in.ClearStartDate = true
		} else {
			in.StartDate = t
		}
	}

	if raw.EndDate != nil {
		t, err := validation.ParseDate(*raw.EndDate)
		if err != nil {
			return nil, models.NewValidationError("end_date", "invalid date, expected YYYY-MM-DD")
		}
		if t == nil {
			in.ClearEndDate = true
		} else {
			in.EndDate = t
		}
	}

	return in, nil
}

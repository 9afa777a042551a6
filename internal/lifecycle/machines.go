package lifecycle

import (
	"careconnect/internal/models"
	"careconnect/internal/schedule"
)

// NewListingMachine builds the transition table for specialist listings.
// Approving from rejected clears the rejection reason and re-approval from
// the archive goes through the dedicated unarchive transition, never through
// a normal approve.
func NewListingMachine() *Machine {
	m := NewMachine("listing")
	m.Allow(models.StatePending, TransitionApprove, models.StateApproved, nil)
	m.Allow(models.StateRejected, TransitionApprove, models.StateApproved, nil)
	m.Allow(models.StatePending, TransitionReject, models.StateRejected, requireReason)
	m.Allow(models.StateApproved, TransitionReject, models.StateRejected, requireReason)
	m.Allow(models.StateApproved, TransitionArchive, models.StateArchived, requireConfirmation)
	m.Allow(models.StateArchived, TransitionUnarchive, models.StateApproved, nil)
	return m
}

// NewPromotionMachine builds the transition table for promotions. Approval
// atomically requires a complete, valid schedule; an approved promotion's
// schedule may be re-edited (partially) without leaving the approved state.
func NewPromotionMachine() *Machine {
	m := NewMachine("promotion")
	m.Allow(models.PromotionPending, TransitionApprove, models.PromotionApproved, requireApprovalSchedule)
	m.Allow(models.PromotionRejected, TransitionApprove, models.PromotionApproved, requireApprovalSchedule)
	m.Allow(models.PromotionPending, TransitionReject, models.PromotionRejected, requireReason)
	m.Allow(models.PromotionApproved, TransitionReject, models.PromotionRejected, requireReason)
	m.Allow(models.PromotionApproved, TransitionEditSchedule, models.PromotionApproved, requireValidEdit)
	return m
}

func requireApprovalSchedule(req Request) error {
	return schedule.ValidateApproval(req.Schedule)
}

func requireValidEdit(req Request) error {
	return schedule.ValidateEdit(req.Current, req.Schedule)
}

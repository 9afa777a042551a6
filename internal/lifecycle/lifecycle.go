// Package lifecycle is the transition-table engine behind all moderation
// actions. A Machine holds the legal (state, transition) pairs for one kind
// of moderated entity; applying a transition either yields the next state or
// fails with no side effects.
//
// Listing state graph:
//
//	pending ──approve──► approved ──archive──► archived
//	   │                  │    ▲                  │
//	 reject             reject │                unarchive
//	   ▼                  ▼    │approve            │
//	rejected ──approve──► approved ◄───────────────┘
//
// Promotion state graph:
//
//	pending ──approve──► approved ──edit-schedule──► approved
//	   │                  │    ▲
//	 reject             reject │approve
//	   ▼                  ▼    │
//	rejected ─────────────────-┘
package lifecycle

import (
	"fmt"

	"careconnect/internal/models"
	"careconnect/internal/validation"
)

// Transition names mirror the coordinator actions exposed by the moderation
// surface.
const (
	TransitionApprove      = "approve"
	TransitionReject       = "reject"
	TransitionArchive      = "archive"
	TransitionUnarchive    = "unarchive"
	TransitionEditSchedule = "edit-schedule"
)

// IllegalTransitionError reports a (state, transition) pair absent from the
// machine's table. It is never retried; the record is left unchanged.
type IllegalTransitionError struct {
	Entity     string
	From       string
	Transition string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a %s %s", e.Transition, e.From, e.Entity)
}

// Request carries the caller-supplied input evaluated by transition
// preconditions. Fields irrelevant to a given transition are ignored.
type Request struct {
	Reason    string                // rejection reason
	Confirmed bool                  // explicit confirmation, required to archive
	Schedule  *models.ScheduleInput // schedule accompanying promotion approve/edit
	Current   *models.Promotion     // existing record, for merge-aware schedule checks
}

type ruleKey struct {
	from       string
	transition string
}

type rule struct {
	to    string
	check func(Request) error
}

// Machine enforces the legal transitions for one kind of moderated entity.
// It is pure: Apply computes the next state and performs no persistence.
type Machine struct {
	entity string
	rules  map[ruleKey]rule
}

// NewMachine creates an empty machine for the named entity.
func NewMachine(entity string) *Machine {
	return &Machine{entity: entity, rules: make(map[ruleKey]rule)}
}

// Allow registers a legal transition. check may be nil when the transition
// has no precondition.
func (m *Machine) Allow(from, transition, to string, check func(Request) error) {
	m.rules[ruleKey{from, transition}] = rule{to: to, check: check}
}

// Apply validates the transition from the given state and returns the
// resulting state. A pair not in the table fails with IllegalTransitionError;
// an unmet precondition fails with ValidationError. Either way the caller's
// record is untouched.
func (m *Machine) Apply(from, transition string, req Request) (string, error) {
	r, ok := m.rules[ruleKey{from, transition}]
	if !ok {
		return "", &IllegalTransitionError{Entity: m.entity, From: from, Transition: transition}
	}
	if r.check != nil {
		if err := r.check(req); err != nil {
			return "", err
		}
	}
	return r.to, nil
}

// requireReason rejects empty or whitespace-only rejection reasons.
func requireReason(req Request) error {
	if !validation.ValidReason(req.Reason) {
		return models.NewValidationError("reason", "a non-empty rejection reason is required")
	}
	return nil
}

// requireConfirmation enforces the explicit confirmation flag on archival.
func requireConfirmation(req Request) error {
	if !req.Confirmed {
		return models.NewValidationError("confirmed", "archiving requires explicit confirmation")
	}
	return nil
}

package schedule

import (
	"sort"
	"time"

	"careconnect/internal/models"
)

// ValidateApproval checks the schedule supplied with a promotion approval.
// Approval requires a complete schedule: both dates, an ordered window, and a
// sequence number. Any integer sequence is accepted, including zero and
// negatives; smaller sorts first.
func ValidateApproval(in *models.ScheduleInput) error {
	if in == nil {
		return models.NewValidationError("schedule", "a schedule is required to approve a promotion")
	}
	if in.StartDate == nil {
		return models.NewValidationError("start_date", "start date is required to approve a promotion")
	}
	if in.EndDate == nil {
		return models.NewValidationError("end_date", "end date is required to approve a promotion")
	}
	if in.Sequence == nil {
		return models.NewValidationError("sequence", "a display sequence is required to approve a promotion")
	}
	return validateWindow(in.StartDate, in.EndDate)
}

// ValidateEdit checks a partial schedule edit against the promotion it would
// apply to. Only supplied fields overwrite; either date may be cleared on an
// edit, leaving the promotion without a display window until completed. The
// merged window must still be ordered.
func ValidateEdit(current *models.Promotion, in *models.ScheduleInput) error {
	if in == nil {
		return models.NewValidationError("schedule", "no schedule fields supplied")
	}
	merged := Merged(current, in)
	return validateWindow(merged.StartDate, merged.EndDate)
}

// Merged returns the schedule that would result from applying the partial
// input over the promotion's current schedule.
func Merged(current *models.Promotion, in *models.ScheduleInput) models.ScheduleInput {
	out := models.ScheduleInput{}
	if current != nil {
		out.StartDate = current.StartDate
		out.EndDate = current.EndDate
		out.Sequence = current.Sequence
	}
	if in == nil {
		return out
	}
	switch {
	case in.ClearStartDate:
		out.StartDate = nil
	case in.StartDate != nil:
		out.StartDate = in.StartDate
	}
	switch {
	case in.ClearEndDate:
		out.EndDate = nil
	case in.EndDate != nil:
		out.EndDate = in.EndDate
	}
	if in.Sequence != nil {
		out.Sequence = in.Sequence
	}
	return out
}

func validateWindow(start, end *time.Time) error {
	if start != nil && end != nil && dateOnly(*start).After(dateOnly(*end)) {
		return models.NewValidationError("start_date", "start date must not be after end date")
	}
	return nil
}

// Order returns the approved promotions in display order: ascending
// sequence, ties broken by start date, further ties by id. Pending and
// rejected promotions are excluded entirely. The ordering is deterministic
// across calls, so carousels restart in the same sequence.
func Order(promotions []models.Promotion) []models.Promotion {
	out := make([]models.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.ModerationState == models.PromotionApproved {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if c := compareIntPtr(a.Sequence, b.Sequence); c != 0 {
			return c < 0
		}
		if c := compareDatePtr(a.StartDate, b.StartDate); c != 0 {
			return c < 0
		}
		return a.ID.String() < b.ID.String()
	})
	return out
}

// compareIntPtr orders two optional sequence numbers; a missing sequence
// sorts after any present one.
func compareIntPtr(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}

// compareDatePtr orders two optional dates; a missing date sorts last.
func compareDatePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	da, db := dateOnly(*a), dateOnly(*b)
	switch {
	case da.Before(db):
		return -1
	case da.After(db):
		return 1
	default:
		return 0
	}
}

package schedule

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"careconnect/internal/models"
)

func intPtr(n int) *int { return &n }

func approvedPromotion(t *testing.T, id byte, seq *int, start string) models.Promotion {
	t.Helper()
	p := models.Promotion{
		ID:              uuid.UUID{id},
		ModerationState: models.PromotionApproved,
		Sequence:        seq,
	}
	if start != "" {
		p.StartDate = dayPtr(t, start)
	}
	return p
}

func TestValidateApproval(t *testing.T) {
	err := ValidateApproval(nil)
	var invalid *models.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("nil input error = %v, want ValidationError", err)
	}

	complete := &models.ScheduleInput{
		StartDate: dayPtr(t, "2026-07-01"),
		EndDate:   dayPtr(t, "2026-07-31"),
		Sequence:  intPtr(3),
	}
	if err := ValidateApproval(complete); err != nil {
		t.Errorf("complete schedule error: %v", err)
	}

	zeroSeq := &models.ScheduleInput{
		StartDate: dayPtr(t, "2026-07-01"),
		EndDate:   dayPtr(t, "2026-07-31"),
		Sequence:  intPtr(0),
	}
	if err := ValidateApproval(zeroSeq); err != nil {
		t.Errorf("zero sequence should be accepted: %v", err)
	}

	negSeq := &models.ScheduleInput{
		StartDate: dayPtr(t, "2026-07-01"),
		EndDate:   dayPtr(t, "2026-07-31"),
		Sequence:  intPtr(-5),
	}
	if err := ValidateApproval(negSeq); err != nil {
		t.Errorf("negative sequence should be accepted: %v", err)
	}
}

func TestMerged(t *testing.T) {
	current := &models.Promotion{
		StartDate: dayPtr(t, "2026-07-01"),
		EndDate:   dayPtr(t, "2026-07-31"),
		Sequence:  intPtr(1),
	}

	t.Run("absent fields keep current values", func(t *testing.T) {
		got := Merged(current, &models.ScheduleInput{Sequence: intPtr(9)})
		if got.StartDate == nil || !got.StartDate.Equal(*current.StartDate) {
			t.Errorf("start date changed: %v", got.StartDate)
		}
		if got.Sequence == nil || *got.Sequence != 9 {
			t.Errorf("sequence = %v, want 9", got.Sequence)
		}
	})

	t.Run("supplied dates overwrite", func(t *testing.T) {
		got := Merged(current, &models.ScheduleInput{EndDate: dayPtr(t, "2026-08-15")})
		if got.EndDate == nil || !got.EndDate.Equal(day(t, "2026-08-15")) {
			t.Errorf("end date = %v, want 2026-08-15", got.EndDate)
		}
	})

	t.Run("clear flags null the date", func(t *testing.T) {
		got := Merged(current, &models.ScheduleInput{ClearStartDate: true, ClearEndDate: true})
		if got.StartDate != nil || got.EndDate != nil {
			t.Errorf("dates not cleared: %v %v", got.StartDate, got.EndDate)
		}
		if got.Sequence == nil || *got.Sequence != 1 {
			t.Errorf("sequence = %v, want 1", got.Sequence)
		}
	})

	t.Run("nil current starts empty", func(t *testing.T) {
		got := Merged(nil, &models.ScheduleInput{Sequence: intPtr(4)})
		if got.StartDate != nil || got.EndDate != nil {
			t.Errorf("expected empty dates, got %v %v", got.StartDate, got.EndDate)
		}
	})
}

func TestValidateEdit(t *testing.T) {
	current := &models.Promotion{
		StartDate: dayPtr(t, "2026-07-10"),
		EndDate:   dayPtr(t, "2026-07-20"),
	}

	if err := ValidateEdit(current, &models.ScheduleInput{EndDate: dayPtr(t, "2026-07-25")}); err != nil {
		t.Errorf("valid edit error: %v", err)
	}

	err := ValidateEdit(current, &models.ScheduleInput{StartDate: dayPtr(t, "2026-08-01")})
	var invalid *models.ValidationError
	if !errors.As(err, &invalid) {
		t.Errorf("inverted merge error = %v, want ValidationError", err)
	}

	// Clearing one end leaves a partial window, which is not an ordering
	// violation.
	if err := ValidateEdit(current, &models.ScheduleInput{ClearEndDate: true}); err != nil {
		t.Errorf("clearing end date error: %v", err)
	}

	if err := ValidateEdit(current, nil); err == nil {
		t.Error("nil input should be rejected")
	}
}

func TestOrder(t *testing.T) {
	pending := models.Promotion{ID: uuid.UUID{99}, ModerationState: models.PromotionPending, Sequence: intPtr(0)}
	rejected := models.Promotion{ID: uuid.UUID{98}, ModerationState: models.PromotionRejected, Sequence: intPtr(0)}

	first := approvedPromotion(t, 1, intPtr(1), "2026-07-01")
	second := approvedPromotion(t, 2, intPtr(2), "2026-07-01")
	tieEarly := approvedPromotion(t, 3, intPtr(5), "2026-07-01")
	tieLate := approvedPromotion(t, 4, intPtr(5), "2026-07-15")
	noSeq := approvedPromotion(t, 5, nil, "2026-07-01")

	in := []models.Promotion{noSeq, tieLate, pending, second, tieEarly, rejected, first}
	got := Order(in)

	wantIDs := []uuid.UUID{first.ID, second.ID, tieEarly.ID, tieLate.ID, noSeq.ID}
	if len(got) != len(wantIDs) {
		t.Fatalf("Order returned %d promotions, want %d", len(got), len(wantIDs))
	}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("position %d = %v, want %v", i, got[i].ID, want)
		}
	}
}

// Identical inputs must order identically on every call regardless of input
// permutation, so the public carousel is stable.
func TestOrder_Deterministic(t *testing.T) {
	a := approvedPromotion(t, 1, intPtr(1), "")
	b := approvedPromotion(t, 2, intPtr(1), "")
	c := approvedPromotion(t, 3, intPtr(1), "")

	first := Order([]models.Promotion{a, b, c})
	second := Order([]models.Promotion{c, a, b})

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("permuted input reordered position %d: %v vs %v", i, first[i].ID, second[i].ID)
		}
	}
}

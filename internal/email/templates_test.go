package email

import (
	"strings"
	"testing"
	"time"

	"careconnect/internal/config"
	"careconnect/internal/models"
)

func testTemplates() *Templates {
	return NewTemplates(&config.Config{
		SiteTitle: "CareConnect",
		BaseURL:   "https://careconnect.example",
	})
}

func TestListingSubmitted(t *testing.T) {
	tmpl := testTemplates()
	listing := &models.Listing{
		Name:            "Harbor Speech Clinic",
		City:            "Portland",
		Specializations: []string{"speech therapy", "feeding"},
	}

	subject, body := tmpl.ListingSubmitted(listing)
	if !strings.Contains(subject, "Harbor Speech Clinic") {
		t.Errorf("subject missing listing name: %q", subject)
	}
	if !strings.Contains(body, "speech therapy, feeding") {
		t.Errorf("body missing specializations: %q", body)
	}
	if !strings.Contains(body, "https://careconnect.example") {
		t.Errorf("body missing site link: %q", body)
	}
}

func TestListingRejected(t *testing.T) {
	tmpl := testTemplates()
	listing := &models.Listing{Name: "Bright Steps"}

	_, body := tmpl.ListingRejected(listing, "credential documentation incomplete")
	if !strings.Contains(body, "credential documentation incomplete") {
		t.Errorf("body missing rejection reason: %q", body)
	}
	if !strings.Contains(body, "resubmit") {
		t.Errorf("body missing resubmission hint: %q", body)
	}
}

func TestPromotionApproved(t *testing.T) {
	tmpl := testTemplates()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	promotion := &models.Promotion{
		Title:     "Fall Workshop Series",
		StartDate: &start,
		EndDate:   &end,
	}

	_, body := tmpl.PromotionApproved(promotion)
	if !strings.Contains(body, "2026-09-01 to 2026-09-30") {
		t.Errorf("body missing display window: %q", body)
	}

	// A promotion without a window must still render.
	_, body = tmpl.PromotionApproved(&models.Promotion{Title: "No Window"})
	if !strings.Contains(body, "to be announced") {
		t.Errorf("windowless body = %q", body)
	}
}

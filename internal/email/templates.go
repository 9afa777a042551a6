package email

import (
	"fmt"
	"strings"

	"careconnect/internal/config"
	"careconnect/internal/models"
)

// Templates generates notification subjects and bodies.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

func (t *Templates) footer() string {
	return fmt.Sprintf("\n--\n%s\n%s\n", t.cfg.SiteTitle, t.cfg.BaseURL)
}

// ListingSubmitted is sent to coordinators when a new listing needs review.
func (t *Templates) ListingSubmitted(l *models.Listing) (subject, body string) {
	subject = fmt.Sprintf("[%s] New listing awaiting review: %s", t.cfg.SiteTitle, l.Name)
	body = fmt.Sprintf(
		"A new specialist listing has been submitted and is awaiting review.\n\nName: %s\nCity: %s\nSpecializations: %s\n",
		l.Name, l.City, strings.Join(l.Specializations, ", "),
	) + t.footer()
	return subject, body
}

// ListingApproved is sent to the specialist when their listing goes live.
func (t *Templates) ListingApproved(l *models.Listing) (subject, body string) {
	subject = fmt.Sprintf("[%s] Your listing is now live", t.cfg.SiteTitle)
	body = fmt.Sprintf(
		"Good news! Your listing %q has been approved and is now visible in the directory.\n",
		l.Name,
	) + t.footer()
	return subject, body
}

// ListingRejected is sent to the specialist with the rejection reason.
func (t *Templates) ListingRejected(l *models.Listing, reason string) (subject, body string) {
	subject = fmt.Sprintf("[%s] Your listing needs changes", t.cfg.SiteTitle)
	body = fmt.Sprintf(
		"Your listing %q was reviewed and could not be approved.\n\nReason: %s\n\nYou can update your profile and resubmit at any time.\n",
		l.Name, reason,
	) + t.footer()
	return subject, body
}

// PromotionApproved is sent to the specialist with the display window.
func (t *Templates) PromotionApproved(p *models.Promotion) (subject, body string) {
	subject = fmt.Sprintf("[%s] Your promotion has been scheduled", t.cfg.SiteTitle)
	window := "to be announced"
	if p.StartDate != nil && p.EndDate != nil {
		window = fmt.Sprintf("%s to %s", p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"))
	}
	body = fmt.Sprintf(
		"Your promotion %q has been approved.\n\nDisplay window: %s\n",
		p.Title, window,
	) + t.footer()
	return subject, body
}

// PromotionRejected is sent to the specialist with the rejection reason.
func (t *Templates) PromotionRejected(p *models.Promotion, reason string) (subject, body string) {
	subject = fmt.Sprintf("[%s] Your promotion was not approved", t.cfg.SiteTitle)
	body = fmt.Sprintf(
		"Your promotion %q was reviewed and could not be approved.\n\nReason: %s\n",
		p.Title, reason,
	) + t.footer()
	return subject, body
}

package email

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"careconnect/internal/config"
	"careconnect/internal/models"
)

// RecipientStore resolves notification recipients.
type RecipientStore interface {
	GetCoordinatorEmails(ctx context.Context) ([]string, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// Notifier sends email notifications for moderation events.
type Notifier struct {
	service   *Service
	templates *Templates
	db        RecipientStore
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, db RecipientStore) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		db:        db,
	}
}

// NotifyListingSubmitted notifies coordinators that a listing needs review.
func (n *Notifier) NotifyListingSubmitted(ctx context.Context, l *models.Listing) {
	if !n.service.IsEnabled() {
		return
	}

	emails, err := n.db.GetCoordinatorEmails(ctx)
	if err != nil {
		slog.Error("failed to get coordinator emails", "error", err)
		return
	}
	if len(emails) == 0 {
		return
	}

	subject, body := n.templates.ListingSubmitted(l)
	n.service.SendAsync(emails, subject, body)
}

// NotifyListingApproved notifies the submitter that their listing is live.
func (n *Notifier) NotifyListingApproved(ctx context.Context, l *models.Listing) {
	n.notifySubmitter(ctx, l, func() (string, string) { return n.templates.ListingApproved(l) })
}

// NotifyListingRejected notifies the submitter with the rejection reason.
func (n *Notifier) NotifyListingRejected(ctx context.Context, l *models.Listing, reason string) {
	n.notifySubmitter(ctx, l, func() (string, string) { return n.templates.ListingRejected(l, reason) })
}

// NotifyPromotionApproved notifies the owning listing's submitter of the
// scheduled display window.
func (n *Notifier) NotifyPromotionApproved(ctx context.Context, l *models.Listing, p *models.Promotion) {
	n.notifySubmitter(ctx, l, func() (string, string) { return n.templates.PromotionApproved(p) })
}

// NotifyPromotionRejected notifies the owning listing's submitter with the
// rejection reason.
func (n *Notifier) NotifyPromotionRejected(ctx context.Context, l *models.Listing, p *models.Promotion, reason string) {
	n.notifySubmitter(ctx, l, func() (string, string) { return n.templates.PromotionRejected(p, reason) })
}

func (n *Notifier) notifySubmitter(ctx context.Context, l *models.Listing, render func() (string, string)) {
	if !n.service.IsEnabled() || l == nil {
		return
	}

	// Prefer the listing's own contact address, fall back to the
	// submitting account.
	recipient := l.Email
	if recipient == "" && l.SubmittedBy != nil {
		submitter, err := n.db.GetUserByID(ctx, *l.SubmittedBy)
		if err != nil {
			slog.Error("failed to get listing submitter", "listing_id", l.ID, "error", err)
			return
		}
		recipient = submitter.Email
	}
	if recipient == "" {
		return
	}

	subject, body := render()
	n.service.SendAsync([]string{recipient}, subject, body)
}

package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"careconnect/internal/affinity"
	"careconnect/internal/config"
	"careconnect/internal/db"
	"careconnect/internal/email"
	"careconnect/internal/handlers"
	"careconnect/internal/handlers/api"
	"careconnect/internal/jobs"
	"careconnect/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, rdb *redis.Client, notifier *email.Notifier, banners *jobs.BannerCache) error {
	authMiddleware := middleware.NewAuthMiddleware(s.SessionStore, database)
	tracker := affinity.NewTracker(rdb)

	directoryHandler := api.NewDirectoryHandler(database, tracker, banners, s.Cfg.DirectoryPageSize)
	listingsHandler := api.NewListingsHandler(database, notifier)
	moderationHandler := api.NewModerationHandler(database, notifier)
	affinityHandler := api.NewAffinityHandler(database, tracker)
	healthHandler := api.NewHealthHandler(database, rdb)

	// Auth routes - OIDC is always required for submission and moderation
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. Submissions and moderation need authenticated users.")
	}

	roles, err := config.LoadRolesConfig(s.Cfg.RolesConfigFile)
	if err != nil {
		return err
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, roles, database)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)
	s.App.Get("/api/me", authMiddleware.RequireAuth, authHandler.Me)

	// Public directory
	s.App.Get("/api/directory", authMiddleware.OptionalAuth, directoryHandler.List)
	s.App.Get("/api/directory/banners", directoryHandler.Banners)
	s.App.Get("/api/directory/listings/:id", authMiddleware.OptionalAuth, directoryHandler.Show)

	// Affinity
	s.App.Post("/api/listings/:id/save", authMiddleware.RequireAuth, affinityHandler.ToggleSaved)
	s.App.Get("/api/me/saved", authMiddleware.RequireAuth, affinityHandler.Saved)
	s.App.Get("/api/me/recent", authMiddleware.OptionalAuth, affinityHandler.Recent)

	// Listing submission and self-service
	s.App.Post("/api/listings", authMiddleware.RequireAuth, listingsHandler.Submit)
	s.App.Get("/api/listings/:id", authMiddleware.OptionalAuth, listingsHandler.Get)
	s.App.Get("/api/me/listings", authMiddleware.RequireAuth, listingsHandler.Mine)
	s.App.Post("/api/listings/:id/resubmit", authMiddleware.RequireAuth, listingsHandler.Resubmit)
	s.App.Post("/api/listings/:id/promotions", authMiddleware.RequireAuth, listingsHandler.SubmitPromotion)
	s.App.Get("/api/listings/:id/promotions", authMiddleware.RequireAuth, listingsHandler.ListPromotions)

	// Moderation (coordinators only)
	s.App.Get("/api/moderation/queue", authMiddleware.RequireCoordinator, moderationHandler.Queue)
	s.App.Post("/api/moderation/listings/:id/approve", authMiddleware.RequireCoordinator, moderationHandler.ApproveListing)
	s.App.Post("/api/moderation/listings/:id/reject", authMiddleware.RequireCoordinator, moderationHandler.RejectListing)
	s.App.Post("/api/moderation/listings/:id/archive", authMiddleware.RequireCoordinator, moderationHandler.ArchiveListing)
	s.App.Post("/api/moderation/listings/:id/unarchive", authMiddleware.RequireCoordinator, moderationHandler.UnarchiveListing)
	s.App.Get("/api/moderation/promotions/:id", authMiddleware.RequireCoordinator, moderationHandler.GetPromotion)
	s.App.Post("/api/moderation/promotions/:id/approve", authMiddleware.RequireCoordinator, moderationHandler.ApprovePromotion)
	s.App.Post("/api/moderation/promotions/:id/reject", authMiddleware.RequireCoordinator, moderationHandler.RejectPromotion)
	s.App.Put("/api/moderation/promotions/:id/schedule", authMiddleware.RequireCoordinator, moderationHandler.EditPromotionSchedule)

	// Operational endpoints
	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return nil
}

package routes

import (
	"github.com/go-chi/chi/v5"

	"the-code-sage/guildhall/internal/api"
	"the-code-sage/guildhall/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware(deps.Services.Signer)) // global: all routes must be authenticated

		// Mission lifecycle and evaluations
		v1.Post("/missions", api.RegisterMissionHandler(deps))
		v1.Post("/missions/{missionID}/evaluations", api.EvaluateHandler(deps))
		v1.Post("/missions/{missionID}/reports", api.ReportEvaluationHandler(deps))
		v1.Post("/missions/{missionID}/close", api.CloseMissionHandler(deps))

		// Profiles and rankings
		v1.Get("/users/{userID}/profile", api.ProfileHandler(deps))
		v1.Get("/users/{userID}/position", api.LeaderboardPositionHandler(deps))
		v1.Get("/users/{userID}/inventory", api.InventoryHandler(deps))
		v1.Get("/leaderboard", api.LeaderboardHandler(deps))

		// Shop economy
		v1.Get("/shop", api.ListShopHandler(deps))
		v1.Post("/shop/buy", api.BuyItemHandler(deps))
		v1.Post("/shop/equip", api.EquipItemHandler(deps))
		v1.Post("/shop/unequip", api.UnequipItemHandler(deps))
		v1.Post("/shop/use", api.UseItemHandler(deps))

		// Member lifecycle, driven by bot gateway events
		v1.Post("/guild/sync", api.SyncMembersHandler(deps))
		v1.Post("/guild/members", api.MemberJoinHandler(deps))
		v1.Delete("/guild/members/{userID}", api.MemberLeaveHandler(deps))

		// Moderator-only group
		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.IsAdminMiddleware())

			admin.Patch("/missions/{missionID}/evaluations/{userID}", api.AdjustEvaluationHandler(deps))
		})
	})
}

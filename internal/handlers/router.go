package handlers

import (
	"net/http"

	"github.com/mmc102/partner-finder/internal/middleware"
	"github.com/mmc102/partner-finder/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Services bundles everything the HTTP layer calls into
type Services struct {
	Users     *services.UserService
	Social    *services.SocialService
	Interests *services.InterestService
	Feed      *services.FeedService
	Catalog   *services.CatalogService
	Hub       *services.WSHub
}

// NewRouter wires every route of the API
func NewRouter(svc Services) http.Handler {
	authHandler := NewAuthHandler(svc.Users)
	userHandler := NewUserHandler(svc.Users, svc.Social, svc.Feed, svc.Hub)
	climbHandler := NewClimbHandler(svc.Catalog, svc.Interests)
	areaHandler := NewAreaHandler(svc.Catalog)
	feedHandler := NewFeedHandler(svc.Feed, svc.Hub)
	wsHandler := NewWebSocketHandler(svc.Hub, svc.Users, svc.Feed)

	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/areas", areaHandler.ListRootAreas)
		r.Get("/areas/{area_id}", areaHandler.GetArea)
		r.Get("/climbs/{climb_id}", climbHandler.GetClimb)
		r.Get("/users/{user_id}", userHandler.GetProfile)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(svc.Users))

			r.Get("/dashboard", userHandler.Dashboard)
			r.Get("/users", userHandler.ListUsers)
			r.Get("/me/following", userHandler.ListFollowing)
			r.Get("/me/followers", userHandler.ListFollowers)
			r.Post("/users/{user_id}/follow", userHandler.Follow)

			r.Get("/climbs", climbHandler.ListClimbs)
			r.Post("/climbs/{climb_id}/interest", climbHandler.AddInterest)
			r.Delete("/climbs/{climb_id}/interest", climbHandler.RemoveInterest)

			r.Post("/areas/{area_id}/areas", areaHandler.AddArea)
			r.Post("/areas/{area_id}/climbs", areaHandler.AddClimb)

			r.Get("/feed", feedHandler.GetFeed)
			r.Get("/shared-interests", feedHandler.SharedInterests)
			r.Get("/notifications", feedHandler.GetNotifications)
			r.Get("/notifications/unread-count", feedHandler.UnreadCount)
			r.Post("/notifications/{notification_id}/read", feedHandler.MarkRead)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

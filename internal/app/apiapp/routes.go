package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/config"
	adminsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/admin"
	authsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/auth"
	connsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/connections"
	matchsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/matching"
	mediasvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/media"
	meetingsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/meetings"
	msgsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/messages"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/notify"
	profilesvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/profiles"
	ratesvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/rate"
	reviewsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/reviews"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService       *authsvc.Service
	ProfileService    *profilesvc.Service
	MatchingService   *matchsvc.Service
	ConnectionService *connsvc.Service
	MeetingService    *meetingsvc.Service
	MessageService    *msgsvc.Service
	ReviewService     *reviewsvc.Service
	AdminService      *adminsvc.Service
	MediaService      *mediasvc.Service
	Notifier          *notify.Service
	RateLimiter       *ratesvc.Limiter
	Logger            *zap.Logger
	Config            config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.Config.Auth.CookieName, deps.Config.Auth.CookieSecure)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchingService, deps.ConnectionService, deps.RateLimiter)
	meetingsHandler := handlers.NewMeetingsHandler(deps.MeetingService)
	messagesHandler := handlers.NewMessagesHandler(deps.MessageService, deps.RateLimiter)
	reviewsHandler := handlers.NewReviewsHandler(deps.ReviewService)
	adminHandler := handlers.NewAdminHandler(deps.AdminService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)
	eventsHandler := handlers.NewEventsHandler(deps.Notifier)

	authMW := AuthMiddleware(deps.AuthService, deps.Config.Auth.CookieName, deps.Logger)
	adminRoleMW := RequireRole("admin")

	r.Get("/healthz", healthHandler.Get)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/me", profileHandler.Me)
		r.Post("/findMatches", matchesHandler.FindMatches)
		r.Post("/sendRequest", matchesHandler.SendRequest)
		r.Get("/pendingRequests", matchesHandler.PendingRequests)
		r.Post("/respondRequest", matchesHandler.RespondRequest)
		r.Get("/connections", matchesHandler.Connections)
		r.Post("/unmatch", matchesHandler.Unmatch)
	})

	r.Route("/profile", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/", profileHandler.Me)
		r.Post("/core", profileHandler.UpdateCore)
		r.Post("/skills", profileHandler.UpdateSkills)
		r.Post("/availability", profileHandler.UpdateAvailability)
	})

	r.Route("/meetings", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/schedule", meetingsHandler.Schedule)
		r.Get("/upcoming", meetingsHandler.Upcoming)
		r.Post("/cancel", meetingsHandler.Cancel)
		r.Post("/complete", meetingsHandler.Complete)
	})

	r.Route("/messages", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/send", messagesHandler.Send)
		r.Get("/conversation", messagesHandler.Conversation)
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", reviewsHandler.Submit)
		r.Get("/user/{id}", reviewsHandler.ListForUser)
	})

	r.With(authMW).Post("/media/avatar", mediaHandler.AvatarUpload)
	r.With(authMW).Get("/media/avatar", mediaHandler.Avatar)

	r.With(authMW).Post("/report", adminHandler.SubmitReport)
	r.With(authMW).Get("/events/stream", eventsHandler.Stream)

	r.Route("/admin", func(r chi.Router) {
		r.Use(authMW, adminRoleMW)
		r.Get("/users", adminHandler.ListUsers)
		r.Post("/users/{id}/ban", adminHandler.Ban)
		r.Post("/users/{id}/unban", adminHandler.Unban)
		r.Get("/reports", adminHandler.ListReports)
		r.Post("/reports/{id}/resolve", adminHandler.ResolveReport)
		r.Delete("/connections", matchesHandler.EndConnection)
	})
}

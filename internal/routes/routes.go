package routes

import (
	"log/slog"
	"time"

	"github.com/cfkpezinok/club-backend/internal/config"
	"github.com/cfkpezinok/club-backend/internal/handlers"
	"github.com/cfkpezinok/club-backend/internal/middleware"
	"github.com/cfkpezinok/club-backend/internal/rpc"
	"github.com/cfkpezinok/club-backend/internal/services"
	"github.com/cfkpezinok/club-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// credentialProcedures get the stricter rate limit.
var credentialProcedures = []string{
	"trainer.login",
	"trainer.changePassword",
	"auth.register",
	"auth.login",
	"auth.refresh",
}

type Services struct {
	Players    *services.PlayerService
	Trainings  *services.TrainingService
	Attendance *services.AttendanceService
	Membership *services.MembershipService
	News       *services.NewsService
	Gallery    *services.GalleryService
	Trainers   *services.TrainerService
	Auth       *services.AuthService
}

// NewServices builds every service on one storage handle.
func NewServices(store *services.Storage, cfg *config.Config) Services {
	return Services{
		Players:    services.NewPlayerService(store),
		Trainings:  services.NewTrainingService(store),
		Attendance: services.NewAttendanceService(store),
		Membership: services.NewMembershipService(store),
		News:       services.NewNewsService(store),
		Gallery:    services.NewGalleryService(store),
		Trainers:   services.NewTrainerService(store),
		Auth:       services.NewAuthService(store, cfg),
	}
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, svc Services, sessions *session.Manager) *rpc.Router {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached:      tooManyRequests,
	}))

	healthHandler := handlers.NewHealthHandler(db)
	api.Get("/health", healthHandler.Check)

	router := rpc.NewRouter(rpc.Guards{
		Identify: []fiber.Handler{
			middleware.TrainerSession(sessions),
			middleware.UserToken(cfg),
		},
		Protected: middleware.RequirePrincipal(),
		Admin:     middleware.RequireAdmin(cfg),
	})

	modules := []handlers.Module{
		handlers.NewPlayerHandler(svc.Players),
		handlers.NewTrainingHandler(svc.Trainings),
		handlers.NewAttendanceHandler(svc.Attendance),
		handlers.NewMembershipHandler(svc.Membership),
		handlers.NewNewsHandler(svc.News),
		handlers.NewGalleryHandler(svc.Gallery),
		handlers.NewTrainerHandler(svc.Trainers, sessions),
		handlers.NewAuthHandler(svc.Auth),
		healthHandler,
	}
	for _, m := range modules {
		m.Register(router)
	}

	// Credential rate limit: 10 req/min per IP (stricter)
	credentials := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return "cred:" + c.IP() },
		LimitReached:      tooManyRequests,
	})
	for _, name := range credentialProcedures {
		router.Use(name, credentials)
	}

	router.Mount(api.Group("/rpc"))
	return router
}

// ErrorHandler renders errors that escape the handlers in the same envelope as
// procedure errors. Server error details are never exposed.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, body := rpc.FromError(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
	}
	return c.Status(status).JSON(body)
}

func tooManyRequests(c *fiber.Ctx) error {
	return rpc.WriteError(c, fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, slow down"))
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware, cfg.Auth.ChangePassword)

	tickets := app.Group("/tickets", cfg.AuthMiddleware)
	tickets.Post("", auth.RequireRole(domain.RoleUser, domain.RoleEmployee), cfg.Tickets.CreateTicket)
	tickets.Get("/submitted", auth.RequireRole(domain.RoleUser, domain.RoleEmployee), cfg.Tickets.ListSubmitted)
	tickets.Get("/assigned", auth.RequireRole(domain.RoleEmployee), cfg.Tickets.ListAssigned)
	tickets.Get("/unassigned", auth.RequireRole(domain.RoleEmployee, domain.RoleManager), cfg.Tickets.ListUnassigned)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id/submitted", auth.RequireRole(domain.RoleUser, domain.RoleEmployee), cfg.Tickets.EditSubmitted)
	tickets.Put("/:id/assigned", auth.RequireRole(domain.RoleEmployee), cfg.Tickets.EditAssigned)
	tickets.Post("/:id/assign", auth.RequireRole(domain.RoleEmployee, domain.RoleManager), cfg.Tickets.AssignTicket)
	tickets.Get("/:id/history", auth.RequireRole(domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin), cfg.Tickets.GetHistory)
	tickets.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.DeleteTicket)

	tickets.Get("/:id/comments", cfg.Comments.ListComments)
	tickets.Post("/:id/comments", cfg.Comments.PostComment)
	app.Delete("/comments/:id", cfg.AuthMiddleware, cfg.Comments.DeleteComment)

	users := app.Group("/users", cfg.AuthMiddleware)
	users.Get("", auth.RequireRole(domain.RoleAdmin), cfg.Users.ListUsers)
	users.Get("/me", cfg.Users.Me)
	users.Put("/:id/rights", auth.RequireRole(domain.RoleAdmin), cfg.Users.UpdateRights)

	stats := app.Group("/stats", cfg.AuthMiddleware, auth.RequireRole(domain.RoleManager))
	stats.Get("/tickets", cfg.Users.TicketCounts)
	stats.Get("/average", cfg.Users.AverageDays)
}

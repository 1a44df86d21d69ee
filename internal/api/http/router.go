package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/miayudatic/helpdesk/internal/api/http/handlers"
	"github.com/miayudatic/helpdesk/internal/auth"
	"github.com/miayudatic/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	MasterData     *handlers.MasterDataHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Ticket intake and the catalog lists
// behind the intake form stay public; everything else requires a staff token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/tickets", cfg.Tickets.Create)
	app.Get("/departments", cfg.MasterData.ListDepartments)
	app.Get("/service-types", cfg.MasterData.ListServiceTypes)

	app.Post("/auth/staff/login", cfg.Staff.Login)

	staffOnly := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := staffOnly.Group("/tickets")
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Get("/:id/history", cfg.Tickets.History)
	tickets.Post("/:id/assign", cfg.Tickets.Assign)
	tickets.Post("/:id/close", cfg.Tickets.Close)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Get("/:id/comments", cfg.Comments.List)
	tickets.Post("/:id/comments", cfg.Comments.Create)

	staffOnly.Get("/staff/options", cfg.MasterData.ListStaffOptions)
	staffOnly.Get("/health/metrics", cfg.Health.Metrics)

	admin := staffOnly.Group("/staff/members", auth.RequireRole(domain.StaffRoleAdmin))
	admin.Get("", cfg.Staff.List)
	admin.Post("", cfg.Staff.Create)
	admin.Get("/:id", cfg.Staff.Get)
	admin.Put("/:id", cfg.Staff.Update)
	admin.Delete("/:id", cfg.Staff.Delete)
}

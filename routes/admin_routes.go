package routes

import (
	"github.com/anjiri1684/estate_market/handlers"
	"github.com/anjiri1684/estate_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	admin := app.Group("/api/v1/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/audit-logs", handlers.GetAuditLogs)
}

package routes

import (
	"github.com/anjiri1684/estate_market/handlers"
	"github.com/anjiri1684/estate_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	notifications := api.Group("/notifications", middleware.Protected())
	notifications.Get("", handlers.ListNotifications)
	notifications.Patch("/read", handlers.MarkNotificationsRead)

	push := api.Group("/push", middleware.Protected())
	push.Post("/register", handlers.RegisterPushToken)
}

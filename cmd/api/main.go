package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/estate_market/configs"
	"github.com/anjiri1684/estate_market/database"
	"github.com/anjiri1684/estate_market/jobs"
	"github.com/anjiri1684/estate_market/notifications"
	"github.com/anjiri1684/estate_market/routes"
	"github.com/anjiri1684/estate_market/services"
	"github.com/anjiri1684/estate_market/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	c := cron.New()
	c.AddFunc("0 * * * *", jobs.SendUnreadDigests)
	c.AddFunc("30 3 * * *", jobs.PruneStalePushTokens)
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	registry := websocket.NewRegistry()
	dispatcher := notifications.NewDispatcher(config.ConfigInt("NOTIFICATION_QUEUE_SIZE", 256))
	fanout := websocket.NewFanout(registry, dispatcher)
	chatHandler := websocket.NewChatHandler(
		registry,
		fanout,
		services.NewChatService(),
		services.NewAuthService(),
		services.NewAuditLogService(),
	)

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Estate Market",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Estate Market API",
		})
	})

	routes.MessagingRoutes(app, chatHandler)
	routes.NotificationRoutes(app)
	routes.AdminRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		_ = app.Shutdown()
	}()

	log.Println("✅ Server is running on port 8080")
	if err := app.Listen(":8080"); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}

	registry.Clear()
	dispatcher.Stop()
	log.Println("✅ Server stopped cleanly")
}

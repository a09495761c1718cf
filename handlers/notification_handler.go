package handlers

import (
	"github.com/anjiri1684/estate_market/database"
	"github.com/anjiri1684/estate_market/models"
	"github.com/gofiber/fiber/v2"
)

func ListNotifications(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var notifications []models.Notification
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	return c.JSON(notifications)
}

func MarkNotificationsRead(c *fiber.Ctx) error {
	userID := currentUserID(c)

	type Request struct {
		IDs []uint `json:"ids" validate:"required,min=1"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND id IN ?", userID, req.IDs).
		Update("is_read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notifications read"})
	}

	return c.JSON(fiber.Map{"ok": true})
}

package handlers

import (
	"encoding/json"
	"time"

	"github.com/anjiri1684/estate_market/database"
	"github.com/anjiri1684/estate_market/models"
	"github.com/gofiber/fiber/v2"
)

// RegisterPushToken upserts the caller's mobile push token and/or browser
// push subscription.
func RegisterPushToken(c *fiber.Ctx) error {
	userID := currentUserID(c)

	type Request struct {
		ExpoToken           *string                `json:"expo_token"`
		WebPushSubscription map[string]interface{} `json:"web_push_subscription"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if req.ExpoToken == nil && req.WebPushSubscription == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to register"})
	}

	var webSub *string
	if req.WebPushSubscription != nil {
		raw, err := json.Marshal(req.WebPushSubscription)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid subscription"})
		}
		s := string(raw)
		webSub = &s
	}

	var token models.UserPushToken
	err := database.DB.First(&token, "user_id = ?", userID).Error
	if err != nil {
		token = models.UserPushToken{
			UserID:              userID,
			ExpoToken:           req.ExpoToken,
			WebPushSubscription: webSub,
		}
		if err := database.DB.Create(&token).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save push token"})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
	}

	if req.ExpoToken != nil {
		token.ExpoToken = req.ExpoToken
	}
	if webSub != nil {
		token.WebPushSubscription = webSub
	}
	token.UpdatedAt = time.Now()
	if err := database.DB.Save(&token).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save push token"})
	}

	return c.JSON(fiber.Map{"ok": true})
}

package handlers

import (
	"strconv"

	"github.com/anjiri1684/estate_market/database"
	"github.com/anjiri1684/estate_market/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var validate = validator.New()

func currentUserID(c *fiber.Ctx) uint {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	id, _ := claims["user_id"].(float64)
	return uint(id)
}

func GetUserConversations(c *fiber.Ctx) error {
	userID := currentUserID(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	offset := (page - 1) * pageSize

	var conversations []models.Conversation
	if err := database.DB.
		Where("owner_id = ? OR counterpart_id = ? OR mediator_id = ?", userID, userID, userID).
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&conversations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch conversations"})
	}

	return c.JSON(conversations)
}

func GetConversationMessages(c *fiber.Ctx) error {
	userID := currentUserID(c)
	conversationID, err := strconv.Atoi(c.Params("conversationId"))
	if err != nil || conversationID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation ID"})
	}

	var conversation models.Conversation
	if err := database.DB.First(&conversation, "id = ?", conversationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}
	if !conversation.HasParticipant(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not a participant of this conversation"})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "50"))
	offset := (page - 1) * pageSize

	var messages []models.Message
	if err := database.DB.
		Where("conversation_id = ?", conversationID).
		Order("created_at asc").
		Limit(pageSize).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}

	return c.JSON(messages)
}

func CreateOrGetConversation(c *fiber.Ctx) error {
	userID := currentUserID(c)

	type Request struct {
		CounterpartID *uint  `json:"counterpart_id"`
		MediatorID    *uint  `json:"mediator_id"`
		PropertyID    *uint  `json:"property_id"`
		Kind          string `json:"kind" validate:"required,oneof=peer support"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	query := database.DB.Where("owner_id = ? AND kind = ?", userID, req.Kind)
	if req.CounterpartID != nil {
		query = query.Where("counterpart_id = ?", *req.CounterpartID)
	} else {
		query = query.Where("counterpart_id IS NULL")
	}
	if req.PropertyID != nil {
		query = query.Where("property_id = ?", *req.PropertyID)
	} else {
		query = query.Where("property_id IS NULL")
	}

	var existing models.Conversation
	if err := query.First(&existing).Error; err == nil {
		return c.JSON(existing)
	}

	conversation := models.Conversation{
		OwnerID:       userID,
		CounterpartID: req.CounterpartID,
		MediatorID:    req.MediatorID,
		PropertyID:    req.PropertyID,
		Kind:          req.Kind,
	}
	if err := database.DB.Create(&conversation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create conversation"})
	}

	return c.Status(fiber.StatusCreated).JSON(conversation)
}

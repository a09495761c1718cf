package handlers

import (
	"strconv"

	"github.com/anjiri1684/estate_market/services"
	"github.com/gofiber/fiber/v2"
)

var auditService = services.NewAuditLogService()

// GetAuditLogs lets admins filter the audit trail.
func GetAuditLogs(c *fiber.Ctx) error {
	filter := services.AuditLogFilter{
		ResourceType: c.Query("resource_type"),
		Action:       c.Query("action"),
	}

	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user_id"})
		}
		uid := uint(id)
		filter.UserID = &uid
	}
	if raw := c.Query("resource_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource_id"})
		}
		rid := uint(id)
		filter.ResourceID = &rid
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.Query("page_size", "100"))
	filter.Offset = (page - 1) * filter.Limit

	logs, err := auditService.GetLogs(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch audit logs"})
	}

	return c.JSON(logs)
}

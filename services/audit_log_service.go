package services

import (
	"log"
	"time"

	"github.com/anjiri1684/estate_market/database"
	"github.com/anjiri1684/estate_market/models"
)

// AuditLogService writes and queries the audit trail.
type AuditLogService struct{}

func NewAuditLogService() *AuditLogService {
	return &AuditLogService{}
}

// RecordEvent persists an audit entry in the background. It never blocks and
// never fails the caller; insert errors are only logged.
func (s *AuditLogService) RecordEvent(action, resourceType string, resourceID, userID *uint, status string, statusCode int, errMessage string) {
	entry := models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Status:       status,
		StatusCode:   &statusCode,
	}
	if errMessage != "" {
		entry.ErrorMessage = &errMessage
	}

	go func() {
		if err := database.DB.Create(&entry).Error; err != nil {
			log.Printf("Failed to record audit event %s: %v", action, err)
		}
	}()
}

type AuditLogFilter struct {
	UserID       *uint
	ResourceType string
	ResourceID   *uint
	Action       string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}

func (s *AuditLogService) GetLogs(filter AuditLogFilter) ([]models.AuditLog, error) {
	query := database.DB.Model(&models.AuditLog{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ResourceType != "" {
		query = query.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.ResourceID != nil {
		query = query.Where("resource_id = ?", *filter.ResourceID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.StartDate != nil {
		query = query.Where("timestamp >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("timestamp <= ?", *filter.EndDate)
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	var logs []models.AuditLog
	err := query.Order("timestamp desc").Offset(filter.Offset).Limit(limit).Find(&logs).Error
	return logs, err
}

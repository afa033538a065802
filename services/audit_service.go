package services

import (
	"time"

	"gorm.io/gorm"

	"rental-marketplace-api/models"
)

// AuditService appends audit rows for accepted transitions and lease
// actions. Called from post-commit hooks only; a failed write is logged by
// the hook runner, never surfaced.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) Record(actorID int, action, resourceType string, resourceID int, before, after, metadata models.JSONMap) error {
	return s.db.Create(&models.AuditLog{
		UserID:       actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Before:       before,
		After:        after,
		Metadata:     metadata,
		CreatedAt:    time.Now(),
	}).Error
}

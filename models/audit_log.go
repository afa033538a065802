package models

import "time"

// AuditLog captures before/after state for every accepted transition and
// lease action. Rows are never deleted.
type AuditLog struct {
	LogID        int       `gorm:"primaryKey;column:log_id" json:"log_id"`
	UserID       int       `gorm:"column:user_id" json:"user_id"`
	Action       string    `gorm:"column:action" json:"action"`
	ResourceType string    `gorm:"column:resource_type" json:"resource_type"`
	ResourceID   int       `gorm:"column:resource_id" json:"resource_id"`
	Before       JSONMap   `gorm:"column:before_state;type:text" json:"before,omitempty"`
	After        JSONMap   `gorm:"column:after_state;type:text" json:"after,omitempty"`
	Metadata     JSONMap   `gorm:"column:metadata;type:text" json:"metadata,omitempty"`
	IPAddress    string    `gorm:"column:ip_address" json:"ip_address"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

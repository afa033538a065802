package models

import "time"

// Notification types the core emits. Payment and deposit events carry an
// idempotency window checked before insert (see services.NotificationService).
const (
	NotifyStatusChanged   = "status_changed"
	NotifyInfoRequested   = "info_requested"
	NotifyLeaseSent       = "lease_sent"
	NotifyLeaseAccepted   = "lease_accepted"
	NotifyLeaseDeclined   = "lease_declined"
	NotifyMoveInReady     = "move_in_ready"
	NotifyDepositRequired = "deposit_required"
	NotifyPaymentReceived = "payment_received"
	NotifyPaymentVerified = "payment_verified"
)

type Notification struct {
	NotificationID       uint       `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID               uint       `gorm:"column:user_id" json:"user_id"`
	Type                 string     `gorm:"column:type" json:"type"`
	Title                string     `gorm:"column:title" json:"title"`
	Message              string     `gorm:"column:message" json:"message"`
	RelatedApplicationID *uint      `gorm:"column:related_application_id" json:"related_application_id,omitempty"`
	IsRead               bool       `gorm:"column:is_read" json:"is_read"`
	CreateAt             time.Time  `gorm:"column:create_at" json:"created_at"`
	UpdateAt             *time.Time `gorm:"column:update_at" json:"-"`
}

func (Notification) TableName() string { return "application_notifications" }

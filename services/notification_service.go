package services

import (
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"rental-marketplace-api/config"
	"rental-marketplace-api/models"
)

// dedupWindows defines the idempotency window per notification type: an
// identical (user, type) notification inside the window suppresses the new
// one. Types not listed always send.
var dedupWindows = map[string]time.Duration{
	models.NotifyPaymentReceived: time.Hour,
	models.NotifyPaymentVerified: time.Hour,
	models.NotifyDepositRequired: 24 * time.Hour,
}

// MailFunc sends an HTML email. Injectable so tests never touch SMTP.
type MailFunc func(to []string, subject, html string) error

// NotificationService writes in-app notification rows and mirrors them as
// email. All methods are fire-and-forget from the caller's point of view:
// they run in post-commit hooks and their errors are logged, never
// propagated into the primary operation.
type NotificationService struct {
	db   *gorm.DB
	mail MailFunc
	now  func() time.Time
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db, mail: config.SendMail, now: time.Now}
}

// Notify records an in-app notification and sends the matching email. A
// duplicate inside the type's idempotency window is silently skipped.
func (s *NotificationService) Notify(userID int, notifType, subject, message string, applicationID *int) error {
	now := s.now()

	if window, windowed := dedupWindows[notifType]; windowed {
		var existing int64
		err := s.db.Model(&models.Notification{}).
			Where("user_id = ? AND type = ? AND create_at > ?", userID, notifType, now.Add(-window)).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("notification dedup check: %w", err)
		}
		if existing > 0 {
			return nil
		}
	}

	var relatedID *uint
	if applicationID != nil {
		v := uint(*applicationID)
		relatedID = &v
	}
	row := models.Notification{
		UserID:               uint(userID),
		Type:                 notifType,
		Title:                subject,
		Message:              message,
		RelatedApplicationID: relatedID,
		IsRead:               false,
		CreateAt:             now,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	var user models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		log.Printf("notification email skipped, recipient %d not found: %v", userID, err)
		return nil
	}
	s.sendMailSafe([]string{user.Email}, subject, buildNotificationEmailHTML(subject, user.FullName(), message))
	return nil
}

func (s *NotificationService) sendMailSafe(to []string, subject, html string) {
	if s.mail == nil {
		return
	}
	if err := s.mail(to, subject, html); err != nil {
		log.Printf("notification email send failed (subject=%q to=%v): %v", subject, to, err)
	}
}

func buildNotificationEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "there"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Hi %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}

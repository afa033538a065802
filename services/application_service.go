package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rental-marketplace-api/models"
)

// Actor identifies who is performing an operation. Resolved by the auth
// middleware; services only authorize, never authenticate.
type Actor struct {
	ID   int
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// reviewerStatuses are targets only the property owner, an agent managing
// the property, or an admin may set.
var reviewerStatuses = map[string]bool{
	models.StatusPaymentVerified:     true,
	models.StatusUnderReview:         true,
	models.StatusInfoRequested:       true,
	models.StatusConditionalApproval: true,
	models.StatusApproved:            true,
	models.StatusRejected:            true,
}

// ApplicationService orchestrates the application lifecycle: transition
// legality, role authority, history recording, and post-commit side
// effects.
type ApplicationService struct {
	db     *gorm.DB
	notify *NotificationService
	audit  *AuditService
}

func NewApplicationService(db *gorm.DB, notify *NotificationService, audit *AuditService) *ApplicationService {
	return &ApplicationService{db: db, notify: notify, audit: audit}
}

// ApplicationContent groups the applicant-supplied sections of a draft.
type ApplicationContent struct {
	PersonalInfo   models.JSONMap
	Employment     models.JSONMap
	RentalHistory  models.JSONMap
	Documents      models.JSONMap
	DocumentStatus models.JSONMap
	CustomAnswers  models.JSONMap
}

// CreateDraft opens a new application in draft status. At most one
// application may exist per (user, property) pair, regardless of status.
func (s *ApplicationService) CreateDraft(userID, propertyID int, content ApplicationContent) (*models.Application, error) {
	var property models.Property
	if err := s.db.Where("property_id = ? AND delete_at IS NULL", propertyID).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "property", ID: propertyID}
		}
		return nil, &DependencyError{Op: "load property", Err: err}
	}

	var existing int64
	err := s.db.Model(&models.Application{}).
		Where("user_id = ? AND property_id = ? AND delete_at IS NULL", userID, propertyID).
		Count(&existing).Error
	if err != nil {
		return nil, &DependencyError{Op: "duplicate application check", Err: err}
	}
	if existing > 0 {
		return nil, &ConflictError{Message: "an application for this property already exists"}
	}

	now := time.Now()
	app := models.Application{
		ReferenceNumber: "APP-" + strings.ToUpper(uuid.NewString()[:8]),
		PropertyID:      propertyID,
		UserID:          userID,
		Status:          models.StatusDraft,
		PersonalInfo:    content.PersonalInfo,
		Employment:      content.Employment,
		RentalHistory:   content.RentalHistory,
		Documents:       content.Documents,
		DocumentStatus:  content.DocumentStatus,
		CustomAnswers:   content.CustomAnswers,
		CreateAt:        now,
		UpdateAt:        now,
	}

	tx := s.db.Begin()
	if err := tx.Create(&app).Error; err != nil {
		tx.Rollback()
		return nil, &DependencyError{Op: "create application", Err: err}
	}
	if err := tx.Create(&models.StatusHistoryItem{
		ApplicationID: app.ApplicationID,
		Status:        models.StatusDraft,
		ChangedBy:     userID,
		ChangedAt:     now,
	}).Error; err != nil {
		tx.Rollback()
		return nil, &DependencyError{Op: "create status history", Err: err}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, &DependencyError{Op: "commit application", Err: err}
	}
	return &app, nil
}

// UpdateDraft replaces the applicant-supplied sections. Only the applicant
// (or an admin) may edit, and only while the application is still a draft.
func (s *ApplicationService) UpdateDraft(applicationID int, actor Actor, content ApplicationContent) (*models.Application, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if app.UserID != actor.ID && !actor.IsAdmin() {
		return nil, &AuthorizationError{Message: "only the applicant may edit this application"}
	}
	if app.Status != models.StatusDraft {
		return nil, &ValidationError{Message: "only draft applications can be edited"}
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	if content.PersonalInfo != nil {
		updates["personal_info"] = content.PersonalInfo
	}
	if content.Employment != nil {
		updates["employment"] = content.Employment
	}
	if content.RentalHistory != nil {
		updates["rental_history"] = content.RentalHistory
	}
	if content.Documents != nil {
		updates["documents"] = content.Documents
	}
	if content.DocumentStatus != nil {
		updates["document_status"] = content.DocumentStatus
	}
	if content.CustomAnswers != nil {
		updates["custom_answers"] = content.CustomAnswers
	}
	if err := s.db.Model(&models.Application{}).
		Where("application_id = ?", applicationID).
		Updates(updates).Error; err != nil {
		return nil, &DependencyError{Op: "update draft", Err: err}
	}
	return s.loadApplication(applicationID)
}

// AddCoApplicant attaches a co-applicant whose income counts toward the
// scoring aggregate.
func (s *ApplicationService) AddCoApplicant(applicationID int, actor Actor, co models.CoApplicant) (*models.CoApplicant, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if app.UserID != actor.ID && !actor.IsAdmin() {
		return nil, &AuthorizationError{Message: "only the applicant may add co-applicants"}
	}
	if IsTerminalStatus(app.Status) {
		return nil, &ValidationError{Message: "application is already finalized"}
	}
	co.ApplicationID = applicationID
	co.CreateAt = time.Now()
	if err := s.db.Create(&co).Error; err != nil {
		return nil, &DependencyError{Op: "create co-applicant", Err: err}
	}
	return &co, nil
}

// RemoveCoApplicant soft deletes a co-applicant; their income no longer
// counts toward scoring.
func (s *ApplicationService) RemoveCoApplicant(applicationID, coApplicantID int, actor Actor) error {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return err
	}
	if app.UserID != actor.ID && !actor.IsAdmin() {
		return &AuthorizationError{Message: "only the applicant may remove co-applicants"}
	}
	if IsTerminalStatus(app.Status) {
		return &ValidationError{Message: "application is already finalized"}
	}

	result := s.db.Model(&models.CoApplicant{}).
		Where("co_applicant_id = ? AND application_id = ? AND delete_at IS NULL", coApplicantID, applicationID).
		Update("delete_at", time.Now())
	if result.Error != nil {
		return &DependencyError{Op: "remove co-applicant", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Resource: "co-applicant", ID: coApplicantID}
	}
	return nil
}

// transitionOptions carries status-specific column updates, the history
// reason, and the notification text for one transition.
type transitionOptions struct {
	reason       *string
	updates      map[string]interface{}
	notifType    string
	notifSubject string
	notifMessage string
}

// Submit moves a draft (or payment-verified) application into review
// intake. The duplicate-application guard is a precondition here, not a
// transition concern.
func (s *ApplicationService) Submit(applicationID int, actor Actor) (*models.Application, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}

	var others int64
	err = s.db.Model(&models.Application{}).
		Where("user_id = ? AND property_id = ? AND application_id <> ? AND delete_at IS NULL",
			app.UserID, app.PropertyID, app.ApplicationID).
		Count(&others).Error
	if err != nil {
		return nil, &DependencyError{Op: "duplicate application check", Err: err}
	}
	if others > 0 {
		return nil, &ConflictError{Message: "another application for this property already exists"}
	}

	now := time.Now()
	return s.changeStatus(app, models.StatusSubmitted, actor, transitionOptions{
		updates:      map[string]interface{}{"submitted_at": now},
		notifType:    models.NotifyStatusChanged,
		notifSubject: "New rental application received",
		notifMessage: fmt.Sprintf("Application %s has been submitted for your property.", app.ReferenceNumber),
	})
}

// StartReview moves a submitted application into under_review.
func (s *ApplicationService) StartReview(applicationID int, actor Actor) (*models.Application, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	return s.changeStatus(app, models.StatusUnderReview, actor, transitionOptions{
		updates:      map[string]interface{}{"reviewed_at": time.Now()},
		notifType:    models.NotifyStatusChanged,
		notifSubject: "Your application is under review",
		notifMessage: fmt.Sprintf("Application %s is now being reviewed.", app.ReferenceNumber),
	})
}

// Approve finalizes the application and opens the lease workflow.
func (s *ApplicationService) Approve(applicationID int, actor Actor) (*models.Application, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	return s.changeStatus(app, models.StatusApproved, actor, transitionOptions{
		notifType:    models.NotifyStatusChanged,
		notifSubject: "Your application was approved",
		notifMessage: fmt.Sprintf("Congratulations! Application %s has been approved. Lease preparation will begin shortly.", app.ReferenceNumber),
	})
}

// Reject finalizes the application with a categorized reason. Rejections
// are appealable unless the category is background_check.
func (s *ApplicationService) Reject(applicationID int, actor Actor, category, reason, details string) (*models.Application, error) {
	category = strings.TrimSpace(category)
	reason = strings.TrimSpace(reason)
	if category == "" {
		return nil, &ValidationError{Field: "category", Message: "rejection category is required"}
	}
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Message: "rejection reason is required"}
	}

	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}

	rejectionDetails := models.JSONMap{
		"appealable": category != "background_check",
	}
	if strings.TrimSpace(details) != "" {
		rejectionDetails["details"] = strings.TrimSpace(details)
	}

	return s.changeStatus(app, models.StatusRejected, actor, transitionOptions{
		reason: &reason,
		updates: map[string]interface{}{
			"rejection_category": category,
			"rejection_reason":   reason,
			"rejection_details":  rejectionDetails,
		},
		notifType:    models.NotifyStatusChanged,
		notifSubject: "Your application was not approved",
		notifMessage: fmt.Sprintf("Application %s was rejected: %s", app.ReferenceNumber, reason),
	})
}

// RequestInfo asks the applicant for additional information or documents.
func (s *ApplicationService) RequestInfo(applicationID int, actor Actor, reason string, dueDate *time.Time) (*models.Application, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Message: "an explanation of the requested information is required"}
	}

	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"info_requested_at":   time.Now(),
		"info_request_reason": reason,
	}
	if dueDate != nil {
		updates["info_request_due_date"] = *dueDate
	}
	return s.changeStatus(app, models.StatusInfoRequested, actor, transitionOptions{
		reason:       &reason,
		updates:      updates,
		notifType:    models.NotifyInfoRequested,
		notifSubject: "More information needed for your application",
		notifMessage: fmt.Sprintf("Application %s needs attention: %s", app.ReferenceNumber, reason),
	})
}

// ConditionallyApprove approves subject to listed requirements.
func (s *ApplicationService) ConditionallyApprove(applicationID int, actor Actor, requirements []string, dueDate *time.Time) (*models.Application, error) {
	trimmed := make([]string, 0, len(requirements))
	for _, r := range requirements {
		if t := strings.TrimSpace(r); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	if len(trimmed) == 0 {
		return nil, &ValidationError{Field: "requirements", Message: "at least one requirement is required"}
	}

	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"conditional_approval_at":  time.Now(),
		"conditional_requirements": models.StringList(trimmed),
	}
	if dueDate != nil {
		updates["conditional_due_date"] = *dueDate
	}
	return s.changeStatus(app, models.StatusConditionalApproval, actor, transitionOptions{
		updates:      updates,
		notifType:    models.NotifyStatusChanged,
		notifSubject: "Your application was conditionally approved",
		notifMessage: fmt.Sprintf("Application %s is approved pending: %s", app.ReferenceNumber, strings.Join(trimmed, "; ")),
	})
}

// Withdraw lets the applicant (or an admin) pull the application.
func (s *ApplicationService) Withdraw(applicationID int, actor Actor, reason *string) (*models.Application, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Application %s has been withdrawn.", app.ReferenceNumber)
	if reason != nil && strings.TrimSpace(*reason) != "" {
		message = fmt.Sprintf("Application %s has been withdrawn: %s", app.ReferenceNumber, strings.TrimSpace(*reason))
	}
	return s.changeStatus(app, models.StatusWithdrawn, actor, transitionOptions{
		reason:       reason,
		notifType:    models.NotifyStatusChanged,
		notifSubject: "Application withdrawn",
		notifMessage: message,
	})
}

// ChangeStatus is the generic command surface for a raw status move.
func (s *ApplicationService) ChangeStatus(applicationID int, next string, actor Actor, reason *string) (*models.Application, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	message := fmt.Sprintf("Application %s status changed to %s.", app.ReferenceNumber, next)
	if reason != nil && strings.TrimSpace(*reason) != "" {
		message += " Reason: " + strings.TrimSpace(*reason)
	}
	return s.changeStatus(app, next, actor, transitionOptions{
		reason:       reason,
		notifType:    models.NotifyStatusChanged,
		notifSubject: "Application status updated",
		notifMessage: message,
	})
}

// changeStatus runs the full transition pipeline: authority, guard,
// atomic status+history mutation, then isolated side effects. The write is
// conditional on the status read during the guard check; losing that race
// surfaces as a ConflictError rather than a silent lost update.
func (s *ApplicationService) changeStatus(app *models.Application, next string, actor Actor, opts transitionOptions) (*models.Application, error) {
	if err := s.authorizeTransition(app, next, actor); err != nil {
		return nil, err
	}
	if !IsValidTransition(app.Status, next) {
		return nil, &InvalidTransitionError{From: app.Status, To: next, Allowed: AllowedTransitions(app.Status)}
	}

	now := time.Now()
	previous := app.Status

	updates := map[string]interface{}{
		"status":          next,
		"previous_status": previous,
		"update_at":       now,
	}
	// Approval opens the lease workflow whichever surface performed the
	// transition.
	if next == models.StatusApproved {
		updates["lease_status"] = models.LeaseStatusPreparation
	}
	for col, val := range opts.updates {
		updates[col] = val
	}

	tx := s.db.Begin()
	result := tx.Model(&models.Application{}).
		Where("application_id = ? AND status = ?", app.ApplicationID, previous).
		Updates(updates)
	if result.Error != nil {
		tx.Rollback()
		return nil, &DependencyError{Op: "update application status", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, &ConflictError{Message: "application status changed concurrently, please retry"}
	}
	if err := tx.Create(&models.StatusHistoryItem{
		ApplicationID: app.ApplicationID,
		Status:        next,
		ChangedBy:     actor.ID,
		Reason:        opts.reason,
		ChangedAt:     now,
	}).Error; err != nil {
		tx.Rollback()
		return nil, &DependencyError{Op: "append status history", Err: err}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, &DependencyError{Op: "commit status change", Err: err}
	}

	s.runTransitionHooks(app, previous, next, actor, opts)

	return s.loadApplication(app.ApplicationID)
}

func (s *ApplicationService) runTransitionHooks(app *models.Application, previous, next string, actor Actor, opts transitionOptions) {
	// Notify the counter-party: the owner when the applicant acted, the
	// applicant otherwise.
	recipient := app.Property.OwnerID
	if actor.ID != app.UserID {
		recipient = app.UserID
	}
	appID := app.ApplicationID

	hooks := []func() error{
		func() error {
			return s.notify.Notify(recipient, opts.notifType, opts.notifSubject, opts.notifMessage, &appID)
		},
		func() error {
			return s.audit.Record(actor.ID, "status_change", "application", app.ApplicationID,
				models.JSONMap{"status": previous},
				models.JSONMap{"status": next},
				nil)
		},
	}
	runPostCommitHooks("application status change", hooks)
}

func (s *ApplicationService) authorizeTransition(app *models.Application, next string, actor Actor) error {
	switch {
	case next == models.StatusWithdrawn:
		if actor.ID == app.UserID || actor.IsAdmin() {
			return nil
		}
		return &AuthorizationError{Message: "only the applicant or an admin may withdraw an application"}
	case reviewerStatuses[next]:
		if actor.IsAdmin() || app.Property.ManagedBy(actor.ID) {
			return nil
		}
		return &AuthorizationError{Message: "only the property owner, a managing agent, or an admin may review applications"}
	default:
		if actor.ID == app.UserID || actor.IsAdmin() {
			return nil
		}
		return &AuthorizationError{Message: "only the applicant may perform this action"}
	}
}

// RecalculateScore runs the scoring engine and persists the breakdown.
// Review-side only, and never on drafts.
func (s *ApplicationService) RecalculateScore(applicationID int, actor Actor) (*ScoreBreakdown, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !app.Property.ManagedBy(actor.ID) {
		return nil, &AuthorizationError{Message: "only the property owner, a managing agent, or an admin may score applications"}
	}
	if app.Status == models.StatusDraft {
		return nil, &ValidationError{Message: "draft applications cannot be scored"}
	}

	var coApplicants []models.CoApplicant
	if err := s.db.Where("application_id = ? AND delete_at IS NULL", applicationID).Find(&coApplicants).Error; err != nil {
		return nil, &DependencyError{Op: "load co-applicants", Err: err}
	}

	breakdown := ScoreApplication(app, coApplicants)
	stored := breakdown.ToJSONMap()
	now := time.Now()
	if err := s.db.Model(&models.Application{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]interface{}{
			"score":           breakdown.TotalScore,
			"score_breakdown": &stored,
			"scored_at":       now,
			"update_at":       now,
		}).Error; err != nil {
		return nil, &DependencyError{Op: "persist score", Err: err}
	}
	return &breakdown, nil
}

// CompareApplications lists a property's reviewable applications ordered by
// score descending, unscored last. Owner or admin only.
func (s *ApplicationService) CompareApplications(propertyID int, actor Actor) ([]models.Application, error) {
	var property models.Property
	if err := s.db.Where("property_id = ? AND delete_at IS NULL", propertyID).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "property", ID: propertyID}
		}
		return nil, &DependencyError{Op: "load property", Err: err}
	}
	if !actor.IsAdmin() && property.OwnerID != actor.ID {
		return nil, &AuthorizationError{Message: "only the property owner or an admin may compare applications"}
	}

	var applications []models.Application
	err := s.db.Preload("Applicant").Preload("CoApplicants").
		Where("property_id = ? AND delete_at IS NULL", propertyID).
		Where("status NOT IN ?", []string{models.StatusDraft, models.StatusWithdrawn}).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("score IS NULL, score DESC").
		Find(&applications).Error
	if err != nil {
		return nil, &DependencyError{Op: "list applications", Err: err}
	}
	return applications, nil
}

// ExpireStaleDrafts withdraws drafts older than the cutoff with reason
// "inactivity". Safe to run repeatedly; drafts already withdrawn are not
// drafts anymore and fall out of the query.
func (s *ApplicationService) ExpireStaleDrafts(maxAgeDays int) (int, error) {
	if maxAgeDays <= 0 {
		return 0, &ValidationError{Field: "maxAgeDays", Message: "must be positive"}
	}
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	var stale []models.Application
	err := s.db.Where("status = ? AND create_at < ? AND delete_at IS NULL", models.StatusDraft, cutoff).
		Find(&stale).Error
	if err != nil {
		return 0, &DependencyError{Op: "list stale drafts", Err: err}
	}

	reason := "inactivity"
	expired := 0
	for i := range stale {
		app := stale[i]
		now := time.Now()

		tx := s.db.Begin()
		result := tx.Model(&models.Application{}).
			Where("application_id = ? AND status = ?", app.ApplicationID, models.StatusDraft).
			Updates(map[string]interface{}{
				"status":          models.StatusWithdrawn,
				"previous_status": models.StatusDraft,
				"update_at":       now,
			})
		if result.Error != nil {
			tx.Rollback()
			return expired, &DependencyError{Op: "expire stale draft", Err: result.Error}
		}
		if result.RowsAffected == 0 {
			// Lost the race to a concurrent transition; nothing to expire.
			tx.Rollback()
			continue
		}
		if err := tx.Create(&models.StatusHistoryItem{
			ApplicationID: app.ApplicationID,
			Status:        models.StatusWithdrawn,
			ChangedBy:     0,
			Reason:        &reason,
			ChangedAt:     now,
		}).Error; err != nil {
			tx.Rollback()
			return expired, &DependencyError{Op: "append status history", Err: err}
		}
		if err := tx.Commit().Error; err != nil {
			return expired, &DependencyError{Op: "commit draft expiry", Err: err}
		}

		appID := app.ApplicationID
		userID := app.UserID
		reference := app.ReferenceNumber
		runPostCommitHooks("draft expiry", []func() error{
			func() error {
				return s.notify.Notify(userID, models.NotifyStatusChanged,
					"Application withdrawn",
					fmt.Sprintf("Application %s was withdrawn after %d days of inactivity.", reference, maxAgeDays),
					&appID)
			},
			func() error {
				return s.audit.Record(0, "status_change", "application", appID,
					models.JSONMap{"status": models.StatusDraft},
					models.JSONMap{"status": models.StatusWithdrawn},
					models.JSONMap{"reason": reason})
			},
		})
		expired++
	}
	return expired, nil
}

// SoftDelete marks the application deleted. Rows are retained for audit;
// nothing is ever hard-deleted.
func (s *ApplicationService) SoftDelete(applicationID int, actor Actor) error {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return err
	}
	if app.UserID != actor.ID && !actor.IsAdmin() {
		return &AuthorizationError{Message: "only the applicant or an admin may delete an application"}
	}
	now := time.Now()
	if err := s.db.Model(&models.Application{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now}).Error; err != nil {
		return &DependencyError{Op: "soft delete application", Err: err}
	}
	return nil
}

func (s *ApplicationService) loadApplication(applicationID int) (*models.Application, error) {
	var app models.Application
	err := s.db.Preload("Property").
		Where("application_id = ? AND delete_at IS NULL", applicationID).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "application", ID: applicationID}
		}
		return nil, &DependencyError{Op: "load application", Err: err}
	}
	return &app, nil
}

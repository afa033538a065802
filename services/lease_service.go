package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"rental-marketplace-api/models"
)

// LeaseService drives the lease workflow hung off an approved application:
// versioned draft editing, send/accept/decline, signature sequencing, and
// move-in preparation.
type LeaseService struct {
	db     *gorm.DB
	notify *NotificationService
	audit  *AuditService
}

func NewLeaseService(db *gorm.DB, notify *NotificationService, audit *AuditService) *LeaseService {
	return &LeaseService{db: db, notify: notify, audit: audit}
}

// LeaseDraftInput carries the editable lease terms.
type LeaseDraftInput struct {
	RentAmount       *float64
	SecurityDeposit  *float64
	RentDueDay       *int
	LeaseStartDate   *time.Time
	LeaseEndDate     *time.Time
	Content          *string
	CustomClauses    models.JSONMap
	SignatureEnabled *bool
}

// CreateDraft opens version 1 of the lease draft for an approved
// application, optionally seeded from an existing draft template.
func (s *LeaseService) CreateDraft(applicationID int, actor Actor, input LeaseDraftInput, templateID *int) (*models.LeaseDraft, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(app, actor); err != nil {
		return nil, err
	}
	if app.Status != models.StatusApproved {
		return nil, &ValidationError{Message: "lease drafts require an approved application"}
	}

	var existing int64
	if err := s.db.Model(&models.LeaseDraft{}).
		Where("application_id = ? AND delete_at IS NULL", applicationID).
		Count(&existing).Error; err != nil {
		return nil, &DependencyError{Op: "check existing draft", Err: err}
	}
	if existing > 0 {
		return nil, &ConflictError{Message: "a lease draft already exists for this application"}
	}

	now := time.Now()
	draft := models.LeaseDraft{
		ApplicationID: applicationID,
		Version:       1,
		Status:        models.DraftStatusDraft,
		RentDueDay:    1,
		CreateAt:      now,
		UpdateAt:      now,
	}

	if templateID != nil {
		var tpl models.LeaseDraft
		if err := s.db.Where("draft_id = ? AND delete_at IS NULL", *templateID).First(&tpl).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Resource: "lease draft template", ID: *templateID}
			}
			return nil, &DependencyError{Op: "load draft template", Err: err}
		}
		draft.RentAmount = tpl.RentAmount
		draft.SecurityDeposit = tpl.SecurityDeposit
		draft.CustomClauses = tpl.CustomClauses
	}
	applyDraftInput(&draft, input)

	if err := s.db.Create(&draft).Error; err != nil {
		return nil, &DependencyError{Op: "create lease draft", Err: err}
	}
	return &draft, nil
}

// UpdateDraft bumps the version and records which terms changed. Edits are
// rejected outright once the tenant has accepted the lease.
func (s *LeaseService) UpdateDraft(applicationID int, actor Actor, input LeaseDraftInput) (*models.LeaseDraft, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(app, actor); err != nil {
		return nil, err
	}
	if app.LeaseStatus != nil && *app.LeaseStatus == models.LeaseStatusAccepted {
		return nil, &ConflictError{Message: "lease has been accepted and can no longer be edited"}
	}

	draft, err := s.currentDraft(applicationID)
	if err != nil {
		return nil, err
	}

	previous := models.JSONMap{}
	var changed []string
	if input.RentAmount != nil && *input.RentAmount != draft.RentAmount {
		previous["rentAmount"] = draft.RentAmount
		changed = append(changed, "rentAmount")
	}
	if input.SecurityDeposit != nil && *input.SecurityDeposit != draft.SecurityDeposit {
		previous["securityDeposit"] = draft.SecurityDeposit
		changed = append(changed, "securityDeposit")
	}
	if input.LeaseStartDate != nil && !sameTimePtr(input.LeaseStartDate, draft.LeaseStartDate) {
		if draft.LeaseStartDate != nil {
			previous["leaseStartDate"] = draft.LeaseStartDate.Format("2006-01-02")
		}
		changed = append(changed, "leaseStartDate")
	}
	if input.LeaseEndDate != nil && !sameTimePtr(input.LeaseEndDate, draft.LeaseEndDate) {
		if draft.LeaseEndDate != nil {
			previous["leaseEndDate"] = draft.LeaseEndDate.Format("2006-01-02")
		}
		changed = append(changed, "leaseEndDate")
	}

	applyDraftInput(draft, input)
	now := time.Now()
	draft.Version++
	draft.Status = models.DraftStatusDraft
	draft.UpdateAt = now

	description := "Draft edited"
	if len(changed) > 0 {
		description = "Changed " + strings.Join(changed, ", ")
	}

	tx := s.db.Begin()
	if err := tx.Save(draft).Error; err != nil {
		tx.Rollback()
		return nil, &DependencyError{Op: "update lease draft", Err: err}
	}
	if err := tx.Create(&models.LeaseDraftChange{
		DraftID:        draft.DraftID,
		Version:        draft.Version,
		ChangedBy:      actor.ID,
		Description:    description,
		PreviousValues: previous,
		ChangedAt:      now,
	}).Error; err != nil {
		tx.Rollback()
		return nil, &DependencyError{Op: "record draft change", Err: err}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, &DependencyError{Op: "commit draft update", Err: err}
	}
	return draft, nil
}

// MarkReady flags the current draft version as ready to send, signalling
// that editing is done. Editing again drops the draft back to draft status.
func (s *LeaseService) MarkReady(applicationID int, actor Actor) (*models.LeaseDraft, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(app, actor); err != nil {
		return nil, err
	}
	draft, err := s.currentDraft(applicationID)
	if err != nil {
		return nil, err
	}
	if draft.Status == models.DraftStatusSent {
		return nil, &ConflictError{Message: "the draft has already been sent"}
	}

	now := time.Now()
	if err := s.db.Model(&models.LeaseDraft{}).
		Where("draft_id = ?", draft.DraftID).
		Updates(map[string]interface{}{"status": models.DraftStatusReadyToSend, "update_at": now}).Error; err != nil {
		return nil, &DependencyError{Op: "mark draft ready", Err: err}
	}
	draft.Status = models.DraftStatusReadyToSend
	draft.UpdateAt = now
	return draft, nil
}

// Send marks the current draft version sent and notifies the tenant.
// Re-sending an already sent lease is allowed.
func (s *LeaseService) Send(applicationID int, actor Actor) (*models.Application, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(app, actor); err != nil {
		return nil, err
	}
	draft, err := s.currentDraft(applicationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	app, err = s.changeLeaseStatus(app, models.LeaseStatusSent, actor, map[string]interface{}{
		"lease_sent_at": now,
		"lease_sent_by": actor.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.LeaseDraft{}).
		Where("draft_id = ?", draft.DraftID).
		Updates(map[string]interface{}{"status": models.DraftStatusSent, "update_at": now}).Error; err != nil {
		return nil, &DependencyError{Op: "mark draft sent", Err: err}
	}

	appID := app.ApplicationID
	runPostCommitHooks("lease send", []func() error{
		func() error {
			return s.notify.Notify(app.UserID, models.NotifyLeaseSent,
				"Your lease is ready to review",
				fmt.Sprintf("The lease for application %s has been sent for your review.", app.ReferenceNumber),
				&appID)
		},
		func() error {
			return s.audit.Record(actor.ID, "lease_sent", "application", appID, nil, nil,
				models.JSONMap{"draft_version": draft.Version})
		},
	})
	return app, nil
}

// Accept is tenant-only. Accepting a lease with a security deposit lazily
// creates the backing Lease entity and a single pending deposit payment due
// in seven days.
func (s *LeaseService) Accept(applicationID int, actor Actor) (*models.Application, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTenant(app, actor); err != nil {
		return nil, err
	}
	draft, err := s.currentDraft(applicationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if app.LeaseStatus != nil && *app.LeaseStatus == models.LeaseStatusAccepted {
		// The acceptance already committed; a prior run may have failed
		// before provisioning, so finish that instead of refusing the guard.
		if draft.SecurityDeposit > 0 {
			if err := s.ensureLeaseWithDeposit(app, draft, now); err != nil {
				return nil, err
			}
		}
		return app, nil
	}

	app, err = s.changeLeaseStatus(app, models.LeaseStatusAccepted, actor, map[string]interface{}{
		"lease_accepted_at": now,
	})
	if err != nil {
		return nil, err
	}

	hooks := []func() error{
		func() error {
			ownerID := app.Property.OwnerID
			appID := app.ApplicationID
			return s.notify.Notify(ownerID, models.NotifyLeaseAccepted,
				"Lease accepted",
				fmt.Sprintf("The tenant has accepted the lease for application %s.", app.ReferenceNumber),
				&appID)
		},
		func() error {
			return s.audit.Record(actor.ID, "lease_accepted", "application", app.ApplicationID, nil, nil, nil)
		},
	}

	if draft.SecurityDeposit > 0 {
		// Provisioning is idempotent; if it fails here, a second Accept
		// re-runs it without duplicating lease or payment.
		if err := s.ensureLeaseWithDeposit(app, draft, now); err != nil {
			return nil, err
		}
		hooks = append(hooks, func() error {
			appID := app.ApplicationID
			return s.notify.Notify(app.UserID, models.NotifyDepositRequired,
				"Security deposit required",
				fmt.Sprintf("A security deposit of %.2f is due within 7 days to finalize application %s.",
					draft.SecurityDeposit, app.ReferenceNumber),
				&appID)
		})
	}

	runPostCommitHooks("lease accept", hooks)
	return app, nil
}

// ensureLeaseWithDeposit creates the Lease entity and its deposit payment
// exactly once, tolerating reruns after partial prior attempts.
func (s *LeaseService) ensureLeaseWithDeposit(app *models.Application, draft *models.LeaseDraft, now time.Time) error {
	var lease models.Lease
	err := s.db.Where("application_id = ? AND delete_at IS NULL", app.ApplicationID).First(&lease).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		start := now
		end := now.AddDate(1, 0, 0)
		if draft.LeaseStartDate != nil {
			start = *draft.LeaseStartDate
		}
		if draft.LeaseEndDate != nil {
			end = *draft.LeaseEndDate
		}
		lease = models.Lease{
			ApplicationID:         app.ApplicationID,
			PropertyID:            app.PropertyID,
			TenantID:              app.UserID,
			LandlordID:            app.Property.OwnerID,
			MonthlyRent:           draft.RentAmount,
			SecurityDepositAmount: draft.SecurityDeposit,
			RentDueDay:            draft.RentDueDay,
			LeaseStartDate:        start,
			LeaseEndDate:          end,
			Status:                models.LeaseActive,
			CreateAt:              now,
			UpdateAt:              now,
		}
		if err := s.db.Create(&lease).Error; err != nil {
			return &DependencyError{Op: "create lease", Err: err}
		}
	} else if err != nil {
		return &DependencyError{Op: "load lease", Err: err}
	}

	var deposits int64
	err = s.db.Model(&models.Payment{}).
		Where("lease_id = ? AND type = ?", lease.LeaseID, models.PaymentTypeSecurityDeposit).
		Count(&deposits).Error
	if err != nil {
		return &DependencyError{Op: "check deposit payment", Err: err}
	}
	if deposits == 0 {
		payment := models.Payment{
			LeaseID:  lease.LeaseID,
			Type:     models.PaymentTypeSecurityDeposit,
			Amount:   draft.SecurityDeposit,
			DueDate:  now.AddDate(0, 0, 7),
			Status:   models.PaymentPending,
			CreateAt: now,
			UpdateAt: now,
		}
		if err := s.db.Create(&payment).Error; err != nil {
			return &DependencyError{Op: "create deposit payment", Err: err}
		}
	}
	return nil
}

// Decline is tenant-only and sends the workflow back for rework.
func (s *LeaseService) Decline(applicationID int, actor Actor, reason *string) (*models.Application, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTenant(app, actor); err != nil {
		return nil, err
	}

	app, err = s.changeLeaseStatus(app, models.LeaseStatusDeclined, actor, nil)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("The tenant has declined the lease for application %s.", app.ReferenceNumber)
	if reason != nil && strings.TrimSpace(*reason) != "" {
		message += " Reason: " + strings.TrimSpace(*reason)
	}
	appID := app.ApplicationID
	runPostCommitHooks("lease decline", []func() error{
		func() error {
			return s.notify.Notify(app.Property.OwnerID, models.NotifyLeaseDeclined,
				"Lease declined", message, &appID)
		},
		func() error {
			return s.audit.Record(actor.ID, "lease_declined", "application", appID, nil, nil, nil)
		},
	})
	return app, nil
}

// Rework reopens a declined lease for editing.
func (s *LeaseService) Rework(applicationID int, actor Actor) (*models.Application, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(app, actor); err != nil {
		return nil, err
	}
	return s.changeLeaseStatus(app, models.LeaseStatusPreparation, actor, nil)
}

// Sign records the tenant signature. The tenant always signs before the
// landlord may countersign.
func (s *LeaseService) Sign(applicationID int, actor Actor) (*models.LeaseSignature, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTenant(app, actor); err != nil {
		return nil, err
	}
	if app.LeaseStatus == nil || *app.LeaseStatus != models.LeaseStatusAccepted {
		return nil, &ValidationError{Message: "the lease must be accepted before signing"}
	}
	draft, err := s.currentDraft(applicationID)
	if err != nil {
		return nil, err
	}
	if !draft.SignatureEnabled {
		return nil, &ValidationError{Message: "electronic signature is not enabled for this lease"}
	}

	return s.recordSignature(app, actor, models.SignerRoleTenant)
}

// Countersign records the landlord-side signature. It fails while no tenant
// signature exists.
func (s *LeaseService) Countersign(applicationID int, actor Actor) (*models.LeaseSignature, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(app, actor); err != nil {
		return nil, err
	}

	var tenantSignatures int64
	err = s.db.Model(&models.LeaseSignature{}).
		Where("application_id = ? AND role = ?", applicationID, models.SignerRoleTenant).
		Count(&tenantSignatures).Error
	if err != nil {
		return nil, &DependencyError{Op: "check tenant signature", Err: err}
	}
	if tenantSignatures == 0 {
		return nil, &ConflictError{Message: "the tenant must sign before the lease can be countersigned"}
	}

	return s.recordSignature(app, actor, models.SignerRoleLandlord)
}

func (s *LeaseService) recordSignature(app *models.Application, actor Actor, role string) (*models.LeaseSignature, error) {
	var existing int64
	err := s.db.Model(&models.LeaseSignature{}).
		Where("application_id = ? AND role = ? AND signer_id = ?", app.ApplicationID, role, actor.ID).
		Count(&existing).Error
	if err != nil {
		return nil, &DependencyError{Op: "check signature", Err: err}
	}
	if existing > 0 {
		return nil, &ConflictError{Message: "this signer has already signed the lease"}
	}

	now := time.Now()
	signature := models.LeaseSignature{
		ApplicationID: app.ApplicationID,
		SignerID:      actor.ID,
		Role:          role,
		SignedAt:      now,
	}
	tx := s.db.Begin()
	if err := tx.Create(&signature).Error; err != nil {
		tx.Rollback()
		return nil, &DependencyError{Op: "record signature", Err: err}
	}
	if role == models.SignerRoleTenant {
		if err := tx.Model(&models.Application{}).
			Where("application_id = ?", app.ApplicationID).
			Updates(map[string]interface{}{"lease_signed_at": now, "update_at": now}).Error; err != nil {
			tx.Rollback()
			return nil, &DependencyError{Op: "record lease signed timestamp", Err: err}
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, &DependencyError{Op: "commit signature", Err: err}
	}

	appID := app.ApplicationID
	runPostCommitHooks("lease signature", []func() error{
		func() error {
			return s.audit.Record(actor.ID, "lease_signed", "application", appID, nil, nil,
				models.JSONMap{"role": role})
		},
	})
	return &signature, nil
}

// MoveInDetails carries the move-in instructions recorded by the landlord.
type MoveInDetails struct {
	KeyPickup    string
	AccessCodes  string
	UtilityNotes string
	Checklist    []ChecklistItem
	MoveInDate   *time.Time
}

type ChecklistItem struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
}

// PrepareMoveIn stores move-in instructions and advances the workflow.
func (s *LeaseService) PrepareMoveIn(applicationID int, actor Actor, details MoveInDetails) (*models.Application, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(app, actor); err != nil {
		return nil, err
	}

	checklist := make([]interface{}, 0, len(details.Checklist))
	for _, item := range details.Checklist {
		checklist = append(checklist, map[string]interface{}{
			"id":        item.ID,
			"label":     item.Label,
			"completed": item.Completed,
		})
	}
	instructions := models.JSONMap{
		"keyPickup":    details.KeyPickup,
		"accessCodes":  details.AccessCodes,
		"utilityNotes": details.UtilityNotes,
		"checklist":    checklist,
	}

	updates := map[string]interface{}{"move_in_instructions": instructions}
	if details.MoveInDate != nil {
		updates["move_in_date"] = *details.MoveInDate
	}
	app, err = s.changeLeaseStatus(app, models.LeaseStatusMoveInReady, actor, updates)
	if err != nil {
		return nil, err
	}

	appID := app.ApplicationID
	runPostCommitHooks("move-in preparation", []func() error{
		func() error {
			return s.notify.Notify(app.UserID, models.NotifyMoveInReady,
				"Move-in instructions available",
				fmt.Sprintf("Move-in instructions for application %s are ready.", app.ReferenceNumber),
				&appID)
		},
		func() error {
			return s.audit.Record(actor.ID, "move_in_prepared", "application", appID, nil, nil, nil)
		},
	})
	return app, nil
}

// ChecklistUpdate patches one checklist item by id.
type ChecklistUpdate struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

// UpdateChecklist patches individual checklist items. Tenant-only; ids that
// match nothing are ignored rather than treated as errors.
func (s *LeaseService) UpdateChecklist(applicationID int, actor Actor, updates []ChecklistUpdate) (*models.Application, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTenant(app, actor); err != nil {
		return nil, err
	}
	if app.MoveInInstructions == nil {
		return nil, &ValidationError{Message: "no move-in checklist exists for this application"}
	}

	items, _ := app.MoveInInstructions["checklist"].([]interface{})
	for _, update := range updates {
		for _, raw := range items {
			item, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			if id, _ := item["id"].(string); id == update.ID {
				item["completed"] = update.Completed
			}
		}
	}
	app.MoveInInstructions["checklist"] = items

	if err := s.db.Model(&models.Application{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]interface{}{
			"move_in_instructions": app.MoveInInstructions,
			"update_at":            time.Now(),
		}).Error; err != nil {
		return nil, &DependencyError{Op: "update checklist", Err: err}
	}
	return s.loadApplication(applicationID)
}

// Complete closes out the lease workflow after move-in.
func (s *LeaseService) Complete(applicationID int, actor Actor) (*models.Application, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(app, actor); err != nil {
		return nil, err
	}
	return s.changeLeaseStatus(app, models.LeaseStatusCompleted, actor, nil)
}

// changeLeaseStatus is the lease analogue of the application transition
// pipeline: guard against the lease table, then a conditional write keyed
// on the lease status read during the guard check.
func (s *LeaseService) changeLeaseStatus(app *models.Application, next string, actor Actor, extra map[string]interface{}) (*models.Application, error) {
	current := models.LeaseStatusPreparation
	if app.LeaseStatus != nil {
		current = *app.LeaseStatus
	}
	if !IsValidLeaseTransition(current, next) {
		return nil, &InvalidTransitionError{From: current, To: next, Allowed: AllowedLeaseTransitions(current)}
	}

	updates := map[string]interface{}{
		"lease_status": next,
		"update_at":    time.Now(),
	}
	for col, val := range extra {
		updates[col] = val
	}

	result := s.db.Model(&models.Application{}).
		Where("application_id = ? AND lease_status = ?", app.ApplicationID, current).
		Updates(updates)
	if result.Error != nil {
		return nil, &DependencyError{Op: "update lease status", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return nil, &ConflictError{Message: "lease status changed concurrently, please retry"}
	}
	return s.loadApplication(app.ApplicationID)
}

func (s *LeaseService) requireManager(app *models.Application, actor Actor) error {
	if actor.IsAdmin() || app.Property.ManagedBy(actor.ID) {
		return nil
	}
	return &AuthorizationError{Message: "only the landlord, a managing agent, or an admin may perform this action"}
}

func (s *LeaseService) requireTenant(app *models.Application, actor Actor) error {
	if actor.ID == app.UserID {
		return nil
	}
	return &AuthorizationError{Message: "only the tenant may perform this action"}
}

func (s *LeaseService) currentDraft(applicationID int) (*models.LeaseDraft, error) {
	var draft models.LeaseDraft
	err := s.db.Where("application_id = ? AND delete_at IS NULL", applicationID).
		Order("version DESC").
		First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "lease draft", ID: applicationID}
		}
		return nil, &DependencyError{Op: "load lease draft", Err: err}
	}
	return &draft, nil
}

func (s *LeaseService) loadApplication(applicationID int) (*models.Application, error) {
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

func applyDraftInput(draft *models.LeaseDraft, input LeaseDraftInput) {
	if input.RentAmount != nil {
		draft.RentAmount = *input.RentAmount
	}
	if input.SecurityDeposit != nil {
		draft.SecurityDeposit = *input.SecurityDeposit
	}
	if input.RentDueDay != nil {
		draft.RentDueDay = *input.RentDueDay
	}
	if input.LeaseStartDate != nil {
		draft.LeaseStartDate = input.LeaseStartDate
	}
	if input.LeaseEndDate != nil {
		draft.LeaseEndDate = input.LeaseEndDate
	}
	if input.Content != nil {
		draft.Content = input.Content
	}
	if input.CustomClauses != nil {
		draft.CustomClauses = input.CustomClauses
	}
	if input.SignatureEnabled != nil {
		draft.SignatureEnabled = *input.SignatureEnabled
	}
}

func sameTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-marketplace-api/models"
)

func historyStatuses(t *testing.T, env *testEnv, applicationID int) []string {
	t.Helper()
	var rows []models.StatusHistoryItem
	require.NoError(t, env.db.Where("application_id = ?", applicationID).
		Order("history_id ASC").Find(&rows).Error)
	statuses := make([]string, len(rows))
	for i, row := range rows {
		statuses[i] = row.Status
	}
	return statuses
}

func notificationCount(t *testing.T, env *testEnv, userID int, notifType string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", userID, notifType).
		Count(&count).Error)
	return count
}

func TestCreateDraftWritesInitialHistory(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app, err := env.apps.CreateDraft(tenant.UserID, property.PropertyID, ApplicationContent{})
	require.NoError(t, err)

	assert.Equal(t, models.StatusDraft, app.Status)
	assert.Regexp(t, `^APP-[0-9A-F-]{8}$`, app.ReferenceNumber)
	assert.Equal(t, []string{models.StatusDraft}, historyStatuses(t, env, app.ApplicationID))
}

func TestCreateDraftRejectsDuplicatePerProperty(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	_, err := env.apps.CreateDraft(tenant.UserID, property.PropertyID, ApplicationContent{})
	require.NoError(t, err)

	_, err = env.apps.CreateDraft(tenant.UserID, property.PropertyID, ApplicationContent{})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	// The same tenant can still apply elsewhere.
	other := env.createProperty(t, landlord.UserID)
	_, err = env.apps.CreateDraft(tenant.UserID, other.PropertyID, ApplicationContent{})
	assert.NoError(t, err)
}

func TestCreateDraftUnknownProperty(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)

	_, err := env.apps.CreateDraft(tenant.UserID, 9999, ApplicationContent{})
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestLifecycleAppendsHistoryPerTransition(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusApproved)

	assert.Equal(t, models.StatusApproved, app.Status)
	require.NotNil(t, app.PreviousStatus)
	assert.Equal(t, models.StatusUnderReview, *app.PreviousStatus)
	require.NotNil(t, app.LeaseStatus)
	assert.Equal(t, models.LeaseStatusPreparation, *app.LeaseStatus)
	assert.NotNil(t, app.SubmittedAt)
	assert.NotNil(t, app.ReviewedAt)

	assert.Equal(t, []string{
		models.StatusDraft,
		models.StatusSubmitted,
		models.StatusUnderReview,
		models.StatusApproved,
	}, historyStatuses(t, env, app.ApplicationID))
}

func TestSubmitNotifiesOwner(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	env.createApplicationAt(t, tenant, landlord, property, models.StatusSubmitted)

	assert.Equal(t, int64(1), notificationCount(t, env, landlord.UserID, models.NotifyStatusChanged))
	assert.NotEmpty(t, *env.sent)
}

func TestApproveNotifiesApplicant(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	env.createApplicationAt(t, tenant, landlord, property, models.StatusApproved)

	// Review and approval both notify the applicant side.
	assert.Equal(t, int64(2), notificationCount(t, env, tenant.UserID, models.NotifyStatusChanged))
}

func TestGenericStatusChangeToApprovedOpensLeaseWorkflow(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)
	ownerActor := Actor{ID: landlord.UserID, Role: models.RoleLandlord}

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusUnderReview)

	approved, err := env.apps.ChangeStatus(app.ApplicationID, models.StatusApproved, ownerActor, nil)
	require.NoError(t, err)
	require.NotNil(t, approved.LeaseStatus)
	assert.Equal(t, models.LeaseStatusPreparation, *approved.LeaseStatus)

	// The lease workflow must be reachable from here.
	_, err = env.leases.CreateDraft(app.ApplicationID, ownerActor, LeaseDraftInput{}, nil)
	require.NoError(t, err)
	_, err = env.leases.Send(app.ApplicationID, ownerActor)
	require.NoError(t, err)
}

func TestApplicantCannotVerifyOwnPayment(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)
	tenantActor := Actor{ID: tenant.UserID, Role: models.RoleTenant}

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusDraft)

	_, err := env.apps.ChangeStatus(app.ApplicationID, models.StatusPendingPayment, tenantActor, nil)
	require.NoError(t, err)

	_, err = env.apps.ChangeStatus(app.ApplicationID, models.StatusPaymentVerified, tenantActor, nil)
	var authErr *AuthorizationError
	require.ErrorAs(t, err, &authErr)

	verified, err := env.apps.ChangeStatus(app.ApplicationID, models.StatusPaymentVerified,
		Actor{ID: landlord.UserID, Role: models.RoleLandlord}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaymentVerified, verified.Status)
}

func TestTenantCannotApprove(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusUnderReview)

	_, err := env.apps.Approve(app.ApplicationID, Actor{ID: tenant.UserID, Role: models.RoleTenant})
	var authErr *AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestStrangerCannotWithdraw(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	stranger := env.createUser(t, models.RoleTenant)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusSubmitted)

	_, err := env.apps.Withdraw(app.ApplicationID, Actor{ID: stranger.UserID, Role: models.RoleTenant}, nil)
	var authErr *AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestInvalidTransitionNamesAllowedStates(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusDraft)

	_, err := env.apps.Approve(app.ApplicationID, Actor{ID: landlord.UserID, Role: models.RoleLandlord})
	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.StatusDraft, transitionErr.From)
	assert.Equal(t, models.StatusApproved, transitionErr.To)
	assert.Contains(t, transitionErr.Allowed, models.StatusSubmitted)
}

func TestTerminalStatusRejectsFurtherMoves(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusApproved)

	_, err := env.apps.Withdraw(app.ApplicationID, Actor{ID: tenant.UserID, Role: models.RoleTenant}, nil)
	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Empty(t, transitionErr.Allowed)

	// No history row for the refused move.
	assert.Len(t, historyStatuses(t, env, app.ApplicationID), 4)
}

func TestConcurrentTransitionLosesWithConflict(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusDraft)

	// Simulate a concurrent transition landing between the read and the write.
	stale, err := env.apps.loadApplication(app.ApplicationID)
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&models.Application{}).
		Where("application_id = ?", app.ApplicationID).
		Update("status", models.StatusSubmitted).Error)

	_, err = env.apps.changeStatus(stale, models.StatusSubmitted,
		Actor{ID: tenant.UserID, Role: models.RoleTenant}, transitionOptions{})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestRejectRequiresCategoryAndReason(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusUnderReview)
	actor := Actor{ID: landlord.UserID, Role: models.RoleLandlord}

	_, err := env.apps.Reject(app.ApplicationID, actor, "", "too risky", "")
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = env.apps.Reject(app.ApplicationID, actor, "income", "  ", "")
	assert.ErrorAs(t, err, &validationErr)
}

func TestRejectSetsAppealableByCategory(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	actor := Actor{ID: landlord.UserID, Role: models.RoleLandlord}

	property := env.createProperty(t, landlord.UserID)
	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusUnderReview)
	rejected, err := env.apps.Reject(app.ApplicationID, actor, "income", "income below threshold", "verified pay stubs")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, true, rejected.RejectionDetails["appealable"])
	assert.Equal(t, "verified pay stubs", rejected.RejectionDetails["details"])
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "income below threshold", *rejected.RejectionReason)

	other := env.createProperty(t, landlord.UserID)
	second := env.createApplicationAt(t, tenant, landlord, other, models.StatusUnderReview)
	rejected, err = env.apps.Reject(second.ApplicationID, actor, "background_check", "failed screening", "")
	require.NoError(t, err)
	assert.Equal(t, false, rejected.RejectionDetails["appealable"])
}

func TestRequestInfoRecordsReasonAndDueDate(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusUnderReview)
	due := time.Now().AddDate(0, 0, 7)

	updated, err := env.apps.RequestInfo(app.ApplicationID,
		Actor{ID: landlord.UserID, Role: models.RoleLandlord}, "please upload a recent pay stub", &due)
	require.NoError(t, err)

	assert.Equal(t, models.StatusInfoRequested, updated.Status)
	require.NotNil(t, updated.InfoRequestReason)
	assert.Equal(t, "please upload a recent pay stub", *updated.InfoRequestReason)
	assert.NotNil(t, updated.InfoRequestDueDate)
	assert.Equal(t, int64(1), notificationCount(t, env, tenant.UserID, models.NotifyInfoRequested))

	// Back into review once the applicant responds.
	updated, err = env.apps.StartReview(app.ApplicationID, Actor{ID: landlord.UserID, Role: models.RoleLandlord})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, updated.Status)
}

func TestConditionalApprovalRequiresRequirements(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusUnderReview)
	actor := Actor{ID: landlord.UserID, Role: models.RoleLandlord}

	_, err := env.apps.ConditionallyApprove(app.ApplicationID, actor, []string{"  "}, nil)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	updated, err := env.apps.ConditionallyApprove(app.ApplicationID, actor,
		[]string{"provide a guarantor", "double deposit"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConditionalApproval, updated.Status)
	assert.Equal(t, models.StringList{"provide a guarantor", "double deposit"}, updated.ConditionalRequirements)
}

func TestRecalculateScorePersistsBreakdown(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusSubmitted)

	breakdown, err := env.apps.RecalculateScore(app.ApplicationID,
		Actor{ID: landlord.UserID, Role: models.RoleLandlord})
	require.NoError(t, err)
	assert.Equal(t, 22, breakdown.IncomeScore)

	stored, err := env.apps.loadApplication(app.ApplicationID)
	require.NoError(t, err)
	require.NotNil(t, stored.Score)
	assert.Equal(t, breakdown.TotalScore, *stored.Score)
	assert.NotNil(t, stored.ScoredAt)
	require.NotNil(t, stored.ScoreBreakdown)
}

func TestRecalculateScoreRefusesDrafts(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusDraft)

	_, err := env.apps.RecalculateScore(app.ApplicationID,
		Actor{ID: landlord.UserID, Role: models.RoleLandlord})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = env.apps.RecalculateScore(app.ApplicationID,
		Actor{ID: tenant.UserID, Role: models.RoleTenant})
	var authErr *AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestCompareApplicationsOrdersByScore(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	var appIDs []int
	for i := 0; i < 3; i++ {
		tenant := env.createUser(t, models.RoleTenant)
		app := env.createApplicationAt(t, tenant, landlord, property, models.StatusSubmitted)
		appIDs = append(appIDs, app.ApplicationID)
	}
	// Score two of the three; the unscored one must sort last.
	require.NoError(t, env.db.Model(&models.Application{}).
		Where("application_id = ?", appIDs[0]).Update("score", 55).Error)
	require.NoError(t, env.db.Model(&models.Application{}).
		Where("application_id = ?", appIDs[1]).Update("score", 80).Error)

	// A draft from a fourth tenant must not appear at all.
	draftTenant := env.createUser(t, models.RoleTenant)
	_, err := env.apps.CreateDraft(draftTenant.UserID, property.PropertyID, ApplicationContent{})
	require.NoError(t, err)

	ranked, err := env.apps.CompareApplications(property.PropertyID,
		Actor{ID: landlord.UserID, Role: models.RoleLandlord})
	require.NoError(t, err)

	require.Len(t, ranked, 3)
	assert.Equal(t, appIDs[1], ranked[0].ApplicationID)
	assert.Equal(t, appIDs[0], ranked[1].ApplicationID)
	assert.Equal(t, appIDs[2], ranked[2].ApplicationID)
	assert.Nil(t, ranked[2].Score)
}

func TestCompareApplicationsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.createUser(t, models.RoleLandlord)
	stranger := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	_, err := env.apps.CompareApplications(property.PropertyID,
		Actor{ID: stranger.UserID, Role: models.RoleLandlord})
	var authErr *AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestExpireStaleDraftsIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusDraft)
	require.NoError(t, env.db.Model(&models.Application{}).
		Where("application_id = ?", app.ApplicationID).
		Update("create_at", time.Now().AddDate(0, 0, -45)).Error)

	// A fresh draft must survive.
	freshTenant := env.createUser(t, models.RoleTenant)
	fresh, err := env.apps.CreateDraft(freshTenant.UserID, property.PropertyID, ApplicationContent{})
	require.NoError(t, err)

	expired, err := env.apps.ExpireStaleDrafts(30)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	withdrawn, err := env.apps.loadApplication(app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWithdrawn, withdrawn.Status)

	var lastRow models.StatusHistoryItem
	require.NoError(t, env.db.Where("application_id = ?", app.ApplicationID).
		Order("history_id DESC").First(&lastRow).Error)
	require.NotNil(t, lastRow.Reason)
	assert.Equal(t, "inactivity", *lastRow.Reason)
	assert.Equal(t, 0, lastRow.ChangedBy)

	survivor, err := env.apps.loadApplication(fresh.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, survivor.Status)

	// Expiry carries the usual transition side effects.
	assert.Equal(t, int64(1), notificationCount(t, env, tenant.UserID, models.NotifyStatusChanged))
	var auditRow models.AuditLog
	require.NoError(t, env.db.Where("resource_type = ? AND resource_id = ? AND action = ?",
		"application", app.ApplicationID, "status_change").First(&auditRow).Error)
	assert.Equal(t, 0, auditRow.UserID)
	assert.Equal(t, models.StatusWithdrawn, auditRow.After["status"])

	expired, err = env.apps.ExpireStaleDrafts(30)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}

func TestExpireStaleDraftsValidatesAge(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.apps.ExpireStaleDrafts(0)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateDraftOnlyWhileDraft(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusSubmitted)

	_, err := env.apps.UpdateDraft(app.ApplicationID,
		Actor{ID: tenant.UserID, Role: models.RoleTenant},
		ApplicationContent{PersonalInfo: models.JSONMap{"firstName": "Ada"}})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCoApplicantAddRemoveAffectsScoring(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)
	tenantActor := Actor{ID: tenant.UserID, Role: models.RoleTenant}
	ownerActor := Actor{ID: landlord.UserID, Role: models.RoleLandlord}

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusSubmitted)

	co, err := env.apps.AddCoApplicant(app.ApplicationID, tenantActor, models.CoApplicant{
		FirstName:     "Casey",
		LastName:      "Partner",
		Email:         "casey@example.com",
		MonthlyIncome: 1000,
	})
	require.NoError(t, err)

	// 4500 + 1000 crosses the top income tier.
	breakdown, err := env.apps.RecalculateScore(app.ApplicationID, ownerActor)
	require.NoError(t, err)
	assert.Equal(t, 25, breakdown.IncomeScore)

	// A stranger cannot remove them.
	stranger := env.createUser(t, models.RoleTenant)
	err = env.apps.RemoveCoApplicant(app.ApplicationID, co.CoApplicantID,
		Actor{ID: stranger.UserID, Role: models.RoleTenant})
	var authErr *AuthorizationError
	assert.ErrorAs(t, err, &authErr)

	require.NoError(t, env.apps.RemoveCoApplicant(app.ApplicationID, co.CoApplicantID, tenantActor))

	breakdown, err = env.apps.RecalculateScore(app.ApplicationID, ownerActor)
	require.NoError(t, err)
	assert.Equal(t, 22, breakdown.IncomeScore)

	// Removing twice is a not-found, not a silent success.
	err = env.apps.RemoveCoApplicant(app.ApplicationID, co.CoApplicantID, tenantActor)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSoftDeleteHidesApplication(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createUser(t, models.RoleTenant)
	landlord := env.createUser(t, models.RoleLandlord)
	property := env.createProperty(t, landlord.UserID)

	app := env.createApplicationAt(t, tenant, landlord, property, models.StatusDraft)

	require.NoError(t, env.apps.SoftDelete(app.ApplicationID, Actor{ID: tenant.UserID, Role: models.RoleTenant}))

	_, err := env.apps.loadApplication(app.ApplicationID)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rental-marketplace-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Application{},
		&models.CoApplicant{},
		&models.StatusHistoryItem{},
		&models.LeaseDraft{},
		&models.LeaseDraftChange{},
		&models.LeaseSignature{},
		&models.Lease{},
		&models.Payment{},
		&models.Notification{},
		&models.AuditLog{},
	)
	require.NoError(t, err)
	return db
}

type testEnv struct {
	db       *gorm.DB
	apps     *ApplicationService
	leases   *LeaseService
	payments *PaymentService
	notify   *NotificationService
	sent     *[]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	sent := []string{}
	notify := NewNotificationService(db)
	notify.mail = func(to []string, subject, html string) error {
		sent = append(sent, subject)
		return nil
	}
	audit := NewAuditService(db)

	return &testEnv{
		db:       db,
		apps:     NewApplicationService(db, notify, audit),
		leases:   NewLeaseService(db, notify, audit),
		payments: NewPaymentService(db, notify, audit),
		notify:   notify,
		sent:     &sent,
	}
}

func (e *testEnv) createUser(t *testing.T, role string) *models.User {
	t.Helper()
	now := time.Now()
	user := models.User{
		FirstName: "Test",
		LastName:  role,
		Email:     role + "-" + uuid.NewString() + "@example.com",
		Password:  "hashed",
		Role:      role,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	require.NoError(t, e.db.Create(&user).Error)
	return &user
}

func (e *testEnv) createProperty(t *testing.T, ownerID int) *models.Property {
	t.Helper()
	now := time.Now()
	property := models.Property{
		OwnerID:     ownerID,
		Title:       "Two bedroom flat",
		Address:     "12 Main Street",
		City:        "Springfield",
		MonthlyRent: 1500,
		Bedrooms:    2,
		Bathrooms:   1,
		Available:   true,
		CreateAt:    now,
		UpdateAt:    now,
	}
	require.NoError(t, e.db.Create(&property).Error)
	return &property
}

// createApplicationAt walks an application to the given status through the
// service layer so history and side fields stay consistent.
func (e *testEnv) createApplicationAt(t *testing.T, tenant *models.User, owner *models.User, property *models.Property, status string) *models.Application {
	t.Helper()
	app, err := e.apps.CreateDraft(tenant.UserID, property.PropertyID, ApplicationContent{
		Employment: models.JSONMap{"monthlyIncome": 4500.0},
	})
	require.NoError(t, err)

	tenantActor := Actor{ID: tenant.UserID, Role: models.RoleTenant}
	ownerActor := Actor{ID: owner.UserID, Role: models.RoleLandlord}

	steps := []struct {
		target string
		run    func() (*models.Application, error)
	}{
		{models.StatusSubmitted, func() (*models.Application, error) { return e.apps.Submit(app.ApplicationID, tenantActor) }},
		{models.StatusUnderReview, func() (*models.Application, error) { return e.apps.StartReview(app.ApplicationID, ownerActor) }},
		{models.StatusApproved, func() (*models.Application, error) { return e.apps.Approve(app.ApplicationID, ownerActor) }},
	}
	if status == models.StatusDraft {
		return app
	}
	for _, step := range steps {
		updated, err := step.run()
		require.NoError(t, err)
		app = updated
		if app.Status == status {
			return app
		}
	}
	t.Fatalf("cannot walk application to status %s", status)
	return nil
}

package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rental-marketplace-api/models"
)

// PaymentService derives the monthly rent ledger from lease terms and
// handles payment state changes.
type PaymentService struct {
	db     *gorm.DB
	notify *NotificationService
	audit  *AuditService
}

func NewPaymentService(db *gorm.DB, notify *NotificationService, audit *AuditService) *PaymentService {
	return &PaymentService{db: db, notify: notify, audit: audit}
}

// GenerateRentSchedule creates one pending rent payment per due date
// between the lease start and end. Idempotent: due dates already present
// (compared by calendar date) are never inserted again, so reruns after a
// partial prior run add only the missing months.
func (s *PaymentService) GenerateRentSchedule(leaseID int, actor Actor) ([]models.Payment, error) {
	lease, err := s.loadLease(leaseID)
	if err != nil {
		return nil, err
	}
	if actor.ID != lease.TenantID && actor.ID != lease.LandlordID && !actor.IsAdmin() {
		return nil, &AuthorizationError{Message: "only the tenant, the landlord, or an admin may generate the rent schedule"}
	}

	dueDates := rentDueDates(lease.LeaseStartDate, lease.LeaseEndDate, lease.RentDueDay)

	var existing []models.Payment
	err = s.db.Where("lease_id = ? AND type = ?", leaseID, models.PaymentTypeRent).Find(&existing).Error
	if err != nil {
		return nil, &DependencyError{Op: "load existing rent payments", Err: err}
	}
	existingDates := make(map[string]bool, len(existing))
	for _, p := range existing {
		existingDates[p.DueDate.Format("2006-01-02")] = true
	}

	now := time.Now()
	created := make([]models.Payment, 0, len(dueDates))
	for _, due := range dueDates {
		if existingDates[due.Format("2006-01-02")] {
			continue
		}
		payment := models.Payment{
			LeaseID:  leaseID,
			Type:     models.PaymentTypeRent,
			Amount:   lease.MonthlyRent,
			DueDate:  due,
			Status:   models.PaymentPending,
			CreateAt: now,
			UpdateAt: now,
		}
		if err := s.db.Create(&payment).Error; err != nil {
			return created, &DependencyError{Op: "create rent payment", Err: err}
		}
		created = append(created, payment)
	}
	return created, nil
}

// rentDueDates walks month by month from the lease start. A candidate that
// falls before the start rolls forward one month; candidates past the lease
// end are excluded. The due day clamps to the last day of short months.
func rentDueDates(start, end time.Time, rentDueDay int) []time.Time {
	if rentDueDay < 1 {
		rentDueDay = 1
	}
	if rentDueDay > 31 {
		rentDueDay = 31
	}

	var dates []time.Time
	year, month, _ := start.Date()
	loc := start.Location()
	for {
		candidate := monthlyDueDate(year, month, rentDueDay, loc)
		if candidate.Before(truncateToDay(start)) {
			year, month = nextMonth(year, month)
			continue
		}
		if candidate.After(truncateToDay(end)) {
			break
		}
		dates = append(dates, candidate)
		year, month = nextMonth(year, month)
	}
	return dates
}

func monthlyDueDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ListPayments returns a lease's payments with overdue derived at read
// time. Tenant, landlord, or admin only.
func (s *PaymentService) ListPayments(leaseID int, actor Actor) ([]models.Payment, error) {
	lease, err := s.loadLease(leaseID)
	if err != nil {
		return nil, err
	}
	if actor.ID != lease.TenantID && actor.ID != lease.LandlordID && !actor.IsAdmin() {
		return nil, &AuthorizationError{Message: "not authorized to view payments for this lease"}
	}

	var payments []models.Payment
	if err := s.db.Where("lease_id = ?", leaseID).Order("due_date ASC").Find(&payments).Error; err != nil {
		return nil, &DependencyError{Op: "list payments", Err: err}
	}
	now := time.Now()
	for i := range payments {
		payments[i].Status = payments[i].EffectiveStatus(now)
	}
	return payments, nil
}

// MarkPaid records the tenant-side payment. Mock processing only; no real
// money moves.
func (s *PaymentService) MarkPaid(paymentID int, actor Actor) (*models.Payment, error) {
	payment, lease, err := s.loadPaymentWithLease(paymentID)
	if err != nil {
		return nil, err
	}
	if actor.ID != lease.TenantID && !actor.IsAdmin() {
		return nil, &AuthorizationError{Message: "only the tenant may pay this payment"}
	}
	if payment.Status != models.PaymentPending {
		return nil, &ConflictError{Message: fmt.Sprintf("payment is already %s", payment.Status)}
	}

	now := time.Now()
	result := s.db.Model(&models.Payment{}).
		Where("payment_id = ? AND status = ?", paymentID, models.PaymentPending).
		Updates(map[string]interface{}{"status": models.PaymentPaid, "paid_at": now, "update_at": now})
	if result.Error != nil {
		return nil, &DependencyError{Op: "mark payment paid", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return nil, &ConflictError{Message: "payment state changed concurrently, please retry"}
	}

	paymentIDCopy := paymentID
	runPostCommitHooks("payment paid", []func() error{
		func() error {
			return s.notify.Notify(lease.LandlordID, models.NotifyPaymentReceived,
				"Payment received",
				fmt.Sprintf("A payment of %.2f for lease %d has been received.", payment.Amount, lease.LeaseID),
				nil)
		},
		func() error {
			return s.audit.Record(actor.ID, "payment_paid", "payment", paymentIDCopy, nil, nil, nil)
		},
	})
	return s.loadPayment(paymentID)
}

// VerifyPayment is landlord/admin confirmation of a paid payment.
func (s *PaymentService) VerifyPayment(paymentID int, actor Actor) (*models.Payment, error) {
	payment, lease, err := s.loadPaymentWithLease(paymentID)
	if err != nil {
		return nil, err
	}
	if actor.ID != lease.LandlordID && !actor.IsAdmin() {
		return nil, &AuthorizationError{Message: "only the landlord or an admin may verify payments"}
	}
	if payment.Status != models.PaymentPaid {
		return nil, &ConflictError{Message: "only paid payments can be verified"}
	}

	now := time.Now()
	result := s.db.Model(&models.Payment{}).
		Where("payment_id = ? AND status = ?", paymentID, models.PaymentPaid).
		Updates(map[string]interface{}{
			"status":      models.PaymentVerified,
			"verified_at": now,
			"verified_by": actor.ID,
			"update_at":   now,
		})
	if result.Error != nil {
		return nil, &DependencyError{Op: "verify payment", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return nil, &ConflictError{Message: "payment state changed concurrently, please retry"}
	}

	paymentIDCopy := paymentID
	runPostCommitHooks("payment verified", []func() error{
		func() error {
			return s.notify.Notify(lease.TenantID, models.NotifyPaymentVerified,
				"Payment verified",
				fmt.Sprintf("Your payment of %.2f has been verified.", payment.Amount),
				nil)
		},
		func() error {
			return s.audit.Record(actor.ID, "payment_verified", "payment", paymentIDCopy, nil, nil, nil)
		},
	})
	return s.loadPayment(paymentID)
}

func (s *PaymentService) loadLease(leaseID int) (*models.Lease, error) {
	var lease models.Lease
	err := s.db.Where("lease_id = ? AND delete_at IS NULL", leaseID).First(&lease).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "lease", ID: leaseID}
		}
		return nil, &DependencyError{Op: "load lease", Err: err}
	}
	return &lease, nil
}

func (s *PaymentService) loadPayment(paymentID int) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Where("payment_id = ?", paymentID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "payment", ID: paymentID}
		}
		return nil, &DependencyError{Op: "load payment", Err: err}
	}
	return &payment, nil
}

func (s *PaymentService) loadPaymentWithLease(paymentID int) (*models.Payment, *models.Lease, error) {
	payment, err := s.loadPayment(paymentID)
	if err != nil {
		return nil, nil, err
	}
	lease, err := s.loadLease(payment.LeaseID)
	if err != nil {
		return nil, nil, err
	}
	return payment, lease, nil
}

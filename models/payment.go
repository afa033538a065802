package models

import "time"

// Payment types and statuses. Overdue is never stored; it is derived at
// read time from a pending payment whose due date has passed.
const (
	PaymentTypeRent            = "rent"
	PaymentTypeSecurityDeposit = "security_deposit"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentVerified = "verified"
	PaymentOverdue  = "overdue"
)

type Payment struct {
	PaymentID  int        `gorm:"primaryKey;column:payment_id" json:"payment_id"`
	LeaseID    int        `gorm:"column:lease_id" json:"lease_id"`
	Type       string     `gorm:"column:type" json:"type"`
	Amount     float64    `gorm:"column:amount" json:"amount"`
	DueDate    time.Time  `gorm:"column:due_date" json:"due_date"`
	Status     string     `gorm:"column:status" json:"status"`
	PaidAt     *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
	VerifiedAt *time.Time `gorm:"column:verified_at" json:"verified_at,omitempty"`
	VerifiedBy *int       `gorm:"column:verified_by" json:"verified_by,omitempty"`
	CreateAt   time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt   time.Time  `gorm:"column:update_at" json:"update_at"`

	// Relations
	Lease Lease `gorm:"foreignKey:LeaseID" json:"lease,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// EffectiveStatus returns the stored status, or overdue for a pending
// payment whose due date is already behind the given time.
func (p *Payment) EffectiveStatus(now time.Time) string {
	if p.Status == PaymentPending && p.DueDate.Before(now) {
		return PaymentOverdue
	}
	return p.Status
}

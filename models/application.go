package models

import "time"

// Application statuses. The transition table in services/transitions.go is
// the single source of truth for which moves between these are legal.
const (
	StatusDraft               = "draft"
	StatusPendingPayment      = "pending_payment"
	StatusPaymentVerified     = "payment_verified"
	StatusSubmitted           = "submitted"
	StatusUnderReview         = "under_review"
	StatusInfoRequested       = "info_requested"
	StatusConditionalApproval = "conditional_approval"
	StatusApproved            = "approved"
	StatusRejected            = "rejected"
	StatusWithdrawn           = "withdrawn"
)

// Lease workflow statuses tracked on the application once it is approved.
const (
	LeaseStatusPreparation = "lease_preparation"
	LeaseStatusSent        = "lease_sent"
	LeaseStatusAccepted    = "lease_accepted"
	LeaseStatusDeclined    = "lease_declined"
	LeaseStatusMoveInReady = "move_in_ready"
	LeaseStatusCompleted   = "completed"
)

type Application struct {
	ApplicationID   int    `gorm:"primaryKey;column:application_id" json:"application_id"`
	ReferenceNumber string `gorm:"column:reference_number;unique" json:"reference_number"`
	PropertyID      int    `gorm:"column:property_id" json:"property_id"`
	UserID          int    `gorm:"column:user_id" json:"user_id"`

	Status         string  `gorm:"column:status" json:"status"`
	PreviousStatus *string `gorm:"column:previous_status" json:"previous_status,omitempty"`
	LeaseStatus    *string `gorm:"column:lease_status" json:"lease_status,omitempty"`
	PaymentStatus  *string `gorm:"column:payment_status" json:"payment_status,omitempty"`

	// Applicant-supplied content.
	PersonalInfo   JSONMap `gorm:"column:personal_info;type:text" json:"personal_info,omitempty"`
	Employment     JSONMap `gorm:"column:employment;type:text" json:"employment,omitempty"`
	RentalHistory  JSONMap `gorm:"column:rental_history;type:text" json:"rental_history,omitempty"`
	Documents      JSONMap `gorm:"column:documents;type:text" json:"documents,omitempty"`
	DocumentStatus JSONMap `gorm:"column:document_status;type:text" json:"document_status,omitempty"`
	CustomAnswers  JSONMap `gorm:"column:custom_answers;type:text" json:"custom_answers,omitempty"`

	// Scoring output, regenerable at any time from the content above.
	Score          *int       `gorm:"column:score" json:"score,omitempty"`
	ScoreBreakdown *JSONMap   `gorm:"column:score_breakdown;type:text" json:"score_breakdown,omitempty"`
	ScoredAt       *time.Time `gorm:"column:scored_at" json:"scored_at,omitempty"`

	// Rejection detail, set only when status becomes rejected.
	RejectionCategory *string `gorm:"column:rejection_category" json:"rejection_category,omitempty"`
	RejectionReason   *string `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	RejectionDetails  JSONMap `gorm:"column:rejection_details;type:text" json:"rejection_details,omitempty"`

	// Info-request and conditional-approval detail.
	InfoRequestReason       *string    `gorm:"column:info_request_reason" json:"info_request_reason,omitempty"`
	InfoRequestDueDate      *time.Time `gorm:"column:info_request_due_date" json:"info_request_due_date,omitempty"`
	ConditionalRequirements StringList `gorm:"column:conditional_requirements;type:text" json:"conditional_requirements,omitempty"`
	ConditionalDueDate      *time.Time `gorm:"column:conditional_due_date" json:"conditional_due_date,omitempty"`

	MoveInInstructions JSONMap `gorm:"column:move_in_instructions;type:text" json:"move_in_instructions,omitempty"`

	// Milestone timestamps.
	SubmittedAt           *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	ReviewedAt            *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ExpiresAt             *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	InfoRequestedAt       *time.Time `gorm:"column:info_requested_at" json:"info_requested_at,omitempty"`
	ConditionalApprovalAt *time.Time `gorm:"column:conditional_approval_at" json:"conditional_approval_at,omitempty"`
	LeaseSentAt           *time.Time `gorm:"column:lease_sent_at" json:"lease_sent_at,omitempty"`
	LeaseSentBy           *int       `gorm:"column:lease_sent_by" json:"lease_sent_by,omitempty"`
	LeaseAcceptedAt       *time.Time `gorm:"column:lease_accepted_at" json:"lease_accepted_at,omitempty"`
	LeaseSignedAt         *time.Time `gorm:"column:lease_signed_at" json:"lease_signed_at,omitempty"`
	MoveInDate            *time.Time `gorm:"column:move_in_date" json:"move_in_date,omitempty"`

	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Property     Property            `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Applicant    User                `gorm:"foreignKey:UserID" json:"applicant,omitempty"`
	CoApplicants []CoApplicant       `gorm:"foreignKey:ApplicationID" json:"co_applicants,omitempty"`
	History      []StatusHistoryItem `gorm:"foreignKey:ApplicationID" json:"status_history,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

type CoApplicant struct {
	CoApplicantID int        `gorm:"primaryKey;column:co_applicant_id" json:"co_applicant_id"`
	ApplicationID int        `gorm:"column:application_id" json:"application_id"`
	FirstName     string     `gorm:"column:first_name" json:"first_name"`
	LastName      string     `gorm:"column:last_name" json:"last_name"`
	Email         string     `gorm:"column:email" json:"email"`
	MonthlyIncome float64    `gorm:"column:monthly_income" json:"monthly_income"`
	Employment    JSONMap    `gorm:"column:employment;type:text" json:"employment,omitempty"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (CoApplicant) TableName() string {
	return "co_applicants"
}

// StatusHistoryItem is one append-only row per accepted status transition,
// including the initial draft entry written at creation.
type StatusHistoryItem struct {
	HistoryID     int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	ApplicationID int       `gorm:"column:application_id" json:"application_id"`
	Status        string    `gorm:"column:status" json:"status"`
	ChangedBy     int       `gorm:"column:changed_by" json:"changed_by"`
	Reason        *string   `gorm:"column:reason" json:"reason,omitempty"`
	ChangedAt     time.Time `gorm:"column:changed_at" json:"changed_at"`
}

func (StatusHistoryItem) TableName() string {
	return "application_status_history"
}

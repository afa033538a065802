package models

import "time"

// Draft statuses within a single version.
const (
	DraftStatusDraft       = "draft"
	DraftStatusReadyToSend = "ready_to_send"
	DraftStatusSent        = "sent"
)

// Signature roles.
const (
	SignerRoleTenant   = "tenant"
	SignerRoleLandlord = "landlord"
)

// Lease entity statuses.
const (
	LeaseActive     = "active"
	LeaseExpired    = "expired"
	LeaseTerminated = "terminated"
)

type LeaseDraft struct {
	DraftID       int    `gorm:"primaryKey;column:draft_id" json:"draft_id"`
	ApplicationID int    `gorm:"column:application_id" json:"application_id"`
	Version       int    `gorm:"column:version" json:"version"`
	Status        string `gorm:"column:status" json:"status"`

	RentAmount      float64    `gorm:"column:rent_amount" json:"rent_amount"`
	SecurityDeposit float64    `gorm:"column:security_deposit" json:"security_deposit"`
	RentDueDay      int        `gorm:"column:rent_due_day" json:"rent_due_day"`
	LeaseStartDate  *time.Time `gorm:"column:lease_start_date" json:"lease_start_date,omitempty"`
	LeaseEndDate    *time.Time `gorm:"column:lease_end_date" json:"lease_end_date,omitempty"`

	Content          *string `gorm:"column:content;type:text" json:"content,omitempty"`
	CustomClauses    JSONMap `gorm:"column:custom_clauses;type:text" json:"custom_clauses,omitempty"`
	SignatureEnabled bool    `gorm:"column:signature_enabled" json:"signature_enabled"`

	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Changes []LeaseDraftChange `gorm:"foreignKey:DraftID" json:"changes,omitempty"`
}

func (LeaseDraft) TableName() string {
	return "lease_drafts"
}

// LeaseDraftChange is one audit row per draft edit.
type LeaseDraftChange struct {
	ChangeID       int       `gorm:"primaryKey;column:change_id" json:"change_id"`
	DraftID        int       `gorm:"column:draft_id" json:"draft_id"`
	Version        int       `gorm:"column:version" json:"version"`
	ChangedBy      int       `gorm:"column:changed_by" json:"changed_by"`
	Description    string    `gorm:"column:description" json:"description"`
	PreviousValues JSONMap   `gorm:"column:previous_values;type:text" json:"previous_values,omitempty"`
	ChangedAt      time.Time `gorm:"column:changed_at" json:"changed_at"`
}

func (LeaseDraftChange) TableName() string {
	return "lease_draft_changes"
}

type LeaseSignature struct {
	SignatureID   int       `gorm:"primaryKey;column:signature_id" json:"signature_id"`
	ApplicationID int       `gorm:"column:application_id" json:"application_id"`
	SignerID      int       `gorm:"column:signer_id" json:"signer_id"`
	Role          string    `gorm:"column:role" json:"role"`
	SignedAt      time.Time `gorm:"column:signed_at" json:"signed_at"`
}

func (LeaseSignature) TableName() string {
	return "lease_signatures"
}

type Lease struct {
	LeaseID               int        `gorm:"primaryKey;column:lease_id" json:"lease_id"`
	ApplicationID         int        `gorm:"column:application_id" json:"application_id"`
	PropertyID            int        `gorm:"column:property_id" json:"property_id"`
	TenantID              int        `gorm:"column:tenant_id" json:"tenant_id"`
	LandlordID            int        `gorm:"column:landlord_id" json:"landlord_id"`
	MonthlyRent           float64    `gorm:"column:monthly_rent" json:"monthly_rent"`
	SecurityDepositAmount float64    `gorm:"column:security_deposit_amount" json:"security_deposit_amount"`
	RentDueDay            int        `gorm:"column:rent_due_day" json:"rent_due_day"`
	LeaseStartDate        time.Time  `gorm:"column:lease_start_date" json:"lease_start_date"`
	LeaseEndDate          time.Time  `gorm:"column:lease_end_date" json:"lease_end_date"`
	Status                string     `gorm:"column:status" json:"status"`
	CreateAt              time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt              time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt              *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Lease) TableName() string {
	return "leases"
}

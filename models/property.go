package models

import "time"

type Property struct {
	PropertyID  int        `gorm:"primaryKey;column:property_id" json:"property_id"`
	OwnerID     int        `gorm:"column:owner_id" json:"owner_id"`
	AgentID     *int       `gorm:"column:agent_id" json:"agent_id,omitempty"`
	Title       string     `gorm:"column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	Address     string     `gorm:"column:address" json:"address"`
	City        string     `gorm:"column:city" json:"city"`
	MonthlyRent float64    `gorm:"column:monthly_rent" json:"monthly_rent"`
	Bedrooms    int        `gorm:"column:bedrooms" json:"bedrooms"`
	Bathrooms   int        `gorm:"column:bathrooms" json:"bathrooms"`
	Available   bool       `gorm:"column:available" json:"available"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Property) TableName() string {
	return "properties"
}

// ManagedBy reports whether the given user owns or manages this property.
func (p *Property) ManagedBy(userID int) bool {
	if p.OwnerID == userID {
		return true
	}
	return p.AgentID != nil && *p.AgentID == userID
}

package models

import (
	"time"
)

// Role values used across the API. Resolved from the JWT, never guessed.
const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
	RoleAgent    = "agent"
	RoleAdmin    = "admin"
)

type User struct {
	UserID    int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	FirstName string     `gorm:"column:first_name" json:"first_name"`
	LastName  string     `gorm:"column:last_name" json:"last_name"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	Role      string     `gorm:"column:role" json:"role"`
	Phone     *string    `gorm:"column:phone" json:"phone,omitempty"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name for notification greetings.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

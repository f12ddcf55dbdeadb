package models

import (
	"strings"
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleTeamMember UserRole = "team_member"
	RoleAdmin      UserRole = "admin"
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleTeamMember, RoleAdmin:
		return true
	}
	return false
}

// Label returns the role in human form, e.g. "team member"
func (r UserRole) Label() string {
	return strings.ReplaceAll(string(r), "_", " ")
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Username     string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:100;uniqueIndex;not null"`
	Phone        string    `json:"phone" gorm:"size:20;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:hashed_password;not null"`
	Address      string    `json:"address"`
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'customer';index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

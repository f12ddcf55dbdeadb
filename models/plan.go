package models

import "time"

// TeamMemberPlan is a work note an admin posts to a team member
type TeamMemberPlan struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AdminID      uint      `json:"admin_id" gorm:"not null;index"`
	Admin        User      `json:"admin,omitempty" gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE"`
	TeamMemberID uint      `json:"team_member_id" gorm:"not null;index"`
	TeamMember   User      `json:"team_member,omitempty" gorm:"foreignKey:TeamMemberID;constraint:OnDelete:CASCADE"`
	Description  string    `json:"description" gorm:"type:text;not null"`
	ImageURL     string    `json:"image_url" gorm:"size:500"`
	CreatedAt    time.Time `json:"created_at"`
}

package models

import "time"

// UserSession is one login-to-logout span, used for presence reports
type UserSession struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	UserID     uint       `json:"user_id" gorm:"not null;index"`
	User       User       `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	LoginTime  time.Time  `json:"login_time" gorm:"not null;index"`
	LogoutTime *time.Time `json:"logout_time"`
	Date       time.Time  `json:"date" gorm:"index"`
}

// Duration is zero while the session is still open
func (s UserSession) Duration() time.Duration {
	if s.LogoutTime == nil {
		return 0
	}
	return s.LogoutTime.Sub(s.LoginTime)
}

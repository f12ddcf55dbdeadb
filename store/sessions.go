package store

import (
	"context"
	"time"

	"bitemebuddy/models"

	"github.com/jinzhu/now"
)

// StartSession records a login at t
func (s *Store) StartSession(ctx context.Context, userID uint, t time.Time) (*models.UserSession, error) {
	t = t.UTC()
	session := models.UserSession{
		UserID:    userID,
		LoginTime: t,
		Date:      now.With(t).BeginningOfDay(),
	}
	if err := s.conn(ctx).Omit("User").Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// EndSession stamps the logout time of an open session. Unknown or already
// closed sessions yield ErrNotFound.
func (s *Store) EndSession(ctx context.Context, id uint, t time.Time) error {
	res := s.conn(ctx).Model(&models.UserSession{}).
		Where("id = ? AND logout_time IS NULL", id).
		Update("logout_time", t.UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveSessions lists sessions without a logout, newest first
func (s *Store) ActiveSessions(ctx context.Context) ([]models.UserSession, error) {
	var sessions []models.UserSession
	err := s.conn(ctx).Preload("User").
		Where("logout_time IS NULL").
		Order("login_time desc").
		Find(&sessions).Error
	return sessions, err
}

// TodaySessions lists sessions that started on t's UTC day
func (s *Store) TodaySessions(ctx context.Context, t time.Time) ([]models.UserSession, error) {
	start := now.With(t.UTC()).BeginningOfDay()
	var sessions []models.UserSession
	err := s.conn(ctx).Preload("User").
		Where("login_time >= ? AND login_time < ?", start, start.AddDate(0, 0, 1)).
		Order("login_time desc").
		Find(&sessions).Error
	return sessions, err
}

func (s *Store) UserSessions(ctx context.Context, userID uint, limit int) ([]models.UserSession, error) {
	q := s.conn(ctx).Where("user_id = ?", userID).Order("login_time desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var sessions []models.UserSession
	err := q.Find(&sessions).Error
	return sessions, err
}

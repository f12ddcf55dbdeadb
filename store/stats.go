package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"bitemebuddy/models"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
)

type OrderStats struct {
	TotalOrders   int64
	TodayOrders   int64
	PendingOrders int64
	TotalRevenue  decimal.Decimal
	TodayRevenue  decimal.Decimal
}

// OrderStats aggregates counts and revenue in the database. Revenue excludes
// cancelled orders; "today" starts at the UTC beginning of at's day.
func (s *Store) OrderStats(ctx context.Context, at time.Time) (OrderStats, error) {
	var stats OrderStats
	db := s.conn(ctx)
	today := now.With(at.UTC()).BeginningOfDay()

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Order{}).Where("created_at >= ?", today).Count(&stats.TodayOrders).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Order{}).Where("status = ?", models.StatusPending).Count(&stats.PendingOrders).Error; err != nil {
		return stats, err
	}

	revenue := func(since *time.Time) (decimal.Decimal, error) {
		var total decimal.Decimal
		q := db.Model(&models.Order{}).
			Select("COALESCE(SUM(total_amount), 0)").
			Where("status <> ?", models.StatusCancelled)
		if since != nil {
			q = q.Where("created_at >= ?", *since)
		}
		err := q.Row().Scan(&total)
		// sqlite sums decimal columns as REAL
		return total.Round(2), err
	}
	var err error
	if stats.TotalRevenue, err = revenue(nil); err != nil {
		return stats, err
	}
	if stats.TodayRevenue, err = revenue(&today); err != nil {
		return stats, err
	}
	return stats, nil
}

// SessionStat is one user's presence summary over a reporting window
type SessionStat struct {
	UserID             uint
	Name               string
	Role               models.UserRole
	SessionCount       int64
	AvgDurationSeconds float64
	LastLogin          time.Time
}

// AvgDuration is the average closed-session length
func (s SessionStat) AvgDuration() time.Duration {
	return time.Duration(s.AvgDurationSeconds * float64(time.Second))
}

type sessionStatRow struct {
	UserID             uint
	Name               string
	Role               models.UserRole
	SessionCount       int64
	AvgDurationSeconds float64
	LastLogin          sqlTime
}

// SessionStats groups the sessions started in the last days by user. Every
// session counts towards SessionCount; only sessions with a logout contribute
// to the average. userID narrows the report to one user when non-nil.
func (s *Store) SessionStats(ctx context.Context, userID *uint, days int, at time.Time) ([]SessionStat, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := at.UTC().AddDate(0, 0, -days)

	q := s.conn(ctx).Table("user_sessions").
		Select(fmt.Sprintf(`users.id AS user_id, users.name AS name, users.role AS role,
			COUNT(user_sessions.id) AS session_count,
			COALESCE(AVG(CASE WHEN user_sessions.logout_time IS NOT NULL THEN %s END), 0) AS avg_duration_seconds,
			MAX(user_sessions.login_time) AS last_login`, s.sessionSecondsExpr())).
		Joins("JOIN users ON users.id = user_sessions.user_id").
		Where("user_sessions.login_time >= ?", cutoff).
		Group("users.id, users.name, users.role").
		Order("session_count DESC, users.name ASC")
	if userID != nil {
		q = q.Where("user_sessions.user_id = ?", *userID)
	}

	var rows []sessionStatRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	stats := make([]SessionStat, len(rows))
	for i, r := range rows {
		stats[i] = SessionStat{
			UserID:             r.UserID,
			Name:               r.Name,
			Role:               r.Role,
			SessionCount:       r.SessionCount,
			AvgDurationSeconds: r.AvgDurationSeconds,
			LastLogin:          r.LastLogin.Time,
		}
	}
	return stats, nil
}

func (s *Store) sessionSecondsExpr() string {
	if s.isPostgres() {
		return "EXTRACT(EPOCH FROM (user_sessions.logout_time - user_sessions.login_time))"
	}
	return "(julianday(user_sessions.logout_time) - julianday(user_sessions.login_time)) * 86400.0"
}

// sqlTime scans aggregate timestamps, which sqlite hands back as text
type sqlTime struct {
	time.Time
}

var sqlTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Value lets gorm treat sqlTime as a column rather than a relation
func (t sqlTime) Value() (driver.Value, error) {
	return t.Time, nil
}

func (t *sqlTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("cannot scan %T into time", value)
}

func (t *sqlTime) parse(s string) error {
	for _, layout := range sqlTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised time %q", s)
}

package store

import (
	"context"
	"testing"
	"time"

	"bitemebuddy/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	customer := createUser(t, s, models.RoleCustomer)
	service := createService(t, s, "Lunch")
	thali := createMenuItem(t, s, service.ID, "Thali", "120.00")

	createOrder(t, s, customer.ID, service.ID, OrderLine{MenuItemID: thali.ID, Quantity: 2})
	cancelled := createOrder(t, s, customer.ID, service.ID, OrderLine{MenuItemID: thali.ID, Quantity: 1})
	_, err := s.UpdateOrder(ctx, cancelled.ID, customer.ID, func(o *models.Order) (string, error) {
		o.Status = models.StatusCancelled
		return "", nil
	})
	require.NoError(t, err)

	old := createOrder(t, s, customer.ID, service.ID, OrderLine{MenuItemID: thali.ID, Quantity: 1})
	yesterday := time.Now().UTC().AddDate(0, 0, -2)
	require.NoError(t, s.DB().Model(&models.Order{}).Where("id = ?", old.ID).Update("created_at", yesterday).Error)

	stats, err := s.OrderStats(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.TodayOrders)
	assert.Equal(t, int64(2), stats.PendingOrders)
	assert.True(t, decimal.NewFromInt(360).Equal(stats.TotalRevenue), stats.TotalRevenue.String())
	assert.True(t, decimal.NewFromInt(240).Equal(stats.TodayRevenue), stats.TodayRevenue.String())
}

func TestOrderStatsRevenueIsExactForFractionalPrices(t *testing.T) {
	s := newTestStore(t)
	customer := createUser(t, s, models.RoleCustomer)
	service := createService(t, s, "Snacks")
	mint := createMenuItem(t, s, service.ID, "Mint", "0.10")
	toffee := createMenuItem(t, s, service.ID, "Toffee", "0.20")

	createOrder(t, s, customer.ID, service.ID, OrderLine{MenuItemID: mint.ID, Quantity: 1})
	createOrder(t, s, customer.ID, service.ID, OrderLine{MenuItemID: toffee.ID, Quantity: 1})

	stats, err := s.OrderStats(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "0.3", stats.TotalRevenue.String())
	assert.Equal(t, "0.3", stats.TodayRevenue.String())
}

func TestOrderStatsEmpty(t *testing.T) {
	s := newTestStore(t)
	stats, err := s.OrderStats(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.IsZero())
}

func TestSessionStatsExcludesOpenSessionsFromAverage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	member := createUser(t, s, models.RoleTeamMember)
	other := createUser(t, s, models.RoleCustomer)

	login := testNow.Add(-3 * time.Hour)
	first, err := s.StartSession(ctx, member.ID, login)
	require.NoError(t, err)
	require.NoError(t, s.EndSession(ctx, first.ID, login.Add(30*time.Minute)))

	second, err := s.StartSession(ctx, member.ID, login.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.EndSession(ctx, second.ID, login.Add(2*time.Hour+30*time.Minute)))

	// still logged in
	_, err = s.StartSession(ctx, member.ID, login.Add(2*time.Hour+45*time.Minute))
	require.NoError(t, err)

	// outside the window
	_, err = s.StartSession(ctx, other.ID, testNow.AddDate(0, 0, -40))
	require.NoError(t, err)

	stats, err := s.SessionStats(ctx, nil, 30, testNow)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	got := stats[0]
	assert.Equal(t, member.ID, got.UserID)
	assert.Equal(t, models.RoleTeamMember, got.Role)
	assert.Equal(t, int64(3), got.SessionCount)
	assert.InDelta(t, 3600, got.AvgDurationSeconds, 1)
	assert.WithinDuration(t, login.Add(2*time.Hour+45*time.Minute), got.LastLogin, time.Second)

	only, err := s.SessionStats(ctx, &other.ID, 60, testNow)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, other.ID, only[0].UserID)
	assert.Zero(t, only[0].AvgDurationSeconds)
}

func TestEndSessionUnknownOrClosed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, s, models.RoleCustomer)

	assert.ErrorIs(t, s.EndSession(ctx, 4242, testNow), ErrNotFound)

	session, err := s.StartSession(ctx, user.ID, testNow)
	require.NoError(t, err)
	require.NoError(t, s.EndSession(ctx, session.ID, testNow.Add(time.Minute)))
	assert.ErrorIs(t, s.EndSession(ctx, session.ID, testNow.Add(2*time.Minute)), ErrNotFound)

	active, err := s.ActiveSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestTodaySessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, s, models.RoleCustomer)

	_, err := s.StartSession(ctx, user.ID, testNow)
	require.NoError(t, err)
	_, err = s.StartSession(ctx, user.ID, testNow.AddDate(0, 0, -1))
	require.NoError(t, err)

	today, err := s.TodaySessions(ctx, testNow)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, user.ID, today[0].User.ID)
}

func TestSQLTimeScan(t *testing.T) {
	want := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	inputs := []interface{}{
		want,
		"2024-05-01 10:30:00+00:00",
		[]byte("2024-05-01T10:30:00Z"),
		"2024-05-01 10:30:00",
	}
	for _, in := range inputs {
		var got sqlTime
		require.NoError(t, got.Scan(in))
		assert.True(t, want.Equal(got.Time), "%v", in)
	}

	var empty sqlTime
	require.NoError(t, empty.Scan(nil))
	assert.True(t, empty.IsZero())

	v, err := sqlTime{want}.Value()
	require.NoError(t, err)
	assert.Equal(t, want, v)

	assert.Error(t, (&sqlTime{}).Scan(42))
	assert.Error(t, (&sqlTime{}).Scan("yesterday"))
}

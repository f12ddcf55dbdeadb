package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"bitemebuddy/config"
	"bitemebuddy/models"
	"bitemebuddy/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type sentSMS struct {
	to, body string
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sentSMS
	err  error
}

func (f *fakeSMS) Send(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentSMS{to: to, body: body})
	return f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []OrderEvent
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	store    *store.Store
	customer *models.User
	member   *models.User
	admin    *models.User
	service  *models.Service
	thali    *models.MenuItem
}

var seq int

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := config.OpenDB("file::memory:", false)
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	st := store.New(db)
	ctx := context.Background()

	mkUser := func(role models.UserRole) *models.User {
		seq++
		u, err := st.CreateUser(ctx, store.NewUser{
			Name:     fmt.Sprintf("Person %d", seq),
			Username: fmt.Sprintf("person_%d", seq),
			Email:    fmt.Sprintf("person%d@example.com", seq),
			Phone:    fmt.Sprintf("+9190000%05d", seq),
			Password: "secret123",
			Address:  "221B Baker Street",
			Role:     role,
		})
		require.NoError(t, err)
		return u
	}

	f := &fixture{
		store:    st,
		customer: mkUser(models.RoleCustomer),
		member:   mkUser(models.RoleTeamMember),
		admin:    mkUser(models.RoleAdmin),
	}
	f.service, err = st.CreateService(ctx, store.ServiceInput{Name: "Lunch"})
	require.NoError(t, err)
	f.thali, err = st.CreateMenuItem(ctx, f.service.ID, store.MenuItemInput{
		Name:  "Thali",
		Price: decimal.RequireFromString("120.00"),
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) newOrder(t *testing.T) *models.Order {
	t.Helper()
	order, err := f.store.CreateOrder(context.Background(), store.NewOrder{
		CustomerID: f.customer.ID,
		ServiceID:  f.service.ID,
		Address:    "221B Baker Street",
		Items:      []store.OrderLine{{MenuItemID: f.thali.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	return order
}

var errSMSDown = errors.New("gateway down")

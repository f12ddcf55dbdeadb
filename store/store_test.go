package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bitemebuddy/config"
	"bitemebuddy/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := config.OpenDB("file::memory:", false)
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(db)
}

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

var userSeq int

func createUser(t *testing.T, s *Store, role models.UserRole) *models.User {
	t.Helper()
	userSeq++
	user, err := s.CreateUser(context.Background(), NewUser{
		Name:     fmt.Sprintf("User %d", userSeq),
		Username: fmt.Sprintf("user_%d", userSeq),
		Email:    fmt.Sprintf("user%d@example.com", userSeq),
		Phone:    fmt.Sprintf("+9198765%05d", userSeq),
		Password: "secret123",
		Address:  "12 MG Road, Pune",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func createService(t *testing.T, s *Store, name string) *models.Service {
	t.Helper()
	service, err := s.CreateService(context.Background(), ServiceInput{Name: name, Description: name + " menu"})
	require.NoError(t, err)
	return service
}

func createMenuItem(t *testing.T, s *Store, serviceID uint, name, price string) *models.MenuItem {
	t.Helper()
	item, err := s.CreateMenuItem(context.Background(), serviceID, MenuItemInput{
		Name:  name,
		Price: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return item
}

func createOrder(t *testing.T, s *Store, customerID, serviceID uint, lines ...OrderLine) *models.Order {
	t.Helper()
	order, err := s.CreateOrder(context.Background(), NewOrder{
		CustomerID: customerID,
		ServiceID:  serviceID,
		Address:    "12 MG Road, Pune",
		Items:      lines,
	})
	require.NoError(t, err)
	return order
}

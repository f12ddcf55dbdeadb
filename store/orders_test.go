package store

import (
	"context"
	"errors"
	"testing"

	"bitemebuddy/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTotalIsFrozenAtCreation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := createUser(t, s, models.RoleCustomer)
	service := createService(t, s, "Lunch")
	thali := createMenuItem(t, s, service.ID, "Thali", "120.00")

	order := createOrder(t, s, customer.ID, service.ID, OrderLine{MenuItemID: thali.ID, Quantity: 2})
	assert.Equal(t, models.StatusPending, order.Status)
	assert.True(t, decimal.RequireFromString("240.00").Equal(order.TotalAmount), order.TotalAmount.String())

	_, err := s.UpdateMenuItem(ctx, thali.ID, MenuItemInput{Name: "Thali", Price: decimal.RequireFromString("150.00")})
	require.NoError(t, err)

	got, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("240.00").Equal(got.TotalAmount))
	require.Len(t, got.Items, 1)
	assert.True(t, decimal.RequireFromString("120.00").Equal(got.Items[0].PriceAtTime))

	sum := decimal.Zero
	for _, item := range got.Items {
		sum = sum.Add(item.Subtotal())
	}
	assert.True(t, sum.Equal(got.TotalAmount))
}

func TestCreateOrderSumsMixedLines(t *testing.T) {
	s := newTestStore(t)
	customer := createUser(t, s, models.RoleCustomer)
	service := createService(t, s, "Snacks")
	samosa := createMenuItem(t, s, service.ID, "Samosa", "15.50")
	chai := createMenuItem(t, s, service.ID, "Chai", "10.25")

	order := createOrder(t, s, customer.ID, service.ID,
		OrderLine{MenuItemID: samosa.ID, Quantity: 3},
		OrderLine{MenuItemID: chai.ID, Quantity: 2},
		OrderLine{MenuItemID: 9999, Quantity: 5},
	)
	assert.True(t, decimal.RequireFromString("67.00").Equal(order.TotalAmount), order.TotalAmount.String())
	assert.Len(t, order.Items, 2)
}

func TestCreateOrderRejections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	customer := createUser(t, s, models.RoleCustomer)
	service := createService(t, s, "Lunch")
	thali := createMenuItem(t, s, service.ID, "Thali", "120.00")

	tests := []struct {
		name string
		in   NewOrder
		want error
	}{
		{"short address", NewOrder{CustomerID: customer.ID, ServiceID: service.ID, Address: "abc",
			Items: []OrderLine{{MenuItemID: thali.ID, Quantity: 1}}}, ErrInvalid},
		{"no items", NewOrder{CustomerID: customer.ID, ServiceID: service.ID, Address: "12 MG Road"}, ErrInvalid},
		{"zero quantity", NewOrder{CustomerID: customer.ID, ServiceID: service.ID, Address: "12 MG Road",
			Items: []OrderLine{{MenuItemID: thali.ID, Quantity: 0}}}, ErrInvalid},
		{"only unknown items", NewOrder{CustomerID: customer.ID, ServiceID: service.ID, Address: "12 MG Road",
			Items: []OrderLine{{MenuItemID: 9999, Quantity: 1}}}, ErrInvalid},
		{"unknown service", NewOrder{CustomerID: customer.ID, ServiceID: 9999, Address: "12 MG Road",
			Items: []OrderLine{{MenuItemID: thali.ID, Quantity: 1}}}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateOrder(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var count int64
	require.NoError(t, s.DB().Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateOrderRecordsHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	customer := createUser(t, s, models.RoleCustomer)
	member := createUser(t, s, models.RoleTeamMember)
	admin := createUser(t, s, models.RoleAdmin)
	service := createService(t, s, "Lunch")
	thali := createMenuItem(t, s, service.ID, "Thali", "120.00")
	order := createOrder(t, s, customer.ID, service.ID, OrderLine{MenuItemID: thali.ID, Quantity: 1})

	_, err := s.UpdateOrder(ctx, order.ID, admin.ID, func(o *models.Order) (string, error) {
		o.AssignedTo = &member.ID
		o.Status = models.StatusAssigned
		return "Assigned by admin", nil
	})
	require.NoError(t, err)

	got, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, got.Status)
	require.NotNil(t, got.Assignee)
	assert.Equal(t, member.ID, got.Assignee.ID)
	require.Len(t, got.StatusHistory, 2)
	assert.Equal(t, models.StatusPending, got.StatusHistory[1].FromStatus)
	assert.Equal(t, models.StatusAssigned, got.StatusHistory[1].ToStatus)

	mine, err := s.ListOrders(ctx, OrderFilter{AssignedTo: member.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestUpdateOrderRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	customer := createUser(t, s, models.RoleCustomer)
	service := createService(t, s, "Lunch")
	thali := createMenuItem(t, s, service.ID, "Thali", "120.00")
	order := createOrder(t, s, customer.ID, service.ID, OrderLine{MenuItemID: thali.ID, Quantity: 1})

	boom := errors.New("boom")
	_, err := s.UpdateOrder(ctx, order.ID, customer.ID, func(o *models.Order) (string, error) {
		o.Status = models.StatusCancelled
		return "", boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)

	_, err = s.UpdateOrder(ctx, 9999, customer.ID, func(o *models.Order) (string, error) { return "", nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPriceLines(t *testing.T) {
	s := newTestStore(t)
	service := createService(t, s, "Lunch")
	thali := createMenuItem(t, s, service.ID, "Thali", "120.00")

	other := createService(t, s, "Dinner")
	biryani := createMenuItem(t, s, other.ID, "Biryani", "200.00")

	items, total, err := s.PriceLines(context.Background(), service.ID, []OrderLine{
		{MenuItemID: thali.ID, Quantity: 3},
		{MenuItemID: 12345, Quantity: 1},
		{MenuItemID: biryani.ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, decimal.RequireFromString("360").Equal(total))
}

func TestCreateOrderIgnoresOtherServicesItems(t *testing.T) {
	s := newTestStore(t)
	customer := createUser(t, s, models.RoleCustomer)
	lunch := createService(t, s, "Lunch")
	dinner := createService(t, s, "Dinner")
	thali := createMenuItem(t, s, lunch.ID, "Thali", "120.00")
	biryani := createMenuItem(t, s, dinner.ID, "Biryani", "200.00")

	order := createOrder(t, s, customer.ID, lunch.ID,
		OrderLine{MenuItemID: thali.ID, Quantity: 1},
		OrderLine{MenuItemID: biryani.ID, Quantity: 2},
	)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Thali", order.Items[0].Name)
	assert.True(t, decimal.RequireFromString("120.00").Equal(order.TotalAmount), order.TotalAmount.String())

	_, err := s.CreateOrder(context.Background(), NewOrder{
		CustomerID: customer.ID,
		ServiceID:  lunch.ID,
		Address:    "221B Baker Street",
		Items:      []OrderLine{{MenuItemID: biryani.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalid)
}

package services

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"bitemebuddy/models"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 4)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1000)
		assert.LessOrEqual(t, n, 9999)
	}
}

func TestCatalogWithoutCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	catalog := NewCatalog(f.store, nil, time.Minute)

	services, err := catalog.Services(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)

	menu, err := catalog.Menu(ctx, f.service.ID)
	require.NoError(t, err)
	require.Len(t, menu.MenuItems, 1)
	assert.Equal(t, "Thali", menu.MenuItems[0].Name)

	catalog.Invalidate(ctx, f.service.ID)
}

func TestCatalogFallsBackWhenRedisIsDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cache := &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 100 * time.Millisecond,
			MaxRetries:  -1,
		}),
		prefix: "test:",
	}
	t.Cleanup(func() { _ = cache.Close() })
	catalog := NewCatalog(f.store, cache, time.Minute)

	services, err := catalog.Services(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)

	menu, err := catalog.Menu(ctx, f.service.ID)
	require.NoError(t, err)
	require.Len(t, menu.MenuItems, 1)

	assert.Error(t, cache.forget(ctx, servicesCacheKey))
	catalog.Invalidate(ctx, f.service.ID)
}

func TestRedisCacheKeys(t *testing.T) {
	_, err := NewRedisCache("not a redis url")
	assert.Error(t, err)

	c := &RedisCache{prefix: cacheKeyPrefix}
	assert.Equal(t, "bitemebuddy:catalog:services", c.key(servicesCacheKey))
	assert.Equal(t, "bitemebuddy:catalog:service:7", c.key(menuCacheKey(7)))
}

func TestOrderEventJSON(t *testing.T) {
	member := uint(3)
	order := &models.Order{
		ID:          9,
		CustomerID:  2,
		AssignedTo:  &member,
		Status:      models.StatusAssigned,
		TotalAmount: decimal.RequireFromString("240.00"),
	}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(NewOrderEvent(EventOrderAssigned, order, at))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "order.assigned",
		"order_id": 9,
		"customer_id": 2,
		"assigned_to": 3,
		"status": "assigned",
		"total_amount": "240",
		"at": "2024-05-01T12:00:00Z"
	}`, string(data))

	assert.NoError(t, NopPublisher{}.Publish(context.Background(), OrderEvent{}))
}

package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestCheckOTP(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		order  Order
		code   string
		expect bool
	}{
		{
			name:   "no otp stored",
			order:  Order{OTPExpiry: timePtr(now.Add(time.Minute))},
			code:   "1234",
			expect: false,
		},
		{
			name:   "no expiry stored",
			order:  Order{OTP: strPtr("1234")},
			code:   "1234",
			expect: false,
		},
		{
			name:   "expired",
			order:  Order{OTP: strPtr("1234"), OTPExpiry: timePtr(now.Add(-time.Second))},
			code:   "1234",
			expect: false,
		},
		{
			name:   "expiry instant is not valid",
			order:  Order{OTP: strPtr("1234"), OTPExpiry: timePtr(now)},
			code:   "1234",
			expect: false,
		},
		{
			name:   "mismatch",
			order:  Order{OTP: strPtr("1234"), OTPExpiry: timePtr(now.Add(time.Minute))},
			code:   "4321",
			expect: false,
		},
		{
			name:   "whitespace is not trimmed",
			order:  Order{OTP: strPtr("1234"), OTPExpiry: timePtr(now.Add(time.Minute))},
			code:   " 1234",
			expect: false,
		},
		{
			name:   "exact match before expiry",
			order:  Order{OTP: strPtr("1234"), OTPExpiry: timePtr(now.Add(time.Minute))},
			code:   "1234",
			expect: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.order.CheckOTP(tt.code, now))
		})
	}
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{PriceAtTime: decimal.RequireFromString("120.00"), Quantity: 2}
	assert.True(t, decimal.RequireFromString("240").Equal(item.Subtotal()))
}

func TestStatusAndRoleHelpers(t *testing.T) {
	assert.True(t, StatusOutForDelivery.Valid())
	assert.False(t, OrderStatus("shipped").Valid())
	assert.Equal(t, "out for delivery", StatusOutForDelivery.Label())

	assert.True(t, RoleTeamMember.Valid())
	assert.False(t, UserRole("driver").Valid())
	assert.Equal(t, "team member", RoleTeamMember.Label())
}

func TestIsAssignedTo(t *testing.T) {
	id := uint(7)
	o := Order{AssignedTo: &id}
	assert.True(t, o.IsAssignedTo(7))
	assert.False(t, o.IsAssignedTo(8))
	assert.False(t, (&Order{}).IsAssignedTo(7))
}

package models

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusAssigned       OrderStatus = "assigned"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// AllStatuses lists every status in lifecycle order
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusAssigned,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

type Order struct {
	ID                  uint                 `json:"id" gorm:"primaryKey"`
	CustomerID          uint                 `json:"customer_id" gorm:"not null;index"`
	Customer            User                 `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	ServiceID           uint                 `json:"service_id" gorm:"not null;index"`
	Service             Service              `json:"service,omitempty" gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
	AssignedTo          *uint                `json:"assigned_to" gorm:"index"`
	Assignee            *User                `json:"assignee,omitempty" gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL"`
	Status              OrderStatus          `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	TotalAmount         decimal.Decimal      `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Address             string               `json:"address" gorm:"type:text;not null"`
	Notes               string               `json:"notes" gorm:"type:text"`
	OTP                 *string              `json:"-" gorm:"column:otp;size:6"`
	OTPExpiry           *time.Time           `json:"otp_expiry" gorm:"column:otp_expiry"`
	DeliveryConfirmedAt *time.Time           `json:"delivery_confirmed_at"`
	Items               []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory       []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// IsAssignedTo reports whether the order is currently assigned to userID
func (o *Order) IsAssignedTo(userID uint) bool {
	return o.AssignedTo != nil && *o.AssignedTo == userID
}

// CheckOTP reports whether code matches the stored OTP and now is strictly
// before its expiry.
func (o *Order) CheckOTP(code string, now time.Time) bool {
	if o.OTP == nil || *o.OTP == "" || o.OTPExpiry == nil {
		return false
	}
	if !now.Before(*o.OTPExpiry) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*o.OTP), []byte(code)) == 1
}

type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID  *uint           `json:"menu_item_id" gorm:"index"`
	MenuItem    *MenuItem       `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID;constraint:OnDelete:SET NULL"`
	Name        string          `json:"name" gorm:"size:100"` // snapshot name
	Quantity    int             `json:"quantity" gorm:"not null"`
	PriceAtTime decimal.Decimal `json:"price_at_time" gorm:"type:decimal(10,2);not null"` // snapshot price at time of order
}

// Subtotal is the line total frozen at order time
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStatusHistory tracks every status change of an order
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status" gorm:"type:varchar(20)"`
	ToStatus   OrderStatus `json:"to_status" gorm:"type:varchar(20);not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

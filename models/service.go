package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a food vendor/category customers order from
type Service struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"size:100;not null;index"`
	Description string     `json:"description" gorm:"type:text"`
	ImageURL    string     `json:"image_url" gorm:"size:500"`
	MenuItems   []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type MenuItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ServiceID   uint            `json:"service_id" gorm:"not null;index"`
	Name        string          `json:"name" gorm:"size:100;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL    string          `json:"image_url" gorm:"size:500"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the delivery lifecycle of an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
)

type Order struct {
	ID             uint        `json:"id" gorm:"primaryKey"`
	UserID         uint        `json:"user_id" gorm:"not null"`
	User           User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	DeliveryCrewID *uint       `json:"delivery_crew_id"`
	DeliveryCrew   *User       `json:"delivery_crew,omitempty" gorm:"foreignKey:DeliveryCrewID"`
	Status         OrderStatus `json:"status" gorm:"not null;default:'pending'"`
	// Total is fixed at creation from the converted cart lines and never
	// recomputed from current menu prices.
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	Items     []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderItem is an immutable snapshot of the cart line that produced it.
type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"not null"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null"`
	MenuItem   MenuItem        `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}

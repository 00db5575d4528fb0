package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one pending line in a user's cart. UnitPrice is a snapshot of
// the menu price at the time the line was created; repeated adds of the same
// item accumulate Quantity against that snapshot instead of creating a
// second row.
type CartItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserID     uint            `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_item"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null;uniqueIndex:idx_cart_user_item"`
	MenuItem   MenuItem        `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"` // Quantity × UnitPrice
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

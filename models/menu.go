package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"not null"`
}

type MenuItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Title      string          `json:"title" gorm:"not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CategoryID uint            `json:"category_id"`
	Category   Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	// Featured marks the item of the day. At most one row carries the flag
	// at any time.
	Featured  bool      `json:"featured" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package handlers

import (
	"errors"
	"net/http"

	"littlelemon-api/config"
	"littlelemon-api/middleware"
	"littlelemon-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddToCartRequest struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"omitempty,min=1"`
}

// AddToCart adds a menu item to the caller's cart. A repeated add for the
// same item accumulates quantity on the existing line; the unit price stays
// pinned to the snapshot taken when the line was first created.
func AddToCart(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	var menuItem models.MenuItem
	if err := config.DB.First(&menuItem, req.MenuItemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}

	var line models.CartItem
	created := false
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND menu_item_id = ?", userID, req.MenuItemID).
			First(&line).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			line = models.CartItem{
				UserID:     userID,
				MenuItemID: req.MenuItemID,
				Quantity:   req.Quantity,
				UnitPrice:  menuItem.Price,
				Price:      menuItem.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
			}
			return tx.Create(&line).Error
		}
		if err != nil {
			return err
		}
		line.Quantity += req.Quantity
		line.Price = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		return tx.Save(&line).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart", "cart_item": line})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "cart_item": line})
}

// ViewCart returns the caller's cart lines with a running total
func ViewCart(c *gin.Context) {
	userID := middleware.GetUserID(c)

	items := []models.CartItem{}
	config.DB.Preload("MenuItem").Where("user_id = ?", userID).Find(&items)

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "total": total, "cart_items": items})
}

// RemoveCartItem deletes a single line from the caller's cart
func RemoveCartItem(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var line models.CartItem
	if err := config.DB.Where("user_id = ? AND menu_item_id = ?", userID, c.Param("menuItemId")).
		First(&line).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}
	config.DB.Delete(&line)
	c.Status(http.StatusNoContent)
}

// ClearCart deletes every line in the caller's cart. Clearing an already
// empty cart is a no-op, not an error.
func ClearCart(c *gin.Context) {
	userID := middleware.GetUserID(c)
	config.DB.Where("user_id = ?", userID).Delete(&models.CartItem{})
	c.Status(http.StatusNoContent)
}

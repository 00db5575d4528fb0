package handlers

import (
	"net/http"
	"strings"

	"littlelemon-api/config"
	"littlelemon-api/middleware"
	"littlelemon-api/models"
	"littlelemon-api/pkg/query"
	"littlelemon-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlaceOrder converts the caller's cart into an order. The order, its
// snapshot lines, the final total and the cart wipe are committed as one
// transaction: a failure anywhere leaves the cart untouched.
func PlaceOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var cartItems []models.CartItem
	config.DB.Where("user_id = ?", userID).Find(&cartItems)
	if len(cartItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	}

	var order models.Order
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		order = models.Order{
			UserID: userID,
			Status: models.StatusPending,
			Total:  decimal.Zero,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total := decimal.Zero
		for _, item := range cartItems {
			line := models.OrderItem{
				OrderID:    order.ID,
				MenuItemID: item.MenuItemID,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				Price:      item.Price,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
			total = total.Add(item.Price)
		}
		if err := tx.Model(&order).Update("total", total).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	config.DB.Preload("Items.MenuItem").First(&order, order.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

// ListOrders returns a role-dependent view: delivery crew see orders
// assigned to them, managers see all orders with filters and pagination,
// everyone else sees their own.
func ListOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)

	orders := []models.Order{}
	switch {
	case middleware.HasGroup(userID, models.GroupDeliveryCrew):
		config.DB.Preload("Items.MenuItem").
			Where("delivery_crew_id = ?", userID).
			Find(&orders)
	case middleware.HasGroup(userID, models.GroupManager):
		db := config.DB.Model(&models.Order{}).Preload("Items.MenuItem")
		if toPrice := c.Query("to_price"); toPrice != "" {
			db = db.Where("total <= ?", toPrice)
		}
		if search := c.Query("search"); search != "" {
			db = db.Where("LOWER(status) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		db.Scopes(
			query.OrderBy(c.Query("ordering"), "id", "total", "status", "created_at"),
			query.Paginate(c),
		).Find(&orders)
	default:
		config.DB.Preload("Items.MenuItem").
			Where("user_id = ?", userID).
			Find(&orders)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrder returns a single order. Only the owning customer may fetch an
// order by id; a manager who sees every order in the list still gets 403
// here. Known inconsistency, preserved until product decides otherwise.
func GetOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.Preload("Items.MenuItem").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized."})
		return
	}
	c.JSON(http.StatusOK, order)
}

type OrderUpdateRequest struct {
	DeliveryCrewID *uint              `json:"delivery_crew_id"`
	Status         models.OrderStatus `json:"status"`
}

// UpdateOrder replaces an order's mutable fields wholesale (manager only).
// This is the override channel outside the strict lifecycle.
func UpdateOrder(c *gin.Context) {
	if !middleware.HasGroup(middleware.GetUserID(c), models.GroupManager) {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized."})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var req OrderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	config.DB.Model(&order).Updates(map[string]interface{}{
		"delivery_crew_id": req.DeliveryCrewID,
		"status":           req.Status,
	})
	c.JSON(http.StatusResetContent, order)
}

// PatchOrder applies a partial update. An assigned delivery crew member may
// change the status field and nothing else — extra fields in the body are
// ignored. A manager may patch any provided field.
func PatchOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if middleware.HasGroup(userID, models.GroupDeliveryCrew) {
		if order.DeliveryCrewID == nil || *order.DeliveryCrewID != userID {
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized."})
			return
		}
		status, ok := req["status"].(string)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status field is required"})
			return
		}
		config.DB.Model(&order).Update("status", status)
		c.JSON(http.StatusResetContent, order)
		return
	}

	if middleware.HasGroup(userID, models.GroupManager) {
		allowed := map[string]bool{"status": true, "delivery_crew_id": true, "total": true}
		update := map[string]interface{}{}
		for k, v := range req {
			if allowed[k] {
				update[k] = v
			}
		}
		config.DB.Model(&order).Updates(update)
		c.JSON(http.StatusResetContent, order)
		return
	}

	c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized."})
}

// DeleteOrder removes an order and its lines (manager only)
func DeleteOrder(c *gin.Context) {
	if !middleware.HasGroup(middleware.GetUserID(c), models.GroupManager) {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized."})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}
	c.Status(http.StatusNoContent)
}

type AssignDeliveryRequest struct {
	DeliveryCrewID uint `json:"delivery_crew_id" binding:"required"`
}

// AssignDeliveryCrew sets the delivery crew member for an order (manager
// only) and moves it out for delivery. Re-assignment of an already-assigned
// order is allowed.
func AssignDeliveryCrew(c *gin.Context) {
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var req AssignDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var crew models.User
	if err := config.DB.First(&crew, req.DeliveryCrewID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Delivery crew member not found"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusOutForDelivery, statemachine.ActorManager); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "current_status": order.Status})
		return
	}

	config.DB.Model(&order).Updates(map[string]interface{}{
		"delivery_crew_id": crew.ID,
		"status":           models.StatusOutForDelivery,
	})
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus marks an order delivered. Requires the delivery crew
// role and assignment to this specific order.
func UpdateOrderStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.DeliveryCrewID == nil || *order.DeliveryCrewID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized."})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusDelivered, statemachine.ActorDeliveryCrew); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "current_status": order.Status})
		return
	}

	config.DB.Model(&order).Update("status", models.StatusDelivered)
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully.", "order": order})
}

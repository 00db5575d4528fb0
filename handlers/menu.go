package handlers

import (
	"net/http"
	"strings"

	"littlelemon-api/config"
	"littlelemon-api/middleware"
	"littlelemon-api/models"
	"littlelemon-api/pkg/query"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Categories ───────────────────────────────────────────────────────────────

type CategoryRequest struct {
	Title string `json:"title" binding:"required"`
}

// ListCategories returns all categories
func ListCategories(c *gin.Context) {
	var categories []models.Category
	config.DB.Find(&categories)
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "categories": categories})
}

// CreateCategory adds a new category (manager only)
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := models.Category{Title: req.Title}
	if err := config.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

// GetCategory returns a single category
func GetCategory(c *gin.Context) {
	var category models.Category
	if err := config.DB.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, category)
}

// UpdateCategory replaces a category's fields (manager only)
func UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := config.DB.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	config.DB.Model(&category).Update("title", req.Title)
	c.JSON(http.StatusResetContent, category)
}

// DeleteCategory removes a category (manager only)
func DeleteCategory(c *gin.Context) {
	var category models.Category
	if err := config.DB.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	config.DB.Delete(&category)
	c.Status(http.StatusNoContent)
}

// ── Menu items ───────────────────────────────────────────────────────────────

type MenuItemRequest struct {
	Title      string           `json:"title" binding:"required"`
	Price      *decimal.Decimal `json:"price" binding:"required"`
	CategoryID uint             `json:"category_id"`
	Featured   bool             `json:"featured"`
}

// ListMenuItems returns menu items with conjunctive filters, multi-field
// ordering and pagination. A page past the end yields an empty list.
func ListMenuItems(c *gin.Context) {
	db := config.DB.Model(&models.MenuItem{}).Preload("Category")

	if category := c.Query("category"); category != "" {
		db = db.Joins("JOIN categories ON categories.id = menu_items.category_id").
			Where("categories.title = ?", category)
	}
	if toPrice := c.Query("to_price"); toPrice != "" {
		db = db.Where("price <= ?", toPrice)
	}
	if search := c.Query("search"); search != "" {
		db = db.Where("LOWER(menu_items.title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	db = db.Scopes(
		query.OrderBy(c.Query("ordering"), "id", "title", "price"),
		query.Paginate(c),
	)

	items := []models.MenuItem{}
	db.Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu_items": items})
}

// CreateMenuItem adds a menu item (manager or staff)
func CreateMenuItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if !middleware.HasGroup(userID, models.GroupManager) && !middleware.IsStaff(userID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized."})
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
		return
	}

	item := models.MenuItem{
		Title:      req.Title,
		Price:      *req.Price,
		CategoryID: req.CategoryID,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetMenuItem returns a single menu item
func GetMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.Preload("Category").First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateMenuItem replaces a menu item's fields (manager only). PUT expects
// the full representation; PATCH applies only the provided fields.
func UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}

	if c.Request.Method == http.MethodPut {
		var req MenuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
			return
		}
		config.DB.Model(&item).Updates(map[string]interface{}{
			"title":       req.Title,
			"price":       *req.Price,
			"category_id": req.CategoryID,
		})
		c.JSON(http.StatusResetContent, item)
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{"title": true, "price": true, "category_id": true}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(&item).Updates(update)
	c.JSON(http.StatusResetContent, item)
}

// DeleteMenuItem removes a menu item (manager only)
func DeleteMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	config.DB.Delete(&item)
	c.Status(http.StatusNoContent)
}

// SetFeaturedItem marks one item as the item of the day (staff only). The
// clear-then-set runs in one transaction so concurrent calls can never
// leave two items featured.
func SetFeaturedItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MenuItem{}).Where("featured = ?", true).
			Update("featured", false).Error; err != nil {
			return err
		}
		return tx.Model(&item).Update("featured", true).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update featured item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

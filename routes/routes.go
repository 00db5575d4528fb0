package routes

import (
	"littlelemon-api/handlers"
	"littlelemon-api/middleware"
	"littlelemon-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		// Menu browsing needs no auth
		public.GET("/menu-items", handlers.ListMenuItems)
		public.GET("/menu-items/:id", handlers.GetMenuItem)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		// Categories
		auth.GET("/category", handlers.ListCategories)
		auth.POST("/category", middleware.GroupRequired(models.GroupManager), handlers.CreateCategory)
		auth.GET("/category/:id", handlers.GetCategory)
		auth.PUT("/category/:id", middleware.GroupRequired(models.GroupManager), handlers.UpdateCategory)
		auth.PATCH("/category/:id", middleware.GroupRequired(models.GroupManager), handlers.UpdateCategory)
		auth.DELETE("/category/:id", middleware.GroupRequired(models.GroupManager), handlers.DeleteCategory)

		// Menu management (create allows manager or staff, checked in handler)
		auth.POST("/menu-items", handlers.CreateMenuItem)
		auth.PUT("/menu-items/:id", middleware.GroupRequired(models.GroupManager), handlers.UpdateMenuItem)
		auth.PATCH("/menu-items/:id", middleware.GroupRequired(models.GroupManager), handlers.UpdateMenuItem)
		auth.DELETE("/menu-items/:id", middleware.GroupRequired(models.GroupManager), handlers.DeleteMenuItem)
		auth.PATCH("/menu-items/:id/featured", middleware.StaffRequired(), handlers.SetFeaturedItem)

		// Cart
		auth.GET("/cart/menu-items", handlers.ViewCart)
		auth.POST("/cart/menu-items", handlers.AddToCart)
		auth.DELETE("/cart/menu-items", handlers.ClearCart)
		auth.DELETE("/cart/menu-items/:menuItemId", handlers.RemoveCartItem)

		// Orders (role-dependent behavior lives in the handlers)
		auth.GET("/orders", handlers.ListOrders)
		auth.POST("/orders", handlers.PlaceOrder)
		auth.GET("/orders/:id", handlers.GetOrder)
		auth.PUT("/orders/:id", handlers.UpdateOrder)
		auth.PATCH("/orders/:id", handlers.PatchOrder)
		auth.DELETE("/orders/:id", handlers.DeleteOrder)
		auth.PATCH("/orders/:id/assign-delivery", middleware.GroupRequired(models.GroupManager), handlers.AssignDeliveryCrew)
		auth.PATCH("/orders/:id/update-status", middleware.GroupRequired(models.GroupDeliveryCrew), handlers.UpdateOrderStatus)
	}

	// ── Manager group administration ───────────────────────────────
	groups := r.Group("/api/groups")
	groups.Use(middleware.AuthRequired(), middleware.GroupRequired(models.GroupManager))
	{
		groups.GET("/manager/users", handlers.ListManagers)
		groups.POST("/manager/users", handlers.SetManager)
		groups.DELETE("/manager/users/:id", handlers.RemoveManager)

		groups.GET("/delivery-crew/users", handlers.ListDeliveryCrew)
		groups.POST("/delivery-crew/users", handlers.SetDeliveryCrew)
		groups.DELETE("/delivery-crew/users/:id", handlers.RemoveDeliveryCrew)
	}

	// ── Staff-only bootstrap surface ───────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.StaffRequired())
	{
		admin.POST("/groups", handlers.AdminEnsureGroup)
		admin.GET("/groups/manager/users", handlers.AdminListManagers)
		admin.POST("/groups/manager/users", handlers.AdminSetManager)
		admin.DELETE("/groups/manager/users/:id", handlers.AdminRemoveManager)
		admin.PATCH("/users/:id/delivery-crew", handlers.AdminAssignToDeliveryCrew)
	}
}

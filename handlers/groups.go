package handlers

import (
	"net/http"

	"littlelemon-api/config"
	"littlelemon-api/middleware"
	"littlelemon-api/models"

	"github.com/gin-gonic/gin"
)

type GroupMemberRequest struct {
	Username string `json:"username" binding:"required"`
}

type EnsureGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// EnsureGroup creates the named group if it does not exist yet. Idempotent:
// ensuring an existing group is a no-op, not an error.
func EnsureGroup(name string) (*models.Group, error) {
	var group models.Group
	err := config.DB.Where(models.Group{Name: name}).FirstOrCreate(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func listGroupMembers(c *gin.Context, groupName string) {
	var group models.Group
	if err := config.DB.Where("name = ?", groupName).First(&group).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	users := []models.User{}
	config.DB.Model(&group).Association("Users").Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

func setGroupMember(c *gin.Context, groupName, roleLabel string) {
	var req GroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username is incorrect or not existed."})
		return
	}

	var user models.User
	if err := config.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	var group models.Group
	if err := config.DB.Where("name = ?", groupName).First(&group).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if err := config.DB.Model(&group).Association("Users").Append(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User " + user.Username + " is set as " + roleLabel + "."})
}

func removeGroupMember(c *gin.Context, groupName, roleLabel string) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if !middleware.HasGroup(user.ID, groupName) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "This user is not a " + roleLabel})
		return
	}
	var group models.Group
	if err := config.DB.Where("name = ?", groupName).First(&group).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if err := config.DB.Model(&group).Association("Users").Delete(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User " + user.Username + " is not " + roleLabel + " now."})
}

// ── Manager-gated group administration ───────────────────────────────────────

// ListManagers returns the Manager group members
func ListManagers(c *gin.Context) { listGroupMembers(c, models.GroupManager) }

// SetManager adds a user to the Manager group by username
func SetManager(c *gin.Context) { setGroupMember(c, models.GroupManager, "manager") }

// RemoveManager removes a user from the Manager group
func RemoveManager(c *gin.Context) { removeGroupMember(c, models.GroupManager, "manager") }

// ListDeliveryCrew returns the Delivery crew group members
func ListDeliveryCrew(c *gin.Context) { listGroupMembers(c, models.GroupDeliveryCrew) }

// SetDeliveryCrew adds a user to the Delivery crew group by username
func SetDeliveryCrew(c *gin.Context) { setGroupMember(c, models.GroupDeliveryCrew, "delivery crew") }

// RemoveDeliveryCrew removes a user from the Delivery crew group
func RemoveDeliveryCrew(c *gin.Context) {
	removeGroupMember(c, models.GroupDeliveryCrew, "delivery crew")
}

// ── Staff-only bootstrap surface ─────────────────────────────────────────────
// Granting Manager rights requires an existing Manager, so the first grant
// has to come through the elevated admin capability.

// AdminEnsureGroup creates a group idempotently (staff only)
func AdminEnsureGroup(c *gin.Context) {
	var req EnsureGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := EnsureGroup(req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ensure group"})
		return
	}
	c.JSON(http.StatusOK, group)
}

// AdminListManagers returns the Manager group members (staff only)
func AdminListManagers(c *gin.Context) { listGroupMembers(c, models.GroupManager) }

// AdminSetManager adds a user to the Manager group (staff only)
func AdminSetManager(c *gin.Context) { setGroupMember(c, models.GroupManager, "manager") }

// AdminRemoveManager removes a user from the Manager group (staff only)
func AdminRemoveManager(c *gin.Context) { removeGroupMember(c, models.GroupManager, "manager") }

// AdminAssignToDeliveryCrew puts a user into the Delivery crew group by id
// (staff only). The group itself is ensured at startup, not here.
func AdminAssignToDeliveryCrew(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	var group models.Group
	if err := config.DB.Where("name = ?", models.GroupDeliveryCrew).First(&group).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if err := config.DB.Model(&group).Association("Users").Append(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User " + user.Username + " assigned to delivery crew"})
}

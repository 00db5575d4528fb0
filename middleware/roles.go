package middleware

import (
	"net/http"

	"littlelemon-api/config"
	"littlelemon-api/models"

	"github.com/gin-gonic/gin"
)

// HasGroup reports whether the user currently belongs to the named group.
// Membership is read from the store on every call; there is no caching and
// no hierarchy (a Manager does not implicitly pass a Delivery crew check).
func HasGroup(userID uint, group string) bool {
	var count int64
	config.DB.Table("user_groups").
		Joins("JOIN groups ON groups.id = user_groups.group_id").
		Where("user_groups.user_id = ? AND groups.name = ?", userID, group).
		Count(&count)
	return count > 0
}

// IsStaff reports whether the user carries the elevated admin capability.
func IsStaff(userID uint) bool {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return false
	}
	return user.IsStaff
}

// GroupRequired enforces membership in at least one of the listed groups
func GroupRequired(groups ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		for _, g := range groups {
			if HasGroup(userID, g) {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized."})
		c.Abort()
	}
}

// StaffRequired enforces the admin capability, kept separate from the
// Manager group so the first Manager can be bootstrapped.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsStaff(GetUserID(c)) {
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized."})
			c.Abort()
			return
		}
		c.Next()
	}
}

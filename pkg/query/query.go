package query

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPerPage = 2
	DefaultPage    = 1
)

// Paginate builds a gorm scope from the request's perpage/page parameters.
// Invalid values fall back to the defaults; a page past the last one simply
// yields an empty result set.
func Paginate(c *gin.Context) func(db *gorm.DB) *gorm.DB {
	perpage, err := strconv.Atoi(c.Query("perpage"))
	if err != nil || perpage < 1 {
		perpage = DefaultPerPage
	}
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(perpage).Offset((page - 1) * perpage)
	}
}

// OrderBy builds a gorm scope from a comma-separated ordering parameter.
// A leading '-' requests descending order. Fields outside the allowed set
// are ignored.
func OrderBy(ordering string, allowed ...string) func(db *gorm.DB) *gorm.DB {
	allowedSet := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		allowedSet[f] = true
	}
	return func(db *gorm.DB) *gorm.DB {
		for _, field := range strings.Split(ordering, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			desc := strings.HasPrefix(field, "-")
			field = strings.TrimPrefix(field, "-")
			if !allowedSet[field] {
				continue
			}
			if desc {
				db = db.Order(field + " desc")
			} else {
				db = db.Order(field)
			}
		}
		return db
	}
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"littlelemon-api/config"
	"littlelemon-api/handlers"
	"littlelemon-api/middleware"
	"littlelemon-api/models"
	"littlelemon-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupRouter wires the full route table to a fresh in-memory database.
// MaxOpenConns is pinned to 1 so every query sees the same :memory: store.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	config.DB = db

	for _, name := range []string{models.GroupManager, models.GroupDeliveryCrew} {
		_, err := handlers.EnsureGroup(name)
		require.NoError(t, err)
	}

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func createUser(t *testing.T, username string, staff bool) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		Email:        username + "@littlelemon.test",
		PasswordHash: string(hash),
		IsStaff:      staff,
	}
	require.NoError(t, config.DB.Create(&user).Error)
	return user
}

func addToGroup(t *testing.T, user models.User, groupName string) {
	t.Helper()
	var group models.Group
	require.NoError(t, config.DB.Where("name = ?", groupName).First(&group).Error)
	require.NoError(t, config.DB.Model(&group).Association("Users").Append(&user))
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateToken(&user)
	require.NoError(t, err)
	return token
}

func createMenuItem(t *testing.T, title, price string, categoryID uint) models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		Title:      title,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
	}
	require.NoError(t, config.DB.Create(&item).Error)
	return item
}

func createCategory(t *testing.T, title string) models.Category {
	t.Helper()
	category := models.Category{Title: title}
	require.NoError(t, config.DB.Create(&category).Error)
	return category
}

// perform sends a JSON request through the router, optionally authenticated
func perform(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

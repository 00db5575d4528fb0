package handlers_test

import (
	"net/http"
	"testing"

	"littlelemon-api/middleware"
	"littlelemon-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetManager(t *testing.T) {
	r := setupRouter(t)
	manager := createUser(t, "manager", false)
	addToGroup(t, manager, models.GroupManager)
	target := createUser(t, "maria", false)
	token := tokenFor(t, manager)

	w := perform(t, r, http.MethodPost, "/api/groups/manager/users", token,
		map[string]string{"username": target.Username})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, middleware.HasGroup(target.ID, models.GroupManager))

	// Missing username is a validation error, not a lookup failure
	w = perform(t, r, http.MethodPost, "/api/groups/manager/users", token,
		map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown username
	w = perform(t, r, http.MethodPost, "/api/groups/manager/users", token,
		map[string]string{"username": "nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetManager_RequiresManager(t *testing.T) {
	r := setupRouter(t)
	customer := createUser(t, "maria", false)

	w := perform(t, r, http.MethodPost, "/api/groups/manager/users", tokenFor(t, customer),
		map[string]string{"username": "maria"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRemoveManager(t *testing.T) {
	r := setupRouter(t)
	manager := createUser(t, "manager", false)
	addToGroup(t, manager, models.GroupManager)
	member := createUser(t, "maria", false)
	addToGroup(t, member, models.GroupManager)
	outsider := createUser(t, "nikos", false)
	token := tokenFor(t, manager)

	w := perform(t, r, http.MethodDelete, "/api/groups/manager/users/"+itoa(member.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, middleware.HasGroup(member.ID, models.GroupManager))

	// Removing a user who is not a member is an invalid-state error
	w = perform(t, r, http.MethodDelete, "/api/groups/manager/users/"+itoa(outsider.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown user
	w = perform(t, r, http.MethodDelete, "/api/groups/manager/users/999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeliveryCrewGroup(t *testing.T) {
	r := setupRouter(t)
	manager := createUser(t, "manager", false)
	addToGroup(t, manager, models.GroupManager)
	target := createUser(t, "courier", false)
	token := tokenFor(t, manager)

	w := perform(t, r, http.MethodPost, "/api/groups/delivery-crew/users", token,
		map[string]string{"username": target.Username})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, middleware.HasGroup(target.ID, models.GroupDeliveryCrew))

	w = perform(t, r, http.MethodGet, "/api/groups/delivery-crew/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	w = perform(t, r, http.MethodDelete, "/api/groups/delivery-crew/users/"+itoa(target.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, middleware.HasGroup(target.ID, models.GroupDeliveryCrew))
}

func TestHasGroup_NoHierarchy(t *testing.T) {
	setupRouter(t)
	manager := createUser(t, "manager", false)
	addToGroup(t, manager, models.GroupManager)

	// Manager membership does not satisfy a delivery-crew check
	assert.True(t, middleware.HasGroup(manager.ID, models.GroupManager))
	assert.False(t, middleware.HasGroup(manager.ID, models.GroupDeliveryCrew))
}

func TestAdminBootstrap(t *testing.T) {
	r := setupRouter(t)
	staff := createUser(t, "admin", true)
	customer := createUser(t, "maria", false)

	// Non-staff is refused on the bootstrap surface
	w := perform(t, r, http.MethodPost, "/api/admin/groups/manager/users", tokenFor(t, customer),
		map[string]string{"username": "maria"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Staff grants the first Manager without any existing Manager
	w = perform(t, r, http.MethodPost, "/api/admin/groups/manager/users", tokenFor(t, staff),
		map[string]string{"username": "maria"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, middleware.HasGroup(customer.ID, models.GroupManager))
}

func TestAdminEnsureGroup_Idempotent(t *testing.T) {
	r := setupRouter(t)
	staff := createUser(t, "admin", true)
	token := tokenFor(t, staff)

	w := perform(t, r, http.MethodPost, "/api/admin/groups", token,
		map[string]string{"name": "Kitchen"})
	require.Equal(t, http.StatusOK, w.Code)
	first := decodeBody(t, w)["id"]

	w = perform(t, r, http.MethodPost, "/api/admin/groups", token,
		map[string]string{"name": "Kitchen"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first, decodeBody(t, w)["id"])
}

func TestAdminAssignToDeliveryCrew(t *testing.T) {
	r := setupRouter(t)
	staff := createUser(t, "admin", true)
	target := createUser(t, "courier", false)
	token := tokenFor(t, staff)

	w := perform(t, r, http.MethodPatch, "/api/admin/users/"+itoa(target.ID)+"/delivery-crew", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, middleware.HasGroup(target.ID, models.GroupDeliveryCrew))

	w = perform(t, r, http.MethodPatch, "/api/admin/users/999/delivery-crew", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

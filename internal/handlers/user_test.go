package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sundial-dev/sundial/internal/models"
)

func TestSelfRegistrationCreatesPlainUser(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/users", "", map[string]string{
		"displayName": "New Person",
		"email":       "new@example.com",
		"password":    "longenoughpassword",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "user", jsonField(t, resp, "role"))
}

func TestSelfRegistrationCannotEscalate(t *testing.T) {
	env := newTestEnv(t)

	for _, role := range []string{"super_admin", "project_admin"} {
		resp := env.request(t, http.MethodPost, "/api/users", "", map[string]string{
			"displayName": "Sneaky",
			"email":       "sneaky@example.com",
			"password":    "longenoughpassword",
			"role":        role,
		})
		assert.Equal(t, http.StatusForbidden, resp.Code, role)
	}
}

func TestSuperAdminCreatesElevatedRoles(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root@example.com", models.RoleSuperAdmin)
	token := env.tokenFor(t, admin)

	resp := env.request(t, http.MethodPost, "/api/users", token, map[string]string{
		"displayName": "PM",
		"email":       "pm@example.com",
		"password":    "longenoughpassword",
		"role":        "project_admin",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "project_admin", jsonField(t, resp, "role"))
}

func TestDuplicateEmailConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "taken@example.com", models.RoleUser)

	resp := env.request(t, http.MethodPost, "/api/users", "", map[string]string{
		"displayName": "Copycat",
		"email":       "taken@example.com",
		"password":    "longenoughpassword",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestUserListingRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "plain@example.com", models.RoleUser)
	admin := env.createUser(t, "pm@example.com", models.RoleProjectAdmin)

	denied := env.request(t, http.MethodGet, "/api/users", env.tokenFor(t, user), nil)
	assert.Equal(t, http.StatusForbidden, denied.Code)

	allowed := env.request(t, http.MethodGet, "/api/users", env.tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusOK, allowed.Code)
}

func TestCannotDeleteLastSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root@example.com", models.RoleSuperAdmin)
	token := env.tokenFor(t, admin)

	resp := env.request(t, http.MethodDelete, "/api/users/1", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// A second super admin unblocks deletion.
	second := env.createUser(t, "root2@example.com", models.RoleSuperAdmin)
	resp = env.request(t, http.MethodDelete, "/api/users/1", env.tokenFor(t, second), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	// Soft delete only: the row survives with the tombstone set.
	var row models.User
	require.NoError(t, env.db.First(&row, admin.ID).Error)
	assert.True(t, row.IsDeleted)
}

func TestCannotDemoteLastSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root@example.com", models.RoleSuperAdmin)
	token := env.tokenFor(t, admin)

	resp := env.request(t, http.MethodPut, "/api/users/1", token, map[string]string{
		"role": "user",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRoleUpdateRequiresSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	pm := env.createUser(t, "pm@example.com", models.RoleProjectAdmin)
	target := env.createUser(t, "target@example.com", models.RoleUser)

	resp := env.request(t, http.MethodPut, "/api/users/2", env.tokenFor(t, pm), map[string]string{
		"role": "project_admin",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	var row models.User
	require.NoError(t, env.db.First(&row, target.ID).Error)
	assert.Equal(t, models.RoleUser, row.Role)
}

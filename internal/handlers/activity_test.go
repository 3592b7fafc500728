package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sundial-dev/sundial/internal/models"
)

func TestMutationsAreRecordedInActivityLog(t *testing.T) {
	env := newTestEnv(t)
	super := env.createUser(t, "root@example.com", models.RoleSuperAdmin)
	admin := env.createUser(t, "pm@example.com", models.RoleProjectAdmin)

	created := env.request(t, http.MethodPost, "/api/projects", env.tokenFor(t, admin), newProjectPayload("Alpha"))
	require.Equal(t, http.StatusCreated, created.Code)

	var project models.Project
	decode(t, created, &project)

	resp := env.request(t, http.MethodGet, "/api/activity-logs", env.tokenFor(t, super), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var entries []models.ActivityLog
	decode(t, resp, &entries)
	require.Len(t, entries, 1)

	assert.Equal(t, admin.ID, entries[0].ActorID)
	assert.Equal(t, admin.Email, entries[0].ActorEmail)
	assert.Equal(t, "project", entries[0].EntityType)
	assert.Equal(t, project.ID, entries[0].EntityID)
	assert.Equal(t, "create", entries[0].Action)
	assert.JSONEq(t, `{"name":"Alpha"}`, string(entries[0].Details))
}

func TestActivityLogRequiresSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "root@example.com", models.RoleSuperAdmin)
	admin := env.createUser(t, "pm@example.com", models.RoleProjectAdmin)
	user := env.createUser(t, "dev@example.com", models.RoleUser)

	forAdmin := env.request(t, http.MethodGet, "/api/activity-logs", env.tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusForbidden, forAdmin.Code)

	forUser := env.request(t, http.MethodGet, "/api/activity-logs", env.tokenFor(t, user), nil)
	assert.Equal(t, http.StatusForbidden, forUser.Code)

	anonymous := env.request(t, http.MethodGet, "/api/activity-logs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
}

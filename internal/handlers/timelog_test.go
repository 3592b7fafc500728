package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sundial-dev/sundial/internal/models"
)

func newTimelogPayload(projectID uint) map[string]interface{} {
	return map[string]interface{}{
		"text":      "worked on the parser",
		"task":      "coding",
		"start":     "2025-01-01T09:00:00Z",
		"end":       "2025-01-01T10:30:00Z",
		"projectId": projectID,
	}
}

func TestCreateTimelogForcesCallerID(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", models.RoleUser)
	other := env.createUser(t, "bob@example.com", models.RoleUser)

	payload := newTimelogPayload(1)
	// Impersonation attempt: the server must ignore this.
	payload["userId"] = other.ID

	resp := env.request(t, http.MethodPost, "/api/timelogs", env.tokenFor(t, user), payload)
	require.Equal(t, http.StatusCreated, resp.Code)

	var created models.TimeLog
	decode(t, resp, &created)
	assert.Equal(t, user.ID, created.UserID)
	assert.Equal(t, models.TimeLogPending, created.Status)
}

func TestCreateTimelogIgnoresSuppliedStatus(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", models.RoleUser)

	payload := newTimelogPayload(1)
	payload["status"] = "approved"

	resp := env.request(t, http.MethodPost, "/api/timelogs", env.tokenFor(t, user), payload)
	require.Equal(t, http.StatusCreated, resp.Code)

	var created models.TimeLog
	decode(t, resp, &created)
	assert.Equal(t, models.TimeLogPending, created.Status)
}

func TestCreateTimelogRejectsEndBeforeStart(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", models.RoleUser)

	payload := newTimelogPayload(1)
	payload["start"] = "2025-01-01T10:30:00Z"
	payload["end"] = "2025-01-01T09:00:00Z"

	resp := env.request(t, http.MethodPost, "/api/timelogs", env.tokenFor(t, user), payload)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	payload["end"] = payload["start"]
	resp = env.request(t, http.MethodPost, "/api/timelogs", env.tokenFor(t, user), payload)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateTimelogRejectsUnknownTask(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", models.RoleUser)

	payload := newTimelogPayload(1)
	payload["task"] = "daydreaming"

	resp := env.request(t, http.MethodPost, "/api/timelogs", env.tokenFor(t, user), payload)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestMyTimelogsScopedToCaller(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice@example.com", models.RoleUser)
	bob := env.createUser(t, "bob@example.com", models.RoleUser)

	resp := env.request(t, http.MethodPost, "/api/timelogs", env.tokenFor(t, alice), newTimelogPayload(1))
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = env.request(t, http.MethodPost, "/api/timelogs", env.tokenFor(t, bob), newTimelogPayload(2))
	require.Equal(t, http.StatusCreated, resp.Code)

	mine := env.request(t, http.MethodGet, "/api/timelogs/my", env.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, mine.Code)

	var logs []models.TimeLog
	decode(t, mine, &logs)
	require.Len(t, logs, 1)
	assert.Equal(t, alice.ID, logs[0].UserID)

	byProject := env.request(t, http.MethodGet, "/api/timelogs/my/project/2", env.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, byProject.Code)
	decode(t, byProject, &logs)
	assert.Empty(t, logs)
}

func TestTimelogApprovalRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", models.RoleUser)
	admin := env.createUser(t, "pm@example.com", models.RoleProjectAdmin)

	resp := env.request(t, http.MethodPost, "/api/timelogs", env.tokenFor(t, user), newTimelogPayload(1))
	require.Equal(t, http.StatusCreated, resp.Code)

	var created models.TimeLog
	decode(t, resp, &created)

	path := fmt.Sprintf("/api/timelogs/%d", created.ID)

	denied := env.request(t, http.MethodPut, path, env.tokenFor(t, user), map[string]string{
		"status": "approved",
	})
	assert.Equal(t, http.StatusForbidden, denied.Code)

	approved := env.request(t, http.MethodPut, path, env.tokenFor(t, admin), map[string]string{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, approved.Code)

	var updated models.TimeLog
	decode(t, approved, &updated)
	assert.Equal(t, models.TimeLogApproved, updated.Status)
}

func TestTimelogUpdateKeepsIntervalValid(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", models.RoleUser)
	admin := env.createUser(t, "pm@example.com", models.RoleProjectAdmin)

	resp := env.request(t, http.MethodPost, "/api/timelogs", env.tokenFor(t, user), newTimelogPayload(1))
	require.Equal(t, http.StatusCreated, resp.Code)

	var created models.TimeLog
	decode(t, resp, &created)

	resp = env.request(t, http.MethodPut, fmt.Sprintf("/api/timelogs/%d", created.ID), env.tokenFor(t, admin), map[string]string{
		"end": "2025-01-01T08:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdminTimelogsByProject(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", models.RoleUser)
	admin := env.createUser(t, "pm@example.com", models.RoleProjectAdmin)

	resp := env.request(t, http.MethodPost, "/api/timelogs", env.tokenFor(t, user), newTimelogPayload(7))
	require.Equal(t, http.StatusCreated, resp.Code)

	listed := env.request(t, http.MethodGet, "/api/timelogs/admin/project/7", env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, listed.Code)

	var logs []struct {
		models.TimeLog
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decode(t, listed, &logs)
	require.Len(t, logs, 1)
	assert.Equal(t, "alice@example.com", logs[0].User.Email)
}

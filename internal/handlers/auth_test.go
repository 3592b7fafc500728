package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sundial-dev/sundial/internal/models"
)

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", models.RoleUser)

	resp := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.Token)
	assert.Equal(t, user.ID, body.User.ID)

	me := env.request(t, http.MethodGet, "/api/auth/me", body.Token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "alice@example.com", jsonField(t, me, "email"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice@example.com", models.RoleUser)

	resp := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLoginRejectsDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "gone@example.com", models.RoleUser)
	require.NoError(t, env.db.Model(&user).Update("is_deleted", true).Error)

	resp := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "gone@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestTokenForDeletedUserDenied(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "revoked@example.com", models.RoleUser)
	token := env.tokenFor(t, user)

	require.NoError(t, env.db.Model(&user).Update("is_deleted", true).Error)

	resp := env.request(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestForgotPasswordNeverDisclosesExistence(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "known@example.com", models.RoleUser)

	known := env.request(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{
		"email": "known@example.com",
	})
	unknown := env.request(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{
		"email": "nobody@example.com",
	})

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, jsonField(t, known, "message"), jsonField(t, unknown, "message"))
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", models.RoleUser)

	token := "a1b2c3d4"
	expiry := time.Now().Add(time.Hour)
	require.NoError(t, env.db.Model(&user).Updates(map[string]interface{}{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	}).Error)

	resp := env.request(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token":    token,
		"password": "a-brand-new-password",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	login := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "a-brand-new-password",
	})
	assert.Equal(t, http.StatusOK, login.Code)

	// The token is single-use.
	again := env.request(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token":    token,
		"password": "yet-another-password",
	})
	assert.Equal(t, http.StatusBadRequest, again.Code)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "late@example.com", models.RoleUser)

	require.NoError(t, env.db.Model(&user).Updates(map[string]interface{}{
		"reset_token":        "stale-token",
		"reset_token_expiry": time.Now().Add(-time.Minute),
	}).Error)

	resp := env.request(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token":    "stale-token",
		"password": "a-brand-new-password",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sundial-dev/sundial/internal/middleware"
	"github.com/sundial-dev/sundial/internal/types"
)

var errNotAuthenticated = errors.New("user not authenticated")

// GetCurrentUser returns the authenticated user placed in the request
// context by the auth middleware.
func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, errNotAuthenticated
	}

	user, ok := value.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, errNotAuthenticated
	}

	return user, nil
}

// GetCurrentUserID is a shortcut for handlers that only scope queries by
// the caller's id.
func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

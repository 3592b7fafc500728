package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sundial-dev/sundial/internal/auth"
	"github.com/sundial-dev/sundial/internal/authz"
	"github.com/sundial-dev/sundial/internal/models"
	"github.com/sundial-dev/sundial/internal/types"
	"gorm.io/gorm"
)

type AuthenticatedUser struct {
	ID          uint        `json:"id"`
	DisplayName string      `json:"displayName"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
}

func resolveUser(ctx *gin.Context, conn *gorm.DB, tokens *auth.TokenManager) (AuthenticatedUser, bool) {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		return AuthenticatedUser{}, false
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" {
		return AuthenticatedUser{}, false
	}

	userID, _, err := tokens.Verify(parts[1])

	if err != nil {
		return AuthenticatedUser{}, false
	}

	var user models.User

	// The token's subject must still resolve to a live, non-deleted user;
	// the role comes from the record, not the claims.
	if err := conn.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return AuthenticatedUser{}, false
	}

	return AuthenticatedUser{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        user.Role,
	}, true
}

func AuthMiddleware(conn *gorm.DB, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := resolveUser(ctx, conn, tokens)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}

// OptionalAuthMiddleware resolves the caller when a valid token is present
// but lets anonymous requests through. Used only by self-registration,
// where the caller's role widens what may be created.
func OptionalAuthMiddleware(conn *gorm.DB, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if user, ok := resolveUser(ctx, conn, tokens); ok {
			ctx.Set(types.ContextUserKey, user)
		}
		ctx.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, exists := ctx.Get(types.ContextUserKey)

		if !exists || !authz.IsAdmin(user.(AuthenticatedUser).Role) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied. Super admin or Project admin role required."})
			return
		}

		ctx.Next()
	}
}

func RequireSuperAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, exists := ctx.Get(types.ContextUserKey)

		if !exists || !authz.IsSuperAdmin(user.(AuthenticatedUser).Role) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied. Super admin role required."})
			return
		}

		ctx.Next()
	}
}

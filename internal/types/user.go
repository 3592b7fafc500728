package types

import (
	"time"

	"github.com/sundial-dev/sundial/internal/models"
)

// UserResponse is the sanitized user shape returned by every endpoint.
// Credential and reset-token fields never leave the server.
type UserResponse struct {
	ID          uint        `json:"id"`
	DisplayName string      `json:"displayName"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	IsInternal  bool        `json:"isInternal"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        user.Role,
		IsInternal:  user.IsInternal,
		CreatedAt:   user.CreatedAt,
	}
}

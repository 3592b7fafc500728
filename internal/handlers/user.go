package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sundial-dev/sundial/internal/activity"
	"github.com/sundial-dev/sundial/internal/authz"
	"github.com/sundial-dev/sundial/internal/models"
	"github.com/sundial-dev/sundial/internal/types"
	"github.com/sundial-dev/sundial/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserHandler struct {
	db       *gorm.DB
	activity *activity.Recorder
}

func NewUserHandler(conn *gorm.DB, recorder *activity.Recorder) *UserHandler {
	return &UserHandler{db: conn, activity: recorder}
}

type CreateUserRequest struct {
	DisplayName string      `json:"displayName" binding:"required"`
	Email       string      `json:"email" binding:"required,email"`
	Password    string      `json:"password" binding:"required,min=8"`
	Role        models.Role `json:"role" binding:"omitempty,oneof=super_admin project_admin user"`
	IsInternal  *bool       `json:"isInternal"`
}

type UpdateUserRequest struct {
	DisplayName string      `json:"displayName"`
	Email       string      `json:"email" binding:"omitempty,email"`
	Role        models.Role `json:"role" binding:"omitempty,oneof=super_admin project_admin user"`
	IsInternal  *bool       `json:"isInternal"`
}

func (h *UserHandler) List(ctx *gin.Context) {
	var users []models.User

	if err := h.db.Where("is_deleted = ?", false).Find(&users).Error; err != nil {
		log.Printf("Failed to fetch users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users", "error": err.Error()})
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		response = append(response, types.NewUserResponse(user))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *UserHandler) Get(ctx *gin.Context) {
	var user models.User

	err := h.db.Where("id = ? AND is_deleted = ?", ctx.Param("id"), false).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		} else {
			log.Printf("Failed to fetch user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user", "error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(user))
}

// Create serves both anonymous self-registration and admin-driven user
// creation. The requested role is only honored for callers whose own role
// permits it; everyone else gets a plain user.
func (h *UserHandler) Create(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Name, email, and password are required"})
		return
	}

	callerRole := models.Role("")
	caller, callerErr := utils.GetCurrentUser(ctx)

	if callerErr == nil {
		callerRole = caller.Role
	}

	if body.Role != "" && body.Role != models.RoleUser && !authz.CanCreateUserWithRole(callerRole, body.Role) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Only super admins can create elevated roles"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	var existing models.User

	err := h.db.Where("email = ?", email).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"message": "Email already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user", "error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user", "error": err.Error()})
		return
	}

	role := body.Role

	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		DisplayName: body.DisplayName,
		Email:       email,
		Password:    string(hash),
		Role:        role,
		IsInternal:  true,
	}

	if body.IsInternal != nil {
		user.IsInternal = *body.IsInternal
	}

	if err := h.db.Create(&user).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user", "error": err.Error()})
		return
	}

	if callerErr == nil {
		h.activity.Log(caller, "user", user.ID, "create", map[string]interface{}{"email": user.Email, "role": user.Role})
	}

	ctx.JSON(http.StatusCreated, types.NewUserResponse(user))
}

func (h *UserHandler) Update(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body UpdateUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var user models.User

	err = h.db.Where("id = ? AND is_deleted = ?", ctx.Param("id"), false).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		} else {
			log.Printf("Failed to fetch user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user", "error": err.Error()})
		}
		return
	}

	if body.Role != "" && !authz.CanAssignRole(caller.Role) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Only super admins can update roles"})
		return
	}

	// Demoting the last super_admin would lock everyone out.
	if user.Role == models.RoleSuperAdmin && body.Role != "" && body.Role != models.RoleSuperAdmin {
		count, err := h.countSuperAdmins()

		if err != nil {
			log.Printf("Failed to count super admins: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user", "error": err.Error()})
			return
		}

		if count <= 1 {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Cannot change the last super admin to a regular user"})
			return
		}
	}

	updates := make(map[string]interface{})

	if body.DisplayName != "" {
		updates["display_name"] = strings.TrimSpace(body.DisplayName)
	}

	if body.Email != "" {
		email := strings.ToLower(strings.TrimSpace(body.Email))

		if email != user.Email {
			var existing models.User

			err := h.db.Where("email = ? AND id != ?", email, user.ID).First(&existing).Error

			if err == nil {
				ctx.JSON(http.StatusConflict, gin.H{"message": "Email already exists"})
				return
			}

			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Database error when checking existing email: %v", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user", "error": err.Error()})
				return
			}
		}

		updates["email"] = email
	}

	if body.Role != "" {
		updates["role"] = body.Role
	}

	if body.IsInternal != nil {
		updates["is_internal"] = *body.IsInternal
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "No valid fields to update"})
		return
	}

	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to update user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user", "error": err.Error()})
		return
	}

	if err := h.db.First(&user, user.ID).Error; err != nil {
		log.Printf("Failed to refresh user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user", "error": err.Error()})
		return
	}

	h.activity.Log(caller, "user", user.ID, "update", map[string]interface{}{"email": user.Email})

	ctx.JSON(http.StatusOK, types.NewUserResponse(user))
}

func (h *UserHandler) Delete(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var user models.User

	err = h.db.Where("id = ? AND is_deleted = ?", ctx.Param("id"), false).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		} else {
			log.Printf("Failed to fetch user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete user", "error": err.Error()})
		}
		return
	}

	if user.Role == models.RoleSuperAdmin {
		count, err := h.countSuperAdmins()

		if err != nil {
			log.Printf("Failed to count super admins: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete user", "error": err.Error()})
			return
		}

		if count <= 1 {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete the last super admin"})
			return
		}
	}

	if err := h.db.Model(&user).Update("is_deleted", true).Error; err != nil {
		log.Printf("Failed to delete user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete user", "error": err.Error()})
		return
	}

	h.activity.Log(caller, "user", user.ID, "delete", map[string]interface{}{"email": user.Email})

	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *UserHandler) countSuperAdmins() (int64, error) {
	var count int64

	err := h.db.Model(&models.User{}).
		Where("role = ? AND is_deleted = ?", models.RoleSuperAdmin, false).
		Count(&count).Error

	return count, err
}

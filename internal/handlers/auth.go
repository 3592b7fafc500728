package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sundial-dev/sundial/internal/auth"
	"github.com/sundial-dev/sundial/internal/mailer"
	"github.com/sundial-dev/sundial/internal/models"
	"github.com/sundial-dev/sundial/internal/types"
	"github.com/sundial-dev/sundial/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// forgotPasswordMessage is returned whether or not the email exists, so
// the endpoint never discloses which addresses are registered.
const forgotPasswordMessage = "If your email exists in our system, you will receive a password reset link"

const resetTokenTTL = time.Hour

type AuthHandler struct {
	db     *gorm.DB
	tokens *auth.TokenManager
	mail   *mailer.Mailer
}

func NewAuthHandler(conn *gorm.DB, tokens *auth.TokenManager, mail *mailer.Mailer) *AuthHandler {
	return &AuthHandler{db: conn, tokens: tokens, mail: mail}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	var user models.User

	err := h.db.Where("email = ? AND is_deleted = ?", email, false).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Role)

	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    types.NewUserResponse(user),
		"token":   token,
	})
}

func (h *AuthHandler) ForgotPassword(ctx *gin.Context) {
	var body ForgotPasswordRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	var user models.User

	err := h.db.Where("email = ? AND is_deleted = ?", email, false).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		return
	}

	raw := make([]byte, 32)

	if _, err := rand.Read(raw); err != nil {
		log.Printf("Failed to generate reset token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		return
	}

	token := hex.EncodeToString(raw)
	expiry := time.Now().Add(resetTokenTTL)

	updates := map[string]interface{}{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	}

	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to store reset token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		return
	}

	if h.mail.Enabled() {
		msg := "Use this token to reset your password: " + token
		if err := h.mail.Send(user.Email, "Password reset", msg); err != nil {
			log.Printf("Failed to send reset email to %s: %v", user.Email, err)
		}
	} else {
		log.Printf("SMTP not configured; reset token for %s: %s", user.Email, token)
	}

	ctx.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
}

func (h *AuthHandler) ResetPassword(ctx *gin.Context) {
	var body ResetPasswordRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Token and password are required"})
		return
	}

	var user models.User

	err := h.db.Where("reset_token = ? AND reset_token_expiry > ? AND is_deleted = ?",
		body.Token, time.Now(), false).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"password":           string(hash),
		"reset_token":        nil,
		"reset_token_expiry": nil,
	}

	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to reset password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var user models.User

	if err := h.db.Where("id = ? AND is_deleted = ?", currentUser.ID, false).First(&user).Error; err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(user))
}

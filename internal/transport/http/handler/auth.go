package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"artflight/internal/app"
	"artflight/internal/transport/http/middleware"
	"artflight/internal/transport/http/response"
)

const forgetPasswordMessage = "If an account exists, you'll get an email"

type AuthHandler struct {
	authService *app.AuthService
	userService *app.UserService
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type ForgetPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type PasswordResetConfirmRequest struct {
	UID         string `json:"uid" binding:"required"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func NewAuthHandler(authService *app.AuthService, userService *app.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	profile, err := h.userService.Profile(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, profile)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{
		"refresh": result.Tokens.Refresh,
		"access":  result.Tokens.Access,
		"user": gin.H{
			"id":    result.User.ID,
			"email": result.User.Email,
			"role":  result.User.Role(),
		},
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, app.ErrInvalidToken) {
			response.Error(c, http.StatusBadRequest, response.CodeInvalidRefresh, "Invalid refresh token")
			return
		}
		writeError(c, err)
		return
	}
	response.OK(c, pair)
}

func (h *AuthHandler) ForgetPassword(c *gin.Context) {
	var req ForgetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	h.authService.ForgetPassword(c.Request.Context(), req.Email)
	response.Message(c, forgetPasswordMessage, gin.H{"detail": forgetPasswordMessage})
}

func (h *AuthHandler) PasswordResetConfirm(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.UID, req.Token, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	response.Message(c, "Password reset successful", gin.H{"detail": "Password reset successful"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.authService.ChangePassword(c.Request.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	response.Message(c, "Password changed successfully", gin.H{"detail": "Password changed successfully"})
}

// Blacklist revokes a refresh token.
func (h *AuthHandler) Blacklist(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	if err := h.authService.Blacklist(c.Request.Context(), req.Refresh); err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{})
}

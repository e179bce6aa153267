package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/agromanage/agromanage/internal/auth"
	"github.com/agromanage/agromanage/internal/metrics"
	"github.com/agromanage/agromanage/internal/models"
	"github.com/agromanage/agromanage/internal/store"
	"github.com/agromanage/agromanage/internal/types"
	"github.com/agromanage/agromanage/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role" binding:"required,eq=farmer"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID       uint       `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     types.Role `json:"role"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

func (h *Handler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !bindJSON(ctx, &req) {
		metrics.RecordAuthAttempt("register", "invalid")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)

	if errors.Is(err, auth.ErrPasswordTooLong) {
		metrics.RecordAuthAttempt("register", "invalid")
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": []FieldError{{Field: "password", Message: "must be at most 72 bytes"}}})
		return
	}

	if err != nil {
		h.Logger.Error("Failed to hash password", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	user := models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: passwordHash,
		Role:     types.RoleFarmer,
	}

	if err := h.Users.Create(ctx.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			metrics.RecordAuthAttempt("register", "duplicate")
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
			return
		}

		h.Logger.Error("Failed to create user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error registering user"})
		return
	}

	metrics.RecordAuthAttempt("register", "success")
	h.Logger.Info("User registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))

	ctx.JSON(http.StatusCreated, gin.H{"id": user.ID})
}

func (h *Handler) Login(ctx *gin.Context) {
	role, ok := types.ParseRole(ctx.Param("role"))

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	var req LoginRequest

	if !bindJSON(ctx, &req) {
		metrics.RecordAuthAttempt("login", "invalid")
		return
	}

	user, err := h.Users.FindByUsernameAndRole(ctx.Request.Context(), strings.TrimSpace(req.Username), role)

	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.Logger.Error("Failed to look up user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging in"})
		return
	}

	if user == nil || !auth.CheckPassword(req.Password, user.Password) {
		metrics.RecordAuthAttempt("login", "rejected")
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Tokens.IssueToken(user.ID, user.Username, user.Role)

	if err != nil {
		h.Logger.Error("Failed to issue token", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging in"})
		return
	}

	metrics.RecordAuthAttempt("login", "success")

	ctx.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

func (h *Handler) Me(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.Users.FindByID(ctx.Request.Context(), userID)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		h.Logger.Error("Failed to load user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, toUserResponse(user))
}

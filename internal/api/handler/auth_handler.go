package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.Signup)
	rg.POST("/token", h.Token)
}

// Signup requests a confirmation code for the (username, email) pair.
// Repeating an exact existing pair resends the code instead of failing.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	err := h.authService.Signup(ctx, req.Username, req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.SignupResponse{Username: req.Username, Email: req.Email})
	case errors.Is(err, service.ErrReservedUsername):
		c.JSON(http.StatusBadRequest, fieldError("username", "this username is reserved"))
	case errors.Is(err, service.ErrInvalidUsername):
		c.JSON(http.StatusBadRequest, fieldError("username", "username contains invalid characters"))
	case errors.Is(err, service.ErrNameInUse):
		c.JSON(http.StatusBadRequest, fieldError("username", "a user with this username is already registered"))
	case errors.Is(err, service.ErrEmailInUse):
		c.JSON(http.StatusBadRequest, fieldError("email", "a user with this email is already registered"))
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Token exchanges (username, confirmation_code) for an access token
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	token, err := h.authService.IssueToken(ctx, req.Username, req.ConfirmationCode)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, service.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, fieldError("confirmation_code", "confirmation code is invalid or has expired"))
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthtrack-server/internal/config"
	"healthtrack-server/internal/directory"
	"healthtrack-server/internal/models"
	"healthtrack-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Directory *directory.Service
	Cfg       *config.Config
	errorResponder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(dir *directory.Service, cfg *config.Config, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		Directory:      dir,
		Cfg:            cfg,
		errorResponder: errorResponder{log: log, exposeDetail: !cfg.IsProduction()},
	}
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	Token string               `json:"token"`
	User  models.UserSanitized `json:"user"`
}

// Register handles public self-registration, which only creates patients.
func (h *AuthHandler) Register(c *gin.Context) {
	var req directory.RegisterInput
	if !utils.BindAndValidate(c, &req) {
		return // Error response handled by BindAndValidate
	}

	user, err := h.Directory.Register(c.Request.Context(), models.Caller{}, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Omit password from response
	utils.Created(c, user.Sanitize())
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Directory.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ttl := time.Duration(h.Cfg.JWTExpirationMinutes) * time.Minute
	token, err := utils.GenerateToken(user.Caller(), h.Cfg.JWTSecret, ttl)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.Success(c, LoginResponse{
		Token: token,
		User:  user.Sanitize(),
	})
}

// Logout handles user logout. The token is stateless; the client discards it.
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.Message(c, "Logout successful")
}

// GetProfile returns the authenticated user.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	me, ok := currentCaller(c)
	if !ok {
		return
	}

	user, err := h.Directory.Profile(c.Request.Context(), me.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, user.Sanitize())
}

package handler

import (
	"github.com/Odiway/battrack/internal/middleware"
	"github.com/Odiway/battrack/internal/qc/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc     *service.AuthService
	userSvc *service.UserService
}

func NewAuthHandler(svc *service.AuthService, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{svc: svc, userSvc: userSvc}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email and password are required")
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, result)
}

// Logout POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	raw, exists := c.Get("claims")
	if !exists {
		Unauthorized(c, "no session")
		return
	}
	claims, ok := raw.(*middleware.JWTClaims)
	if !ok || claims.ExpiresAt == nil {
		Unauthorized(c, "invalid session")
		return
	}

	if err := h.svc.Logout(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		InternalError(c, "logout: "+err.Error())
		return
	}
	Success(c, gin.H{"logged_out": true})
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.userSvc.GetUser(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, user)
}

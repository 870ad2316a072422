package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"resort/internal/app/dto"
	authsvc "resort/internal/app/services/auth"
)

type AuthHandler struct {
	Service *authsvc.Service
	Logger  *slog.Logger
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type registerAdminRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

// Login accepts a JSON body or an OAuth2 password form, where the email is
// sent as username.
func (h AuthHandler) Login(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = strings.TrimSpace(req.Username)
	}
	result, err := h.Service.Login(c.Request.Context(), authsvc.LoginParams{Email: email, Password: req.Password})
	if err != nil {
		respondWithError(c, h.Logger, "login", err)
		return
	}
	c.JSON(http.StatusOK, dto.AccessToken{
		AccessToken: result.Token,
		TokenType:   "bearer",
		ExpiresAt:   result.ExpiresAt,
	})
}

func (h AuthHandler) RegisterAdmin(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	var req registerAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	caller, ok := currentPrincipal(c)
	callerRef := &caller
	if !ok {
		callerRef = nil
	}
	g, err := h.Service.RegisterAdmin(c.Request.Context(), callerRef, authsvc.RegisterAdminParams{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondWithError(c, h.Logger, "register admin", err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapGuest(g))
}

func (h AuthHandler) Me(c *gin.Context) {
	g, ok := currentGuest(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return
	}
	c.JSON(http.StatusOK, dto.MapGuest(g))
}

func (h AuthHandler) Logout(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	if err := h.Service.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		respondWithError(c, h.Logger, "logout", err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ AuthHTTP = AuthHandler{}

package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"resort/internal/app/principal"
	"resort/internal/app/services/auth"
	domainguest "resort/internal/domain/guest"
)

const (
	guestContextKey = "resort.guest"
	tokenContextKey = "resort.token"
)

// AuthMiddleware resolves a bearer token into a principal. Requests without
// a valid token continue anonymously; route guards decide whether that is
// allowed.
type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidToken) && m.Logger != nil {
			m.Logger.Warn("token resolution failed", "error", err)
		}
		c.Next()
		return
	}
	g := resolved.Guest
	ctx := principal.WithPrincipal(c.Request.Context(), principal.Principal{
		GuestID: g.ID,
		Email:   g.Email,
		Roles:   g.Roles(),
	})
	c.Request = c.Request.WithContext(ctx)
	c.Set(guestContextKey, g)
	c.Set(tokenContextKey, token)
	c.Next()
}

func currentGuest(c *gin.Context) (*domainguest.Guest, bool) {
	val, exists := c.Get(guestContextKey)
	if !exists {
		return nil, false
	}
	g, ok := val.(*domainguest.Guest)
	return g, ok && g != nil
}

func currentPrincipal(c *gin.Context) (principal.Principal, bool) {
	return principal.FromContext(c.Request.Context())
}

func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentGuest(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
			return
		}
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		g, ok := currentGuest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
			return
		}
		if !g.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if v, ok := c.Get(tokenContextKey); ok {
		if token, ok := v.(string); ok && token != "" {
			return token
		}
	}
	return extractBearerToken(c.GetHeader("Authorization"))
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

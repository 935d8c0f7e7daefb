package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"digistore/internal/domain/actor"
	"digistore/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxActorIDKey   = "actor_id"
	ctxActorRoleKey = "actor_role"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		actorID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxActorIDKey, actorID)
		c.Set(ctxActorRoleKey, role)
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...actor.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetActorRole(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
		c.Abort()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func GetActorID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ctxActorIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return id, true
}

func GetActorRole(c *gin.Context) (actor.Role, bool) {
	value, exists := c.Get(ctxActorRoleKey)
	if !exists {
		return "", false
	}

	role, ok := value.(actor.Role)
	if !ok {
		return "", false
	}
	return role, true
}

package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/ventapett-pos/internal/application/service"
	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/ventapett-pos/pkg/utils"
)

// Gin context keys set by AuthMiddleware
const (
	PrincipalKey = "principal"
	UserIDKey    = "user_id"
	UserRoleKey  = "user_role"
)

// SessionStore resolves the stored profile of a logged in user. Logging out
// removes it, which revokes tokens issued before.
type SessionStore interface {
	Profile(ctx context.Context, userID string) (*entity.Principal, error)
}

// AuthMiddleware creates a JWT authentication middleware. sessions may be nil,
// in which case the token claims alone identify the user.
func AuthMiddleware(jwtManager *utils.JWTManager, sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		principal := entity.Principal{
			UserID: claims.UserID,
			Name:   claims.Name,
			Rut:    claims.Rut,
			Role:   claims.Role,
		}
		if sessions != nil {
			profile, err := sessions.Profile(c.Request.Context(), claims.UserID)
			if err != nil {
				response.Unauthorized(c, "Session expired, please log in again")
				c.Abort()
				return
			}
			principal = *profile
		}

		c.Set(PrincipalKey, principal)
		c.Set(UserIDKey, principal.UserID)
		c.Set(UserRoleKey, principal.Role)
		c.Request = c.Request.WithContext(service.WithPrincipal(c.Request.Context(), principal))

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(UserRoleKey)
		if role == "" {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, required := range roles {
			if strings.EqualFold(role, required) {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}

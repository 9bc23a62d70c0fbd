package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aularium-api/internal/models"
	appErrors "github.com/noah-isme/aularium-api/pkg/errors"
	"github.com/noah-isme/aularium-api/pkg/logger"
	"github.com/noah-isme/aularium-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// TokenValidator turns a bearer token into claims.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT protects routes by requiring a valid access token.
func JWT(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(logger.UserIDKey, claims.UserID)
		c.Next()
	}
}

// AuthFromContext returns the caller resolved by JWT. The zero value is
// returned for anonymous requests.
func AuthFromContext(c *gin.Context) models.AuthContext {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return models.AuthContext{}
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return models.AuthContext{}
	}
	return claims.AuthContext()
}

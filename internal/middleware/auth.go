package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/brightsmile/scheduling-api/internal/clinic"
	"github.com/brightsmile/scheduling-api/internal/handler"
	"github.com/brightsmile/scheduling-api/pkg/errors"
	"github.com/brightsmile/scheduling-api/pkg/httputil"
)

// AuthMiddleware captures the caller's bearer token into a request-scoped
// credential provider. The clinic backend owns token verification; this only
// rejects tokens that are already expired locally, so a dead session fails
// fast instead of burning a backend round trip.
type AuthMiddleware struct {
	parser *jwt.Parser
}

func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{parser: jwt.NewParser()}
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.RespondWithError(c, errors.Unauthorized(fmt.Errorf("missing authorization header")))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondWithError(c, errors.Unauthorized(fmt.Errorf("invalid authorization format")))
			c.Abort()
			return
		}
		token := parts[1]

		if expired, err := m.isExpired(token); err != nil || expired {
			httputil.RespondWithError(c, errors.Unauthorized(fmt.Errorf("token is expired or malformed")))
			c.Abort()
			return
		}

		c.Set(handler.ContextCredentials, clinic.StaticCredentials(token))
		c.Next()
	}
}

func (m *AuthMiddleware) isExpired(token string) (bool, error) {
	claims := jwt.MapClaims{}
	if _, _, err := m.parser.ParseUnverified(token, claims); err != nil {
		return false, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false, err
	}
	if exp == nil {
		return false, nil
	}
	return exp.Before(time.Now()), nil
}

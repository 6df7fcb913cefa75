package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/EchoNin9/orangewhip.surf/internal/shared/response"
)

// APIKeyValidator checks whether a key exists, is active, and carries
// the requested scope.
type APIKeyValidator interface {
	ValidateKey(ctx context.Context, token, scope string) bool
}

// RequireAPIKey gates a route behind the X-Api-Key header. Used for the
// embed surface where third-party sites cannot hold user tokens.
func RequireAPIKey(validator APIKeyValidator, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Api-Key")
		if token == "" {
			response.Unauthorized(c, "missing API key")
			c.Abort()
			return
		}

		if !validator.ValidateKey(c.Request.Context(), token, scope) {
			response.Forbidden(c, "invalid or unauthorized API key")
			c.Abort()
			return
		}

		c.Next()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-registry-api/internal/models"
	appErrors "github.com/noah-isme/univ-registry-api/pkg/errors"
	"github.com/noah-isme/univ-registry-api/pkg/response"
)

// RBAC enforces position-based access control for routes.
func RBAC(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		allowSelf := false
		allowedPositions := make(map[models.UserPosition]struct{})

		for _, a := range allowed {
			if a == "SELF" {
				allowSelf = true
				continue
			}
			allowedPositions[models.UserPosition(a)] = struct{}{}
		}

		if _, ok := allowedPositions[claims.Position]; ok {
			c.Next()
			return
		}

		if allowSelf {
			if targetID := c.Param("id"); targetID != "" && targetID == claims.UserID {
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// RequirePositions is a helper that accepts a list of positions.
func RequirePositions(positions ...models.UserPosition) gin.HandlerFunc {
	allowed := make([]string, len(positions))
	for i, p := range positions {
		allowed[i] = string(p)
	}
	return RBAC(allowed...)
}

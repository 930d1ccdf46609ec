package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/foundarly/learnflow-junction/internal/guard"
	"github.com/foundarly/learnflow-junction/internal/models"
	appErrors "github.com/foundarly/learnflow-junction/pkg/errors"
	"github.com/foundarly/learnflow-junction/pkg/response"
)

// RequireRoles enforces role-based access for a route. An empty role list
// admits any authenticated identity, mirroring the navigation guard.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := guard.NewRoleSet(roles...)
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if len(allowed) > 0 && !allowed.Contains(claims.Role) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRolesOrSelf admits the listed roles, or any authenticated user
// whose ID matches the named path parameter.
func RequireRolesOrSelf(idParam string, roles ...models.Role) gin.HandlerFunc {
	allowed := guard.NewRoleSet(roles...)
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if allowed.Contains(claims.Role) {
			c.Next()
			return
		}

		if targetID := c.Param(idParam); targetID != "" && targetID == claims.UserID {
			c.Next()
			return
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

func claimsFrom(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

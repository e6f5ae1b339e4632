package middleware

import (
	"go-hiring-ingest/internal/domain"
	"go-hiring-ingest/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// TenantMiddleware resolves the organization and acting user for the request.
// Authentication happens upstream at the API gateway; this service trusts the
// identity headers it forwards and only enforces that an org scope is present,
// since every repository query is org-scoped.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.GetHeader("X-Org-ID")
		if orgID == "" {
			c.Error(apperror.Unauthorized("Missing organization scope"))
			c.Abort()
			return
		}

		c.Set(string(domain.KeyOrgID), orgID)
		c.Set(string(domain.KeyActorID), c.GetHeader("X-Actor-ID"))
		c.Next()
	}
}

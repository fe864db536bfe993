package tenant

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/pkg/response"
)

// ContextOrganizationID is the gin context key for the resolved organization.
const ContextOrganizationID = "organization_id"

// Middleware resolves the organization for the authenticated user and stores
// it in the request context. Call after the JWT middleware. Requests without
// a resolvable organization are aborted.
func Middleware(resolver *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		orgID, err := resolver.Resolve(c.Request.Context(), userID)
		if err != nil {
			response.NotFound(c, "organization not found")
			c.Abort()
			return
		}
		c.Set(ContextOrganizationID, orgID)
		c.Next()
	}
}

// OrgID returns the organization ID set by Middleware.
func OrgID(c *gin.Context) uuid.UUID {
	return c.MustGet(ContextOrganizationID).(uuid.UUID)
}

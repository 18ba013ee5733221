package database

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// TenantHeader carries the tenant slug on every API request.
	TenantHeader = "X-Tenant"
	// ContextKeyDB is the key for the tenant database in gin context
	ContextKeyDB = "tenant_db"
	// ContextKeyTenant is the key for the tenant slug in gin context
	ContextKeyTenant = "tenant"
)

// Middleware resolves the request's tenant database and stores it in the
// context. Requests without a valid tenant header never reach a handler.
func Middleware(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := c.GetHeader(TenantHeader)
		if tenant == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "X-Tenant header required"})
			c.Abort()
			return
		}

		db, err := m.Get(tenant)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown or invalid tenant", "error": err.Error()})
			c.Abort()
			return
		}

		c.Set(ContextKeyDB, db)
		c.Set(ContextKeyTenant, tenant)
		c.Next()
	}
}

// FromContext returns the tenant database resolved by Middleware. Panics if
// called outside a tenant-scoped route, which is a wiring bug.
func FromContext(c *gin.Context) *gorm.DB {
	return c.MustGet(ContextKeyDB).(*gorm.DB)
}

package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smallbiznis/stokra/pkg/log"
	"github.com/smallbiznis/stokra/pkg/tenantctx"
)

const (
	HeaderTenant    = "X-Tenant-ID"
	HeaderRequestID = "X-Request-ID"
)

// RequestID propagates the inbound request id, minting one when absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// TenantRequired resolves the tenant from the request header and stores it in
// the request context. Services refuse to run without it.
func (s *Server) TenantRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderTenant))
		if raw == "" {
			AbortWithError(c, tenantctx.ErrMissingTenant)
			return
		}

		tenantID, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, tenantctx.ErrMissingTenant)
			return
		}

		c.Request = c.Request.WithContext(tenantctx.WithTenantID(c.Request.Context(), tenantID))
		c.Next()
	}
}

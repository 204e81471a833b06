package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context, name string) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, newValidationError(name, "invalid_"+name, "invalid "+name)
	}
	return id, nil
}

// parseOptionalIDQuery returns nil when the query parameter is absent.
func parseOptionalIDQuery(c *gin.Context, name string) (*snowflake.ID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return nil, newValidationError(name, "invalid_"+name, "invalid "+name)
	}
	return &id, nil
}

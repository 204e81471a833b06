package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type createLocationRequest struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
}

func (s *Server) CreateLocation(c *gin.Context) {
	var req createLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.locationSvc.Create(c.Request.Context(), strings.TrimSpace(req.Name), req.IsDefault)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLocations(c *gin.Context) {
	resp, err := s.locationSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

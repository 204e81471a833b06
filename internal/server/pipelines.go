package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pipelinedomain "github.com/smallbiznis/stokra/internal/pipeline/domain"
)

type createPipelineRequest struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
}

func (s *Server) CreatePipeline(c *gin.Context) {
	var req createPipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pipelineSvc.CreatePipeline(c.Request.Context(), strings.TrimSpace(req.Name), req.IsDefault)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPipelines(c *gin.Context) {
	resp, err := s.pipelineSvc.ListPipelines(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addStageRequest struct {
	Name                string                       `json:"name"`
	Category            pipelinedomain.StageCategory `json:"category"`
	Position            int                          `json:"position"`
	Color               *string                      `json:"color"`
	StockAction         pipelinedomain.StockAction   `json:"stockAction"`
	GeneratesReceivable bool                         `json:"generatesReceivable"`
	IsLocked            bool                         `json:"isLocked"`
}

func (s *Server) AddStage(c *gin.Context) {
	pipelineID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req addStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pipelineSvc.AddStage(c.Request.Context(), pipelinedomain.AddStageRequest{
		PipelineID:          pipelineID,
		Name:                strings.TrimSpace(req.Name),
		Category:            req.Category,
		Position:            req.Position,
		Color:               req.Color,
		StockAction:         req.StockAction,
		GeneratesReceivable: req.GeneratesReceivable,
		IsLocked:            req.IsLocked,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListStages(c *gin.Context) {
	pipelineID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.pipelineSvc.ListStages(c.Request.Context(), pipelineID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPipelineValidationError(err error) bool {
	switch err {
	case pipelinedomain.ErrInvalidName,
		pipelinedomain.ErrInvalidCategory:
		return true
	default:
		return false
	}
}

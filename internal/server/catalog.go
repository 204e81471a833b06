package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/smallbiznis/stokra/internal/catalog/domain"
)

func (s *Server) ListItems(c *gin.Context) {
	resp, err := s.catalogSvc.ListItems(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetItemByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.catalogSvc.GetItem(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createCategoryRequest struct {
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	ParentID    *snowflake.ID `json:"parentId"`
}

func (s *Server) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.CreateCategory(c.Request.Context(), catalogdomain.CreateCategoryRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ParentID:    req.ParentID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCategories(c *gin.Context) {
	resp, err := s.catalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createUnitRequest struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

func (s *Server) CreateUnit(c *gin.Context) {
	var req createUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.CreateUnit(c.Request.Context(), catalogdomain.CreateUnitRequest{
		Name:   strings.TrimSpace(req.Name),
		Symbol: strings.TrimSpace(req.Symbol),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListUnits(c *gin.Context) {
	resp, err := s.catalogSvc.ListUnits(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addCompositionRequest struct {
	ChildItemID snowflake.ID                  `json:"childItemId"`
	Quantity    decimal.Decimal               `json:"quantity"`
	Type        catalogdomain.CompositionType `json:"type"`
}

func (s *Server) AddComposition(c *gin.Context) {
	parentID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req addCompositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.catalogSvc.AddComposition(c.Request.Context(), catalogdomain.AddCompositionRequest{
		ParentItemID: parentID,
		ChildItemID:  req.ChildItemID,
		Quantity:     req.Quantity,
		Type:         req.Type,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) RemoveComposition(c *gin.Context) {
	parentID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	childID, err := parseIDParam(c, "childId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.catalogSvc.RemoveComposition(c.Request.Context(), parentID, childID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) GetComposition(c *gin.Context) {
	parentID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.catalogSvc.GetComposition(c.Request.Context(), parentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isCatalogValidationError(err error) bool {
	switch err {
	case catalogdomain.ErrInvalidKind,
		catalogdomain.ErrInvalidName,
		catalogdomain.ErrInvalidSKU,
		catalogdomain.ErrInvalidQuantity,
		catalogdomain.ErrSelfComposition:
		return true
	default:
		return false
	}
}

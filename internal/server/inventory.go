package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/smallbiznis/stokra/internal/catalog/domain"
	inventorydomain "github.com/smallbiznis/stokra/internal/inventory/domain"
)

type createItemRequest struct {
	SKU         string                 `json:"sku"`
	Name        string                 `json:"name"`
	Description *string                `json:"description"`
	Kind        catalogdomain.ItemKind `json:"kind"`
	Settings    map[string]any         `json:"settings"`
	UnitID      snowflake.ID           `json:"unitId"`
	CategoryID  *snowflake.ID          `json:"categoryId"`
	LocationID  *snowflake.ID          `json:"locationId"`

	InitialStock      decimal.Decimal  `json:"initialStock"`
	InitialCost       decimal.Decimal  `json:"initialCost"`
	SalePrice         decimal.Decimal  `json:"salePrice"`
	MinStock          *decimal.Decimal `json:"minStock"`
	LowStockThreshold decimal.Decimal  `json:"lowStockThreshold"`
}

func (s *Server) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inventorySvc.CreateItem(c.Request.Context(), inventorydomain.CreateItemRequest{
		SKU:               strings.TrimSpace(req.SKU),
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		Kind:              req.Kind,
		Settings:          req.Settings,
		UnitID:            req.UnitID,
		CategoryID:        req.CategoryID,
		LocationID:        req.LocationID,
		InitialStock:      req.InitialStock,
		InitialCost:       req.InitialCost,
		SalePrice:         req.SalePrice,
		MinStock:          req.MinStock,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLevels(c *gin.Context) {
	locationID, err := parseOptionalIDQuery(c, "location_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.inventorySvc.ListLevels(c.Request.Context(), locationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMovements(c *gin.Context) {
	itemID, err := parseOptionalIDQuery(c, "item_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	locationID, err := parseOptionalIDQuery(c, "location_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.inventorySvc.ListMovements(c.Request.Context(), itemID, locationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addStockRequest struct {
	ItemID         snowflake.ID                       `json:"itemId"`
	LocationID     snowflake.ID                       `json:"locationId"`
	Quantity       decimal.Decimal                    `json:"quantity"`
	UnitCost       decimal.Decimal                    `json:"unitCost"`
	Reason         inventorydomain.StockMovementReason `json:"reason"`
	Notes          *string                            `json:"notes"`
	BatchNumber    *string                            `json:"batchNumber"`
	ExpirationDate *time.Time                         `json:"expirationDate"`
	Position       *string                            `json:"position"`
}

func (s *Server) AddStock(c *gin.Context) {
	var req addStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inventorySvc.AddStock(c.Request.Context(), inventorydomain.AddStockRequest{
		ItemID:         req.ItemID,
		LocationID:     req.LocationID,
		Quantity:       req.Quantity,
		UnitCost:       req.UnitCost,
		Reason:         req.Reason,
		Notes:          req.Notes,
		BatchNumber:    req.BatchNumber,
		ExpirationDate: req.ExpirationDate,
		Position:       req.Position,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type sellItemRequest struct {
	ItemID             snowflake.ID    `json:"itemId"`
	LocationID         snowflake.ID    `json:"locationId"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	ConsumeReservation bool            `json:"consumeReservation"`
	Notes              *string         `json:"notes"`
	BatchNumber        *string         `json:"batchNumber"`
	Position           *string         `json:"position"`
}

func (s *Server) SellItem(c *gin.Context) {
	var req sellItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.inventorySvc.SellItem(c.Request.Context(), inventorydomain.SellRequest{
		ItemID:             req.ItemID,
		LocationID:         req.LocationID,
		Quantity:           req.Quantity,
		UnitPrice:          req.UnitPrice,
		ConsumeReservation: req.ConsumeReservation,
		Notes:              req.Notes,
		BatchNumber:        req.BatchNumber,
		Position:           req.Position,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type reserveStockRequest struct {
	ItemID     snowflake.ID    `json:"itemId"`
	LocationID snowflake.ID    `json:"locationId"`
	Quantity   decimal.Decimal `json:"quantity"`
}

func (s *Server) ReserveStock(c *gin.Context) {
	var req reserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.inventorySvc.ReserveStock(c.Request.Context(), inventorydomain.ReserveRequest{
		ItemID:     req.ItemID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func isInventoryValidationError(err error) bool {
	switch err {
	case inventorydomain.ErrInvalidQuantity,
		inventorydomain.ErrLocationRequired:
		return true
	default:
		return false
	}
}

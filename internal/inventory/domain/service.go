package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/stokra/internal/catalog/domain"
	"gorm.io/gorm"
)

type Service interface {
	// CreateItem inserts the catalog row and, for physical products with an
	// initial quantity and a location, seeds the default batch, the level
	// and an INITIAL_STOCK movement in the same transaction.
	CreateItem(ctx context.Context, req CreateItemRequest) (*catalogdomain.Item, error)

	AddStock(ctx context.Context, req AddStockRequest) (*InventoryLevel, error)
	SellItem(ctx context.Context, req SellRequest) error
	ReserveStock(ctx context.Context, req ReserveRequest) error

	// SellItemTx runs the sale inside the caller's transaction; used by the
	// order transition orchestrator.
	SellItemTx(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, req SellRequest) error
	ReserveStockTx(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, req ReserveRequest) error

	ListLevels(ctx context.Context, locationID *snowflake.ID) ([]InventoryLevel, error)
	ListMovements(ctx context.Context, itemID, locationID *snowflake.ID) ([]StockMovement, error)
}

type CreateItemRequest struct {
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

type AddStockRequest struct {
	ItemID         snowflake.ID        `json:"itemId"`
	LocationID     snowflake.ID        `json:"locationId"`
	Quantity       decimal.Decimal     `json:"quantity"`
	UnitCost       decimal.Decimal     `json:"unitCost"`
	Reason         StockMovementReason `json:"reason"`
	Notes          *string             `json:"notes"`
	BatchNumber    *string             `json:"batchNumber"`
	ExpirationDate *time.Time          `json:"expirationDate"`
	Position       *string             `json:"position"`
}

type SellRequest struct {
	ItemID             snowflake.ID    `json:"itemId"`
	LocationID         snowflake.ID    `json:"locationId"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	ConsumeReservation bool            `json:"consumeReservation"`
	Notes              *string         `json:"notes"`
	BatchNumber        *string         `json:"batchNumber"`
	Position           *string         `json:"position"`
}

type ReserveRequest struct {
	ItemID     snowflake.ID    `json:"itemId"`
	LocationID snowflake.ID    `json:"locationId"`
	Quantity   decimal.Decimal `json:"quantity"`
}

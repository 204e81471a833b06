package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	// GetLevel reads the level without locking.
	GetLevel(ctx context.Context, tx *gorm.DB, tenantID, itemID, locationID snowflake.ID) (*InventoryLevel, error)
	// GetLevelForUpdate reads the level under SELECT ... FOR UPDATE so
	// concurrent sales on the same row serialize.
	GetLevelForUpdate(ctx context.Context, tx *gorm.DB, tenantID, itemID, locationID snowflake.ID) (*InventoryLevel, error)
	// UpsertLevel creates the level on first movement and otherwise applies
	// the signed quantity/reserved deltas. avgCost, salePrice and threshold
	// overwrite only when non-nil.
	UpsertLevel(ctx context.Context, tx *gorm.DB, tenantID, itemID, locationID snowflake.ID,
		quantityDelta decimal.Decimal, reservedDelta, avgCost, salePrice, lowStockThreshold *decimal.Decimal) (*InventoryLevel, error)
	FindLevels(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, locationID *snowflake.ID) ([]InventoryLevel, error)

	// UpsertBatch applies the signed quantity delta to the batch identified
	// by (item, location, batchNumber, position), creating it when absent.
	UpsertBatch(ctx context.Context, tx *gorm.DB, tenantID, itemID, locationID snowflake.ID,
		batchNumber, position string, expiration *time.Time, quantityDelta, unitCost decimal.Decimal) error
	// FindBatchesForConsumption lists positive batches in FIFO order:
	// expiration_date ASC NULLS LAST, created_at ASC.
	FindBatchesForConsumption(ctx context.Context, tx *gorm.DB, tenantID, itemID, locationID snowflake.ID) ([]InventoryBatch, error)

	RecordMovement(ctx context.Context, tx *gorm.DB, movement *StockMovement) error
	FindMovements(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, itemID, locationID *snowflake.ID) ([]StockMovement, error)

	// SyncItemCurrentStock refreshes the display cache on the catalog row.
	SyncItemCurrentStock(ctx context.Context, tx *gorm.DB, tenantID, itemID snowflake.ID) error
}

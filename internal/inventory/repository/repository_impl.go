package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/stokra/internal/inventory/domain"
	"gorm.io/gorm"
)

type repo struct {
	genID *snowflake.Node
}

func Provide(genID *snowflake.Node) domain.Repository {
	return &repo{genID: genID}
}

func (r *repo) GetLevel(ctx context.Context, tx *gorm.DB, tenantID, itemID, locationID snowflake.ID) (*domain.InventoryLevel, error) {
	var level domain.InventoryLevel
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM inventory_levels
		 WHERE tenant_id = ? AND item_id = ? AND location_id = ?`,
		tenantID,
		itemID,
		locationID,
	).Scan(&level).Error
	if err != nil {
		return nil, err
	}
	if level.ID == 0 {
		return nil, nil
	}
	return &level, nil
}

func (r *repo) GetLevelForUpdate(ctx context.Context, tx *gorm.DB, tenantID, itemID, locationID snowflake.ID) (*domain.InventoryLevel, error) {
	var level domain.InventoryLevel
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM inventory_levels
		 WHERE tenant_id = ? AND item_id = ? AND location_id = ?
		 FOR UPDATE`,
		tenantID,
		itemID,
		locationID,
	).Scan(&level).Error
	if err != nil {
		return nil, err
	}
	if level.ID == 0 {
		return nil, nil
	}
	return &level, nil
}

func (r *repo) UpsertLevel(ctx context.Context, tx *gorm.DB, tenantID, itemID, locationID snowflake.ID,
	quantityDelta decimal.Decimal, reservedDelta, avgCost, salePrice, lowStockThreshold *decimal.Decimal) (*domain.InventoryLevel, error) {

	err := tx.WithContext(ctx).Exec(
		`INSERT INTO inventory_levels (
		    id, tenant_id, item_id, location_id, quantity, reserved_quantity,
		    sale_price, average_cost, low_stock_threshold, updated_at
		 )
		 VALUES (?, ?, ?, ?, ?, COALESCE(?, 0), ?, COALESCE(?, 0), COALESCE(?, 0), ?)
		 ON CONFLICT (tenant_id, item_id, location_id) DO UPDATE SET
		    quantity = inventory_levels.quantity + excluded.quantity,
		    reserved_quantity = inventory_levels.reserved_quantity + COALESCE(?, 0),
		    average_cost = COALESCE(?, inventory_levels.average_cost),
		    sale_price = COALESCE(?, inventory_levels.sale_price),
		    low_stock_threshold = COALESCE(?, inventory_levels.low_stock_threshold),
		    updated_at = excluded.updated_at`,
		r.genID.Generate(),
		tenantID,
		itemID,
		locationID,
		quantityDelta,
		reservedDelta,
		salePrice,
		avgCost,
		lowStockThreshold,
		time.Now().UTC(),
		reservedDelta,
		avgCost,
		salePrice,
		lowStockThreshold,
	).Error
	if err != nil {
		return nil, err
	}

	return r.GetLevel(ctx, tx, tenantID, itemID, locationID)
}

func (r *repo) FindLevels(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, locationID *snowflake.ID) ([]domain.InventoryLevel, error) {
	var levels []domain.InventoryLevel
	stmt := tx.WithContext(ctx).
		Model(&domain.InventoryLevel{}).
		Where("tenant_id = ?", tenantID)
	if locationID != nil {
		stmt = stmt.Where("location_id = ?", *locationID)
	}
	if err := stmt.Order("item_id ASC").Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *repo) UpsertBatch(ctx context.Context, tx *gorm.DB, tenantID, itemID, locationID snowflake.ID,
	batchNumber, position string, expiration *time.Time, quantityDelta, unitCost decimal.Decimal) error {

	now := time.Now().UTC()
	return tx.WithContext(ctx).Exec(
		`INSERT INTO inventory_batches (
		    id, tenant_id, item_id, location_id, batch_number, position,
		    expiration_date, quantity, unit_cost, created_at, updated_at
		 )
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (tenant_id, item_id, location_id, batch_number, position) DO UPDATE SET
		    quantity = inventory_batches.quantity + excluded.quantity,
		    unit_cost = CASE WHEN excluded.quantity > 0 THEN excluded.unit_cost ELSE inventory_batches.unit_cost END,
		    expiration_date = COALESCE(excluded.expiration_date, inventory_batches.expiration_date),
		    updated_at = excluded.updated_at`,
		r.genID.Generate(),
		tenantID,
		itemID,
		locationID,
		batchNumber,
		position,
		expiration,
		quantityDelta,
		unitCost,
		now,
		now,
	).Error
}

func (r *repo) FindBatchesForConsumption(ctx context.Context, tx *gorm.DB, tenantID, itemID, locationID snowflake.ID) ([]domain.InventoryBatch, error) {
	var batches []domain.InventoryBatch
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM inventory_batches
		 WHERE tenant_id = ? AND item_id = ? AND location_id = ? AND quantity > 0
		 ORDER BY expiration_date ASC NULLS LAST, created_at ASC`,
		tenantID,
		itemID,
		locationID,
	).Scan(&batches).Error
	if err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *repo) RecordMovement(ctx context.Context, tx *gorm.DB, movement *domain.StockMovement) error {
	return tx.WithContext(ctx).Create(movement).Error
}

func (r *repo) FindMovements(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, itemID, locationID *snowflake.ID) ([]domain.StockMovement, error) {
	var movements []domain.StockMovement
	stmt := tx.WithContext(ctx).
		Model(&domain.StockMovement{}).
		Where("tenant_id = ?", tenantID)
	if itemID != nil {
		stmt = stmt.Where("item_id = ?", *itemID)
	}
	if locationID != nil {
		stmt = stmt.Where("location_id = ?", *locationID)
	}
	if err := stmt.Order("created_at ASC, id ASC").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *repo) SyncItemCurrentStock(ctx context.Context, tx *gorm.DB, tenantID, itemID snowflake.ID) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE items
		 SET current_stock = (
		    SELECT COALESCE(SUM(quantity), 0)
		    FROM inventory_levels
		    WHERE inventory_levels.tenant_id = items.tenant_id
		      AND inventory_levels.item_id = items.id
		 ),
		 updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		time.Now().UTC(),
		tenantID,
		itemID,
	).Error
}

package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	catalogdomain "github.com/smallbiznis/stokra/internal/catalog/domain"
	catalogrepository "github.com/smallbiznis/stokra/internal/catalog/repository"
	"github.com/smallbiznis/stokra/internal/inventory/domain"
	"github.com/smallbiznis/stokra/internal/inventory/repository"
	locationdomain "github.com/smallbiznis/stokra/internal/location/domain"
	"github.com/smallbiznis/stokra/pkg/tenantctx"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// SQLite support hack: remove FOR UPDATE clauses
	db.Callback().Query().Before("gorm:query").Register("sqlite_skip_locked", func(d *gorm.DB) {
		sql := d.Statement.SQL.String()
		if strings.Contains(sql, "FOR UPDATE") {
			newSQL := strings.ReplaceAll(sql, "FOR UPDATE", "")
			d.Statement.SQL.Reset()
			d.Statement.SQL.WriteString(newSQL)
		}
	})
	db.Callback().Row().Before("gorm:row").Register("sqlite_skip_locked_row", func(d *gorm.DB) {
		sql := d.Statement.SQL.String()
		if strings.Contains(sql, "FOR UPDATE") {
			newSQL := strings.ReplaceAll(sql, "FOR UPDATE", "")
			d.Statement.SQL.Reset()
			d.Statement.SQL.WriteString(newSQL)
		}
	})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Item{},
		&catalogdomain.UnitOfMeasure{},
		&locationdomain.Location{},
		&domain.InventoryLevel{},
		&domain.InventoryBatch{},
		&domain.StockMovement{},
	))

	return db
}

func newTestService(t *testing.T, db *gorm.DB) (*Service, *snowflake.Node) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:          db,
		Log:         zaptest.NewLogger(t),
		GenID:       node,
		Repo:        repository.Provide(node),
		CatalogRepo: catalogrepository.Provide(),
	})
	return svc.(*Service), node
}

func testContext(node *snowflake.Node) (context.Context, snowflake.ID) {
	tenantID := node.Generate()
	return tenantctx.WithTenantID(context.Background(), tenantID), tenantID
}

func seedLocation(t *testing.T, db *gorm.DB, node *snowflake.Node, tenantID snowflake.ID) snowflake.ID {
	t.Helper()
	loc := &locationdomain.Location{
		ID:        node.Generate(),
		TenantID:  tenantID,
		Name:      "Principal",
		IsDefault: true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(loc).Error)
	return loc.ID
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateItem_SeedsInitialStock(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)
	ctx, tenantID := testContext(node)
	locationID := seedLocation(t, db, node, tenantID)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{
		SKU:          "CX-001",
		Name:         "Caixa Padrão",
		Kind:         catalogdomain.ItemKindProduct,
		UnitID:       node.Generate(),
		LocationID:   &locationID,
		InitialStock: dec("10"),
		InitialCost:  dec("5"),
		SalePrice:    dec("12.50"),
	})
	require.NoError(t, err)
	assert.True(t, item.CurrentStock.Equal(dec("10")))

	level, err := repository.Provide(node).GetLevel(ctx, db, tenantID, item.ID, locationID)
	require.NoError(t, err)
	require.NotNil(t, level)
	assert.True(t, level.Quantity.Equal(dec("10")))
	assert.True(t, level.AverageCost.Equal(dec("5")))

	var batch domain.InventoryBatch
	require.NoError(t, db.Where("tenant_id = ? AND item_id = ?", tenantID, item.ID).First(&batch).Error)
	assert.Equal(t, domain.DefaultBatchNumber, batch.BatchNumber)
	assert.Equal(t, domain.DefaultPosition, batch.Position)
	assert.True(t, batch.Quantity.Equal(dec("10")))

	var movements []domain.StockMovement
	require.NoError(t, db.Where("tenant_id = ? AND item_id = ?", tenantID, item.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.ReasonInitialStock, movements[0].Reason)
	assert.True(t, movements[0].QuantityChanged.Equal(dec("10")))
}

func TestCreateItem_ServiceKindSkipsStock(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)
	ctx, tenantID := testContext(node)
	locationID := seedLocation(t, db, node, tenantID)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{
		SKU:          "SRV-01",
		Name:         "Instalação",
		Kind:         catalogdomain.ItemKindService,
		UnitID:       node.Generate(),
		LocationID:   &locationID,
		InitialStock: dec("10"),
		InitialCost:  dec("5"),
		SalePrice:    dec("100"),
	})
	require.NoError(t, err)
	assert.True(t, item.CurrentStock.IsZero())

	var count int64
	require.NoError(t, db.Model(&domain.InventoryLevel{}).Where("tenant_id = ?", tenantID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateItem_DuplicateSKU(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)
	ctx, _ := testContext(node)

	req := domain.CreateItemRequest{
		SKU:       "DUP-01",
		Name:      "Primeiro",
		Kind:      catalogdomain.ItemKindProduct,
		UnitID:    node.Generate(),
		SalePrice: dec("10"),
	}
	_, err := svc.CreateItem(ctx, req)
	require.NoError(t, err)

	req.Name = "Segundo"
	_, err = svc.CreateItem(ctx, req)
	var dup *catalogdomain.DuplicateSKUError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "DUP-01", dup.SKU)
}

func TestAddStock_WeightedAverageCost(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)
	ctx, tenantID := testContext(node)
	locationID := seedLocation(t, db, node, tenantID)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{
		SKU:          "AVG-01",
		Name:         "Produto",
		Kind:         catalogdomain.ItemKindProduct,
		UnitID:       node.Generate(),
		LocationID:   &locationID,
		InitialStock: dec("10"),
		InitialCost:  dec("10"),
		SalePrice:    dec("20"),
	})
	require.NoError(t, err)

	level, err := svc.AddStock(ctx, domain.AddStockRequest{
		ItemID:     item.ID,
		LocationID: locationID,
		Quantity:   dec("10"),
		UnitCost:   dec("20"),
	})
	require.NoError(t, err)

	// (10*10 + 10*20) / 20 = 15
	assert.True(t, level.Quantity.Equal(dec("20")), "quantity = %s", level.Quantity)
	assert.True(t, level.AverageCost.Equal(dec("15")), "average cost = %s", level.AverageCost)

	var item2 catalogdomain.Item
	require.NoError(t, db.Where("id = ?", item.ID).First(&item2).Error)
	assert.True(t, item2.CurrentStock.Equal(dec("20")))
}

func TestSellItem_FIFOByExpiration(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)
	ctx, tenantID := testContext(node)
	locationID := seedLocation(t, db, node, tenantID)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{
		SKU:       "FIFO-01",
		Name:      "Perecível",
		Kind:      catalogdomain.ItemKindProduct,
		UnitID:    node.Generate(),
		SalePrice: dec("8"),
	})
	require.NoError(t, err)

	soon := time.Now().UTC().AddDate(0, 0, 3)
	later := time.Now().UTC().AddDate(0, 1, 0)
	lot1, lot2 := "L1", "L2"

	// L2 is added first but expires later; FIFO must still drain L1 first.
	_, err = svc.AddStock(ctx, domain.AddStockRequest{
		ItemID: item.ID, LocationID: locationID,
		Quantity: dec("5"), UnitCost: dec("2"),
		BatchNumber: &lot2, ExpirationDate: &later,
	})
	require.NoError(t, err)
	_, err = svc.AddStock(ctx, domain.AddStockRequest{
		ItemID: item.ID, LocationID: locationID,
		Quantity: dec("5"), UnitCost: dec("2"),
		BatchNumber: &lot1, ExpirationDate: &soon,
	})
	require.NoError(t, err)

	err = svc.SellItem(ctx, domain.SellRequest{
		ItemID:     item.ID,
		LocationID: locationID,
		Quantity:   dec("7"),
		UnitPrice:  dec("8"),
	})
	require.NoError(t, err)

	var batches []domain.InventoryBatch
	require.NoError(t, db.
		Where("tenant_id = ? AND item_id = ?", tenantID, item.ID).
		Order("batch_number ASC").
		Find(&batches).Error)
	require.Len(t, batches, 2)
	assert.True(t, batches[0].Quantity.IsZero(), "L1 = %s", batches[0].Quantity)
	assert.True(t, batches[1].Quantity.Equal(dec("3")), "L2 = %s", batches[1].Quantity)

	var movement domain.StockMovement
	require.NoError(t, db.
		Where("tenant_id = ? AND item_id = ? AND reason = ?", tenantID, item.ID, domain.ReasonSale).
		First(&movement).Error)
	require.NotNil(t, movement.Position)
	assert.Equal(t, domain.FIFOPosition, *movement.Position)
	assert.True(t, movement.QuantityChanged.Equal(dec("-7")))
}

func TestSellItem_FIFOUndatedBatchDrainsLast(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)
	ctx, tenantID := testContext(node)
	locationID := seedLocation(t, db, node, tenantID)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{
		SKU:       "FIFO-02",
		Name:      "Misto",
		Kind:      catalogdomain.ItemKindProduct,
		UnitID:    node.Generate(),
		SalePrice: dec("8"),
	})
	require.NoError(t, err)

	soon := time.Now().UTC().AddDate(0, 0, 3)
	undated, dated := "SEM-DATA", "DATADO"

	// The undated lot is older but carries no expiration; dated lots
	// still drain first.
	_, err = svc.AddStock(ctx, domain.AddStockRequest{
		ItemID: item.ID, LocationID: locationID,
		Quantity: dec("4"), UnitCost: dec("2"),
		BatchNumber: &undated,
	})
	require.NoError(t, err)
	_, err = svc.AddStock(ctx, domain.AddStockRequest{
		ItemID: item.ID, LocationID: locationID,
		Quantity: dec("6"), UnitCost: dec("2"),
		BatchNumber: &dated, ExpirationDate: &soon,
	})
	require.NoError(t, err)

	err = svc.SellItem(ctx, domain.SellRequest{
		ItemID:     item.ID,
		LocationID: locationID,
		Quantity:   dec("6"),
		UnitPrice:  dec("8"),
	})
	require.NoError(t, err)

	var batches []domain.InventoryBatch
	require.NoError(t, db.
		Where("tenant_id = ? AND item_id = ?", tenantID, item.ID).
		Order("batch_number ASC").
		Find(&batches).Error)
	require.Len(t, batches, 2)
	assert.True(t, batches[0].Quantity.IsZero(), "DATADO = %s", batches[0].Quantity)
	assert.True(t, batches[1].Quantity.Equal(dec("4")), "SEM-DATA = %s", batches[1].Quantity)
}

func TestSellItem_BatchShortfallIsAtomic(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)
	ctx, tenantID := testContext(node)
	locationID := seedLocation(t, db, node, tenantID)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{
		SKU:          "SHORT-01",
		Name:         "Divergente",
		Kind:         catalogdomain.ItemKindProduct,
		UnitID:       node.Generate(),
		LocationID:   &locationID,
		InitialStock: dec("10"),
		InitialCost:  dec("2"),
		SalePrice:    dec("8"),
	})
	require.NoError(t, err)

	// Force the lots behind the level: the guard passes but the FIFO walk
	// cannot cover the sale, so nothing may commit.
	require.NoError(t, db.Exec(
		`UPDATE inventory_batches SET quantity = ? WHERE tenant_id = ? AND item_id = ?`,
		dec("3"), tenantID, item.ID).Error)

	err = svc.SellItem(ctx, domain.SellRequest{
		ItemID:     item.ID,
		LocationID: locationID,
		Quantity:   dec("5"),
		UnitPrice:  dec("8"),
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Requested.Equal(dec("5")))
	assert.True(t, insufficient.Available.Equal(dec("3")))

	level, err := repository.Provide(node).GetLevel(ctx, db, tenantID, item.ID, locationID)
	require.NoError(t, err)
	require.NotNil(t, level)
	assert.True(t, level.Quantity.Equal(dec("10")), "quantity = %s", level.Quantity)

	var batch domain.InventoryBatch
	require.NoError(t, db.Where("tenant_id = ? AND item_id = ?", tenantID, item.ID).First(&batch).Error)
	assert.True(t, batch.Quantity.Equal(dec("3")), "batch = %s", batch.Quantity)

	var saleCount int64
	require.NoError(t, db.Model(&domain.StockMovement{}).
		Where("tenant_id = ? AND item_id = ? AND reason = ?", tenantID, item.ID, domain.ReasonSale).
		Count(&saleCount).Error)
	assert.Zero(t, saleCount)
}

func TestSellItem_SpecificBatch(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)
	ctx, tenantID := testContext(node)
	locationID := seedLocation(t, db, node, tenantID)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{
		SKU:       "LOT-01",
		Name:      "Lote Específico",
		Kind:      catalogdomain.ItemKindProduct,
		UnitID:    node.Generate(),
		SalePrice: dec("9"),
	})
	require.NoError(t, err)

	lot1, lot2 := "A", "B"
	_, err = svc.AddStock(ctx, domain.AddStockRequest{
		ItemID: item.ID, LocationID: locationID,
		Quantity: dec("5"), UnitCost: dec("1"), BatchNumber: &lot1,
	})
	require.NoError(t, err)
	_, err = svc.AddStock(ctx, domain.AddStockRequest{
		ItemID: item.ID, LocationID: locationID,
		Quantity: dec("5"), UnitCost: dec("1"), BatchNumber: &lot2,
	})
	require.NoError(t, err)

	err = svc.SellItem(ctx, domain.SellRequest{
		ItemID:      item.ID,
		LocationID:  locationID,
		Quantity:    dec("3"),
		UnitPrice:   dec("9"),
		BatchNumber: &lot2,
	})
	require.NoError(t, err)

	var batches []domain.InventoryBatch
	require.NoError(t, db.
		Where("tenant_id = ? AND item_id = ?", tenantID, item.ID).
		Order("batch_number ASC").
		Find(&batches).Error)
	require.Len(t, batches, 2)
	assert.True(t, batches[0].Quantity.Equal(dec("5")))
	assert.True(t, batches[1].Quantity.Equal(dec("2")))
}

func TestSellItem_InsufficientStockIsAtomic(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)
	ctx, tenantID := testContext(node)
	locationID := seedLocation(t, db, node, tenantID)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{
		SKU:          "SHORT-01",
		Name:         "Escasso",
		Kind:         catalogdomain.ItemKindProduct,
		UnitID:       node.Generate(),
		LocationID:   &locationID,
		InitialStock: dec("5"),
		InitialCost:  dec("1"),
		SalePrice:    dec("3"),
	})
	require.NoError(t, err)

	err = svc.SellItem(ctx, domain.SellRequest{
		ItemID:     item.ID,
		LocationID: locationID,
		Quantity:   dec("8"),
		UnitPrice:  dec("3"),
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Requested.Equal(dec("8")))
	assert.True(t, insufficient.Available.Equal(dec("5")))

	// Nothing moved.
	level, err := repository.Provide(node).GetLevel(ctx, db, tenantID, item.ID, locationID)
	require.NoError(t, err)
	assert.True(t, level.Quantity.Equal(dec("5")))

	var count int64
	require.NoError(t, db.Model(&domain.StockMovement{}).
		Where("tenant_id = ? AND item_id = ? AND reason = ?", tenantID, item.ID, domain.ReasonSale).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestSellItem_SecondSaleSeesFirstDecrement(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)
	ctx, tenantID := testContext(node)
	locationID := seedLocation(t, db, node, tenantID)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{
		SKU:          "RACE-01",
		Name:         "Concorrido",
		Kind:         catalogdomain.ItemKindProduct,
		UnitID:       node.Generate(),
		LocationID:   &locationID,
		InitialStock: dec("10"),
		InitialCost:  dec("1"),
		SalePrice:    dec("4"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.SellItem(ctx, domain.SellRequest{
		ItemID: item.ID, LocationID: locationID, Quantity: dec("7"), UnitPrice: dec("4"),
	}))

	err = svc.SellItem(ctx, domain.SellRequest{
		ItemID: item.ID, LocationID: locationID, Quantity: dec("7"), UnitPrice: dec("4"),
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(dec("3")))

	level, err := repository.Provide(node).GetLevel(ctx, db, tenantID, item.ID, locationID)
	require.NoError(t, err)
	assert.True(t, level.Quantity.Equal(dec("3")))
}

func TestReserveStock_ReducesAvailability(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)
	ctx, _ := testContext(node)
	tenantID, _ := tenantctx.TenantID(ctx)
	locationID := seedLocation(t, db, node, tenantID)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{
		SKU:          "RES-01",
		Name:         "Reservável",
		Kind:         catalogdomain.ItemKindProduct,
		UnitID:       node.Generate(),
		LocationID:   &locationID,
		InitialStock: dec("10"),
		InitialCost:  dec("2"),
		SalePrice:    dec("5"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.ReserveStock(ctx, domain.ReserveRequest{
		ItemID: item.ID, LocationID: locationID, Quantity: dec("4"),
	}))

	// 6 available; reserving 7 more fails.
	err = svc.ReserveStock(ctx, domain.ReserveRequest{
		ItemID: item.ID, LocationID: locationID, Quantity: dec("7"),
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(dec("6")))

	// A plain sale competes with the reservation too.
	err = svc.SellItem(ctx, domain.SellRequest{
		ItemID: item.ID, LocationID: locationID, Quantity: dec("7"), UnitPrice: dec("5"),
	})
	require.ErrorAs(t, err, &insufficient)

	require.NoError(t, svc.SellItem(ctx, domain.SellRequest{
		ItemID: item.ID, LocationID: locationID, Quantity: dec("6"), UnitPrice: dec("5"),
	}))
}

func TestMovementLedger_ReconcilesWithLevel(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)
	ctx, tenantID := testContext(node)
	locationID := seedLocation(t, db, node, tenantID)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{
		SKU:          "LEDGER-01",
		Name:         "Conferido",
		Kind:         catalogdomain.ItemKindProduct,
		UnitID:       node.Generate(),
		LocationID:   &locationID,
		InitialStock: dec("10"),
		InitialCost:  dec("3"),
		SalePrice:    dec("6"),
	})
	require.NoError(t, err)

	_, err = svc.AddStock(ctx, domain.AddStockRequest{
		ItemID: item.ID, LocationID: locationID, Quantity: dec("5.5"), UnitCost: dec("4"),
	})
	require.NoError(t, err)
	require.NoError(t, svc.SellItem(ctx, domain.SellRequest{
		ItemID: item.ID, LocationID: locationID, Quantity: dec("7.25"), UnitPrice: dec("6"),
	}))

	var sum decimal.Decimal
	require.NoError(t, db.Model(&domain.StockMovement{}).
		Select("COALESCE(SUM(quantity_changed), 0)").
		Where("tenant_id = ? AND item_id = ? AND location_id = ?", tenantID, item.ID, locationID).
		Scan(&sum).Error)

	level, err := repository.Provide(node).GetLevel(ctx, db, tenantID, item.ID, locationID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(level.Quantity), "ledger sum %s vs level %s", sum, level.Quantity)
	assert.True(t, level.Quantity.Equal(dec("8.25")))
}

func TestSellItem_MissingLevel(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)
	ctx, tenantID := testContext(node)
	locationID := seedLocation(t, db, node, tenantID)

	err := svc.SellItem(ctx, domain.SellRequest{
		ItemID:     node.Generate(),
		LocationID: locationID,
		Quantity:   dec("1"),
		UnitPrice:  dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrLevelNotFound)
}

func TestRequireTenant(t *testing.T) {
	db := newTestDB(t)
	svc, node := newTestService(t, db)

	_, err := svc.CreateItem(context.Background(), domain.CreateItemRequest{
		SKU:       "NT-01",
		Name:      "Sem Tenant",
		Kind:      catalogdomain.ItemKindProduct,
		UnitID:    node.Generate(),
		SalePrice: dec("1"),
	})
	assert.ErrorIs(t, err, tenantctx.ErrMissingTenant)
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/stokra/internal/catalog/domain"
	"github.com/smallbiznis/stokra/internal/inventory/domain"
	"github.com/smallbiznis/stokra/internal/observability/metrics"
	"github.com/smallbiznis/stokra/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	CatalogRepo catalogdomain.Repository
}

// Service is the sole authority for stock quantities, cost and movement
// history. Every public operation defines its own transaction boundary.
type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	catalogRepo catalogdomain.Repository
	genID       *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("inventory.service"),
		repo:        p.Repo,
		catalogRepo: p.CatalogRepo,
		genID:       p.GenID,
	}
}

func (s *Service) CreateItem(ctx context.Context, req domain.CreateItemRequest) (*catalogdomain.Item, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return nil, catalogdomain.ErrInvalidSKU
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, catalogdomain.ErrInvalidName
	}

	kind := req.Kind
	if kind == "" {
		kind = catalogdomain.ItemKindProduct
	}
	switch kind {
	case catalogdomain.ItemKindProduct, catalogdomain.ItemKindService,
		catalogdomain.ItemKindResource, catalogdomain.ItemKindBundle:
	default:
		return nil, catalogdomain.ErrInvalidKind
	}

	now := time.Now().UTC()
	initialCost := req.InitialCost
	item := &catalogdomain.Item{
		ID:           s.genID.Generate(),
		TenantID:     tenantID,
		SKU:          sku,
		Name:         name,
		Description:  req.Description,
		Kind:         kind,
		UnitID:       req.UnitID,
		CategoryID:   req.CategoryID,
		CostPrice:    &initialCost,
		SalePrice:    req.SalePrice,
		CurrentStock: decimal.Zero,
		MinStock:     req.MinStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Settings != nil {
		item.Settings = datatypes.JSONMap(req.Settings)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.catalogRepo.CreateItem(ctx, tx, item); err != nil {
			return err
		}

		// Services, resources and bundles are not stocked; initial stock is
		// only seeded for physical products with a location.
		if kind != catalogdomain.ItemKindProduct || req.LocationID == nil || !req.InitialStock.IsPositive() {
			return nil
		}
		locationID := *req.LocationID

		if err := s.repo.UpsertBatch(ctx, tx, tenantID, item.ID, locationID,
			domain.DefaultBatchNumber, domain.DefaultPosition, nil,
			req.InitialStock, req.InitialCost); err != nil {
			return err
		}

		avgCost := req.InitialCost
		salePrice := req.SalePrice
		threshold := req.LowStockThreshold
		if _, err := s.repo.UpsertLevel(ctx, tx, tenantID, item.ID, locationID,
			req.InitialStock, nil, &avgCost, &salePrice, &threshold); err != nil {
			return err
		}

		notes := "Item creation"
		position := domain.DefaultPosition
		unitCost := req.InitialCost
		if err := s.repo.RecordMovement(ctx, tx, &domain.StockMovement{
			ID:              s.genID.Generate(),
			TenantID:        tenantID,
			ItemID:          item.ID,
			LocationID:      locationID,
			QuantityChanged: req.InitialStock,
			Reason:          domain.ReasonInitialStock,
			Position:        &position,
			UnitCost:        &unitCost,
			Notes:           &notes,
			CreatedAt:       time.Now().UTC(),
		}); err != nil {
			return err
		}

		item.CurrentStock = req.InitialStock
		return s.repo.SyncItemCurrentStock(ctx, tx, tenantID, item.ID)
	})
	if err != nil {
		return nil, err
	}

	metrics.StockMovements.WithLabelValues(string(domain.ReasonInitialStock)).Inc()
	return item, nil
}

func (s *Service) AddStock(ctx context.Context, req domain.AddStockRequest) (*domain.InventoryLevel, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	if !req.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}

	batchNumber := domain.DefaultBatchNumber
	if req.BatchNumber != nil && *req.BatchNumber != "" {
		batchNumber = *req.BatchNumber
	}
	position := domain.DefaultPosition
	if req.Position != nil && *req.Position != "" {
		position = *req.Position
	}
	reason := req.Reason
	if reason == "" {
		reason = domain.ReasonPurchase
	}

	var level *domain.InventoryLevel
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpsertBatch(ctx, tx, tenantID, req.ItemID, req.LocationID,
			batchNumber, position, req.ExpirationDate, req.Quantity, req.UnitCost); err != nil {
			return err
		}

		current, err := s.repo.GetLevel(ctx, tx, tenantID, req.ItemID, req.LocationID)
		if err != nil {
			return err
		}
		currentQty, currentAvg := decimal.Zero, decimal.Zero
		if current != nil {
			currentQty, currentAvg = current.Quantity, current.AverageCost
		}
		newAvg := domain.NewAverageCost(currentQty, currentAvg, req.Quantity, req.UnitCost)

		level, err = s.repo.UpsertLevel(ctx, tx, tenantID, req.ItemID, req.LocationID,
			req.Quantity, nil, &newAvg, nil, nil)
		if err != nil {
			return err
		}

		unitCost := req.UnitCost
		if err := s.repo.RecordMovement(ctx, tx, &domain.StockMovement{
			ID:              s.genID.Generate(),
			TenantID:        tenantID,
			ItemID:          req.ItemID,
			LocationID:      req.LocationID,
			QuantityChanged: req.Quantity,
			Reason:          reason,
			Position:        &position,
			UnitCost:        &unitCost,
			Notes:           req.Notes,
			CreatedAt:       time.Now().UTC(),
		}); err != nil {
			return err
		}

		return s.repo.SyncItemCurrentStock(ctx, tx, tenantID, req.ItemID)
	})
	if err != nil {
		return nil, err
	}

	metrics.StockMovements.WithLabelValues(string(reason)).Inc()
	return level, nil
}

func (s *Service) SellItem(ctx context.Context, req domain.SellRequest) error {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.sellItem(ctx, tx, tenantID, req)
	})
}

func (s *Service) SellItemTx(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, req domain.SellRequest) error {
	return s.sellItem(ctx, tx, tenantID, req)
}

// sellItem deducts stock under an exclusive row lock on the level. Two
// concurrent sales on the same (tenant, item, location) serialize on that
// lock; the second sees the first's decrement.
func (s *Service) sellItem(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, req domain.SellRequest) error {
	if !req.Quantity.IsPositive() {
		return domain.ErrInvalidQuantity
	}

	level, err := s.repo.GetLevelForUpdate(ctx, tx, tenantID, req.ItemID, req.LocationID)
	if err != nil {
		return err
	}
	if level == nil {
		return domain.ErrLevelNotFound
	}

	available := level.Available()
	if !req.ConsumeReservation && available.LessThan(req.Quantity) {
		metrics.InsufficientStockRejections.Inc()
		return &domain.InsufficientStockError{Requested: req.Quantity, Available: available}
	}

	quantityDelta := req.Quantity.Neg()
	var reservedDelta *decimal.Decimal
	if req.ConsumeReservation {
		d := req.Quantity.Neg()
		reservedDelta = &d
	}
	if _, err := s.repo.UpsertLevel(ctx, tx, tenantID, req.ItemID, req.LocationID,
		quantityDelta, reservedDelta, nil, nil, nil); err != nil {
		return err
	}

	position := domain.FIFOPosition
	if req.BatchNumber != nil && *req.BatchNumber != "" {
		// Specific lot: the full quantity comes out of that batch, no
		// partial fallback.
		position = domain.DefaultPosition
		if req.Position != nil && *req.Position != "" {
			position = *req.Position
		}
		if err := s.repo.UpsertBatch(ctx, tx, tenantID, req.ItemID, req.LocationID,
			*req.BatchNumber, position, nil, req.Quantity.Neg(), decimal.Zero); err != nil {
			return err
		}
	} else {
		remaining := req.Quantity
		batches, err := s.repo.FindBatchesForConsumption(ctx, tx, tenantID, req.ItemID, req.LocationID)
		if err != nil {
			return err
		}
		for _, batch := range batches {
			if !remaining.IsPositive() {
				break
			}
			take := decimal.Min(remaining, batch.Quantity)
			if err := s.repo.UpsertBatch(ctx, tx, tenantID, req.ItemID, req.LocationID,
				batch.BatchNumber, batch.Position, nil, take.Neg(), decimal.Zero); err != nil {
				return err
			}
			remaining = remaining.Sub(take)
		}
		// The level guard passed but the lots cannot cover the sale: the
		// ledger would no longer reconcile against the batches, so the whole
		// sale fails instead of draining lots short.
		if remaining.IsPositive() {
			metrics.InsufficientStockRejections.Inc()
			return &domain.InsufficientStockError{Requested: req.Quantity, Available: req.Quantity.Sub(remaining)}
		}
	}

	unitPrice := req.UnitPrice
	if err := s.repo.RecordMovement(ctx, tx, &domain.StockMovement{
		ID:              s.genID.Generate(),
		TenantID:        tenantID,
		ItemID:          req.ItemID,
		LocationID:      req.LocationID,
		QuantityChanged: quantityDelta,
		Reason:          domain.ReasonSale,
		Position:        &position,
		UnitPrice:       &unitPrice,
		Notes:           req.Notes,
		CreatedAt:       time.Now().UTC(),
	}); err != nil {
		return err
	}

	if err := s.repo.SyncItemCurrentStock(ctx, tx, tenantID, req.ItemID); err != nil {
		return err
	}

	metrics.StockMovements.WithLabelValues(string(domain.ReasonSale)).Inc()
	return nil
}

func (s *Service) ReserveStock(ctx context.Context, req domain.ReserveRequest) error {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.reserveStock(ctx, tx, tenantID, req)
	})
}

func (s *Service) ReserveStockTx(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, req domain.ReserveRequest) error {
	return s.reserveStock(ctx, tx, tenantID, req)
}

func (s *Service) reserveStock(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, req domain.ReserveRequest) error {
	if !req.Quantity.IsPositive() {
		return domain.ErrInvalidQuantity
	}

	level, err := s.repo.GetLevelForUpdate(ctx, tx, tenantID, req.ItemID, req.LocationID)
	if err != nil {
		return err
	}
	if level == nil {
		return domain.ErrLevelNotFound
	}

	available := level.Available()
	if available.LessThan(req.Quantity) {
		metrics.InsufficientStockRejections.Inc()
		return &domain.InsufficientStockError{Requested: req.Quantity, Available: available}
	}

	reservedDelta := req.Quantity
	_, err = s.repo.UpsertLevel(ctx, tx, tenantID, req.ItemID, req.LocationID,
		decimal.Zero, &reservedDelta, nil, nil, nil)
	return err
}

func (s *Service) ListLevels(ctx context.Context, locationID *snowflake.ID) ([]domain.InventoryLevel, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindLevels(ctx, s.db, tenantID, locationID)
}

func (s *Service) ListMovements(ctx context.Context, itemID, locationID *snowflake.ID) ([]domain.StockMovement, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindMovements(ctx, s.db, tenantID, itemID, locationID)
}

package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/smallbiznis/stokra/internal/catalog/domain"
	"github.com/smallbiznis/stokra/internal/clock"
	financedomain "github.com/smallbiznis/stokra/internal/finance/domain"
	inventorydomain "github.com/smallbiznis/stokra/internal/inventory/domain"
	locationdomain "github.com/smallbiznis/stokra/internal/location/domain"
	"github.com/smallbiznis/stokra/internal/observability/metrics"
	"github.com/smallbiznis/stokra/internal/order/domain"
	pipelinedomain "github.com/smallbiznis/stokra/internal/pipeline/domain"
	"github.com/smallbiznis/stokra/pkg/tenantctx"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	CatalogRepo  catalogdomain.Repository
	PipelineRepo pipelinedomain.Repository
	LocationRepo locationdomain.Repository
	Inventory    inventorydomain.Service
	Finance      financedomain.Service
}

// Service coordinates the order lifecycle. Stage transitions and their side
// effects (stock, receivables) commit or roll back as one unit.
type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	catalogRepo  catalogdomain.Repository
	pipelineRepo pipelinedomain.Repository
	locationRepo locationdomain.Repository
	inventory    inventorydomain.Service
	finance      financedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("order.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		catalogRepo:  p.CatalogRepo,
		pipelineRepo: p.PipelineRepo,
		locationRepo: p.LocationRepo,
		inventory:    p.Inventory,
		finance:      p.Finance,
	}
}

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	order := &domain.Order{
		ID:            s.genID.Generate(),
		TenantID:      tenantID,
		CustomerID:    req.CustomerID,
		PipelineID:    req.PipelineID,
		TotalAmount:   decimal.Zero,
		TotalDiscount: decimal.Zero,
		Notes:         req.Notes,
		OpenedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		entry, err := s.pipelineRepo.FindEntryStage(ctx, tx, tenantID, req.PipelineID)
		if err != nil {
			return err
		}
		if entry == nil {
			return pipelinedomain.ErrPipelineNotFound
		}
		order.StageID = entry.ID
		return s.repo.CreateOrder(ctx, tx, order)
	}); err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.Int64("order_id", int64(order.ID)),
		zap.Int64("display_id", order.DisplayID),
	)

	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID snowflake.ID) (*domain.OrderDetail, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrder(ctx, s.db, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListOrderItems(ctx, s.db, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	return &domain.OrderDetail{Order: *order, Items: items}, nil
}

func (s *Service) ListOrders(ctx context.Context, pipelineID *snowflake.ID) ([]domain.Order, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindOrders(ctx, s.db, tenantID, pipelineID)
}

func (s *Service) AddItem(ctx context.Context, orderID snowflake.ID, req domain.AddItemRequest) (*domain.OrderItem, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	if !req.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}

	var line *domain.OrderItem
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.repo.GetOrder(ctx, tx, tenantID, orderID); err != nil {
			return err
		}

		item, err := s.catalogRepo.FindItemByID(ctx, tx, tenantID, req.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return catalogdomain.ErrItemNotFound
		}

		// Snapshot catalog price and cost at insertion time.
		unitPrice := item.SalePrice
		if req.UnitPrice != nil {
			unitPrice = *req.UnitPrice
		}
		unitCost := decimal.Zero
		if item.CostPrice != nil {
			unitCost = *item.CostPrice
		}
		discount := decimal.Zero
		if req.Discount != nil {
			discount = *req.Discount
		}

		line = &domain.OrderItem{
			ID:        s.genID.Generate(),
			TenantID:  tenantID,
			OrderID:   orderID,
			ItemID:    req.ItemID,
			Quantity:  req.Quantity,
			UnitPrice: unitPrice,
			UnitCost:  unitCost,
			Discount:  discount,
			Notes:     req.Notes,
		}
		if err := s.repo.AddOrderItem(ctx, tx, line); err != nil {
			return err
		}

		return s.repo.RecalculateTotals(ctx, tx, tenantID, orderID)
	}); err != nil {
		return nil, err
	}

	return line, nil
}

func (s *Service) Transition(ctx context.Context, orderID snowflake.ID, req domain.TransitionRequest) (*domain.Order, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	var (
		order *domain.Order
		stage *pipelinedomain.PipelineStage
	)
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err = s.repo.GetOrder(ctx, tx, tenantID, orderID)
		if err != nil {
			return err
		}

		stage, err = s.pipelineRepo.FindStageByID(ctx, tx, tenantID, req.StageID)
		if err != nil {
			return err
		}
		if stage == nil {
			return pipelinedomain.ErrStageNotFound
		}

		if stage.StockAction != pipelinedomain.StockActionNone {
			// A deduct after a reserving stage consumes that reservation
			// instead of re-checking availability.
			current, err := s.pipelineRepo.FindStageByID(ctx, tx, tenantID, order.StageID)
			if err != nil {
				return err
			}
			consumeReservation := current != nil && current.StockAction == pipelinedomain.StockActionReserve

			if err := s.applyStockAction(ctx, tx, tenantID, order, stage, req.LocationID, consumeReservation); err != nil {
				return err
			}
		}

		if stage.GeneratesReceivable && order.TotalAmount.IsPositive() {
			if _, err := s.finance.CreateReceivableForOrder(ctx, tx, tenantID,
				order.ID, order.DisplayID, order.TotalAmount, order.CustomerID); err != nil {
				return err
			}
		}

		order.StageID = stage.ID
		if stage.Category.Terminal() {
			now := s.clock.Now()
			order.ClosedAt = &now
		} else {
			// Reopening a closed order clears its closure timestamp.
			order.ClosedAt = nil
		}

		return s.repo.UpdateOrderStage(ctx, tx, order)
	}); err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(string(stage.Category)).Inc()
	s.log.Info("order transitioned",
		zap.Int64("order_id", int64(order.ID)),
		zap.Int64("stage_id", int64(stage.ID)),
		zap.String("category", string(stage.Category)),
		zap.String("stock_action", string(stage.StockAction)),
	)

	return order, nil
}

// applyStockAction runs the stage's stock side effect for every order line
// inside the transition's transaction.
func (s *Service) applyStockAction(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID,
	order *domain.Order, stage *pipelinedomain.PipelineStage, locationID *snowflake.ID,
	consumeReservation bool) error {

	location, err := s.resolveLocation(ctx, tx, tenantID, locationID)
	if err != nil {
		return err
	}

	lines, err := s.repo.ListOrderItems(ctx, tx, tenantID, order.ID)
	if err != nil {
		return err
	}

	notes := fmt.Sprintf("Venda Pedido #%d", order.DisplayID)
	for _, line := range lines {
		switch stage.StockAction {
		case pipelinedomain.StockActionReserve:
			err = s.inventory.ReserveStockTx(ctx, tx, tenantID, inventorydomain.ReserveRequest{
				ItemID:     line.ItemID,
				LocationID: location,
				Quantity:   line.Quantity,
			})
		case pipelinedomain.StockActionDeduct:
			err = s.inventory.SellItemTx(ctx, tx, tenantID, inventorydomain.SellRequest{
				ItemID:             line.ItemID,
				LocationID:         location,
				Quantity:           line.Quantity,
				UnitPrice:          line.UnitPrice,
				ConsumeReservation: consumeReservation,
				Notes:              &notes,
			})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) resolveLocation(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID,
	explicit *snowflake.ID) (snowflake.ID, error) {

	if explicit != nil {
		return *explicit, nil
	}
	def, err := s.locationRepo.FindDefault(ctx, tx, tenantID)
	if err != nil {
		return 0, err
	}
	if def == nil {
		return 0, locationdomain.ErrNoLocation
	}
	return def.ID, nil
}

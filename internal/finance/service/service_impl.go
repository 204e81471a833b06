package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/stokra/internal/clock"
	"github.com/smallbiznis/stokra/internal/finance/domain"
	"github.com/smallbiznis/stokra/internal/observability/metrics"
	"github.com/smallbiznis/stokra/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("finance.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) CreateReceivableForOrder(ctx context.Context, tx *gorm.DB, tenantID, orderID snowflake.ID,
	displayID int64, amount decimal.Decimal, customerID *snowflake.ID) (*domain.FinancialTitle, error) {

	now := s.clock.Now()
	title := &domain.FinancialTitle{
		ID:          s.genID.Generate(),
		TenantID:    tenantID,
		Description: fmt.Sprintf("Venda Pedido #%d", displayID),
		Kind:        domain.KindReceivable,
		Amount:      amount,
		DueDate:     now.Truncate(24 * time.Hour),
		Status:      domain.StatusOpen,
		CustomerID:  customerID,
		OrderID:     &orderID,
		CreatedAt:   now,
	}
	if err := s.repo.CreateTitle(ctx, tx, title); err != nil {
		return nil, err
	}

	metrics.ReceivablesCreated.Inc()
	return title, nil
}

func (s *Service) ListTitles(ctx context.Context, kind *domain.TitleKind) ([]domain.FinancialTitle, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindTitles(ctx, s.db, tenantID, kind)
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/stokra/internal/catalog/domain"
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
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (*domain.Category, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:          s.genID.Generate(),
		TenantID:    tenantID,
		ParentID:    req.ParentID,
		Name:        name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateCategory(ctx, s.db, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) CreateUnit(ctx context.Context, req domain.CreateUnitRequest) (*domain.UnitOfMeasure, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	symbol := strings.TrimSpace(req.Symbol)
	if name == "" || symbol == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	unit := &domain.UnitOfMeasure{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Name:      name,
		Symbol:    symbol,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateUnit(ctx, s.db, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *Service) GetItem(ctx context.Context, itemID snowflake.ID) (*domain.Item, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindItemByID(ctx, s.db, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (s *Service) ListItems(ctx context.Context) ([]domain.Item, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAllItems(ctx, s.db, tenantID)
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAllCategories(ctx, s.db, tenantID)
}

func (s *Service) ListUnits(ctx context.Context) ([]domain.UnitOfMeasure, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAllUnits(ctx, s.db, tenantID)
}

func (s *Service) AddComposition(ctx context.Context, req domain.AddCompositionRequest) error {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return err
	}

	// Direct self-reference is the only cycle check; deeper cycles are not
	// validated here.
	if req.ParentItemID == req.ChildItemID {
		return domain.ErrSelfComposition
	}
	if !req.Quantity.IsPositive() {
		return domain.ErrInvalidQuantity
	}

	compType := req.Type
	if compType == "" {
		compType = domain.CompositionComponent
	}

	edge := &domain.CompositionEdge{
		ID:           s.genID.Generate(),
		TenantID:     tenantID,
		ParentItemID: req.ParentItemID,
		ChildItemID:  req.ChildItemID,
		Quantity:     req.Quantity,
		Type:         compType,
		CreatedAt:    time.Now().UTC(),
	}
	return s.repo.AddCompositionEdge(ctx, s.db, edge)
}

func (s *Service) RemoveComposition(ctx context.Context, parentID, childID snowflake.ID) error {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return err
	}
	return s.repo.RemoveCompositionEdge(ctx, s.db, tenantID, parentID, childID)
}

func (s *Service) GetComposition(ctx context.Context, parentID snowflake.ID) ([]domain.CompositionEntry, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindComposition(ctx, s.db, tenantID, parentID)
}

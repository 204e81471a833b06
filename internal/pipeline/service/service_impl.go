package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/stokra/internal/pipeline/domain"
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
		log:   p.Log.Named("pipeline.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) CreatePipeline(ctx context.Context, name string, isDefault bool) (*domain.Pipeline, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	pipeline := &domain.Pipeline{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Name:      name,
		IsDefault: isDefault,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreatePipeline(ctx, s.db, pipeline); err != nil {
		return nil, err
	}
	return pipeline, nil
}

func (s *Service) AddStage(ctx context.Context, req domain.AddStageRequest) (*domain.PipelineStage, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	switch req.Category {
	case domain.CategoryDraft, domain.CategoryActive, domain.CategoryDone, domain.CategoryCancelled:
	default:
		return nil, domain.ErrInvalidCategory
	}

	stockAction := req.StockAction
	if stockAction == "" {
		stockAction = domain.StockActionNone
	}

	stage := &domain.PipelineStage{
		ID:                  s.genID.Generate(),
		TenantID:            tenantID,
		PipelineID:          req.PipelineID,
		Name:                name,
		Category:            req.Category,
		Position:            req.Position,
		Color:               req.Color,
		StockAction:         stockAction,
		GeneratesReceivable: req.GeneratesReceivable,
		IsLocked:            req.IsLocked,
	}
	if err := s.repo.CreateStage(ctx, s.db, stage); err != nil {
		return nil, err
	}
	return stage, nil
}

func (s *Service) ListPipelines(ctx context.Context) ([]domain.Pipeline, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAllPipelines(ctx, s.db, tenantID)
}

func (s *Service) ListStages(ctx context.Context, pipelineID snowflake.ID) ([]domain.PipelineStage, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindStages(ctx, s.db, tenantID, pipelineID)
}

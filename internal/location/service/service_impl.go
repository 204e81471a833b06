package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/stokra/internal/location/domain"
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
		log:   p.Log.Named("location.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, name string, isDefault bool) (*domain.Location, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	location := &domain.Location{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Name:      name,
		IsDefault: isDefault,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, s.db, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Location, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAll(ctx, s.db, tenantID)
}

func (s *Service) Default(ctx context.Context) (*domain.Location, error) {
	tenantID, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	location, err := s.repo.FindDefault(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNoLocation
	}
	return location, nil
}

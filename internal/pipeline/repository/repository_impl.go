package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/stokra/internal/pipeline/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreatePipeline(ctx context.Context, tx *gorm.DB, pipeline *domain.Pipeline) error {
	return tx.WithContext(ctx).Create(pipeline).Error
}

func (r *repo) FindAllPipelines(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) ([]domain.Pipeline, error) {
	var pipelines []domain.Pipeline
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM pipelines WHERE tenant_id = ? ORDER BY created_at ASC`,
		tenantID,
	).Scan(&pipelines).Error
	if err != nil {
		return nil, err
	}
	return pipelines, nil
}

func (r *repo) CreateStage(ctx context.Context, tx *gorm.DB, stage *domain.PipelineStage) error {
	return tx.WithContext(ctx).Create(stage).Error
}

func (r *repo) FindStageByID(ctx context.Context, tx *gorm.DB, tenantID, stageID snowflake.ID) (*domain.PipelineStage, error) {
	var stage domain.PipelineStage
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM pipeline_stages WHERE tenant_id = ? AND id = ?`,
		tenantID,
		stageID,
	).Scan(&stage).Error
	if err != nil {
		return nil, err
	}
	if stage.ID == 0 {
		return nil, nil
	}
	return &stage, nil
}

func (r *repo) FindStages(ctx context.Context, tx *gorm.DB, tenantID, pipelineID snowflake.ID) ([]domain.PipelineStage, error) {
	var stages []domain.PipelineStage
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM pipeline_stages
		 WHERE tenant_id = ? AND pipeline_id = ?
		 ORDER BY position ASC`,
		tenantID,
		pipelineID,
	).Scan(&stages).Error
	if err != nil {
		return nil, err
	}
	return stages, nil
}

func (r *repo) FindEntryStage(ctx context.Context, tx *gorm.DB, tenantID, pipelineID snowflake.ID) (*domain.PipelineStage, error) {
	var stage domain.PipelineStage
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM pipeline_stages
		 WHERE tenant_id = ? AND pipeline_id = ?
		 ORDER BY position ASC
		 LIMIT 1`,
		tenantID,
		pipelineID,
	).Scan(&stage).Error
	if err != nil {
		return nil, err
	}
	if stage.ID == 0 {
		return nil, nil
	}
	return &stage, nil
}

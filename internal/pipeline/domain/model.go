package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type StageCategory string

const (
	CategoryDraft     StageCategory = "DRAFT"
	CategoryActive    StageCategory = "ACTIVE"
	CategoryDone      StageCategory = "DONE"
	CategoryCancelled StageCategory = "CANCELLED"
)

// Terminal reports whether orders landing on this category are closed.
func (c StageCategory) Terminal() bool {
	return c == CategoryDone || c == CategoryCancelled
}

type StockAction string

const (
	StockActionNone    StockAction = "NONE"
	StockActionReserve StockAction = "RESERVE"
	StockActionDeduct  StockAction = "DEDUCT"
)

type Pipeline struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID  snowflake.ID `json:"-" gorm:"not null;index"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	IsDefault bool         `json:"isDefault" gorm:"not null;default:false"`
	CreatedAt time.Time    `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Pipeline) TableName() string { return "pipelines" }

// PipelineStage configures one workflow step. Stages form an unrestricted
// transition graph: any stage may be the target from any other.
type PipelineStage struct {
	ID                  snowflake.ID  `json:"id" gorm:"primaryKey"`
	TenantID            snowflake.ID  `json:"-" gorm:"not null;index"`
	PipelineID          snowflake.ID  `json:"pipelineId" gorm:"not null;index"`
	Name                string        `json:"name" gorm:"type:text;not null"`
	Category            StageCategory `json:"category" gorm:"type:text;not null"`
	Position            int           `json:"position" gorm:"not null"`
	Color               *string       `json:"color,omitempty" gorm:"type:text"`
	StockAction         StockAction   `json:"stockAction" gorm:"type:text;not null;default:'NONE'"`
	GeneratesReceivable bool          `json:"generatesReceivable" gorm:"not null;default:false"`
	IsLocked            bool          `json:"isLocked" gorm:"not null;default:false"`
}

func (PipelineStage) TableName() string { return "pipeline_stages" }

var (
	ErrPipelineNotFound = errors.New("pipeline_not_found")
	ErrStageNotFound    = errors.New("stage_not_found")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidCategory  = errors.New("invalid_category")
)

type Repository interface {
	CreatePipeline(ctx context.Context, tx *gorm.DB, pipeline *Pipeline) error
	FindAllPipelines(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) ([]Pipeline, error)

	CreateStage(ctx context.Context, tx *gorm.DB, stage *PipelineStage) error
	FindStageByID(ctx context.Context, tx *gorm.DB, tenantID, stageID snowflake.ID) (*PipelineStage, error)
	FindStages(ctx context.Context, tx *gorm.DB, tenantID, pipelineID snowflake.ID) ([]PipelineStage, error)
	// FindEntryStage returns the stage with the lowest position in the
	// pipeline (the default initial stage for new orders).
	FindEntryStage(ctx context.Context, tx *gorm.DB, tenantID, pipelineID snowflake.ID) (*PipelineStage, error)
}

type Service interface {
	CreatePipeline(ctx context.Context, name string, isDefault bool) (*Pipeline, error)
	AddStage(ctx context.Context, req AddStageRequest) (*PipelineStage, error)
	ListPipelines(ctx context.Context) ([]Pipeline, error)
	ListStages(ctx context.Context, pipelineID snowflake.ID) ([]PipelineStage, error)
}

type AddStageRequest struct {
	PipelineID          snowflake.ID  `json:"pipelineId"`
	Name                string        `json:"name"`
	Category            StageCategory `json:"category"`
	Position            int           `json:"position"`
	Color               *string       `json:"color"`
	StockAction         StockAction   `json:"stockAction"`
	GeneratesReceivable bool          `json:"generatesReceivable"`
	IsLocked            bool          `json:"isLocked"`
}

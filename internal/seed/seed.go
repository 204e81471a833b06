package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	locationdomain "github.com/smallbiznis/stokra/internal/location/domain"
	pipelinedomain "github.com/smallbiznis/stokra/internal/pipeline/domain"
)

const (
	defaultLocationName = "Principal"
	defaultPipelineName = "Vendas"
)

// EnsureTenantDefaults seeds the stock location and sales pipeline a tenant
// needs before it can take orders. Safe to run on every startup.
func EnsureTenantDefaults(db *gorm.DB, tenantID snowflake.ID) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if tenantID == 0 {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureDefaultLocation(ctx, tx, node, tenantID); err != nil {
			return err
		}
		return ensureDefaultPipeline(ctx, tx, node, tenantID)
	})
}

func ensureDefaultLocation(ctx context.Context, tx *gorm.DB, node *snowflake.Node, tenantID snowflake.ID) error {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&locationdomain.Location{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return tx.WithContext(ctx).Create(&locationdomain.Location{
		ID:        node.Generate(),
		TenantID:  tenantID,
		Name:      defaultLocationName,
		IsDefault: true,
		CreatedAt: time.Now().UTC(),
	}).Error
}

func ensureDefaultPipeline(ctx context.Context, tx *gorm.DB, node *snowflake.Node, tenantID snowflake.ID) error {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&pipelinedomain.Pipeline{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	pipeline := &pipelinedomain.Pipeline{
		ID:        node.Generate(),
		TenantID:  tenantID,
		Name:      defaultPipelineName,
		IsDefault: true,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(pipeline).Error; err != nil {
		return err
	}

	stages := []pipelinedomain.PipelineStage{
		{
			Name:        "Orçamento",
			Category:    pipelinedomain.CategoryDraft,
			Position:    1,
			StockAction: pipelinedomain.StockActionNone,
		},
		{
			Name:        "Em Andamento",
			Category:    pipelinedomain.CategoryActive,
			Position:    2,
			StockAction: pipelinedomain.StockActionReserve,
		},
		{
			Name:                "Concluído",
			Category:            pipelinedomain.CategoryDone,
			Position:            3,
			StockAction:         pipelinedomain.StockActionDeduct,
			GeneratesReceivable: true,
		},
		{
			Name:        "Cancelado",
			Category:    pipelinedomain.CategoryCancelled,
			Position:    4,
			StockAction: pipelinedomain.StockActionNone,
		},
	}
	for i := range stages {
		stages[i].ID = node.Generate()
		stages[i].TenantID = tenantID
		stages[i].PipelineID = pipeline.ID
		if err := tx.WithContext(ctx).Create(&stages[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// CreateOrder allocates the next per-tenant display id atomically with
	// the insert.
	CreateOrder(ctx context.Context, tx *gorm.DB, order *Order) error
	GetOrder(ctx context.Context, tx *gorm.DB, tenantID, orderID snowflake.ID) (*Order, error)
	FindOrders(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, pipelineID *snowflake.ID) ([]Order, error)
	AddOrderItem(ctx context.Context, tx *gorm.DB, item *OrderItem) error
	ListOrderItems(ctx context.Context, tx *gorm.DB, tenantID, orderID snowflake.ID) ([]OrderItem, error)
	// RecalculateTotals refreshes the cached header totals from the lines.
	RecalculateTotals(ctx context.Context, tx *gorm.DB, tenantID, orderID snowflake.ID) error
	UpdateOrderStage(ctx context.Context, tx *gorm.DB, order *Order) error
}

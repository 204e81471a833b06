package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/stokra/internal/order/domain"
)

type repo struct{}

func Provide() domain.Repository { return &repo{} }

func (r *repo) CreateOrder(ctx context.Context, tx *gorm.DB, order *domain.Order) error {
	// Next display id for the tenant. Runs inside the caller's transaction
	// so the read and the insert are atomic.
	if err := tx.WithContext(ctx).Raw(`
	SELECT COALESCE(MAX(display_id), 0) + 1
	FROM orders
	WHERE tenant_id = ?
	`, order.TenantID).Scan(&order.DisplayID).Error; err != nil {
		return err
	}

	return tx.WithContext(ctx).Create(order).Error
}

func (r *repo) GetOrder(ctx context.Context, tx *gorm.DB, tenantID, orderID snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := tx.WithContext(ctx).Raw(`
	SELECT *
	FROM orders
	WHERE tenant_id = ? AND id = ?
	`, tenantID, orderID).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

func (r *repo) FindOrders(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, pipelineID *snowflake.ID) ([]domain.Order, error) {
	q := tx.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if pipelineID != nil {
		q = q.Where("pipeline_id = ?", *pipelineID)
	}

	var orders []domain.Order
	if err := q.Order("opened_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) AddOrderItem(ctx context.Context, tx *gorm.DB, item *domain.OrderItem) error {
	return tx.WithContext(ctx).Create(item).Error
}

func (r *repo) ListOrderItems(ctx context.Context, tx *gorm.DB, tenantID, orderID snowflake.ID) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := tx.WithContext(ctx).Raw(`
	SELECT *
	FROM order_items
	WHERE tenant_id = ? AND order_id = ?
	ORDER BY id ASC
	`, tenantID, orderID).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) RecalculateTotals(ctx context.Context, tx *gorm.DB, tenantID, orderID snowflake.ID) error {
	return tx.WithContext(ctx).Exec(`
	UPDATE orders SET
		total_amount = COALESCE((
			SELECT SUM(quantity * unit_price - discount)
			FROM order_items
			WHERE tenant_id = ? AND order_id = ?
		), 0),
		total_discount = COALESCE((
			SELECT SUM(discount)
			FROM order_items
			WHERE tenant_id = ? AND order_id = ?
		), 0),
		updated_at = CURRENT_TIMESTAMP
	WHERE tenant_id = ? AND id = ?
	`, tenantID, orderID, tenantID, orderID, tenantID, orderID).Error
}

func (r *repo) UpdateOrderStage(ctx context.Context, tx *gorm.DB, order *domain.Order) error {
	return tx.WithContext(ctx).Exec(`
	UPDATE orders SET
		stage_id = ?,
		closed_at = ?,
		updated_at = CURRENT_TIMESTAMP
	WHERE tenant_id = ? AND id = ?
	`, order.StageID, order.ClosedAt, order.TenantID, order.ID).Error
}

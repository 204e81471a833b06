package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	PipelineID snowflake.ID  `json:"pipelineId" binding:"required"`
	CustomerID *snowflake.ID `json:"customerId,omitempty"`
	Notes      *string       `json:"notes,omitempty"`
}

type AddItemRequest struct {
	ItemID    snowflake.ID     `json:"itemId" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	// UnitPrice overrides the catalog sale price when set.
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
}

type TransitionRequest struct {
	StageID snowflake.ID `json:"stageId" binding:"required"`
	// LocationID scopes the stock side effects; when absent the tenant
	// default location is used.
	LocationID *snowflake.ID `json:"locationId,omitempty"`
}

type Service interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	GetOrder(ctx context.Context, orderID snowflake.ID) (*OrderDetail, error)
	ListOrders(ctx context.Context, pipelineID *snowflake.ID) ([]Order, error)
	AddItem(ctx context.Context, orderID snowflake.ID, req AddItemRequest) (*OrderItem, error)
	// Transition moves the order to another stage and runs that stage's
	// side effects (stock reservation or deduction, receivable emission)
	// in a single transaction.
	Transition(ctx context.Context, orderID snowflake.ID, req TransitionRequest) (*Order, error)
}

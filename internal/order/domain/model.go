package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID         snowflake.ID  `json:"id" gorm:"primaryKey"`
	TenantID   snowflake.ID  `json:"-" gorm:"not null;index"`
	CustomerID *snowflake.ID `json:"customerId,omitempty"`

	// Workflow cursor.
	PipelineID snowflake.ID `json:"pipelineId" gorm:"not null"`
	StageID    snowflake.ID `json:"stageId" gorm:"not null"`

	DisplayID int64 `json:"displayId" gorm:"not null"`

	// Cached; recomputed from the lines inside the same transaction that
	// mutates them.
	TotalAmount   decimal.Decimal `json:"totalAmount" gorm:"type:decimal(20,4);not null;default:0"`
	TotalDiscount decimal.Decimal `json:"totalDiscount" gorm:"type:decimal(20,4);not null;default:0"`

	Notes *string `json:"notes,omitempty" gorm:"type:text"`

	OpenedAt  time.Time  `json:"openedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time  `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is a price/cost snapshot taken at insertion time; later catalog
// price changes do not touch it.
type OrderItem struct {
	ID       snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID snowflake.ID `json:"-" gorm:"not null;index"`
	OrderID  snowflake.ID `json:"orderId" gorm:"not null;index"`
	ItemID   snowflake.ID `json:"itemId" gorm:"not null"`

	Quantity  decimal.Decimal `json:"quantity" gorm:"type:decimal(20,4);not null"`
	UnitPrice decimal.Decimal `json:"unitPrice" gorm:"type:decimal(20,4);not null"`
	UnitCost  decimal.Decimal `json:"unitCost" gorm:"type:decimal(20,4);not null"`
	Discount  decimal.Decimal `json:"discount" gorm:"type:decimal(20,4);not null;default:0"`

	Notes *string `json:"notes,omitempty" gorm:"type:text"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderDetail bundles the header with its lines for read endpoints.
type OrderDetail struct {
	Order
	Items []OrderItem `json:"items"`
}

var (
	ErrOrderNotFound   = errors.New("order_not_found")
	ErrInvalidQuantity = errors.New("invalid_quantity")
)

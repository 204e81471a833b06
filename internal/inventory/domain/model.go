package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// DefaultBatchNumber and DefaultPosition name the pseudo-batch used when the
// caller supplies no lot identity.
const (
	DefaultBatchNumber = "DEFAULT"
	DefaultPosition    = "Geral"

	// FIFOPosition labels the aggregated movement written when a sale
	// drains more than one batch.
	FIFOPosition = "Vários/FIFO"
)

type StockMovementReason string

const (
	ReasonInitialStock StockMovementReason = "INITIAL_STOCK"
	ReasonPurchase     StockMovementReason = "PURCHASE"
	ReasonSale         StockMovementReason = "SALE"
	ReasonReturn       StockMovementReason = "RETURN"
	ReasonDelivery     StockMovementReason = "DELIVERY"
	ReasonSpoilage     StockMovementReason = "SPOILAGE"
	ReasonCorrection   StockMovementReason = "CORRECTION"
	ReasonTransferOut  StockMovementReason = "TRANSFER_OUT"
	ReasonTransferIn   StockMovementReason = "TRANSFER_IN"
)

// InventoryLevel is the authoritative balance for one (tenant, item,
// location). available = quantity - reserved_quantity.
type InventoryLevel struct {
	ID                snowflake.ID     `json:"id" gorm:"primaryKey"`
	TenantID          snowflake.ID     `json:"-" gorm:"not null;uniqueIndex:ux_levels_tenant_item_location,priority:1"`
	ItemID            snowflake.ID     `json:"itemId" gorm:"not null;uniqueIndex:ux_levels_tenant_item_location,priority:2"`
	LocationID        snowflake.ID     `json:"locationId" gorm:"not null;uniqueIndex:ux_levels_tenant_item_location,priority:3"`
	Quantity          decimal.Decimal  `json:"quantity" gorm:"type:decimal(20,4);not null;default:0"`
	ReservedQuantity  decimal.Decimal  `json:"reservedQuantity" gorm:"type:decimal(20,4);not null;default:0"`
	SalePrice         *decimal.Decimal `json:"salePrice,omitempty" gorm:"type:decimal(20,4)"`
	AverageCost       decimal.Decimal  `json:"averageCost" gorm:"type:decimal(20,4);not null;default:0"`
	LowStockThreshold decimal.Decimal  `json:"lowStockThreshold" gorm:"type:decimal(20,4);not null;default:0"`
	UpdatedAt         time.Time        `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (InventoryLevel) TableName() string { return "inventory_levels" }

func (l InventoryLevel) Available() decimal.Decimal {
	return l.Quantity.Sub(l.ReservedQuantity)
}

type InventoryBatch struct {
	ID             snowflake.ID    `json:"id" gorm:"primaryKey"`
	TenantID       snowflake.ID    `json:"-" gorm:"not null;uniqueIndex:ux_batches_identity,priority:1"`
	ItemID         snowflake.ID    `json:"itemId" gorm:"not null;uniqueIndex:ux_batches_identity,priority:2"`
	LocationID     snowflake.ID    `json:"locationId" gorm:"not null;uniqueIndex:ux_batches_identity,priority:3"`
	BatchNumber    string          `json:"batchNumber" gorm:"type:text;not null;uniqueIndex:ux_batches_identity,priority:4"`
	Position       string          `json:"position" gorm:"type:text;not null;uniqueIndex:ux_batches_identity,priority:5"`
	ExpirationDate *time.Time      `json:"expirationDate,omitempty" gorm:"type:date"`
	Quantity       decimal.Decimal `json:"quantity" gorm:"type:decimal(20,4);not null;default:0"`
	UnitCost       decimal.Decimal `json:"unitCost" gorm:"type:decimal(20,4);not null;default:0"`
	CreatedAt      time.Time       `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time       `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (InventoryBatch) TableName() string { return "inventory_batches" }

// StockMovement is the append-only ledger row. Rows are never updated or
// deleted; sum(quantity_changed) per (item, location) must equal the level.
type StockMovement struct {
	ID              snowflake.ID        `json:"id" gorm:"primaryKey"`
	TenantID        snowflake.ID        `json:"-" gorm:"not null;index:ix_movements_tenant_item"`
	ItemID          snowflake.ID        `json:"itemId" gorm:"not null;index:ix_movements_tenant_item"`
	LocationID      snowflake.ID        `json:"locationId" gorm:"not null"`
	QuantityChanged decimal.Decimal     `json:"quantityChanged" gorm:"type:decimal(20,4);not null"`
	Reason          StockMovementReason `json:"reason" gorm:"type:text;not null"`
	Position        *string             `json:"position,omitempty" gorm:"type:text"`
	UnitCost        *decimal.Decimal    `json:"unitCost,omitempty" gorm:"type:decimal(20,4)"`
	UnitPrice       *decimal.Decimal    `json:"unitPrice,omitempty" gorm:"type:decimal(20,4)"`
	Notes           *string             `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time           `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (StockMovement) TableName() string { return "stock_movements" }

// NewAverageCost blends the incoming cost into the running weighted average.
// Zero when the resulting quantity is not positive.
func NewAverageCost(currentQty, currentAvg, incomingQty, incomingCost decimal.Decimal) decimal.Decimal {
	newTotalQty := currentQty.Add(incomingQty)
	if !newTotalQty.IsPositive() {
		return decimal.Zero
	}
	totalValue := currentQty.Mul(currentAvg).Add(incomingQty.Mul(incomingCost))
	return totalValue.Div(newTotalQty)
}

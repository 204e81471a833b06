package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ItemKind string

const (
	ItemKindProduct  ItemKind = "PRODUCT"
	ItemKindService  ItemKind = "SERVICE"
	ItemKindResource ItemKind = "RESOURCE"
	ItemKindBundle   ItemKind = "BUNDLE"
)

type CompositionType string

const (
	CompositionComponent  CompositionType = "COMPONENT"
	CompositionAccessory  CompositionType = "ACCESSORY"
	CompositionSubstitute CompositionType = "SUBSTITUTE"
)

type Item struct {
	ID          snowflake.ID      `json:"id" gorm:"primaryKey"`
	TenantID    snowflake.ID      `json:"-" gorm:"column:tenant_id;not null;uniqueIndex:ux_items_tenant_sku,priority:1"`
	SKU         string            `json:"sku" gorm:"column:sku;type:text;not null;uniqueIndex:ux_items_tenant_sku,priority:2"`
	Name        string            `json:"name" gorm:"type:text;not null"`
	Description *string           `json:"description,omitempty" gorm:"type:text"`
	Kind        ItemKind          `json:"kind" gorm:"type:text;not null"`
	Settings    datatypes.JSONMap `json:"settings,omitempty" gorm:"type:jsonb"`
	UnitID      snowflake.ID      `json:"unitId" gorm:"not null"`
	CategoryID  *snowflake.ID     `json:"categoryId,omitempty"`
	CostPrice   *decimal.Decimal  `json:"costPrice,omitempty" gorm:"type:decimal(20,4)"`
	SalePrice   decimal.Decimal   `json:"salePrice" gorm:"type:decimal(20,4);not null"`

	// Display cache only; inventory_levels is the authority.
	CurrentStock decimal.Decimal  `json:"currentStock" gorm:"type:decimal(20,4);not null;default:0"`
	MinStock     *decimal.Decimal `json:"minStock,omitempty" gorm:"type:decimal(20,4)"`

	CreatedAt time.Time `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Item) TableName() string { return "items" }

type Category struct {
	ID          snowflake.ID  `json:"id" gorm:"primaryKey"`
	TenantID    snowflake.ID  `json:"-" gorm:"not null;uniqueIndex:ux_categories_tenant_name,priority:1"`
	ParentID    *snowflake.ID `json:"parentId,omitempty"`
	Name        string        `json:"name" gorm:"type:text;not null;uniqueIndex:ux_categories_tenant_name,priority:2"`
	Description *string       `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time     `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Category) TableName() string { return "categories" }

type UnitOfMeasure struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID  snowflake.ID `json:"-" gorm:"not null;uniqueIndex:ux_units_tenant_name,priority:1;uniqueIndex:ux_units_tenant_symbol,priority:1"`
	Name      string       `json:"name" gorm:"type:text;not null;uniqueIndex:ux_units_tenant_name,priority:2"`
	Symbol    string       `json:"symbol" gorm:"type:text;not null;uniqueIndex:ux_units_tenant_symbol,priority:2"`
	CreatedAt time.Time    `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (UnitOfMeasure) TableName() string { return "units_of_measure" }

type CompositionEdge struct {
	ID           snowflake.ID    `json:"id" gorm:"primaryKey"`
	TenantID     snowflake.ID    `json:"-" gorm:"not null;uniqueIndex:ux_composition_edge,priority:1"`
	ParentItemID snowflake.ID    `json:"parentItemId" gorm:"not null;uniqueIndex:ux_composition_edge,priority:2"`
	ChildItemID  snowflake.ID    `json:"childItemId" gorm:"not null;uniqueIndex:ux_composition_edge,priority:3"`
	Quantity     decimal.Decimal `json:"quantity" gorm:"type:decimal(20,4);not null"`
	Type         CompositionType `json:"type" gorm:"type:text;not null"`
	CreatedAt    time.Time       `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CompositionEdge) TableName() string { return "composition_edges" }

// CompositionEntry is the joined view returned when reading a parent's BOM.
type CompositionEntry struct {
	ID          snowflake.ID    `json:"id"`
	ChildItemID snowflake.ID    `json:"childItemId"`
	ChildSKU    string          `json:"childSku"`
	ChildName   string          `json:"childName"`
	ChildUnit   string          `json:"childUnit"`
	Quantity    decimal.Decimal `json:"quantity"`
	Type        CompositionType `json:"type"`
}

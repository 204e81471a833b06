package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository methods take the transaction handle explicitly so callers that
// need atomicity across domains open one transaction and pass it through.
type Repository interface {
	CreateItem(ctx context.Context, tx *gorm.DB, item *Item) error
	FindItemByID(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID) (*Item, error)
	FindAllItems(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) ([]Item, error)

	CreateCategory(ctx context.Context, tx *gorm.DB, category *Category) error
	FindAllCategories(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) ([]Category, error)

	CreateUnit(ctx context.Context, tx *gorm.DB, unit *UnitOfMeasure) error
	FindAllUnits(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) ([]UnitOfMeasure, error)

	AddCompositionEdge(ctx context.Context, tx *gorm.DB, edge *CompositionEdge) error
	RemoveCompositionEdge(ctx context.Context, tx *gorm.DB, tenantID, parentID, childID snowflake.ID) error
	FindComposition(ctx context.Context, tx *gorm.DB, tenantID, parentID snowflake.ID) ([]CompositionEntry, error)
}

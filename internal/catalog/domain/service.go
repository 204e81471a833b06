package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Service interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	CreateUnit(ctx context.Context, req CreateUnitRequest) (*UnitOfMeasure, error)
	GetItem(ctx context.Context, itemID snowflake.ID) (*Item, error)
	ListItems(ctx context.Context) ([]Item, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListUnits(ctx context.Context) ([]UnitOfMeasure, error)

	AddComposition(ctx context.Context, req AddCompositionRequest) error
	RemoveComposition(ctx context.Context, parentID, childID snowflake.ID) error
	GetComposition(ctx context.Context, parentID snowflake.ID) ([]CompositionEntry, error)
}

type CreateCategoryRequest struct {
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	ParentID    *snowflake.ID `json:"parentId"`
}

type CreateUnitRequest struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type AddCompositionRequest struct {
	ParentItemID snowflake.ID    `json:"parentItemId"`
	ChildItemID  snowflake.ID    `json:"childItemId"`
	Quantity     decimal.Decimal `json:"quantity"`
	Type         CompositionType `json:"type"`
}

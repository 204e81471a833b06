package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/stokra/internal/catalog/domain"
	"github.com/smallbiznis/stokra/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateItem(ctx context.Context, tx *gorm.DB, item *domain.Item) error {
	if err := tx.WithContext(ctx).Create(item).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return &domain.DuplicateSKUError{SKU: item.SKU}
		}
		return err
	}
	return nil
}

func (r *repo) FindItemByID(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID) (*domain.Item, error) {
	var item domain.Item
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM items WHERE tenant_id = ? AND id = ?`,
		tenantID,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindAllItems(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) ([]domain.Item, error) {
	var items []domain.Item
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM items WHERE tenant_id = ? ORDER BY name ASC`,
		tenantID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CreateCategory(ctx context.Context, tx *gorm.DB, category *domain.Category) error {
	if err := tx.WithContext(ctx).Create(category).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return &domain.DuplicateCategoryNameError{Name: category.Name}
		}
		return err
	}
	return nil
}

func (r *repo) FindAllCategories(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) ([]domain.Category, error) {
	var categories []domain.Category
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM categories WHERE tenant_id = ? ORDER BY name ASC`,
		tenantID,
	).Scan(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repo) CreateUnit(ctx context.Context, tx *gorm.DB, unit *domain.UnitOfMeasure) error {
	if err := tx.WithContext(ctx).Create(unit).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			if strings.Contains(db.DuplicateConstraint(err), "symbol") {
				return &domain.DuplicateUnitError{Symbol: unit.Symbol}
			}
			return &domain.DuplicateUnitError{Name: unit.Name}
		}
		return err
	}
	return nil
}

func (r *repo) FindAllUnits(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) ([]domain.UnitOfMeasure, error) {
	var units []domain.UnitOfMeasure
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM units_of_measure WHERE tenant_id = ? ORDER BY name ASC`,
		tenantID,
	).Scan(&units).Error
	if err != nil {
		return nil, err
	}
	return units, nil
}

func (r *repo) AddCompositionEdge(ctx context.Context, tx *gorm.DB, edge *domain.CompositionEdge) error {
	return tx.WithContext(ctx).Create(edge).Error
}

func (r *repo) RemoveCompositionEdge(ctx context.Context, tx *gorm.DB, tenantID, parentID, childID snowflake.ID) error {
	return tx.WithContext(ctx).Exec(
		`DELETE FROM composition_edges WHERE tenant_id = ? AND parent_item_id = ? AND child_item_id = ?`,
		tenantID,
		parentID,
		childID,
	).Error
}

func (r *repo) FindComposition(ctx context.Context, tx *gorm.DB, tenantID, parentID snowflake.ID) ([]domain.CompositionEntry, error) {
	var entries []domain.CompositionEntry
	err := tx.WithContext(ctx).Raw(
		`SELECT
		    ce.id,
		    ce.child_item_id,
		    i.sku AS child_sku,
		    i.name AS child_name,
		    u.symbol AS child_unit,
		    ce.quantity,
		    ce.type
		 FROM composition_edges ce
		 JOIN items i ON i.id = ce.child_item_id
		 JOIN units_of_measure u ON u.id = i.unit_id
		 WHERE ce.tenant_id = ? AND ce.parent_item_id = ?
		 ORDER BY i.name ASC`,
		tenantID,
		parentID,
	).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

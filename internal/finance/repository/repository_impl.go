package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/stokra/internal/finance/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateTitle(ctx context.Context, tx *gorm.DB, title *domain.FinancialTitle) error {
	return tx.WithContext(ctx).Create(title).Error
}

func (r *repo) FindTitles(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, kind *domain.TitleKind) ([]domain.FinancialTitle, error) {
	var titles []domain.FinancialTitle
	stmt := tx.WithContext(ctx).
		Model(&domain.FinancialTitle{}).
		Where("tenant_id = ?", tenantID)
	if kind != nil {
		stmt = stmt.Where("kind = ?", *kind)
	}
	if err := stmt.Order("due_date ASC, id ASC").Find(&titles).Error; err != nil {
		return nil, err
	}
	return titles, nil
}

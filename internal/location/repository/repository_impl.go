package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/stokra/internal/location/domain"
	"github.com/smallbiznis/stokra/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, tx *gorm.DB, location *domain.Location) error {
	if err := tx.WithContext(ctx).Create(location).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return &domain.DuplicateLocationNameError{Name: location.Name}
		}
		return err
	}
	return nil
}

func (r *repo) FindAll(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) ([]domain.Location, error) {
	var locations []domain.Location
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM locations WHERE tenant_id = ? ORDER BY name ASC`,
		tenantID,
	).Scan(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *repo) FindDefault(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) (*domain.Location, error) {
	var location domain.Location
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM locations
		 WHERE tenant_id = ?
		 ORDER BY is_default DESC, created_at ASC
		 LIMIT 1`,
		tenantID,
	).Scan(&location).Error
	if err != nil {
		return nil, err
	}
	if location.ID == 0 {
		return nil, nil
	}
	return &location, nil
}

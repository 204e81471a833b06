package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Location struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID  snowflake.ID `json:"-" gorm:"not null;uniqueIndex:ux_locations_tenant_name,priority:1"`
	Name      string       `json:"name" gorm:"type:text;not null;uniqueIndex:ux_locations_tenant_name,priority:2"`
	IsDefault bool         `json:"isDefault" gorm:"not null;default:false"`
	CreatedAt time.Time    `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Location) TableName() string { return "locations" }

// ErrNoLocation is returned by the resolver when the tenant has no location
// to fulfil stock operations from.
var ErrNoLocation = errors.New("no_location_for_tenant")

var ErrInvalidName = errors.New("invalid_name")

type DuplicateLocationNameError struct {
	Name string
}

func (e *DuplicateLocationNameError) Error() string {
	return fmt.Sprintf("location name already exists: %s", e.Name)
}

type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, location *Location) error
	FindAll(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) ([]Location, error)
	// FindDefault returns the explicit default location, else the first
	// created one, else nil.
	FindDefault(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) (*Location, error)
}

type Service interface {
	Create(ctx context.Context, name string, isDefault bool) (*Location, error)
	List(ctx context.Context) ([]Location, error)
	Default(ctx context.Context) (*Location, error)
}

package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrLevelNotFound    = errors.New("inventory_level_not_found")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrLocationRequired = errors.New("location_required")
)

// InsufficientStockError reports a sale rejected for lack of available
// stock. The enclosing transaction rolls back, so the rejection is
// side-effect-free.
type InsufficientStockError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %s, available %s", e.Requested, e.Available)
}

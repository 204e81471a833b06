package domain

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotFound     = errors.New("item_not_found")
	ErrSelfComposition  = errors.New("self_composition_rejected")
	ErrInvalidKind      = errors.New("invalid_item_kind")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidSKU       = errors.New("invalid_sku")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrCategoryNotFound = errors.New("category_not_found")
)

// DuplicateSKUError reports a SKU uniqueness violation for the tenant.
type DuplicateSKUError struct {
	SKU string
}

func (e *DuplicateSKUError) Error() string {
	return fmt.Sprintf("sku already exists: %s", e.SKU)
}

type DuplicateCategoryNameError struct {
	Name string
}

func (e *DuplicateCategoryNameError) Error() string {
	return fmt.Sprintf("category name already exists: %s", e.Name)
}

// DuplicateUnitError carries whichever of name/symbol collided.
type DuplicateUnitError struct {
	Name   string
	Symbol string
}

func (e *DuplicateUnitError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("unit symbol already exists: %s", e.Symbol)
	}
	return fmt.Sprintf("unit name already exists: %s", e.Name)
}

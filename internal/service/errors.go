package service

import (
	"errors"

	"go-factory-planner/internal/planner"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrMaterialNotFound  = errors.New("raw material not found")
	ErrRunNotFound       = errors.New("production run not found")
	ErrInvalidQuantity   = errors.New("Invalid quantity")
	ErrMaterialInUse     = errors.New("raw material is used by at least one product")
	ErrDuplicateMaterial = errors.New("raw material name already exists")
)

// ValidationError carries the first failed field of a request body
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// InsufficientStockError is returned by a commit that real stock cannot cover.
type InsufficientStockError struct {
	MaterialName string
	Shortage     *planner.ShortageError
}

func (e *InsufficientStockError) Error() string {
	return "Insufficient stock of " + e.MaterialName
}

func (e *InsufficientStockError) Unwrap() error {
	if e.Shortage == nil {
		return nil
	}
	return e.Shortage
}

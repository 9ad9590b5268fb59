package planner

import (
	"fmt"

	"github.com/google/uuid"
)

// ShortageError names the first BOM line that real stock cannot cover.
type ShortageError struct {
	MaterialID uuid.UUID
	Required   float64
	Available  float64
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("material %s: required %g, available %g", e.MaterialID, e.Required, e.Available)
}

// CheckFeasibility verifies that stock covers quantity units of a product.
// Lines are checked in order and the first shortage is returned; nothing is
// mutated. Repeated lines for one material are checked on their sum.
func CheckFeasibility(reqs []Requirement, stock Snapshot, quantity int) error {
	merged := Recipe{Requirements: reqs}.merged()
	for _, req := range merged {
		needed := req.Quantity * float64(quantity)
		if available := stock.Available(req.MaterialID); available < needed {
			return &ShortageError{MaterialID: req.MaterialID, Required: needed, Available: available}
		}
	}
	return nil
}

// Consumption returns how much of each material quantity units consume.
func Consumption(reqs []Requirement, quantity int) []Requirement {
	merged := Recipe{Requirements: reqs}.merged()
	for i := range merged {
		merged[i].Quantity *= float64(quantity)
	}
	return merged
}
